package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/geom"
	"github.com/chazu/druse/pkg/scene"
	"github.com/chazu/druse/pkg/symmetry"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for record files with an unsupported extension.
var ErrUnknownFormat = errors.New("export: unknown record format")

// Format is a record file encoding.
type Format int

const (
	JSON Format = iota
	YAML
	TOML
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// ParseFormat parses a format name ("json", "yaml", "yml" or "toml").
func ParseFormat(name string) (Format, error) {
	if name == "" || strings.ContainsAny(name, "./") {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return FormatFromPath("." + name)
}

// Ext returns the file extension for f, with the leading dot.
func (f Format) Ext() string {
	return "." + f.String()
}

// Record is the saved form of one crystal: its seed faces, point group,
// per-seed materials and unit cell.
type Record struct {
	Name        string              `json:"name" yaml:"name" toml:"name"`
	PointGroup  symmetry.PointGroup `json:"point_group" yaml:"point_group" toml:"point_group"`
	Normals     [][3]float64        `json:"normals" yaml:"normals" toml:"normals"`
	Distances   []float64           `json:"distances" yaml:"distances" toml:"distances"`
	Materials   []scene.Material    `json:"materials,omitempty" yaml:"materials,omitempty" toml:"materials,omitempty"`
	AxisAngles  [3]float64          `json:"axis_angles" yaml:"axis_angles" toml:"axis_angles"`
	AxisLengths [3]float64          `json:"axis_lengths" yaml:"axis_lengths" toml:"axis_lengths"`
}

// FromCrystal builds a record from a scene crystal.
func FromCrystal(c *scene.Crystal) Record {
	d := c.Description
	return Record{
		Name:       d.Name,
		PointGroup: d.Group,
		Normals: lo.Map(d.Normals, func(n v3.Vec, _ int) [3]float64 {
			return [3]float64{n.X, n.Y, n.Z}
		}),
		Distances:   append([]float64(nil), d.Distances...),
		Materials:   append([]scene.Material(nil), c.Materials...),
		AxisAngles:  [3]float64{c.Cell.Alpha, c.Cell.Beta, c.Cell.Gamma},
		AxisLengths: [3]float64{c.Cell.A, c.Cell.B, c.Cell.C},
	}
}

// Crystal converts the record back to a scene crystal. A record without
// axis lengths gets the default cell of its point group.
func (r Record) Crystal() (*scene.Crystal, error) {
	if len(r.Normals) != len(r.Distances) {
		return nil, fmt.Errorf("export: record %q: %w: %d normals, %d distances",
			r.Name, crystal.ErrCountMismatch, len(r.Normals), len(r.Distances))
	}
	cell := symmetry.DefaultCell(r.PointGroup)
	if r.AxisLengths != [3]float64{} {
		cell = geom.Cell{
			A: r.AxisLengths[0], B: r.AxisLengths[1], C: r.AxisLengths[2],
			Alpha: r.AxisAngles[0], Beta: r.AxisAngles[1], Gamma: r.AxisAngles[2],
		}
	}
	return &scene.Crystal{
		Description: crystal.Description{
			Name:  r.Name,
			Group: r.PointGroup,
			Normals: lo.Map(r.Normals, func(n [3]float64, _ int) v3.Vec {
				return v3.Vec{X: n[0], Y: n[1], Z: n[2]}
			}),
			Distances: append([]float64(nil), r.Distances...),
		},
		Cell:      cell,
		Materials: append([]scene.Material(nil), r.Materials...),
	}, nil
}

// Marshal encodes r.
func Marshal(f Format, r Record) ([]byte, error) {
	switch f {
	case JSON:
		return json.MarshalIndent(r, "", "  ")
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case TOML:
		return toml.Marshal(r)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
}

// Unmarshal decodes a record.
func Unmarshal(f Format, data []byte) (Record, error) {
	var r Record
	var err error
	switch f {
	case JSON:
		err = json.Unmarshal(data, &r)
	case YAML:
		err = yaml.Unmarshal(data, &r)
	case TOML:
		err = toml.Unmarshal(data, &r)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
	return r, err
}

// Load reads a record, choosing the format from the extension.
func Load(path string) (Record, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return Record{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("export: %w", err)
	}
	r, err := Unmarshal(f, data)
	if err != nil {
		return Record{}, fmt.Errorf("export: decode %s: %w", path, err)
	}
	return r, nil
}

// Save writes r, choosing the format from the extension. An unnamed
// record takes the file's base name.
func Save(path string, r Record) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if r.Name == "" {
		r.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	data, err := Marshal(f, r)
	if err != nil {
		return fmt.Errorf("export: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
