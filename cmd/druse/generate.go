package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/export"
	"github.com/chazu/druse/pkg/geom"
	"github.com/chazu/druse/pkg/scene"
	"github.com/chazu/druse/pkg/symmetry"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/spf13/cobra"
)

type generateFlags struct {
	name   string
	group  string
	faces  []string
	cell   string
	record string
	stl    string
	save   string
	diag   bool
}

func newGenerateCmd(c *cli) *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one crystal from seed faces or a record file",
		Example: `  druse generate --group m-3m --face 1,0,0,1 --face 1,1,1,1.5
  druse generate --record quartz.yaml --stl quartz.stl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runGenerate(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "crystal", "crystal name")
	fl.StringVarP(&f.group, "group", "g", "m-3m", "point group (Hermann-Mauguin symbol)")
	fl.StringArrayVarP(&f.faces, "face", "f", nil, "seed face as h,k,l[,distance] (repeatable)")
	fl.StringVar(&f.cell, "cell", "", "unit cell as a,b,c,alpha,beta,gamma (default follows the group)")
	fl.StringVarP(&f.record, "record", "r", "", "load the crystal from a .json, .yaml or .toml record")
	fl.StringVar(&f.stl, "stl", "", "write a binary STL")
	fl.StringVar(&f.save, "save", "", "write the crystal as a record")
	fl.BoolVar(&f.diag, "diag", false, "print generation diagnostics")
	cmd.MarkFlagsMutuallyExclusive("record", "face")
	return cmd
}

func (c *cli) runGenerate(cmd *cobra.Command, f generateFlags) error {
	cr, err := f.crystal()
	if err != nil {
		return err
	}
	b, err := cr.Cell.Basis()
	if err != nil {
		return err
	}

	var diag *crystal.Diagnostics
	opts := c.cfg.options()
	if f.diag {
		diag = &crystal.Diagnostics{}
		opts = append(opts, crystal.WithDiagnostics(diag))
	}
	p, err := crystal.Generate(cr.Description, opts...)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printStats(out, cr.Name(), p, b, diag)

	if f.stl != "" {
		path, err := export.SaveCrystalSTL(f.stl, p, b)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	if f.save != "" {
		if err := export.Save(f.save, export.FromCrystal(cr)); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", f.save)
	}
	return nil
}

// crystal builds the scene crystal from either the record or the flags.
func (f generateFlags) crystal() (*scene.Crystal, error) {
	if f.record != "" {
		r, err := export.Load(f.record)
		if err != nil {
			return nil, err
		}
		return r.Crystal()
	}

	g, err := symmetry.ParsePointGroup(f.group)
	if err != nil {
		return nil, err
	}
	if len(f.faces) == 0 {
		return nil, fmt.Errorf("generate: no seed faces; pass --face or --record")
	}
	d := crystal.Description{Name: f.name, Group: g}
	for _, s := range f.faces {
		n, dist, err := parseFace(s)
		if err != nil {
			return nil, err
		}
		d.Normals = append(d.Normals, n)
		d.Distances = append(d.Distances, dist)
	}

	cell := symmetry.DefaultCell(g)
	if f.cell != "" {
		if cell, err = parseCell(f.cell); err != nil {
			return nil, err
		}
	}
	return &scene.Crystal{Description: d, Cell: cell}, nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// parseFace reads "h,k,l" (distance 1) or "h,k,l,d".
func parseFace(s string) (v3.Vec, float64, error) {
	v, err := parseFloats(s)
	if err != nil {
		return v3.Vec{}, 0, fmt.Errorf("face %q: %w", s, err)
	}
	switch len(v) {
	case 3:
		return v3.Vec{X: v[0], Y: v[1], Z: v[2]}, 1, nil
	case 4:
		return v3.Vec{X: v[0], Y: v[1], Z: v[2]}, v[3], nil
	}
	return v3.Vec{}, 0, fmt.Errorf("face %q: want h,k,l or h,k,l,distance", s)
}

func parseCell(s string) (geom.Cell, error) {
	v, err := parseFloats(s)
	if err != nil {
		return geom.Cell{}, fmt.Errorf("cell %q: %w", s, err)
	}
	if len(v) != 6 {
		return geom.Cell{}, fmt.Errorf("cell %q: want a,b,c,alpha,beta,gamma", s)
	}
	return geom.Cell{A: v[0], B: v[1], C: v[2], Alpha: v[3], Beta: v[4], Gamma: v[5]}, nil
}
