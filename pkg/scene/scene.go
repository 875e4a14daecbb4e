// Package scene defines the crystal scene produced by DSL evaluation: the
// named crystal descriptions and where each copy of them is placed.
// A Scene is never mutated after evaluation returns; each evaluation
// produces a new one.
package scene

import (
	"fmt"

	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/geom"
)

// Material is the rendering hint attached to one seed face. Advisory only;
// generation ignores it.
type Material struct {
	R          float64 `json:"r" yaml:"r" toml:"r"`
	G          float64 `json:"g" yaml:"g" toml:"g"`
	B          float64 `json:"b" yaml:"b" toml:"b"`
	A          float64 `json:"a" yaml:"a" toml:"a"`
	Roughness  float64 `json:"roughness" yaml:"roughness" toml:"roughness"`
	Refraction float64 `json:"refraction" yaml:"refraction" toml:"refraction"`
}

// DefaultMaterial is an opaque mid grey.
var DefaultMaterial = Material{R: 0.7, G: 0.7, B: 0.7, A: 1, Roughness: 0.5, Refraction: 1.5}

// Crystal is a named crystal description with its unit cell and one
// optional material per seed face.
type Crystal struct {
	Description crystal.Description
	Cell        geom.Cell
	Materials   []Material
}

// Name returns the crystal's name.
func (c *Crystal) Name() string {
	return c.Description.Name
}

// Material returns the material of seed i, or DefaultMaterial.
func (c *Crystal) Material(i int) Material {
	if i >= 0 && i < len(c.Materials) {
		return c.Materials[i]
	}
	return DefaultMaterial
}

// Placement puts one copy of a named crystal in the scene. Rotation is
// applied before translation.
type Placement struct {
	Crystal  string
	At       Vec3
	Rotation *Vec3 // Euler angles in degrees
}

// Vec3 is a point or direction in scene space.
type Vec3 struct {
	X, Y, Z float64
}

// Scene is the top-level structure produced by evaluation.
type Scene struct {
	Crystals   []*Crystal
	Placements []Placement
	Version    uint64
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{}
}

// Add appends a crystal. It does not check for duplicate names; Validate
// reports them.
func (s *Scene) Add(c *Crystal) {
	s.Crystals = append(s.Crystals, c)
}

// Place appends a placement.
func (s *Scene) Place(p Placement) {
	s.Placements = append(s.Placements, p)
}

// Lookup returns the first crystal with the given name, or nil.
func (s *Scene) Lookup(name string) *Crystal {
	for _, c := range s.Crystals {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// MustLookup returns the crystal with the given name, or panics.
func (s *Scene) MustLookup(name string) *Crystal {
	c := s.Lookup(name)
	if c == nil {
		panic(fmt.Sprintf("scene: no crystal named %q", name))
	}
	return c
}

// PlaceAll places every crystal at the origin. Used when a script defines
// crystals without placing any.
func (s *Scene) PlaceAll() {
	for _, c := range s.Crystals {
		s.Place(Placement{Crystal: c.Name()})
	}
}

// CrystalCount returns the number of crystals defined.
func (s *Scene) CrystalCount() int {
	return len(s.Crystals)
}
