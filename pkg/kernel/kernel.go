// Package kernel defines the abstract geometry kernel interface.
// Implementations (facet, sdfx) turn generated crystals into solids,
// place and combine them, and tessellate the result. The kernel
// abstraction allows swapping backends without changing the rest of the
// system.
package kernel

import (
	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/geom"
)

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Crystal builds a solid from a generated polyhedron, mapping its
	// lattice coordinates through the cell basis.
	Crystal(p *crystal.Polyhedron, b geom.Basis) (Solid, error)

	// Union combines two solids.
	Union(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
