// Package facet implements the kernel.Kernel interface with exact planar
// polygons. Crystals keep their true faces and edges, so meshes are small
// and sharp. Union collects polygons without resolving overlaps.
package facet

import (
	"errors"

	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/geom"
	"github.com/chazu/druse/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// ErrEmpty is returned when a crystal has no faces to build a solid from.
var ErrEmpty = errors.New("facet: polyhedron has no faces")

// solid is a set of outward-wound convex polygons.
type solid struct {
	polys   [][]v3.Vec
	normals []v3.Vec
}

// BoundingBox returns the axis-aligned bounding box.
func (s *solid) BoundingBox() (min, max [3]float64) {
	a, b := geom.Bounds(lo.Flatten(s.polys))
	return [3]float64{a.X, a.Y, a.Z}, [3]float64{b.X, b.Y, b.Z}
}

// transform applies f to every vertex and g to every normal.
func (s *solid) transform(f, g func(v3.Vec) v3.Vec) *solid {
	out := &solid{
		polys:   make([][]v3.Vec, len(s.polys)),
		normals: lo.Map(s.normals, func(n v3.Vec, _ int) v3.Vec { return g(n) }),
	}
	for i, poly := range s.polys {
		out.polys[i] = lo.Map(poly, func(v v3.Vec, _ int) v3.Vec { return f(v) })
	}
	return out
}

// Kernel implements kernel.Kernel with exact polygons.
type Kernel struct{}

// New returns a new facet Kernel.
func New() *Kernel {
	return &Kernel{}
}

func unwrap(s kernel.Solid) *solid {
	return s.(*solid)
}

// Crystal builds a solid from the faces of p mapped through b.
func (k *Kernel) Crystal(p *crystal.Polyhedron, b geom.Basis) (kernel.Solid, error) {
	polys, normals := kernel.Outward(p.Faces(), b)
	if len(polys) == 0 {
		return nil, ErrEmpty
	}
	return &solid{polys: polys, normals: normals}, nil
}

// Union returns both solids' polygons together.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	return &solid{
		polys:   append(append([][]v3.Vec{}, sa.polys...), sb.polys...),
		normals: append(append([]v3.Vec{}, sa.normals...), sb.normals...),
	}
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	d := v3.Vec{X: x, Y: y, Z: z}
	return unwrap(s).transform(
		func(v v3.Vec) v3.Vec { return v.Add(d) },
		func(n v3.Vec) v3.Vec { return n },
	)
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	r := geom.Rotation(x, y, z)
	return unwrap(s).transform(r.Apply, r.Apply)
}

// ToMesh fan-triangulates every polygon with flat normals.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	ss := unwrap(s)
	return kernel.FromPolygons(ss.polys, ss.normals), nil
}
