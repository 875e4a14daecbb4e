package crystal

import (
	"github.com/chazu/druse/pkg/geom"
	"github.com/chazu/druse/pkg/symmetry"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// Face is one planar boundary polygon, wound as requested at generation.
type Face struct {
	// Plane indexes Polyhedron.Planes.
	Plane int
	// Seed is the input index of the seed whose orbit produced the plane.
	Seed int
	// Normal is the outward unit normal of the plane.
	Normal v3.Vec
	// Vertices is the polygon loop; Indices holds the matching Polyhedron.Vertices ids.
	Vertices []v3.Vec
	Indices  []int
	// Closed is false for a loop recovered from an open trace.
	Closed bool
}

// Area returns the face area in lattice coordinates.
func (f *Face) Area() float64 {
	return geom.PolygonArea(f.Vertices)
}

// Transformed returns the face vertices mapped through b.
func (f *Face) Transformed(b geom.Basis) []v3.Vec {
	return lo.Map(f.Vertices, func(v v3.Vec, _ int) v3.Vec { return b.Apply(v) })
}

// FaceGroup holds the faces descended from one seed.
type FaceGroup struct {
	Seed  int
	Faces []*Face
}

// Polyhedron is a generated crystal: its faces, grouped by seed, and the
// planes and vertices they were built from. It is immutable.
type Polyhedron struct {
	group    symmetry.PointGroup
	planes   []geom.Plane
	vertices []Vertex
	faces    []*Face
	groups   []FaceGroup
	// seedPlanes[i] is the plane of input seed i; seedOK[i] is false for dropped seeds.
	seedPlanes []geom.Plane
	seedOK     []bool
}

// Group returns the point group the polyhedron was generated with.
func (p *Polyhedron) Group() symmetry.PointGroup { return p.group }

// Faces returns every face.
func (p *Polyhedron) Faces() []*Face { return p.faces }

// Groups returns the faces partitioned by seed, in seed order. Seeds that
// produced no faces have no group.
func (p *Polyhedron) Groups() []FaceGroup { return p.groups }

// Planes returns every accepted half-space, including those that ended
// up without a face.
func (p *Polyhedron) Planes() []geom.Plane { return p.planes }

// Vertices returns the polyhedron corners referenced by faces.
func (p *Polyhedron) Vertices() []Vertex { return p.vertices }

// EdgeCount returns the number of distinct polygon edges.
func (p *Polyhedron) EdgeCount() int {
	return len(p.edges())
}

func (p *Polyhedron) edges() map[[2]int]struct{} {
	out := map[[2]int]struct{}{}
	for _, f := range p.faces {
		for i, a := range f.Indices {
			b := f.Indices[(i+1)%len(f.Indices)]
			out[[2]int{min(a, b), max(a, b)}] = struct{}{}
		}
	}
	return out
}

// FindFaceGroup returns the index into Groups of the group holding a face
// on seed's plane. ok is false for an out-of-range or dropped seed, or one
// whose plane produced no face.
func (p *Polyhedron) FindFaceGroup(seed int) (int, bool) {
	if seed < 0 || seed >= len(p.seedPlanes) || !p.seedOK[seed] {
		return -1, false
	}
	pl := p.seedPlanes[seed]
	for i, g := range p.groups {
		for _, f := range g.Faces {
			if lo.EveryBy(f.Vertices, pl.Contains) {
				return i, true
			}
		}
	}
	return -1, false
}

// Area returns the surface area after mapping every vertex through b.
func (p *Polyhedron) Area(b geom.Basis) float64 {
	return lo.SumBy(p.faces, func(f *Face) float64 {
		return geom.PolygonArea(f.Transformed(b))
	})
}

// Volume returns the enclosed volume after mapping every vertex through b,
// by the divergence theorem over the faces. Each face is oriented by its
// plane's outward normal, so the origin need not lie inside. A singular b
// has volume 0.
func (p *Polyhedron) Volume(b geom.Basis) float64 {
	nt, err := b.NormalTransform()
	if err != nil {
		return 0
	}
	sum := lo.SumBy(p.faces, func(f *Face) float64 {
		pts := f.Transformed(b)
		a := geom.AreaVector(pts)
		if a.Dot(nt.Apply(f.Normal)) < 0 {
			a = a.Neg()
		}
		return pts[0].Dot(a)
	})
	return sum / 3
}
