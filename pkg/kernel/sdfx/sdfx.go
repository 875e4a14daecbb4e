// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"errors"
	"math"

	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/geom"
	"github.com/chazu/druse/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 200

// ErrEmpty is returned when a crystal has no faces to build a solid from.
var ErrEmpty = errors.New("sdfx: polyhedron has no faces")

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// polyhedronSDF is the intersection of the face half-spaces. The value is
// the largest signed plane distance, exact inside and a lower bound outside.
type polyhedronSDF struct {
	planes []geom.Plane
	bb     sdf.Box3
}

// Evaluate returns the signed distance estimate at p.
func (s *polyhedronSDF) Evaluate(p v3.Vec) float64 {
	d := math.Inf(-1)
	for _, pl := range s.planes {
		d = math.Max(d, pl.DistanceTo(p))
	}
	return d
}

// BoundingBox returns the vertex bounds padded so the surface is not
// clipped by the marching cubes grid.
func (s *polyhedronSDF) BoundingBox() sdf.Box3 {
	return s.bb
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a new SdfxKernel. cells sets the marching cubes resolution
// along the longest axis; values below 1 select DefaultMeshCells.
func New(cells ...int) *SdfxKernel {
	k := &SdfxKernel{cells: DefaultMeshCells}
	if len(cells) > 0 && cells[0] > 0 {
		k.cells = cells[0]
	}
	return k
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Crystal builds an SDF from the faces of p. Face planes are mapped
// through b with its inverse transpose so they stay attached to the
// transformed vertices.
func (k *SdfxKernel) Crystal(p *crystal.Polyhedron, b geom.Basis) (kernel.Solid, error) {
	faces := p.Faces()
	if len(faces) == 0 {
		return nil, ErrEmpty
	}
	nt, err := b.NormalTransform()
	if err != nil {
		return nil, err
	}
	planes := lo.Map(faces, func(f *crystal.Face, _ int) geom.Plane {
		return geom.TransformPlane(p.Planes()[f.Plane], nt)
	})
	pts := lo.FlatMap(faces, func(f *crystal.Face, _ int) []v3.Vec {
		return f.Transformed(b)
	})
	mn, mx := geom.Bounds(pts)
	pad := mx.Sub(mn).MulScalar(0.05)
	return wrap(&polyhedronSDF{
		planes: planes,
		bb:     sdf.Box3{Min: mn.Sub(pad), Max: mx.Add(pad)},
	}), nil
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Triangles renders s with marching cubes.
func (k *SdfxKernel) Triangles(s kernel.Solid) []*sdf.Triangle3 {
	renderer := render.NewMarchingCubesUniform(k.cells)
	return render.ToTriangles(unwrap(s), renderer)
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	triangles := k.Triangles(s)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	tangents := make([]float32, 0, numVerts*4)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)
		t := v3.Vec{X: 1}
		if e := tri[1].Sub(tri[0]); e.Length() > 0 {
			t = e.Normalize()
		}

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			tangents = append(tangents, float32(t.X), float32(t.Y), float32(t.Z), 1)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Tangents: tangents,
		Indices:  indices,
	}, nil
}
