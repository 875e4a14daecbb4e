package kernel

import (
	"fmt"

	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, tangents has 4 floats per vertex
// (direction plus bitangent sign), indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`           // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`            // [nx0,ny0,nz0, ...]
	Tangents []float32 `json:"tangents,omitempty"` // [tx0,ty0,tz0,w0, ...]
	Indices  []uint32  `json:"indices"`            // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"`           // which crystal placement this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Append adds the geometry of o to m, offsetting its indices.
func (m *Mesh) Append(o *Mesh) {
	base := uint32(m.VertexCount())
	m.Vertices = append(m.Vertices, o.Vertices...)
	m.Normals = append(m.Normals, o.Normals...)
	m.Tangents = append(m.Tangents, o.Tangents...)
	for _, i := range o.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

// addPolygon fan-triangulates a convex polygon wound counter-clockwise
// around normal n. Each polygon gets its own vertices so normals stay flat.
func (m *Mesh) addPolygon(poly []v3.Vec, n v3.Vec) {
	if len(poly) < 3 {
		return
	}
	t := poly[1].Sub(poly[0]).Normalize()
	base := uint32(m.VertexCount())
	for _, v := range poly {
		m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
		m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		m.Tangents = append(m.Tangents, float32(t.X), float32(t.Y), float32(t.Z), 1)
	}
	for i := 1; i+1 < len(poly); i++ {
		m.Indices = append(m.Indices, base, base+uint32(i), base+uint32(i+1))
	}
}

// Outward returns faces mapped through b as polygons wound
// counter-clockwise seen from outside, whatever winding p was generated
// with, together with their unit normals. Normals come from the face
// planes through the inverse transpose of b. A singular b yields nothing.
func Outward(faces []*crystal.Face, b geom.Basis) (polys [][]v3.Vec, normals []v3.Vec) {
	nt, err := b.NormalTransform()
	if err != nil {
		return nil, nil
	}
	for _, f := range faces {
		n := nt.Apply(f.Normal)
		if geom.IsZero(n) || len(f.Vertices) < 3 {
			continue
		}
		n = n.Normalize()
		polys = append(polys, geom.Orient(f.Transformed(b), n))
		normals = append(normals, n)
	}
	return polys, normals
}

// FromPolygons builds a flat-shaded mesh from outward-wound polygons.
func FromPolygons(polys [][]v3.Vec, normals []v3.Vec) *Mesh {
	m := &Mesh{}
	for i, poly := range polys {
		m.addPolygon(poly, normals[i])
	}
	return m
}

// FromPolyhedron returns one mesh per face group of p, so each group can be
// shaded separately. Each PartName is "name/seed".
func FromPolyhedron(p *crystal.Polyhedron, b geom.Basis, name string) []*Mesh {
	var out []*Mesh
	for _, g := range p.Groups() {
		m := FromPolygons(Outward(g.Faces, b))
		m.PartName = fmt.Sprintf("%s/%d", name, g.Seed)
		out = append(out, m)
	}
	return out
}
