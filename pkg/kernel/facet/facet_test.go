package facet

import (
	"testing"

	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/geom"
	"github.com/chazu/druse/pkg/kernel"
	"github.com/chazu/druse/pkg/symmetry"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func octahedron(t *testing.T) *crystal.Polyhedron {
	t.Helper()
	p, err := crystal.Generate(crystal.Description{
		Name:      "octahedron",
		Group:     symmetry.MBarThreeM,
		Normals:   []v3.Vec{{X: 1, Y: 1, Z: 1}},
		Distances: []float64{1},
	})
	require.NoError(t, err)
	return p
}

func assertBounds(t *testing.T, s kernel.Solid, wantMin, wantMax [3]float64) {
	t.Helper()
	mn, mx := s.BoundingBox()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, wantMin[i], mn[i], 1e-9, "min[%d]", i)
		assert.InDelta(t, wantMax[i], mx[i], 1e-9, "max[%d]", i)
	}
}

func TestCrystal(t *testing.T) {
	k := New()
	s, err := k.Crystal(octahedron(t), geom.Identity)
	require.NoError(t, err)
	assertBounds(t, s, [3]float64{-1, -1, -1}, [3]float64{1, 1, 1})

	mesh, err := k.ToMesh(s)
	require.NoError(t, err)
	assert.Equal(t, 8, mesh.TriangleCount())
	assert.Equal(t, 24, mesh.VertexCount())
	assert.Len(t, mesh.Normals, len(mesh.Vertices))
	assert.Len(t, mesh.Tangents, mesh.VertexCount()*4)
}

func TestCrystalWithCell(t *testing.T) {
	b, err := geom.Cell{A: 2, B: 2, C: 5, Alpha: 90, Beta: 90, Gamma: 90}.Basis()
	require.NoError(t, err)
	s, err := New().Crystal(octahedron(t), b)
	require.NoError(t, err)
	assertBounds(t, s, [3]float64{-2, -2, -5}, [3]float64{2, 2, 5})
}

func TestTransforms(t *testing.T) {
	k := New()
	s, err := k.Crystal(octahedron(t), geom.Identity)
	require.NoError(t, err)
	stretched, err := k.Crystal(octahedron(t), geom.Basis{{X: 3}, {Y: 1}, {Z: 1}})
	require.NoError(t, err)

	tests := []struct {
		name             string
		solid            func() kernel.Solid
		wantMin, wantMax [3]float64
	}{
		{"translate", func() kernel.Solid { return k.Translate(s, 10, 20, 30) },
			[3]float64{9, 19, 29}, [3]float64{11, 21, 31}},
		{"rotate z", func() kernel.Solid { return k.Rotate(stretched, 0, 0, 90) },
			[3]float64{-1, -3, -1}, [3]float64{1, 3, 1}},
		{"rotate y", func() kernel.Solid { return k.Rotate(stretched, 0, 90, 0) },
			[3]float64{-1, -1, -3}, [3]float64{1, 1, 3}},
		{"union", func() kernel.Solid { return k.Union(s, k.Translate(s, 5, 0, 0)) },
			[3]float64{-1, -1, -1}, [3]float64{6, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertBounds(t, tt.solid(), tt.wantMin, tt.wantMax)
		})
	}
}

func TestUnionMesh(t *testing.T) {
	k := New()
	s, err := k.Crystal(octahedron(t), geom.Identity)
	require.NoError(t, err)
	mesh, err := k.ToMesh(k.Union(s, k.Translate(s, 5, 0, 0)))
	require.NoError(t, err)
	assert.Equal(t, 16, mesh.TriangleCount())
}

func TestRotatedNormals(t *testing.T) {
	k := New()
	s, err := k.Crystal(octahedron(t), geom.Identity)
	require.NoError(t, err)
	mesh, err := k.ToMesh(k.Rotate(s, 30, 45, 60))
	require.NoError(t, err)
	for i := 0; i < len(mesh.Vertices); i += 3 {
		v := v3.Vec{X: float64(mesh.Vertices[i]), Y: float64(mesh.Vertices[i+1]), Z: float64(mesh.Vertices[i+2])}
		n := v3.Vec{X: float64(mesh.Normals[i]), Y: float64(mesh.Normals[i+1]), Z: float64(mesh.Normals[i+2])}
		assert.InDelta(t, 1/1.7320508075688772, n.Dot(v), 1e-5, "vertex %d lies on its face plane", i/3)
	}
}
