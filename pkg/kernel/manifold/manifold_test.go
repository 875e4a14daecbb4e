//go:build manifold

package manifold

import (
	"math"
	"testing"

	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/geom"
	"github.com/chazu/druse/pkg/kernel"
	"github.com/chazu/druse/pkg/symmetry"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func mustNew(t *testing.T) kernel.Kernel {
	t.Helper()
	k, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return k
}

// cube builds the crystal solid of a cube with half-width d.
func cube(t *testing.T, k kernel.Kernel, d float64) kernel.Solid {
	t.Helper()
	p, err := crystal.Generate(crystal.Description{
		Name:      "cube",
		Group:     symmetry.MBarThreeM,
		Normals:   []v3.Vec{{X: 1}},
		Distances: []float64{d},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	s, err := k.Crystal(p, geom.Identity)
	if err != nil {
		t.Fatalf("Crystal() error = %v", err)
	}
	return s
}

func checkBounds(t *testing.T, s kernel.Solid, wantMin, wantMax [3]float64) {
	t.Helper()
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > 1e-6 {
			t.Errorf("min[%d] = %f, want %f", i, min[i], wantMin[i])
		}
		if math.Abs(max[i]-wantMax[i]) > 1e-6 {
			t.Errorf("max[%d] = %f, want %f", i, max[i], wantMax[i])
		}
	}
}

func TestCrystal(t *testing.T) {
	k := mustNew(t)
	checkBounds(t, cube(t, k, 5), [3]float64{-5, -5, -5}, [3]float64{5, 5, 5})
}

func TestCrystalCell(t *testing.T) {
	k := mustNew(t)
	p, err := crystal.Generate(crystal.Description{
		Group:     symmetry.MMM,
		Normals:   []v3.Vec{{X: 1}, {Y: 1}, {Z: 1}},
		Distances: []float64{1, 1, 1},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	b, err := geom.Cell{A: 1, B: 2, C: 3, Alpha: 90, Beta: 90, Gamma: 90}.Basis()
	if err != nil {
		t.Fatalf("Basis() error = %v", err)
	}
	s, err := k.Crystal(p, b)
	if err != nil {
		t.Fatalf("Crystal() error = %v", err)
	}
	checkBounds(t, s, [3]float64{-1, -2, -3}, [3]float64{1, 2, 3})
}

func TestUnion(t *testing.T) {
	k := mustNew(t)
	a := cube(t, k, 5)
	b := k.Translate(cube(t, k, 5), 8, 0, 0)
	checkBounds(t, k.Union(a, b), [3]float64{-5, -5, -5}, [3]float64{13, 5, 5})
}

func TestTranslate(t *testing.T) {
	k := mustNew(t)
	moved := k.Translate(cube(t, k, 5), 100, 200, 300)
	checkBounds(t, moved, [3]float64{95, 195, 295}, [3]float64{105, 205, 305})
}

func TestRotate(t *testing.T) {
	k := mustNew(t)
	turned := k.Rotate(cube(t, k, 5), 0, 0, 45)
	min, max := turned.BoundingBox()
	h := 5 * math.Sqrt2
	if math.Abs(max[0]-h) > 1e-6 || math.Abs(min[0]+h) > 1e-6 {
		t.Errorf("rotated X extent = [%f, %f], want ±%f", min[0], max[0], h)
	}
	if math.Abs(max[2]-5) > 1e-6 {
		t.Errorf("rotated max Z = %f, want 5", max[2])
	}
}

func TestToMesh(t *testing.T) {
	k := mustNew(t)
	mesh, err := k.ToMesh(cube(t, k, 5))
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("ToMesh() returned empty mesh for a cube")
	}

	// Manifold may split vertices along sharp edges, but a cube is never
	// fewer than 12 triangles.
	if mesh.TriangleCount() < 12 {
		t.Errorf("ToMesh() triangle count = %d, want >= 12", mesh.TriangleCount())
	}
	if len(mesh.Normals) != len(mesh.Vertices) {
		t.Errorf("ToMesh() normals length = %d, vertices length = %d, want equal",
			len(mesh.Normals), len(mesh.Vertices))
	}
}
