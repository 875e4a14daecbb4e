package main

import (
	"os"
	"testing"
)

// TestE2EQuartzExample exercises the full pipeline: Lisp source → engine →
// scene → tessellate → meshes. This is the same path that the Wails
// Evaluate binding takes, but without the Wails runtime.
func TestE2EQuartzExample(t *testing.T) {
	app := NewApp()

	source, err := os.ReadFile("examples/quartz.druse")
	if err != nil {
		t.Fatalf("failed to read quartz.druse: %v", err)
	}

	result := app.Evaluate(string(source))

	// No errors expected.
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}

	// One crystal, placed once at the origin.
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	m := result.Meshes[0]
	if m.PartName != "quartz" {
		t.Errorf("expected part name 'quartz', got %q", m.PartName)
	}
	if len(m.Vertices) == 0 || len(m.Normals) == 0 || len(m.Indices) == 0 {
		t.Errorf("quartz mesh has empty geometry: %d vertices, %d normals, %d indices",
			len(m.Vertices), len(m.Normals), len(m.Indices))
	}
	if len(m.Tangents) != len(m.Vertices)/3*4 {
		t.Errorf("expected 4 tangent floats per vertex, got %d for %d vertices", len(m.Tangents), len(m.Vertices)/3)
	}

	// The first seed's material colours the whole placement.
	if m.Color != "#F2F2FF" {
		t.Errorf("expected colour #F2F2FF from the clear material, got %q", m.Color)
	}
	if m.Opacity != 0.6 {
		t.Errorf("expected opacity 0.6, got %v", m.Opacity)
	}

	if len(result.Crystals) != 1 {
		t.Fatalf("expected stats for 1 crystal, got %d", len(result.Crystals))
	}
	st := result.Crystals[0]
	if st.Group != "-3m1" {
		t.Errorf("expected group -3m1, got %q", st.Group)
	}
	// Six prism faces plus at least six rhombohedral caps.
	if st.Faces < 12 {
		t.Errorf("expected at least 12 faces, got %d", st.Faces)
	}
	if st.Volume <= 0 {
		t.Errorf("expected positive volume, got %v", st.Volume)
	}
	if st.Anomalies != 0 {
		t.Errorf("expected no anomalies, got %d", st.Anomalies)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("(crystal \"test\"")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

// TestE2ESingleCrystal ensures a minimal cube renders one mesh.
func TestE2ESingleCrystal(t *testing.T) {
	app := NewApp()
	source := `(crystal "cube" :group "m-3m" (face (vec3 1 0 0) 1))`
	result := app.Evaluate(source)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	m := result.Meshes[0]
	if m.PartName != "cube" {
		t.Errorf("expected part name 'cube', got %q", m.PartName)
	}
	// Six quads, two triangles each.
	if len(m.Indices) != 36 {
		t.Errorf("expected 36 indices, got %d", len(m.Indices))
	}
	if m.Color != colorPalette[0] {
		t.Errorf("expected palette colour %s, got %q", colorPalette[0], m.Color)
	}
	if got := result.Crystals[0].Volume; got < 8-1e-9 || got > 8+1e-9 {
		t.Errorf("expected volume 8, got %v", got)
	}
}
