package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/geom"
	"github.com/chazu/druse/pkg/kernel/facet"
	"github.com/chazu/druse/pkg/scene"
	"github.com/chazu/druse/pkg/symmetry"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quartz() *scene.Crystal {
	return &scene.Crystal{
		Description: crystal.Description{
			Name:      "quartz",
			Group:     symmetry.BarThreeMOne,
			Normals:   []v3.Vec{{X: 1}, {X: 1, Z: 1}},
			Distances: []float64{1, 1.3},
		},
		Cell:      geom.Cell{A: 4.91, B: 4.91, C: 5.4, Alpha: 90, Beta: 90, Gamma: 120},
		Materials: []scene.Material{{R: 0.9, G: 0.9, B: 1, A: 0.4, Roughness: 0.05, Refraction: 1.54}, scene.DefaultMaterial},
	}
}

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

// --- STL ---

func TestTriangles(t *testing.T) {
	tris := Triangles(octahedron(t), geom.Identity)
	require.Len(t, tris, 8)
	for _, tri := range tris {
		n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
		assert.Greater(t, n.Dot(tri[0]), 0.0, "wound outward")
	}
}

func TestMeshTriangles(t *testing.T) {
	k := facet.New()
	s, err := k.Crystal(octahedron(t), geom.Identity)
	require.NoError(t, err)
	m, err := k.ToMesh(s)
	require.NoError(t, err)

	tris := MeshTriangles(m)
	require.Len(t, tris, m.TriangleCount())
	assert.InDelta(t, 1.0, tris[0][0].Length(), 1e-6)
}

func TestSaveSTL(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveCrystalSTL(filepath.Join(dir, "octa"), octahedron(t), geom.Identity)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "octa.stl"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	// Binary STL: 80 byte header, triangle count, 50 bytes per triangle.
	assert.Equal(t, int64(84+50*8), info.Size())

	_, err = SaveSTL(filepath.Join(dir, "empty.stl"), nil)
	assert.Error(t, err)
}

func TestSTLPath(t *testing.T) {
	assert.Equal(t, "a.stl", STLPath("a"))
	assert.Equal(t, "a.stl", STLPath("a.stl"))
	assert.Equal(t, "a.STL", STLPath("a.STL"))
	assert.Equal(t, "a.json.stl", STLPath("a.json"))
}

// --- Records ---

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.json", JSON},
		{"dir/a.YAML", YAML},
		{"a.yml", YAML},
		{"a.toml", TOML},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	_, err := FormatFromPath("a.obj")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)
	assert.Equal(t, ".yaml", f.Ext())

	for _, bad := range []string{"", "obj", "a.json"} {
		_, err := ParseFormat(bad)
		assert.ErrorIs(t, err, ErrUnknownFormat, bad)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	want := FromCrystal(quartz())
	for _, f := range []Format{JSON, YAML, TOML} {
		t.Run(f.String(), func(t *testing.T) {
			data, err := Marshal(f, want)
			require.NoError(t, err)
			assert.Contains(t, string(data), "-3m1", "point group is stored by symbol")

			got, err := Unmarshal(f, data)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestRecordCrystal(t *testing.T) {
	c, err := FromCrystal(quartz()).Crystal()
	require.NoError(t, err)
	assert.Equal(t, quartz(), c)

	bare := Record{Name: "bare", PointGroup: symmetry.SixOverMMM, Normals: [][3]float64{{1, 0, 0}}, Distances: []float64{1}}
	c, err = bare.Crystal()
	require.NoError(t, err)
	assert.Equal(t, symmetry.DefaultCell(symmetry.SixOverMMM), c.Cell)

	bare.Distances = nil
	_, err = bare.Crystal()
	assert.ErrorIs(t, err, crystal.ErrCountMismatch)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	r := FromCrystal(quartz())
	r.Name = ""

	for _, name := range []string{"smoky.json", "smoky.yaml", "smoky.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(path, r))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, "smoky", got.Name)
			assert.Equal(t, r.Normals, got.Normals)
			assert.Equal(t, r.Materials, got.Materials)
		})
	}

	assert.ErrorIs(t, Save(filepath.Join(dir, "x.txt"), r), ErrUnknownFormat)
	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOriginalStyleJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"cube","point_group":"MBarThreeM","normals":[[1,0,0]],"distances":[1]}`), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, symmetry.MBarThreeM, r.PointGroup)

	c, err := r.Crystal()
	require.NoError(t, err)
	assert.Equal(t, symmetry.DefaultCell(symmetry.MBarThreeM), c.Cell)
	assert.Nil(t, c.Materials)
}
