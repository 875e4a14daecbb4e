// Package export writes generated crystals to disk: binary STL meshes and
// crystal description records in JSON, YAML or TOML.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/geom"
	"github.com/chazu/druse/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Triangles fan-triangulates the faces of p mapped through b, wound
// counter-clockwise seen from outside as STL expects.
func Triangles(p *crystal.Polyhedron, b geom.Basis) []*sdf.Triangle3 {
	polys, _ := kernel.Outward(p.Faces(), b)
	var out []*sdf.Triangle3
	for _, poly := range polys {
		for i := 1; i+1 < len(poly); i++ {
			out = append(out, &sdf.Triangle3{poly[0], poly[i], poly[i+1]})
		}
	}
	return out
}

// MeshTriangles converts an indexed kernel mesh back to triangles.
func MeshTriangles(m *kernel.Mesh) []*sdf.Triangle3 {
	vertex := func(i uint32) v3.Vec {
		return v3.Vec{
			X: float64(m.Vertices[i*3]),
			Y: float64(m.Vertices[i*3+1]),
			Z: float64(m.Vertices[i*3+2]),
		}
	}
	out := make([]*sdf.Triangle3, 0, m.TriangleCount())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		out = append(out, &sdf.Triangle3{vertex(m.Indices[i]), vertex(m.Indices[i+1]), vertex(m.Indices[i+2])})
	}
	return out
}

// STLPath returns path with exactly one ".stl" extension.
func STLPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".stl") {
		return path
	}
	return path + ".stl"
}

// SaveSTL writes triangles to a binary STL file, adding the ".stl"
// extension if path lacks it. It returns the path written.
func SaveSTL(path string, tris []*sdf.Triangle3) (string, error) {
	if len(tris) == 0 {
		return "", fmt.Errorf("export: no triangles to write")
	}
	path = STLPath(path)
	if err := render.SaveSTL(path, tris); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	return path, nil
}

// SaveCrystalSTL writes the faces of p mapped through b.
func SaveCrystalSTL(path string, p *crystal.Polyhedron, b geom.Basis) (string, error) {
	return SaveSTL(path, Triangles(p, b))
}
