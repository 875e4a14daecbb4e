//go:build manifold

// Package manifold provides a CGo-based geometry kernel binding to the
// Manifold library (https://github.com/elalish/manifold). Crystals are
// built as convex hulls and combined with Manifold's exact mesh booleans,
// so unions of intersecting crystals stay watertight.
//
// This package requires the Manifold C library (manifoldc) to be installed.
// Build with: go build -tags=manifold
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/geom"
	"github.com/chazu/druse/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface checks.
var _ kernel.Kernel = (*ManifoldKernel)(nil)
var _ kernel.Solid = (*manifoldSolid)(nil)

// ErrEmpty is returned when a crystal has no vertices to hull.
var ErrEmpty = errors.New("manifold: polyhedron has no vertices")

type manifoldSolid struct {
	ptr *C.ManifoldManifold
}

func (s *manifoldSolid) BoundingBox() (min, max [3]float64) {
	box := C.manifold_bounding_box(C.manifold_alloc_box(), s.ptr)
	defer C.manifold_delete_box(box)

	min = [3]float64{
		float64(C.manifold_box_min_x(box)),
		float64(C.manifold_box_min_y(box)),
		float64(C.manifold_box_min_z(box)),
	}
	max = [3]float64{
		float64(C.manifold_box_max_x(box)),
		float64(C.manifold_box_max_y(box)),
		float64(C.manifold_box_max_z(box)),
	}
	return min, max
}

// wrap takes ownership of ptr; the finalizer frees it.
func wrap(ptr *C.ManifoldManifold) kernel.Solid {
	s := &manifoldSolid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *manifoldSolid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

func unwrap(s kernel.Solid) *C.ManifoldManifold {
	return s.(*manifoldSolid).ptr
}

// ManifoldKernel implements kernel.Kernel using the Manifold C library.
type ManifoldKernel struct{}

// New returns the Manifold kernel.
func New() (kernel.Kernel, error) {
	return &ManifoldKernel{}, nil
}

// Crystal builds the solid as the convex hull of the polyhedron's
// vertices mapped through b. A generated crystal is convex, so the hull
// is exact.
func (k *ManifoldKernel) Crystal(p *crystal.Polyhedron, b geom.Basis) (kernel.Solid, error) {
	verts := p.Vertices()
	if len(verts) == 0 {
		return nil, ErrEmpty
	}
	pts := make([]C.ManifoldVec3, len(verts))
	for i, v := range verts {
		w := b.Apply(v.Pos)
		pts[i] = C.ManifoldVec3{x: C.double(w.X), y: C.double(w.Y), z: C.double(w.Z)}
	}
	return wrap(C.manifold_hull_pts(C.manifold_alloc_manifold(), &pts[0], C.size_t(len(pts)))), nil
}

func (k *ManifoldKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(C.manifold_union(C.manifold_alloc_manifold(), unwrap(a), unwrap(b)))
}

func (k *ManifoldKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(C.manifold_translate(C.manifold_alloc_manifold(), unwrap(s),
		C.double(x), C.double(y), C.double(z)))
}

// Rotate applies Euler angles in degrees, X first, matching the other
// kernels.
func (k *ManifoldKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(C.manifold_rotate(C.manifold_alloc_manifold(), unwrap(s),
		C.double(x), C.double(y), C.double(z)))
}

// ToMesh reads the solid back through MeshGL and rebuilds it as a
// flat-shaded kernel mesh, one polygon per Manifold triangle.
func (k *ManifoldKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	gl := C.manifold_get_meshgl(C.manifold_alloc_meshgl(), unwrap(s))
	defer C.manifold_delete_meshgl(gl)

	nv := int(C.manifold_meshgl_num_vert(gl))
	nt := int(C.manifold_meshgl_num_tri(gl))
	if nv == 0 || nt == 0 {
		return &kernel.Mesh{}, nil
	}

	// Positions are the first three of numProp floats per vertex.
	stride := int(C.manifold_meshgl_num_prop(gl))
	if stride < 3 {
		return nil, fmt.Errorf("manifold: %d vertex properties, want at least 3", stride)
	}
	props := make([]float32, nv*stride)
	C.manifold_meshgl_vert_properties((*C.float)(unsafe.Pointer(&props[0])), gl)
	tris := make([]uint32, nt*3)
	C.manifold_meshgl_tri_verts((*C.uint32_t)(unsafe.Pointer(&tris[0])), gl)

	at := func(i uint32) v3.Vec {
		o := int(i) * stride
		return v3.Vec{X: float64(props[o]), Y: float64(props[o+1]), Z: float64(props[o+2])}
	}

	polys := make([][]v3.Vec, 0, nt)
	normals := make([]v3.Vec, 0, nt)
	for t := 0; t < nt; t++ {
		a, b, c := at(tris[3*t]), at(tris[3*t+1]), at(tris[3*t+2])
		n := b.Sub(a).Cross(c.Sub(a))
		if geom.IsZero(n) {
			continue
		}
		polys = append(polys, []v3.Vec{a, b, c})
		normals = append(normals, n.Normalize())
	}
	return kernel.FromPolygons(polys, normals), nil
}
