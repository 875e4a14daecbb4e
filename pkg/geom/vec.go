// Package geom holds the tolerance-aware vector and half-space primitives
// used by crystal generation, plus the unit-cell basis applied at
// measurement and export time.
//
// Vectors are sdfx v3.Vec values so that generated polyhedra flow into the
// sdfx kernel and STL writer without conversion.
package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

const (
	// Epsilon is the squared-distance tolerance for vector equality.
	Epsilon = 1e-10

	// PlaneEpsilon is the linear tolerance for point/plane distance tests.
	PlaneEpsilon = 1e-9

	// ParallelEpsilon bounds 1 - |n1·n2| for two unit normals to count as parallel.
	ParallelEpsilon = 1e-10

	// DegenerateEpsilon is the squared-denominator cutoff for Intersect3.
	DegenerateEpsilon = 1e-6
)

// Equal reports whether a and b are within tolerance of each other.
func Equal(a, b v3.Vec) bool {
	return a.Sub(b).Length2() < Epsilon
}

// IsZero reports whether v is within tolerance of the origin.
func IsZero(v v3.Vec) bool {
	return v.Length2() < Epsilon
}

// Less orders vectors lexicographically by X, then Y, then Z. Components
// within tolerance compare as equal.
func Less(a, b v3.Vec) bool {
	const tol = 1e-7
	switch {
	case math.Abs(a.X-b.X) > tol:
		return a.X < b.X
	case math.Abs(a.Y-b.Y) > tol:
		return a.Y < b.Y
	case math.Abs(a.Z-b.Z) > tol:
		return a.Z < b.Z
	}
	return false
}

// Centroid returns the mean of pts. It returns the zero vector for an empty slice.
func Centroid(pts []v3.Vec) v3.Vec {
	var c v3.Vec
	if len(pts) == 0 {
		return c
	}
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.DivScalar(float64(len(pts)))
}

// AreaVector returns the vector area of a planar polygon: its normal by
// the right-hand rule over the winding, scaled by its area.
func AreaVector(pts []v3.Vec) v3.Vec {
	var a v3.Vec
	for i := 1; i+1 < len(pts); i++ {
		a = a.Add(pts[i].Sub(pts[0]).Cross(pts[i+1].Sub(pts[0])))
	}
	return a.MulScalar(0.5)
}

// PolygonNormal returns the unit normal of a planar polygon by the
// right-hand rule over its winding. Degenerate input yields the zero vector.
func PolygonNormal(pts []v3.Vec) v3.Vec {
	a := AreaVector(pts)
	if IsZero(a) {
		return v3.Vec{}
	}
	return a.Normalize()
}

// Orient returns pts wound counter-clockwise around n, reversing a copy
// when the winding disagrees.
func Orient(pts []v3.Vec, n v3.Vec) []v3.Vec {
	if AreaVector(pts).Dot(n) >= 0 {
		return pts
	}
	rev := make([]v3.Vec, len(pts))
	for i, v := range pts {
		rev[len(pts)-1-i] = v
	}
	return rev
}

// PolygonArea returns the area of a planar, convex polygon by fan
// triangulation from its first vertex.
func PolygonArea(pts []v3.Vec) float64 {
	var area float64
	for i := 1; i+1 < len(pts); i++ {
		area += pts[i].Sub(pts[0]).Cross(pts[i+1].Sub(pts[0])).Length() / 2
	}
	return area
}
