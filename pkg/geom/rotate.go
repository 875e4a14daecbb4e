package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/mat"
)

// Mul returns the composition b·c: c is applied first.
func (b Basis) Mul(c Basis) Basis {
	var out mat.Dense
	out.Mul(b.dense(), c.dense())
	return fromDense(&out)
}

// Rotation returns the rotation by Euler angles in degrees, applied about
// X first, then Y, then Z.
func Rotation(x, y, z float64) Basis {
	sx, cx := math.Sincos(radians(x))
	sy, cy := math.Sincos(radians(y))
	sz, cz := math.Sincos(radians(z))
	rx := Basis{{X: 1}, {Y: cx, Z: sx}, {Y: -sx, Z: cx}}
	ry := Basis{{X: cy, Z: -sy}, {Y: 1}, {X: sy, Z: cy}}
	rz := Basis{{X: cz, Y: sz}, {X: -sz, Y: cz}, {Z: 1}}
	return rz.Mul(ry).Mul(rx)
}

// Bounds returns the axis-aligned bounding box of pts.
func Bounds(pts []v3.Vec) (lo, hi v3.Vec) {
	if len(pts) == 0 {
		return lo, hi
	}
	lo, hi = pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = v3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = v3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return lo, hi
}
