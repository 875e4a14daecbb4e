package geom

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Plane is the half-space {p : Normal·p <= D}. Normal has unit length and
// points out of the solid; Original keeps the normal as it was given.
type Plane struct {
	Normal   v3.Vec
	Original v3.Vec
	D        float64
}

// NewPlane returns the half-space with outward normal n at signed distance d
// from the origin. n must be nonzero.
func NewPlane(n v3.Vec, d float64) Plane {
	return Plane{Normal: n.Normalize(), Original: n, D: d}
}

// DistanceTo returns the signed distance from the plane to p. Positive
// values lie in front of the plane, outside the half-space.
func (pl Plane) DistanceTo(p v3.Vec) float64 {
	return pl.Normal.Dot(p) - pl.D
}

// InFront reports whether p lies strictly outside the half-space.
func (pl Plane) InFront(p v3.Vec) bool {
	return pl.DistanceTo(p) > PlaneEpsilon
}

// Contains reports whether p lies on the plane within tolerance.
func (pl Plane) Contains(p v3.Vec) bool {
	d := pl.DistanceTo(p)
	return d <= PlaneEpsilon && d >= -PlaneEpsilon
}

// Overlaps reports whether pl and q have the same normal direction.
func (pl Plane) Overlaps(q Plane) bool {
	return pl.Normal.Dot(q.Normal) > 1-ParallelEpsilon
}

// Antiparallel reports whether pl and q face exactly opposite ways.
func (pl Plane) Antiparallel(q Plane) bool {
	return pl.Normal.Dot(q.Normal) < -1+ParallelEpsilon
}

func (pl Plane) String() string {
	return fmt.Sprintf("(%g, %g, %g)·p <= %g", pl.Normal.X, pl.Normal.Y, pl.Normal.Z, pl.D)
}

// Intersect3 returns the single point shared by three planes. ok is false
// when the planes do not meet in a point.
func Intersect3(a, b, c Plane) (p v3.Vec, ok bool) {
	n0, n1, n2 := a.Normal, b.Normal, c.Normal
	denom := n0.Cross(n1).Dot(n2)
	if denom*denom < DegenerateEpsilon {
		return v3.Vec{}, false
	}
	p = n1.Cross(n2).MulScalar(a.D).
		Add(n2.Cross(n0).MulScalar(b.D)).
		Add(n0.Cross(n1).MulScalar(c.D))
	return p.DivScalar(denom), true
}

// InsideAll reports whether p is not in front of any plane.
func InsideAll(p v3.Vec, planes []Plane) bool {
	for _, pl := range planes {
		if pl.InFront(p) {
			return false
		}
	}
	return true
}
