package geom

import (
	"errors"
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateCell is returned for cell parameters that do not span space.
var ErrDegenerateCell = errors.New("geom: degenerate unit cell")

// Cell holds unit-cell parameters: axis lengths and inter-axial angles in
// degrees (Alpha between b and c, Beta between a and c, Gamma between a and b).
type Cell struct {
	A, B, C            float64
	Alpha, Beta, Gamma float64
}

// CubicCell is the unit cube.
var CubicCell = Cell{A: 1, B: 1, C: 1, Alpha: 90, Beta: 90, Gamma: 90}

// Basis holds the three cell axes as the columns of a 3x3 matrix.
type Basis [3]v3.Vec

// Identity is the orthonormal basis.
var Identity = Basis{{X: 1}, {Y: 1}, {Z: 1}}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// Basis returns the cell axes with a along X and b in the XY plane.
func (c Cell) Basis() (Basis, error) {
	if c.A <= 0 || c.B <= 0 || c.C <= 0 {
		return Basis{}, fmt.Errorf("%w: axis lengths %g, %g, %g", ErrDegenerateCell, c.A, c.B, c.C)
	}
	ca, cb, cg := math.Cos(radians(c.Alpha)), math.Cos(radians(c.Beta)), math.Cos(radians(c.Gamma))
	sg := math.Sin(radians(c.Gamma))
	if math.Abs(sg) < 1e-9 {
		return Basis{}, fmt.Errorf("%w: gamma %g", ErrDegenerateCell, c.Gamma)
	}
	cy := (ca - cb*cg) / sg
	cz2 := 1 - cb*cb - cy*cy
	if cz2 <= 0 {
		return Basis{}, fmt.Errorf("%w: angles %g, %g, %g", ErrDegenerateCell, c.Alpha, c.Beta, c.Gamma)
	}
	return Basis{
		{X: c.A},
		{X: c.B * cg, Y: c.B * sg},
		{X: c.C * cb, Y: c.C * cy, Z: c.C * math.Sqrt(cz2)},
	}, nil
}

// Apply maps v from cell coordinates to Cartesian space.
func (b Basis) Apply(v v3.Vec) v3.Vec {
	return b[0].MulScalar(v.X).Add(b[1].MulScalar(v.Y)).Add(b[2].MulScalar(v.Z))
}

// IsIdentity reports whether b is the orthonormal basis.
func (b Basis) IsIdentity() bool {
	return Equal(b[0], Identity[0]) && Equal(b[1], Identity[1]) && Equal(b[2], Identity[2])
}

func (b Basis) dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		b[0].X, b[1].X, b[2].X,
		b[0].Y, b[1].Y, b[2].Y,
		b[0].Z, b[1].Z, b[2].Z,
	})
}

func fromDense(m mat.Matrix) Basis {
	var out Basis
	for j := 0; j < 3; j++ {
		out[j] = v3.Vec{X: m.At(0, j), Y: m.At(1, j), Z: m.At(2, j)}
	}
	return out
}

// Det returns the determinant, the volume scale factor of b.
func (b Basis) Det() float64 {
	return mat.Det(b.dense())
}

// Inverse returns the inverse basis.
func (b Basis) Inverse() (Basis, error) {
	var inv mat.Dense
	if err := inv.Inverse(b.dense()); err != nil {
		return Basis{}, fmt.Errorf("%w: %v", ErrDegenerateCell, err)
	}
	return fromDense(&inv), nil
}

// NormalTransform returns the inverse transpose of b, which maps plane
// normals so that planes stay attached to the points b maps.
func (b Basis) NormalTransform() (Basis, error) {
	inv, err := b.Inverse()
	if err != nil {
		return Basis{}, err
	}
	return fromDense(inv.dense().T()), nil
}

// TransformPlane maps a half-space through b. nt must be b.NormalTransform().
func TransformPlane(pl Plane, nt Basis) Plane {
	n := nt.Apply(pl.Normal)
	l := n.Length()
	return Plane{Normal: n.DivScalar(l), Original: pl.Original, D: pl.D / l}
}
