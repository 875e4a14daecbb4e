// Package symmetry holds the crystallographic point-group table and the
// orbit expansion that turns one seed face normal into all of its
// symmetric images.
package symmetry

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Matrix is an integer-valued 3x3 operation matrix in row-major order.
type Matrix [3][3]float64

// Mul returns m·n.
func (m Matrix) Mul(n Matrix) Matrix {
	var out Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += m[i][k] * n[k][j]
			}
		}
	}
	return out
}

// Operation is a point symmetry operation: a rotation, mirror, inversion or
// rotoinversion acting on vectors in lattice coordinates.
type Operation struct {
	Name string
	M    Matrix
}

// Apply returns the image of v under op.
func (op Operation) Apply(v v3.Vec) v3.Vec {
	m := op.M
	return v3.Vec{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Then returns the operation that applies op and then next.
func (op Operation) Then(next Operation) Operation {
	return Operation{Name: next.Name + "·" + op.Name, M: next.M.Mul(op.M)}
}

// The named generators. Axis names follow the lattice axes; X_Y is the
// [1,-1,0] diagonal and XY the [1,1,0] diagonal.
var (
	Identity = Operation{"Identity", Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
	Inv      = Operation{"Inv", Matrix{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}}}

	// Two-fold rotations.
	DiX   = Operation{"DiX", Matrix{{1, 0, 0}, {0, -1, 0}, {0, 0, -1}}}
	DiY   = Operation{"DiY", Matrix{{-1, 0, 0}, {0, 1, 0}, {0, 0, -1}}}
	DiZ   = Operation{"DiZ", Matrix{{-1, 0, 0}, {0, -1, 0}, {0, 0, 1}}}
	DiXY  = Operation{"DiXY", Matrix{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}}}
	DiX_Y = Operation{"DiX_Y", Matrix{{0, -1, 0}, {-1, 0, 0}, {0, 0, -1}}}

	// Four-fold rotation about Z and its rotoinversion.
	TetZPos    = Operation{"TetZPos", Matrix{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}}}
	InvTetZPos = Operation{"InvTetZPos", Matrix{{0, 1, 0}, {-1, 0, 0}, {0, 0, -1}}}

	// Mirrors, named by their normal.
	MirX   = Operation{"MirX", Matrix{{-1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
	MirY   = Operation{"MirY", Matrix{{1, 0, 0}, {0, -1, 0}, {0, 0, 1}}}
	MirZ   = Operation{"MirZ", Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, -1}}}
	MirXY  = Operation{"MirXY", Matrix{{0, -1, 0}, {-1, 0, 0}, {0, 0, 1}}}
	MirX_Y = Operation{"MirX_Y", Matrix{{0, 1, 0}, {1, 0, 0}, {0, 0, 1}}}

	// Three-fold rotations: about Z in hexagonal axes, and about the body
	// diagonal in cubic or rhombohedral axes.
	TriZPos   = Operation{"TriZPos", Matrix{{0, -1, 0}, {1, -1, 0}, {0, 0, 1}}}
	TriXYZPos = Operation{"TriXYZPos", Matrix{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}}}
)

// yFlip converts between the hexagonal lattice convention the generators
// are written in and the one the rest of the pipeline uses.
var yFlip = Operation{"MirY", MirY.M}
