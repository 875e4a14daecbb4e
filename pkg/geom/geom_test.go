package geom

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b v3.Vec
		want bool
	}{
		{"identical", v3.Vec{X: 1, Y: 2, Z: 3}, v3.Vec{X: 1, Y: 2, Z: 3}, true},
		{"within tolerance", v3.Vec{X: 1}, v3.Vec{X: 1 + 1e-6}, true},
		{"outside tolerance", v3.Vec{X: 1}, v3.Vec{X: 1 + 1e-4}, false},
		{"different axis", v3.Vec{X: 1}, v3.Vec{Y: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
	assert.True(t, IsZero(v3.Vec{X: 1e-6}))
	assert.False(t, IsZero(v3.Vec{X: 1e-3}))
}

func TestIndexFindsAcrossCellBoundary(t *testing.T) {
	x := NewIndex[int]()
	// Straddle a grid line: both points are equal under tolerance but hash
	// into different cells.
	a := v3.Vec{X: cellSize - 1e-7}
	b := v3.Vec{X: cellSize + 1e-7}
	_, added := x.Insert(a, 1)
	require.True(t, added)

	slot, added := x.Insert(b, 2)
	assert.False(t, added)
	assert.Equal(t, 0, slot)

	v, ok := x.Get(b)
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, x.Len())
}

func TestIndexDistinctPoints(t *testing.T) {
	x := NewIndex[string]()
	x.Insert(v3.Vec{X: 1}, "a")
	x.Insert(v3.Vec{Y: 1}, "b")
	x.Insert(v3.Vec{X: 1, Y: 1e-3}, "c")
	assert.Equal(t, 3, x.Len())
	assert.False(t, x.Contains(v3.Vec{Z: 1}))

	i := x.Find(v3.Vec{Y: 1})
	require.GreaterOrEqual(t, i, 0)
	x.Set(i, "bb")
	pos, v := x.At(i)
	assert.Equal(t, "bb", v)
	assert.True(t, Equal(pos, v3.Vec{Y: 1}))
}

func TestPlane(t *testing.T) {
	pl := NewPlane(v3.Vec{X: 2}, 1)
	assert.InDelta(t, 1.0, pl.Normal.Length(), 1e-12)
	assert.Equal(t, v3.Vec{X: 2}, pl.Original)

	assert.InDelta(t, 1.0, pl.DistanceTo(v3.Vec{X: 2}), 1e-12)
	assert.True(t, pl.InFront(v3.Vec{X: 1.5}))
	assert.False(t, pl.InFront(v3.Vec{X: 1}))
	assert.False(t, pl.InFront(v3.Vec{X: -5}))
	assert.True(t, pl.Contains(v3.Vec{X: 1, Y: 7}))

	assert.True(t, pl.Overlaps(NewPlane(v3.Vec{X: 5}, 3)))
	assert.False(t, pl.Overlaps(NewPlane(v3.Vec{X: 1, Y: 0.01}, 1)))
	assert.True(t, pl.Antiparallel(NewPlane(v3.Vec{X: -1}, 1)))
}

func TestIntersect3(t *testing.T) {
	x := NewPlane(v3.Vec{X: 1}, 1)
	y := NewPlane(v3.Vec{Y: 1}, 2)
	z := NewPlane(v3.Vec{Z: 1}, 3)

	p, ok := Intersect3(x, y, z)
	require.True(t, ok)
	assert.True(t, Equal(p, v3.Vec{X: 1, Y: 2, Z: 3}), "got %v", p)

	// Argument order does not matter.
	q, ok := Intersect3(z, x, y)
	require.True(t, ok)
	assert.True(t, Equal(p, q))

	oblique := NewPlane(v3.Vec{X: 1, Y: 1, Z: 1}, math.Sqrt(3))
	p, ok = Intersect3(oblique, NewPlane(v3.Vec{Y: 1}, 0), NewPlane(v3.Vec{Z: 1}, 0))
	require.True(t, ok)
	assert.True(t, Equal(p, v3.Vec{X: 3}), "got %v", p)

	_, ok = Intersect3(x, NewPlane(v3.Vec{X: -1}, 1), z)
	assert.False(t, ok, "parallel planes have no single intersection")
}

func TestInsideAll(t *testing.T) {
	cube := []Plane{
		NewPlane(v3.Vec{X: 1}, 1), NewPlane(v3.Vec{X: -1}, 1),
		NewPlane(v3.Vec{Y: 1}, 1), NewPlane(v3.Vec{Y: -1}, 1),
		NewPlane(v3.Vec{Z: 1}, 1), NewPlane(v3.Vec{Z: -1}, 1),
	}
	assert.True(t, InsideAll(v3.Vec{}, cube))
	assert.True(t, InsideAll(v3.Vec{X: 1, Y: 1, Z: 1}, cube))
	assert.False(t, InsideAll(v3.Vec{X: 1.01}, cube))
}

func TestPolygonHelpers(t *testing.T) {
	square := []v3.Vec{
		{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1},
	}
	assert.InDelta(t, 4.0, PolygonArea(square), 1e-12)
	assert.True(t, Equal(PolygonNormal(square), v3.Vec{Z: 1}))
	assert.True(t, Equal(Centroid(square), v3.Vec{Z: 1}))

	// The normal follows the winding, not the side of the origin.
	rev := []v3.Vec{square[3], square[2], square[1], square[0]}
	assert.True(t, Equal(PolygonNormal(rev), v3.Vec{Z: -1}))
	assert.True(t, Equal(AreaVector(rev), v3.Vec{Z: -4}))
	assert.Equal(t, square, Orient(square, v3.Vec{Z: 1}))
	assert.Equal(t, square, Orient(rev, v3.Vec{Z: 1}))

	// A face far from the origin and facing it keeps its own normal.
	near := []v3.Vec{{X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: -1}}
	assert.True(t, Equal(PolygonNormal(near), v3.Vec{X: -1}))

	assert.True(t, Less(v3.Vec{X: 1}, v3.Vec{X: 2}))
	assert.True(t, Less(v3.Vec{X: 1, Y: 1}, v3.Vec{X: 1, Y: 2}))
	assert.False(t, Less(v3.Vec{X: 1}, v3.Vec{X: 1 + 1e-9}))
}

func TestCellBasis(t *testing.T) {
	t.Run("cubic is identity", func(t *testing.T) {
		b, err := CubicCell.Basis()
		require.NoError(t, err)
		for i := range b {
			assert.True(t, Equal(b[i], Identity[i]), "axis %d: %v", i, b[i])
		}
		assert.InDelta(t, 1.0, b.Det(), 1e-12)
	})

	t.Run("hexagonal", func(t *testing.T) {
		b, err := Cell{A: 1, B: 1, C: 1.5, Alpha: 90, Beta: 90, Gamma: 120}.Basis()
		require.NoError(t, err)
		assert.True(t, Equal(b[1], v3.Vec{X: -0.5, Y: math.Sqrt(3) / 2}))
		assert.True(t, Equal(b[2], v3.Vec{Z: 1.5}))
		assert.InDelta(t, 1.5*math.Sqrt(3)/2, b.Det(), 1e-9)
	})

	t.Run("axis lengths preserved", func(t *testing.T) {
		c := Cell{A: 1, B: 1.5, C: 2, Alpha: 30, Beta: 60, Gamma: 80}
		b, err := c.Basis()
		require.NoError(t, err)
		assert.InDelta(t, c.A, b[0].Length(), 1e-12)
		assert.InDelta(t, c.B, b[1].Length(), 1e-12)
		assert.InDelta(t, c.C, b[2].Length(), 1e-12)
		// Angle between b and c is alpha.
		cosAlpha := b[1].Dot(b[2]) / (c.B * c.C)
		assert.InDelta(t, math.Cos(radians(c.Alpha)), cosAlpha, 1e-9)
	})

	t.Run("degenerate", func(t *testing.T) {
		_, err := Cell{A: 1, B: 1, C: 1, Alpha: 90, Beta: 90, Gamma: 0}.Basis()
		assert.ErrorIs(t, err, ErrDegenerateCell)
		_, err = Cell{A: 0, B: 1, C: 1, Alpha: 90, Beta: 90, Gamma: 90}.Basis()
		assert.ErrorIs(t, err, ErrDegenerateCell)
	})
}

func TestBasisInverseAndPlanes(t *testing.T) {
	b, err := Cell{A: 2, B: 1, C: 3, Alpha: 90, Beta: 90, Gamma: 90}.Basis()
	require.NoError(t, err)

	inv, err := b.Inverse()
	require.NoError(t, err)
	v := v3.Vec{X: 1, Y: 2, Z: 3}
	assert.True(t, Equal(inv.Apply(b.Apply(v)), v))

	nt, err := b.NormalTransform()
	require.NoError(t, err)

	// x <= 1 in cell space becomes x <= 2 in Cartesian space.
	pl := TransformPlane(NewPlane(v3.Vec{X: 1}, 1), nt)
	assert.True(t, Equal(pl.Normal, v3.Vec{X: 1}))
	assert.InDelta(t, 2.0, pl.D, 1e-12)

	// A point on the original plane stays on the transformed one.
	oblique := NewPlane(v3.Vec{X: 1, Y: 1, Z: 1}, 1)
	onPlane := v3.Vec{X: 1 / math.Sqrt(3), Y: 1 / math.Sqrt(3), Z: 1 / math.Sqrt(3)}
	require.True(t, oblique.Contains(onPlane))
	assert.True(t, TransformPlane(oblique, nt).Contains(b.Apply(onPlane)))

	_, err = Basis{}.Inverse()
	assert.ErrorIs(t, err, ErrDegenerateCell)
}

func TestRotation(t *testing.T) {
	tests := []struct {
		name    string
		x, y, z float64
		in, out v3.Vec
	}{
		{"z quarter turn", 0, 0, 90, v3.Vec{X: 1}, v3.Vec{Y: 1}},
		{"x quarter turn", 90, 0, 0, v3.Vec{Y: 1}, v3.Vec{Z: 1}},
		{"y quarter turn", 0, 90, 0, v3.Vec{Z: 1}, v3.Vec{X: 1}},
		{"x then z", 90, 0, 90, v3.Vec{Y: 1}, v3.Vec{Z: 1}},
		{"identity", 0, 0, 0, v3.Vec{X: 1, Y: 2, Z: 3}, v3.Vec{X: 1, Y: 2, Z: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rotation(tt.x, tt.y, tt.z).Apply(tt.in)
			assert.True(t, Equal(got, tt.out), "got %v", got)
		})
	}
	assert.InDelta(t, 1.0, Rotation(30, 40, 50).Det(), 1e-12)
}

func TestBounds(t *testing.T) {
	lo, hi := Bounds([]v3.Vec{{X: 1, Y: -2, Z: 0}, {X: -1, Y: 3, Z: 5}})
	assert.Equal(t, v3.Vec{X: -1, Y: -2, Z: 0}, lo)
	assert.Equal(t, v3.Vec{X: 1, Y: 3, Z: 5}, hi)

	lo, hi = Bounds(nil)
	assert.True(t, IsZero(lo) && IsZero(hi))
}
