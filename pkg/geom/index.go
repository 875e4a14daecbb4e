package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// cellSize is the edge length of an Index grid cell. It must be larger than
// the equality radius sqrt(Epsilon) so that any match lies in a neighbouring cell.
const cellSize = 1e-4

type cellKey [3]int64

func keyOf(p v3.Vec) cellKey {
	return cellKey{
		int64(math.Floor(p.X / cellSize)),
		int64(math.Floor(p.Y / cellSize)),
		int64(math.Floor(p.Z / cellSize)),
	}
}

type entry[T any] struct {
	pos   v3.Vec
	value T
}

// Index maps positions to values under the Equal tolerance. Lookups hash the
// position onto a grid and then scan the 27 surrounding cells, so a hit
// never depends on which side of a cell boundary rounding put the point.
//
// Index is not safe for concurrent use.
type Index[T any] struct {
	cells map[cellKey][]int
	items []entry[T]
}

// NewIndex returns an empty Index.
func NewIndex[T any]() *Index[T] {
	return &Index[T]{cells: make(map[cellKey][]int)}
}

// Len returns the number of stored positions.
func (x *Index[T]) Len() int {
	return len(x.items)
}

// Find returns the slot of the stored position equal to p, or -1.
func (x *Index[T]) Find(p v3.Vec) int {
	k := keyOf(p)
	// The exact cell first; most hits land there.
	for _, i := range x.cells[k] {
		if Equal(x.items[i].pos, p) {
			return i
		}
	}
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				for _, i := range x.cells[cellKey{k[0] + dx, k[1] + dy, k[2] + dz}] {
					if Equal(x.items[i].pos, p) {
						return i
					}
				}
			}
		}
	}
	return -1
}

// Get returns the value stored at a position equal to p.
func (x *Index[T]) Get(p v3.Vec) (T, bool) {
	if i := x.Find(p); i >= 0 {
		return x.items[i].value, true
	}
	var zero T
	return zero, false
}

// Contains reports whether a position equal to p is stored.
func (x *Index[T]) Contains(p v3.Vec) bool {
	return x.Find(p) >= 0
}

// Insert stores value at p unless an equal position is already present.
// It returns the slot of the stored position and whether it was newly added.
func (x *Index[T]) Insert(p v3.Vec, value T) (int, bool) {
	if i := x.Find(p); i >= 0 {
		return i, false
	}
	i := len(x.items)
	x.items = append(x.items, entry[T]{pos: p, value: value})
	k := keyOf(p)
	x.cells[k] = append(x.cells[k], i)
	return i, true
}

// Set overwrites the value in slot i.
func (x *Index[T]) Set(i int, value T) {
	x.items[i].value = value
}

// At returns the position and value in slot i.
func (x *Index[T]) At(i int) (v3.Vec, T) {
	e := x.items[i]
	return e.pos, e.value
}
