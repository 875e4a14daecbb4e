package symmetry

import (
	"github.com/chazu/druse/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Expander expands seed normals into orbits for one crystal. Vectors are
// remembered across calls so that an image already produced by an earlier
// seed is not produced again.
//
// An Expander is not safe for concurrent use.
type Expander struct {
	group PointGroup
	// seen maps every produced vector to whether it was itself a seed.
	seen *geom.Index[bool]
}

// NewExpander returns an Expander for g with an empty history.
func NewExpander(g PointGroup) *Expander {
	return &Expander{group: g, seen: geom.NewIndex[bool]()}
}

// Group returns the point group the Expander was built for.
func (e *Expander) Group() PointGroup {
	return e.group
}

// Expand returns the orbit of seed: the seed itself followed by every
// symmetric image no earlier call has produced. Each generator is applied
// to the vectors present when its step began, and the generator sweep
// repeats until it adds nothing.
//
// Hexagonal groups are expanded on the Y-mirrored seed and every result
// is mirrored back, so the seed stays the first member of its own orbit.
//
// The orbit is empty when seed repeats an earlier seed.
func (e *Expander) Expand(seed v3.Vec) []v3.Vec {
	hex := e.group.Hexagonal()
	w := seed
	if hex {
		w = yFlip.Apply(seed)
	}

	slot := e.seen.Find(w)
	if slot >= 0 {
		if _, wasSeed := e.seen.At(slot); wasSeed {
			return nil
		}
		e.seen.Set(slot, true)
	} else {
		e.seen.Insert(w, true)
	}

	orbit := []v3.Vec{w}
	gens := e.group.Generators()
	for {
		added := false
		for _, op := range gens {
			n := len(orbit)
			for i := 0; i < n; i++ {
				img := op.Apply(orbit[i])
				if _, fresh := e.seen.Insert(img, false); fresh {
					orbit = append(orbit, img)
					added = true
				}
			}
		}
		if !added {
			break
		}
	}

	if hex {
		for i := range orbit {
			orbit[i] = yFlip.Apply(orbit[i])
		}
	}
	orbit[0] = seed
	return orbit
}

// Orbit expands a single seed with a fresh history.
func Orbit(g PointGroup, seed v3.Vec) []v3.Vec {
	return NewExpander(g).Expand(seed)
}
