package crystal

import (
	"github.com/chazu/druse/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// PlaneGroup is the set of half-spaces grown from one seed's orbit.
type PlaneGroup struct {
	Seed   int
	Planes []geom.Plane
}

// HalfspaceBuilder turns seed orbits into plane groups, keeping only the
// nearest of any parallel planes.
type HalfspaceBuilder struct {
	mode   DistanceMode
	groups []PlaneGroup
	diag   *Diagnostics
}

// NewHalfspaceBuilder returns an empty builder. diag may be nil.
func NewHalfspaceBuilder(mode DistanceMode, diag *Diagnostics) *HalfspaceBuilder {
	if diag == nil {
		diag = &Diagnostics{}
	}
	return &HalfspaceBuilder{mode: mode, diag: diag}
}

func (b *HalfspaceBuilder) plane(n v3.Vec, d float64) geom.Plane {
	pl := geom.NewPlane(n, d)
	if b.mode == Intercept {
		pl.D = d / n.Length()
	}
	return pl
}

// Add offers the plane group for one seed. Only the first orbit member is
// compared with the accepted groups; symmetry makes the outcome the same
// for every other member. When the new plane is strictly nearer than a
// parallel accepted one, that accepted group is discarded. Otherwise the
// new group is rejected. Add reports whether the group was accepted.
func (b *HalfspaceBuilder) Add(seed int, orbit []v3.Vec, d float64) bool {
	if len(orbit) == 0 {
		return false
	}
	planes := lo.Map(orbit, func(n v3.Vec, _ int) geom.Plane { return b.plane(n, d) })
	lead := planes[0]

	kept := b.groups[:0]
	accept := true
	for i, g := range b.groups {
		if !accept {
			kept = append(kept, b.groups[i:]...)
			break
		}
		overlap, found := lo.Find(g.Planes, lead.Overlaps)
		if !found {
			kept = append(kept, g)
			continue
		}
		if lead.D < overlap.D {
			b.diag.DisplacedSeeds = append(b.diag.DisplacedSeeds, g.Seed)
			Logger().Debug("plane group displaced", "seed", g.Seed, "by", seed)
			continue
		}
		accept = false
		kept = append(kept, g)
	}
	b.groups = kept

	if !accept {
		b.diag.RejectedSeeds = append(b.diag.RejectedSeeds, seed)
		Logger().Debug("plane group rejected", "seed", seed)
		return false
	}
	b.groups = append(b.groups, PlaneGroup{Seed: seed, Planes: planes})
	return true
}

// Groups returns the accepted groups in acceptance order.
func (b *HalfspaceBuilder) Groups() []PlaneGroup {
	return b.groups
}

// Planes flattens the accepted groups. seeds[i] is the seed of planes[i].
func (b *HalfspaceBuilder) Planes() (planes []geom.Plane, seeds []int) {
	for _, g := range b.groups {
		planes = append(planes, g.Planes...)
		for range g.Planes {
			seeds = append(seeds, g.Seed)
		}
	}
	return planes, seeds
}
