package crystal

import (
	"fmt"
	"log/slog"

	"github.com/chazu/druse/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Diagnostics collects what one Generate call dropped or recovered from.
// None of these conditions are errors unless strict mode is on.
type Diagnostics struct {
	// Seed indexes removed before expansion for a zero normal or distance.
	DroppedSeeds []int
	// Seed indexes whose plane group lost to an existing, nearer group.
	RejectedSeeds []int
	// Seed indexes whose accepted group was displaced by a nearer one.
	DisplacedSeeds []int

	// Plane triples skipped for an antiparallel pair or a vanishing denominator.
	DegenerateTriples int
	// Intersections rejected at the origin or outside some half-space.
	NearOrigin, Outside int
	// Intersections folded into an existing vertex.
	Merges int

	// Plane ids pruned for too few vertices, before and after edge building.
	PrunedPlanes []int
	// Vertex pairs sharing more than two planes.
	OverSharedPairs int
	// Adjacency links dropped because both slots were taken.
	FullSlots int
	// Traces that stopped before returning to their start.
	OpenTraces int
	// Traces shorter than a triangle.
	ShortTraces int

	names *geom.Index[string]
}

// Name returns a short stable label for v within this run: A, B, ... Z,
// AA, AB and so on. Labels are only meaningful for one Diagnostics value.
func (d *Diagnostics) Name(v v3.Vec) string {
	if d.names == nil {
		d.names = geom.NewIndex[string]()
	}
	if s, ok := d.names.Get(v); ok {
		return s
	}
	s := label(d.names.Len())
	d.names.Insert(v, s)
	return s
}

func label(n int) string {
	s := ""
	for {
		s = string(rune('A'+n%26)) + s
		n = n/26 - 1
		if n < 0 {
			return s
		}
	}
}

// Anomalies returns the number of recovered topology anomalies.
func (d *Diagnostics) Anomalies() int {
	return d.OverSharedPairs + d.FullSlots + d.OpenTraces + d.ShortTraces
}

func (d *Diagnostics) String() string {
	return fmt.Sprintf("dropped=%d rejected=%d displaced=%d degenerate=%d origin=%d outside=%d merges=%d pruned=%d anomalies=%d",
		len(d.DroppedSeeds), len(d.RejectedSeeds), len(d.DisplacedSeeds),
		d.DegenerateTriples, d.NearOrigin, d.Outside, d.Merges,
		len(d.PrunedPlanes), d.Anomalies())
}

func (d *Diagnostics) logAttrs() []any {
	return []any{
		slog.Int("dropped", len(d.DroppedSeeds)),
		slog.Int("rejected", len(d.RejectedSeeds)),
		slog.Int("displaced", len(d.DisplacedSeeds)),
		slog.Int("degenerate", d.DegenerateTriples),
		slog.Int("merges", d.Merges),
		slog.Int("pruned", len(d.PrunedPlanes)),
		slog.Int("anomalies", d.Anomalies()),
	}
}
