package crystal

import (
	"fmt"
	"slices"

	"github.com/chazu/druse/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// maxTraceSteps caps the walk around one plane.
const maxTraceSteps = 100

// trace walks plane pl's adjacency from its lowest vertex id, never
// stepping straight back. closed is false when the walk dead-ended or
// hit maxTraceSteps before returning to the start.
func (g *edgeGraph) trace(pl int) (loop []int, closed bool) {
	onPlane := g.adj[pl]
	ids := lo.Keys(onPlane)
	if len(ids) == 0 {
		return nil, false
	}
	start := slices.Min(ids)

	loop = []int{start}
	prev := start
	here, ok := onPlane[start].first()
	for steps := 0; ; steps++ {
		if !ok {
			return loop, false
		}
		if here == start {
			return loop, true
		}
		if steps >= maxTraceSteps {
			return loop, false
		}
		loop = append(loop, here)
		next, found := onPlane[here].next(prev)
		prev, here, ok = here, next, found
	}
}

// isOutward reports whether loop turns counter-clockwise seen from the
// side n points to.
func isOutward(loop []v3.Vec, n v3.Vec) bool {
	return geom.AreaVector(loop).Dot(n) > 0
}

// traceFaces turns every surviving plane into a face.
func (g *edgeGraph) traceFaces(planes []geom.Plane, seeds []int, cfg config, diag *Diagnostics) ([]*Face, error) {
	var faces []*Face
	for _, pl := range g.planeIDs() {
		loop, closed := g.trace(pl)
		if !closed {
			diag.OpenTraces++
			Logger().Debug("open face trace", "plane", pl, "start", diag.Name(g.verts[loop[0]].Pos), "length", len(loop))
			if cfg.strict {
				return nil, fmt.Errorf("%w: trace on plane %d did not close", ErrTopology, pl)
			}
		}
		if len(loop) < minFaceVertices {
			diag.ShortTraces++
			if cfg.strict {
				return nil, fmt.Errorf("%w: plane %d traced only %d vertices", ErrTopology, pl, len(loop))
			}
			continue
		}

		pos := lo.Map(loop, func(id int, _ int) v3.Vec { return g.verts[id].Pos })
		if isOutward(pos, planes[pl].Normal) != (cfg.winding == Outward) {
			slices.Reverse(loop)
			slices.Reverse(pos)
		}
		faces = append(faces, &Face{
			Plane:    pl,
			Seed:     seeds[pl],
			Normal:   planes[pl].Normal,
			Vertices: pos,
			Indices:  loop,
			Closed:   closed,
		})
	}
	return faces, nil
}
