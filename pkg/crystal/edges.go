package crystal

import (
	"fmt"
	"slices"

	"github.com/chazu/druse/pkg/geom"
	"github.com/samber/lo"
)

// minFaceVertices is the vertex count below which a plane cannot bound a face.
const minFaceVertices = 3

// linkResult reports what neighbors.add did.
type linkResult int

const (
	linkAdded linkResult = iota
	linkDuplicate
	linkFull
)

// neighbors holds at most two adjacent vertices on one plane's boundary.
type neighbors struct {
	ids [2]int
	n   int
}

func (nb *neighbors) add(id int) linkResult {
	for i := 0; i < nb.n; i++ {
		if nb.ids[i] == id {
			return linkDuplicate
		}
	}
	if nb.n == len(nb.ids) {
		return linkFull
	}
	nb.ids[nb.n] = id
	nb.n++
	return linkAdded
}

// first returns the first neighbor recorded.
func (nb *neighbors) first() (int, bool) {
	if nb == nil || nb.n == 0 {
		return 0, false
	}
	return nb.ids[0], true
}

// next returns the neighbor that is not prev.
func (nb *neighbors) next(prev int) (int, bool) {
	if nb == nil {
		return 0, false
	}
	for i := 0; i < nb.n; i++ {
		if nb.ids[i] != prev {
			return nb.ids[i], true
		}
	}
	return 0, false
}

// edgeGraph is the per-plane vertex adjacency of a candidate polyhedron.
type edgeGraph struct {
	verts []Vertex
	// dead marks vertices merged into a lower id.
	dead []bool
	adj  map[int]map[int]*neighbors
}

// planeIDs returns the ids of planes that still carry adjacency, ascending.
func (g *edgeGraph) planeIDs() []int {
	ids := lo.Keys(g.adj)
	slices.Sort(ids)
	return ids
}

// pruneSparsePlanes strips planes with fewer than three vertices from every
// vertex's plane set. The vertices themselves stay.
func pruneSparsePlanes(verts []Vertex, diag *Diagnostics) {
	count := map[int]int{}
	for _, v := range verts {
		for _, id := range v.Planes {
			count[id]++
		}
	}
	sparse := lo.PickBy(count, func(_ int, n int) bool { return n < minFaceVertices })
	if len(sparse) == 0 {
		return
	}
	pruned := lo.Keys(sparse)
	slices.Sort(pruned)
	diag.PrunedPlanes = append(diag.PrunedPlanes, pruned...)
	for i := range verts {
		verts[i].Planes = lo.Filter(verts[i].Planes, func(id int, _ int) bool {
			_, drop := sparse[id]
			return !drop
		})
	}
}

// sharedPlanes returns the plane ids in both sorted sets.
func sharedPlanes(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// buildEdgeGraph links every vertex pair that shares exactly two planes.
func buildEdgeGraph(verts []Vertex, cfg config, diag *Diagnostics) (*edgeGraph, error) {
	pruneSparsePlanes(verts, diag)

	g := &edgeGraph{
		verts: verts,
		dead:  make([]bool, len(verts)),
		adj:   map[int]map[int]*neighbors{},
	}

	// Coincident vertices should have merged during generation; fold any
	// that slipped through before linking.
	for i := range verts {
		if g.dead[i] {
			continue
		}
		for j := i + 1; j < len(verts); j++ {
			if !g.dead[j] && geom.Equal(verts[i].Pos, verts[j].Pos) {
				verts[i].union(verts[j].Planes...)
				g.dead[j] = true
				diag.Merges++
			}
		}
	}

	for i := range verts {
		if g.dead[i] {
			continue
		}
		for j := i + 1; j < len(verts); j++ {
			if g.dead[j] {
				continue
			}
			shared := sharedPlanes(verts[i].Planes, verts[j].Planes)
			switch {
			case len(shared) < 2:
				continue
			case len(shared) > 2:
				diag.OverSharedPairs++
				Logger().Debug("vertex pair shares too many planes",
					"a", diag.Name(verts[i].Pos), "b", diag.Name(verts[j].Pos), "planes", shared)
				continue
			}
			for _, pl := range shared {
				if err := g.link(pl, i, j, cfg, diag); err != nil {
					return nil, err
				}
			}
		}
	}

	for _, pl := range g.planeIDs() {
		if len(g.adj[pl]) < minFaceVertices {
			delete(g.adj, pl)
			diag.PrunedPlanes = append(diag.PrunedPlanes, pl)
		}
	}
	return g, nil
}

// link records a and b as neighbors on plane pl.
func (g *edgeGraph) link(pl, a, b int, cfg config, diag *Diagnostics) error {
	onPlane := g.adj[pl]
	if onPlane == nil {
		onPlane = map[int]*neighbors{}
		g.adj[pl] = onPlane
	}
	for _, pair := range [][2]int{{a, b}, {b, a}} {
		nb := onPlane[pair[0]]
		if nb == nil {
			nb = &neighbors{}
			onPlane[pair[0]] = nb
		}
		if nb.add(pair[1]) != linkFull {
			continue
		}
		diag.FullSlots++
		if cfg.strict {
			return fmt.Errorf("%w: vertex %d has more than two neighbors on plane %d", ErrTopology, pair[0], pl)
		}
	}
	return nil
}
