package crystal

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/chazu/druse/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"golang.org/x/sync/errgroup"
)

// Vertex is a corner of the polyhedron and the ids of every plane through it.
type Vertex struct {
	Pos    v3.Vec
	Planes []int // sorted plane ids
}

// OnPlane reports whether plane id passes through v.
func (v *Vertex) OnPlane(id int) bool {
	_, ok := slices.BinarySearch(v.Planes, id)
	return ok
}

// union adds ids to v's plane set, keeping it sorted and unique.
func (v *Vertex) union(ids ...int) {
	for _, id := range ids {
		i, ok := slices.BinarySearch(v.Planes, id)
		if !ok {
			v.Planes = slices.Insert(v.Planes, i, id)
		}
	}
}

// vertexMap is the accept-or-merge store shared by vertex workers.
//
// acceptOrMerge is atomic per position: the lookup, the insert and the
// plane-set union all happen under mu, and the containment test that runs
// outside the lock is followed by a second lookup before inserting. Two
// workers arriving at the same point therefore always end with one vertex
// carrying both plane triples.
type vertexMap struct {
	planes []geom.Plane

	mu    sync.Mutex
	index *geom.Index[int]
	verts []Vertex
	stats tripleStats
}

// tripleStats counts discarded intersections.
type tripleStats struct {
	degenerate, origin, outside, merges int
}

func (s *tripleStats) add(o tripleStats) {
	s.degenerate += o.degenerate
	s.origin += o.origin
	s.outside += o.outside
	s.merges += o.merges
}

func newVertexMap(planes []geom.Plane) *vertexMap {
	return &vertexMap{planes: planes, index: geom.NewIndex[int]()}
}

// mergeLocked folds ids into the vertex at p if there is one.
func (m *vertexMap) mergeLocked(p v3.Vec, ids [3]int) bool {
	id, ok := m.index.Get(p)
	if !ok {
		return false
	}
	m.verts[id].union(ids[:]...)
	return true
}

// acceptOrMerge records the intersection p of the planes ids. local
// collects counts without touching shared state.
func (m *vertexMap) acceptOrMerge(p v3.Vec, ids [3]int, local *tripleStats) {
	if geom.IsZero(p) {
		local.origin++
		return
	}

	m.mu.Lock()
	merged := m.mergeLocked(p, ids)
	m.mu.Unlock()
	if merged {
		local.merges++
		return
	}

	if !geom.InsideAll(p, m.planes) {
		local.outside++
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mergeLocked(p, ids) {
		local.merges++
		return
	}
	id := len(m.verts)
	m.index.Insert(p, id)
	v := Vertex{Pos: p}
	v.union(ids[:]...)
	m.verts = append(m.verts, v)
}

func finite(p v3.Vec) bool {
	for _, c := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// intersectFrom handles every triple whose lowest plane id is i.
func (m *vertexMap) intersectFrom(i int, anti [][]bool) (tripleStats, error) {
	var local tripleStats
	n := len(m.planes)
	for j := i + 1; j < n; j++ {
		if anti[i][j] {
			local.degenerate += n - j - 1
			continue
		}
		for k := j + 1; k < n; k++ {
			if anti[i][k] || anti[j][k] {
				local.degenerate++
				continue
			}
			p, ok := geom.Intersect3(m.planes[i], m.planes[j], m.planes[k])
			if !ok {
				local.degenerate++
				continue
			}
			if !finite(p) {
				return local, fmt.Errorf("%w: planes %d, %d, %d", ErrNonFinite, i, j, k)
			}
			m.acceptOrMerge(p, [3]int{i, j, k}, &local)
		}
	}
	return local, nil
}

// GenerateVertices intersects every plane triple and returns the distinct
// corners that lie inside all planes, sorted by position. Above the
// configured threshold the triples are spread over a worker pool.
func GenerateVertices(planes []geom.Plane, opts ...Option) ([]Vertex, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	verts, _, err := generateVertices(planes, cfg)
	return verts, err
}

func generateVertices(planes []geom.Plane, cfg config) ([]Vertex, tripleStats, error) {
	n := len(planes)
	anti := make([][]bool, n)
	for i := range anti {
		anti[i] = make([]bool, n)
		for j := range anti[i] {
			anti[i][j] = planes[i].Antiparallel(planes[j])
		}
	}

	m := newVertexMap(planes)
	if n <= cfg.parallelThreshold || cfg.workers < 2 {
		for i := 0; i < n; i++ {
			local, err := m.intersectFrom(i, anti)
			if err != nil {
				return nil, m.stats, err
			}
			m.stats.add(local)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(cfg.workers)
		var statsMu sync.Mutex
		for i := 0; i < n; i++ {
			g.Go(func() error {
				local, err := m.intersectFrom(i, anti)
				statsMu.Lock()
				m.stats.add(local)
				statsMu.Unlock()
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, m.stats, err
		}
	}

	sort.SliceStable(m.verts, func(a, b int) bool {
		return geom.Less(m.verts[a].Pos, m.verts[b].Pos)
	})
	return m.verts, m.stats, nil
}
