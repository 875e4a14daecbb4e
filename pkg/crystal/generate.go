// Package crystal generates convex crystal polyhedra. A crystal is the
// intersection of the half-spaces behind a few seed faces and all of their
// images under a point group.
//
// Generation runs in five stages: symmetry expansion of each seed,
// half-space deduplication, vertex generation from plane triples, edge
// linking by shared planes, and face tracing per plane. Generate runs them
// synchronously and returns a fresh Polyhedron; nothing is cached between
// calls.
package crystal

import (
	"fmt"

	"github.com/chazu/druse/pkg/geom"
	"github.com/chazu/druse/pkg/symmetry"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Description is the input of one generation: paired seed normals and
// distances under a point group.
type Description struct {
	Name      string
	Group     symmetry.PointGroup
	Normals   []v3.Vec
	Distances []float64
}

// Generate builds the polyhedron described by d.
//
// Seeds with a zero normal or a zero distance are dropped before
// expansion. Generate fails with ErrCountMismatch, ErrUnknownGroup,
// ErrEmptyOrbit or ErrTooFewHalfspaces for unusable input, and with
// ErrTopology only when WithStrict is given. Every other degeneracy is
// recovered and, if requested, recorded in the Diagnostics.
func Generate(d Description, opts ...Option) (*Polyhedron, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	diag := cfg.diag
	if diag == nil {
		diag = &Diagnostics{}
	}
	log := Logger().With("crystal", d.Name, "group", d.Group.String())

	if len(d.Normals) != len(d.Distances) {
		return nil, fmt.Errorf("%w: %d normals, %d distances", ErrCountMismatch, len(d.Normals), len(d.Distances))
	}
	if !d.Group.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGroup, int(d.Group))
	}

	p := &Polyhedron{
		group:      d.Group,
		seedPlanes: make([]geom.Plane, len(d.Normals)),
		seedOK:     make([]bool, len(d.Normals)),
	}

	exp := symmetry.NewExpander(d.Group)
	hb := NewHalfspaceBuilder(cfg.distances, diag)
	for i, n := range d.Normals {
		dist := d.Distances[i]
		if geom.IsZero(n) || dist == 0 {
			diag.DroppedSeeds = append(diag.DroppedSeeds, i)
			log.Warn("seed dropped", "seed", i, "normal", n, "distance", dist)
			continue
		}
		orbit := exp.Expand(n)
		if len(orbit) == 0 {
			return nil, fmt.Errorf("%w: seed %d (%g, %g, %g) repeats an earlier seed", ErrEmptyOrbit, i, n.X, n.Y, n.Z)
		}
		p.seedPlanes[i] = hb.plane(n, dist)
		p.seedOK[i] = true
		hb.Add(i, orbit, dist)
	}

	planes, seeds := hb.Planes()
	if len(planes) < 4 {
		return nil, fmt.Errorf("%w: %d after deduplication", ErrTooFewHalfspaces, len(planes))
	}
	p.planes = planes

	verts, stats, err := generateVertices(planes, cfg)
	if err != nil {
		return nil, err
	}
	diag.DegenerateTriples += stats.degenerate
	diag.NearOrigin += stats.origin
	diag.Outside += stats.outside
	diag.Merges += stats.merges

	g, err := buildEdgeGraph(verts, cfg, diag)
	if err != nil {
		return nil, err
	}
	faces, err := g.traceFaces(planes, seeds, cfg, diag)
	if err != nil {
		return nil, err
	}
	p.assemble(faces, g.verts)

	if cfg.strict {
		if err := CheckTopology(p); err != nil {
			return nil, err
		}
	}

	log.Debug("generated",
		append([]any{"planes", len(planes), "vertices", len(p.vertices), "faces", len(p.faces)}, diag.logAttrs()...)...)
	return p, nil
}

// assemble compacts the vertices to those on faces and groups the faces
// by seed in seed order.
func (p *Polyhedron) assemble(faces []*Face, verts []Vertex) {
	remap := map[int]int{}
	for _, f := range faces {
		for i, id := range f.Indices {
			nid, ok := remap[id]
			if !ok {
				nid = len(p.vertices)
				remap[id] = nid
				p.vertices = append(p.vertices, verts[id])
			}
			f.Indices[i] = nid
		}
	}

	bySeed := map[int][]*Face{}
	for _, f := range faces {
		bySeed[f.Seed] = append(bySeed[f.Seed], f)
	}
	for seed := range p.seedPlanes {
		if fs := bySeed[seed]; len(fs) > 0 {
			p.groups = append(p.groups, FaceGroup{Seed: seed, Faces: fs})
			p.faces = append(p.faces, fs...)
		}
	}
}
