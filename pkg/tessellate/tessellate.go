// Package tessellate walks a crystal scene and produces triangle meshes
// using a geometry kernel. One mesh is produced per placement.
package tessellate

import (
	"context"
	"fmt"
	"sync"

	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/geom"
	"github.com/chazu/druse/pkg/kernel"
	"github.com/chazu/druse/pkg/scene"
	"golang.org/x/sync/errgroup"
)

// Generated is one crystal of a scene after generation.
type Generated struct {
	Crystal     *scene.Crystal
	Polyhedron  *crystal.Polyhedron
	Basis       geom.Basis
	Diagnostics *crystal.Diagnostics
}

// Volume returns the crystal's volume in scene space.
func (g *Generated) Volume() float64 {
	return g.Polyhedron.Volume(g.Basis)
}

// Generate builds every placed crystal of s exactly once, concurrently.
// Crystals that are defined but never placed are skipped. Each crystal
// gets its own Diagnostics; a WithDiagnostics in opts is overridden.
func Generate(ctx context.Context, s *scene.Scene, opts ...crystal.Option) (map[string]*Generated, error) {
	if s == nil {
		return nil, nil
	}

	var crystals []*scene.Crystal
	seen := make(map[string]bool)
	for _, p := range s.Placements {
		if seen[p.Crystal] {
			continue
		}
		seen[p.Crystal] = true
		c := s.Lookup(p.Crystal)
		if c == nil {
			return nil, fmt.Errorf("tessellate: unknown crystal %q", p.Crystal)
		}
		crystals = append(crystals, c)
	}

	var (
		mu  sync.Mutex
		out = make(map[string]*Generated, len(crystals))
	)
	eg, ctx := errgroup.WithContext(ctx)
	for _, c := range crystals {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			g, err := generateOne(c, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			out[c.Name()] = g
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func generateOne(c *scene.Crystal, opts []crystal.Option) (*Generated, error) {
	b, err := c.Cell.Basis()
	if err != nil {
		return nil, fmt.Errorf("tessellate: crystal %q: %w", c.Name(), err)
	}
	diag := &crystal.Diagnostics{}
	p, err := crystal.Generate(c.Description, append(opts[:len(opts):len(opts)], crystal.WithDiagnostics(diag))...)
	if err != nil {
		return nil, fmt.Errorf("tessellate: crystal %q: %w", c.Name(), err)
	}
	return &Generated{Crystal: c, Polyhedron: p, Basis: b, Diagnostics: diag}, nil
}

// place builds the kernel solid for one placement. Rotation is applied
// before translation.
func place(k kernel.Kernel, g *Generated, p scene.Placement) (kernel.Solid, error) {
	solid, err := k.Crystal(g.Polyhedron, g.Basis)
	if err != nil {
		return nil, fmt.Errorf("tessellate: crystal %q: %w", p.Crystal, err)
	}
	if rot := p.Rotation; rot != nil && (rot.X != 0 || rot.Y != 0 || rot.Z != 0) {
		solid = k.Rotate(solid, rot.X, rot.Y, rot.Z)
	}
	if at := p.At; at.X != 0 || at.Y != 0 || at.Z != 0 {
		solid = k.Translate(solid, at.X, at.Y, at.Z)
	}
	return solid, nil
}

// partNames names each placement after its crystal, numbering repeats
// from the second copy on.
func partNames(s *scene.Scene) []string {
	seen := make(map[string]int)
	names := make([]string, len(s.Placements))
	for i, p := range s.Placements {
		seen[p.Crystal]++
		if n := seen[p.Crystal]; n > 1 {
			names[i] = fmt.Sprintf("%s#%d", p.Crystal, n)
		} else {
			names[i] = p.Crystal
		}
	}
	return names
}

// Tessellate generates the crystals of s and produces one triangle mesh
// per placement using the provided geometry kernel. The tessellator is
// read-only and never mutates the scene.
func Tessellate(ctx context.Context, s *scene.Scene, k kernel.Kernel, opts ...crystal.Option) ([]*kernel.Mesh, map[string]*Generated, error) {
	gen, err := Generate(ctx, s, opts...)
	if err != nil || s == nil {
		return nil, nil, err
	}

	names := partNames(s)
	meshes := make([]*kernel.Mesh, 0, len(s.Placements))
	for i, p := range s.Placements {
		solid, err := place(k, gen[p.Crystal], p)
		if err != nil {
			return nil, nil, err
		}
		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, nil, fmt.Errorf("tessellate: ToMesh failed for %s: %w", names[i], err)
		}
		mesh.PartName = names[i]
		meshes = append(meshes, mesh)
	}
	return meshes, gen, nil
}

// Combine generates the crystals of s and returns the union of all
// placements as one solid, or nil for an empty scene.
func Combine(ctx context.Context, s *scene.Scene, k kernel.Kernel, opts ...crystal.Option) (kernel.Solid, error) {
	gen, err := Generate(ctx, s, opts...)
	if err != nil || s == nil {
		return nil, err
	}

	var all kernel.Solid
	for _, p := range s.Placements {
		solid, err := place(k, gen[p.Crystal], p)
		if err != nil {
			return nil, err
		}
		if all == nil {
			all = solid
		} else {
			all = k.Union(all, solid)
		}
	}
	return all, nil
}
