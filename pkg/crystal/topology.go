package crystal

import (
	"fmt"
	"strconv"

	"github.com/katalvlaran/lvlath/bfs"
	"github.com/katalvlaran/lvlath/core"
)

// CheckTopology verifies that p's faces form one closed surface: every
// edge borders exactly two faces, the edge graph is connected, and the
// Euler characteristic V - E + F is 2.
func CheckTopology(p *Polyhedron) error {
	if len(p.faces) == 0 {
		return fmt.Errorf("%w: no faces", ErrTopology)
	}

	uses := map[[2]int]int{}
	for _, f := range p.faces {
		for i, a := range f.Indices {
			b := f.Indices[(i+1)%len(f.Indices)]
			uses[[2]int{min(a, b), max(a, b)}]++
		}
	}

	g := core.NewGraph()
	for id := range p.vertices {
		if err := g.AddVertex(strconv.Itoa(id)); err != nil {
			return fmt.Errorf("crystal: topology graph: %w", err)
		}
	}
	for e, n := range uses {
		if n != 2 {
			return fmt.Errorf("%w: edge %d-%d borders %d faces", ErrTopology, e[0], e[1], n)
		}
		if _, err := g.AddEdge(strconv.Itoa(e[0]), strconv.Itoa(e[1]), 0); err != nil {
			return fmt.Errorf("crystal: topology graph: %w", err)
		}
	}

	res, err := bfs.BFS(g, "0")
	if err != nil {
		return fmt.Errorf("crystal: topology graph: %w", err)
	}
	if len(res.Order) != len(p.vertices) {
		return fmt.Errorf("%w: %d of %d vertices connected", ErrTopology, len(res.Order), len(p.vertices))
	}

	if chi := len(p.vertices) - len(uses) + len(p.faces); chi != 2 {
		return fmt.Errorf("%w: Euler characteristic %d", ErrTopology, chi)
	}
	return nil
}
