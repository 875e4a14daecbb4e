package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/geom"
)

// printStats writes a short summary of one generated crystal.
func printStats(w io.Writer, name string, p *crystal.Polyhedron, b geom.Basis, diag *crystal.Diagnostics) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "crystal\t%s\n", name)
	fmt.Fprintf(tw, "group\t%s (%s)\n", p.Group(), p.Group().Name())
	fmt.Fprintf(tw, "planes\t%d\n", len(p.Planes()))
	fmt.Fprintf(tw, "faces\t%d in %d groups\n", len(p.Faces()), len(p.Groups()))
	fmt.Fprintf(tw, "vertices\t%d\n", len(p.Vertices()))
	fmt.Fprintf(tw, "edges\t%d\n", p.EdgeCount())
	fmt.Fprintf(tw, "area\t%.6g\n", p.Area(b))
	fmt.Fprintf(tw, "volume\t%.6g\n", p.Volume(b))
	if diag != nil {
		fmt.Fprintf(tw, "diagnostics\t%s\n", diag)
	}
	tw.Flush()
}
