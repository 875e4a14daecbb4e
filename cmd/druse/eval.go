package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/chazu/druse/pkg/engine"
	"github.com/chazu/druse/pkg/export"
	"github.com/chazu/druse/pkg/tessellate"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type evalFlags struct {
	stl     string
	records string
}

func newEvalCmd(c *cli) *cobra.Command {
	var f evalFlags
	cmd := &cobra.Command{
		Use:   "eval <script.druse | ->",
		Short: "Evaluate a crystal script and report every placed crystal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEval(cmd, args[0], f)
		},
	}
	cmd.Flags().StringVar(&f.stl, "stl", "", "write the union of all placements as a binary STL")
	cmd.Flags().StringVar(&f.records, "records", "", "write each crystal as a record into this directory")
	return cmd
}

func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func (c *cli) runEval(cmd *cobra.Command, path string, f evalFlags) error {
	src, err := readSource(cmd, path)
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}
	res, err := engine.NewEngine().EvaluateResult(src)
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}

	stderr := cmd.ErrOrStderr()
	for _, w := range res.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			fmt.Fprintf(stderr, "error: %s\n", e.Error())
		}
		return fmt.Errorf("eval: %s: %d errors", path, len(res.Errors))
	}
	if res.Scene == nil {
		return errors.New("eval: evaluation was superseded")
	}

	ctx := cmd.Context()
	gens, err := tessellate.Generate(ctx, res.Scene, c.cfg.options()...)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	names := lo.Keys(gens)
	slices.Sort(names)
	for i, name := range names {
		if i > 0 {
			fmt.Fprintln(out)
		}
		g := gens[name]
		printStats(out, name, g.Polyhedron, g.Basis, g.Diagnostics)
	}

	if f.records != "" {
		if err := os.MkdirAll(f.records, 0o755); err != nil {
			return fmt.Errorf("eval: %w", err)
		}
		ext := c.cfg.format().Ext()
		for _, cr := range res.Scene.Crystals {
			path := filepath.Join(f.records, cr.Name()+ext)
			if err := export.Save(path, export.FromCrystal(cr)); err != nil {
				return err
			}
			fmt.Fprintf(out, "wrote %s\n", path)
		}
	}

	if f.stl != "" {
		k, err := c.cfg.kernel()
		if err != nil {
			return err
		}
		solid, err := tessellate.Combine(ctx, res.Scene, k, c.cfg.options()...)
		if err != nil {
			return err
		}
		if solid == nil {
			return errors.New("eval: nothing placed to export")
		}
		m, err := k.ToMesh(solid)
		if err != nil {
			return err
		}
		path, err := export.SaveSTL(f.stl, export.MeshTriangles(m))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s (%d triangles)\n", path, m.TriangleCount())
	}
	return nil
}
