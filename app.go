package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/engine"
	"github.com/chazu/druse/pkg/export"
	"github.com/chazu/druse/pkg/kernel"
	"github.com/chazu/druse/pkg/kernel/facet"
	"github.com/chazu/druse/pkg/regen"
	"github.com/chazu/druse/pkg/scene"
	"github.com/chazu/druse/pkg/symmetry"
	"github.com/chazu/druse/pkg/tessellate"
	"github.com/samber/lo"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// UpdatedEvent is emitted with an UpdateData payload whenever a
// regeneration requested through Regenerate finishes.
const UpdatedEvent = "crystal:updated"

// colorPalette is a default palette used for crystals without materials.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	engine *engine.Engine
	kernel kernel.Kernel
	regen  *regen.Coalescer

	mu        sync.Mutex
	submitted map[uint64]*scene.Crystal

	// emit delivers regeneration results; replaced in tests.
	emit func(UpdateData)
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Tangents []float32 `json:"tangents"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
	Opacity  float64   `json:"opacity"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// CrystalStats summarizes one generated crystal.
type CrystalStats struct {
	Name      string  `json:"name"`
	Group     string  `json:"group"`
	Faces     int     `json:"faces"`
	Vertices  int     `json:"vertices"`
	Edges     int     `json:"edges"`
	Area      float64 `json:"area"`
	Volume    float64 `json:"volume"`
	Anomalies int     `json:"anomalies"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
	Crystals []CrystalStats  `json:"crystals"`
}

// UpdateData is the payload of UpdatedEvent: one mesh per face group of
// the regenerated crystal.
type UpdateData struct {
	Generation uint64       `json:"generation"`
	Meshes     []MeshData   `json:"meshes"`
	Stats      CrystalStats `json:"stats"`
	Error      string       `json:"error,omitempty"`
}

// NewApp creates a new App with an engine, the faceted kernel and a
// regeneration coalescer.
func NewApp() *App {
	a := &App{
		engine:    engine.NewEngine(),
		kernel:    facet.New(),
		submitted: make(map[uint64]*scene.Crystal),
	}
	a.emit = func(u UpdateData) {
		if a.ctx != nil {
			runtime.EventsEmit(a.ctx, UpdatedEvent, u)
		}
	}
	a.regen = regen.New(a.regenerated)
	return a
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	crystal.SetLogger(slog.Default())
	engine.SetLogger(slog.Default())
}

// Evaluate takes Lisp source and returns mesh data + errors.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
		Crystals: []CrystalStats{},
	}

	// Step 1: Evaluate the Lisp source into a crystal scene.
	res, err := a.engine.EvaluateResult(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		slog.Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors and warnings to the frontend format.
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.String()})
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	if res.Scene == nil {
		// Superseded by a newer evaluation.
		return result
	}

	// Step 3: Generate and tessellate every placement.
	ctx := a.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	meshes, gens, err := tessellate.Tessellate(ctx, res.Scene, a.kernel)
	if err != nil {
		slog.Error("tessellate failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "generation failed: " + err.Error(),
		})
		return result
	}

	// Step 4: Convert kernel meshes to the frontend MeshData format.
	for i, m := range meshes {
		c := res.Scene.Lookup(res.Scene.Placements[i].Crystal)
		color, opacity := colorPalette[i%len(colorPalette)], 1.0
		if c != nil && len(c.Materials) > 0 {
			color, opacity = materialColor(c.Material(0))
		}
		result.Meshes = append(result.Meshes, meshData(m, color, opacity))
	}

	names := lo.Keys(gens)
	slices.Sort(names)
	for _, name := range names {
		g := gens[name]
		result.Crystals = append(result.Crystals, stats(name, g))
	}
	return result
}

// Regenerate queues a single crystal for regeneration and returns its
// generation number. The result arrives as an UpdatedEvent; requests
// submitted while one is running replace each other.
func (a *App) Regenerate(r export.Record) (uint64, error) {
	c, err := r.Crystal()
	if err != nil {
		return 0, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	gen := a.regen.Submit(regen.Request{Description: c.Description, Cell: c.Cell})
	a.submitted[gen] = c
	return gen, nil
}

// regenerated runs on the coalescer's worker after each generation.
// Crystals of superseded requests are forgotten along with it.
func (a *App) regenerated(res *regen.Result) {
	a.mu.Lock()
	c := a.submitted[res.Generation]
	for gen := range a.submitted {
		if gen <= res.Generation {
			delete(a.submitted, gen)
		}
	}
	a.mu.Unlock()
	if c == nil {
		c = &scene.Crystal{Description: res.Description}
	}
	a.emit(updateData(c, res))
}

// PointGroups lists the Hermann-Mauguin symbols the editor can offer.
func (a *App) PointGroups() []string {
	return lo.FilterMap(symmetry.All(), func(g symmetry.PointGroup, _ int) (string, bool) {
		return g.String(), g != symmetry.None
	})
}

// updateData converts a regeneration result into the event payload,
// colouring each face group with the material of its seed.
func updateData(c *scene.Crystal, res *regen.Result) UpdateData {
	u := UpdateData{Generation: res.Generation, Meshes: []MeshData{}}
	if res.Err != nil {
		u.Error = res.Err.Error()
		return u
	}
	name := res.Description.Name
	groups := res.Polyhedron.Groups()
	for i, m := range kernel.FromPolyhedron(res.Polyhedron, res.Basis, name) {
		color, opacity := materialColor(c.Material(groups[i].Seed))
		u.Meshes = append(u.Meshes, meshData(m, color, opacity))
	}
	u.Stats = stats(name, &tessellate.Generated{
		Crystal:     c,
		Polyhedron:  res.Polyhedron,
		Basis:       res.Basis,
		Diagnostics: res.Diagnostics,
	})
	return u
}

func meshData(m *kernel.Mesh, color string, opacity float64) MeshData {
	return MeshData{
		Vertices: m.Vertices,
		Normals:  m.Normals,
		Tangents: m.Tangents,
		Indices:  m.Indices,
		PartName: m.PartName,
		Color:    color,
		Opacity:  opacity,
	}
}

func stats(name string, g *tessellate.Generated) CrystalStats {
	p := g.Polyhedron
	s := CrystalStats{
		Name:     name,
		Group:    p.Group().String(),
		Faces:    len(p.Faces()),
		Vertices: len(p.Vertices()),
		Edges:    p.EdgeCount(),
		Area:     p.Area(g.Basis),
		Volume:   p.Volume(g.Basis),
	}
	if g.Diagnostics != nil {
		s.Anomalies = g.Diagnostics.Anomalies()
	}
	return s
}

// materialColor returns m as a CSS hex colour and its opacity.
func materialColor(m scene.Material) (string, float64) {
	c := func(v float64) int { return int(math.Round(255 * math.Max(0, math.Min(1, v)))) }
	return fmt.Sprintf("#%02X%02X%02X", c(m.R), c(m.G), c(m.B)), m.A
}
