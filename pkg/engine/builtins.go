package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/geom"
	"github.com/chazu/druse/pkg/scene"
	"github.com/chazu/druse/pkg/symmetry"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/samber/lo"
)

// ---------------------------------------------------------------------------
// DSL values
// ---------------------------------------------------------------------------

// sexpVec3 wraps a scene.Vec3.
type sexpVec3 struct {
	vec scene.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpMaterial wraps a scene.Material so it can be passed between builtins.
type sexpMaterial struct {
	mat scene.Material
}

func (m *sexpMaterial) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(material :r %g :g %g :b %g :a %g)", m.mat.R, m.mat.G, m.mat.B, m.mat.A)
}
func (m *sexpMaterial) Type() *zygo.RegisteredType { return nil }

// sexpFace is a seed face returned from `face` or `miller` and consumed
// by `crystal`.
type sexpFace struct {
	normal   v3.Vec
	distance float64
	material *scene.Material
}

func (f *sexpFace) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(face (vec3 %g %g %g) %g)", f.normal.X, f.normal.Y, f.normal.Z, f.distance)
}
func (f *sexpFace) Type() *zygo.RegisteredType { return nil }

// sexpCell wraps unit-cell parameters.
type sexpCell struct {
	cell geom.Cell
}

func (c *sexpCell) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(cell :a %g :b %g :c %g :alpha %g :beta %g :gamma %g)",
		c.cell.A, c.cell.B, c.cell.C, c.cell.Alpha, c.cell.Beta, c.cell.Gamma)
}
func (c *sexpCell) Type() *zygo.RegisteredType { return nil }

// sexpCrystalRef names a crystal defined in the scene.
type sexpCrystalRef struct {
	name string
}

func (r *sexpCrystalRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(crystal %q)", r.name)
}
func (r *sexpCrystalRef) Type() *zygo.RegisteredType { return nil }

// float reads an optional numeric keyword into dst.
func (a kwArgs) float(key string, dst *float64) error {
	v, ok := a.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

// ---------------------------------------------------------------------------
// Argument conversion
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer, accepting floats with no fractional part.
func toInt(s zygo.Sexp) (int, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("expected integer, got %g", f)
	}
	return int(f), nil
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString accepts :z as well as "z".
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toPointGroup parses a Hermann-Mauguin symbol or group name.
func toPointGroup(s zygo.Sexp) (symmetry.PointGroup, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return symmetry.None, err
	}
	return symmetry.ParsePointGroup(name)
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (scene.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return scene.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toMaterial extracts a Material from a sexpMaterial.
func toMaterial(s zygo.Sexp) (scene.Material, error) {
	if m, ok := s.(*sexpMaterial); ok {
		return m.mat, nil
	}
	return scene.Material{}, fmt.Errorf("expected material, got %T (%s)", s, s.SexpString(nil))
}

// toFace extracts a seed face from a sexpFace.
func toFace(s zygo.Sexp) (*sexpFace, error) {
	if f, ok := s.(*sexpFace); ok {
		return f, nil
	}
	return nil, fmt.Errorf("expected face, got %T (%s)", s, s.SexpString(nil))
}

// toCrystalName accepts a crystal reference or a crystal name string.
func toCrystalName(s zygo.Sexp) (string, error) {
	switch v := s.(type) {
	case *sexpCrystalRef:
		return v.name, nil
	case *zygo.SexpStr:
		return v.S, nil
	}
	return "", fmt.Errorf("expected crystal reference or name, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// faceOptions applies the :distance and :material keywords shared by
// `face` and `miller`.
func faceOptions(who string, pa kwArgs, f *sexpFace) error {
	if err := pa.float("distance", &f.distance); err != nil {
		return fmt.Errorf("%s: %w", who, err)
	}
	if v, ok := pa.kw["material"]; ok {
		m, err := toMaterial(v)
		if err != nil {
			return fmt.Errorf("%s: material: %w", who, err)
		}
		f.material = &m
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the crystal DSL into env. Evaluation fills s.
// Source must go through preprocessSource first.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		var xyz [3]float64
		for i, arg := range args {
			f, err := toFloat64(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: scene.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (material :r 0.9 :g 0.8 :b 1 :a 0.6 :roughness 0.1 :refraction 1.54)
	// -----------------------------------------------------------------------
	env.AddFunction("material", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		m := scene.DefaultMaterial

		for key, dst := range map[string]*float64{
			"r": &m.R, "g": &m.G, "b": &m.B, "a": &m.A,
			"roughness": &m.Roughness, "refraction": &m.Refraction,
		} {
			if err := pa.float(key, dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("material: %w", err)
			}
		}

		return &sexpMaterial{mat: m}, nil
	})

	// -----------------------------------------------------------------------
	// (face (vec3 1 1 1) 2 :material m)  or  (face :normal (vec3 1 1 1) :distance 2)
	// -----------------------------------------------------------------------
	env.AddFunction("face", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		f := &sexpFace{}

		normal, ok := pa.kw["normal"]
		if !ok && len(pa.positional) > 0 {
			normal = pa.positional[0]
			ok = true
		}
		if !ok {
			return zygo.SexpNull, fmt.Errorf("face requires a normal")
		}
		n, err := toVec3(normal)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("face: normal: %w", err)
		}
		f.normal = v3.Vec{X: n.X, Y: n.Y, Z: n.Z}

		if len(pa.positional) > 1 {
			d, err := toFloat64(pa.positional[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("face: distance: %w", err)
			}
			f.distance = d
		}
		if err := faceOptions("face", pa, f); err != nil {
			return zygo.SexpNull, err
		}

		return f, nil
	})

	// -----------------------------------------------------------------------
	// (miller 1 0 1 :distance 2)  or  (miller 1 0 -1 1 :distance 2)
	//
	// Three indices (h k l) or four Miller-Bravais indices (h k i l) with
	// i = -(h+k). The face normal is (h, k, l) in lattice coordinates.
	// -----------------------------------------------------------------------
	env.AddFunction("miller", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if n := len(pa.positional); n != 3 && n != 4 {
			return zygo.SexpNull, fmt.Errorf("miller requires 3 or 4 indices, got %d", n)
		}

		idx := make([]int, len(pa.positional))
		for i, arg := range pa.positional {
			v, err := toInt(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("miller: index %d: %w", i, err)
			}
			idx[i] = v
		}
		if len(idx) == 4 {
			if idx[2] != -(idx[0] + idx[1]) {
				return zygo.SexpNull, fmt.Errorf("miller: (%d %d %d %d): i must equal -(h+k)", idx[0], idx[1], idx[2], idx[3])
			}
			idx = []int{idx[0], idx[1], idx[3]}
		}

		f := &sexpFace{
			normal:   v3.Vec{X: float64(idx[0]), Y: float64(idx[1]), Z: float64(idx[2])},
			distance: 1,
		}
		if err := faceOptions("miller", pa, f); err != nil {
			return zygo.SexpNull, err
		}
		return f, nil
	})

	// -----------------------------------------------------------------------
	// (cell :a 4.9 :b 4.9 :c 5.4 :alpha 90 :beta 90 :gamma 120)
	// -----------------------------------------------------------------------
	env.AddFunction("cell", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		c := geom.CubicCell

		for key, dst := range map[string]*float64{
			"a": &c.A, "b": &c.B, "c": &c.C,
			"alpha": &c.Alpha, "beta": &c.Beta, "gamma": &c.Gamma,
		} {
			if err := pa.float(key, dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("cell: %w", err)
			}
		}
		if _, err := c.Basis(); err != nil {
			return zygo.SexpNull, fmt.Errorf("cell: %w", err)
		}

		return &sexpCell{cell: c}, nil
	})

	// -----------------------------------------------------------------------
	// (crystal "quartz" :group "-3m1" :cell (cell ...) (miller 1 0 -1 0) ...)
	//
	// Faces may be given positionally or as a list under :faces.
	// -----------------------------------------------------------------------
	env.AddFunction("crystal", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) == 0 {
			return zygo.SexpNull, fmt.Errorf("crystal requires a name argument")
		}

		crystalName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("crystal: name: %w", err)
		}
		if s.Lookup(crystalName) != nil {
			return zygo.SexpNull, fmt.Errorf("crystal: %q already defined", crystalName)
		}

		group := symmetry.None
		if v, ok := pa.kw["group"]; ok {
			group, err = toPointGroup(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("crystal %q: group: %w", crystalName, err)
			}
		}

		faceArgs := pa.positional[1:]
		if v, ok := pa.kw["faces"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("crystal %q: faces: %w", crystalName, err)
			}
			faceArgs = append(faceArgs, items...)
		}
		faces := make([]*sexpFace, len(faceArgs))
		for i, arg := range faceArgs {
			f, err := toFace(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("crystal %q: face %d: %w", crystalName, i, err)
			}
			faces[i] = f
		}

		c := &scene.Crystal{
			Description: crystal.Description{
				Name:      crystalName,
				Group:     group,
				Normals:   lo.Map(faces, func(f *sexpFace, _ int) v3.Vec { return f.normal }),
				Distances: lo.Map(faces, func(f *sexpFace, _ int) float64 { return f.distance }),
			},
			Cell: symmetry.DefaultCell(group),
		}
		if lo.SomeBy(faces, func(f *sexpFace) bool { return f.material != nil }) {
			c.Materials = lo.Map(faces, func(f *sexpFace, _ int) scene.Material {
				if f.material == nil {
					return scene.DefaultMaterial
				}
				return *f.material
			})
		}
		if v, ok := pa.kw["cell"]; ok {
			sc, ok := v.(*sexpCell)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("crystal %q: cell: expected cell, got %T (%s)", crystalName, v, v.SexpString(nil))
			}
			c.Cell = sc.cell
		}
		s.Add(c)

		return &sexpCrystalRef{name: crystalName}, nil
	})

	// -----------------------------------------------------------------------
	// (place "quartz" :at (vec3 0 0 2) :rotate (vec3 0 0 30))
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if len(pa.positional) == 0 {
			return zygo.SexpNull, fmt.Errorf("place requires a crystal reference as first argument")
		}

		crystalName, err := toCrystalName(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		if s.Lookup(crystalName) == nil {
			return zygo.SexpNull, fmt.Errorf("place: no crystal named %q", crystalName)
		}

		p := scene.Placement{Crystal: crystalName}
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: at: %w", err)
			}
			p.At = vec
		}
		if v, ok := pa.kw["rotate"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: rotate: %w", err)
			}
			p.Rotation = &vec
		}
		s.Place(p)

		return &sexpCrystalRef{name: crystalName}, nil
	})

	// -----------------------------------------------------------------------
	// (point-groups) => ("1" "-1" "2" ...)
	//
	// Registered as "point_groups"; the preprocessor converts the hyphen.
	// -----------------------------------------------------------------------
	env.AddFunction("point_groups", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		groups := lo.Filter(symmetry.All(), func(g symmetry.PointGroup, _ int) bool { return g != symmetry.None })
		return zygo.MakeList(lo.Map(groups, func(g symmetry.PointGroup, _ int) zygo.Sexp {
			return &zygo.SexpStr{S: g.String()}
		})), nil
	})
}
