package symmetry

import (
	"fmt"
	"strings"

	"github.com/chazu/druse/pkg/geom"
)

// PointGroup selects one of the 32 crystallographic point groups. Trigonal
// groups appear twice, once in rhombohedral and once in hexagonal axes, and
// index 0 is the identity-only sentinel, for 41 entries in all.
type PointGroup int

const (
	None PointGroup = iota

	// Triclinic
	One
	BarOne

	// Monoclinic
	Two
	M
	TwoOverM

	// Orthorhombic
	TwoTwoTwo
	MMTwo
	MMM

	// Tetragonal
	Four
	BarFour
	FourOverM
	FourTwoTwo
	FourMM
	BarFourTwoM
	FourOverMMM

	// Trigonal, rhombohedral axes
	ThreeR
	BarThreeR
	ThreeTwoR
	ThreeMR
	BarThreeMR

	// Trigonal, hexagonal axes
	Three
	BarThree
	ThreeOneTwo
	ThreeTwoOne
	ThreeMOne
	ThreeOneM
	BarThreeOneM
	BarThreeMOne

	// Hexagonal
	Six
	BarSix
	SixOverM
	SixTwoTwo
	SixMM
	BarSixMTwo
	SixOverMMM

	// Cubic
	TwoThree
	MBarThree
	FourThreeTwo
	BarFourThreeM
	MBarThreeM

	numGroups
)

type groupInfo struct {
	name       string
	symbol     string
	generators []Operation
}

var groupTable = [numGroups]groupInfo{
	None:   {"None", "none", []Operation{Identity}},
	One:    {"One", "1", []Operation{Identity}},
	BarOne: {"BarOne", "-1", []Operation{Inv}},

	Two:      {"Two", "2", []Operation{DiY}},
	M:        {"M", "m", []Operation{MirY}},
	TwoOverM: {"TwoOverM", "2/m", []Operation{DiY, Inv}},

	TwoTwoTwo: {"TwoTwoTwo", "222", []Operation{DiZ, DiY}},
	MMTwo:     {"MMTwo", "mm2", []Operation{DiZ, MirY}},
	MMM:       {"MMM", "mmm", []Operation{DiZ, DiY, Inv}},

	Four:        {"Four", "4", []Operation{DiZ, TetZPos}},
	BarFour:     {"BarFour", "-4", []Operation{DiZ, InvTetZPos}},
	FourOverM:   {"FourOverM", "4/m", []Operation{DiZ, TetZPos, Inv}},
	FourTwoTwo:  {"FourTwoTwo", "422", []Operation{DiZ, TetZPos, DiY}},
	FourMM:      {"FourMM", "4mm", []Operation{DiZ, TetZPos, MirY}},
	BarFourTwoM: {"BarFourTwoM", "-42m", []Operation{DiZ, InvTetZPos, DiY}},
	FourOverMMM: {"FourOverMMM", "4/mmm", []Operation{DiZ, TetZPos, DiY, Inv}},

	ThreeR:     {"ThreeR", "3R", []Operation{TriXYZPos}},
	BarThreeR:  {"BarThreeR", "-3R", []Operation{TriXYZPos, Inv}},
	ThreeTwoR:  {"ThreeTwoR", "32R", []Operation{TriXYZPos, DiX_Y}},
	ThreeMR:    {"ThreeMR", "3mR", []Operation{TriXYZPos, MirX_Y}},
	BarThreeMR: {"BarThreeMR", "-3mR", []Operation{TriXYZPos, DiX_Y, Inv}},

	Three:        {"Three", "3", []Operation{TriZPos}},
	BarThree:     {"BarThree", "-3", []Operation{TriZPos, Inv}},
	ThreeOneTwo:  {"ThreeOneTwo", "312", []Operation{TriZPos, DiX_Y}},
	ThreeTwoOne:  {"ThreeTwoOne", "321", []Operation{TriZPos, DiXY}},
	ThreeMOne:    {"ThreeMOne", "3m1", []Operation{TriZPos, MirXY}},
	ThreeOneM:    {"ThreeOneM", "31m", []Operation{TriZPos, MirX_Y}},
	BarThreeOneM: {"BarThreeOneM", "-31m", []Operation{TriZPos, DiX_Y, Inv}},
	BarThreeMOne: {"BarThreeMOne", "-3m1", []Operation{TriZPos, DiXY, Inv}},

	Six:        {"Six", "6", []Operation{TriZPos, DiZ}},
	BarSix:     {"BarSix", "-6", []Operation{TriZPos, MirZ}},
	SixOverM:   {"SixOverM", "6/m", []Operation{TriZPos, DiZ, Inv}},
	SixTwoTwo:  {"SixTwoTwo", "622", []Operation{TriZPos, DiZ, DiXY}},
	SixMM:      {"SixMM", "6mm", []Operation{TriZPos, DiZ, MirXY}},
	BarSixMTwo: {"BarSixMTwo", "-6m2", []Operation{TriZPos, MirZ, MirXY}},
	SixOverMMM: {"SixOverMMM", "6/mmm", []Operation{TriZPos, DiZ, DiXY, Inv}},

	TwoThree:      {"TwoThree", "23", []Operation{DiZ, DiY, TriXYZPos}},
	MBarThree:     {"MBarThree", "m-3", []Operation{DiZ, DiY, TriXYZPos, Inv}},
	FourThreeTwo:  {"FourThreeTwo", "432", []Operation{DiZ, DiY, TriXYZPos, DiXY}},
	BarFourThreeM: {"BarFourThreeM", "-43m", []Operation{DiZ, DiY, TriXYZPos, MirX_Y}},
	MBarThreeM:    {"MBarThreeM", "m-3m", []Operation{DiZ, DiY, TriXYZPos, DiXY, Inv}},
}

// All returns every point group in table order, None first.
func All() []PointGroup {
	out := make([]PointGroup, numGroups)
	for i := range out {
		out[i] = PointGroup(i)
	}
	return out
}

// Valid reports whether g is an entry of the table.
func (g PointGroup) Valid() bool {
	return g >= None && g < numGroups
}

// String returns the Hermann–Mauguin symbol.
func (g PointGroup) String() string {
	if !g.Valid() {
		return fmt.Sprintf("PointGroup(%d)", int(g))
	}
	return groupTable[g].symbol
}

// Name returns the Go identifier of g.
func (g PointGroup) Name() string {
	if !g.Valid() {
		return fmt.Sprintf("PointGroup(%d)", int(g))
	}
	return groupTable[g].name
}

// Generators returns the minimal generator list in application order.
func (g PointGroup) Generators() []Operation {
	if !g.Valid() {
		return nil
	}
	return groupTable[g].generators
}

// Hexagonal reports whether g is written in hexagonal lattice axes.
func (g PointGroup) Hexagonal() bool {
	return g >= Three && g <= SixOverMMM
}

// System names the crystal system of g.
func (g PointGroup) System() string {
	switch {
	case g == None:
		return "none"
	case g <= BarOne:
		return "triclinic"
	case g <= TwoOverM:
		return "monoclinic"
	case g <= MMM:
		return "orthorhombic"
	case g <= FourOverMMM:
		return "tetragonal"
	case g <= BarThreeMR:
		return "trigonal (rhombohedral)"
	case g <= BarThreeMOne:
		return "trigonal (hexagonal)"
	case g <= SixOverMMM:
		return "hexagonal"
	case g <= MBarThreeM:
		return "cubic"
	}
	return "unknown"
}

// Elements returns every operation of g, generated by closing the
// generator set under composition. Operations act on face normals the
// same way Expand does, so hexagonal groups are returned in the output
// axis convention.
func (g PointGroup) Elements() []Operation {
	gens := g.Generators()
	if g.Hexagonal() {
		conj := make([]Operation, len(gens))
		for i, op := range gens {
			conj[i] = Operation{Name: op.Name, M: yFlip.M.Mul(op.M).Mul(yFlip.M)}
		}
		gens = conj
	}

	elems := []Operation{Identity}
	seen := map[Matrix]bool{Identity.M: true}
	for i := 0; i < len(elems); i++ {
		for _, gen := range gens {
			next := elems[i].Then(gen)
			if !seen[next.M] {
				seen[next.M] = true
				elems = append(elems, next)
			}
		}
	}
	return elems
}

// Order returns the number of operations in g.
func (g PointGroup) Order() int {
	return len(g.Elements())
}

// ParsePointGroup accepts a Hermann–Mauguin symbol ("m-3m", "6/mmm", "3R")
// or a Go identifier ("MBarThreeM"), ignoring case and surrounding space.
func ParsePointGroup(s string) (PointGroup, error) {
	s = strings.TrimSpace(s)
	for i, info := range groupTable {
		if strings.EqualFold(s, info.symbol) || strings.EqualFold(s, info.name) {
			return PointGroup(i), nil
		}
	}
	return None, fmt.Errorf("symmetry: unknown point group %q", s)
}

// MarshalText encodes g as its Hermann–Mauguin symbol.
func (g PointGroup) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("symmetry: invalid point group %d", int(g))
	}
	return []byte(g.String()), nil
}

// UnmarshalText decodes a symbol or identifier.
func (g *PointGroup) UnmarshalText(b []byte) error {
	pg, err := ParsePointGroup(string(b))
	if err != nil {
		return err
	}
	*g = pg
	return nil
}

// DefaultCell returns representative unit-cell parameters for the crystal
// system of g. Groups outside the table get the cubic cell.
func DefaultCell(g PointGroup) geom.Cell {
	switch {
	case g >= One && g <= BarOne:
		return geom.Cell{A: 1, B: 1.5, C: 2, Alpha: 30, Beta: 60, Gamma: 80}
	case g >= Two && g <= TwoOverM:
		return geom.Cell{A: 1, B: 2, C: 1.5, Alpha: 90, Beta: 60, Gamma: 90}
	case g >= TwoTwoTwo && g <= MMM:
		return geom.Cell{A: 1, B: 1.5, C: 2, Alpha: 90, Beta: 90, Gamma: 90}
	case g >= Four && g <= FourOverMMM:
		return geom.Cell{A: 1, B: 1, C: 1.5, Alpha: 90, Beta: 90, Gamma: 90}
	case g >= ThreeR && g <= BarThreeMR:
		return geom.Cell{A: 1, B: 1, C: 1, Alpha: 60, Beta: 60, Gamma: 60}
	case g.Hexagonal():
		return geom.Cell{A: 1, B: 1, C: 1.5, Alpha: 90, Beta: 90, Gamma: 120}
	}
	return geom.CubicCell
}
