package scene

import (
	"fmt"
	"math"

	"github.com/chazu/druse/pkg/geom"
)

// ValidationSeverity indicates whether a validation finding blocks
// generation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks generation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Crystal  string             // which crystal has the problem (empty if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Crystal == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] crystal %q: %s", e.Severity, e.Crystal, e.Message)
}

// ValidationResult bundles errors (blocking) and warnings (advisory).
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the structural and geometric checks on s. This function is
// read-only and never mutates the scene.
func Validate(s *Scene) ValidationResult {
	var all []ValidationError
	all = append(all, validateNames(s)...)
	all = append(all, validatePlacements(s)...)
	for _, c := range s.Crystals {
		all = append(all, validateCrystal(c)...)
	}

	var result ValidationResult
	for _, e := range all {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, e)
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	return result
}

// validateNames checks that every crystal is named and no two crystals
// share a name.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int)
	for _, c := range s.Crystals {
		if c.Name() == "" {
			errs = append(errs, ValidationError{
				Message:  "crystal has no name",
				Severity: SeverityError,
			})
			continue
		}
		seen[c.Name()]++
		if seen[c.Name()] == 2 {
			errs = append(errs, ValidationError{
				Crystal:  c.Name(),
				Message:  "duplicate crystal name",
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validatePlacements checks that every placement names a defined crystal
// and warns about crystals that are never placed.
func validatePlacements(s *Scene) []ValidationError {
	var errs []ValidationError
	placed := make(map[string]bool)
	for i, p := range s.Placements {
		if s.Lookup(p.Crystal) == nil {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("placement %d references unknown crystal %q", i, p.Crystal),
				Severity: SeverityError,
			})
		}
		placed[p.Crystal] = true
	}
	for _, c := range s.Crystals {
		if c.Name() != "" && !placed[c.Name()] {
			errs = append(errs, ValidationError{
				Crystal:  c.Name(),
				Message:  "crystal is never placed",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateCrystal checks one description and its cell.
func validateCrystal(c *Crystal) []ValidationError {
	var errs []ValidationError
	d := c.Description
	add := func(sev ValidationSeverity, format string, args ...any) {
		errs = append(errs, ValidationError{
			Crystal:  c.Name(),
			Message:  fmt.Sprintf(format, args...),
			Severity: sev,
		})
	}

	if !d.Group.Valid() {
		add(SeverityError, "unknown point group %d", int(d.Group))
	}
	if len(d.Normals) != len(d.Distances) {
		add(SeverityError, "%d normals but %d distances", len(d.Normals), len(d.Distances))
	}
	if len(d.Normals) == 0 {
		add(SeverityError, "no seed faces")
	}

	for i := 0; i < min(len(d.Normals), len(d.Distances)); i++ {
		switch {
		case math.IsNaN(d.Distances[i]) || math.IsInf(d.Distances[i], 0):
			add(SeverityError, "seed %d has a non-finite distance", i)
		case geom.IsZero(d.Normals[i]):
			add(SeverityWarning, "seed %d has a zero normal and will be dropped", i)
		case d.Distances[i] == 0:
			add(SeverityWarning, "seed %d has a zero distance and will be dropped", i)
		case d.Distances[i] < 0:
			add(SeverityWarning, "seed %d has a negative distance, so the origin lies outside its half-space", i)
		}
	}

	if _, err := c.Cell.Basis(); err != nil {
		add(SeverityError, "%v", err)
	}
	if len(c.Materials) > len(d.Normals) {
		add(SeverityWarning, "%d materials for %d seed faces", len(c.Materials), len(d.Normals))
	}
	return errs
}
