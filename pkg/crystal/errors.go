package crystal

import "errors"

// Configuration errors. Generate wraps them with the offending values;
// test with errors.Is.
var (
	// ErrCountMismatch indicates a different number of normals and distances.
	ErrCountMismatch = errors.New("crystal: normals and distances differ in count")

	// ErrUnknownGroup indicates a point group outside the table.
	ErrUnknownGroup = errors.New("crystal: unknown point group")

	// ErrEmptyOrbit indicates a seed that repeats an earlier seed.
	ErrEmptyOrbit = errors.New("crystal: empty symmetry orbit")

	// ErrTooFewHalfspaces indicates fewer than four half-spaces survived
	// deduplication, which cannot bound a solid.
	ErrTooFewHalfspaces = errors.New("crystal: fewer than 4 half-spaces")

	// ErrNonFinite indicates a plane triple meeting at a NaN or infinite
	// point, which only happens for non-finite distances.
	ErrNonFinite = errors.New("crystal: non-finite vertex")

	// ErrTopology is returned in strict mode for anomalies that are
	// otherwise recovered: overfull adjacency, open traces, or an edge
	// graph that is not a single closed surface.
	ErrTopology = errors.New("crystal: invalid topology")
)
