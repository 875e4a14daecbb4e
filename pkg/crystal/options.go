package crystal

import (
	"fmt"
	"runtime"
	"strings"
)

// Winding selects the vertex order of traced faces.
type Winding int

const (
	// Outward orders vertices counter-clockwise seen from outside the
	// solid, so the right-hand normal points out.
	Outward Winding = iota
	// Inward is the reverse of Outward.
	Inward
)

func (w Winding) String() string {
	switch w {
	case Outward:
		return "outward"
	case Inward:
		return "inward"
	}
	return fmt.Sprintf("Winding(%d)", int(w))
}

// ParseWinding accepts "outward"/"ccw" and "inward"/"cw".
func ParseWinding(s string) (Winding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "outward", "ccw":
		return Outward, nil
	case "inward", "cw":
		return Inward, nil
	}
	return Outward, fmt.Errorf("crystal: unknown winding %q", s)
}

// DistanceMode selects how a seed distance relates to its normal.
type DistanceMode int

const (
	// Intercept reads each face as n·p <= d with n as given, so a Miller
	// face (h,k,l) at distance d cuts the axes at d/h, d/k, d/l.
	Intercept DistanceMode = iota
	// Unit measures d along the normalized seed normal.
	Unit
)

func (m DistanceMode) String() string {
	switch m {
	case Intercept:
		return "intercept"
	case Unit:
		return "unit"
	}
	return fmt.Sprintf("DistanceMode(%d)", int(m))
}

// ParseDistanceMode accepts "intercept" and "unit".
func ParseDistanceMode(s string) (DistanceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "intercept":
		return Intercept, nil
	case "unit":
		return Unit, nil
	}
	return Intercept, fmt.Errorf("crystal: unknown distance mode %q", s)
}

// DefaultParallelThreshold is the plane count above which vertex
// generation fans out over workers.
const DefaultParallelThreshold = 40

type config struct {
	winding           Winding
	distances         DistanceMode
	parallelThreshold int
	workers           int
	strict            bool
	diag              *Diagnostics
}

func defaultConfig() config {
	return config{
		winding:           Outward,
		distances:         Intercept,
		parallelThreshold: DefaultParallelThreshold,
		workers:           runtime.GOMAXPROCS(0),
	}
}

// Option configures Generate.
type Option func(*config)

// WithWinding sets the face vertex order. The default is Outward.
func WithWinding(w Winding) Option {
	return func(c *config) { c.winding = w }
}

// WithDistanceMode sets how seed distances are interpreted. The default is Intercept.
func WithDistanceMode(m DistanceMode) Option {
	return func(c *config) { c.distances = m }
}

// WithParallelThreshold sets the plane count above which vertex
// generation runs on a worker pool. Values below 1 disable the pool.
func WithParallelThreshold(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = int(^uint(0) >> 1)
		}
		c.parallelThreshold = n
	}
}

// WithWorkers bounds the worker pool. The default is GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithStrict turns recovered topology anomalies into ErrTopology and
// verifies the finished surface is closed and connected.
func WithStrict() Option {
	return func(c *config) { c.strict = true }
}

// WithDiagnostics records what the run dropped, merged and recovered into d.
func WithDiagnostics(d *Diagnostics) Option {
	return func(c *config) { c.diag = d }
}
