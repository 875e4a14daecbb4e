// Package regen coalesces crystal regeneration requests. At most one
// generation runs at a time and at most one request waits behind it; a
// newer request replaces the waiting one, so an interactive editor that
// submits on every change only ever pays for the latest state.
package regen

import (
	"sync"
	"sync/atomic"

	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/geom"
)

// Request is one regeneration job.
type Request struct {
	Description crystal.Description
	Cell        geom.Cell
}

// Result is the outcome of one generation.
type Result struct {
	Generation  uint64
	Description crystal.Description
	Polyhedron  *crystal.Polyhedron
	Basis       geom.Basis
	Diagnostics *crystal.Diagnostics
	Err         error
}

type job struct {
	gen uint64
	req Request
}

// Coalescer runs regeneration requests one at a time in the background.
// It is safe for concurrent use.
type Coalescer struct {
	mu      sync.Mutex
	idle    *sync.Cond
	running bool
	pending *job
	gen     uint64

	latest atomic.Pointer[Result]
	onDone func(*Result)
	opts   []crystal.Option

	// generate is replaced in tests.
	generate func(job) *Result
}

// New returns a Coalescer. onDone, if non-nil, is called from the worker
// goroutine after every completed generation. opts are passed to every
// crystal.Generate call.
func New(onDone func(*Result), opts ...crystal.Option) *Coalescer {
	c := &Coalescer{onDone: onDone, opts: opts}
	c.idle = sync.NewCond(&c.mu)
	c.generate = c.run
	return c
}

// Submit queues req and returns its generation number. If a request is
// already waiting it is discarded in favour of req.
func (c *Coalescer) Submit(req Request) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	if c.pending != nil {
		crystal.Logger().Debug("regen: request superseded", "generation", c.pending.gen, "by", c.gen)
	}
	c.pending = &job{gen: c.gen, req: req}
	if !c.running {
		c.running = true
		go c.loop()
	}
	return c.gen
}

// Latest returns the most recent completed result, or nil.
func (c *Coalescer) Latest() *Result {
	return c.latest.Load()
}

// Wait blocks until no generation is running or pending.
func (c *Coalescer) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.running {
		c.idle.Wait()
	}
}

func (c *Coalescer) loop() {
	for {
		c.mu.Lock()
		j := c.pending
		c.pending = nil
		if j == nil {
			c.running = false
			c.idle.Broadcast()
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		res := c.generate(*j)
		c.latest.Store(res)
		if c.onDone != nil {
			c.onDone(res)
		}
	}
}

// run generates one crystal. Panics are converted to errors so a bad
// request cannot stop the worker.
func (c *Coalescer) run(j job) (res *Result) {
	res = &Result{Generation: j.gen, Description: j.req.Description, Diagnostics: &crystal.Diagnostics{}}
	defer func() {
		if r := recover(); r != nil {
			res.Polyhedron = nil
			res.Err = &PanicError{Value: r}
		}
	}()

	b, err := j.req.Cell.Basis()
	if err != nil {
		res.Err = err
		return res
	}
	res.Basis = b

	opts := append(c.opts[:len(c.opts):len(c.opts)], crystal.WithDiagnostics(res.Diagnostics))
	res.Polyhedron, res.Err = crystal.Generate(j.req.Description, opts...)
	return res
}
