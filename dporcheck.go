// Package dporcheck is the harness-facing surface of the checker (spec.md
// §6): register thread bodies written against a Handle, then drive the
// exploration to exhaustion with Run/NextExecution.
//
// A typical litmus program looks like:
//
//	checker := dporcheck.New(dporcheck.Options{})
//	checker.Go(func(h *dporcheck.Handle) {
//		h.Store(x, dporcheck.Relaxed, 1)
//	})
//	checker.Go(func(h *dporcheck.Handle) {
//		if h.Load(x, dporcheck.Relaxed) == 1 {
//			h.Assert(someInvariant, "x observed before its writer finished")
//		}
//	})
//	for {
//		checker.Run()
//		summary := checker.FinishExecution()
//		if summary.Violation != nil {
//			// report and stop, or keep exploring other interleavings
//		}
//		if !checker.NextExecution() {
//			break
//		}
//	}
package dporcheck

import (
	"github.com/kolkov/dporcheck/internal/checker/action"
	"github.com/kolkov/dporcheck/internal/checker/fiber"
	"github.com/kolkov/dporcheck/internal/checker/model"
	"github.com/kolkov/dporcheck/internal/checker/trace"
)

// Re-exported so callers never need to import the internal packages
// directly (spec.md §6's external interface is all a harness should see).
type (
	Order     = action.Order
	Location  = action.Location
	ThreadID  = action.ThreadID
	Options       = model.Options
	Summary       = model.Summary
	Violation     = model.Violation
	ViolationKind = model.ViolationKind
)

const (
	Relaxed = action.Relaxed
	Acquire = action.Acquire
	Release = action.Release
	AcqRel  = action.AcqRel
	SeqCst  = action.SeqCst
)

const (
	DataRace          = model.DataRace
	Deadlock          = model.Deadlock
	Assertion         = model.Assertion
	UninitializedRead = model.UninitializedRead
)

// ThreadFunc is the body of one modeled thread, written against a Handle.
type ThreadFunc func(h *Handle)

// Checker drives the exploration of one multithreaded program across every
// DPOR-representative execution (spec.md §6's register_thread/
// submit_action/finish_execution/next_execution surface).
type Checker struct {
	mc *model.ModelChecker
}

// New constructs a Checker with no registered threads. Call Go once per
// modeled thread before the first Run.
func New(opts Options) *Checker {
	return &Checker{mc: model.New(opts)}
}

// Go registers a new top-level modeled thread (spec.md §6 register_thread)
// and returns its id.
func (c *Checker) Go(fn ThreadFunc) ThreadID {
	return c.mc.RegisterThread(func(y *fiber.Yielder) { fn(&Handle{c: c, y: y}) })
}

// Run drives the current execution to completion.
func (c *Checker) Run() { c.mc.Run() }

// FinishExecution reports the execution that just ran (spec.md §6
// finish_execution).
func (c *Checker) FinishExecution() Summary { return c.mc.FinishExecution() }

// NextExecution advances to the next unexplored interleaving, replaying the
// captured prefix and diverging at the recorded backtrack point. It
// returns false once every DPOR-representative execution has been explored
// (spec.md §6 next_execution).
func (c *Checker) NextExecution() bool { return c.mc.NextExecution() }

// HasMoreExecutions reports whether any backtrack point remains
// unexplored, without consuming it.
func (c *Checker) HasMoreExecutions() bool { return c.mc.HasMoreExecutions() }

// Violation returns the violation detected in the current execution, if
// any.
func (c *Checker) Violation() *Violation { return c.mc.Violation() }

// Linearize runs the sequential-consistency analysis (spec.md §4.7) over
// the current execution's trace.
func (c *Checker) Linearize() trace.Result {
	return trace.New().Analyze(c.mc.ActionTrace())
}

// ExploreAll drives every DPOR-representative execution in turn, calling
// report after each one finishes. It stops early if report returns false.
func (c *Checker) ExploreAll(report func(Summary) bool) {
	for {
		c.Run()
		if !report(c.FinishExecution()) {
			return
		}
		if !c.NextExecution() {
			return
		}
	}
}

// Handle is what a modeled thread body uses to perform atomic operations,
// create and join other threads, and assert program invariants. It wraps
// the Yielder a thread body suspends on at every operation (spec.md §5's
// suspension points S1/S2).
type Handle struct {
	c *Checker
	y *fiber.Yielder
}

// Load performs an atomic read, returning the value the driver resolved it
// against.
func (h *Handle) Load(loc Location, order Order) int64 {
	v := h.y.Yield(model.ActionRequest{Type: action.AtomicRead, Order: order, Location: loc})
	return v.(int64)
}

// Store performs an atomic write.
func (h *Handle) Store(loc Location, order Order, value int64) {
	h.y.Yield(model.ActionRequest{Type: action.AtomicWrite, Order: order, Location: loc, Value: value})
}

// RMW performs an atomic read-modify-write, applying fn to the value read
// to compute the value written, and returns the value read.
func (h *Handle) RMW(loc Location, order Order, fn func(old int64) int64) int64 {
	v := h.y.Yield(model.ActionRequest{Type: action.AtomicRMW, Order: order, Location: loc, RMWFunc: fn})
	return v.(int64)
}

// Yield performs a bare thread-yield, giving the scheduler a chance to
// interleave another thread without touching any memory location.
func (h *Handle) Yield() {
	h.y.Yield(model.ActionRequest{Type: action.ThreadYield})
}

// CreateThread spawns a new modeled thread running fn as a child of the
// calling thread, returning its id.
func (h *Handle) CreateThread(fn ThreadFunc) ThreadID {
	v := h.y.Yield(model.ActionRequest{
		Type:  action.ThreadCreate,
		Entry: func(y *fiber.Yielder) { fn(&Handle{c: h.c, y: y}) },
	})
	return ThreadID(v.(int64))
}

// Join blocks the calling thread until target has finished.
func (h *Handle) Join(target ThreadID) {
	h.y.Yield(model.ActionRequest{Type: action.ThreadJoin, Target: target})
}

// Assert reports a user-visible assertion failure if cond is false. Unlike
// a Go panic, this is recorded as an Assertion-flavored Violation rather
// than crashing the checker (spec.md §7: "user-visible assertion failures"
// are a Detected-violation error kind, not a Driver-invariant failure).
func (h *Handle) Assert(cond bool, message string) {
	if cond {
		return
	}
	h.y.Yield(model.AssertionRequest{Message: message})
}
