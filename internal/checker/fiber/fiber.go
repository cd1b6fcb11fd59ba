// Package fiber implements the cooperative thread-switching primitive the
// driver uses to run modeled threads one at a time: the idiomatic Go
// analogue of the original checker's ucontext-based Thread::swap, built on
// one goroutine per modeled thread and an unbuffered channel pair per
// thread for turn handoff, matching spec.md §5's suspension points:
// (S1) a modeled thread hands control to the driver at an atomic op,
// (S2) the driver resumes a chosen thread's continuation.
package fiber

import "go.uber.org/atomic"

// ThreadFunc is the body of one modeled thread. It runs on its own
// goroutine and calls Yielder.Yield at every atomic operation, blocking
// until the Runtime resumes it again.
type ThreadFunc func(y *Yielder)

// thread is the per-goroutine handoff state. resumeCh carries the value
// the driver hands back to a blocked Yield call (e.g. the value observed
// for a read); yieldCh carries whatever the thread body passed to Yield.
type thread struct {
	resumeCh chan any
	yieldCh  chan any
	doneCh   chan struct{}
}

// Runtime owns the goroutines backing the currently live modeled threads.
// It is not safe for concurrent use by multiple goroutines other than the
// single driver goroutine and the modeled threads it is directly
// coordinating with.
type Runtime struct {
	threads map[int]*thread
	gen     atomic.Uint64
}

// NewRuntime creates an empty Runtime with no live threads.
func NewRuntime() *Runtime {
	return &Runtime{threads: make(map[int]*thread)}
}

// Spawn starts fn on a new goroutine for modeled thread id. The goroutine
// is paused immediately and will not run any of fn's body until the first
// Resume(id, ...) call.
func (r *Runtime) Spawn(id int, fn ThreadFunc) {
	th := &thread{
		resumeCh: make(chan any),
		yieldCh:  make(chan any),
		doneCh:   make(chan struct{}),
	}
	r.threads[id] = th
	r.gen.Inc()
	go func() {
		<-th.resumeCh
		fn(&Yielder{rt: r, id: id})
		close(th.doneCh)
	}()
}

// Resume hands control to thread id, passing resumeVal as the result of
// whatever Yield call it is blocked on (ignored on the thread's very first
// resume). It blocks until that thread either calls Yield again or
// returns, and reports which happened.
func (r *Runtime) Resume(id int, resumeVal any) (yielded any, finished bool) {
	th, ok := r.threads[id]
	if !ok {
		return nil, true
	}
	th.resumeCh <- resumeVal
	select {
	case v := <-th.yieldCh:
		return v, false
	case <-th.doneCh:
		return nil, true
	}
}

// Reset discards every live thread handle. Any goroutine still blocked in
// Yield is abandoned rather than joined: spec.md §9 places stack
// snapshotting for replay out of scope, and the driver's own replay
// contract assumes the harness re-executes the modeled program from
// scratch rather than resuming an abandoned goroutine.
func (r *Runtime) Reset() {
	r.threads = make(map[int]*thread)
}

// Yielder is the handle a thread body uses to hand control back to the
// driver at each atomic operation.
type Yielder struct {
	rt *Runtime
	id int
}

// Yield hands v to the driver (the pending action descriptor) and blocks
// until the driver calls Resume for this thread again, returning whatever
// value the driver supplied (e.g. the observed value for a read).
func (y *Yielder) Yield(v any) any {
	th := y.rt.threads[y.id]
	th.yieldCh <- v
	return <-th.resumeCh
}
