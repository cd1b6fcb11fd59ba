package fiber

import "testing"

func TestResumeDeliversYieldedValue(t *testing.T) {
	rt := NewRuntime()
	rt.Spawn(0, func(y *Yielder) {
		got := y.Yield("first")
		if got != "resumed" {
			t.Errorf("expected resume value 'resumed', got %v", got)
		}
		y.Yield("second")
	})

	v, done := rt.Resume(0, nil)
	if done || v != "first" {
		t.Fatalf("expected ('first', false), got (%v, %v)", v, done)
	}

	v, done = rt.Resume(0, "resumed")
	if done || v != "second" {
		t.Fatalf("expected ('second', false), got (%v, %v)", v, done)
	}
}

func TestResumeReportsFinished(t *testing.T) {
	rt := NewRuntime()
	rt.Spawn(0, func(y *Yielder) {})

	_, done := rt.Resume(0, nil)
	if !done {
		t.Errorf("expected thread with empty body to finish on first resume")
	}
}

func TestResumeUnknownThreadIsFinished(t *testing.T) {
	rt := NewRuntime()
	if _, done := rt.Resume(99, nil); !done {
		t.Errorf("resuming an unregistered thread should report finished")
	}
}

func TestResetDropsThreads(t *testing.T) {
	rt := NewRuntime()
	rt.Spawn(0, func(y *Yielder) { y.Yield(nil) })
	rt.Resume(0, nil)

	rt.Reset()
	if _, done := rt.Resume(0, nil); !done {
		t.Errorf("expected reset to drop thread 0")
	}
}
