package stack

import (
	"testing"

	"github.com/kolkov/dporcheck/internal/checker/action"
)

func TestBacktrackAdvanceState(t *testing.T) {
	a0, a1, a2 := newAction(0), newAction(1), newAction(0)
	trace := []*action.Action{a0, a1, a2}

	b := NewBacktrack(a1, trace)

	if got := b.GetState(); got != a0 {
		t.Fatalf("initial GetState() should be the first trace entry")
	}
	if got := b.AdvanceState(); got != a1 {
		t.Errorf("AdvanceState() = %v, want a1", got)
	}
	if got := b.AdvanceState(); got != a2 {
		t.Errorf("AdvanceState() = %v, want a2", got)
	}
	if got := b.AdvanceState(); got != nil {
		t.Errorf("AdvanceState() past the end should return nil, got %v", got)
	}
}

func TestBacktrackSnapshotIsIndependent(t *testing.T) {
	diverge := newAction(0)
	original := newAction(0)
	trace := []*action.Action{original}

	b := NewBacktrack(diverge, trace)
	trace[0] = newAction(1) // mutate the caller's slice after construction

	if b.GetState() != original {
		t.Errorf("Backtrack should have snapshotted the trace, not aliased it")
	}
	if b.Diverge() != diverge {
		t.Errorf("Diverge() should return the action passed to NewBacktrack")
	}
}
