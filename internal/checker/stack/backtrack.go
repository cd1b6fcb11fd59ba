package stack

import "github.com/kolkov/dporcheck/internal/checker/action"

// Backtrack is the (divergence-action, captured trace) pair spec.md §3
// names: diverge is the specific past action the replay must reach before
// it is free to try something different, and trace is a snapshot of the
// action sequence leading up to it, walked one step at a time by
// AdvanceState as the driver steers the replay back to that point.
//
// diverge is deliberately an *action.Action, not a *Node: a Node is reused
// and mutated across executions (NodeStack.ExploreAction overwrites its
// action on replay), so only the frozen action object captured at the
// moment this Backtrack was created identifies the exact divergence point,
// matching the original ModelChecker's Backtrack, which captures a
// ModelAction* precisely because nodes and actions have different
// lifetimes.
type Backtrack struct {
	diverge *action.Action
	trace   []*action.Action
	index   int
}

// NewBacktrack creates a pending replay that should steer execution back
// to diverge, replaying trace up to that point.
func NewBacktrack(diverge *action.Action, trace []*action.Action) *Backtrack {
	snapshot := make([]*action.Action, len(trace))
	copy(snapshot, trace)
	return &Backtrack{diverge: diverge, trace: snapshot}
}

// Diverge returns the action this backtrack is steering the replay towards.
func (b *Backtrack) Diverge() *action.Action { return b.diverge }

// GetState returns the action at the current replay position, or nil once
// the entire snapshot has been walked (the replay has reached diverge).
func (b *Backtrack) GetState() *action.Action {
	if b.index >= len(b.trace) {
		return nil
	}
	return b.trace[b.index]
}

// AdvanceState moves the replay cursor forward one step and returns the
// new current action (or nil at the end), matching Backtrack::advance_state.
func (b *Backtrack) AdvanceState() *action.Action {
	b.index++
	return b.GetState()
}
