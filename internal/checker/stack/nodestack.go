package stack

import (
	"github.com/gammazero/deque"

	"github.com/kolkov/dporcheck/internal/checker/action"
)

// NodeStack holds the current trace as a sequence of Nodes and a replay
// cursor into it. During a fresh execution, ExploreAction always appends;
// during a divergent replay, it walks the existing tail via the cursor
// instead of creating new nodes, until the point where the new execution
// actually diverges from the old one, matching the original NodeStack's
// iter-based replay design.
type NodeStack struct {
	nodes     deque.Deque[*Node]
	iter      int
	totalNodes int
	root      *Node
}

// New creates an empty node stack.
func New() *NodeStack {
	return &NodeStack{}
}

// GetHead returns the most recently appended node, or nil if empty.
func (ns *NodeStack) GetHead() *Node {
	if ns.nodes.Len() == 0 {
		return nil
	}
	return ns.nodes.Back()
}

// GetNext returns the node at the current replay cursor, if the cursor
// has not yet reached the end of the stack, or nil otherwise. This is how
// a divergent replay resumes following an existing path before it must
// start creating new nodes.
func (ns *NodeStack) GetNext() *Node {
	if ns.iter >= ns.nodes.Len() {
		return nil
	}
	return ns.nodes.At(ns.iter)
}

// ExploreAction returns the node for act: if the replay cursor has not
// reached the end of the stack, the existing node there is reused (and
// its action replaced, since a replay may select a different reads-from
// for the same program-order position); otherwise a fresh node is pushed.
// numThreads sizes a newly created node's backtrack bookkeeping, and
// isEnabled freezes which threads were runnable at creation time (spec.md
// §4.4); both are only consulted when a fresh node is actually created.
func (ns *NodeStack) ExploreAction(act *action.Action, numThreads int, isEnabled func(tid int) bool) *Node {
	if existing := ns.GetNext(); existing != nil {
		existing.act = act
		ns.iter++
		return existing
	}

	var parent *Node
	if ns.nodes.Len() > 0 {
		parent = ns.nodes.Back()
	}
	node := NewNode(act, parent, numThreads)
	if isEnabled != nil {
		node.FreezeEnabled(numThreads, isEnabled)
	}
	if ns.nodes.Len() == 0 {
		ns.root = node
	}
	ns.nodes.PushBack(node)
	ns.totalNodes++
	ns.iter++
	return node
}

// Root returns the first node ever pushed, or nil if the stack is empty.
func (ns *NodeStack) Root() *Node { return ns.root }

// TotalNodes returns the number of nodes ever created, including ones
// later reused across replays (a monotone counter, not the live length).
func (ns *NodeStack) TotalNodes() int { return ns.totalNodes }

// Len returns the number of nodes currently on the stack.
func (ns *NodeStack) Len() int { return ns.nodes.Len() }

// ResetExecution rewinds the replay cursor to the root without discarding
// any node, so the next execution can walk the same prefix again before
// diverging, matching NodeStack::reset_execution.
func (ns *NodeStack) ResetExecution() {
	ns.iter = 0
}

// Truncate drops every node after index n (exclusive). The driver does not
// call it; the replay cursor and TotalNodes are left unchanged.
func (ns *NodeStack) Truncate(n int) {
	for ns.nodes.Len() > n {
		ns.nodes.PopBack()
	}
}
