// Package stack implements the exploration tree the driver replays and
// extends: one Node per action in the current trace, each carrying the
// per-thread backtrack set that records which threads still need a
// divergent execution rooted at that point.
package stack

import "github.com/kolkov/dporcheck/internal/checker/action"

// Node owns the exploration bookkeeping for one action: which threads have
// already been tried from here, which threads are still owed a divergent
// replay, and (for a read) which writes remain to be tried as its source.
type Node struct {
	act        *action.Action
	parent     *Node
	numThreads int

	explored    []bool
	backtrack   []bool
	numBacktrack int

	mayReadFrom    []*action.Action
	readFromCursor int

	// enabled is frozen at node creation (spec.md §4.4: "is_enabled consults
	// the scheduler's enabled-set at the point this node was created;
	// enabledness is frozen with the node").
	enabled []bool
}

// NewNode creates the node for act, whose predecessor in program order
// (across all threads) is parent (nil for the very first action).
// numThreads is the number of threads live at this point, sizing the
// per-thread explored/backtrack vectors.
func NewNode(act *action.Action, parent *Node, numThreads int) *Node {
	return &Node{
		act:        act,
		parent:     parent,
		numThreads: numThreads,
		explored:   make([]bool, numThreads),
		backtrack:  make([]bool, numThreads),
	}
}

// FreezeEnabled snapshots which threads are currently runnable, according
// to isEnabled, so that IsEnabled reflects the schedule as it stood when
// this node was created rather than whatever it is later. Called once by
// the driver immediately after NewNode.
func (n *Node) FreezeEnabled(numThreads int, isEnabled func(tid int) bool) {
	n.enabled = make([]bool, numThreads)
	for tid := 0; tid < numThreads; tid++ {
		n.enabled[tid] = isEnabled(tid)
	}
}

// IsEnabled reports whether tid was runnable at the moment this node was
// created (spec.md §4.4). A thread never recorded at freeze time (e.g. one
// created afterwards) is not enabled here.
func (n *Node) IsEnabled(tid int) bool {
	if tid < 0 || tid >= len(n.enabled) {
		return false
	}
	return n.enabled[tid]
}

// Action returns the action this node represents.
func (n *Node) Action() *action.Action { return n.act }

// Parent returns the preceding node in the trace, or nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// GrowThreads extends the explored/backtrack vectors to cover a newly
// created thread, defaulting its entries to "not explored, not backtracked".
func (n *Node) GrowThreads(numThreads int) {
	if numThreads <= n.numThreads {
		return
	}
	grown := make([]bool, numThreads)
	copy(grown, n.explored)
	n.explored = grown

	grown = make([]bool, numThreads)
	copy(grown, n.backtrack)
	n.backtrack = grown

	n.numThreads = numThreads
}

// HasBeenExplored reports whether tid has already produced a child action
// at this node in some prior execution.
func (n *Node) HasBeenExplored(tid int) bool {
	if tid < 0 || tid >= len(n.explored) {
		return false
	}
	return n.explored[tid]
}

// ExploreChild marks tid as explored from this node: the next time the
// driver reaches this node it will not need to generate a divergent
// execution for tid again. It also clears tid's backtrack bit, since a
// thread that has already been explored needs no further scheduling here,
// mirroring Node::explore_child.
func (n *Node) ExploreChild(tid int) {
	n.GrowThreads(tid + 1)
	n.explored[tid] = true
	if n.backtrack[tid] {
		n.backtrack[tid] = false
		n.numBacktrack--
	}
}

// SetBacktrack marks tid as owed a divergent replay rooted at this node.
// Returns false if tid was already set, matching Node::set_backtrack's
// "newly added" signal used by the driver to avoid queuing duplicates.
func (n *Node) SetBacktrack(tid int) bool {
	n.GrowThreads(tid + 1)
	if n.backtrack[tid] {
		return false
	}
	n.backtrack[tid] = true
	n.numBacktrack++
	return true
}

// IsBacktrackSet reports whether tid is owed a divergent replay here.
func (n *Node) IsBacktrackSet(tid int) bool {
	if tid < 0 || tid >= len(n.backtrack) {
		return false
	}
	return n.backtrack[tid]
}

// BacktrackEmpty reports whether every thread's backtrack bit is clear.
func (n *Node) BacktrackEmpty() bool { return n.numBacktrack == 0 }

// GetNextBacktrack pops and clears one owed thread, preferring the lowest
// tid for determinism, and reports whether one was found.
func (n *Node) GetNextBacktrack() (int, bool) {
	for tid, set := range n.backtrack {
		if set {
			n.backtrack[tid] = false
			n.numBacktrack--
			return tid, true
		}
	}
	return 0, false
}

// AddReadFrom appends w to the set of writes this node's read action may
// be replayed against in a future divergent execution.
func (n *Node) AddReadFrom(w *action.Action) {
	n.mayReadFrom = append(n.mayReadFrom, w)
}

// MayReadFrom returns every write candidate recorded for this node's read.
func (n *Node) MayReadFrom() []*action.Action { return n.mayReadFrom }

// GetNextReadFrom advances the replay cursor through MayReadFrom and
// returns the next candidate, or (nil, false) once exhausted.
func (n *Node) GetNextReadFrom() (*action.Action, bool) {
	if n.readFromCursor >= len(n.mayReadFrom) {
		return nil, false
	}
	w := n.mayReadFrom[n.readFromCursor]
	n.readFromCursor++
	return w, true
}

// ResetReadFrom replaces the candidate set with freshly computed writes for
// the current execution, without disturbing the replay cursor. A read's
// candidate writes are rebuilt every time the driver reaches this node
// (rather than reused across executions) because the write actions
// themselves are rebuilt fresh each execution; the cursor position is what
// carries the "which alternative have we already tried" state forward.
func (n *Node) ResetReadFrom(candidates []*action.Action) {
	n.mayReadFrom = candidates
}

// RemainingReadFrom reports how many candidates are left untried after the
// most recent GetNextReadFrom call, used by the driver to decide whether
// this node still owes a divergent replay over its reads-from choice.
func (n *Node) RemainingReadFrom() int {
	return len(n.mayReadFrom) - n.readFromCursor
}
