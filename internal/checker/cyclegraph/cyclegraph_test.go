package cyclegraph

import (
	"testing"

	"github.com/kolkov/dporcheck/internal/checker/action"
)

func writeAction(tid int, value int64) *action.Action {
	return action.New(action.AtomicWrite, action.SeqCst, 1, action.ThreadID(tid), value)
}

func rmwAction(tid int, value int64) *action.Action {
	return action.New(action.AtomicRMW, action.SeqCst, 1, action.ThreadID(tid), value)
}

func TestAddEdgeNoCycle(t *testing.T) {
	cg := New()
	a := cg.EnsureNode(writeAction(0, 1))
	b := cg.EnsureNode(writeAction(1, 2))

	cg.AddEdge(a, b)

	if cg.HasCycles() {
		t.Errorf("single edge should not create a cycle")
	}
	if !cg.reachable(a, b) {
		t.Errorf("expected a to reach b after AddEdge(a, b)")
	}
}

func TestAddEdgeDetectsCycle(t *testing.T) {
	cg := New()
	a := cg.EnsureNode(writeAction(0, 1))
	b := cg.EnsureNode(writeAction(1, 2))

	cg.AddEdge(a, b)
	cg.AddEdge(b, a)

	if !cg.HasCycles() {
		t.Errorf("expected a cycle after adding both a->b and b->a")
	}
}

func TestRMWEdgeTransfersSuccessors(t *testing.T) {
	cg := New()
	w1 := cg.EnsureNode(writeAction(0, 1))
	w2 := cg.EnsureNode(writeAction(1, 2))
	rmw := cg.EnsureNode(rmwAction(2, 3))

	// w1 -> w2 recorded before the RMW reading from w1 is known.
	cg.AddEdge(w1, w2)
	cg.AddRMWEdge(w1, rmw)

	if !cg.reachable(rmw, w2) {
		t.Errorf("expected rmw to inherit w1's successor edge to w2")
	}
	if !cg.reachable(w1, rmw) {
		t.Errorf("expected w1 -> rmw edge from AddRMWEdge")
	}
}

func TestAddEdgeRetargetsThroughRMWChain(t *testing.T) {
	cg := New()
	w1 := cg.EnsureNode(writeAction(0, 1))
	rmw := cg.EnsureNode(rmwAction(1, 2))
	w3 := cg.EnsureNode(writeAction(2, 3))

	cg.AddRMWEdge(w1, rmw)
	// A later edge from w1 should be retargeted onto rmw, the tail of
	// the RMW chain, not recorded directly on w1.
	cg.AddEdge(w1, w3)

	if w1.hasEdgeTo(w3) {
		t.Errorf("edge from w1 should have been retargeted onto the RMW chain tail")
	}
	if !rmw.hasEdgeTo(w3) {
		t.Errorf("expected rmw -> w3 edge after retargeting")
	}
}

func TestTransactionRollback(t *testing.T) {
	cg := New()
	a := cg.EnsureNode(writeAction(0, 1))
	b := cg.EnsureNode(writeAction(1, 2))
	c := cg.EnsureNode(writeAction(2, 3))

	cg.AddEdge(a, b)

	cg.StartChanges()
	cg.AddEdge(b, c)
	cg.AddEdge(c, a) // closes a cycle within the transaction
	if !cg.HasCycles() {
		t.Fatalf("expected cycle to be detected inside the transaction")
	}
	cg.RollbackChanges()

	if cg.HasCycles() {
		t.Errorf("expected hasCycles to be restored to false after rollback")
	}
	if b.hasEdgeTo(c) || c.hasEdgeTo(a) {
		t.Errorf("expected edges added during the transaction to be undone")
	}
	if !a.hasEdgeTo(b) {
		t.Errorf("edge added before the transaction should survive rollback")
	}
}

func TestTransactionCommitKeepsEdges(t *testing.T) {
	cg := New()
	a := cg.EnsureNode(writeAction(0, 1))
	b := cg.EnsureNode(writeAction(1, 2))

	cg.StartChanges()
	cg.AddEdge(a, b)
	cg.CommitChanges()

	if !a.hasEdgeTo(b) {
		t.Errorf("expected edge to survive a commit")
	}
}

func TestDoubleStartChangesPanics(t *testing.T) {
	cg := New()
	cg.StartChanges()
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on nested StartChanges")
		}
	}()
	cg.StartChanges()
}

func TestEnsureNodeIsIdempotent(t *testing.T) {
	cg := New()
	act := writeAction(0, 1)

	n1 := cg.EnsureNode(act)
	n2 := cg.EnsureNode(act)

	if n1 != n2 {
		t.Errorf("EnsureNode should return the same node for the same action")
	}
}
