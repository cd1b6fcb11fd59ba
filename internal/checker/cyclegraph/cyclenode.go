package cyclegraph

import "github.com/kolkov/dporcheck/internal/checker/action"

// CycleNode wraps one Action with the modification-order edges the cycle
// graph has derived for it: outgoing edges (this must come before X in
// modification order), and back edges (Y must come before this), the
// latter kept so an edge can be torn down from either endpoint in O(1),
// matching the original CycleNode::back_edges design.
type CycleNode struct {
	act *action.Action

	// id is a stable vertex key for the backing graph store, assigned
	// once at node creation time.
	id int64

	// rmw is the node of the RMW that reads from this node's action: a
	// write w has rmw != nil when some RMW reads from w, and that RMW must
	// immediately follow w in modification order.
	rmw *CycleNode

	edges     map[*CycleNode]struct{}
	backEdges map[*CycleNode]struct{}
}

func newCycleNode(act *action.Action) *CycleNode {
	return &CycleNode{
		act:       act,
		edges:     make(map[*CycleNode]struct{}),
		backEdges: make(map[*CycleNode]struct{}),
	}
}

// Action returns the action this node represents.
func (n *CycleNode) Action() *action.Action { return n.act }

// RMW returns the node whose action is the RMW reading from this node's
// action, or nil if none has been recorded.
func (n *CycleNode) RMW() *CycleNode { return n.rmw }

// addEdge records a directed edge n -> to. Returns false if the edge
// already existed (addNodeEdge must not double-count a back edge).
func (n *CycleNode) addEdge(to *CycleNode) bool {
	if _, exists := n.edges[to]; exists {
		return false
	}
	n.edges[to] = struct{}{}
	to.backEdges[n] = struct{}{}
	return true
}

// removeEdge tears down a previously added n -> to edge from both sides,
// giving O(1) rollback per original CycleNode::removeEdge.
func (n *CycleNode) removeEdge(to *CycleNode) {
	delete(n.edges, to)
	delete(to.backEdges, n)
}

// hasEdgeTo reports whether a direct n -> to edge exists.
func (n *CycleNode) hasEdgeTo(to *CycleNode) bool {
	_, ok := n.edges[to]
	return ok
}

// successors returns the nodes this node has a direct edge to.
func (n *CycleNode) successors() []*CycleNode {
	out := make([]*CycleNode, 0, len(n.edges))
	for s := range n.edges {
		out = append(out, s)
	}
	return out
}

// backEdgeList returns the nodes with a direct edge into this node.
func (n *CycleNode) backEdgeList() []*CycleNode {
	out := make([]*CycleNode, 0, len(n.backEdges))
	for s := range n.backEdges {
		out = append(out, s)
	}
	return out
}
