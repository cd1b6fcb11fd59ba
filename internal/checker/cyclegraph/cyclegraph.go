// Package cyclegraph maintains the modification-order graph used to check
// whether a proposed reads-from assignment is consistent with a total,
// per-location modification order.
//
// Each atomic write (and the read-modify-write half of an RMW) is a node;
// an edge n1 -> n2 records "n1 must precede n2 in modification order".
// A location's writes are totally ordered once enough edges have been
// derived to leave no choice; the graph becomes unsatisfiable the moment
// two nodes are mutually reachable, i.e. a cycle forms.
//
// Changes are applied inside a transaction (StartChanges/CommitChanges or
// RollbackChanges) so the driver can speculatively add edges implied by a
// candidate reads-from, and cheaply undo them if that candidate turns out
// to be infeasible. This directly mirrors the original implementation's
// startChanges/commitChanges/rollbackChanges epoch discipline.
package cyclegraph

import (
	"fmt"

	"github.com/dominikbraun/graph"
	"go.uber.org/atomic"

	"github.com/kolkov/dporcheck/internal/checker/action"
)

var nodeCounter atomic.Int64

// edgeRecord is one entry in the rollback log: the edge from -> to was
// added during the current transaction and must be torn down on rollback.
type edgeRecord struct {
	from *CycleNode
	to   *CycleNode
}

// CycleGraph is the modification-order constraint graph for one execution.
type CycleGraph struct {
	// backing is a vertex/edge store wired up purely so that membership
	// and edge existence can be queried (and dumped) through a generic
	// graph API rather than a bespoke one; CycleNode carries the edges
	// that actually participate in reachability and rollback, since
	// backing offers no back-edge index of its own.
	backing graph.Graph[int64, *CycleNode]

	nodes map[*action.Action]*CycleNode

	hasCycles bool

	inTransaction bool
	cycleAtOpen   bool
	edgeLog       []edgeRecord
	rmwLog        []*CycleNode
}

func nodeHash(n *CycleNode) int64 { return n.id }

// New creates an empty modification-order graph.
func New() *CycleGraph {
	return &CycleGraph{
		backing: graph.New(nodeHash, graph.Directed()),
		nodes:   make(map[*action.Action]*CycleNode),
	}
}

// id is stamped once per node so it can serve as the backing graph's
// vertex hash key; independent of the action's seq number, since nodes
// may be created before their action is stamped onto the trace.
func newID() int64 { return nodeCounter.Inc() }

// EnsureNode returns the CycleNode for act, creating one if this is the
// first time act has been seen.
func (cg *CycleGraph) EnsureNode(act *action.Action) *CycleNode {
	if n, ok := cg.nodes[act]; ok {
		return n
	}
	n := newCycleNode(act)
	n.id = newID()
	cg.nodes[act] = n
	_ = cg.backing.AddVertex(n)
	return n
}

// AddEdge records that from must precede to in modification order,
// mirroring CycleGraph::addNodeEdge: the edge is only checked for forming
// a cycle if the graph does not already have one (once broken, there is no
// value in continuing to check), and if from's action is read by an RMW,
// the edge is retargeted onto the tail of that RMW chain instead - unless
// the chain already reaches to, in which case nothing new is learned.
func (cg *CycleGraph) AddEdge(from, to *CycleNode) {
	if from == to {
		return
	}
	for {
		rmw := from.rmw
		if rmw == nil {
			break
		}
		if rmw == to || cg.reachable(rmw, to) {
			return
		}
		from = rmw
	}
	cg.addEdgeChecked(from, to)
}

// addEdgeChecked performs the actual edge insertion plus the optional
// reachability probe, and appends to the rollback log if a transaction is
// open.
func (cg *CycleGraph) addEdgeChecked(from, to *CycleNode) {
	if !from.addEdge(to) {
		return
	}
	_ = cg.backing.AddEdge(from.id, to.id)
	if cg.inTransaction {
		cg.edgeLog = append(cg.edgeLog, edgeRecord{from: from, to: to})
	}
	if !cg.hasCycles && cg.reachable(to, from) {
		cg.hasCycles = true
	}
}

// AddRMWEdge records that rmw is the read-modify-write reading from the
// write represented by from, mirroring CycleGraph::addRMWEdge: from may
// have at most one RMW reader (asserted below - two RMWs over the same
// write is itself the signature of a cycle, flagged via hasCycles rather
// than a panic, so the driver can simply reject the candidate), and every
// edge from's action had previously earned transfers onto rmw, since
// whatever had to follow from must also follow the RMW that immediately
// follows from in modification order.
func (cg *CycleGraph) AddRMWEdge(from, rmw *CycleNode) {
	if from.rmw != nil && from.rmw != rmw {
		cg.hasCycles = true
		return
	}
	from.rmw = rmw
	if cg.inTransaction {
		cg.rmwLog = append(cg.rmwLog, from)
	}
	for _, succ := range from.successors() {
		if succ == rmw {
			continue
		}
		cg.addEdgeChecked(rmw, succ)
	}
	cg.addEdgeChecked(from, rmw)
}

// reachable performs a breadth-first search from start looking for target,
// mirroring CycleGraph::checkReachable's discovered-set/queue traversal.
func (cg *CycleGraph) reachable(start, target *CycleNode) bool {
	if start == target {
		return true
	}
	discovered := map[*CycleNode]struct{}{start: {}}
	queue := []*CycleNode{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, succ := range n.successors() {
			if succ == target {
				return true
			}
			if _, seen := discovered[succ]; seen {
				continue
			}
			discovered[succ] = struct{}{}
			queue = append(queue, succ)
		}
	}
	return false
}

// HasCycles reports whether the graph currently contains a modification-
// order cycle, i.e. the candidate execution being explored is infeasible.
func (cg *CycleGraph) HasCycles() bool { return cg.hasCycles }

// StartChanges opens a transaction. Only one transaction may be open at a
// time; this mirrors the original's single-epoch assertion that
// rollbackvector and rmwrollbackvector are empty before a new epoch opens.
func (cg *CycleGraph) StartChanges() {
	if cg.inTransaction {
		panic("cyclegraph: StartChanges called while a transaction is already open")
	}
	cg.inTransaction = true
	cg.cycleAtOpen = cg.hasCycles
	cg.edgeLog = cg.edgeLog[:0]
	cg.rmwLog = cg.rmwLog[:0]
}

// CommitChanges closes the open transaction, keeping every edge and RMW
// link added since StartChanges.
func (cg *CycleGraph) CommitChanges() {
	if !cg.inTransaction {
		panic("cyclegraph: CommitChanges called with no open transaction")
	}
	cg.inTransaction = false
	cg.edgeLog = cg.edgeLog[:0]
	cg.rmwLog = cg.rmwLog[:0]
}

// RollbackChanges undoes every edge and RMW link added since StartChanges,
// and restores hasCycles to its value when the transaction opened.
func (cg *CycleGraph) RollbackChanges() {
	if !cg.inTransaction {
		panic("cyclegraph: RollbackChanges called with no open transaction")
	}
	for i := len(cg.edgeLog) - 1; i >= 0; i-- {
		rec := cg.edgeLog[i]
		rec.from.removeEdge(rec.to)
		_ = cg.backing.RemoveEdge(rec.from.id, rec.to.id)
	}
	for i := len(cg.rmwLog) - 1; i >= 0; i-- {
		cg.rmwLog[i].rmw = nil
	}
	cg.hasCycles = cg.cycleAtOpen
	cg.inTransaction = false
	cg.edgeLog = cg.edgeLog[:0]
	cg.rmwLog = cg.rmwLog[:0]
}

// Precedes reports whether from is already known to precede to in
// modification order, i.e. whether a directed path from's node -> to's node
// exists in the graph built so far. Used by the driver to decide whether a
// write is still a valid reads-from candidate for a later read (a write
// that some other, more recent write already precedes is stale).
func (cg *CycleGraph) Precedes(from, to *action.Action) bool {
	fn, ok := cg.nodes[from]
	if !ok {
		return false
	}
	tn, ok := cg.nodes[to]
	if !ok {
		return false
	}
	return cg.reachable(fn, tn)
}

// DotID returns a stable identifier for act's node, suitable for GraphViz
// dumps of the modification order (spec.md diagnostic output on a
// detected cycle).
func (cg *CycleGraph) DotID(act *action.Action) string {
	n, ok := cg.nodes[act]
	if !ok {
		return "?"
	}
	return fmt.Sprintf("n%d", n.id)
}
