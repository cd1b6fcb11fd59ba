// Package model implements the ModelChecker driver loop (spec.md §4.6):
// the component that schedules modeled threads one at a time, stamps and
// records each action, maintains the modification-order hypothesis,
// detects DPOR conflicts and seeds backtrack points, and steers replays
// back to a chosen divergence point so the next execution tries something
// different.
package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/kolkov/dporcheck/internal/checker/action"
	"github.com/kolkov/dporcheck/internal/checker/clock"
	"github.com/kolkov/dporcheck/internal/checker/cyclegraph"
	"github.com/kolkov/dporcheck/internal/checker/fiber"
	"github.com/kolkov/dporcheck/internal/checker/scheduler"
	"github.com/kolkov/dporcheck/internal/checker/stack"
)

// ActionRequest is what a modeled thread hands the driver at a suspension
// point (spec.md §6's submit_action action_descriptor). Only the fields
// relevant to Type are consulted.
type ActionRequest struct {
	Type     action.Type
	Order    action.Order
	Location action.Location

	// Value is the value to store, for AtomicWrite.
	Value int64

	// RMWFunc computes the new value from the value read, for AtomicRMW.
	// If nil, Value is written as-is (a plain swap).
	RMWFunc func(old int64) int64

	// Target names the thread being awaited, for ThreadJoin.
	Target action.ThreadID

	// Entry is the new thread's body, for ThreadCreate.
	Entry fiber.ThreadFunc
}

// AssertionRequest is yielded by a modeled thread instead of an
// ActionRequest when a user-visible assertion in the modeled program
// fails. It never enters the action trace: an assertion is a property of
// the harness's own code, not an atomic memory operation.
type AssertionRequest struct {
	Message string
}

// threadRuntime is the driver's per-thread bookkeeping, reset fresh at the
// start of every execution.
type threadRuntime struct {
	lastAction *action.Action
	finished   bool

	// parent is the thread that created this one, or -1 for a thread
	// registered directly by the harness (spec.md §4.6 set_backtracking:
	// "Walk parent-wise from act's thread ... until a thread enabled at
	// that Node is found").
	parent action.ThreadID

	// pending is the most recent request this thread yielded that has
	// not yet been turned into a committed Action.
	pending *ActionRequest
}

// locationState is the per-location modification-order bookkeeping: every
// write (and rmw) submitted so far, oldest first.
type locationState struct {
	writes []*action.Action
}

// initThreadID tags the synthetic zero-initialization write every location
// implicitly carries before any modeled thread writes it (spec.md §8
// scenario 5: "rmw(x, +1) acq-rel (initial 0)"; scenario 3 requires a
// relaxed read to be able to observe this value even after a real write has
// since committed, modeling hardware reordering rather than an
// uninitialized-memory bug). It never participates in modification-order
// edges: see the skip in commitWrite/commitRMW.
const initThreadID action.ThreadID = -1

// ModelChecker is the driver described in spec.md §4.6. It owns the
// scheduler, the node stack, the modification-order graph, and the live
// thread runtimes for the execution currently in progress.
type ModelChecker struct {
	opts Options
	log  *zap.SugaredLogger

	rt    *fiber.Runtime
	sched *scheduler.Scheduler
	stack *stack.NodeStack
	cg    *cyclegraph.CycleGraph

	threads      map[action.ThreadID]*threadRuntime
	nextThreadID action.ThreadID

	actionTrace []*action.Action
	currentNode *stack.Node
	usedSeq     atomic.Int64

	backtrackList []*stack.Backtrack
	exploring     *stack.Backtrack

	nextThread    action.ThreadID
	hasNextThread bool

	locs map[action.Location]*locationState

	violation  *Violation
	infeasible bool

	numExecutions atomic.Int64
}

// New creates a ModelChecker with no registered threads. Call
// RegisterThread once per modeled thread before Run.
func New(opts Options) *ModelChecker {
	return &ModelChecker{
		opts:    opts,
		log:     opts.logger(),
		rt:      fiber.NewRuntime(),
		sched:   scheduler.New(),
		stack:   stack.New(),
		cg:      cyclegraph.New(),
		threads: make(map[action.ThreadID]*threadRuntime),
		locs:    make(map[action.Location]*locationState),
	}
}

// RegisterThread adds a new top-level modeled thread (spec.md §6
// register_thread), returning its id. The first thread registered in a
// fresh execution becomes the one Run starts with, unless a replay already
// steered nextThread towards a specific thread.
func (mc *ModelChecker) RegisterThread(entry fiber.ThreadFunc) action.ThreadID {
	tid := mc.nextThreadID
	mc.nextThreadID++
	mc.threads[tid] = &threadRuntime{parent: -1}
	mc.sched.AddThread(tid)
	mc.rt.Spawn(int(tid), entry)
	if !mc.hasNextThread {
		mc.nextThread = tid
		mc.hasNextThread = true
	}
	return tid
}

// spawnThread creates a thread on behalf of a ThreadCreate action
// performed by parent, recording the creation edge set_backtracking's
// parent-walk needs.
func (mc *ModelChecker) spawnThread(entry fiber.ThreadFunc, parent action.ThreadID) action.ThreadID {
	tid := mc.nextThreadID
	mc.nextThreadID++
	mc.threads[tid] = &threadRuntime{parent: parent}
	mc.sched.AddThread(tid)
	mc.rt.Spawn(int(tid), entry)
	return tid
}

func (mc *ModelChecker) nextSeqNum() int64 { return mc.usedSeq.Inc() }

// Violation returns the violation detected in the current execution, if
// any.
func (mc *ModelChecker) Violation() *Violation { return mc.violation }

// ActionTrace returns the current execution's recorded actions, in
// seq_number order.
func (mc *ModelChecker) ActionTrace() []*action.Action { return mc.actionTrace }

// HasMoreExecutions reports whether any backtrack point remains unexplored.
func (mc *ModelChecker) HasMoreExecutions() bool { return len(mc.backtrackList) > 0 }

// Run drives the current execution to completion: resuming threads,
// recording actions, and detecting violations, until no thread is
// runnable, a violation is detected, or the candidate modification order
// is found infeasible (spec.md §4.6's main loop).
func (mc *ModelChecker) Run() {
	for {
		if mc.violation != nil || mc.infeasible {
			return
		}
		if !mc.hasNextThread {
			return
		}

		tid := mc.nextThread
		if !mc.sched.IsEnabled(tid) {
			next, found := mc.sched.NextThread()
			if !found {
				if !mc.allFinished() {
					mc.violation = &Violation{
						Kind:    Deadlock,
						Message: "no thread is runnable but not every thread has finished",
					}
				}
				return
			}
			tid = next
			mc.nextThread = tid
		}
		tr := mc.threads[tid]

		var result int64
		if tr.pending != nil {
			result = mc.processAction(tid, *tr.pending)
			tr.pending = nil
			if mc.violation != nil || mc.infeasible {
				return
			}
			if mc.opts.MaxDepth > 0 && len(mc.actionTrace) >= mc.opts.MaxDepth {
				mc.violation = &Violation{Kind: Deadlock, Message: "max depth exceeded without the execution terminating"}
				return
			}
		}

		y, finished := mc.rt.Resume(int(tid), result)
		if finished {
			mc.finishThread(tid)
		} else {
			switch v := y.(type) {
			case ActionRequest:
				tr.pending = &v
				if v.Type == action.ThreadJoin {
					if target, ok := mc.threads[v.Target]; !ok || !target.finished {
						mc.sched.Block(tid)
					}
				}
			case AssertionRequest:
				mc.violation = &Violation{Kind: Assertion, Message: v.Message}
				return
			}
		}
		mc.advanceDecision()
	}
}

func (mc *ModelChecker) allFinished() bool {
	for _, tr := range mc.threads {
		if !tr.finished {
			return false
		}
	}
	return true
}

// finishThread marks tid as finished and wakes any thread blocked joining
// it.
func (mc *ModelChecker) finishThread(tid action.ThreadID) {
	tr := mc.threads[tid]
	tr.finished = true
	mc.sched.RemoveThread(tid)
	for otherID, other := range mc.threads {
		if other.finished || other.pending == nil {
			continue
		}
		if other.pending.Type == action.ThreadJoin && other.pending.Target == tid {
			mc.sched.Unblock(otherID)
		}
	}
}

// processAction turns req into a committed Action for tid: stamping it,
// classifying it (computing its clock vector, resolving a reads-from
// write, updating the modification-order graph), seeding any DPOR
// backtrack point it conflicts with, and appending it to the trace
// (spec.md §4.6 step 2).
func (mc *ModelChecker) processAction(tid action.ThreadID, req ActionRequest) int64 {
	tr := mc.threads[tid]
	act := action.New(req.Type, req.Order, req.Location, tid, req.Value)
	act.SetSeqNumber(mc.nextSeqNum())
	prevInThread := tr.lastAction

	parent := mc.currentNode
	node := mc.stack.ExploreAction(act, len(mc.threads), func(t int) bool {
		return mc.sched.IsEnabled(action.ThreadID(t))
	})
	act.SetNode(node)

	var result int64
	switch req.Type {
	case action.ThreadCreate:
		newID := mc.spawnThread(req.Entry, tid)
		act.CreateCV(prevInThread)
		result = int64(newID)

	case action.ThreadYield:
		act.CreateCV(prevInThread)

	case action.ThreadJoin:
		act.CreateCV(prevInThread)
		if cv := mc.threadFinalCV(req.Target); cv != nil {
			act.CV().Join(cv)
		}

	case action.AtomicWrite:
		if act.IsRelease() {
			act.CreateCV(prevInThread)
		}
		mc.commitWrite(act)

	case action.AtomicRead:
		var priorCV *clock.VectorClock
		if prevInThread != nil {
			priorCV = prevInThread.CV()
		}
		if w := mc.resolveReadFrom(node, tid, priorCV, act); w != nil {
			act.ReadFrom(w, prevInThread)
			result = w.Value()
		} else {
			// Unreachable in practice: readCandidates always offers at
			// least the location's implicit zero-initialization, short of
			// a driver bug. Kept as a defensive diagnostic rather than a
			// panic (spec.md §7: "fatal driver-invariant failures ...
			// never silently").
			mc.violation = &Violation{
				Kind:    UninitializedRead,
				Message: fmt.Sprintf("thread %d read a location with no eligible prior write", tid),
				Actions: []*action.Action{act},
			}
		}

	case action.AtomicRMW:
		w := mc.lastWrite(act.Location())
		act.ReadFrom(w, prevInThread)
		result = w.Value()
		newValue := req.Value
		if req.RMWFunc != nil {
			newValue = req.RMWFunc(w.Value())
		}
		act.SetValue(newValue)
		mc.commitRMW(act, w)
	}

	mc.setBacktracking(act)
	if parent != nil {
		parent.ExploreChild(int(tid))
	}
	mc.currentNode = node
	mc.actionTrace = append(mc.actionTrace, act)
	tr.lastAction = act
	return result
}

// threadFinalCV returns the clock vector of the most recent action
// performed by tid that actually carries one: a thread's very last action
// may be a plain relaxed write, which per spec.md §3 has no cv of its own,
// so a joiner still needs the nearest synchronizing predecessor's clock.
func (mc *ModelChecker) threadFinalCV(tid action.ThreadID) *clock.VectorClock {
	for i := len(mc.actionTrace) - 1; i >= 0; i-- {
		a := mc.actionTrace[i]
		if a.ThreadID() == tid && a.CV() != nil {
			return a.CV()
		}
	}
	return nil
}

// locationState returns (creating if needed) the write history for loc.
func (mc *ModelChecker) locationState(loc action.Location) *locationState {
	ls, ok := mc.locs[loc]
	if !ok {
		ls = &locationState{}
		mc.locs[loc] = ls
	}
	return ls
}

// ensureInit seeds loc's write history with its implicit zero-initialization
// write the first time loc is touched, so a read or rmw of a fresh location
// always has a value to observe (spec.md §8 scenarios 3 and 5) rather than
// being flagged as reading uninitialized memory.
func (mc *ModelChecker) ensureInit(loc action.Location) *locationState {
	ls := mc.locationState(loc)
	if len(ls.writes) == 0 {
		init := action.New(action.AtomicWrite, action.Relaxed, loc, initThreadID, 0)
		mc.cg.EnsureNode(init)
		ls.writes = append(ls.writes, init)
	}
	return ls
}

func (mc *ModelChecker) lastWrite(loc action.Location) *action.Action {
	ls := mc.ensureInit(loc)
	return ls.writes[len(ls.writes)-1]
}

// readCandidates returns every write to loc a read by tid may legally
// observe, most-recently-committed first: the node's replay cursor always
// tries index 0 before falling back to older candidates (see
// Node.GetNextReadFrom), so the first (non-backtracked) execution of any
// program reads the latest write rather than spuriously reordering to the
// implicit initial value every time — that reordering is still reachable,
// just as a later DPOR alternative rather than the default.
//
// A candidate is every write not already known (via the modification-order
// graph built so far) to precede some other write to the same location,
// plus loc's implicit zero-initialization unless either:
//   - tid has itself already written loc (a thread's own most recent write
//     to a location is always visible to its own later reads of it), or
//   - priorCV (the reading thread's clock vector just before this read, nil
//     if it has none yet) already dominates some real write to loc, i.e.
//     the reader has already synchronized (via an acquire or a join) with a
//     point in time at or after a real write, and so cannot coherently
//     un-see it and observe the older zero-initialization instead.
func (mc *ModelChecker) readCandidates(tid action.ThreadID, priorCV *clock.VectorClock, loc action.Location) []*action.Action {
	ls := mc.ensureInit(loc)
	ownWrite := false
	for _, w := range ls.writes {
		if w.ThreadID() == tid {
			ownWrite = true
			break
		}
	}
	synced := false
	if priorCV != nil {
		for _, w := range ls.writes {
			if w.ThreadID() == initThreadID {
				continue
			}
			if priorCV.Get(int(w.ThreadID())) >= uint64(w.SeqNumber()) {
				synced = true
				break
			}
		}
	}
	candidates := make([]*action.Action, 0, len(ls.writes))
	for i := len(ls.writes) - 1; i >= 0; i-- {
		w := ls.writes[i]
		if w.ThreadID() == initThreadID && (ownWrite || synced) {
			continue
		}
		stale := false
		for _, other := range ls.writes {
			if other != w && mc.cg.Precedes(w, other) {
				stale = true
				break
			}
		}
		if !stale {
			candidates = append(candidates, w)
		}
	}
	return candidates
}

// resolveReadFrom picks which write act (a read by tid) observes, preferring
// the node's own replay cursor over candidates recomputed fresh for this
// execution (see Node.ResetReadFrom), and records a backtrack point if
// other candidates remain so a future execution tries them.
func (mc *ModelChecker) resolveReadFrom(node *stack.Node, tid action.ThreadID, priorCV *clock.VectorClock, act *action.Action) *action.Action {
	candidates := mc.readCandidates(tid, priorCV, act.Location())
	if len(candidates) == 0 {
		return nil
	}
	if act.IsSeqCst() {
		// A seq-cst load must observe the single global order's most
		// recent write: weaker orders are free to reorder with respect to
		// concurrent writes (spec.md §8 scenario 3 relies on exactly that
		// freedom for relaxed), but seq-cst forbids it -- otherwise a
		// store-buffering litmus test (spec.md §8 scenario 4) could
		// observe (0,0), which a single total order over all seq-cst
		// operations never permits. Since this execution already commits
		// actions in one fixed global order (seq_number), "most recent"
		// is simply candidates[0] (readCandidates lists most-recent-first).
		candidates = candidates[:1]
	}
	node.ResetReadFrom(candidates)
	w, ok := node.GetNextReadFrom()
	if !ok {
		return candidates[len(candidates)-1]
	}
	if node.RemainingReadFrom() > 0 {
		snapshot := append(append([]*action.Action{}, mc.actionTrace...), act)
		mc.backtrackList = append(mc.backtrackList, stack.NewBacktrack(act, snapshot))
	}
	return w
}

// commitWrite registers act as the newest write to its location, adding
// modification-order edges from every earlier write the driver can
// already justify ordering it against, and pruning the candidate (via
// CycleGraph rollback) if doing so would create a cycle.
func (mc *ModelChecker) commitWrite(act *action.Action) {
	ls := mc.locationState(act.Location())
	mc.cg.EnsureNode(act)
	mc.cg.StartChanges()
	for _, w := range ls.writes {
		if w.ThreadID() == initThreadID {
			continue
		}
		mc.addCoherenceEdge(w, act)
	}
	if mc.cg.HasCycles() {
		mc.cg.RollbackChanges()
		mc.infeasible = true
		return
	}
	mc.cg.CommitChanges()
	ls.writes = append(ls.writes, act)
}

// commitRMW registers act (the write half of a read-modify-write) as the
// unique rmw-successor of readFromWrite in modification order, and orders
// it against every other write the driver can justify, exactly like
// commitWrite.
func (mc *ModelChecker) commitRMW(act, readFromWrite *action.Action) {
	ls := mc.locationState(act.Location())
	rmwNode := mc.cg.EnsureNode(act)
	fromNode := mc.cg.EnsureNode(readFromWrite)
	mc.cg.StartChanges()
	mc.cg.AddRMWEdge(fromNode, rmwNode)
	for _, w := range ls.writes {
		if w.ThreadID() == initThreadID || w == readFromWrite {
			continue
		}
		mc.addCoherenceEdge(w, act)
	}
	if mc.cg.HasCycles() {
		mc.cg.RollbackChanges()
		mc.infeasible = true
		return
	}
	mc.cg.CommitChanges()
	ls.writes = append(ls.writes, act)
}

// addCoherenceEdge orders two writes to the same location in modification
// order when the driver can justify it: same-thread writes are always
// program-order; cross-thread writes are ordered only when one already
// happens-before the other.
func (mc *ModelChecker) addCoherenceEdge(earlier, later *action.Action) {
	if earlier.SameThread(later) {
		mc.cg.AddEdge(mc.cg.EnsureNode(earlier), mc.cg.EnsureNode(later))
		return
	}
	if later.HappensBefore(earlier) {
		mc.cg.AddEdge(mc.cg.EnsureNode(earlier), mc.cg.EnsureNode(later))
	} else if earlier.HappensBefore(later) {
		mc.cg.AddEdge(mc.cg.EnsureNode(later), mc.cg.EnsureNode(earlier))
	}
}

// getLastConflict scans the trace from most recent to oldest, returning
// the first prior action dependent with act (spec.md §4.6). act must not
// yet be part of mc.actionTrace when this is called.
func (mc *ModelChecker) getLastConflict(act *action.Action) *action.Action {
	for i := len(mc.actionTrace) - 1; i >= 0; i-- {
		if act.IsDependent(mc.actionTrace[i]) {
			return mc.actionTrace[i]
		}
	}
	return nil
}

// setBacktracking seeds a DPOR backtrack point at act's last conflict, if
// any, per spec.md §4.6: walk parent-wise from act's thread until one
// enabled at prev's Node is found, and record it there if it is not
// already explored or pending.
func (mc *ModelChecker) setBacktracking(act *action.Action) {
	prev := mc.getLastConflict(act)
	if prev == nil {
		return
	}
	node, ok := prev.Node().(*stack.Node)
	if !ok || node == nil {
		return
	}
	tid := act.ThreadID()
	for !node.IsEnabled(int(tid)) {
		tr, ok := mc.threads[tid]
		if !ok || tr.parent < 0 {
			return
		}
		tid = tr.parent
	}
	if node.HasBeenExplored(int(tid)) {
		return
	}
	if !node.SetBacktrack(int(tid)) {
		return
	}
	mc.backtrackList = append(mc.backtrackList, stack.NewBacktrack(prev, mc.actionTrace))
}

// advanceDecision computes nextThread for the following loop iteration:
// steering a live replay towards its divergence action, or falling back
// to the scheduler's default policy once none is in progress (spec.md
// §4.6 get_next_replay_thread / advance_backtracking_state).
func (mc *ModelChecker) advanceDecision() {
	if mc.exploring == nil {
		tid, ok := mc.sched.NextThread()
		mc.hasNextThread = ok
		if ok {
			mc.nextThread = tid
		}
		return
	}
	mc.resolveReplayState(mc.exploring.AdvanceState())
}

// beginReplay starts steering towards bt without first advancing its
// cursor, matching the one-time call before the original driver's main
// loop begins a replay.
func (mc *ModelChecker) beginReplay(bt *stack.Backtrack) {
	mc.exploring = bt
	mc.resolveReplayState(bt.GetState())
}

// resolveReplayState interprets one step of the captured replay trace: if
// next is the divergence action, the replay is retired and the driver
// switches to whichever alternative (a different reads-from candidate, or
// a different thread) was recorded there; otherwise it simply steers
// towards next's thread.
func (mc *ModelChecker) resolveReplayState(next *action.Action) {
	if next == nil {
		mc.exploring = nil
		tid, ok := mc.sched.NextThread()
		mc.hasNextThread = ok
		if ok {
			mc.nextThread = tid
		}
		return
	}
	if next == mc.exploring.Diverge() {
		divergeNode, _ := next.Node().(*stack.Node)
		mc.exploring = nil
		if divergeNode != nil && divergeNode.RemainingReadFrom() > 0 {
			mc.nextThread = next.ThreadID()
			mc.hasNextThread = true
			return
		}
		if divergeNode != nil {
			if tid, ok := divergeNode.GetNextBacktrack(); ok {
				mc.nextThread = tid
				mc.hasNextThread = true
				return
			}
		}
		tid, ok := mc.sched.NextThread()
		mc.hasNextThread = ok
		if ok {
			mc.nextThread = tid
		}
		return
	}
	mc.nextThread = next.ThreadID()
	mc.hasNextThread = true
}

func (mc *ModelChecker) popBacktrack() *stack.Backtrack {
	n := len(mc.backtrackList)
	if n == 0 {
		return nil
	}
	bt := mc.backtrackList[n-1]
	mc.backtrackList = mc.backtrackList[:n-1]
	return bt
}

// resetToInitialState discards everything specific to the execution just
// finished, keeping the NodeStack (the DPOR tree persists across
// executions) and the scheduler's policy (spec.md §4.6
// reset_to_initial_state).
func (mc *ModelChecker) resetToInitialState() {
	mc.rt.Reset()
	mc.threads = make(map[action.ThreadID]*threadRuntime)
	mc.nextThreadID = 0
	mc.actionTrace = nil
	mc.currentNode = nil
	mc.stack.ResetExecution()
	mc.sched.Reset()
	mc.cg = cyclegraph.New()
	mc.locs = make(map[action.Location]*locationState)
	mc.usedSeq.Store(0)
	mc.hasNextThread = false
	mc.nextThread = 0
	mc.exploring = nil
	mc.violation = nil
	mc.infeasible = false
}

// NextExecution pops the deepest unexplored backtrack point, resets
// driver state, and steers the next Run towards it, reporting whether one
// was available (spec.md §6 next_execution / §4.6 termination: "returns
// false when backtrack_list is empty").
func (mc *ModelChecker) NextExecution() bool {
	if mc.opts.MaxExecutions > 0 && mc.numExecutions.Load() >= int64(mc.opts.MaxExecutions) {
		return false
	}
	bt := mc.popBacktrack()
	if bt == nil {
		return false
	}
	mc.resetToInitialState()
	mc.beginReplay(bt)
	return true
}

// Summary is the per-execution report: execution count, node total, the
// full action trace, and how the execution ended. It carries no scheduler
// summary.
type Summary struct {
	ExecutionNumber int64
	ActionCount     int
	NodeTotal       int
	Trace           []*action.Action
	Violation       *Violation
	Infeasible      bool
}

// FinishExecution logs and returns a Summary of the execution that just
// ran (spec.md §6 finish_execution).
func (mc *ModelChecker) FinishExecution() Summary {
	n := mc.numExecutions.Inc()
	s := Summary{
		ExecutionNumber: n,
		ActionCount:     len(mc.actionTrace),
		NodeTotal:       mc.stack.TotalNodes(),
		Trace:           mc.actionTrace,
		Violation:       mc.violation,
		Infeasible:      mc.infeasible,
	}
	mc.logSummary(s)
	if s.Violation != nil && mc.opts.GraphvizDir != "" {
		mc.dumpGraphviz()
	}
	return s
}

func (mc *ModelChecker) logSummary(s Summary) {
	fields := []any{"execution", s.ExecutionNumber, "actions", s.ActionCount, "nodes", s.NodeTotal}
	switch {
	case s.Violation != nil:
		mc.log.Errorw("execution flagged a violation", append(fields, "kind", s.Violation.Kind.String(), "message", s.Violation.Message)...)
	case s.Infeasible:
		mc.log.Debugw("execution pruned: modification order infeasible", fields...)
	default:
		mc.log.Infow("execution completed", fields...)
	}
}

// dumpGraphviz writes a best-effort GraphViz rendering of the write nodes
// in the current modification-order graph under Options.GraphvizDir,
// named with a fresh uuid so repeated runs never collide (spec.md §6:
// "Optional GraphViz dump of the CycleGraph for debugging").
func (mc *ModelChecker) dumpGraphviz() string {
	path := filepath.Join(mc.opts.GraphvizDir, uuid.NewString()+".dot")
	if err := os.WriteFile(path, []byte(mc.graphvizDot()), 0o644); err != nil {
		mc.log.Warnw("failed to write graphviz dump", "path", path, "error", err)
	}
	return path
}

func (mc *ModelChecker) graphvizDot() string {
	var b strings.Builder
	b.WriteString("digraph modification_order {\n")
	for _, act := range mc.actionTrace {
		if !act.IsWrite() {
			continue
		}
		fmt.Fprintf(&b, "  %s [label=\"T%d@%d=%d\"];\n", mc.cg.DotID(act), act.ThreadID(), act.SeqNumber(), act.Value())
	}
	b.WriteString("}\n")
	return b.String()
}
