// Package action implements the representation of one atomic operation and
// its derived relations: program order, reads-from, synchronizes-with, and
// happens-before.
//
// An Action is a value object: type, memory order, location, originating
// thread, and payload are fixed at construction. Everything derived from
// those fields (is-read, is-acquire, same-location, happens-before, ...) is
// computed on demand rather than cached, matching the teacher's approach in
// internal/race/epoch of keeping the represented state minimal and deriving
// the rest.
package action

import "github.com/kolkov/dporcheck/internal/checker/clock"

// Type identifies the kind of atomic operation an Action represents.
type Type int

// The six action kinds named in spec.md §3.
const (
	ThreadCreate Type = iota
	ThreadYield
	ThreadJoin
	AtomicRead
	AtomicWrite
	AtomicRMW
)

func (t Type) String() string {
	switch t {
	case ThreadCreate:
		return "thread-create"
	case ThreadYield:
		return "thread-yield"
	case ThreadJoin:
		return "thread-join"
	case AtomicRead:
		return "atomic-read"
	case AtomicWrite:
		return "atomic-write"
	case AtomicRMW:
		return "atomic-rmw"
	default:
		return "unknown"
	}
}

// Order is the memory ordering tag attached to an atomic operation.
type Order int

// The five memory orders named in spec.md §3.
const (
	Relaxed Order = iota
	Acquire
	Release
	AcqRel
	SeqCst
)

func (o Order) String() string {
	switch o {
	case Relaxed:
		return "relaxed"
	case Acquire:
		return "acquire"
	case Release:
		return "release"
	case AcqRel:
		return "acq-rel"
	case SeqCst:
		return "seq-cst"
	default:
		return "unknown"
	}
}

// Location is the opaque address identity of the memory object an action
// operates on. Per spec.md §3: "equality is the only operation."
type Location uintptr

// ThreadID identifies the thread (goroutine, in the modeled program) that
// performed an action.
type ThreadID int

// Node is the minimal surface an action's back-reference needs. It is
// satisfied by *stack.Node; declared here (rather than imported) to avoid
// a dependency cycle, since stack.Node itself embeds *Action.
type Node interface {
	// Comparable identity is all Action requires of its owning Node.
}

// Action represents one atomic event performed by a modeled thread.
//
// Construction records Type, Order, Location and Value; everything else
// (SeqNumber, Node, CV) is filled in later by the driver, exactly once each,
// per spec.md §4.1.
type Action struct {
	typ      Type
	order    Order
	location Location
	tid      ThreadID
	value    int64

	// seqNumber is assigned exactly once by the driver at enqueue time
	// (spec.md I1: sequence numbers are unique and monotone).
	seqNumber int64

	// node is a weak back-reference to the NodeStack node that owns this
	// action's exploration state. Declared as `any` to avoid an import
	// cycle with package stack; callers type-assert to *stack.Node.
	node any

	// cv is the clock vector at this action. Only present for actions
	// that participate in synchronization: writes with release semantics
	// or stronger, reads, rmw, and thread create/join (spec.md §3).
	cv *clock.VectorClock

	// readFrom is the write action this read (or rmw) observed. Only set
	// for reads/rmws, after ReadFrom is called (spec.md I2/I3).
	readFrom *Action
}

// New constructs an Action recording only its immutable fields. SeqNumber,
// Node and CV are assigned later by the driver.
func New(typ Type, order Order, loc Location, tid ThreadID, value int64) *Action {
	return &Action{typ: typ, order: order, location: loc, tid: tid, value: value}
}

// Type returns the action's kind.
func (a *Action) Type() Type { return a.typ }

// Order returns the action's memory ordering tag.
func (a *Action) Order() Order { return a.order }

// Location returns the memory location this action operates on.
func (a *Action) Location() Location { return a.location }

// ThreadID returns the originating thread's identity.
func (a *Action) ThreadID() ThreadID { return a.tid }

// Value returns the action's integer payload: the value observed for a
// read, or the value written for a write/rmw.
func (a *Action) Value() int64 { return a.value }

// SetValue overwrites the action's payload. Used only for an rmw, whose
// written value (new = f(old)) is not known until the driver has resolved
// which write it reads from.
func (a *Action) SetValue(v int64) { a.value = v }

// SeqNumber returns the driver-assigned sequence stamp.
func (a *Action) SeqNumber() int64 { return a.seqNumber }

// SetSeqNumber stamps the action with its position in the global trace
// order. Called exactly once, by the driver, at enqueue time (spec.md I1).
func (a *Action) SetSeqNumber(n int64) { a.seqNumber = n }

// SetNode attaches the owning NodeStack node. Called exactly once, before
// the action is placed on the trace (spec.md §4.1).
func (a *Action) SetNode(n any) { a.node = n }

// Node returns the owning NodeStack node (as `any`; callers type-assert).
func (a *Action) Node() any { return a.node }

// CV returns the clock vector attached to this action, or nil if this
// action does not participate in synchronization.
func (a *Action) CV() *clock.VectorClock { return a.cv }

// ReadFromAction returns the write this read (or rmw) observed, or nil.
func (a *Action) ReadFromAction() *Action { return a.readFrom }

// IsRead reports whether this action observes a value (read or rmw).
func (a *Action) IsRead() bool { return a.typ == AtomicRead || a.typ == AtomicRMW }

// IsWrite reports whether this action publishes a value (write or rmw).
func (a *Action) IsWrite() bool { return a.typ == AtomicWrite || a.typ == AtomicRMW }

// IsRMW reports whether this action is a read-modify-write.
func (a *Action) IsRMW() bool { return a.typ == AtomicRMW }

// IsAcquire reports whether this action is a read/rmw with acquire-or-
// stronger ordering (acquire, acq-rel, seq-cst), per spec.md §3.
func (a *Action) IsAcquire() bool {
	if !a.IsRead() {
		return false
	}
	return a.order == Acquire || a.order == AcqRel || a.order == SeqCst
}

// IsRelease reports whether this action is a write/rmw with release-or-
// stronger ordering (release, acq-rel, seq-cst), per spec.md §3.
func (a *Action) IsRelease() bool {
	if !a.IsWrite() {
		return false
	}
	return a.order == Release || a.order == AcqRel || a.order == SeqCst
}

// IsSeqCst reports whether this action carries sequentially-consistent
// ordering.
func (a *Action) IsSeqCst() bool { return a.order == SeqCst }

// SameLocation reports whether this and other address the same memory
// object.
func (a *Action) SameLocation(other *Action) bool { return a.location == other.location }

// SameThread reports whether this and other were performed by the same
// thread.
func (a *Action) SameThread(other *Action) bool { return a.tid == other.tid }

// IsDependent reports whether this and other must be ordered relative to
// one another when searching for conflicts (spec.md §4.6
// get_last_conflict): both touch the same location and at least one is a
// write. Thread-create/yield/join are never dependent.
func (a *Action) IsDependent(other *Action) bool {
	switch a.typ {
	case ThreadCreate, ThreadYield, ThreadJoin:
		return false
	}
	switch other.typ {
	case ThreadCreate, ThreadYield, ThreadJoin:
		return false
	}
	if !a.SameLocation(other) {
		return false
	}
	return a.IsWrite() || other.IsWrite()
}

// SynchronizesWith reports whether other is a release-write paired with
// this acquire-read/rmw of the same location in a reads-from chain
// (spec.md §3).
func (a *Action) SynchronizesWith(other *Action) bool {
	if !a.IsAcquire() || !other.IsRelease() {
		return false
	}
	if !a.SameLocation(other) {
		return false
	}
	return a.readFrom == other
}

// CreateCV creates this action's clock vector from a parent action in the
// same thread's program order (may be nil for a thread's first action),
// per spec.md §4.1/§4.2: "Construct-from-parent copies and bumps the
// acting thread."
func (a *Action) CreateCV(parentInThread *Action) {
	var parentCV *clock.VectorClock
	if parentInThread != nil {
		parentCV = parentInThread.cv
	}
	a.cv = clock.NewFromParent(parentCV, int(a.tid))
}

// ReadFrom records the reads-from link from this read/rmw action to the
// write action w, and derives this action's clock vector from it
// (spec.md §4.1): "the new clock vector takes the max of the reading
// thread's prior clock and the writer's clock; if the read is acquire, the
// merge is applied, otherwise only the thread bump is recorded."
func (a *Action) ReadFrom(w *Action, priorInThread *Action) {
	a.readFrom = w
	a.CreateCV(priorInThread)
	if a.IsAcquire() && w.cv != nil {
		a.cv.Join(w.cv)
	}
}

// HappensBefore tests this.cv[other.tid] >= other.seq_number (spec.md
// §4.1/I4), i.e. whether other happened-before this action.
func (a *Action) HappensBefore(other *Action) bool {
	if a.cv == nil {
		return false
	}
	return a.cv.Get(int(other.tid)) >= uint64(other.seqNumber)
}
