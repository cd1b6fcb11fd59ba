package model

import (
	"fmt"

	"github.com/kolkov/dporcheck/internal/checker/action"
)

// ViolationKind classifies why an execution was flagged, per spec.md §7's
// "Detected violation" error kind.
type ViolationKind int

const (
	// DataRace is reserved for harness-level reporting of conflicting
	// unsynchronized accesses. This action model represents only atomic
	// operations (spec.md §3's six-member Action.type enumeration has no
	// "plain access" variant), so the driver itself never raises one; see
	// DESIGN.md.
	DataRace ViolationKind = iota
	// Deadlock marks an execution where no thread is runnable while at
	// least one has not finished, or one that exceeded Options.MaxDepth
	// without terminating (spec.md §8 Non-goals: "not required to be
	// sound against unbounded loops").
	Deadlock
	// Assertion marks a user-visible assertion failure raised by the
	// modeled program itself.
	Assertion
	// UninitializedRead marks a read or rmw of a location with no prior
	// write visible to it (spec.md I2 cannot be satisfied).
	UninitializedRead
)

func (k ViolationKind) String() string {
	switch k {
	case DataRace:
		return "data-race"
	case Deadlock:
		return "deadlock"
	case Assertion:
		return "assertion"
	case UninitializedRead:
		return "uninitialized-read"
	default:
		return "unknown"
	}
}

// Violation records a detected data race, deadlock, assertion failure, or
// uninitialized read (spec.md §7): "violations are recorded at the exact
// point of detection and do not unwind; the driver checks a flag at
// execution boundaries."
type Violation struct {
	Kind    ViolationKind
	Message string

	// Actions holds whichever offending action(s) identify the
	// violation; empty for a deadlock, which has no single culprit.
	Actions []*action.Action
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Kind, v.Message)
}
