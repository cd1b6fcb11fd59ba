// Package clock implements vector clocks for tracking the happens-before
// relation across the threads of a modeled execution.
//
// Vector clocks are attached to Actions that participate in synchronization
// (see the action package). Unlike a dynamic race detector, which keeps one
// fixed-size clock per live goroutine and must bound memory up front, a
// stateless checker re-derives clocks for a bounded, explicitly enumerated
// set of modeled threads, so a clock here grows to cover exactly the threads
// it has actually observed instead of pre-allocating a worst-case table.
//
// Key operations:
//   - Join: synchronization (point-wise maximum) - used when a read observes
//     a release write, or a join/acquire observes a prior release.
//   - LessOrEqual: happens-before check (partial order) - used to test
//     whether one action happened-before another.
package clock

import "strings"

// VectorClock maps thread id to the highest sequence number that thread has
// reached, from the point of view of the action this clock is attached to.
//
// The zero value is a valid empty clock (all threads at 0).
type VectorClock struct {
	clocks []uint64 // clocks[tid] is the clock value for thread tid.
}

// New creates an empty vector clock. All thread clocks start at 0,
// representing the beginning of logical time.
func New() *VectorClock {
	return &VectorClock{}
}

// NewFromParent creates a vector clock by copying parent and bumping the
// acting thread tid by one. This mirrors the construct-from-parent rule in
// §4.2: "Construct-from-parent copies and bumps the acting thread."
func NewFromParent(parent *VectorClock, tid int) *VectorClock {
	vc := New()
	if parent != nil {
		vc.CopyFrom(parent)
	}
	vc.grow(tid)
	vc.clocks[tid]++
	return vc
}

// grow ensures the clock has room to address thread tid.
func (vc *VectorClock) grow(tid int) {
	if tid < len(vc.clocks) {
		return
	}
	next := make([]uint64, tid+1)
	copy(next, vc.clocks)
	vc.clocks = next
}

// Clone creates a deep copy of the vector clock. Cloning is O(live-threads),
// per §4.2.
func (vc *VectorClock) Clone() *VectorClock {
	clone := &VectorClock{clocks: make([]uint64, len(vc.clocks))}
	copy(clone.clocks, vc.clocks)
	return clone
}

// CopyFrom replaces vc's contents with other's. It allocates a fresh
// backing slice, so vc never shares storage with other.
func (vc *VectorClock) CopyFrom(other *VectorClock) {
	vc.clocks = make([]uint64, len(other.clocks))
	copy(vc.clocks, other.clocks)
}

// Join performs point-wise maximum: vc = vc ⊔ other. This is the
// synchronization operation for happens-before: Ct := Ct ⊔ Lm when a thread
// observes a release.
//
// Join never shrinks vc; per §4.2, "Never shrinks."
func (vc *VectorClock) Join(other *VectorClock) {
	if other == nil {
		return
	}
	vc.grow(len(other.clocks) - 1)
	for i, v := range other.clocks {
		if v > vc.clocks[i] {
			vc.clocks[i] = v
		}
	}
}

// LessOrEqual checks the partial order vc ⊑ other: true iff vc[i] <= other[i]
// for every thread i. This implements the happens-before relation check.
func (vc *VectorClock) LessOrEqual(other *VectorClock) bool {
	for i, v := range vc.clocks {
		if v == 0 {
			continue
		}
		if i >= len(other.clocks) || v > other.clocks[i] {
			return false
		}
	}
	return true
}

// Dominates reports whether vc ⊒ other (other happened-before or at vc).
func (vc *VectorClock) Dominates(other *VectorClock) bool {
	if other == nil {
		return true
	}
	return other.LessOrEqual(vc)
}

// Get returns the clock value for thread tid, or 0 if tid has never been
// observed by this clock.
func (vc *VectorClock) Get(tid int) uint64 {
	if tid < 0 || tid >= len(vc.clocks) {
		return 0
	}
	return vc.clocks[tid]
}

// Set sets the clock value for thread tid, growing the clock if necessary.
// Typically used during initialization or synchronization.
func (vc *VectorClock) Set(tid int, value uint64) {
	vc.grow(tid)
	vc.clocks[tid] = value
}

// Increment advances the clock for thread tid by one. Called once per
// action a thread performs.
func (vc *VectorClock) Increment(tid int) {
	vc.grow(tid)
	vc.clocks[tid]++
}

// String returns a debug representation, e.g. "{0:3, 2:1}" listing only
// non-zero entries. Used for logging and race reports, never on a hot path.
func (vc *VectorClock) String() string {
	var parts []string
	for tid, v := range vc.clocks {
		if v != 0 {
			parts = append(parts, itoa(tid)+":"+itoa64(v))
		}
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func itoa(n int) string { return itoa64(uint64(n)) }

func itoa64(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
