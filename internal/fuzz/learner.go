// Package fuzz implements the function-level predicate learner spec.md §1
// names as a collaborator "used for targeted fuzzing" whose implementation
// is explicitly out of scope for the core. It stays deliberately minimal: a
// frequency-weighted scorer over which pairs of threads conflicted on which
// location in executions that turned up a violation, so a harness driving
// many checker runs (e.g. across slightly varied litmus programs, or a
// fuzzer mutating an input corpus) can bias where it spends its budget
// without the checker's own DPOR driver needing to know this package
// exists.
//
// Grounded in style on the teacher's internal/race/detector.Sampler: a
// small, atomic-counter-free, stats-carrying struct with an Observe-style
// update method, scaled down to match spec.md's explicit "out of scope"
// marking for this collaborator.
package fuzz

import (
	"sort"

	"github.com/kolkov/dporcheck/internal/checker/action"
	"github.com/kolkov/dporcheck/internal/checker/model"
)

// ConflictKey identifies one location and the pair of threads that raced on
// it, order-independent (a is always the smaller thread id).
type ConflictKey struct {
	Location action.Location
	A, B     action.ThreadID
}

func conflictKey(loc action.Location, t1, t2 action.ThreadID) ConflictKey {
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	return ConflictKey{Location: loc, A: t1, B: t2}
}

// Learner accumulates, across many executions, which conflicting location/
// thread-pairs tend to co-occur with a detected violation. It is not safe
// for concurrent use.
type Learner struct {
	total     map[ConflictKey]int
	violation map[ConflictKey]int
}

// New constructs an empty Learner.
func New() *Learner {
	return &Learner{
		total:     make(map[ConflictKey]int),
		violation: make(map[ConflictKey]int),
	}
}

// Observe updates the learner's counts from one finished execution: every
// pair of dependent actions (spec.md §4.6 get_last_conflict's definition)
// on distinct threads is counted, and counted again under violation if the
// execution ended in one.
func (l *Learner) Observe(summary model.Summary) {
	trace := summary.Trace
	for i, a := range trace {
		for j := i + 1; j < len(trace); j++ {
			b := trace[j]
			if a.ThreadID() == b.ThreadID() || !a.IsDependent(b) {
				continue
			}
			key := conflictKey(a.Location(), a.ThreadID(), b.ThreadID())
			l.total[key]++
			if summary.Violation != nil {
				l.violation[key]++
			}
		}
	}
}

// Score returns the learner's current estimate of how likely a conflict on
// key is to coincide with a violation: violations observed divided by
// total conflicts observed, or 0 if the pair has never been seen.
func (l *Learner) Score(key ConflictKey) float64 {
	n := l.total[key]
	if n == 0 {
		return 0
	}
	return float64(l.violation[key]) / float64(n)
}

// RankedKeys returns every conflict key the learner has observed, ordered
// highest-Score first (ties broken by location, then thread ids, for
// determinism). A harness can use this to decide which thread-pair/location
// combination to target for the next mutated input.
func (l *Learner) RankedKeys() []ConflictKey {
	keys := make([]ConflictKey, 0, len(l.total))
	for k := range l.total {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		si, sj := l.Score(keys[i]), l.Score(keys[j])
		if si != sj {
			return si > sj
		}
		if keys[i].Location != keys[j].Location {
			return keys[i].Location < keys[j].Location
		}
		if keys[i].A != keys[j].A {
			return keys[i].A < keys[j].A
		}
		return keys[i].B < keys[j].B
	})
	return keys
}
