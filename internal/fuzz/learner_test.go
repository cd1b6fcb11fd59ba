package fuzz_test

import (
	"testing"

	"github.com/kolkov/dporcheck/internal/checker/action"
	"github.com/kolkov/dporcheck/internal/checker/model"
	"github.com/kolkov/dporcheck/internal/fuzz"
)

func trace(actions ...*action.Action) []*action.Action { return actions }

func TestLearnerScoresViolatingConflictsHigher(t *testing.T) {
	const loc = action.Location(1)
	w1 := action.New(action.AtomicWrite, action.Relaxed, loc, 0, 1)
	w2 := action.New(action.AtomicWrite, action.Relaxed, loc, 1, 2)

	l := fuzz.New()
	l.Observe(model.Summary{Trace: trace(w1, w2), Violation: &model.Violation{Kind: model.DataRace}})
	l.Observe(model.Summary{Trace: trace(w1, w2)})

	key := fuzz.ConflictKey{Location: loc, A: 0, B: 1}
	if got := l.Score(key); got != 0.5 {
		t.Fatalf("Score() = %v, want 0.5", got)
	}

	ranked := l.RankedKeys()
	if len(ranked) != 1 || ranked[0] != key {
		t.Fatalf("RankedKeys() = %v, want [%v]", ranked, key)
	}
}

func TestLearnerIgnoresIndependentActions(t *testing.T) {
	x, y := action.Location(1), action.Location(2)
	w1 := action.New(action.AtomicWrite, action.Relaxed, x, 0, 1)
	w2 := action.New(action.AtomicWrite, action.Relaxed, y, 1, 2)

	l := fuzz.New()
	l.Observe(model.Summary{Trace: trace(w1, w2)})

	if len(l.RankedKeys()) != 0 {
		t.Fatalf("expected no conflicts recorded for independent writes")
	}
}
