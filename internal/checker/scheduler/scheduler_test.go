package scheduler

import (
	"testing"

	"github.com/kolkov/dporcheck/internal/checker/action"
)

func TestNextThreadPicksLowestEnabled(t *testing.T) {
	s := New()
	s.AddThread(2)
	s.AddThread(0)
	s.AddThread(1)

	tid, ok := s.NextThread()
	if !ok || tid != 0 {
		t.Fatalf("NextThread() = (%d, %v), want (0, true)", tid, ok)
	}
}

func TestPreferredThreadWinsWhenEnabled(t *testing.T) {
	s := New()
	s.AddThread(0)
	s.AddThread(1)
	s.SetPreferred(1)

	tid, ok := s.NextThread()
	if !ok || tid != 1 {
		t.Fatalf("NextThread() = (%d, %v), want (1, true)", tid, ok)
	}

	// preference is consumed; next call falls back to lowest enabled.
	tid, ok = s.NextThread()
	if !ok || tid != 0 {
		t.Fatalf("second NextThread() = (%d, %v), want (0, true)", tid, ok)
	}
}

func TestPreferredThreadIgnoredIfDisabled(t *testing.T) {
	s := New()
	s.AddThread(0)
	s.AddThread(1)
	s.Block(1)
	s.SetPreferred(1)

	tid, ok := s.NextThread()
	if !ok || tid != 0 {
		t.Fatalf("NextThread() = (%d, %v), want (0, true) since preferred thread is blocked", tid, ok)
	}
}

func TestBlockAndUnblock(t *testing.T) {
	s := New()
	s.AddThread(0)
	s.Block(0)
	if s.IsEnabled(0) {
		t.Fatalf("expected thread 0 to be blocked")
	}
	if s.HasEnabledThread() {
		t.Errorf("expected no enabled thread while blocked")
	}
	s.Unblock(0)
	if !s.IsEnabled(0) {
		t.Errorf("expected thread 0 to be enabled after unblock")
	}
}

func TestRemoveThreadExcludesFromSelection(t *testing.T) {
	s := New()
	s.AddThread(0)
	s.AddThread(1)
	s.RemoveThread(0)

	tid, ok := s.NextThread()
	if !ok || tid != 1 {
		t.Fatalf("NextThread() = (%d, %v), want (1, true) after removing thread 0", tid, ok)
	}
}

func TestNoEnabledThreadReturnsFalse(t *testing.T) {
	s := New()
	s.AddThread(0)
	s.RemoveThread(0)
	if _, ok := s.NextThread(); ok {
		t.Errorf("expected no runnable thread")
	}
}

func TestReset(t *testing.T) {
	s := New()
	s.AddThread(0)
	s.Reset()
	if s.HasEnabledThread() {
		t.Errorf("expected no threads after Reset")
	}
	var _ action.ThreadID
}
