package clock

import "testing"

func TestNewIsEmpty(t *testing.T) {
	vc := New()
	for i := 0; i < 10; i++ {
		if got := vc.Get(i); got != 0 {
			t.Errorf("New().Get(%d) = %d, want 0", i, got)
		}
	}
}

func TestCloneIndependence(t *testing.T) {
	original := New()
	original.Set(0, 10)
	original.Set(5, 20)

	clone := original.Clone()
	clone.Set(0, 999)

	if got := original.Get(0); got != 10 {
		t.Errorf("original modified after clone mutation: Get(0) = %d, want 10", got)
	}
	if got := clone.Get(5); got != 20 {
		t.Errorf("clone.Get(5) = %d, want 20", got)
	}
}

func TestJoinCommutative(t *testing.T) {
	a := New()
	a.Set(0, 3)
	a.Set(1, 1)

	b := New()
	b.Set(0, 1)
	b.Set(1, 5)
	b.Set(2, 2)

	ab := a.Clone()
	ab.Join(b)

	ba := b.Clone()
	ba.Join(a)

	for i := 0; i < 3; i++ {
		if ab.Get(i) != ba.Get(i) {
			t.Errorf("Join not commutative at thread %d: a⊔b=%d, b⊔a=%d", i, ab.Get(i), ba.Get(i))
		}
	}
	if ab.Get(0) != 3 || ab.Get(1) != 5 || ab.Get(2) != 2 {
		t.Errorf("Join(a,b) = %v, want {0:3,1:5,2:2}", ab)
	}
}

func TestLessOrEqual(t *testing.T) {
	a := New()
	a.Set(0, 1)
	a.Set(1, 2)

	b := New()
	b.Set(0, 1)
	b.Set(1, 3)
	b.Set(2, 7)

	if !a.LessOrEqual(b) {
		t.Errorf("expected a ⊑ b")
	}
	if b.LessOrEqual(a) {
		t.Errorf("expected NOT b ⊑ a")
	}
}

func TestLessOrEqualSparseClocksIgnoreUnseenThreads(t *testing.T) {
	a := New()
	a.Set(3, 5)

	b := New() // b has never heard of thread 3 at all (implicit zero)
	b.Set(0, 100)

	if a.LessOrEqual(b) {
		t.Errorf("a has clock 5 at thread 3, b has implicit 0: a should NOT be <= b")
	}
}

func TestNewFromParentBumpsActingThread(t *testing.T) {
	parent := New()
	parent.Set(0, 4)
	parent.Set(1, 2)

	child := NewFromParent(parent, 1)

	if got := child.Get(0); got != 4 {
		t.Errorf("child.Get(0) = %d, want 4 (copied from parent)", got)
	}
	if got := child.Get(1); got != 3 {
		t.Errorf("child.Get(1) = %d, want 3 (bumped)", got)
	}
}

func TestDominates(t *testing.T) {
	a := New()
	a.Set(0, 2)
	b := New()
	b.Set(0, 1)

	if !a.Dominates(b) {
		t.Errorf("expected a to dominate b")
	}
	if b.Dominates(a) {
		t.Errorf("expected b to NOT dominate a")
	}
	if !a.Dominates(nil) {
		t.Errorf("every clock dominates nil")
	}
}

func TestStringFormatsOnlyNonZero(t *testing.T) {
	vc := New()
	if got := vc.String(); got != "{}" {
		t.Errorf("empty clock String() = %q, want {}", got)
	}
	vc.Set(2, 5)
	if got := vc.String(); got != "{2:5}" {
		t.Errorf("String() = %q, want {2:5}", got)
	}
}
