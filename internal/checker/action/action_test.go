package action

import "testing"

func TestTypePredicates(t *testing.T) {
	r := New(AtomicRead, SeqCst, 1, 0, 0)
	w := New(AtomicWrite, SeqCst, 1, 1, 5)
	rmw := New(AtomicRMW, SeqCst, 1, 0, 9)

	if !r.IsRead() || r.IsWrite() {
		t.Errorf("read: IsRead=%v IsWrite=%v, want true/false", r.IsRead(), r.IsWrite())
	}
	if !w.IsWrite() || w.IsRead() {
		t.Errorf("write: IsWrite=%v IsRead=%v, want true/false", w.IsWrite(), w.IsRead())
	}
	if !rmw.IsRead() || !rmw.IsWrite() || !rmw.IsRMW() {
		t.Errorf("rmw should be both read and write and IsRMW")
	}
}

func TestIsAcquireIsRelease(t *testing.T) {
	cases := []struct {
		typ       Type
		order     Order
		isAcquire bool
		isRelease bool
	}{
		{AtomicRead, Relaxed, false, false},
		{AtomicRead, Acquire, true, false},
		{AtomicRead, SeqCst, true, false},
		{AtomicWrite, Relaxed, false, false},
		{AtomicWrite, Release, false, true},
		{AtomicWrite, SeqCst, false, true},
		{AtomicRMW, AcqRel, true, true},
	}
	for _, c := range cases {
		a := New(c.typ, c.order, 1, 0, 0)
		if got := a.IsAcquire(); got != c.isAcquire {
			t.Errorf("%v/%v IsAcquire() = %v, want %v", c.typ, c.order, got, c.isAcquire)
		}
		if got := a.IsRelease(); got != c.isRelease {
			t.Errorf("%v/%v IsRelease() = %v, want %v", c.typ, c.order, got, c.isRelease)
		}
	}
}

func TestSameLocationSameThread(t *testing.T) {
	a := New(AtomicWrite, Relaxed, 10, 0, 1)
	b := New(AtomicRead, Relaxed, 10, 1, 1)
	c := New(AtomicRead, Relaxed, 20, 0, 1)

	if !a.SameLocation(b) {
		t.Errorf("expected a, b to share location 10")
	}
	if a.SameLocation(c) {
		t.Errorf("expected a, c to NOT share location")
	}
	if a.SameThread(b) {
		t.Errorf("expected a, b to NOT share thread")
	}
	if !a.SameThread(c) {
		t.Errorf("expected a, c to share thread 0")
	}
}

func TestIsDependent(t *testing.T) {
	w1 := New(AtomicWrite, Relaxed, 1, 0, 1)
	w2 := New(AtomicWrite, Relaxed, 1, 1, 2)
	r1 := New(AtomicRead, Relaxed, 1, 1, 0)
	other := New(AtomicWrite, Relaxed, 2, 1, 1)
	create := New(ThreadCreate, Relaxed, 0, 0, 0)

	if !w1.IsDependent(w2) {
		t.Errorf("two writes to the same location should be dependent")
	}
	if !w1.IsDependent(r1) {
		t.Errorf("a write and a read of the same location should be dependent")
	}
	if w1.IsDependent(other) {
		t.Errorf("actions on different locations should not be dependent")
	}
	if w1.IsDependent(create) || create.IsDependent(w1) {
		t.Errorf("thread-create should never be dependent")
	}
}

func TestCreateCVBumpsActingThread(t *testing.T) {
	first := New(AtomicWrite, Relaxed, 1, 0, 1)
	first.CreateCV(nil)
	if got := first.CV().Get(0); got != 1 {
		t.Errorf("first action's cv[0] = %d, want 1", got)
	}

	second := New(AtomicWrite, Relaxed, 1, 0, 2)
	second.CreateCV(first)
	if got := second.CV().Get(0); got != 2 {
		t.Errorf("second action's cv[0] = %d, want 2", got)
	}
}

func TestReadFromAcquireJoinsWriterClock(t *testing.T) {
	w := New(AtomicWrite, Release, 1, 0, 5)
	w.CreateCV(nil) // w.cv = {0:1}

	r := New(AtomicRead, Acquire, 1, 1, 5)
	r.ReadFrom(w, nil) // r.cv starts {1:1}, then joins {0:1}

	if r.ReadFromAction() != w {
		t.Errorf("ReadFromAction() did not return w")
	}
	if got := r.CV().Get(0); got != 1 {
		t.Errorf("acquire read's cv[0] = %d, want 1 (joined from release writer)", got)
	}
	if got := r.CV().Get(1); got != 1 {
		t.Errorf("acquire read's cv[1] = %d, want 1 (own thread bump)", got)
	}
}

func TestReadFromRelaxedDoesNotJoin(t *testing.T) {
	w := New(AtomicWrite, Release, 1, 0, 5)
	w.CreateCV(nil)

	r := New(AtomicRead, Relaxed, 1, 1, 5)
	r.ReadFrom(w, nil)

	if got := r.CV().Get(0); got != 0 {
		t.Errorf("relaxed read's cv[0] = %d, want 0 (no synchronization)", got)
	}
}

func TestSynchronizesWith(t *testing.T) {
	w := New(AtomicWrite, Release, 1, 0, 5)
	w.CreateCV(nil)
	r := New(AtomicRead, Acquire, 1, 1, 5)
	r.ReadFrom(w, nil)

	if !r.SynchronizesWith(w) {
		t.Errorf("expected acquire read to synchronize-with its release writer")
	}

	other := New(AtomicWrite, Release, 1, 2, 5)
	other.CreateCV(nil)
	if r.SynchronizesWith(other) {
		t.Errorf("should not synchronize-with a write it did not read from")
	}
}

func TestHappensBefore(t *testing.T) {
	w := New(AtomicWrite, Release, 1, 0, 5)
	w.CreateCV(nil)
	w.SetSeqNumber(1)

	r := New(AtomicRead, Acquire, 1, 1, 5)
	r.ReadFrom(w, nil)
	r.SetSeqNumber(2)

	if !r.HappensBefore(w) {
		t.Errorf("expected release write to happen-before the acquire read that observed it")
	}

	unrelated := New(AtomicWrite, Relaxed, 2, 2, 0)
	unrelated.CreateCV(nil)
	unrelated.SetSeqNumber(1)
	if w.HappensBefore(unrelated) {
		t.Errorf("unrelated actions on different threads should not be ordered")
	}
}

func TestSeqNumberAndNodeRoundTrip(t *testing.T) {
	a := New(AtomicWrite, Relaxed, 1, 0, 1)
	a.SetSeqNumber(42)
	if got := a.SeqNumber(); got != 42 {
		t.Errorf("SeqNumber() = %d, want 42", got)
	}

	type fakeNode struct{ id int }
	n := &fakeNode{id: 7}
	a.SetNode(n)
	got, ok := a.Node().(*fakeNode)
	if !ok || got.id != 7 {
		t.Errorf("Node() round-trip failed: got %v", a.Node())
	}
}
