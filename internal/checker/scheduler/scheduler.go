// Package scheduler tracks which modeled threads are currently runnable
// and picks the next one to execute, either freely (normal exploration) or
// under direction (replaying a divergent execution towards a chosen
// thread).
package scheduler

import "github.com/kolkov/dporcheck/internal/checker/action"

// threadState is a thread's runnability as seen by the scheduler.
type threadState int

const (
	stateRunnable threadState = iota
	stateBlocked
	stateFinished
)

// Scheduler holds the runnable/blocked/finished status of every thread the
// driver has created so far, and a preferred thread to steer towards when
// replaying a divergent execution (mirroring the original Scheduler's
// add_thread/remove_thread/next_thread responsibilities, minus the OS
// thread bookkeeping a stateless Go checker does not need).
type Scheduler struct {
	state     map[action.ThreadID]threadState
	preferred *action.ThreadID
}

// New creates a scheduler with no known threads.
func New() *Scheduler {
	return &Scheduler{state: make(map[action.ThreadID]threadState)}
}

// AddThread registers a newly created thread as runnable.
func (s *Scheduler) AddThread(tid action.ThreadID) {
	s.state[tid] = stateRunnable
}

// RemoveThread marks a thread as finished; it will never be selected
// again.
func (s *Scheduler) RemoveThread(tid action.ThreadID) {
	s.state[tid] = stateFinished
}

// Block marks a thread as blocked (e.g. waiting on a join), excluding it
// from selection until Unblock is called.
func (s *Scheduler) Block(tid action.ThreadID) {
	s.state[tid] = stateBlocked
}

// Unblock marks a previously blocked thread as runnable again.
func (s *Scheduler) Unblock(tid action.ThreadID) {
	if s.state[tid] == stateBlocked {
		s.state[tid] = stateRunnable
	}
}

// IsEnabled reports whether tid is currently runnable.
func (s *Scheduler) IsEnabled(tid action.ThreadID) bool {
	return s.state[tid] == stateRunnable
}

// SetPreferred steers the next call to NextThread towards tid, used when
// replaying a divergent execution that must reach a specific thread next
// (spec.md get_next_replay_thread). Preference is cleared once consumed.
func (s *Scheduler) SetPreferred(tid action.ThreadID) {
	t := tid
	s.preferred = &t
}

// NextThread picks the next thread to run: the preferred thread if it is
// still enabled, otherwise the lowest-numbered enabled thread, giving a
// deterministic default exploration order. Returns false if no thread is
// runnable (the execution has terminated).
func (s *Scheduler) NextThread() (action.ThreadID, bool) {
	if s.preferred != nil {
		tid := *s.preferred
		s.preferred = nil
		if s.IsEnabled(tid) {
			return tid, true
		}
	}
	return s.lowestEnabled()
}

func (s *Scheduler) lowestEnabled() (action.ThreadID, bool) {
	found := false
	var best action.ThreadID
	for tid, st := range s.state {
		if st != stateRunnable {
			continue
		}
		if !found || tid < best {
			best = tid
			found = true
		}
	}
	return best, found
}

// HasEnabledThread reports whether any thread is currently runnable.
func (s *Scheduler) HasEnabledThread() bool {
	_, ok := s.lowestEnabled()
	return ok
}

// Reset clears all thread state, used when the driver resets to the
// initial state between executions.
func (s *Scheduler) Reset() {
	s.state = make(map[action.ThreadID]threadState)
	s.preferred = nil
}
