package model

import "errors"

// Sentinel errors naming spec.md §7's error kinds, excluding "Detected
// violation" which is reported via Violation. No ModelChecker method
// returns any of them: NextExecution reports an empty backtrack list by
// returning false, and driver invariant failures panic.
var (
	// ErrNoExecutionsLeft names the state in which the backtrack list is
	// empty: every DPOR-representative interleaving has already been
	// explored.
	ErrNoExecutionsLeft = errors.New("model: no executions left to explore")

	// ErrDriverInvariant marks a bug in the checker itself, not the
	// modeled program (spec.md §7: "fatal; aborts the whole run").
	ErrDriverInvariant = errors.New("model: driver invariant violated")

	// ErrUnknownThread names a request for a thread id the driver never
	// registered or has already forgotten.
	ErrUnknownThread = errors.New("model: unknown thread id")
)
