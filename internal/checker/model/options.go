package model

import "go.uber.org/zap"

// Options configures a ModelChecker, matching the teacher's
// DetectorOptions-plus-NewXWithOptions shape (internal/race/detector.go):
// a plain struct of knobs passed once at construction, every field
// optional and zero-valued by default.
type Options struct {
	// MaxExecutions bounds how many distinct interleavings the driver will
	// produce before NextExecution refuses to continue. Zero means
	// unbounded (explore until the backtrack list is empty).
	MaxExecutions int

	// MaxDepth bounds how many actions a single execution may record
	// before the driver treats it as a hung litmus program and reports a
	// Deadlock-flavored violation, rather than spinning forever (spec.md
	// §8 Non-goals: "not required to be sound against unbounded loops").
	// Zero means unbounded.
	MaxDepth int

	// Logger receives per-execution summaries and violation reports
	// (spec.md §6: "a per-execution summary to stdout"). Defaults to a
	// no-op logger so tests stay quiet.
	Logger *zap.SugaredLogger

	// GraphvizDir, if non-empty, receives one generated `<uuid>.dot` dump
	// of the modification-order graph per execution that reports a
	// violation (spec.md §6: "Optional GraphViz dump of the CycleGraph
	// for debugging").
	GraphvizDir string
}

func (o Options) logger() *zap.SugaredLogger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop().Sugar()
}
