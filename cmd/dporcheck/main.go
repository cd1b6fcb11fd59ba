// Command dporcheck runs the bundled litmus programs (examples/) through
// the stateless DPOR model checker and reports every violation found.
//
// Usage:
//
//	dporcheck run <name>      # explore one bundled program to exhaustion
//	dporcheck run --all       # explore every bundled program
//	dporcheck list            # list bundled program names
//	dporcheck version         # print the tool version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kolkov/dporcheck"
	"github.com/kolkov/dporcheck/examples"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dporcheck",
		Short:         "stateless model checker for relaxed-memory atomic programs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newListCmd(), newVersionCmd())
	return root
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list the bundled litmus programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range examples.Registry {
				fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", p.Name, p.Description)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the dporcheck version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "dporcheck version %s\n", version)
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	var all, verbose bool
	var maxExecutions int

	cmd := &cobra.Command{
		Use:   "run [name]",
		Short: "explore one (or every) bundled litmus program to exhaustion",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zap.NewNop().Sugar()
			if verbose {
				z, err := zap.NewDevelopment()
				if err != nil {
					return fmt.Errorf("building verbose logger: %w", err)
				}
				logger = z.Sugar()
			}

			var names []string
			switch {
			case all:
				for _, p := range examples.Registry {
					names = append(names, p.Name)
				}
			case len(args) == 1:
				names = []string{args[0]}
			default:
				return fmt.Errorf("run requires exactly one program name, or --all")
			}

			failed := false
			for _, name := range names {
				if err := runOne(cmd, name, maxExecutions, logger); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", name, err)
					failed = true
				}
			}
			if failed {
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "run every bundled program")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every execution's summary")
	cmd.Flags().IntVar(&maxExecutions, "max-executions", 0, "stop after this many executions (0 = unbounded)")
	return cmd
}

// runOne explores one bundled program to exhaustion (or until
// maxExecutions, if positive), printing every violation it finds. It
// returns an error iff at least one violation was detected, so the caller
// can set a non-zero exit code (spec.md §6: "Exit codes: 0 if all
// executions complete without detecting a violation; non-zero ...").
func runOne(cmd *cobra.Command, name string, maxExecutions int, logger *zap.SugaredLogger) error {
	prog, ok := examples.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown program %q (see `dporcheck list`)", name)
	}

	out := cmd.OutOrStdout()
	checker := prog.Build(dporcheck.Options{Logger: logger})

	violations := 0
	executions := 0
	checker.ExploreAll(func(s dporcheck.Summary) bool {
		executions++
		if s.Violation != nil {
			violations++
			logger.Warnw("violation detected", "program", name, "execution", s.ExecutionNumber, "kind", s.Violation.Kind.String(), "message", s.Violation.Message)
			fmt.Fprintf(out, "execution %d: %s: %s\n", s.ExecutionNumber, s.Violation.Kind, s.Violation.Message)
		}
		return maxExecutions <= 0 || executions < maxExecutions
	})
	fmt.Fprintf(out, "%s: %d executions, %d violation(s)\n", name, executions, violations)
	if violations > 0 {
		return fmt.Errorf("%d violation(s) detected", violations)
	}
	return nil
}
