package script

import (
	"context"
	"fmt"

	"github.com/vk/evalforge/internal/ctxlog"
	"github.com/vk/evalforge/internal/runscope"
)

// Compiled pairs a program with the source it came from, so run failures
// can say which script broke.
type Compiled struct {
	Source  *Source
	Program Program
}

// Runner executes compiled scripts. Each execution gets its own run scope,
// so concurrent executions accumulate tasks independently.
type Runner struct{}

// NewRunner creates a runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Execute runs a compiled script against the host and packages the
// accumulated tasks plus the script's return value into an Environment.
//
// The run scope is always torn down, success or failure, so a failed run
// leaks no state into the next one. Any failure raised by the script body,
// error or panic, comes back as a *ConfigurationError with the cause
// attached, and a failed run yields no Environment.
//
// Execution is synchronous and single-pass. A script body that hangs
// cannot be interrupted here; cancelling the surrounding work is the
// host's job.
func (r *Runner) Execute(ctx context.Context, c *Compiled, host Host) (*Environment, error) {
	scope := runscope.New()
	ctx = runscope.NewContext(ctx, scope)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Script run starting.", "source", c.Source.Name, "run_id", scope.ID())

	result, runErr := runProgram(ctx, c.Program, host)
	tasks := scope.End()

	if runErr != nil {
		logger.Debug("Script run failed.", "source", c.Source.Name, "run_id", scope.ID(), "error", runErr)
		return nil, &ConfigurationError{Source: c.Source.Name, Err: runErr}
	}

	logger.Debug("Script run finished.", "source", c.Source.Name, "run_id", scope.ID(), "tasks", len(tasks))
	return &Environment{Tasks: tasks, Result: result}, nil
}

// runProgram isolates the script body so a panic inside it surfaces as an
// error instead of unwinding past the scope teardown.
func runProgram(ctx context.Context, p Program, host Host) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("script panicked: %v", r)
		}
	}()
	return p.Run(ctx, host)
}
