// Package task defines the contract between the configuration engine and
// the evaluation tasks that scripts declare. The engine only collects tasks
// and hands them back to the caller; what a task computes is the caller's
// business.
package task

// Task is anything a configuration script can declare for later execution.
// The engine uses the name for logging and nothing else.
type Task interface {
	Name() string
}

// Named is a minimal Task carrying only a name. Useful for hosts and tests
// that need a task identity without any behavior attached.
type Named struct {
	TaskName string
}

// Name returns the task's name.
func (n Named) Name() string { return n.TaskName }
