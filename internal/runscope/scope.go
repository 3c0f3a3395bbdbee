// Package runscope accumulates the side effects of one script execution.
//
// Each call to the engine's execute path opens a fresh Scope and binds it
// into the context it hands the script. Concurrent or nested runs therefore
// never see each other's accumulator: the scope rides the context instead
// of living in process-global state.
package runscope

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/vk/evalforge/internal/ctxlog"
	"github.com/vk/evalforge/internal/task"
)

// Scope collects the tasks registered during a single run. It is created
// empty, owned exclusively by the run that created it, and detached once
// via End.
type Scope struct {
	id string

	mu     sync.Mutex
	active bool
	tasks  []task.Task
}

// New allocates an empty scope for a new run.
func New() *Scope {
	return &Scope{
		id:     uuid.NewString(),
		active: true,
	}
}

// ID returns the run identifier, used only for logging.
func (s *Scope) ID() string { return s.id }

// Register appends a task to the scope in declaration order. Calls after
// End are dropped so a finished run can never be mutated retroactively.
func (s *Scope) Register(ctx context.Context, t task.Task) {
	if t == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		ctxlog.FromContext(ctx).Debug("Task registered after run ended, dropping.", "run_id", s.id, "task", t.Name())
		return
	}
	ctxlog.FromContext(ctx).Debug("Registering task.", "run_id", s.id, "task", t.Name())
	s.tasks = append(s.tasks, t)
}

// End detaches and returns the accumulated tasks, in registration order,
// and closes the scope to further registrations.
func (s *Scope) End() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	tasks := s.tasks
	s.tasks = nil
	return tasks
}

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

var scopeKey = key{}

// NewContext binds a scope to the context. A scope bound deeper in the
// chain shadows any outer one, which is what makes nested runs accumulate
// into their own scope rather than their parent's.
func NewContext(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey, s)
}

// FromContext returns the scope bound to the context, if any.
func FromContext(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeKey).(*Scope)
	return s, ok
}

// Register appends a task to the context's scope. It is a silent no-op when
// no run is active, so task-producing code may be called from inside or
// outside a managed script execution.
func Register(ctx context.Context, t task.Task) {
	if s, ok := FromContext(ctx); ok {
		s.Register(ctx, t)
		return
	}
	if t != nil {
		ctxlog.FromContext(ctx).Debug("No active run, task not registered.", "task", t.Name())
	}
}
