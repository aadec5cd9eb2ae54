package automation

import (
	"fmt"
	"slices"
	"sync"
)

// Logger defines the logging interface used by the Registry and Engine.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry holds routine definitions by name.
//
// Names keep the position of their first definition so menus and listings
// are stable; redefining a name replaces its rules in place.
//
// All public methods are thread-safe.
type Registry struct {
	mu       sync.RWMutex
	routines map[string]*Routine
	order    []string
	logger   Logger
}

// NewRegistry creates an empty routine registry.
func NewRegistry() *Registry {
	return &Registry{
		routines: make(map[string]*Routine),
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.logger = logger
}

// Define validates and stores a routine. An existing routine with the same
// name is replaced (last write wins).
func (r *Registry) Define(routine Routine) error {
	if err := ValidateRoutine(&routine); err != nil {
		return err
	}

	r.mu.Lock()
	_, replaced := r.routines[routine.Name]
	r.routines[routine.Name] = routine.DeepCopy()
	if !replaced {
		r.order = append(r.order, routine.Name)
	}
	r.mu.Unlock()

	if replaced {
		r.logger.Info("routine redefined", "name", routine.Name, "rules", len(routine.Rules))
	} else {
		r.logger.Info("routine defined", "name", routine.Name, "rules", len(routine.Rules))
	}
	return nil
}

// Get returns a copy of the named routine.
func (r *Registry) Get(name string) (*Routine, error) {
	r.mu.RLock()
	cached, ok := r.routines[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoutineNotFound, name)
	}
	return cached.DeepCopy(), nil
}

// Remove deletes a routine by name.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.routines[name]; !ok {
		return fmt.Errorf("%w: %s", ErrRoutineNotFound, name)
	}
	delete(r.routines, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })

	r.logger.Info("routine removed", "name", name)
	return nil
}

// Names returns routine names in first-definition order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}
