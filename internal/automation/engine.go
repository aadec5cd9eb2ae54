package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/device"
)

// Fleet is the interface the engine needs from the device registry.
//
// Exclusive must call fn with the fleet's devices in registry order while
// holding the fleet's mutation lock, so that a routine pass is atomic for
// every other observer.
type Fleet interface {
	Exclusive(fn func(devices []*device.Device) error) error
}

// History records routine executions.
type History interface {
	// Record stores a completed execution.
	Record(ctx context.Context, exec Execution) error

	// Recent returns the most recent executions, newest first.
	// An empty routine name returns executions of every routine.
	Recent(ctx context.Context, routine string, limit int) ([]Execution, error)
}

// Engine evaluates routines against a device fleet.
//
// Thread Safety: Engine is safe for concurrent use. Concurrent runs against
// the same fleet are serialised by the fleet's Exclusive lock.
type Engine struct {
	routines *Registry
	history  History
	logger   Logger
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHistory records every run in h.
func WithHistory(h History) Option {
	return func(e *Engine) { e.history = h }
}

// WithClock overrides the time source used for execution records.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a routine engine with an empty routine registry.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		routines: NewRegistry(),
		logger:   noopLogger{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.routines.SetLogger(e.logger)
	return e
}

// DefineRoutine registers rules under name. Redefining a name replaces it.
func (e *Engine) DefineRoutine(name string, rules []Rule) error {
	return e.routines.Define(Routine{Name: name, Rules: rules})
}

// Define registers a complete routine definition. Redefining a name replaces it.
func (e *Engine) Define(r Routine) error {
	return e.routines.Define(r)
}

// DefineAll registers each routine in order, stopping at the first failure.
func (e *Engine) DefineAll(routines []Routine) error {
	for _, r := range routines {
		if err := e.routines.Define(r); err != nil {
			return err
		}
	}
	return nil
}

// Routine returns a copy of the named routine.
func (e *Engine) Routine(name string) (*Routine, error) {
	return e.routines.Get(name)
}

// RemoveRoutine deletes a routine definition.
func (e *Engine) RemoveRoutine(name string) error {
	return e.routines.Remove(name)
}

// Routines returns routine names in first-definition order.
func (e *Engine) Routines() []string {
	return e.routines.Names()
}

// History returns the engine's execution history, or nil if none is configured.
func (e *Engine) History() History {
	return e.history
}

// Run applies the named routine to the fleet and returns the statuses
// emitted by capability invocations, in order.
//
// Devices are visited in registry order; for each device the routine's
// rules are evaluated in declared order. A matching rule applies its power
// transition, then its attribute assignments, then (if Invoke) appends the
// device's status. Devices that match no rule emit nothing. Given the same
// fleet state and routine, the result is identical on every call.
//
// Returns ErrRoutineNotFound if the routine is not defined.
func (e *Engine) Run(ctx context.Context, name string, fleet Fleet) ([]device.DeviceStatus, error) {
	routine, err := e.routines.Get(name)
	if err != nil {
		return nil, err
	}

	exec := Execution{
		ID:        GenerateID(),
		Routine:   routine.Name,
		StartedAt: e.now().UTC(),
	}
	statuses := make([]device.DeviceStatus, 0)

	err = fleet.Exclusive(func(devices []*device.Device) error {
		for _, d := range devices {
			matched := false
			for _, rule := range routine.Rules {
				if !rule.Matches(d.Kind()) {
					continue
				}
				matched = true

				if rule.Power != nil && d.SetPower(*rule.Power) {
					exec.Transitions++
				}
				for _, attr := range setOrder(rule.Set) {
					if err := d.SetAttribute(attr, rule.Set[attr]); err != nil {
						return err
					}
				}
				if rule.Invoke {
					statuses = append(statuses, d.PerformFunction())
				}
			}
			if matched {
				exec.DevicesMatched++
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("running routine %q: %w", name, err)
	}

	exec.Duration = e.now().UTC().Sub(exec.StartedAt)
	exec.Statuses = statuses

	e.logger.Info("routine executed",
		"routine", routine.Name,
		"execution_id", exec.ID,
		"devices_matched", exec.DevicesMatched,
		"transitions", exec.Transitions,
		"statuses", len(statuses),
	)

	if e.history != nil {
		if recErr := e.history.Record(ctx, exec); recErr != nil {
			// A routine that ran is not undone because its audit record failed.
			e.logger.Error("failed to record routine execution", "execution_id", exec.ID, "error", recErr)
		}
	}

	return statuses, nil
}
