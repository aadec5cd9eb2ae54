package automation

import "errors"

// Domain errors for the automation package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, automation.ErrRoutineNotFound) {
//	    // handle not found case
//	}
var (
	// ErrRoutineNotFound is returned when a routine name is not defined.
	ErrRoutineNotFound = errors.New("routine: not found")

	// ErrInvalidRoutine is returned when routine validation fails.
	ErrInvalidRoutine = errors.New("routine: invalid")

	// ErrInvalidName is returned when a routine name is empty, too long or malformed.
	ErrInvalidName = errors.New("routine: invalid name")

	// ErrNoRules is returned when a routine has no rules defined.
	ErrNoRules = errors.New("routine: no rules")

	// ErrInvalidRule is returned when a rule entry is invalid.
	ErrInvalidRule = errors.New("routine: invalid rule")

	// ErrInvalidRoutineFile is returned when a routine definition file cannot be
	// parsed or does not match the routine schema.
	ErrInvalidRoutineFile = errors.New("routine: invalid definition file")
)
