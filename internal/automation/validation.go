package automation

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/google/uuid"

	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/device"
)

// Validation constants.
const (
	maxNameLength        = 64
	maxDescriptionLength = 500
	maxRules             = 100
	namePattern          = `^[A-Za-z][A-Za-z0-9_-]*$`
)

var nameRegex = regexp.MustCompile(namePattern)

// ValidateRoutine performs validation on a routine definition.
// Returns an error describing the first validation failure found.
func ValidateRoutine(r *Routine) error {
	if r == nil {
		return ErrInvalidRoutine
	}

	if err := ValidateName(r.Name); err != nil {
		return err
	}

	if len(r.Description) > maxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidRoutine, maxDescriptionLength)
	}

	if len(r.Rules) == 0 {
		return fmt.Errorf("%w: %s", ErrNoRules, r.Name)
	}
	if len(r.Rules) > maxRules {
		return fmt.Errorf("%w: %s exceeds %d rules", ErrInvalidRoutine, r.Name, maxRules)
	}

	for i, rule := range r.Rules {
		if err := ValidateRule(rule); err != nil {
			return fmt.Errorf("%s rule %d: %w", r.Name, i, err)
		}
	}
	return nil
}

// ValidateName checks that a routine name is a non-empty identifier
// such as "morning" or "securityAlert".
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q must start with a letter and contain only letters, digits, '-' or '_'", ErrInvalidName, name)
	}
	return nil
}

// ValidateRule checks a single rule entry.
//
// A rule must do something, name only known kinds, and any attribute it sets
// must be defined and in range for every kind it matches.
func ValidateRule(r Rule) error {
	if !r.hasAction() {
		return fmt.Errorf("%w: no action", ErrInvalidRule)
	}

	for _, k := range r.Kinds {
		if !k.IsValid() {
			return fmt.Errorf("%w: %w: %q", ErrInvalidRule, device.ErrInvalidKind, k)
		}
	}

	if len(r.Set) == 0 {
		return nil
	}
	if len(r.Kinds) == 0 {
		return fmt.Errorf("%w: set requires explicit kinds", ErrInvalidRule)
	}

	names := make([]string, 0, len(r.Set))
	for name := range r.Set {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, k := range r.Kinds {
		for _, name := range names {
			if err := k.ValidateAttribute(name, r.Set[name]); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidRule, err)
			}
		}
	}
	return nil
}

// GenerateID creates a new unique execution identifier.
func GenerateID() string {
	return uuid.New().String()
}

// setOrder returns the attribute names of a rule's Set in a stable order.
func setOrder(set map[string]int) []string {
	if len(set) == 0 {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
