package automation

import (
	"slices"
	"time"

	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/device"
)

// Routine is a named, ordered set of rules applied in one pass over the
// device registry.
type Routine struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Rules       []Rule `json:"rules"`
}

// Rule maps kind membership to an action.
//
// The action is applied to each matching device in a fixed order: the power
// transition (if Power is set), then attribute assignments (Set), then the
// capability invocation (if Invoke is true). The capability therefore
// observes the power state this rule has just applied.
type Rule struct {
	// Kinds the rule applies to. Empty means every kind.
	Kinds []device.Kind `json:"kinds,omitempty"`

	// Power transition to apply, or nil for none.
	Power *device.Power `json:"power,omitempty"`

	// Set assigns kind-specific attributes after the power transition.
	Set map[string]int `json:"set,omitempty"`

	// Invoke calls the device's capability and emits its status.
	Invoke bool `json:"invoke"`
}

// Matches reports whether the rule applies to a device of kind k.
func (r Rule) Matches(k device.Kind) bool {
	if len(r.Kinds) == 0 {
		return true
	}
	return slices.Contains(r.Kinds, k)
}

// hasAction reports whether the rule does anything at all.
func (r Rule) hasAction() bool {
	return r.Power != nil || r.Invoke || len(r.Set) > 0
}

// SwitchOn returns a rule that powers on the given kinds and invokes their capability.
func SwitchOn(kinds ...device.Kind) Rule {
	p := device.On
	return Rule{Kinds: kinds, Power: &p, Invoke: true}
}

// SwitchOff returns a rule that powers off the given kinds and invokes their capability.
func SwitchOff(kinds ...device.Kind) Rule {
	p := device.Off
	return Rule{Kinds: kinds, Power: &p, Invoke: true}
}

// Check returns a rule that only invokes the capability of the given kinds.
func Check(kinds ...device.Kind) Rule {
	return Rule{Kinds: kinds, Invoke: true}
}

// With returns a copy of the rule that also assigns attribute name=value.
func (r Rule) With(name string, value int) Rule {
	cpy := r.deepCopy()
	if cpy.Set == nil {
		cpy.Set = make(map[string]int, 1)
	}
	cpy.Set[name] = value
	return cpy
}

// Execution records a single run of a routine.
type Execution struct {
	ID             string                `json:"id"`
	Routine        string                `json:"routine"`
	StartedAt      time.Time             `json:"started_at"`
	Duration       time.Duration         `json:"duration"`
	DevicesMatched int                   `json:"devices_matched"`
	Transitions    int                   `json:"transitions"`
	Statuses       []device.DeviceStatus `json:"statuses"`
}

// DeepCopy creates a complete independent copy of the Routine.
// The engine stores and hands out copies so callers cannot alter a
// defined routine through a slice or map they still hold.
func (r *Routine) DeepCopy() *Routine {
	if r == nil {
		return nil
	}
	cpy := *r
	if r.Rules != nil {
		cpy.Rules = make([]Rule, len(r.Rules))
		for i, rule := range r.Rules {
			cpy.Rules[i] = rule.deepCopy()
		}
	}
	return &cpy
}

func (r Rule) deepCopy() Rule {
	cpy := r
	if r.Kinds != nil {
		cpy.Kinds = slices.Clone(r.Kinds)
	}
	if r.Power != nil {
		p := *r.Power
		cpy.Power = &p
	}
	if r.Set != nil {
		cpy.Set = make(map[string]int, len(r.Set))
		for k, v := range r.Set {
			cpy.Set[k] = v
		}
	}
	return cpy
}
