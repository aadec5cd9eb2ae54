package device

import (
	"fmt"
	"strings"
)

// Kind identifies a device's capability and valid attribute set.
// The set of kinds is closed; see AllKinds.
type Kind string

// Kind constants.
const (
	KindLight          Kind = "light"
	KindThermostat     Kind = "thermostat"
	KindSpeaker        Kind = "speaker"
	KindSecurityCamera Kind = "security_camera"
	KindDoorLock       Kind = "door_lock"
	KindAppliance      Kind = "appliance"
)

// AllKinds returns all valid kind values in a stable order.
func AllKinds() []Kind {
	return []Kind{
		KindLight, KindThermostat, KindSpeaker,
		KindSecurityCamera, KindDoorLock, KindAppliance,
	}
}

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	_, ok := behaviours[k]
	return ok
}

// DisplayName returns the human-readable kind name (e.g. "Security Camera").
func (k Kind) DisplayName() string {
	if b, ok := behaviours[k]; ok {
		return b.displayName
	}
	return string(k)
}

// ParseKind converts user or config input to a Kind.
//
// Matching is case-insensitive and ignores separators, so "door_lock",
// "DoorLock" and "door-lock" all resolve to KindDoorLock.
func ParseKind(s string) (Kind, error) {
	want := normaliseKind(s)
	for _, k := range AllKinds() {
		if normaliseKind(string(k)) == want {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

func normaliseKind(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}

// Power is a device's power state.
type Power bool

// Power constants.
const (
	Off Power = false
	On  Power = true
)

// String returns "on" or "off".
func (p Power) String() string {
	if p {
		return "on"
	}
	return "off"
}

// Spec describes a device to build with New, typically loaded from configuration.
type Spec struct {
	ID         string
	Kind       Kind
	Attributes map[string]int
}
