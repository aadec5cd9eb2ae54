package device

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
)

const maxIDLength = 64

// powerObserver is notified of every real power transition of a device it owns.
// delta is +1 for Off→On and -1 for On→Off.
type powerObserver interface {
	powerChanged(delta int)
}

// Device is a single controllable entity.
//
// Identity (ID, Kind) is immutable. Power and attributes change only through
// the methods below, which keep the owning Registry's counters in step.
// All methods are safe for concurrent use.
type Device struct {
	id   string
	kind Kind

	mu    sync.Mutex
	power Power
	attrs map[string]int
	owner powerObserver
}

// New creates a device with power Off and the kind's default attributes.
//
// overrides may set kind-specific attributes; a rejected override returns an
// error wrapping ErrInvalidAttribute and the cause (ErrUnsupportedAttribute
// or ErrOutOfRange).
func New(id string, kind Kind, overrides map[string]int) (*Device, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	b, ok := behaviours[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	attrs := make(map[string]int, len(b.attributes))
	for _, a := range b.attributes {
		attrs[a.Name] = a.Default
	}
	for _, name := range sortedKeys(overrides) {
		value := overrides[name]
		if err := kind.ValidateAttribute(name, value); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAttribute, err)
		}
		attrs[name] = value
	}

	return &Device{
		id:    id,
		kind:  kind,
		power: Off,
		attrs: attrs,
	}, nil
}

// FromSpec builds a device from a Spec.
func FromSpec(s Spec) (*Device, error) {
	return New(s.ID, s.Kind, s.Attributes)
}

// ValidateID checks that a device ID is non-empty, bounded and free of whitespace.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidID)
	}
	if len(id) > maxIDLength {
		return fmt.Errorf("%w: id exceeds %d characters", ErrInvalidID, maxIDLength)
	}
	if strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: id %q contains whitespace", ErrInvalidID, id)
	}
	return nil
}

// ID returns the device's identifier.
func (d *Device) ID() string { return d.id }

// Kind returns the device's kind.
func (d *Device) Kind() Kind { return d.kind }

// Power returns the current power state.
func (d *Device) Power() Power {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.power
}

// IsOn reports whether the device is powered on.
func (d *Device) IsOn() bool {
	return d.Power() == On
}

// TurnOn powers the device on. It reports whether a transition occurred;
// calling it on a device that is already on is a no-op returning false.
func (d *Device) TurnOn() bool {
	return d.setPower(On)
}

// TurnOff powers the device off. It reports whether a transition occurred.
func (d *Device) TurnOff() bool {
	return d.setPower(Off)
}

// SetPower applies p and reports whether a transition occurred.
func (d *Device) SetPower(p Power) bool {
	return d.setPower(p)
}

func (d *Device) setPower(p Power) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.power == p {
		return false
	}
	d.power = p
	if d.owner != nil {
		if p == On {
			d.owner.powerChanged(1)
		} else {
			d.owner.powerChanged(-1)
		}
	}
	return true
}

// Attribute returns the value of a kind-specific attribute.
func (d *Device) Attribute(name string) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.attrs[name]
	return v, ok
}

// Attributes returns a copy of the device's attributes.
func (d *Device) Attributes() map[string]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return copyAttrs(d.attrs)
}

// SetAttribute assigns a kind-specific attribute.
// Returns ErrUnsupportedAttribute or ErrOutOfRange.
func (d *Device) SetAttribute(name string, value int) error {
	if err := d.kind.ValidateAttribute(name, value); err != nil {
		return fmt.Errorf("%s: %w", d.id, err)
	}

	d.mu.Lock()
	d.attrs[name] = value
	d.mu.Unlock()
	return nil
}

// PerformFunction invokes the kind's capability and reports the outcome.
// It never mutates the device; the summary depends only on power, so an off
// device reports its fixed off message whatever its attribute values.
func (d *Device) PerformFunction() DeviceStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.statusLocked()
}

func (d *Device) statusLocked() DeviceStatus {
	b := behaviours[d.kind]
	s := DeviceStatus{
		Kind:       d.kind,
		ID:         d.id,
		Power:      d.power,
		Attributes: copyAttrs(d.attrs),
	}
	if d.power == On {
		s.Summary = b.onSummary(d.id, d.attrs)
	} else {
		s.Summary = b.offSummary(d.id)
	}
	return s
}

// Dim lowers a light's brightness to level.
//
// Only lights can be dimmed (ErrUnsupportedAttribute otherwise). An off light
// is left untouched and reports that it cannot be dimmed.
func (d *Device) Dim(level int) (DeviceStatus, error) {
	if err := d.kind.ValidateAttribute(AttrBrightness, level); err != nil {
		return DeviceStatus{}, fmt.Errorf("%s: %w", d.id, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.statusLocked()
	if d.power == Off {
		s.Summary = d.id + " is off, cannot dim light."
		return s, nil
	}
	d.attrs[AttrBrightness] = level
	s = d.statusLocked()
	s.Summary = fmt.Sprintf("%s light is dimmed to %d%%.", d.id, level)
	return s, nil
}

// attach binds the device to an owner and returns its power at that instant.
// It fails if the device already has an owner.
func (d *Device) attach(o powerObserver) (Power, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.owner != nil {
		return d.power, fmt.Errorf("%w: %s", ErrAlreadyRegistered, d.id)
	}
	d.owner = o
	return d.power, nil
}

// detach releases the device from its owner and returns its power at that instant.
func (d *Device) detach() Power {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.owner = nil
	return d.power
}

// String implements fmt.Stringer.
func (d *Device) String() string {
	return fmt.Sprintf("%s (%s, %s)", d.id, d.kind.DisplayName(), d.Power())
}
