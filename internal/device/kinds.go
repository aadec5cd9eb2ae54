package device

import "fmt"

// Attribute names.
const (
	AttrBrightness  = "brightness"
	AttrTemperature = "temperature"
	AttrVolume      = "volume"
)

// AttributeSpec defines a kind-specific integer attribute and its valid range.
type AttributeSpec struct {
	Name    string
	Min     int
	Max     int
	Default int
	Unit    string
}

// validate checks v against the attribute's inclusive range.
func (a AttributeSpec) validate(v int) error {
	if v < a.Min || v > a.Max {
		return fmt.Errorf("%w: %s must be %d-%d, got %d", ErrOutOfRange, a.Name, a.Min, a.Max, v)
	}
	return nil
}

// behaviour is the per-kind entry of the behaviour table. It replaces
// per-kind subclasses: capability invocation and attribute validation are
// resolved by looking the kind up here.
type behaviour struct {
	displayName string
	capability  string
	attributes  []AttributeSpec
	onSummary   func(id string, attrs map[string]int) string
	offSummary  func(id string) string
}

// attribute looks up an attribute spec by name.
func (b behaviour) attribute(name string) (AttributeSpec, bool) {
	for _, a := range b.attributes {
		if a.Name == name {
			return a, true
		}
	}
	return AttributeSpec{}, false
}

var behaviours = map[Kind]behaviour{
	KindLight: {
		displayName: "Light",
		capability:  "provide light",
		attributes:  []AttributeSpec{{Name: AttrBrightness, Min: 0, Max: 100, Default: 50, Unit: "%"}},
		onSummary: func(id string, attrs map[string]int) string {
			return fmt.Sprintf("%s is providing light at %d%% brightness.", id, attrs[AttrBrightness])
		},
		offSummary: func(id string) string { return id + " is off, no light." },
	},
	KindThermostat: {
		displayName: "Thermostat",
		capability:  "regulate temperature",
		attributes:  []AttributeSpec{{Name: AttrTemperature, Min: 0, Max: 40, Default: 20, Unit: "°C"}},
		onSummary: func(id string, attrs map[string]int) string {
			return fmt.Sprintf("%s is regulating temperature at %d°C.", id, attrs[AttrTemperature])
		},
		offSummary: func(id string) string { return id + " is off, not regulating temperature." },
	},
	KindSpeaker: {
		displayName: "Speaker",
		capability:  "play audio",
		attributes:  []AttributeSpec{{Name: AttrVolume, Min: 0, Max: 100, Default: 50}},
		onSummary: func(id string, attrs map[string]int) string {
			return fmt.Sprintf("%s is playing audio at volume %d.", id, attrs[AttrVolume])
		},
		offSummary: func(id string) string { return id + " is off, no sound." },
	},
	KindSecurityCamera: {
		displayName: "Security Camera",
		capability:  "monitor",
		onSummary:   func(id string, _ map[string]int) string { return id + " is monitoring." },
		offSummary:  func(id string) string { return id + " is off, not monitoring." },
	},
	KindDoorLock: {
		displayName: "Door Lock",
		capability:  "lock",
		onSummary:   func(id string, _ map[string]int) string { return id + " is locked." },
		offSummary:  func(id string) string { return id + " is unlocked." },
	},
	KindAppliance: {
		displayName: "Appliance",
		capability:  "run",
		onSummary:   func(id string, _ map[string]int) string { return id + " is running." },
		offSummary:  func(id string) string { return id + " is off, not running." },
	},
}

// Capability returns the name of the kind's capability (e.g. "provide light").
func (k Kind) Capability() string {
	return behaviours[k].capability
}

// AttributeSpecs returns the attributes defined for a kind, in declaration order.
func (k Kind) AttributeSpecs() []AttributeSpec {
	attrs := behaviours[k].attributes
	out := make([]AttributeSpec, len(attrs))
	copy(out, attrs)
	return out
}

// ValidateAttribute checks that the kind defines name and that value is in range.
// Returns ErrUnsupportedAttribute or ErrOutOfRange.
func (k Kind) ValidateAttribute(name string, value int) error {
	b, ok := behaviours[k]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidKind, k)
	}
	spec, ok := b.attribute(name)
	if !ok {
		return fmt.Errorf("%w: %s has no attribute %q", ErrUnsupportedAttribute, b.displayName, name)
	}
	return spec.validate(value)
}
