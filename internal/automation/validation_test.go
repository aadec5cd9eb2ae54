package automation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/device"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "morning", false},
		{"camel case", "securityAlert", false},
		{"with dash and digit", "away-2", false},
		{"underscore", "late_night", false},
		{"empty", "", true},
		{"leading digit", "1st", true},
		{"space", "good night", true},
		{"too long", strings.Repeat("a", maxNameLength+1), true},
		{"max length", strings.Repeat("a", maxNameLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRule(t *testing.T) {
	on := device.On

	tests := []struct {
		name    string
		rule    Rule
		wantErr []error
	}{
		{"switch on", SwitchOn(device.KindLight), nil},
		{"check every kind", Check(), nil},
		{"power only", Rule{Power: &on}, nil},
		{"set only", Rule{Kinds: []device.Kind{device.KindSpeaker}, Set: map[string]int{"volume": 10}}, nil},
		{"no action", Rule{Kinds: []device.Kind{device.KindLight}}, []error{ErrInvalidRule}},
		{"unknown kind", Rule{Kinds: []device.Kind{"toaster"}, Invoke: true}, []error{ErrInvalidRule, device.ErrInvalidKind}},
		{"set without kinds", Rule{Set: map[string]int{"brightness": 10}}, []error{ErrInvalidRule}},
		{"unsupported attribute", SwitchOn(device.KindDoorLock).With("brightness", 10), []error{ErrInvalidRule, device.ErrUnsupportedAttribute}},
		{"out of range", SwitchOn(device.KindLight).With("brightness", 101), []error{ErrInvalidRule, device.ErrOutOfRange}},
		{"thermostat range", SwitchOn(device.KindThermostat).With("temperature", 41), []error{device.ErrOutOfRange}},
		{"thermostat frost setpoint", SwitchOn(device.KindThermostat).With("temperature", 0), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRule(tt.rule)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestValidateRoutine(t *testing.T) {
	assert.ErrorIs(t, ValidateRoutine(nil), ErrInvalidRoutine)

	valid := &Routine{Name: "ok", Rules: []Rule{Check()}}
	assert.NoError(t, ValidateRoutine(valid))

	long := &Routine{Name: "ok", Description: strings.Repeat("x", maxDescriptionLength+1), Rules: []Rule{Check()}}
	assert.ErrorIs(t, ValidateRoutine(long), ErrInvalidRoutine)

	tooMany := &Routine{Name: "ok", Rules: make([]Rule, maxRules+1)}
	for i := range tooMany.Rules {
		tooMany.Rules[i] = Check()
	}
	assert.ErrorIs(t, ValidateRoutine(tooMany), ErrInvalidRoutine)

	badRule := &Routine{Name: "ok", Rules: []Rule{Check(), {}}}
	err := ValidateRoutine(badRule)
	assert.ErrorIs(t, err, ErrInvalidRule)
	assert.Contains(t, err.Error(), "ok rule 1")
}

func TestRuleMatches(t *testing.T) {
	r := SwitchOn(device.KindLight, device.KindSpeaker)
	assert.True(t, r.Matches(device.KindLight))
	assert.True(t, r.Matches(device.KindSpeaker))
	assert.False(t, r.Matches(device.KindDoorLock))

	for _, k := range device.AllKinds() {
		assert.True(t, Check().Matches(k), k)
	}
}

func TestRuleWithDoesNotShareState(t *testing.T) {
	base := SwitchOn(device.KindLight).With(device.AttrBrightness, 10)
	derived := base.With(device.AttrBrightness, 90)

	assert.Equal(t, 10, base.Set[device.AttrBrightness])
	assert.Equal(t, 90, derived.Set[device.AttrBrightness])

	*derived.Power = device.Off
	assert.Equal(t, device.On, *base.Power)
}

func TestSetOrder(t *testing.T) {
	assert.Nil(t, setOrder(nil))
	assert.Equal(t, []string{"brightness", "temperature", "volume"},
		setOrder(map[string]int{"volume": 1, "brightness": 2, "temperature": 3}))
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
