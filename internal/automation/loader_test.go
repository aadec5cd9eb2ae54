package automation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/device"
)

const eveningYAML = `
routines:
  - name: evening
    description: Wind down
    rules:
      - kinds: [light]
        power: on
        set: {brightness: 30}
      - kinds: [Speaker, SecurityCamera]
        power: false
        invoke: false
      - kinds: [door-lock]
        power: "ON"
  - name: status
    rules:
      - invoke: true
`

func TestParseRoutines(t *testing.T) {
	routines, err := ParseRoutines([]byte(eveningYAML))
	require.NoError(t, err)
	require.Len(t, routines, 2)

	evening := routines[0]
	assert.Equal(t, "evening", evening.Name)
	assert.Equal(t, "Wind down", evening.Description)
	require.Len(t, evening.Rules, 3)

	light := evening.Rules[0]
	assert.Equal(t, []device.Kind{device.KindLight}, light.Kinds)
	require.NotNil(t, light.Power)
	assert.Equal(t, device.On, *light.Power)
	assert.Equal(t, map[string]int{"brightness": 30}, light.Set)
	assert.True(t, light.Invoke, "invoke defaults to true")

	quiet := evening.Rules[1]
	assert.Equal(t, []device.Kind{device.KindSpeaker, device.KindSecurityCamera}, quiet.Kinds)
	require.NotNil(t, quiet.Power)
	assert.Equal(t, device.Off, *quiet.Power)
	assert.False(t, quiet.Invoke)

	lock := evening.Rules[2]
	assert.Equal(t, []device.Kind{device.KindDoorLock}, lock.Kinds)
	assert.Equal(t, device.On, *lock.Power)

	status := routines[1]
	require.Len(t, status.Rules, 1)
	assert.Empty(t, status.Rules[0].Kinds)
	assert.Nil(t, status.Rules[0].Power)
	assert.True(t, status.Rules[0].Invoke)
}

func TestParseRoutines_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"empty document", ``, ErrInvalidRoutineFile},
		{"malformed yaml", "routines: [", ErrInvalidRoutineFile},
		{"no routines", "routines: []", ErrInvalidRoutineFile},
		{"unknown top-level key", "routines: [{name: a, rules: [{invoke: true}]}]\nextra: 1", ErrInvalidRoutineFile},
		{"rule without action", "routines: [{name: a, rules: [{kinds: [light]}]}]", ErrInvalidRoutineFile},
		{"bad power", "routines: [{name: a, rules: [{power: dim}]}]", ErrInvalidRoutineFile},
		{"non-integer set", "routines: [{name: a, rules: [{kinds: [light], set: {brightness: 2.5}}]}]", ErrInvalidRoutineFile},
		{"bad name", "routines: [{name: 9lives, rules: [{invoke: true}]}]", ErrInvalidRoutineFile},
		{"duplicate name", "routines: [{name: a, rules: [{invoke: true}]}, {name: a, rules: [{invoke: true}]}]", ErrInvalidRoutineFile},
		{"unknown kind", "routines: [{name: a, rules: [{kinds: [toaster], power: on}]}]", device.ErrInvalidKind},
		{"out of range", "routines: [{name: a, rules: [{kinds: [light], set: {brightness: 150}}]}]", device.ErrOutOfRange},
		{"unsupported attribute", "routines: [{name: a, rules: [{kinds: [door_lock], set: {volume: 5}}]}]", device.ErrUnsupportedAttribute},
		{"set without kinds", "routines: [{name: a, rules: [{set: {volume: 5}}]}]", ErrInvalidRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routines, err := ParseRoutines([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, routines)
		})
	}
}

func TestLoadRoutineFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routines.yaml")
	require.NoError(t, os.WriteFile(path, []byte(eveningYAML), 0o600))

	routines, err := LoadRoutineFile(path)
	require.NoError(t, err)
	require.Len(t, routines, 2)

	eng := NewEngine()
	require.NoError(t, DefineBuiltins(eng))
	require.NoError(t, eng.DefineAll(routines))
	assert.Equal(t, []string{RoutineMorning, RoutineAway, RoutineNight, RoutineSecurityAlert, "evening", "status"}, eng.Routines())
}

func TestLoadRoutineFile_Errors(t *testing.T) {
	_, err := LoadRoutineFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("routines: 3"), 0o600))
	_, err = LoadRoutineFile(path)
	assert.ErrorIs(t, err, ErrInvalidRoutineFile)
	assert.Contains(t, err.Error(), path)
}

func TestRoutineSchemaCompiles(t *testing.T) {
	sch, err := RoutineSchema()
	require.NoError(t, err)
	assert.NotNil(t, sch)
}

func TestParsePower(t *testing.T) {
	for _, in := range []any{"on", "ON", "On", true} {
		p, err := parsePower(in)
		require.NoError(t, err, in)
		assert.Equal(t, device.On, p)
	}
	for _, in := range []any{"off", "OFF", false} {
		p, err := parsePower(in)
		require.NoError(t, err, in)
		assert.Equal(t, device.Off, p)
	}
	_, err := parsePower(1)
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestLoadRoutineFile_ExampleFile(t *testing.T) {
	routines, err := LoadRoutineFile(filepath.Join("..", "..", "configs", "routines.yaml"))
	require.NoError(t, err)

	names := make([]string, 0, len(routines))
	for _, r := range routines {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"evening", "movie", "status"}, names)
}
