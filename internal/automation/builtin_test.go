package automation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/device"
)

func TestBuiltinsAreValid(t *testing.T) {
	for _, r := range Builtins() {
		assert.NoError(t, ValidateRoutine(&r), r.Name)
	}
}

func TestDefineBuiltins_MenuOrder(t *testing.T) {
	eng := NewEngine()
	require.NoError(t, DefineBuiltins(eng))
	assert.Equal(t, []string{RoutineMorning, RoutineAway, RoutineNight, RoutineSecurityAlert}, eng.Routines())
}

func TestBuiltins_AwayLeavesDoorsLocked(t *testing.T) {
	fleet := device.NewRegistry()
	require.NoError(t, fleet.RegisterAll([]device.Spec{
		{ID: "FrontDoor", Kind: device.KindDoorLock},
		{ID: "Cam", Kind: device.KindSecurityCamera},
		{ID: "Radio", Kind: device.KindSpeaker},
	}))
	_, err := fleet.TurnOn("Radio")
	require.NoError(t, err)

	eng := NewEngine()
	require.NoError(t, DefineBuiltins(eng))

	statuses, err := eng.Run(context.Background(), RoutineAway, fleet)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"FrontDoor is unlocked.",
		"FrontDoor is locked.",
		"Cam is monitoring.",
		"Radio is off, no sound.",
	}, summaries(statuses))

	door, err := fleet.Get("FrontDoor")
	require.NoError(t, err)
	assert.True(t, door.IsOn())
	assert.Equal(t, 2, fleet.Summary().DevicesOn)
}

func TestBuiltins_SecurityAlertMaxesLevels(t *testing.T) {
	fleet := device.NewRegistry()
	require.NoError(t, fleet.RegisterAll([]device.Spec{
		{ID: "Hall", Kind: device.KindLight, Attributes: map[string]int{device.AttrBrightness: 10}},
		{ID: "Siren", Kind: device.KindSpeaker},
	}))

	eng := NewEngine()
	require.NoError(t, DefineBuiltins(eng))

	statuses, err := eng.Run(context.Background(), RoutineSecurityAlert, fleet)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Hall is providing light at 100% brightness.",
		"Siren is playing audio at volume 100.",
	}, summaries(statuses))
}
