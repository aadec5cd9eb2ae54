package automation

import "github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/device"

// Built-in routine names.
const (
	RoutineMorning       = "morning"
	RoutineAway          = "away"
	RoutineNight         = "night"
	RoutineSecurityAlert = "securityAlert"
)

// NightTemperature is the thermostat setpoint applied by the night routine.
const NightTemperature = 18

// Builtins returns the default routine set in menu order.
func Builtins() []Routine {
	return []Routine{
		{
			Name:        RoutineMorning,
			Description: "Lights and heating on",
			Rules: []Rule{
				SwitchOn(device.KindLight),
				SwitchOn(device.KindThermostat),
			},
		},
		{
			Name:        RoutineAway,
			Description: "Lights and media off, cameras on, doors cycled and locked",
			Rules: []Rule{
				SwitchOff(device.KindLight),
				SwitchOff(device.KindSpeaker, device.KindAppliance),
				SwitchOn(device.KindSecurityCamera),
				SwitchOff(device.KindDoorLock),
				SwitchOn(device.KindDoorLock),
			},
		},
		{
			Name:        RoutineNight,
			Description: "Lights off, heating lowered, doors locked",
			Rules: []Rule{
				SwitchOff(device.KindLight, device.KindSpeaker),
				SwitchOn(device.KindThermostat).With(device.AttrTemperature, NightTemperature),
				SwitchOn(device.KindDoorLock, device.KindSecurityCamera),
			},
		},
		{
			Name:        RoutineSecurityAlert,
			Description: "Full brightness, siren volume, cameras and locks on",
			Rules: []Rule{
				SwitchOn(device.KindLight).With(device.AttrBrightness, 100),
				SwitchOn(device.KindSpeaker).With(device.AttrVolume, 100),
				SwitchOn(device.KindSecurityCamera, device.KindDoorLock),
			},
		},
	}
}

// DefineBuiltins registers the default routines on e.
func DefineBuiltins(e *Engine) error {
	return e.DefineAll(Builtins())
}
