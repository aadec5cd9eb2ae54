package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/automation"
	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/device"
)

// Menu positions with the four built-in routines defined.
const (
	optMorning = "1"
	optAway    = "2"
	optSummary = "5"
	optList    = "6"
	optOn      = "7"
	optOff     = "8"
	optDim     = "9"
	optRecent  = "10"
	optExit    = "11"
)

type fixture struct {
	registry *device.Registry
	engine   *automation.Engine
	history  *automation.MemoryHistory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	reg := device.NewRegistry()
	require.NoError(t, reg.RegisterAll([]device.Spec{
		{ID: "Light1", Kind: device.KindLight},
		{ID: "Light2", Kind: device.KindLight},
		{ID: "Thermostat1", Kind: device.KindThermostat},
		{ID: "FrontDoor", Kind: device.KindDoorLock},
	}))

	hist := automation.NewMemoryHistory(0)
	eng := automation.NewEngine(automation.WithHistory(hist))
	require.NoError(t, automation.DefineBuiltins(eng))

	return &fixture{registry: reg, engine: eng, history: hist}
}

func (f *fixture) run(t *testing.T, lines ...string) string {
	t.Helper()

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	sh := New(f.registry, f.engine, f.history, in, &out)
	require.NoError(t, sh.Run(context.Background()))
	return out.String()
}

func TestMenuListsRoutinesThenFixedEntries(t *testing.T) {
	f := newFixture(t)
	out := f.run(t, optExit)

	assert.Contains(t, out, "Choose an option:\n"+
		"1. Execute morning routine\n"+
		"2. Execute away routine\n"+
		"3. Execute night routine\n"+
		"4. Execute securityAlert routine\n"+
		"5. Show device summary\n"+
		"6. List devices\n"+
		"7. Turn a device on\n"+
		"8. Turn a device off\n"+
		"9. Dim a light\n"+
		"10. Show recent routine runs\n"+
		"11. Exit\n")
	assert.True(t, strings.HasSuffix(out, "Exiting...\n"))
}

func TestRunRoutinePrintsStatuses(t *testing.T) {
	f := newFixture(t)
	out := f.run(t, optMorning, optSummary, optExit)

	assert.Contains(t, out, "Executing morning routine...\n"+
		"Light1 is providing light at 50% brightness.\n"+
		"Light2 is providing light at 50% brightness.\n"+
		"Thermostat1 is regulating temperature at 20°C.\n")
	assert.Contains(t, out, "Total devices: 4\nDevices on: 3\n"+
		"  Light: 2 (2 on)\n"+
		"  Thermostat: 1 (1 on)\n"+
		"  Door Lock: 1 (0 on)\n")
}

func TestInvalidChoice(t *testing.T) {
	f := newFixture(t)
	out := f.run(t, "abc", "0", "99", optExit)

	assert.Equal(t, 3, strings.Count(out, "Invalid choice. Please try again.\n"))
	assert.Contains(t, out, "Exiting...")
}

func TestEOFExits(t *testing.T) {
	f := newFixture(t)

	var out bytes.Buffer
	sh := New(f.registry, f.engine, nil, strings.NewReader(""), &out)
	require.NoError(t, sh.Run(context.Background()))
	assert.True(t, strings.HasSuffix(out.String(), "Exiting...\n"))
}

func TestEOFDuringPrompt(t *testing.T) {
	f := newFixture(t)

	var out bytes.Buffer
	sh := New(f.registry, f.engine, nil, strings.NewReader(optOn+"\n"), &out)
	require.NoError(t, sh.Run(context.Background()))
	assert.True(t, strings.HasSuffix(out.String(), "Exiting...\n"))
}

func TestCancelledContextExits(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	sh := New(f.registry, f.engine, nil, strings.NewReader(optMorning+"\n"), &out)
	require.NoError(t, sh.Run(ctx))
	assert.Equal(t, "Exiting...\n", out.String())
	assert.Equal(t, 0, f.registry.Summary().DevicesOn)
}

func TestTurnOnOff(t *testing.T) {
	f := newFixture(t)
	out := f.run(t,
		optOn, "Light2",
		optOn, "Light2",
		optOff, "Light2",
		optOff, "ghost",
		optExit,
	)

	assert.Contains(t, out, "Light2 is now ON.\n")
	assert.Contains(t, out, "Light2 is already ON.\n")
	assert.Contains(t, out, "Light2 is now OFF.\n")
	assert.Contains(t, out, "Error: device: not found: ghost\n")
	assert.Equal(t, 0, f.registry.Summary().DevicesOn)
}

func TestDimLight(t *testing.T) {
	f := newFixture(t)
	out := f.run(t,
		optDim, "Light1", "30",
		optOn, "Light1",
		optDim, "Light1", "30",
		optDim, "Light1", "130",
		optDim, "Thermostat1", "30",
		optDim, "Light1", "dim",
		optExit,
	)

	assert.Contains(t, out, "Light1 is off, cannot dim light.\n")
	assert.Contains(t, out, "Light1 light is dimmed to 30%.\n")
	assert.Contains(t, out, "attribute out of range")
	assert.Contains(t, out, "unsupported attribute")
	assert.Contains(t, out, "whole number")

	d, err := f.registry.Get("Light1")
	require.NoError(t, err)
	b, _ := d.Attribute(device.AttrBrightness)
	assert.Equal(t, 30, b)
}

func TestListDevices(t *testing.T) {
	f := newFixture(t)
	out := f.run(t, optList, optExit)

	assert.Contains(t, out, "1. Light1 (Light, off)\n")
	assert.Contains(t, out, "4. FrontDoor (Door Lock, off)\n")
}

func TestListDevicesEmpty(t *testing.T) {
	eng := automation.NewEngine()
	var out bytes.Buffer
	sh := New(device.NewRegistry(), eng, nil, strings.NewReader("1\n2\n"), &out)
	require.NoError(t, sh.Run(context.Background()))

	// no routines: List devices is entry 2
	assert.Contains(t, out.String(), "No devices registered.\n")
}

func TestShowRecent(t *testing.T) {
	f := newFixture(t)
	out := f.run(t, optRecent, optMorning, optAway, optRecent, optExit)

	assert.Contains(t, out, "No routine runs recorded.\n")

	var runs []string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "devices=") {
			runs = append(runs, line)
		}
	}
	require.Len(t, runs, 2)
	assert.Contains(t, runs[0], "away", "newest run first")
	assert.Contains(t, runs[1], "morning")
	assert.Contains(t, runs[1], "devices=3 transitions=3 statuses=3")
}

func TestShowRecentDisabled(t *testing.T) {
	f := newFixture(t)

	var out bytes.Buffer
	sh := New(f.registry, f.engine, nil, strings.NewReader(optRecent+"\n"+optExit+"\n"), &out)
	require.NoError(t, sh.Run(context.Background()))
	assert.Contains(t, out.String(), "Routine history is disabled.\n")
}

func TestWithPrompt(t *testing.T) {
	f := newFixture(t)

	var out bytes.Buffer
	sh := New(f.registry, f.engine, nil, strings.NewReader(""), &out, WithPrompt("Home:"))
	require.NoError(t, sh.Run(context.Background()))
	assert.Contains(t, out.String(), "\nHome:\n1. ")
}
