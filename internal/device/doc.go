// Package device provides the device model and Device Registry.
//
// A Device is a single controllable entity: an immutable ID and Kind, a
// power state that starts Off, and a small set of kind-specific integer
// attributes (brightness, temperature, volume). Kind-specific behaviour is
// resolved through a per-kind behaviour table rather than per-kind types.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────┐
//	│                        Device Registry                        │
//	│                                                               │
//	│  ┌──────────────────┐        ┌──────────────────────────┐    │
//	│  │     Registry     │ owns   │         Device           │    │
//	│  │  (registry.go)   │───────▶│       (device.go)        │    │
//	│  │                  │        │                          │    │
//	│  │ • ordered fleet  │◀───────│ • TurnOn / TurnOff       │    │
//	│  │ • TotalDevices   │ power  │ • PerformFunction        │    │
//	│  │ • DevicesOn      │ delta  │ • SetAttribute / Dim     │    │
//	│  └──────────────────┘        └──────────────────────────┘    │
//	│                                     │                         │
//	│                                     ▼                         │
//	│                          ┌──────────────────────┐            │
//	│                          │  behaviour table     │            │
//	│                          │     (kinds.go)       │            │
//	│                          └──────────────────────┘            │
//	└──────────────────────────────────────────────────────────────┘
//
// # Counters
//
// The Registry keeps TotalDevices and DevicesOn as maintained counters.
// A registered device notifies its registry once per real power transition,
// so DevicesOn always equals the number of registered devices that are on,
// whether the transition came from the registry, a routine, or a direct
// call on the device.
//
// # Usage
//
//	reg := device.NewRegistry()
//	reg.SetLogger(log)
//
//	light, err := device.New("L1", device.KindLight, nil)
//	if err != nil {
//	    return err
//	}
//	if err := reg.Register(light); err != nil {
//	    return err
//	}
//
//	light.TurnOn()
//	fmt.Println(light.PerformFunction()) // L1 is providing light at 50% brightness.
//	fmt.Println(reg.Summary().DevicesOn) // 1
//
// # Thread Safety
//
// Registry and Device are safe for concurrent use.
package device
