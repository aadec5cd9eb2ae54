package device

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Summary holds the registry's maintained aggregate counters.
type Summary struct {
	TotalDevices int `json:"total_devices"`
	DevicesOn    int `json:"devices_on"`
}

// Registry owns the ordered fleet of devices and the counters derived from it.
//
// Counters are maintained incrementally: membership changes adjust
// TotalDevices, and every real power transition of a registered device
// adjusts DevicesOn through the device's owner hook. They are never
// recomputed by scanning, so a drift between counters and device state is
// observable rather than masked.
//
// Mutating operations are serialised by a single lock. Summary and
// ListDevices take the read side and therefore observe the registry between
// mutations, never in the middle of an Exclusive batch.
type Registry struct {
	mu      sync.RWMutex
	devices []*Device          // insertion order
	byID    map[string]*Device // index into devices
	on      atomic.Int64       // powered-on registered devices
	logger  Logger
}

// NewRegistry creates an empty device registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[string]*Device),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.logger = logger
}

// powerChanged implements powerObserver.
func (r *Registry) powerChanged(delta int) {
	r.on.Add(int64(delta))
}

// Register appends a device to the fleet.
//
// Returns ErrDuplicateID if a device with the same ID is registered, or
// ErrAlreadyRegistered if this instance already belongs to a registry.
// A device that is already on when registered is counted in DevicesOn.
func (r *Registry) Register(d *Device) error {
	if d == nil {
		return ErrInvalidDevice
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[d.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, d.ID())
	}

	power, err := d.attach(r)
	if err != nil {
		return err
	}
	if power == On {
		r.on.Add(1)
	}

	r.devices = append(r.devices, d)
	r.byID[d.ID()] = d

	r.logger.Info("device registered", "id", d.ID(), "kind", d.Kind(), "power", power)
	return nil
}

// RegisterAll builds and registers a device for each spec, in order.
// It stops at the first failure; devices registered before it remain.
func (r *Registry) RegisterAll(specs []Spec) error {
	for _, s := range specs {
		d, err := FromSpec(s)
		if err != nil {
			return fmt.Errorf("device %q: %w", s.ID, err)
		}
		if err := r.Register(d); err != nil {
			return fmt.Errorf("device %q: %w", s.ID, err)
		}
	}
	return nil
}

// Unregister removes a device by ID and returns it.
// Returns ErrNotFound if no such device is registered.
func (r *Registry) Unregister(id string) (*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if d.detach() == On {
		r.on.Add(-1)
	}

	delete(r.byID, id)
	for i, cur := range r.devices {
		if cur == d {
			r.devices = append(r.devices[:i], r.devices[i+1:]...)
			break
		}
	}

	r.logger.Info("device unregistered", "id", id)
	return d, nil
}

// Get returns a registered device by ID.
func (r *Registry) Get(id string) (*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return d, nil
}

// ListDevices returns the registered devices in insertion order.
// The slice is fresh; the devices are shared and must only be mutated
// through their transition methods.
func (r *Registry) ListDevices() []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Device, len(r.devices))
	copy(out, r.devices)
	return out
}

// Summary returns the maintained counters.
func (r *Registry) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Summary{
		TotalDevices: len(r.devices),
		DevicesOn:    int(r.on.Load()),
	}
}

// TurnOn powers on a registered device. It reports whether a transition occurred.
func (r *Registry) TurnOn(id string) (bool, error) {
	return r.setPower(id, On)
}

// TurnOff powers off a registered device. It reports whether a transition occurred.
func (r *Registry) TurnOff(id string) (bool, error) {
	return r.setPower(id, Off)
}

func (r *Registry) setPower(id string, p Power) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	changed := d.SetPower(p)
	r.logger.Debug("device power set", "id", id, "power", p, "changed", changed)
	return changed, nil
}

// Dim sets the brightness of a registered light under the registry lock.
// See Device.Dim for the returned status and errors.
func (r *Registry) Dim(id string, level int) (DeviceStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok {
		return DeviceStatus{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	st, err := d.Dim(level)
	if err != nil {
		return DeviceStatus{}, err
	}
	r.logger.Debug("device dimmed", "id", id, "level", level, "power", st.Power)
	return st, nil
}

// Exclusive runs fn with the registry's mutation lock held, passing the
// devices in insertion order. Nothing else can register, unregister or read
// a summary until fn returns, which makes a batch of transitions atomic for
// observers. fn must not call back into the registry.
func (r *Registry) Exclusive(fn func(devices []*Device) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	devices := make([]*Device, len(r.devices))
	copy(devices, r.devices)
	return fn(devices)
}

// KindStats is a per-kind breakdown of the fleet.
type KindStats struct {
	Total int `json:"total"`
	On    int `json:"on"`
}

// Stats returns a per-kind breakdown computed by scanning the fleet.
// It is for reporting only; Summary is the authoritative aggregate.
func (r *Registry) Stats() map[Kind]KindStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make(map[Kind]KindStats)
	for _, d := range r.devices {
		s := stats[d.Kind()]
		s.Total++
		if d.IsOn() {
			s.On++
		}
		stats[d.Kind()] = s
	}
	return stats
}
