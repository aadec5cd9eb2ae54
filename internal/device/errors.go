package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when a device ID is not registered.
	ErrNotFound = errors.New("device: not found")

	// ErrDuplicateID is returned when registering a device whose ID is already registered.
	ErrDuplicateID = errors.New("device: duplicate id")

	// ErrAlreadyRegistered is returned when a device instance already belongs to a registry.
	ErrAlreadyRegistered = errors.New("device: already registered")

	// ErrInvalidDevice is returned when a nil device is passed to the registry.
	ErrInvalidDevice = errors.New("device: invalid")

	// ErrInvalidID is returned when a device ID is empty, too long or contains whitespace.
	ErrInvalidID = errors.New("device: invalid id")

	// ErrInvalidKind is returned when a kind value is not recognised.
	ErrInvalidKind = errors.New("device: invalid kind")

	// ErrInvalidAttribute is returned by New when an attribute override is rejected.
	// It always wraps the specific cause (ErrUnsupportedAttribute or ErrOutOfRange).
	ErrInvalidAttribute = errors.New("device: invalid attribute")

	// ErrUnsupportedAttribute is returned when the device kind does not define the attribute.
	ErrUnsupportedAttribute = errors.New("device: unsupported attribute")

	// ErrOutOfRange is returned when an attribute value fails the kind's range check.
	ErrOutOfRange = errors.New("device: attribute out of range")
)
