package input

import "errors"

var (
	// ErrFailsafe is returned when a primitive was aborted by the failsafe
	ErrFailsafe = errors.New("failsafe triggered")

	// ErrInjection wraps any other failure of the injector backend
	ErrInjection = errors.New("input injection failed")

	// ErrQueueFull is returned when the output queue cannot accept more work
	ErrQueueFull = errors.New("output queue full")

	// ErrUnknownKey is returned by backends for key names they cannot map
	ErrUnknownKey = errors.New("unknown key")

	// ErrUnsupportedPlatform is returned by backends unavailable on this OS
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)
