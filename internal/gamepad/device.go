// Package gamepad polls a gamepad at a fixed rate and reports button edges
// and axis samples.
package gamepad

// Provider enumerates and opens gamepads on the host.
type Provider interface {
	// List re-enumerates the connected gamepads and returns their names
	List() ([]string, error)

	// Open opens the gamepad at index in the last enumeration
	Open(index int) (Device, error)
}

// Device is an open gamepad handle.
type Device interface {
	// Name returns the device name
	Name() string

	// Refresh updates the sampled state; an error means the handle is unusable
	Refresh() error

	// Valid reports whether the handle is still connected
	Valid() bool

	// Buttons returns the digital state of every button
	Buttons() []bool

	// Axes returns every axis sample in [-1, 1]
	Axes() []float64

	// Close releases the handle
	Close() error
}
