package gamepad

import "errors"

var (
	// ErrNoDeviceFound is returned by Start when no gamepad is connected
	ErrNoDeviceFound = errors.New("no gamepad detected; connect a joystick or gamepad and try again")

	// ErrDeviceIndexOutOfRange is returned by Start when the selected index does not exist
	ErrDeviceIndexOutOfRange = errors.New("gamepad index out of range")

	// ErrDeviceInit is returned by Start when the device cannot be opened
	ErrDeviceInit = errors.New("failed to initialize gamepad")

	// ErrDeviceDisconnected is reported when the device goes away while polling
	ErrDeviceDisconnected = errors.New("gamepad disconnected")

	// ErrListenerRunning is returned by operations that would re-enumerate devices while polling
	ErrListenerRunning = errors.New("listener is running")

	// ErrUnsupportedPlatform is returned by device backends unavailable on this OS
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)
