// Package input provides the keyboard and mouse primitives joybind drives,
// on top of a platform-specific injector backend.
package input

// MouseButton identifies a mouse button
type MouseButton int

const (
	ButtonLeft   MouseButton = 1
	ButtonRight  MouseButton = 2
	ButtonMiddle MouseButton = 3
)

func (b MouseButton) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	}
	return "unknown"
}

// Injector defines the interface for injecting input events into the OS.
// Key names are canonical names as returned by NormalizeKey.
type Injector interface {
	// InjectKeyTap presses and releases a key
	InjectKeyTap(key string) error

	// InjectKey presses (pressed=true) or releases a key
	InjectKey(key string, pressed bool) error

	// InjectMouseMove moves the cursor relative to its current position
	InjectMouseMove(dx, dy int) error

	// InjectMouseMoveTo moves the cursor to absolute screen coordinates
	InjectMouseMoveTo(x, y int) error

	// InjectMouseClick clicks a button once, or twice when double is set
	InjectMouseClick(button MouseButton, double bool) error

	// InjectScroll scrolls by whole clicks; positive vertical is up, positive horizontal is right
	InjectScroll(vertical, horizontal int) error

	// CursorPosition returns the current cursor position
	CursorPosition() (x, y int, err error)

	// ScreenSize returns the size of the main screen
	ScreenSize() (width, height int, err error)

	// Close releases backend resources
	Close() error
}
