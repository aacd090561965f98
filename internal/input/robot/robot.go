// Package robot implements the input injector on top of robotgo,
// which drives the native APIs of Windows, macOS and X11.
package robot

import (
	"fmt"

	"github.com/go-vgo/robotgo"

	"joybind/internal/input"
)

// robotgoKeys maps canonical names that robotgo spells differently.
var robotgoKeys = map[string]string{
	"scrolllock": "scroll_lock",
	"numlock":    "num_lock",
}

// Injector injects input through robotgo
type Injector struct{}

// NewInjector creates a robotgo-backed injector
func NewInjector() *Injector {
	return &Injector{}
}

func keyName(key string) string {
	if k, ok := robotgoKeys[key]; ok {
		return k
	}
	return key
}

// InjectKeyTap presses and releases a key
func (i *Injector) InjectKeyTap(key string) error {
	return robotgo.KeyTap(keyName(key))
}

// InjectKey presses or releases a key
func (i *Injector) InjectKey(key string, pressed bool) error {
	state := "up"
	if pressed {
		state = "down"
	}
	return robotgo.KeyToggle(keyName(key), state)
}

// InjectMouseMove moves the cursor relative to its position
func (i *Injector) InjectMouseMove(dx, dy int) error {
	robotgo.MoveRelative(dx, dy)
	return nil
}

// InjectMouseMoveTo moves the cursor to absolute coordinates
func (i *Injector) InjectMouseMoveTo(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

// InjectMouseClick clicks a mouse button
func (i *Injector) InjectMouseClick(button input.MouseButton, double bool) error {
	switch button {
	case input.ButtonLeft, input.ButtonRight:
	case input.ButtonMiddle:
		// robotgo calls the middle button "center"
		robotgo.Click("center", double)
		return nil
	default:
		return fmt.Errorf("invalid button number: %d", button)
	}
	robotgo.Click(button.String(), double)
	return nil
}

// InjectScroll scrolls by whole clicks
func (i *Injector) InjectScroll(vertical, horizontal int) error {
	robotgo.Scroll(horizontal, vertical)
	return nil
}

// CursorPosition returns the cursor position
func (i *Injector) CursorPosition() (int, int, error) {
	x, y := robotgo.Location()
	return x, y, nil
}

// ScreenSize returns the main screen size
func (i *Injector) ScreenSize() (int, int, error) {
	w, h := robotgo.GetScreenSize()
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("screen size unavailable")
	}
	return w, h, nil
}

// Close is a no-op; robotgo holds no per-injector resources
func (i *Injector) Close() error {
	return nil
}

var _ input.Injector = (*Injector)(nil)
