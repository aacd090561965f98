//go:build linux

// Package uinputdev implements the input injector with Linux uinput virtual
// devices. It works without a display server connection (Wayland, consoles)
// but cannot query the real cursor, so the position is tracked locally.
package uinputdev

import (
	"fmt"
	"sync"
	"time"

	"github.com/bendahl/uinput"

	"joybind/internal/input"
)

const (
	uinputPath     = "/dev/uinput"
	deviceName     = "joybind"
	doubleClickGap = 40 * time.Millisecond
)

// Injector injects input through uinput virtual keyboard, mouse and touchpad devices
type Injector struct {
	keyboard uinput.Keyboard
	mouse    uinput.Mouse
	touchpad uinput.TouchPad

	mu     sync.Mutex
	x, y   int
	width  int
	height int
}

// NewInjector creates the virtual devices. width and height describe the screen
// the absolute touchpad is mapped onto.
func NewInjector(width, height int) (*Injector, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid screen size %dx%d", width, height)
	}

	kbd, err := uinput.CreateKeyboard(uinputPath, []byte(deviceName+" keyboard"))
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual keyboard: %w", err)
	}
	mouse, err := uinput.CreateMouse(uinputPath, []byte(deviceName+" mouse"))
	if err != nil {
		kbd.Close()
		return nil, fmt.Errorf("failed to create virtual mouse: %w", err)
	}
	pad, err := uinput.CreateTouchPad(uinputPath, []byte(deviceName+" pointer"), 0, int32(width-1), 0, int32(height-1))
	if err != nil {
		kbd.Close()
		mouse.Close()
		return nil, fmt.Errorf("failed to create virtual touchpad: %w", err)
	}

	return &Injector{
		keyboard: kbd,
		mouse:    mouse,
		touchpad: pad,
		x:        width / 2,
		y:        height / 2,
		width:    width,
		height:   height,
	}, nil
}

func keyCode(key string) (int, error) {
	code, ok := KeyCodes[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", input.ErrUnknownKey, key)
	}
	return code, nil
}

// InjectKeyTap presses and releases a key
func (i *Injector) InjectKeyTap(key string) error {
	code, err := keyCode(key)
	if err != nil {
		return err
	}
	return i.keyboard.KeyPress(code)
}

// InjectKey presses or releases a key
func (i *Injector) InjectKey(key string, pressed bool) error {
	code, err := keyCode(key)
	if err != nil {
		return err
	}
	if pressed {
		return i.keyboard.KeyDown(code)
	}
	return i.keyboard.KeyUp(code)
}

// InjectMouseMove moves the cursor relative to its position
func (i *Injector) InjectMouseMove(dx, dy int) error {
	if err := i.mouse.Move(int32(dx), int32(dy)); err != nil {
		return err
	}
	i.mu.Lock()
	i.x = clamp(i.x+dx, 0, i.width-1)
	i.y = clamp(i.y+dy, 0, i.height-1)
	i.mu.Unlock()
	return nil
}

// InjectMouseMoveTo moves the cursor to absolute coordinates
func (i *Injector) InjectMouseMoveTo(x, y int) error {
	x = clamp(x, 0, i.width-1)
	y = clamp(y, 0, i.height-1)
	if err := i.touchpad.MoveTo(int32(x), int32(y)); err != nil {
		return err
	}
	i.mu.Lock()
	i.x, i.y = x, y
	i.mu.Unlock()
	return nil
}

// InjectMouseClick clicks a mouse button
func (i *Injector) InjectMouseClick(button input.MouseButton, double bool) error {
	var click func() error
	switch button {
	case input.ButtonLeft:
		click = i.mouse.LeftClick
	case input.ButtonRight:
		click = i.mouse.RightClick
	case input.ButtonMiddle:
		click = i.mouse.MiddleClick
	default:
		return fmt.Errorf("invalid button number: %d", button)
	}
	if err := click(); err != nil {
		return err
	}
	if !double {
		return nil
	}
	time.Sleep(doubleClickGap)
	return click()
}

// InjectScroll scrolls by whole clicks
func (i *Injector) InjectScroll(vertical, horizontal int) error {
	if vertical != 0 {
		if err := i.mouse.Wheel(false, int32(vertical)); err != nil {
			return err
		}
	}
	if horizontal != 0 {
		return i.mouse.Wheel(true, int32(horizontal))
	}
	return nil
}

// CursorPosition returns the locally tracked cursor position
func (i *Injector) CursorPosition() (int, int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.x, i.y, nil
}

// ScreenSize returns the configured screen size
func (i *Injector) ScreenSize() (int, int, error) {
	return i.width, i.height, nil
}

// Close destroys the virtual devices
func (i *Injector) Close() error {
	var firstErr error
	for _, c := range []interface{ Close() error }{i.keyboard, i.mouse, i.touchpad} {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var _ input.Injector = (*Injector)(nil)
