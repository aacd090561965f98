package input

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Actions is the set of atomic output operations joybind performs.
//
// Every method returns nil, ErrFailsafe or an error wrapping ErrInjection;
// backend panics are recovered and reported as ErrInjection. Methods are safe
// for concurrent use.
type Actions struct {
	inj Injector

	cornerFailsafe atomic.Bool
	epoch          atomic.Uint64

	screenMu sync.Mutex
	screenW  int
	screenH  int
}

// NewActions creates the primitive facade over an injector backend.
func NewActions(inj Injector) *Actions {
	return &Actions{inj: inj}
}

// SetCornerFailsafe enables aborting primitives while the cursor sits in a screen corner.
func (a *Actions) SetCornerFailsafe(enabled bool) {
	a.cornerFailsafe.Store(enabled)
}

// Trip triggers the emergency stop: sequences started before this call abort at their next step.
func (a *Actions) Trip() {
	a.epoch.Add(1)
}

// Epoch returns the emergency stop counter.
func (a *Actions) Epoch() uint64 {
	return a.epoch.Load()
}

// PressKey presses and releases a key.
func (a *Actions) PressKey(key string) error {
	key = NormalizeKey(key)
	return a.run("press "+key, func() error { return a.inj.InjectKeyTap(key) })
}

// KeyDown holds a key down.
func (a *Actions) KeyDown(key string) error {
	key = NormalizeKey(key)
	return a.run("key down "+key, func() error { return a.inj.InjectKey(key, true) })
}

// KeyUp releases a held key. Releases are never blocked by the corner failsafe.
func (a *Actions) KeyUp(key string) error {
	key = NormalizeKey(key)
	return a.guard("key up "+key, func() error { return a.inj.InjectKey(key, false) })
}

// MoveTo moves the cursor to absolute coordinates.
func (a *Actions) MoveTo(x, y int) error {
	return a.run(fmt.Sprintf("move to (%d, %d)", x, y), func() error { return a.inj.InjectMouseMoveTo(x, y) })
}

// MoveBy moves the cursor relative to its position.
func (a *Actions) MoveBy(dx, dy int) error {
	if dx == 0 && dy == 0 {
		return nil
	}
	return a.run(fmt.Sprintf("move by (%d, %d)", dx, dy), func() error { return a.inj.InjectMouseMove(dx, dy) })
}

// Click clicks a mouse button at the current position.
func (a *Actions) Click(button MouseButton) error {
	return a.run("click "+button.String(), func() error { return a.inj.InjectMouseClick(button, false) })
}

// DoubleClick double-clicks the left button at the current position.
func (a *Actions) DoubleClick() error {
	return a.run("double click", func() error { return a.inj.InjectMouseClick(ButtonLeft, true) })
}

// Scroll scrolls vertically; positive clicks scroll up.
func (a *Actions) Scroll(clicks int) error {
	if clicks == 0 {
		return nil
	}
	return a.run(fmt.Sprintf("scroll %d", clicks), func() error { return a.inj.InjectScroll(clicks, 0) })
}

// ScrollHorizontal scrolls horizontally; positive clicks scroll right.
func (a *Actions) ScrollHorizontal(clicks int) error {
	if clicks == 0 {
		return nil
	}
	return a.run(fmt.Sprintf("hscroll %d", clicks), func() error { return a.inj.InjectScroll(0, clicks) })
}

// Position returns the current cursor position.
func (a *Actions) Position() (x, y int, err error) {
	err = a.guard("cursor position", func() error {
		var perr error
		x, y, perr = a.inj.CursorPosition()
		return perr
	})
	return x, y, err
}

// run executes one primitive after the failsafe check.
func (a *Actions) run(op string, fn func() error) error {
	if a.inCorner() {
		return fmt.Errorf("%s: %w", op, ErrFailsafe)
	}
	return a.guard(op, fn)
}

// guard converts backend errors and panics into ErrInjection.
func (a *Actions) guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: panic: %v", ErrInjection, op, r)
		}
	}()
	if err := fn(); err != nil {
		if errors.Is(err, ErrFailsafe) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%w: %s: %w", ErrInjection, op, err)
	}
	return nil
}

// inCorner reports whether the corner failsafe is armed and the cursor sits in a corner.
// Any failure to determine the position disarms the check for this call.
func (a *Actions) inCorner() bool {
	if !a.cornerFailsafe.Load() {
		return false
	}
	w, h, ok := a.screenSize()
	if !ok {
		return false
	}
	var x, y int
	if err := a.guard("cursor position", func() error {
		var perr error
		x, y, perr = a.inj.CursorPosition()
		return perr
	}); err != nil {
		return false
	}
	return (x <= 0 || x >= w-1) && (y <= 0 || y >= h-1)
}

func (a *Actions) screenSize() (int, int, bool) {
	a.screenMu.Lock()
	defer a.screenMu.Unlock()
	if a.screenW > 0 && a.screenH > 0 {
		return a.screenW, a.screenH, true
	}
	var w, h int
	if err := a.guard("screen size", func() error {
		var serr error
		w, h, serr = a.inj.ScreenSize()
		return serr
	}); err != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	a.screenW, a.screenH = w, h
	return w, h, true
}
