// Package inputtest provides an in-memory injector for tests.
package inputtest

import (
	"errors"
	"fmt"
	"sync"

	"joybind/internal/input"
)

// ErrInjected is the error returned for operations configured to fail.
var ErrInjected = errors.New("injected failure")

// Recorder is an input.Injector that records every operation as a string
// ("tap enter", "down w", "up w", "move 1,0", "moveto 500,300",
// "click left", "double left", "scroll 3,0") and tracks the cursor.
type Recorder struct {
	mu      sync.Mutex
	ops     []string
	x, y    int
	width   int
	height  int
	failOps map[string]bool
	panics  map[string]bool
}

// NewRecorder creates a recorder with the cursor at (x, y) on a 1920x1080 screen.
func NewRecorder(x, y int) *Recorder {
	return &Recorder{
		x:       x,
		y:       y,
		width:   1920,
		height:  1080,
		failOps: make(map[string]bool),
		panics:  make(map[string]bool),
	}
}

// FailOn makes the named operation kind ("tap", "down", "up", "move", "moveto",
// "click", "double", "scroll", "position") return ErrInjected.
func (r *Recorder) FailOn(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOps[kind] = true
}

// PanicOn makes the named operation kind panic.
func (r *Recorder) PanicOn(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panics[kind] = true
}

// SetCursor places the cursor without recording an operation.
func (r *Recorder) SetCursor(x, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.x, r.y = x, y
}

// Ops returns a copy of the recorded operations.
func (r *Recorder) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

// Reset clears the recorded operations.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = nil
}

// Cursor returns the tracked cursor position.
func (r *Recorder) Cursor() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.x, r.y
}

func (r *Recorder) record(kind, op string, apply func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.panics[kind] {
		panic(fmt.Sprintf("inputtest: %s", op))
	}
	if r.failOps[kind] {
		return ErrInjected
	}
	if apply != nil {
		apply()
	}
	r.ops = append(r.ops, op)
	return nil
}

func (r *Recorder) InjectKeyTap(key string) error {
	return r.record("tap", "tap "+key, nil)
}

func (r *Recorder) InjectKey(key string, pressed bool) error {
	if pressed {
		return r.record("down", "down "+key, nil)
	}
	return r.record("up", "up "+key, nil)
}

func (r *Recorder) InjectMouseMove(dx, dy int) error {
	return r.record("move", fmt.Sprintf("move %d,%d", dx, dy), func() {
		r.x += dx
		r.y += dy
	})
}

func (r *Recorder) InjectMouseMoveTo(x, y int) error {
	return r.record("moveto", fmt.Sprintf("moveto %d,%d", x, y), func() {
		r.x, r.y = x, y
	})
}

func (r *Recorder) InjectMouseClick(button input.MouseButton, double bool) error {
	if double {
		return r.record("double", "double "+button.String(), nil)
	}
	return r.record("click", "click "+button.String(), nil)
}

func (r *Recorder) InjectScroll(vertical, horizontal int) error {
	return r.record("scroll", fmt.Sprintf("scroll %d,%d", vertical, horizontal), nil)
}

func (r *Recorder) CursorPosition() (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.panics["position"] {
		panic("inputtest: position")
	}
	if r.failOps["position"] {
		return 0, 0, ErrInjected
	}
	return r.x, r.y, nil
}

func (r *Recorder) ScreenSize() (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height, nil
}

func (r *Recorder) Close() error { return nil }

var _ input.Injector = (*Recorder)(nil)
