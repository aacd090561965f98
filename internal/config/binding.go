package config

import (
	"fmt"
	"strings"
	"time"

	"joybind/internal/input"
)

// Binding types as stored in preset files.
const (
	BindKeyboard   = "keyboard"
	BindSequence   = "sequence"
	BindMouseCombo = "mouse_combo" // legacy
)

// Step actions understood by the sequence interpreter.
const (
	StepMoveMouse    = "move_mouse"
	StepClickLeft    = "click_left"
	StepClickRight   = "click_right"
	StepClickMiddle  = "click_middle"
	StepDoubleClick  = "double_click"
	StepScrollUp     = "scroll_up"
	StepScrollDown   = "scroll_down"
	StepKey          = "key"
	StepDelay        = "delay"
	StepSaveMouse    = "save_mouse"    // legacy
	StepRestoreMouse = "restore_mouse" // legacy
)

const (
	DefaultScrollClicks = 3
	DefaultDelayMs      = 100
)

// Binding is the action mapped to one gamepad button.
type Binding struct {
	// Type is one of BindKeyboard, BindSequence or BindMouseCombo
	Type string `json:"type"`

	// Key is the key name for keyboard bindings (e.g. "enter", "f5")
	Key string `json:"key,omitempty"`

	// Steps is the ordered step list for sequence bindings
	Steps []Step `json:"steps,omitempty"`

	// X and Y are the click target of legacy mouse_combo bindings
	X int `json:"x,omitempty"`
	Y int `json:"y,omitempty"`
}

// Step is one element of a sequence. Only the fields relevant to Action are set.
type Step struct {
	Action      string `json:"action"`
	X           int    `json:"x,omitempty"`
	Y           int    `json:"y,omitempty"`
	SaveRestore bool   `json:"save_restore,omitempty"`
	Clicks      *int   `json:"clicks,omitempty"`
	Ms          *int   `json:"ms,omitempty"`
	Key         string `json:"key,omitempty"`
}

// KeyBinding returns a keyboard binding for key.
func KeyBinding(key string) Binding {
	return Binding{Type: BindKeyboard, Key: input.NormalizeKey(key)}
}

// SequenceBinding returns a sequence binding for steps.
func SequenceBinding(steps ...Step) Binding {
	return Binding{Type: BindSequence, Steps: steps}
}

// MouseComboBinding returns a legacy mouse_combo binding.
func MouseComboBinding(x, y int) Binding {
	return Binding{Type: BindMouseCombo, X: x, Y: y}
}

// SequenceSteps returns the steps the interpreter should run for b.
// A mouse_combo expands to its canonical two-step form.
func (b Binding) SequenceSteps() []Step {
	switch b.Type {
	case BindSequence:
		return b.Steps
	case BindMouseCombo:
		return []Step{
			{Action: StepMoveMouse, X: b.X, Y: b.Y, SaveRestore: true},
			{Action: StepClickLeft},
		}
	}
	return nil
}

// Validate reports whether b can be dispatched.
func (b Binding) Validate() error {
	switch b.Type {
	case BindKeyboard:
		if b.Key == "" {
			return fmt.Errorf("%w: keyboard binding without key", ErrInvalidBinding)
		}
	case BindSequence, BindMouseCombo:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidBinding, b.Type)
	}
	return nil
}

// Normalize returns a copy of b with key names canonicalised and step defaults filled in.
func (b Binding) Normalize() Binding {
	out := b
	out.Type = strings.ToLower(strings.TrimSpace(b.Type))
	if out.Type == BindKeyboard {
		out.Key = input.NormalizeKey(b.Key)
	}
	if len(b.Steps) > 0 {
		out.Steps = make([]Step, len(b.Steps))
		for i, s := range b.Steps {
			out.Steps[i] = s.Normalize()
		}
	}
	return out
}

// Describe returns the human-readable label shown after the binding fires.
func (b Binding) Describe(button int) string {
	switch b.Type {
	case BindKeyboard:
		return fmt.Sprintf("BTN %d -> %s", button, b.Key)
	case BindSequence:
		n := len(b.Steps)
		unit := "steps"
		if n == 1 {
			unit = "step"
		}
		return fmt.Sprintf("BTN %d -> sequence (%d %s)", button, n, unit)
	case BindMouseCombo:
		return fmt.Sprintf("BTN %d -> mouse (%d, %d)", button, b.X, b.Y)
	}
	return fmt.Sprintf("BTN %d", button)
}

// Normalize fills step defaults and canonicalises key names.
func (s Step) Normalize() Step {
	out := s
	out.Action = strings.ToLower(strings.TrimSpace(s.Action))
	switch out.Action {
	case StepScrollUp, StepScrollDown:
		if out.Clicks == nil {
			n := DefaultScrollClicks
			out.Clicks = &n
		}
	case StepDelay:
		if out.Ms == nil {
			n := DefaultDelayMs
			out.Ms = &n
		}
	case StepKey:
		out.Key = input.NormalizeKey(s.Key)
	}
	return out
}

// ClickCount returns the scroll amount of a scroll step.
func (s Step) ClickCount() int {
	if s.Clicks == nil {
		return DefaultScrollClicks
	}
	return *s.Clicks
}

// Duration returns the pause of a delay step.
func (s Step) Duration() time.Duration {
	ms := DefaultDelayMs
	if s.Ms != nil {
		ms = *s.Ms
	}
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms) * time.Millisecond
}

// Convenience constructors used by tests and the default preset.

func MoveMouse(x, y int, saveRestore bool) Step {
	return Step{Action: StepMoveMouse, X: x, Y: y, SaveRestore: saveRestore}
}

func Click(action string) Step { return Step{Action: action} }

func ScrollUp(clicks int) Step { return Step{Action: StepScrollUp, Clicks: &clicks} }

func ScrollDown(clicks int) Step { return Step{Action: StepScrollDown, Clicks: &clicks} }

func KeyStep(key string) Step { return Step{Action: StepKey, Key: input.NormalizeKey(key)} }

func Delay(ms int) Step { return Step{Action: StepDelay, Ms: &ms} }

func SaveMouse() Step { return Step{Action: StepSaveMouse} }

func RestoreMouse() Step { return Step{Action: StepRestoreMouse} }
