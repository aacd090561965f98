// Package sequence executes step lists against the input primitives.
package sequence

import (
	"errors"
	"fmt"
	"log"
	"time"

	"joybind/internal/config"
	"joybind/internal/input"
)

// ErrAborted is returned by Run when the failsafe stopped the sequence.
var ErrAborted = errors.New("sequence aborted by failsafe")

// Primitives is the subset of *input.Actions the interpreter drives.
type Primitives interface {
	Position() (x, y int, err error)
	MoveTo(x, y int) error
	Click(button input.MouseButton) error
	DoubleClick() error
	Scroll(clicks int) error
	PressKey(key string) error
	Epoch() uint64
}

// Interpreter runs sequences. Each Run call keeps its own saved cursor
// position, so concurrent runs do not interfere.
type Interpreter struct {
	actions Primitives

	// Sleep implements delay steps; tests replace it.
	Sleep func(time.Duration)
}

// New creates an interpreter over actions.
func New(actions Primitives) *Interpreter {
	return &Interpreter{
		actions: actions,
		Sleep:   time.Sleep,
	}
}

type point struct{ x, y int }

// run holds the state of one sequence execution.
type run struct {
	in    *Interpreter
	epoch uint64
	saved *point
}

// Run executes steps in order. A failing step is logged and skipped. A failsafe
// abort (corner or emergency stop) ends the sequence without restoring the
// cursor and returns ErrAborted. Otherwise, a position still saved after the
// last step is restored.
func (in *Interpreter) Run(steps []config.Step) error {
	r := &run{in: in, epoch: in.actions.Epoch()}

	for i, step := range steps {
		if in.actions.Epoch() != r.epoch {
			return ErrAborted
		}
		err := r.step(step)
		if err == nil {
			continue
		}
		if errors.Is(err, input.ErrFailsafe) {
			return ErrAborted
		}
		log.Printf("Sequence: Step %d (%s) failed: %v", i+1, step.Action, err)
	}

	if r.saved != nil {
		p := *r.saved
		r.saved = nil
		if err := in.actions.MoveTo(p.x, p.y); err != nil {
			if errors.Is(err, input.ErrFailsafe) {
				return ErrAborted
			}
			log.Printf("Sequence: Failed to restore cursor to (%d, %d): %v", p.x, p.y, err)
		}
	}
	return nil
}

func (r *run) save() error {
	x, y, err := r.in.actions.Position()
	if err != nil {
		return fmt.Errorf("save cursor: %w", err)
	}
	r.saved = &point{x, y}
	return nil
}

func (r *run) step(s config.Step) error {
	a := r.in.actions
	switch s.Action {
	case config.StepMoveMouse:
		if s.SaveRestore && r.saved == nil {
			if err := r.save(); err != nil {
				log.Printf("Sequence: Moving without restore point: %v", err)
			}
		}
		return a.MoveTo(s.X, s.Y)

	case config.StepSaveMouse:
		return r.save()

	case config.StepRestoreMouse:
		if r.saved == nil {
			return nil
		}
		p := *r.saved
		r.saved = nil
		return a.MoveTo(p.x, p.y)

	case config.StepClickLeft:
		return a.Click(input.ButtonLeft)
	case config.StepClickRight:
		return a.Click(input.ButtonRight)
	case config.StepClickMiddle:
		return a.Click(input.ButtonMiddle)
	case config.StepDoubleClick:
		return a.DoubleClick()

	case config.StepScrollUp:
		return a.Scroll(s.ClickCount())
	case config.StepScrollDown:
		return a.Scroll(-s.ClickCount())

	case config.StepKey:
		if s.Key == "" {
			return fmt.Errorf("key step without key")
		}
		return a.PressKey(s.Key)

	case config.StepDelay:
		r.in.Sleep(s.Duration())
		return nil

	default:
		log.Printf("Sequence: Ignoring unknown step %q", s.Action)
		return nil
	}
}
