// Package dispatch maps button presses to their configured bindings and runs
// each one on its own goroutine.
package dispatch

import (
	"errors"
	"log"
	"sync"

	"joybind/internal/config"
	"joybind/internal/input"
	"joybind/internal/sequence"
)

// KeyPresser presses a single key.
type KeyPresser interface {
	PressKey(key string) error
}

// SequenceRunner runs a step list.
type SequenceRunner interface {
	Run(steps []config.Step) error
}

// Resolver dispatches bindings from the current configuration snapshot.
type Resolver struct {
	snapshot func() *config.Config
	keys     KeyPresser
	runner   SequenceRunner

	mu       sync.Mutex
	onStatus func(text string)

	wg sync.WaitGroup
}

// NewResolver creates a resolver reading bindings from snapshot.
func NewResolver(snapshot func() *config.Config, keys KeyPresser, runner SequenceRunner) *Resolver {
	return &Resolver{
		snapshot: snapshot,
		keys:     keys,
		runner:   runner,
	}
}

// SetOnStatus sets the callback receiving a description of each dispatched binding.
func (r *Resolver) SetOnStatus(fn func(text string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onStatus = fn
}

// OnButtonPress looks up the binding of button and runs it asynchronously.
// It never blocks the caller; unbound buttons are ignored.
func (r *Resolver) OnButtonPress(button int) {
	b, ok := r.snapshot().Lookup(button)
	if !ok {
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("Dispatch: Recovered from panic running BTN %d: %v", button, rec)
			}
		}()
		r.execute(button, b)
	}()
}

// Wait blocks until every dispatched binding has finished.
func (r *Resolver) Wait() {
	r.wg.Wait()
}

func (r *Resolver) execute(button int, b config.Binding) {
	switch b.Type {
	case config.BindKeyboard:
		if err := r.keys.PressKey(b.Key); err != nil && !errors.Is(err, input.ErrFailsafe) {
			log.Printf("Dispatch: BTN %d: %v", button, err)
		}
	case config.BindSequence, config.BindMouseCombo:
		if err := r.runner.Run(b.SequenceSteps()); err != nil {
			if errors.Is(err, sequence.ErrAborted) {
				log.Printf("Dispatch: BTN %d sequence aborted by failsafe", button)
			} else {
				log.Printf("Dispatch: BTN %d: %v", button, err)
			}
		}
	default:
		log.Printf("Dispatch: BTN %d has unknown binding type %q", button, b.Type)
		return
	}

	r.mu.Lock()
	fn := r.onStatus
	r.mu.Unlock()
	if fn != nil {
		fn(b.Describe(button))
	}
}
