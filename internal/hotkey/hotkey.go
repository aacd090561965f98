// Package hotkey matches gamepad button combos such as "BTN6+BTN7".
package hotkey

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
)

// Manager handles combo registration and matching
type Manager struct {
	mu           sync.RWMutex
	hotkeys      []*registeredHotkey
	currentState map[string]bool // buttons currently held
}

type registeredHotkey struct {
	parts    []string // e.g., ["BTN6", "BTN7"]
	original string
	callback func()
}

// NewManager creates a new hotkey manager
func NewManager() *Manager {
	return &Manager{
		currentState: make(map[string]bool),
	}
}

// ButtonName returns the combo token of a button index
func ButtonName(button int) string {
	return "BTN" + strconv.Itoa(button)
}

// Register registers a combo string (e.g. "BTN6+BTN7") and a callback.
// Tokens may also be bare button indices ("6+7").
func (m *Manager) Register(combo string, callback func()) (int, error) {
	if strings.TrimSpace(combo) == "" {
		return 0, nil
	}

	parts := strings.Split(strings.ToUpper(combo), "+")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if n, err := strconv.Atoi(p); err == nil {
			p = ButtonName(n)
		}
		if !strings.HasPrefix(p, "BTN") {
			return 0, fmt.Errorf("invalid combo %q: unknown token %q", combo, p)
		}
		if _, err := strconv.Atoi(strings.TrimPrefix(p, "BTN")); err != nil {
			return 0, fmt.Errorf("invalid combo %q: unknown token %q", combo, p)
		}
		parts[i] = p
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotkeys = append(m.hotkeys, &registeredHotkey{
		parts:    parts,
		original: combo,
		callback: callback,
	})

	return len(m.hotkeys) - 1, nil
}

// Clear removes all registered hotkeys
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotkeys = nil
}

// ButtonDown records a press; usable as a gamepad press callback
func (m *Manager) ButtonDown(button int) {
	m.UpdateState(ButtonName(button), true)
}

// ButtonUp records a release; usable as a gamepad release callback
func (m *Manager) ButtonUp(button int) {
	m.UpdateState(ButtonName(button), false)
}

// UpdateState updates the internal state of a button and checks for matches.
func (m *Manager) UpdateState(key string, isDown bool) {
	m.mu.Lock()
	key = strings.ToUpper(key)
	if isDown {
		m.currentState[key] = true
	} else {
		delete(m.currentState, key)
	}
	m.mu.Unlock()

	if isDown {
		m.checkMatches(key)
	}
}

// Reset forgets every held button
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentState = make(map[string]bool)
}

// checkMatches fires the combos completed by the button that just went down
func (m *Manager) checkMatches(pressed string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, hk := range m.hotkeys {
		match := true
		involved := false
		// All parts of the combo must be held
		for _, part := range hk.parts {
			if !m.currentState[part] {
				match = false
				break
			}
			if part == pressed {
				involved = true
			}
		}

		if match && involved {
			log.Printf("Hotkey: Triggered %s", hk.original)
			go hk.callback()
		}
	}
}
