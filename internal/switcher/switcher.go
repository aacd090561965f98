// Package switcher switches the active preset.
package switcher

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"joybind/internal/config"
)

// Switcher coordinates preset switching
type Switcher struct {
	mu        sync.Mutex
	configMgr *config.Manager

	// Callbacks for UI notifications
	onSwitch func(presetName string)
	onError  func(error)
}

// New creates a new Switcher instance
func New(configMgr *config.Manager) *Switcher {
	return &Switcher{configMgr: configMgr}
}

// SetOnSwitch sets the callback for switch events
func (s *Switcher) SetOnSwitch(callback func(presetName string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSwitch = callback
}

// SetOnError sets the callback for error events
func (s *Switcher) SetOnError(callback func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = callback
}

// ListPresets returns the names of the available presets
func (s *Switcher) ListPresets() ([]string, error) {
	paths, err := s.configMgr.ListPresets()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = config.PresetName(p)
	}
	return names, nil
}

// SwitchToPreset loads the named preset (case-insensitive) and makes it active.
// The new bindings take effect on the next polling cycle.
func (s *Switcher) SwitchToPreset(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.findPreset(name)
	if err == nil {
		err = s.configMgr.ActivatePreset(path)
	}
	if err != nil {
		log.Printf("Switcher: Failed to switch to preset %q: %v", name, err)
		if s.onError != nil {
			s.onError(err)
		}
		return err
	}

	current := config.PresetName(path)
	log.Printf("Switcher: Active preset is now %q", current)
	if s.onSwitch != nil {
		s.onSwitch(current)
	}
	return nil
}

func (s *Switcher) findPreset(name string) (string, error) {
	paths, err := s.configMgr.ListPresets()
	if err != nil {
		return "", err
	}
	for _, p := range paths {
		if strings.EqualFold(config.PresetName(p), strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s", config.ErrPresetNotFound, name)
}

// GetCurrentPreset returns the active preset name
func (s *Switcher) GetCurrentPreset() string {
	path := s.configMgr.CurrentPresetPath()
	if path == "" {
		return ""
	}
	return config.PresetName(path)
}
