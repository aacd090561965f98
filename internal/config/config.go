// Package config provides bindings, analog profiles, presets and settings for joybind.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
)

// Config is one preset: the button bindings and the analog profile.
// A published *Config is never mutated; changes build a new one.
type Config struct {
	// Binds maps the button index (as a decimal string) to its binding
	Binds map[string]Binding `json:"binds"`

	// Analog configures both sticks
	Analog AnalogProfile `json:"analog"`
}

// NewConfig returns an empty preset with the default analog profile.
func NewConfig() *Config {
	return &Config{
		Binds:  make(map[string]Binding),
		Analog: DefaultAnalogProfile(),
	}
}

// Parse decodes a preset document and normalises legacy shapes.
func Parse(data []byte) (*Config, error) {
	var raw struct {
		Binds  map[string]Binding `json:"binds"`
		Analog *AnalogProfile     `json:"analog"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	cfg := NewConfig()
	for key, b := range raw.Binds {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			log.Printf("Config: Ignoring binding with invalid button key %q", key)
			continue
		}
		b = b.Normalize()
		if err := b.Validate(); err != nil {
			log.Printf("Config: Ignoring binding for button %d: %v", idx, err)
			continue
		}
		cfg.Binds[strconv.Itoa(idx)] = b
	}
	if raw.Analog != nil {
		cfg.Analog = raw.Analog.Normalize()
	}
	return cfg, nil
}

// Lookup returns the binding for a button index.
func (c *Config) Lookup(button int) (Binding, bool) {
	if c == nil {
		return Binding{}, false
	}
	b, ok := c.Binds[strconv.Itoa(button)]
	return b, ok
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := &Config{
		Binds:  make(map[string]Binding, len(c.Binds)),
		Analog: c.Analog,
	}
	for k, b := range c.Binds {
		if b.Steps != nil {
			b.Steps = append([]Step(nil), b.Steps...)
		}
		out.Binds[k] = b
	}
	return out
}

// SortedButtons returns the bound button indices in ascending order.
func (c *Config) SortedButtons() []int {
	buttons := make([]int, 0, len(c.Binds))
	for k := range c.Binds {
		if idx, err := strconv.Atoi(k); err == nil {
			buttons = append(buttons, idx)
		}
	}
	sort.Ints(buttons)
	return buttons
}

// Settings holds application-level preferences (settings.json).
type Settings struct {
	// PresetsDir is the folder holding preset files
	PresetsDir string `json:"presets_dir"`

	// LastPreset is the absolute path of the last loaded preset
	LastPreset string `json:"last_preset,omitempty"`

	// DeviceIndex selects the gamepad among the enumerated devices
	DeviceIndex int `json:"device_index"`

	// Backend selects the input injector: "robotgo" or "uinput"
	Backend string `json:"backend"`

	// EmergencyStop is the gamepad combo that aborts running sequences (e.g. "BTN6+BTN7")
	EmergencyStop string `json:"emergency_stop,omitempty"`

	// PresetHotkeys maps a gamepad combo to the preset it switches to
	PresetHotkeys map[string]string `json:"preset_hotkeys,omitempty"`

	// FailsafeCorner aborts a primitive when the cursor sits in a screen corner
	FailsafeCorner bool `json:"failsafe_corner"`

	// ScreenWidth and ScreenHeight are used by backends that cannot query the screen
	ScreenWidth  int `json:"screen_width,omitempty"`
	ScreenHeight int `json:"screen_height,omitempty"`

	// StartOnBoot registers joybind to start on login
	StartOnBoot bool `json:"start_on_boot"`
}

// DefaultSettings returns settings rooted at configDir.
func DefaultSettings(configDir string) Settings {
	return Settings{
		PresetsDir:     filepath.Join(configDir, "presets"),
		DeviceIndex:    0,
		Backend:        "robotgo",
		EmergencyStop:  "BTN6+BTN7",
		FailsafeCorner: true,
		ScreenWidth:    1920,
		ScreenHeight:   1080,
	}
}

// Manager handles settings, presets and the active configuration snapshot.
type Manager struct {
	mu           sync.Mutex
	editMu       sync.Mutex // serialises snapshot edits and preset activation
	settingsPath string
	settings     Settings
	presetPath   string
	current      atomic.Pointer[Config]
	onChanged    func()
}

// NewManager creates a manager rooted at the per-user config directory.
func NewManager() (*Manager, error) {
	dir, err := getConfigDir()
	if err != nil {
		return nil, err
	}
	return NewManagerAt(dir)
}

// NewManagerAt creates a manager rooted at dir.
func NewManagerAt(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	m := &Manager{
		settingsPath: filepath.Join(dir, "settings.json"),
		settings:     DefaultSettings(dir),
	}
	m.current.Store(NewConfig())
	return m, nil
}

// getConfigDir returns the per-OS configuration directory
func getConfigDir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", "joybind"), nil
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, "joybind"), nil
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "joybind"), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "joybind"), nil
	}
}

// Load reads settings.json from disk
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.settingsPath)
	if os.IsNotExist(err) {
		// No settings file, use defaults
		return nil
	}
	if err != nil {
		return err
	}

	settings := m.settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("settings %s: %w", m.settingsPath, err)
	}
	m.settings = settings
	return nil
}

// Save writes settings.json to disk atomically
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked()
}

func (m *Manager) saveLocked() error {
	data, err := json.MarshalIndent(m.settings, "", "  ")
	if err != nil {
		return err
	}
	log.Printf("Config: Saving settings to %s (%d bytes)", m.settingsPath, len(data))
	return writeFileAtomic(m.settingsPath, data)
}

// Settings returns a copy of the current settings
func (m *Manager) Settings() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.settings
	if s.PresetHotkeys != nil {
		s.PresetHotkeys = make(map[string]string, len(m.settings.PresetHotkeys))
		for k, v := range m.settings.PresetHotkeys {
			s.PresetHotkeys[k] = v
		}
	}
	return s
}

// UpdateSettings applies fn to the settings and persists them
func (m *Manager) UpdateSettings(fn func(*Settings)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.settings)
	return m.saveLocked()
}

// Snapshot returns the active configuration. Callers must not modify it.
func (m *Manager) Snapshot() *Config {
	return m.current.Load()
}

// Publish atomically replaces the active configuration
func (m *Manager) Publish(cfg *Config) {
	m.current.Store(cfg)
	m.mu.Lock()
	fn := m.onChanged
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// RegisterChangeCallback registers a function to be called when the active configuration changes.
// fn must not edit the configuration itself.
func (m *Manager) RegisterChangeCallback(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChanged = fn
}

// SetBinding replaces the binding of a button entirely
func (m *Manager) SetBinding(button int, b Binding) error {
	if button < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidButton, button)
	}
	b = b.Normalize()
	if err := b.Validate(); err != nil {
		return err
	}
	m.editMu.Lock()
	defer m.editMu.Unlock()
	next := m.Snapshot().Clone()
	next.Binds[strconv.Itoa(button)] = b
	m.Publish(next)
	return nil
}

// RemoveBinding deletes the binding of a button, if any
func (m *Manager) RemoveBinding(button int) {
	m.editMu.Lock()
	defer m.editMu.Unlock()
	cur := m.Snapshot()
	if _, ok := cur.Lookup(button); !ok {
		return
	}
	next := cur.Clone()
	delete(next.Binds, strconv.Itoa(button))
	m.Publish(next)
}

// SetAnalog replaces the analog profile
func (m *Manager) SetAnalog(p AnalogProfile) {
	m.editMu.Lock()
	defer m.editMu.Unlock()
	next := m.Snapshot().Clone()
	next.Analog = p.Normalize()
	m.Publish(next)
}

// CurrentPresetPath returns the file backing the active configuration
func (m *Manager) CurrentPresetPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presetPath
}

// ListPresets returns the preset files of the configured presets directory
func (m *Manager) ListPresets() ([]string, error) {
	return ListPresets(m.Settings().PresetsDir)
}

// ActivatePreset loads the preset at path, publishes it and remembers it as the last preset.
// A corrupt preset is replaced by an empty one with a warning.
func (m *Manager) ActivatePreset(path string) error {
	cfg, err := LoadPreset(path)
	if err != nil {
		if _, statErr := os.Stat(path); statErr != nil {
			return err
		}
		log.Printf("Config: Failed to load preset %s: %v. Using empty preset.", filepath.Base(path), err)
		cfg = NewConfig()
	}

	m.editMu.Lock()
	defer m.editMu.Unlock()

	m.mu.Lock()
	m.presetPath = path
	m.settings.LastPreset = path
	saveErr := m.saveLocked()
	m.mu.Unlock()
	if saveErr != nil {
		log.Printf("Config: Failed to save settings: %v", saveErr)
	}

	m.Publish(cfg)
	return nil
}

// LoadInitialPreset picks the startup preset: the last used one, else the first
// in the presets folder, else a newly created "default" preset.
func (m *Manager) LoadInitialPreset() error {
	s := m.Settings()
	if s.LastPreset != "" {
		if _, err := os.Stat(s.LastPreset); err == nil {
			m.mu.Lock()
			m.settings.PresetsDir = filepath.Dir(s.LastPreset)
			m.mu.Unlock()
			return m.ActivatePreset(s.LastPreset)
		}
	}

	presets, err := ListPresets(s.PresetsDir)
	if err != nil {
		log.Printf("Config: Failed to list presets in %s: %v", s.PresetsDir, err)
	}
	if len(presets) > 0 {
		return m.ActivatePreset(presets[0])
	}

	path, err := m.CreatePreset("default")
	if err != nil {
		return err
	}
	return m.ActivatePreset(path)
}

// CreatePreset writes a new empty preset with the given name and returns its path.
func (m *Manager) CreatePreset(name string) (string, error) {
	path, err := PresetPath(m.Settings().PresetsDir, name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("preset %q already exists", name)
	}
	if err := SavePreset(path, NewConfig()); err != nil {
		return "", err
	}
	return path, nil
}

// SaveCurrentPreset writes the active configuration back to its preset file
func (m *Manager) SaveCurrentPreset() error {
	path := m.CurrentPresetPath()
	if path == "" {
		return fmt.Errorf("no active preset")
	}
	return SavePreset(path, m.Snapshot())
}
