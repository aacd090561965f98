package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"sync"
	"testing"
)

const legacyPreset = `{
  "binds": {
    "0": {"type": "keyboard", "key": " Return "},
    "1": {"type": "mouse_combo", "x": 500, "y": 300},
    "2": {"type": "sequence", "steps": [
      {"action": "scroll_up"},
      {"action": "delay"},
      {"action": "key", "key": "Key.esc"},
      {"action": "save_mouse"},
      {"action": "restore_mouse"}
    ]},
    "3": {"type": "keyboard"},
    "4": {"type": "bogus"},
    "x": {"type": "keyboard", "key": "a"},
    "-1": {"type": "keyboard", "key": "a"},
    "07": {"type": "keyboard", "key": "F5"}
  }
}`

// TestParseLegacyPreset tests normalisation of older preset files
func TestParseLegacyPreset(t *testing.T) {
	cfg, err := Parse([]byte(legacyPreset))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := cfg.SortedButtons(); !reflect.DeepEqual(got, []int{0, 1, 2, 7}) {
		t.Fatalf("Expected buttons [0 1 2 7], got %v", got)
	}

	b, _ := cfg.Lookup(0)
	if b.Key != "enter" {
		t.Errorf("Expected key 'enter', got '%s'", b.Key)
	}
	if b, _ := cfg.Lookup(7); b.Key != "f5" {
		t.Errorf("Expected key 'f5', got '%s'", b.Key)
	}

	combo, _ := cfg.Lookup(1)
	want := []Step{MoveMouse(500, 300, true), Click(StepClickLeft)}
	if !reflect.DeepEqual(combo.SequenceSteps(), want) {
		t.Errorf("Expected %v, got %v", want, combo.SequenceSteps())
	}

	seq, _ := cfg.Lookup(2)
	if len(seq.Steps) != 5 {
		t.Fatalf("Expected 5 steps, got %d", len(seq.Steps))
	}
	if n := seq.Steps[0].ClickCount(); n != DefaultScrollClicks {
		t.Errorf("Expected default clicks %d, got %d", DefaultScrollClicks, n)
	}
	if seq.Steps[0].Clicks == nil {
		t.Error("Expected the clicks default to be filled in")
	}
	if seq.Steps[1].Ms == nil || *seq.Steps[1].Ms != DefaultDelayMs {
		t.Errorf("Expected default delay %d", DefaultDelayMs)
	}
	if seq.Steps[2].Key != "esc" {
		t.Errorf("Expected key 'esc', got '%s'", seq.Steps[2].Key)
	}

	if !reflect.DeepEqual(cfg.Analog, DefaultAnalogProfile()) {
		t.Errorf("Expected the default analog profile, got %+v", cfg.Analog)
	}
}

// TestParseAnalogClamp tests deadzone clamping and direction normalisation
func TestParseAnalogClamp(t *testing.T) {
	cfg, err := Parse([]byte(`{"binds": {}, "analog": {"enabled": true, "sticks": [
		{"axis_x": 0, "axis_y": 1, "deadzone": 1.5, "up": {"type": "KEY", "key": "W"}},
		{"axis_x": 3, "axis_y": 4, "deadzone": -0.2}
	]}}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !cfg.Analog.Enabled {
		t.Error("Expected analog to be enabled")
	}
	if dz := cfg.Analog.Sticks[0].Deadzone; dz != 0.99 {
		t.Errorf("Expected deadzone 0.99, got %v", dz)
	}
	if dz := cfg.Analog.Sticks[1].Deadzone; dz != 0 {
		t.Errorf("Expected deadzone 0, got %v", dz)
	}
	up := cfg.Analog.Sticks[0].Up
	if up.Type != DirKey || up.Key != "w" {
		t.Errorf("Expected key direction 'w', got %+v", up)
	}
	if cfg.Analog.Sticks[0].Down.Type != DirNone {
		t.Errorf("Expected empty direction to become none, got %q", cfg.Analog.Sticks[0].Down.Type)
	}
}

// TestParseInvalidJSON tests that malformed documents are rejected
func TestParseInvalidJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"binds": [`)); err == nil {
		t.Error("Expected an error for malformed JSON")
	}
}

// TestDescribe tests the status labels of each binding type
func TestDescribe(t *testing.T) {
	tests := []struct {
		b    Binding
		want string
	}{
		{KeyBinding("Enter"), "BTN 3 -> enter"},
		{SequenceBinding(KeyStep("a")), "BTN 3 -> sequence (1 step)"},
		{SequenceBinding(KeyStep("a"), Delay(10)), "BTN 3 -> sequence (2 steps)"},
		{MouseComboBinding(10, 20), "BTN 3 -> mouse (10, 20)"},
	}
	for _, tt := range tests {
		if got := tt.b.Describe(3); got != tt.want {
			t.Errorf("Expected '%s', got '%s'", tt.want, got)
		}
	}
}

// TestPresetPath tests preset name sanitising
func TestPresetPath(t *testing.T) {
	path, err := PresetPath("/tmp/presets", ` My:Game*? `)
	if err != nil {
		t.Fatalf("PresetPath failed: %v", err)
	}
	if want := filepath.Join("/tmp/presets", "MyGame.json"); path != want {
		t.Errorf("Expected %s, got %s", want, path)
	}
	if PresetName(path) != "MyGame" {
		t.Errorf("Expected name MyGame, got %s", PresetName(path))
	}
	if _, err := PresetPath("/tmp/presets", `<>|`); err == nil {
		t.Error("Expected an error for an empty sanitised name")
	}
}

// TestLoadInitialPresetCreatesDefault tests first-run preset creation
func TestLoadInitialPresetCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManagerAt(dir)
	if err != nil {
		t.Fatalf("NewManagerAt failed: %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := m.LoadInitialPreset(); err != nil {
		t.Fatalf("LoadInitialPreset failed: %v", err)
	}

	want := filepath.Join(dir, "presets", "default.json")
	if m.CurrentPresetPath() != want {
		t.Errorf("Expected active preset %s, got %s", want, m.CurrentPresetPath())
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("Expected default preset on disk: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	if err != nil {
		t.Fatalf("Expected settings.json to be written: %v", err)
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("Invalid settings.json: %v", err)
	}
	if s.LastPreset != want {
		t.Errorf("Expected last_preset %s, got %s", want, s.LastPreset)
	}
}

// TestLoadInitialPresetOrder tests the last-preset and alphabetical fallbacks
func TestLoadInitialPresetOrder(t *testing.T) {
	dir := t.TempDir()
	presets := filepath.Join(dir, "presets")
	for _, name := range []string{"racing", "Arcade", "browser"} {
		path, _ := PresetPath(presets, name)
		if err := SavePreset(path, NewConfig()); err != nil {
			t.Fatalf("SavePreset failed: %v", err)
		}
	}

	m, _ := NewManagerAt(dir)
	if err := m.LoadInitialPreset(); err != nil {
		t.Fatalf("LoadInitialPreset failed: %v", err)
	}
	if got := PresetName(m.CurrentPresetPath()); got != "Arcade" {
		t.Fatalf("Expected first preset Arcade, got %s", got)
	}

	if err := m.ActivatePreset(filepath.Join(presets, "racing.json")); err != nil {
		t.Fatalf("ActivatePreset failed: %v", err)
	}

	// A fresh manager remembers the last preset
	m2, _ := NewManagerAt(dir)
	if err := m2.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := m2.LoadInitialPreset(); err != nil {
		t.Fatalf("LoadInitialPreset failed: %v", err)
	}
	if got := PresetName(m2.CurrentPresetPath()); got != "racing" {
		t.Errorf("Expected last preset racing, got %s", got)
	}
}

// TestActivatePresetErrors tests missing and corrupt preset files
func TestActivatePresetErrors(t *testing.T) {
	dir := t.TempDir()
	m, _ := NewManagerAt(dir)

	err := m.ActivatePreset(filepath.Join(dir, "presets", "missing.json"))
	if !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("Expected ErrPresetNotFound, got %v", err)
	}

	if err := m.SetBinding(0, KeyBinding("a")); err != nil {
		t.Fatalf("SetBinding failed: %v", err)
	}

	corrupt := filepath.Join(dir, "presets", "broken.json")
	os.MkdirAll(filepath.Dir(corrupt), 0755)
	if err := os.WriteFile(corrupt, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := m.ActivatePreset(corrupt); err != nil {
		t.Fatalf("Expected a corrupt preset to load as empty, got %v", err)
	}
	if n := len(m.Snapshot().Binds); n != 0 {
		t.Errorf("Expected an empty preset, got %d bindings", n)
	}
}

// TestSetBindingCopyOnWrite tests that bindings are replaced and snapshots never change
func TestSetBindingCopyOnWrite(t *testing.T) {
	m, _ := NewManagerAt(t.TempDir())

	changes := 0
	m.RegisterChangeCallback(func() { changes++ })

	if err := m.SetBinding(4, SequenceBinding(MoveMouse(1, 2, true), Click(StepClickLeft))); err != nil {
		t.Fatalf("SetBinding failed: %v", err)
	}
	before := m.Snapshot()

	if err := m.SetBinding(4, KeyBinding("Space")); err != nil {
		t.Fatalf("SetBinding failed: %v", err)
	}
	after := m.Snapshot()

	b, _ := after.Lookup(4)
	if b.Type != BindKeyboard || b.Key != "space" || b.Steps != nil {
		t.Errorf("Expected a plain keyboard binding, got %+v", b)
	}
	old, _ := before.Lookup(4)
	if old.Type != BindSequence || len(old.Steps) != 2 {
		t.Errorf("Expected the earlier snapshot to be unchanged, got %+v", old)
	}

	if err := m.SetBinding(5, Binding{Type: "keyboard"}); !errors.Is(err, ErrInvalidBinding) {
		t.Errorf("Expected ErrInvalidBinding, got %v", err)
	}
	if err := m.SetBinding(-1, KeyBinding("a")); !errors.Is(err, ErrInvalidButton) {
		t.Errorf("Expected ErrInvalidButton, got %v", err)
	}

	m.RemoveBinding(4)
	m.RemoveBinding(4)
	if _, ok := m.Snapshot().Lookup(4); ok {
		t.Error("Expected binding 4 to be removed")
	}
	if changes != 3 {
		t.Errorf("Expected 3 change notifications, got %d", changes)
	}
}

// TestConcurrentEdits tests that concurrent edits on different buttons are all kept
func TestConcurrentEdits(t *testing.T) {
	m, _ := NewManagerAt(t.TempDir())
	m.RegisterChangeCallback(runtime.Gosched)

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(button int) {
			defer wg.Done()
			if err := m.SetBinding(button, KeyBinding("a")); err != nil {
				t.Errorf("SetBinding %d failed: %v", button, err)
			}
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		p := DefaultAnalogProfile()
		p.Enabled = true
		m.SetAnalog(p)
	}()
	wg.Wait()

	cfg := m.Snapshot()
	if len(cfg.Binds) != n {
		t.Errorf("Expected %d bindings, got %d", n, len(cfg.Binds))
	}
	if !cfg.Analog.Enabled {
		t.Error("Expected the analog edit to be kept")
	}
}

// TestSaveCurrentPreset tests that the active bindings survive a save and reload
func TestSaveCurrentPreset(t *testing.T) {
	dir := t.TempDir()
	m, _ := NewManagerAt(dir)
	if err := m.SaveCurrentPreset(); err == nil {
		t.Error("Expected an error without an active preset")
	}

	path, err := m.CreatePreset("work")
	if err != nil {
		t.Fatalf("CreatePreset failed: %v", err)
	}
	if _, err := m.CreatePreset("work"); err == nil {
		t.Error("Expected an error creating a duplicate preset")
	}
	if err := m.ActivatePreset(path); err != nil {
		t.Fatalf("ActivatePreset failed: %v", err)
	}

	m.SetBinding(2, SequenceBinding(ScrollDown(5), KeyStep("f5")))
	analog := DefaultAnalogProfile()
	analog.Enabled = true
	m.SetAnalog(analog)
	if err := m.SaveCurrentPreset(); err != nil {
		t.Fatalf("SaveCurrentPreset failed: %v", err)
	}

	loaded, err := LoadPreset(path)
	if err != nil {
		t.Fatalf("LoadPreset failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, m.Snapshot()) {
		t.Errorf("Expected %+v, got %+v", m.Snapshot(), loaded)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "presets", "*.tmp"))
	if len(matches) != 0 {
		t.Errorf("Expected no temp files left behind, got %v", matches)
	}
}

// TestUpdateSettings tests that settings are persisted and copied
func TestUpdateSettings(t *testing.T) {
	dir := t.TempDir()
	m, _ := NewManagerAt(dir)

	err := m.UpdateSettings(func(s *Settings) {
		s.DeviceIndex = 2
		s.PresetHotkeys = map[string]string{"BTN4+BTN5": "racing"}
	})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}

	s := m.Settings()
	s.PresetHotkeys["BTN0"] = "other"
	if _, ok := m.Settings().PresetHotkeys["BTN0"]; ok {
		t.Error("Expected Settings to return a copy")
	}

	m2, _ := NewManagerAt(dir)
	if err := m2.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got := m2.Settings()
	if got.DeviceIndex != 2 || got.PresetHotkeys["BTN4+BTN5"] != "racing" {
		t.Errorf("Expected persisted settings, got %+v", got)
	}
	if got.EmergencyStop != "BTN6+BTN7" || !got.FailsafeCorner {
		t.Errorf("Expected defaults to be kept, got %+v", got)
	}
}
