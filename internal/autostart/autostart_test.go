package autostart

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestEntryForLinux tests the XDG autostart location
func TestEntryForLinux(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, tmpl, err := entryFor("linux")
	if err != nil {
		t.Fatalf("entryFor failed: %v", err)
	}
	if want := filepath.Join(dir, "autostart", "joybind.desktop"); path != want {
		t.Errorf("Expected %s, got %s", want, path)
	}

	if err := writeEntry(path, tmpl, "/opt/joybind/joybind"); err != nil {
		t.Fatalf("writeEntry failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected the entry on disk: %v", err)
	}
	if !strings.Contains(string(data), `Exec="/opt/joybind/joybind" -tray`) {
		t.Errorf("Unexpected desktop entry:\n%s", data)
	}
}

// TestEntryForDarwin tests the LaunchAgent location and template
func TestEntryForDarwin(t *testing.T) {
	path, tmpl, err := entryFor("darwin")
	if err != nil {
		t.Fatalf("entryFor failed: %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join("LaunchAgents", "com.joybind.agent.plist")) {
		t.Errorf("Unexpected plist path %s", path)
	}
	if !strings.Contains(tmpl, "<string>-tray</string>") {
		t.Error("Expected the agent to start in tray mode")
	}
}

// TestEntryForUnsupported tests that other platforms are rejected
func TestEntryForUnsupported(t *testing.T) {
	if _, _, err := entryFor("plan9"); err == nil {
		t.Error("Expected an error for an unsupported platform")
	}
}
