// Package autostart registers joybind to start on login.
package autostart

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"text/template"
)

const macLaunchAgentPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>com.joybind.agent</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{.ExecutablePath}}</string>
        <string>-tray</string>
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <false/>
</dict>
</plist>`

const xdgDesktopEntry = `[Desktop Entry]
Type=Application
Name=joybind
Comment=Gamepad to keyboard and mouse mapper
Exec="{{.ExecutablePath}}" -tray
Terminal=false
X-GNOME-Autostart-enabled=true
`

// Enable enables auto-start on login
func Enable() error {
	path, tmpl, err := entryFor(runtime.GOOS)
	if err != nil {
		return err
	}
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	return writeEntry(path, tmpl, execPath)
}

// Disable disables auto-start on login
func Disable() error {
	path, _, err := entryFor(runtime.GOOS)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsEnabled checks if auto-start is enabled
func IsEnabled() bool {
	path, _, err := entryFor(runtime.GOOS)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// entryFor returns the autostart file path and template for an OS
func entryFor(goos string) (string, string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", err
	}
	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "LaunchAgents", "com.joybind.agent.plist"), macLaunchAgentPlist, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		dir := os.Getenv("XDG_CONFIG_HOME")
		if dir == "" {
			dir = filepath.Join(home, ".config")
		}
		return filepath.Join(dir, "autostart", "joybind.desktop"), xdgDesktopEntry, nil
	default:
		return "", "", fmt.Errorf("unsupported platform: %s", goos)
	}
}

func writeEntry(path, text, execPath string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmpl, err := template.New("autostart").Parse(text)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, struct{ ExecutablePath string }{execPath})
}
