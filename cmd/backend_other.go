//go:build !linux

package main

import (
	"fmt"

	"joybind/internal/config"
	"joybind/internal/input"
	"joybind/internal/input/robot"
)

// newInjector creates the injector backend named in the settings
func newInjector(backend string, _ config.Settings) (input.Injector, error) {
	switch backend {
	case "", "robotgo":
		return robot.NewInjector(), nil
	case "uinput":
		return nil, fmt.Errorf("%w: uinput backend requires Linux", input.ErrUnsupportedPlatform)
	default:
		return nil, fmt.Errorf("unknown input backend %q", backend)
	}
}
