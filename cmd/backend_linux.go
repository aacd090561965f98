//go:build linux

package main

import (
	"fmt"

	"joybind/internal/config"
	"joybind/internal/input"
	"joybind/internal/input/robot"
	"joybind/internal/input/uinputdev"
)

// newInjector creates the injector backend named in the settings
func newInjector(backend string, s config.Settings) (input.Injector, error) {
	switch backend {
	case "", "robotgo":
		return robot.NewInjector(), nil
	case "uinput":
		inj, err := uinputdev.NewInjector(s.ScreenWidth, s.ScreenHeight)
		if err != nil {
			return nil, err
		}
		return inj, nil
	default:
		return nil, fmt.Errorf("unknown input backend %q", backend)
	}
}
