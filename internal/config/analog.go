package config

import (
	"strings"

	"joybind/internal/input"
)

// Direction binding types.
const (
	DirNone    = "none"
	DirMouseX  = "mouse_x"
	DirMouseY  = "mouse_y"
	DirScrollV = "scroll_v"
	DirScrollH = "scroll_h"
	DirKey     = "key"
)

// DirectionBinding is what one stick direction drives.
type DirectionBinding struct {
	// Type is one of the Dir* constants; empty means none
	Type string `json:"type"`

	// Sensitivity is units per second at full deflection (continuous types)
	Sensitivity float64 `json:"sensitivity,omitempty"`

	// Key is held while the stick points this way (key type)
	Key string `json:"key,omitempty"`
}

// Continuous reports whether the binding produces pointer or scroll motion.
func (d DirectionBinding) Continuous() bool {
	switch d.Type {
	case DirMouseX, DirMouseY, DirScrollV, DirScrollH:
		return true
	}
	return false
}

// StickConfig maps one physical stick.
type StickConfig struct {
	AxisX    int     `json:"axis_x"`
	AxisY    int     `json:"axis_y"`
	Deadzone float64 `json:"deadzone"`

	Up    DirectionBinding `json:"up"`
	Down  DirectionBinding `json:"down"`
	Left  DirectionBinding `json:"left"`
	Right DirectionBinding `json:"right"`
}

// AnalogProfile holds both sticks. Enabled gates continuous output only;
// key directions are always active.
type AnalogProfile struct {
	Enabled bool           `json:"enabled"`
	Sticks  [2]StickConfig `json:"sticks"`
}

// DefaultAnalogProfile returns the profile used when a preset has none.
// Axis indices follow the evdev ordering (ABS_X, ABS_Y, ABS_Z, ABS_RX, ABS_RY, ...).
func DefaultAnalogProfile() AnalogProfile {
	return AnalogProfile{
		Enabled: false,
		Sticks: [2]StickConfig{
			{
				AxisX:    0,
				AxisY:    1,
				Deadzone: 0.15,
				Left:     DirectionBinding{Type: DirMouseX, Sensitivity: 900},
				Right:    DirectionBinding{Type: DirMouseX, Sensitivity: 900},
				Up:       DirectionBinding{Type: DirMouseY, Sensitivity: 900},
				Down:     DirectionBinding{Type: DirMouseY, Sensitivity: 900},
			},
			{
				AxisX:    3,
				AxisY:    4,
				Deadzone: 0.2,
				Left:     DirectionBinding{Type: DirScrollH, Sensitivity: 8},
				Right:    DirectionBinding{Type: DirScrollH, Sensitivity: 8},
				Up:       DirectionBinding{Type: DirScrollV, Sensitivity: 8},
				Down:     DirectionBinding{Type: DirScrollV, Sensitivity: 8},
			},
		},
	}
}

func (d DirectionBinding) normalize() DirectionBinding {
	out := d
	out.Type = strings.ToLower(strings.TrimSpace(d.Type))
	if out.Type == "" {
		out.Type = DirNone
	}
	if out.Type == DirKey {
		out.Key = input.NormalizeKey(d.Key)
	}
	return out
}

func (s StickConfig) normalize() StickConfig {
	out := s
	if out.Deadzone < 0 {
		out.Deadzone = 0
	}
	if out.Deadzone >= 1 {
		out.Deadzone = 0.99
	}
	out.Up = s.Up.normalize()
	out.Down = s.Down.normalize()
	out.Left = s.Left.normalize()
	out.Right = s.Right.normalize()
	return out
}

// Normalize clamps deadzones into [0,1) and canonicalises direction bindings.
func (p AnalogProfile) Normalize() AnalogProfile {
	out := p
	for i := range out.Sticks {
		out.Sticks[i] = p.Sticks[i].normalize()
	}
	return out
}
