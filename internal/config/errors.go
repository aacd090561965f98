package config

import "errors"

var (
	// ErrPresetNotFound is returned when a named preset file does not exist
	ErrPresetNotFound = errors.New("preset not found")

	// ErrInvalidBinding is returned when a binding cannot be dispatched
	ErrInvalidBinding = errors.New("invalid binding")

	// ErrInvalidButton is returned for negative button indices
	ErrInvalidButton = errors.New("invalid button index")
)
