//go:build !linux

// Package evdev provides gamepads from Linux event devices. On other
// platforms the provider reports ErrUnsupportedPlatform.
package evdev

import "joybind/internal/gamepad"

// Provider is a stub on non-Linux platforms
type Provider struct{}

// NewProvider creates a stub provider
func NewProvider() *Provider {
	return &Provider{}
}

// List always fails with ErrUnsupportedPlatform
func (p *Provider) List() ([]string, error) {
	return nil, gamepad.ErrUnsupportedPlatform
}

// Open always fails with ErrUnsupportedPlatform
func (p *Provider) Open(index int) (gamepad.Device, error) {
	return nil, gamepad.ErrUnsupportedPlatform
}
