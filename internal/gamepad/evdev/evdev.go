//go:build linux

// Package evdev provides gamepads from Linux event devices (/dev/input/event*).
package evdev

import (
	"fmt"
	"log"
	"sort"
	"sync"

	evdev "github.com/gvalkov/golang-evdev"

	"joybind/internal/gamepad"
)

const deviceGlob = "/dev/input/event*"

// Provider enumerates joysticks and gamepads among the event devices
type Provider struct {
	mu    sync.Mutex
	paths []string
}

// NewProvider creates an evdev gamepad provider
func NewProvider() *Provider {
	return &Provider{}
}

// List re-enumerates the gamepads
func (p *Provider) List() ([]string, error) {
	devices, err := evdev.ListInputDevices(deviceGlob)
	if err != nil {
		return nil, err
	}

	type entry struct{ path, name string }
	var found []entry
	for _, dev := range devices {
		if isGamepad(dev) {
			found = append(found, entry{dev.Fn, dev.Name})
		}
		dev.File.Close()
	}
	sort.Slice(found, func(i, j int) bool { return found[i].path < found[j].path })

	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = p.paths[:0]
	names := make([]string, 0, len(found))
	for i, e := range found {
		p.paths = append(p.paths, e.path)
		if e.name == "" {
			e.name = fmt.Sprintf("Controller #%d", i)
		}
		names = append(names, e.name)
	}
	return names, nil
}

// Open opens the gamepad at index of the last enumeration
func (p *Provider) Open(index int) (gamepad.Device, error) {
	p.mu.Lock()
	if index < 0 || index >= len(p.paths) {
		p.mu.Unlock()
		return nil, fmt.Errorf("no gamepad at index %d", index)
	}
	path := p.paths[index]
	p.mu.Unlock()

	dev, err := evdev.Open(path)
	if err != nil {
		return nil, err
	}
	return newDevice(dev), nil
}

// isGamepad reports whether the device has absolute axes and joystick/gamepad buttons
func isGamepad(dev *evdev.InputDevice) bool {
	hasAbs, hasButtons := false, false
	for ct, codes := range dev.Capabilities {
		switch ct.Type {
		case evdev.EV_ABS:
			hasAbs = len(codes) > 0
		case evdev.EV_KEY:
			for _, c := range codes {
				if c.Code >= evdev.BTN_JOYSTICK && c.Code < evdev.BTN_DIGI {
					hasButtons = true
					break
				}
			}
		}
	}
	return hasAbs && hasButtons
}

// Device is an open event device whose state is kept current by a reader goroutine
type Device struct {
	dev *evdev.InputDevice

	buttonIndex map[uint16]int
	axisIndex   map[uint16]int
	ranges      []axisRange

	mu      sync.Mutex
	buttons []bool
	axes    []float64
	closed  bool
	readErr error
}

func newDevice(dev *evdev.InputDevice) *Device {
	var buttonCodes, axisCodes []int
	for ct, codes := range dev.Capabilities {
		for _, c := range codes {
			switch ct.Type {
			case evdev.EV_KEY:
				buttonCodes = append(buttonCodes, c.Code)
			case evdev.EV_ABS:
				axisCodes = append(axisCodes, c.Code)
			}
		}
	}
	sort.Ints(buttonCodes)
	sort.Ints(axisCodes)

	d := &Device{
		dev:         dev,
		buttonIndex: make(map[uint16]int, len(buttonCodes)),
		axisIndex:   make(map[uint16]int, len(axisCodes)),
		ranges:      make([]axisRange, len(axisCodes)),
		buttons:     make([]bool, len(buttonCodes)),
		axes:        make([]float64, len(axisCodes)),
	}
	for i, code := range buttonCodes {
		d.buttonIndex[uint16(code)] = i
	}
	fd := int(dev.File.Fd())
	for i, code := range axisCodes {
		d.axisIndex[uint16(code)] = i
		r, err := readAxisRange(fd, code)
		if err != nil {
			log.Printf("Controller: Failed to read range of axis %d: %v", code, err)
		}
		d.ranges[i] = r
		d.axes[i] = r.normalize(r.value)
	}

	go d.readLoop()
	return d
}

func (d *Device) readLoop() {
	for {
		events, err := d.dev.Read()
		if err != nil {
			d.mu.Lock()
			if !d.closed {
				d.readErr = err
			}
			d.mu.Unlock()
			return
		}

		d.mu.Lock()
		for _, ev := range events {
			switch ev.Type {
			case evdev.EV_KEY:
				if i, ok := d.buttonIndex[ev.Code]; ok {
					d.buttons[i] = ev.Value != 0
				}
			case evdev.EV_ABS:
				if i, ok := d.axisIndex[ev.Code]; ok {
					d.axes[i] = d.ranges[i].normalize(ev.Value)
				}
			}
		}
		d.mu.Unlock()
	}
}

// Name returns the device name
func (d *Device) Name() string {
	return d.dev.Name
}

// Refresh reports a read failure; the state itself is updated by the reader goroutine
func (d *Device) Refresh() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readErr
}

// Valid reports whether the device is open and readable
func (d *Device) Valid() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.closed && d.readErr == nil
}

// Buttons returns a copy of the button state
func (d *Device) Buttons() []bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]bool(nil), d.buttons...)
}

// Axes returns a copy of the normalised axis samples
func (d *Device) Axes() []float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]float64(nil), d.axes...)
}

// Close closes the event device, which also ends the reader goroutine
func (d *Device) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()
	return d.dev.File.Close()
}

var (
	_ gamepad.Provider = (*Provider)(nil)
	_ gamepad.Device   = (*Device)(nil)
)
