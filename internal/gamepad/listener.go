package gamepad

import (
	"fmt"
	"log"
	"sync"
	"time"
)

const (
	// PollRateHz is the fixed polling frequency
	PollRateHz = 60

	// stopTimeout bounds how long Stop waits for the loop to exit
	stopTimeout = 2 * time.Second
)

// Callbacks receive the listener's output. All of them run on the polling goroutine
// and must not block.
type Callbacks struct {
	// OnButtonPress fires once per physical press
	OnButtonPress func(button int)

	// OnButtonRelease fires once per release (optional)
	OnButtonRelease func(button int)

	// OnAxesUpdate receives every axis sample each cycle (optional)
	OnAxesUpdate func(axes []float64)

	// OnStop runs on the polling goroutine right before it exits, on Stop and on disconnection
	OnStop func()

	// OnDisconnect is called after the loop exits because the device went away (optional)
	OnDisconnect func(err error)
}

// Listener owns one open gamepad and polls it on a background goroutine.
type Listener struct {
	provider  Provider
	callbacks Callbacks

	mu          sync.Mutex
	deviceIndex int
	running     bool
	device      Device
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// NewListener creates an idle listener
func NewListener(provider Provider, callbacks Callbacks) *Listener {
	return &Listener{
		provider:  provider,
		callbacks: callbacks,
	}
}

// SetDeviceIndex selects which enumerated gamepad Start opens
func (l *Listener) SetDeviceIndex(index int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deviceIndex = index
}

// DeviceIndex returns the selected gamepad index
func (l *Listener) DeviceIndex() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.deviceIndex
}

// DeviceNames re-enumerates the connected gamepads. It refuses while running
// because re-enumeration can invalidate the open handle.
func (l *Listener) DeviceNames() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return nil, ErrListenerRunning
	}
	return l.provider.List()
}

// ButtonCount returns the number of buttons of the selected gamepad, or 0 if it
// cannot be determined.
func (l *Listener) ButtonCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running && l.device != nil {
		return len(l.device.Buttons())
	}
	names, err := l.provider.List()
	if err != nil || l.deviceIndex < 0 || l.deviceIndex >= len(names) {
		return 0
	}
	dev, err := l.provider.Open(l.deviceIndex)
	if err != nil {
		return 0
	}
	defer dev.Close()
	if err := dev.Refresh(); err != nil {
		return 0
	}
	return len(dev.Buttons())
}

// IsRunning reports whether the polling loop is active
func (l *Listener) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Start opens the selected gamepad and begins polling. It is a no-op when already running.
func (l *Listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return nil
	}

	names, err := l.provider.List()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoDeviceFound, err)
	}
	if len(names) == 0 {
		return ErrNoDeviceFound
	}
	if l.deviceIndex < 0 || l.deviceIndex >= len(names) {
		return fmt.Errorf("%w: gamepad %d not found (%d connected)", ErrDeviceIndexOutOfRange, l.deviceIndex, len(names))
	}

	dev, err := l.provider.Open(l.deviceIndex)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceInit, err)
	}

	l.device = dev
	l.running = true
	l.stopCh = make(chan struct{})
	l.doneCh = make(chan struct{})

	log.Printf("Controller: Listening on %q (index %d)", dev.Name(), l.deviceIndex)
	go l.pollLoop(dev, l.stopCh, l.doneCh)
	return nil
}

// Stop signals the loop to exit and waits for it. It reports whether the loop
// finished within stopTimeout. Idempotent.
func (l *Listener) Stop() bool {
	l.mu.Lock()
	if l.running {
		l.running = false
		close(l.stopCh)
	}
	l.mu.Unlock()

	if !l.Wait(stopTimeout) {
		log.Printf("Controller: Timed out waiting for polling loop to stop")
		return false
	}
	return true
}

// Wait blocks until the most recently started polling loop has exited, giving up
// after timeout. It returns true at once if no loop was ever started.
func (l *Listener) Wait(timeout time.Duration) bool {
	l.mu.Lock()
	done := l.doneCh
	l.mu.Unlock()
	if done == nil {
		return true
	}

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (l *Listener) pollLoop(dev Device, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Second / PollRateHz)
	defer ticker.Stop()

	var detector EdgeDetector
	var lost error

loop:
	for {
		if err := l.cycle(dev, &detector); err != nil {
			lost = err
			break
		}

		select {
		case <-stop:
			break loop
		case <-ticker.C:
		}
	}

	l.finish(dev, stop, lost)
}

// cycle runs one polling iteration. Panics from callbacks are logged and the loop continues.
func (l *Listener) cycle(dev Device, detector *EdgeDetector) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Controller: Recovered from panic in polling cycle: %v", r)
		}
	}()

	if err := dev.Refresh(); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceDisconnected, err)
	}
	if !dev.Valid() {
		return ErrDeviceDisconnected
	}

	detector.Update(dev.Buttons(), l.callbacks.OnButtonPress, l.callbacks.OnButtonRelease)

	if l.callbacks.OnAxesUpdate != nil {
		l.callbacks.OnAxesUpdate(dev.Axes())
	}
	return nil
}

// finish runs the mandatory cleanup on the polling goroutine and releases the handle.
func (l *Listener) finish(dev Device, stop <-chan struct{}, lost error) {
	if l.callbacks.OnStop != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Controller: Recovered from panic in stop hook: %v", r)
				}
			}()
			l.callbacks.OnStop()
		}()
	}

	if err := dev.Close(); err != nil {
		log.Printf("Controller: Failed to close device: %v", err)
	}

	l.mu.Lock()
	if l.stopCh == stop {
		l.running = false
		l.device = nil
	}
	l.mu.Unlock()

	if lost != nil {
		log.Printf("Controller: %v", lost)
		if l.callbacks.OnDisconnect != nil {
			l.callbacks.OnDisconnect(lost)
		}
	}
}
