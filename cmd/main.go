// joybind - gamepad to keyboard and mouse mapper
// Turns gamepad buttons and sticks into key presses, mouse motion and scripted sequences
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"joybind/internal/analog"
	"joybind/internal/autostart"
	"joybind/internal/config"
	"joybind/internal/dispatch"
	"joybind/internal/gamepad"
	"joybind/internal/gamepad/evdev"
	"joybind/internal/hotkey"
	"joybind/internal/input"
	"joybind/internal/sequence"
	"joybind/internal/switcher"
	"joybind/internal/tray"
)

var (
	version     = "0.1.0"
	showVer     = flag.Bool("version", false, "Show version")
	listDevs    = flag.Bool("list", false, "List connected gamepads")
	listPresets = flag.Bool("presets", false, "List presets")
	showBinds   = flag.Bool("binds", false, "Print the bindings of the active preset")
	deviceIdx   = flag.Int("device", -1, "Gamepad index (overrides settings)")
	presetName  = flag.String("preset", "", "Preset to activate")
	backendName = flag.String("backend", "", "Input backend: robotgo or uinput (overrides settings)")
	useTray     = flag.Bool("tray", false, "Run with a system tray icon")
	autostartOn = flag.String("autostart", "", "Start on login: on or off")
)

// loopGrace is how long shutdown keeps waiting for a polling loop that missed
// the listener's own stop timeout, so its key releases still reach the backend.
const loopGrace = 10 * time.Second

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("joybind version %s\n", version)
		return
	}

	// Initialize config
	cfgMgr, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	if err := cfgMgr.Load(); err != nil {
		log.Printf("Warning: failed to load settings: %v", err)
	}

	// Handle --autostart flag
	if *autostartOn != "" {
		handleAutostart(cfgMgr, *autostartOn)
		return
	}

	// Handle --list flag
	if *listDevs {
		listDevices(cfgMgr)
		return
	}

	if err := cfgMgr.LoadInitialPreset(); err != nil {
		log.Printf("Warning: failed to load initial preset: %v", err)
	}

	sw := switcher.New(cfgMgr)

	// Handle --presets flag
	if *listPresets {
		printPresets(sw)
		return
	}

	// Handle --preset flag
	if *presetName != "" {
		if err := sw.SwitchToPreset(*presetName); err != nil {
			log.Fatalf("Failed to switch to preset %s: %v", *presetName, err)
		}
	}

	// Handle --binds flag
	if *showBinds {
		printBindings(cfgMgr, sw)
		return
	}

	runService(cfgMgr, sw)
}

func handleAutostart(cfgMgr *config.Manager, value string) {
	var enable bool
	switch strings.ToLower(value) {
	case "on", "true", "1":
		enable = true
	case "off", "false", "0":
		enable = false
	default:
		log.Fatalf("Invalid -autostart value %q (want on or off)", value)
	}

	if err := cfgMgr.UpdateSettings(func(s *config.Settings) { s.StartOnBoot = enable }); err != nil {
		log.Printf("Warning: failed to save settings: %v", err)
	}
	if err := applyAutostart(enable); err != nil {
		log.Fatalf("Failed to update autostart: %v", err)
	}
	fmt.Printf("Start on login: %v\n", enable)
}

func applyAutostart(enable bool) error {
	if enable == autostart.IsEnabled() {
		return nil
	}
	if enable {
		return autostart.Enable()
	}
	return autostart.Disable()
}

func listDevices(cfgMgr *config.Manager) {
	listener := gamepad.NewListener(evdev.NewProvider(), gamepad.Callbacks{})
	names, err := listener.DeviceNames()
	if err != nil {
		log.Fatalf("Failed to list gamepads: %v", err)
	}

	selected := cfgMgr.Settings().DeviceIndex
	fmt.Println("Connected Gamepads:")
	fmt.Println("-------------------")
	if len(names) == 0 {
		fmt.Println("(none)")
		return
	}
	for i, name := range names {
		marker := " "
		if i == selected {
			marker = "*"
		}
		listener.SetDeviceIndex(i)
		fmt.Printf("%s %d: %s (%d buttons)\n", marker, i, name, listener.ButtonCount())
	}
}

func printPresets(sw *switcher.Switcher) {
	names, err := sw.ListPresets()
	if err != nil {
		log.Fatalf("Failed to list presets: %v", err)
	}
	current := sw.GetCurrentPreset()
	for _, name := range names {
		if strings.EqualFold(name, current) {
			fmt.Printf("* %s\n", name)
		} else {
			fmt.Printf("  %s\n", name)
		}
	}
}

func printBindings(cfgMgr *config.Manager, sw *switcher.Switcher) {
	cfg := cfgMgr.Snapshot()
	fmt.Printf("Preset: %s\n", sw.GetCurrentPreset())
	for _, btn := range cfg.SortedButtons() {
		b, _ := cfg.Lookup(btn)
		fmt.Println(b.Describe(btn))
	}
	fmt.Printf("Analog: enabled=%v\n", cfg.Analog.Enabled)
	for i, stick := range cfg.Analog.Sticks {
		fmt.Printf("  Stick %d: axes (%d, %d), deadzone %.2f\n", i+1, stick.AxisX, stick.AxisY, stick.Deadzone)
	}
}

func runService(cfgMgr *config.Manager, sw *switcher.Switcher) {
	log.Println("joybind service starting...")

	settings := cfgMgr.Settings()
	if err := applyAutostart(settings.StartOnBoot); err != nil {
		log.Printf("Warning: failed to update autostart: %v", err)
	}

	backend := settings.Backend
	if *backendName != "" {
		backend = *backendName
	}
	injector, err := newInjector(backend, settings)
	if err != nil {
		log.Fatalf("Failed to create %s injector: %v", backend, err)
	}
	log.Printf("Using %s input backend", backend)

	actions := input.NewActions(injector)
	actions.SetCornerFailsafe(settings.FailsafeCorner)
	queue := input.NewQueue(actions, input.DefaultQueueSize)
	proc := analog.NewProcessor(queue, gamepad.PollRateHz)
	resolver := dispatch.NewResolver(cfgMgr.Snapshot, actions, sequence.New(actions))
	hkMgr := hotkey.NewManager()

	var t *tray.Tray
	statusID := -1
	toggleID := -1
	presetIDs := make(map[string]int)
	if *useTray {
		t = tray.New("joybind - gamepad mapper")
	}

	setStatus := func(text string) {
		if t == nil {
			log.Printf("Status: %s", text)
			return
		}
		t.SetItemTitle(statusID, text)
		t.SetStatus(text)
	}
	resolver.SetOnStatus(setStatus)

	// Disconnections end the headless service
	lost := make(chan error, 1)

	listener := gamepad.NewListener(evdev.NewProvider(), gamepad.Callbacks{
		OnButtonPress: func(button int) {
			hkMgr.ButtonDown(button)
			resolver.OnButtonPress(button)
		},
		OnButtonRelease: hkMgr.ButtonUp,
		OnAxesUpdate: func(axes []float64) {
			proc.Process(axes, cfgMgr.Snapshot().Analog)
		},
		OnStop: func() {
			proc.Release()
			hkMgr.Reset()
		},
		OnDisconnect: func(err error) {
			setStatus("Controller disconnected")
			if t != nil {
				t.SetItemTitle(toggleID, "Start")
			}
			select {
			case lost <- err:
			default:
			}
		},
	})
	index := settings.DeviceIndex
	if *deviceIdx >= 0 {
		index = *deviceIdx
	}
	listener.SetDeviceIndex(index)

	// Debouncer for preset hotkeys
	var lastHkTime time.Time
	var hkMux sync.Mutex
	debounce := func() bool {
		hkMux.Lock()
		defer hkMux.Unlock()
		if time.Since(lastHkTime) < 500*time.Millisecond {
			return false
		}
		lastHkTime = time.Now()
		return true
	}

	refreshShortcuts := func() {
		hkMgr.Clear()
		s := cfgMgr.Settings()

		if s.EmergencyStop != "" {
			_, err := hkMgr.Register(s.EmergencyStop, func() {
				log.Printf("Hotkey: Emergency stop")
				actions.Trip()
				setStatus("Emergency stop")
			})
			if err != nil {
				log.Printf("Warning: failed to register emergency stop: %v", err)
			} else {
				log.Printf("Registered emergency stop combo: %s", s.EmergencyStop)
			}
		}

		for combo, name := range s.PresetHotkeys {
			pName := name
			_, err := hkMgr.Register(combo, func() {
				if !debounce() {
					return
				}
				log.Printf("Hotkey: Switching to %s...", pName)
				if err := sw.SwitchToPreset(pName); err != nil {
					log.Printf("Switch error: %v", err)
				}
			})
			if err != nil {
				log.Printf("Warning: failed to register hotkey for preset %s: %v", pName, err)
			}
		}
		log.Printf("Shortcuts: Refreshed %d preset hotkeys", len(s.PresetHotkeys))
	}
	refreshShortcuts()

	markPreset := func(current string) {
		if t == nil {
			return
		}
		for name, id := range presetIDs {
			t.SetItemChecked(id, strings.EqualFold(name, current))
		}
	}
	sw.SetOnSwitch(func(name string) {
		setStatus("Preset: " + name)
		markPreset(name)
	})
	cfgMgr.RegisterChangeCallback(func() {
		log.Printf("Config: %d bindings active", len(cfgMgr.Snapshot().Binds))
	})
	sw.SetOnError(func(err error) {
		setStatus(fmt.Sprintf("Preset error: %v", err))
	})

	startListener := func() bool {
		if err := listener.Start(); err != nil {
			log.Printf("Failed to start controller: %v", err)
			setStatus(fmt.Sprintf("Error: %v", err))
			return false
		}
		setStatus(fmt.Sprintf("Listening (preset %s)", sw.GetCurrentPreset()))
		return true
	}

	shutdown := func() {
		actions.Trip()
		if !listener.Stop() && !listener.Wait(loopGrace) {
			log.Printf("Warning: controller loop still running after %v", loopGrace)
		}
		waitForDispatches(resolver, 2*time.Second)
		queue.Close()
		if err := injector.Close(); err != nil {
			log.Printf("Warning: failed to close injector: %v", err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if t == nil {
		if !startListener() {
			shutdown()
			os.Exit(1)
		}
		log.Println("joybind running. Press Ctrl+C to stop.")
		select {
		case <-sigCh:
			log.Println("Shutting down...")
		case err := <-lost:
			log.Printf("Controller lost: %v", err)
		}
		shutdown()
		return
	}

	statusID = t.AddLabel("Stopped")
	t.AddSeparator()

	toggleID = t.AddMenuItem("Stop", func() {
		if listener.IsRunning() {
			listener.Stop()
			t.SetItemTitle(toggleID, "Start")
			setStatus("Stopped")
			return
		}
		if startListener() {
			t.SetItemTitle(toggleID, "Stop")
		}
	})
	t.AddMenuItem("Emergency Stop", func() {
		actions.Trip()
		setStatus("Emergency stop")
	})

	t.AddSeparator()

	// Presets (the menu is built once at startup)
	names, err := sw.ListPresets()
	if err != nil {
		log.Printf("Warning: failed to list presets: %v", err)
	}
	for _, name := range names {
		pName := name
		presetIDs[pName] = t.AddMenuItem("Preset: "+pName, func() {
			if err := sw.SwitchToPreset(pName); err != nil {
				log.Printf("Switch error: %v", err)
			}
		})
	}

	t.AddSeparator()

	t.AddMenuItem("Quit", func() {
		t.Stop()
	})

	go func() {
		<-sigCh
		log.Println("Shutting down...")
		t.Stop()
	}()

	go func() {
		<-t.Ready()
		markPreset(sw.GetCurrentPreset())
		if !startListener() {
			t.SetItemTitle(toggleID, "Start")
		}
	}()

	log.Println("joybind running in the system tray.")
	t.Run()
	shutdown()
}

// waitForDispatches waits for running bindings, giving up after timeout
func waitForDispatches(resolver *dispatch.Resolver, timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		resolver.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		log.Printf("Warning: bindings still running after %v", timeout)
	}
}
