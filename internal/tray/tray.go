// Package tray provides system tray functionality using getlantern/systray.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"joybind/internal/tray/icon"
)

// MenuItem represents a menu item
type MenuItem struct {
	ID       int
	Title    string
	Disabled bool
	Callback func()
	item     *systray.MenuItem
}

// Tray manages the system tray icon and menu
type Tray struct {
	mu      sync.Mutex
	items   []*MenuItem
	tooltip string
	onReady func()
	onExit  func()
	readyCh chan struct{}
	quitCh  chan struct{}
}

// New creates a new system tray
func New(tooltip string) *Tray {
	t := &Tray{
		items:   make([]*MenuItem, 0),
		tooltip: tooltip,
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}

	t.onReady = func() {
		systray.SetTitle("joybind")
		systray.SetTooltip(tooltip)
		systray.SetIcon(icon.Current())
	}

	t.onExit = func() {
		close(t.quitCh)
	}

	return t
}

// AddMenuItem adds a menu item to the tray
func (t *Tray) AddMenuItem(title string, callback func()) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := len(t.items)
	t.items = append(t.items, &MenuItem{
		ID:       id,
		Title:    title,
		Callback: callback,
	})
	return id
}

// AddLabel adds a disabled item used to display text
func (t *Tray) AddLabel(title string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := len(t.items)
	t.items = append(t.items, &MenuItem{
		ID:       id,
		Title:    title,
		Disabled: true,
	})
	return id
}

// AddSeparator adds a separator to the menu
func (t *Tray) AddSeparator() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, nil) // nil indicates separator
}

func (t *Tray) menuItem(id int) *systray.MenuItem {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id >= 0 && id < len(t.items) && t.items[id] != nil {
		return t.items[id].item
	}
	return nil
}

// SetItemChecked sets the checked state of a menu item
func (t *Tray) SetItemChecked(id int, checked bool) {
	if item := t.menuItem(id); item != nil {
		if checked {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

// SetItemTitle changes the text of a menu item
func (t *Tray) SetItemTitle(id int, title string) {
	if item := t.menuItem(id); item != nil {
		item.SetTitle(title)
	}
}

// SetStatus shows status text in the tooltip
func (t *Tray) SetStatus(text string) {
	select {
	case <-t.readyCh:
		systray.SetTooltip(t.tooltip + "\n" + text)
	default:
	}
}

// Ready is closed once the menu has been built
func (t *Tray) Ready() <-chan struct{} {
	return t.readyCh
}

// Run starts the tray event loop (blocks)
func (t *Tray) Run() {
	systray.Run(t.setupMenu, t.onExit)
}

// setupMenu is called when systray is ready
func (t *Tray) setupMenu() {
	t.onReady()
	defer close(t.readyCh)

	t.mu.Lock()
	items := append([]*MenuItem(nil), t.items...)
	t.mu.Unlock()

	for _, menuItem := range items {
		if menuItem == nil {
			systray.AddSeparator()
			continue
		}

		item := systray.AddMenuItem(menuItem.Title, "")
		t.mu.Lock()
		menuItem.item = item
		t.mu.Unlock()
		if menuItem.Disabled {
			item.Disable()
		}

		// Handle clicks in goroutine
		if menuItem.Callback != nil {
			go func(mi *MenuItem, item *systray.MenuItem) {
				for {
					select {
					case <-item.ClickedCh:
						mi.Callback()
					case <-t.quitCh:
						return
					}
				}
			}(menuItem, item)
		}
	}
}

// Stop stops the tray
func (t *Tray) Stop() {
	systray.Quit()
}
