package gamepad

// EdgeDetector reports each physical press exactly once by comparing the
// current button state with the previous cycle.
type EdgeDetector struct {
	prev []bool
}

// Update compares states with the previous cycle. onPress fires for every
// released-to-pressed transition and onRelease (optional) for the reverse.
func (d *EdgeDetector) Update(states []bool, onPress, onRelease func(button int)) {
	if len(d.prev) < len(states) {
		grown := make([]bool, len(states))
		copy(grown, d.prev)
		d.prev = grown
	}

	// An edge is consumed even if its callback panics
	for btn, current := range states {
		previous := d.prev[btn]
		d.prev[btn] = current
		if current && !previous && onPress != nil {
			onPress(btn)
		}
		if !current && previous && onRelease != nil {
			onRelease(btn)
		}
	}
}
