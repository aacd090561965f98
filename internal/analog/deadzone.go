// Package analog turns raw stick samples into pointer motion, scroll and held keys.
package analog

import "math"

// minTravel bounds the rescale divisor so a deadzone close to 1 cannot blow up the output.
const minTravel = 1e-6

// ApplyDeadzone zeroes values inside the deadzone and rescales the remaining
// travel [dz, 1] onto [0, 1], keeping the sign of value.
func ApplyDeadzone(value, dz float64) float64 {
	mag := math.Abs(value)
	if mag < dz {
		return 0
	}
	out := (mag - dz) / math.Max(1-dz, minTravel)
	if out > 1 {
		out = 1
	}
	return math.Copysign(out, value)
}
