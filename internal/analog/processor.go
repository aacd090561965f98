package analog

import (
	"log"
	"math"
	"sort"

	"joybind/internal/config"
)

// Output receives the operations produced by the processor.
// *input.Actions and *input.Queue both satisfy it.
type Output interface {
	KeyDown(key string) error
	KeyUp(key string) error
	MoveBy(dx, dy int) error
	Scroll(clicks int) error
	ScrollHorizontal(clicks int) error
}

// Processor converts per-cycle axis samples into output. It is not safe for
// concurrent use; it belongs to the polling goroutine.
type Processor struct {
	out  Output
	rate float64

	// fractional remainders carried between cycles
	accX, accY, accV, accH float64

	held map[string]bool
}

// NewProcessor creates a processor for a loop running at pollRateHz.
func NewProcessor(out Output, pollRateHz int) *Processor {
	if pollRateHz <= 0 {
		pollRateHz = 60
	}
	return &Processor{
		out:  out,
		rate: float64(pollRateHz),
		held: make(map[string]bool),
	}
}

// Process runs one cycle over the raw axis vector.
func (p *Processor) Process(axes []float64, profile config.AnalogProfile) {
	var dX, dY, dV, dH float64
	wanted := make(map[string]bool)

	for _, stick := range profile.Sticks {
		if stick.AxisX < 0 || stick.AxisX >= len(axes) || stick.AxisY < 0 || stick.AxisY >= len(axes) {
			continue
		}
		x := ApplyDeadzone(axes[stick.AxisX], stick.Deadzone)
		y := ApplyDeadzone(axes[stick.AxisY], stick.Deadzone)

		if profile.Enabled {
			if b, ok := continuousRole(stick.Right, stick.Left); ok {
				p.addDelta(b, x, &dX, &dY, &dV, &dH)
			}
			if b, ok := continuousRole(stick.Down, stick.Up); ok {
				p.addDelta(b, y, &dX, &dY, &dV, &dH)
			}
		}

		holdKey(wanted, stick.Up, -y)
		holdKey(wanted, stick.Down, y)
		holdKey(wanted, stick.Left, -x)
		holdKey(wanted, stick.Right, x)
	}

	p.reconcileKeys(wanted)

	if !profile.Enabled {
		p.resetAccumulators()
		return
	}

	var moveX, moveY, scrollV, scrollH int
	moveX, p.accX = integrate(p.accX, dX)
	moveY, p.accY = integrate(p.accY, dY)
	scrollV, p.accV = integrate(p.accV, dV)
	scrollH, p.accH = integrate(p.accH, dH)

	if moveX != 0 || moveY != 0 {
		if err := p.out.MoveBy(moveX, moveY); err != nil {
			log.Printf("Analog: %v", err)
		}
	}
	if scrollV != 0 {
		if err := p.out.Scroll(scrollV); err != nil {
			log.Printf("Analog: %v", err)
		}
	}
	if scrollH != 0 {
		if err := p.out.ScrollHorizontal(scrollH); err != nil {
			log.Printf("Analog: %v", err)
		}
	}
}

// Release lifts every held key and clears the accumulators. It must run when
// the polling loop stops. Keys whose release fails stay held so a later
// Process or Release retries them.
func (p *Processor) Release() {
	stuck := make(map[string]bool)
	for _, key := range sortedKeys(p.held) {
		if err := p.out.KeyUp(key); err != nil {
			log.Printf("Analog: %v", err)
			stuck[key] = true
		}
	}
	p.held = stuck
	p.resetAccumulators()
}

// Held returns the keys currently held by stick directions, sorted.
func (p *Processor) Held() []string {
	return sortedKeys(p.held)
}

// Accumulators returns the fractional remainders (x, y, vertical scroll, horizontal scroll).
func (p *Processor) Accumulators() (x, y, v, h float64) {
	return p.accX, p.accY, p.accV, p.accH
}

// continuousRole picks the one continuous binding of an axis, preferring the
// positive direction slot.
func continuousRole(positive, negative config.DirectionBinding) (config.DirectionBinding, bool) {
	if positive.Continuous() {
		return positive, true
	}
	if negative.Continuous() {
		return negative, true
	}
	return config.DirectionBinding{}, false
}

// addDelta adds value*sensitivity/rate to the accumulator the role targets.
// Pushing a stick up yields a positive (upward) scroll.
func (p *Processor) addDelta(b config.DirectionBinding, value float64, dX, dY, dV, dH *float64) {
	delta := value * b.Sensitivity / p.rate
	switch b.Type {
	case config.DirMouseX:
		*dX += delta
	case config.DirMouseY:
		*dY += delta
	case config.DirScrollV:
		*dV -= delta
	case config.DirScrollH:
		*dH += delta
	}
}

func holdKey(wanted map[string]bool, b config.DirectionBinding, value float64) {
	if b.Type == config.DirKey && b.Key != "" && value > 0 {
		wanted[b.Key] = true
	}
}

// reconcileKeys releases keys no longer wanted and presses newly wanted ones.
// A key whose release fails stays held and is released again next cycle.
func (p *Processor) reconcileKeys(wanted map[string]bool) {
	next := make(map[string]bool, len(wanted))
	for _, key := range sortedKeys(p.held) {
		if wanted[key] {
			next[key] = true
			continue
		}
		if err := p.out.KeyUp(key); err != nil {
			log.Printf("Analog: %v", err)
			next[key] = true
		}
	}
	for _, key := range sortedKeys(wanted) {
		if p.held[key] {
			continue
		}
		if err := p.out.KeyDown(key); err != nil {
			log.Printf("Analog: %v", err)
		}
		next[key] = true
	}
	p.held = next
}

func (p *Processor) resetAccumulators() {
	p.accX, p.accY, p.accV, p.accH = 0, 0, 0, 0
}

// integrate adds delta to acc and splits off the whole units.
func integrate(acc, delta float64) (int, float64) {
	acc += delta
	whole := math.Trunc(acc)
	return int(whole), acc - whole
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
