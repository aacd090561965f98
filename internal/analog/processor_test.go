package analog

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"joybind/internal/config"
	"joybind/internal/input"
	"joybind/internal/input/inputtest"
)

// recordingOutput records processor output as strings
type recordingOutput struct {
	ops    []string
	failUp bool
}

func (r *recordingOutput) KeyDown(key string) error {
	r.ops = append(r.ops, "down "+key)
	return nil
}

func (r *recordingOutput) KeyUp(key string) error {
	if r.failUp {
		r.ops = append(r.ops, "failed up "+key)
		return errors.New("release failed")
	}
	r.ops = append(r.ops, "up "+key)
	return nil
}

func (r *recordingOutput) MoveBy(dx, dy int) error {
	r.ops = append(r.ops, fmt.Sprintf("move %d,%d", dx, dy))
	return nil
}

func (r *recordingOutput) Scroll(clicks int) error {
	r.ops = append(r.ops, fmt.Sprintf("scroll %d", clicks))
	return nil
}

func (r *recordingOutput) ScrollHorizontal(clicks int) error {
	r.ops = append(r.ops, fmt.Sprintf("hscroll %d", clicks))
	return nil
}

func (r *recordingOutput) count(op string) int {
	n := 0
	for _, o := range r.ops {
		if o == op {
			n++
		}
	}
	return n
}

// mouseProfile drives mouse x from stick 0 at the given sensitivity, no deadzone
func mouseProfile(sensitivity float64) config.AnalogProfile {
	var p config.AnalogProfile
	p.Enabled = true
	p.Sticks[0] = config.StickConfig{
		AxisX: 0,
		AxisY: 1,
		Right: config.DirectionBinding{Type: config.DirMouseX, Sensitivity: sensitivity},
		Left:  config.DirectionBinding{Type: config.DirMouseX, Sensitivity: sensitivity},
	}
	p.Sticks[1] = config.StickConfig{AxisX: 2, AxisY: 3}
	return p
}

// keyProfile holds "w" while stick 0 points up
func keyProfile(enabled bool) config.AnalogProfile {
	var p config.AnalogProfile
	p.Enabled = enabled
	p.Sticks[0] = config.StickConfig{
		AxisX:    0,
		AxisY:    1,
		Deadzone: 0.2,
		Up:       config.DirectionBinding{Type: config.DirKey, Key: "w"},
	}
	p.Sticks[1] = config.StickConfig{AxisX: 2, AxisY: 3}
	return p
}

// TestProcessAccumulatesFractions tests that sub-pixel motion is carried between cycles
func TestProcessAccumulatesFractions(t *testing.T) {
	out := &recordingOutput{}
	p := NewProcessor(out, 60)
	profile := mouseProfile(18) // 0.3 px per cycle at full deflection

	axes := []float64{1, 0, 0, 0}
	for cycle := 1; cycle <= 3; cycle++ {
		p.Process(axes, profile)
		if len(out.ops) != 0 {
			t.Fatalf("Expected no output on cycle %d, got %v", cycle, out.ops)
		}
	}

	p.Process(axes, profile)
	if !reflect.DeepEqual(out.ops, []string{"move 1,0"}) {
		t.Fatalf("Expected a single 1px move on cycle 4, got %v", out.ops)
	}

	accX, _, _, _ := p.Accumulators()
	if accX <= 0 || accX >= 1 {
		t.Errorf("Expected a fractional remainder in (0, 1), got %v", accX)
	}
}

// TestProcessTotalMotion checks that the emitted motion matches the integrated deflection
func TestProcessTotalMotion(t *testing.T) {
	out := &recordingOutput{}
	p := NewProcessor(out, 60)
	profile := mouseProfile(600) // 10 px per cycle at full deflection

	for i := 0; i < 6; i++ {
		p.Process([]float64{-0.5, 0, 0, 0}, profile)
	}
	if got := out.count("move -5,0"); got != 6 {
		t.Errorf("Expected 6 moves of -5px, got %v", out.ops)
	}
}

// TestProcessNegativeTruncation checks that negative remainders truncate toward zero
func TestProcessNegativeTruncation(t *testing.T) {
	out := &recordingOutput{}
	p := NewProcessor(out, 60)
	profile := mouseProfile(30) // 0.5 px per cycle

	p.Process([]float64{-1, 0, 0, 0}, profile)
	if len(out.ops) != 0 {
		t.Fatalf("Expected no move for -0.5px, got %v", out.ops)
	}
	p.Process([]float64{-1, 0, 0, 0}, profile)
	if !reflect.DeepEqual(out.ops, []string{"move -1,0"}) {
		t.Errorf("Expected move -1,0, got %v", out.ops)
	}
}

// TestProcessScrollDirection checks that pushing up scrolls up
func TestProcessScrollDirection(t *testing.T) {
	out := &recordingOutput{}
	p := NewProcessor(out, 60)

	var profile config.AnalogProfile
	profile.Enabled = true
	profile.Sticks[0] = config.StickConfig{AxisX: 2, AxisY: 3}
	profile.Sticks[1] = config.StickConfig{
		AxisX: 0,
		AxisY: 1,
		Up:    config.DirectionBinding{Type: config.DirScrollV, Sensitivity: 120},
		Down:  config.DirectionBinding{Type: config.DirScrollV, Sensitivity: 120},
		Right: config.DirectionBinding{Type: config.DirScrollH, Sensitivity: 120},
	}

	p.Process([]float64{0, -1, 0, 0}, profile)
	if !reflect.DeepEqual(out.ops, []string{"scroll 2"}) {
		t.Errorf("Expected scroll 2 for stick up, got %v", out.ops)
	}

	out.ops = nil
	p.Process([]float64{1, 0, 0, 0}, profile)
	if !reflect.DeepEqual(out.ops, []string{"hscroll 2"}) {
		t.Errorf("Expected hscroll 2 for stick right, got %v", out.ops)
	}
}

// TestProcessHeldKey tests that a key is pressed once and released once
func TestProcessHeldKey(t *testing.T) {
	out := &recordingOutput{}
	p := NewProcessor(out, 60)
	profile := keyProfile(true)

	for i := 0; i < 5; i++ {
		p.Process([]float64{0, -0.9, 0, 0}, profile)
	}
	if !reflect.DeepEqual(out.ops, []string{"down w"}) {
		t.Fatalf("Expected a single key down, got %v", out.ops)
	}
	if !reflect.DeepEqual(p.Held(), []string{"w"}) {
		t.Errorf("Expected w to be held, got %v", p.Held())
	}

	// Back inside the deadzone
	for i := 0; i < 3; i++ {
		p.Process([]float64{0, -0.1, 0, 0}, profile)
	}
	if !reflect.DeepEqual(out.ops, []string{"down w", "up w"}) {
		t.Errorf("Expected down then up, got %v", out.ops)
	}
	if len(p.Held()) != 0 {
		t.Errorf("Expected no held keys, got %v", p.Held())
	}
}

// TestProcessKeysWhenDisabled checks that key directions work with continuous output off
func TestProcessKeysWhenDisabled(t *testing.T) {
	out := &recordingOutput{}
	p := NewProcessor(out, 60)

	p.Process([]float64{0, -1, 0, 0}, keyProfile(false))
	if !reflect.DeepEqual(out.ops, []string{"down w"}) {
		t.Errorf("Expected key down with analog disabled, got %v", out.ops)
	}
}

// TestProcessDisableResetsAccumulators tests that disabling drops fractional motion
func TestProcessDisableResetsAccumulators(t *testing.T) {
	out := &recordingOutput{}
	p := NewProcessor(out, 60)
	profile := mouseProfile(18)

	p.Process([]float64{1, 0, 0, 0}, profile)
	p.Process([]float64{1, 0, 0, 0}, profile)

	profile.Enabled = false
	p.Process([]float64{1, 0, 0, 0}, profile)
	if x, y, v, h := p.Accumulators(); x != 0 || y != 0 || v != 0 || h != 0 {
		t.Fatalf("Expected zero accumulators, got %v %v %v %v", x, y, v, h)
	}

	// Re-enabling starts from zero: three more cycles stay below one pixel
	profile.Enabled = true
	for i := 0; i < 3; i++ {
		p.Process([]float64{1, 0, 0, 0}, profile)
	}
	if len(out.ops) != 0 {
		t.Errorf("Expected no motion after re-enabling, got %v", out.ops)
	}
}

// TestProcessSkipsMissingAxes tests that a stick with out-of-range axes is ignored
func TestProcessSkipsMissingAxes(t *testing.T) {
	out := &recordingOutput{}
	p := NewProcessor(out, 60)

	var profile config.AnalogProfile
	profile.Enabled = true
	profile.Sticks[0] = config.StickConfig{
		AxisX: 0,
		AxisY: 1,
		Up:    config.DirectionBinding{Type: config.DirKey, Key: "w"},
	}
	profile.Sticks[1] = config.StickConfig{
		AxisX: 5,
		AxisY: 6,
		Right: config.DirectionBinding{Type: config.DirMouseX, Sensitivity: 6000},
		Left:  config.DirectionBinding{Type: config.DirKey, Key: "a"},
	}

	p.Process([]float64{0, -1}, profile)
	if !reflect.DeepEqual(out.ops, []string{"down w"}) {
		t.Errorf("Expected only the in-range stick to act, got %v", out.ops)
	}
}

// TestRelease tests that stopping lifts every held key exactly once
func TestRelease(t *testing.T) {
	out := &recordingOutput{}
	p := NewProcessor(out, 60)

	var profile config.AnalogProfile
	profile.Sticks[0] = config.StickConfig{
		AxisX: 0,
		AxisY: 1,
		Up:    config.DirectionBinding{Type: config.DirKey, Key: "w"},
		Right: config.DirectionBinding{Type: config.DirKey, Key: "d"},
	}
	profile.Sticks[1] = config.StickConfig{AxisX: 2, AxisY: 3}

	p.Process([]float64{1, -1, 0, 0}, profile)
	out.ops = nil

	p.Release()
	p.Release()
	if !reflect.DeepEqual(out.ops, []string{"up d", "up w"}) {
		t.Errorf("Expected each held key released once, got %v", out.ops)
	}
	if len(p.Held()) != 0 {
		t.Errorf("Expected no held keys after release, got %v", p.Held())
	}
}

// TestProcessRetriesFailedRelease tests that a key whose release fails stays held
// and is released on the next cycle
func TestProcessRetriesFailedRelease(t *testing.T) {
	out := &recordingOutput{}
	p := NewProcessor(out, 60)
	profile := keyProfile(false)

	p.Process([]float64{0, -1, 0, 0}, profile)
	out.failUp = true
	p.Process([]float64{0, 0, 0, 0}, profile)
	if !reflect.DeepEqual(p.Held(), []string{"w"}) {
		t.Fatalf("Expected w to stay held after a failed release, got %v", p.Held())
	}

	out.failUp = false
	p.Process([]float64{0, 0, 0, 0}, profile)
	want := []string{"down w", "failed up w", "up w"}
	if !reflect.DeepEqual(out.ops, want) {
		t.Errorf("Expected %v, got %v", want, out.ops)
	}
	if len(p.Held()) != 0 {
		t.Errorf("Expected no held keys, got %v", p.Held())
	}
}

// TestReleaseKeepsFailedKeys tests that Release keeps keys it could not lift
func TestReleaseKeepsFailedKeys(t *testing.T) {
	out := &recordingOutput{}
	p := NewProcessor(out, 60)

	p.Process([]float64{0, -1, 0, 0}, keyProfile(false))
	out.failUp = true
	p.Release()
	if !reflect.DeepEqual(p.Held(), []string{"w"}) {
		t.Fatalf("Expected w to stay held, got %v", p.Held())
	}

	out.failUp = false
	p.Release()
	if len(p.Held()) != 0 {
		t.Errorf("Expected no held keys, got %v", p.Held())
	}
	if out.count("up w") != 1 {
		t.Errorf("Expected w released once, got %v", out.ops)
	}
}

// TestReleaseWithCursorInCorner tests that stick keys are lifted even when the
// cursor has reached a screen corner with the corner failsafe armed
func TestReleaseWithCursorInCorner(t *testing.T) {
	rec := inputtest.NewRecorder(500, 500)
	actions := input.NewActions(rec)
	actions.SetCornerFailsafe(true)
	p := NewProcessor(actions, 60)
	profile := keyProfile(false)

	p.Process([]float64{0, -1, 0, 0}, profile)
	rec.SetCursor(0, 0)
	p.Process([]float64{0, 0, 0, 0}, profile)
	p.Release()

	want := []string{"down w", "up w"}
	if got := rec.Ops(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if len(p.Held()) != 0 {
		t.Errorf("Expected no held keys, got %v", p.Held())
	}
}
