package gamepad

import (
	"reflect"
	"testing"
)

// TestEdgeDetectorReportsEachPressOnce tests press and release edges over a state trace
func TestEdgeDetectorReportsEachPressOnce(t *testing.T) {
	var d EdgeDetector
	var presses, releases []int
	onPress := func(b int) { presses = append(presses, b) }
	onRelease := func(b int) { releases = append(releases, b) }

	for _, state := range []bool{false, false, true, true, false, true} {
		d.Update([]bool{false, state}, onPress, onRelease)
	}

	if !reflect.DeepEqual(presses, []int{1, 1}) {
		t.Errorf("Expected two presses of button 1, got %v", presses)
	}
	if !reflect.DeepEqual(releases, []int{1}) {
		t.Errorf("Expected one release of button 1, got %v", releases)
	}
}

// TestEdgeDetectorFirstSample tests that buttons held on the first sample count as pressed
func TestEdgeDetectorFirstSample(t *testing.T) {
	var d EdgeDetector
	var presses []int
	d.Update([]bool{true, false, true}, func(b int) { presses = append(presses, b) }, nil)

	if !reflect.DeepEqual(presses, []int{0, 2}) {
		t.Errorf("Expected presses of buttons 0 and 2 in order, got %v", presses)
	}
}

// TestEdgeDetectorGrowingButtonCount tests that extra buttons are picked up
func TestEdgeDetectorGrowingButtonCount(t *testing.T) {
	var d EdgeDetector
	var presses []int
	onPress := func(b int) { presses = append(presses, b) }

	d.Update([]bool{true}, onPress, nil)
	d.Update([]bool{true, true}, onPress, nil)
	d.Update([]bool{true, true}, onPress, nil)

	if !reflect.DeepEqual(presses, []int{0, 1}) {
		t.Errorf("Expected presses [0 1], got %v", presses)
	}
}
