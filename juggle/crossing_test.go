package juggle

import (
	"math"
	"testing"
)

func TestEvaluateCatch(t *testing.T) {
	rule := CrossingRule{CatchMultiplier: 2, CooldownFrames: 15}
	track := TrackedObject{ID: 1, LastY: 40, Y: 60}

	crossing := Evaluate(track, 50, 0, rule)
	if crossing.Kind != CrossingCatch {
		t.Errorf("Expected catch, got %s", crossing.Kind)
	}
	if crossing.Delta != 2 {
		t.Errorf("Expected count increment 2, got %d", crossing.Delta)
	}
	if crossing.Cooldown != 15 {
		t.Errorf("Expected cooldown 15, got %d", crossing.Cooldown)
	}

	// Same crossing on the next frame while cooldown is active
	crossing = Evaluate(track, 50, crossing.Cooldown-1, rule)
	if crossing.Kind != CrossingNone || crossing.Delta != 0 {
		t.Errorf("Crossing under cooldown should be ignored, got %+v", crossing)
	}
	if crossing.Cooldown != 14 {
		t.Errorf("Cooldown should be left as is, got %d", crossing.Cooldown)
	}
}

func TestEvaluateTouchingLine(t *testing.T) {
	rule := CrossingRule{CatchMultiplier: 1, CooldownFrames: 15}
	cases := []struct {
		lastY    float64
		currentY float64
		expected CrossingKind
	}{
		{40, 50, CrossingCatch},
		{50, 60, CrossingNone},
		{60, 50, CrossingThrow},
		{50, 40, CrossingNone},
		{40, 45, CrossingNone},
		{60, 55, CrossingNone},
		{50, 50, CrossingNone},
	}
	for _, c := range cases {
		crossing := Evaluate(TrackedObject{LastY: c.lastY, Y: c.currentY}, 50, 0, rule)
		if crossing.Kind != c.expected {
			t.Errorf("Move %f -> %f: expected %s, got %s", c.lastY, c.currentY, c.expected, crossing.Kind)
		}
	}
}

func TestEvaluateThrow(t *testing.T) {
	rule := CrossingRule{CatchMultiplier: 3, CooldownFrames: 15}
	crossing := Evaluate(TrackedObject{LastY: 70, Y: 30}, 50, 0, rule)
	if crossing.Kind != CrossingThrow {
		t.Errorf("Expected throw, got %s", crossing.Kind)
	}
	if crossing.Delta != 0 {
		t.Errorf("Throw should not change count, got delta %d", crossing.Delta)
	}
	if crossing.Cooldown != 15 {
		t.Errorf("Throw should start cooldown, got %d", crossing.Cooldown)
	}
}

func TestLineY(t *testing.T) {
	if y := LineY(50, 480); math.Abs(y-240) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", y, 240)
	}
	if y := LineY(25, 200); math.Abs(y-50) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", y, 50)
	}
}
