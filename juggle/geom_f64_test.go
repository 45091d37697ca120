package juggle

import (
	"math"
	"testing"
)

const (
	eps = 0.00001
)

func TestEuclideanDistance(t *testing.T) {
	p1 := Point{X: 341, Y: 264}
	p2 := Point{X: 421, Y: 427}
	correnctAnswer := 181.57367
	answer := euclideanDistance(p1, p2)
	if math.Abs(answer-correnctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correnctAnswer)
	}
}

func TestSquaredPixelDistance(t *testing.T) {
	p1 := PixelCoord{X: 3, Y: -4}
	p2 := PixelCoord{X: 0, Y: 0}
	if d := squaredPixelDistance(p1, p2); d != 25 {
		t.Errorf("Wrong answer: %d, correct answer: %d", d, 25)
	}
}
