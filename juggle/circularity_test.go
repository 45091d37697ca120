package juggle

import (
	"math"
	"testing"
)

func diskPixels(cx, cy, radius, step int) []PixelCoord {
	pixels := make([]PixelCoord, 0)
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			if (x-cx)%step != 0 || (y-cy)%step != 0 {
				continue
			}
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= radius*radius {
				pixels = append(pixels, PixelCoord{X: x, Y: y})
			}
		}
	}
	return pixels
}

func linePixels(x0, y0, length int) []PixelCoord {
	pixels := make([]PixelCoord, length)
	for i := range pixels {
		pixels[i] = PixelCoord{X: x0 + i, Y: y0}
	}
	return pixels
}

func TestCircularityDisk(t *testing.T) {
	for radius := 5; radius <= 30; radius++ {
		circularity := Circularity(diskPixels(100, 100, radius, 1), 1, PerimeterCornerCut)
		if circularity <= 0.7 {
			t.Errorf("Disk of radius %d should have circularity > 0.7, got %f", radius, circularity)
		}
		if circularity > 1.1 {
			t.Errorf("Disk of radius %d has too big circularity %f", radius, circularity)
		}
	}
}

func TestCircularityLine(t *testing.T) {
	for length := 10; length <= 60; length++ {
		circularity := Circularity(linePixels(3, 7, length), 1, PerimeterCornerCut)
		if circularity >= 0.3 {
			t.Errorf("Line of length %d should have circularity < 0.3, got %f", length, circularity)
		}
		circularity = Circularity(linePixels(3, 7, length), 1, PerimeterEdges)
		if circularity >= 0.3 {
			t.Errorf("Line of length %d should have edge-based circularity < 0.3, got %f", length, circularity)
		}
	}
}

func TestCircularityEdges(t *testing.T) {
	square := make([]PixelCoord, 0, 100)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			square = append(square, PixelCoord{X: x, Y: y})
		}
	}
	// 40 boundary edges
	correctAnswer := 4 * math.Pi * 100 / (40 * 40)
	answer := Circularity(square, 1, PerimeterEdges)
	if math.Abs(answer-correctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correctAnswer)
	}
	// 4 convex corners
	perimeter := 40 - 4*cornerCut
	correctAnswer = 4 * math.Pi * 100 / (perimeter * perimeter)
	answer = Circularity(square, 1, PerimeterCornerCut)
	if math.Abs(answer-correctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correctAnswer)
	}
}

func TestCircularityStrided(t *testing.T) {
	dense := Circularity(diskPixels(0, 0, 6, 1), 1, PerimeterCornerCut)
	strided := Circularity(diskPixels(0, 0, 12, 2), 2, PerimeterCornerCut)
	if math.Abs(dense-strided) > eps {
		t.Errorf("Strided disk should score as dense disk of half radius: %f vs %f", strided, dense)
	}
	// Without projecting onto the lattice every sample is isolated
	isolated := Circularity(diskPixels(0, 0, 12, 2), 1, PerimeterCornerCut)
	if isolated >= 0.3 {
		t.Errorf("Isolated samples should have low circularity, got %f", isolated)
	}
}

func TestCircularityDegenerate(t *testing.T) {
	if c := Circularity(nil, 1, PerimeterCornerCut); c != 0 {
		t.Errorf("Empty cluster should have zero circularity, got %f", c)
	}
	if c := Circularity([]PixelCoord{{X: 1, Y: 1}, {X: 2, Y: 1}}, 1, PerimeterCornerCut); c != 0 {
		t.Errorf("Cluster with 2 pixels should have zero circularity, got %f", c)
	}
	repeated := make([]PixelCoord, 0, 20)
	for i := 0; i < 10; i++ {
		repeated = append(repeated, PixelCoord{X: 1, Y: 1}, PixelCoord{X: 2, Y: 1})
	}
	if c := Circularity(repeated, 1, PerimeterCornerCut); c != 0 {
		t.Errorf("Repeated samples of 2 cells should have zero circularity, got %f", c)
	}
	// Samples of one lattice cell
	collapsed := []PixelCoord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	if c := Circularity(collapsed, 2, PerimeterEdges); c != 0 {
		t.Errorf("Cluster of a single lattice cell should have zero circularity, got %f", c)
	}
}

func TestBoundaryTurnsDiagonal(t *testing.T) {
	cells := map[PixelCoord]struct{}{
		{X: 0, Y: 0}: {},
		{X: 1, Y: 1}: {},
	}
	// 4 corners of each cell except the shared vertex, which turns twice
	if turns := boundaryTurns(cells); turns != 8 {
		t.Errorf("Expected 8 turns, got %d", turns)
	}
}
