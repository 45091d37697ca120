package juggle

import "math"

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// floorDiv divides rounding towards negative infinity
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// inRange is false for NaN
func inRange(value, min, max float64) bool {
	return value >= min && value <= max
}

func cellIndex(value int, cellSize float64) int {
	return int(math.Floor(float64(value) / cellSize))
}
