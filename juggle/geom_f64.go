package juggle

import (
	"image"
	"math"
)

// PixelCoord is integer frame coordinate of a matching sample
type PixelCoord struct {
	X int
	Y int
}

// NewPixelCoordFrom converts image point
func NewPixelCoordFrom(point image.Point) PixelCoord {
	return PixelCoord{
		X: point.X,
		Y: point.Y,
	}
}

// Point is a real-valued position (centroids, predictions)
type Point struct {
	X float64
	Y float64
}

func NewPoint(x, y float64) Point {
	return Point{
		X: x,
		Y: y,
	}
}

func euclideanDistance(p1, p2 Point) float64 {
	return math.Sqrt(math.Pow(p1.X-p2.X, 2) + math.Pow(p1.Y-p2.Y, 2))
}

func squaredPixelDistance(p1, p2 PixelCoord) int {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return dx*dx + dy*dy
}
