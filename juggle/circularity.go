package juggle

import "math"

// PerimeterEstimator is for algorithm type for estimating cluster's perimeter
type PerimeterEstimator uint16

const (
	// PerimeterCornerCut counts boundary edges and shortens every boundary turn to a diagonal
	PerimeterCornerCut PerimeterEstimator = iota
	// PerimeterEdges counts boundary edges only (4-connected neighbours which are not in the cluster).
	// A filled disk never scores above pi^2/16 with it
	PerimeterEdges
)

// Two unit half-edges around a turn are replaced by a half-diagonal
var cornerCut = 1.0 - math.Sqrt2/2.0

func (estimator PerimeterEstimator) String() string {
	switch estimator {
	case PerimeterCornerCut:
		return "corner-cut"
	case PerimeterEdges:
		return "edges"
	default:
		return "unknown"
	}
}

// Circularity returns 4*pi*area/perimeter^2 of the cluster: ~1 for a filled disk, lower for elongated or sparse shapes.
// step is the sampling stride used to collect the cluster: coordinates are projected onto the sampling lattice
// so samples taken every step pixels are 4-connected to each other.
// Clusters covering less than 3 lattice cells or without perimeter have zero circularity
func Circularity(cluster []PixelCoord, step int, estimator PerimeterEstimator) float64 {
	cells := latticeCells(cluster, step)
	if len(cells) < 3 {
		return 0
	}
	area := float64(len(cells))
	perimeter := float64(boundaryEdges(cells))
	if estimator == PerimeterCornerCut {
		perimeter -= cornerCut * float64(boundaryTurns(cells))
	}
	if perimeter <= 0 {
		return 0
	}
	return (4 * math.Pi * area) / (perimeter * perimeter)
}

func latticeCells(cluster []PixelCoord, step int) map[PixelCoord]struct{} {
	if step < 1 {
		step = 1
	}
	cells := make(map[PixelCoord]struct{}, len(cluster))
	for _, p := range cluster {
		cells[PixelCoord{X: floorDiv(p.X, step), Y: floorDiv(p.Y, step)}] = struct{}{}
	}
	return cells
}

func boundaryEdges(cells map[PixelCoord]struct{}) int {
	edges := 0
	for p := range cells {
		neighbors := [4]PixelCoord{
			{X: p.X + 1, Y: p.Y},
			{X: p.X - 1, Y: p.Y},
			{X: p.X, Y: p.Y + 1},
			{X: p.X, Y: p.Y - 1},
		}
		for _, n := range neighbors {
			if _, ok := cells[n]; !ok {
				edges++
			}
		}
	}
	return edges
}

// boundaryTurns counts places where the boundary changes direction.
// Vertex (x, y) is the top-left corner of cell (x, y)
func boundaryTurns(cells map[PixelCoord]struct{}) int {
	vertices := make(map[PixelCoord]struct{}, len(cells)*2)
	for p := range cells {
		vertices[p] = struct{}{}
		vertices[PixelCoord{X: p.X + 1, Y: p.Y}] = struct{}{}
		vertices[PixelCoord{X: p.X, Y: p.Y + 1}] = struct{}{}
		vertices[PixelCoord{X: p.X + 1, Y: p.Y + 1}] = struct{}{}
	}
	has := func(x, y int) bool {
		_, ok := cells[PixelCoord{X: x, Y: y}]
		return ok
	}
	turns := 0
	for v := range vertices {
		topLeft := has(v.X-1, v.Y-1)
		topRight := has(v.X, v.Y-1)
		bottomLeft := has(v.X-1, v.Y)
		bottomRight := has(v.X, v.Y)
		occupied := 0
		for _, in := range [4]bool{topLeft, topRight, bottomLeft, bottomRight} {
			if in {
				occupied++
			}
		}
		switch {
		case occupied == 1 || occupied == 3:
			turns++
		case occupied == 2 && topLeft == bottomRight:
			// Diagonal pair: boundary touches itself and turns twice
			turns += 2
		}
	}
	return turns
}
