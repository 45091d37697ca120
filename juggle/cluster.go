package juggle

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// BlobCandidate is a cluster of matching pixels which survived size and circularity filters
type BlobCandidate struct {
	// Centroid
	X float64
	Y float64
	// Number of pixels in cluster
	Size        int
	Circularity float64
}

// ClusterParams is set of parameters for ClusterPixels
type ClusterParams struct {
	// Max distance between two pixels of the same cluster
	Radius float64
	// Min number of pixels in cluster
	MinSize int
	// Cluster is kept only if its circularity is strictly greater than threshold
	CircularityThreshold float64
	// Sampling stride pixels were collected with
	Step      int
	Perimeter PerimeterEstimator
}

// NewClusterParams extracts clustering parameters from config
func NewClusterParams(cfg Config) ClusterParams {
	return ClusterParams{
		Radius:               cfg.ClusterRadius,
		MinSize:              cfg.MinBlobSize,
		CircularityThreshold: cfg.CircularityThreshold,
		Step:                 cfg.SampleStride,
		Perimeter:            cfg.Perimeter,
	}
}

// Center returns blob's centroid
func (blob BlobCandidate) Center() Point {
	return NewPoint(blob.X, blob.Y)
}

// ClusterPixels groups pixels into clusters (two pixels are connected if distance between them is not greater than radius)
// and returns clusters passing size and circularity filters.
// Output is sorted by centroid (Y, then X), but callers should treat it as a set
func ClusterPixels(pixels []PixelCoord, params ClusterParams) []BlobCandidate {
	components := connectedComponents(pixels, params.Radius)
	blobs := make([]BlobCandidate, 0, len(components))
	for _, component := range components {
		if len(component) < params.MinSize {
			continue
		}
		circularity := Circularity(component, params.Step, params.Perimeter)
		if circularity <= params.CircularityThreshold {
			continue
		}
		blobs = append(blobs, newBlobCandidate(component, circularity))
	}
	sort.Slice(blobs, func(i, j int) bool {
		if blobs[i].Y != blobs[j].Y {
			return blobs[i].Y < blobs[j].Y
		}
		return blobs[i].X < blobs[j].X
	})
	return blobs
}

func newBlobCandidate(component []PixelCoord, circularity float64) BlobCandidate {
	xs := make([]float64, len(component))
	ys := make([]float64, len(component))
	for i, p := range component {
		xs[i] = float64(p.X)
		ys[i] = float64(p.Y)
	}
	return BlobCandidate{
		X:           stat.Mean(xs, nil),
		Y:           stat.Mean(ys, nil),
		Size:        len(component),
		Circularity: circularity,
	}
}

type cellKey struct {
	x int
	y int
}

// connectedComponents buckets pixels into square cells of at least radius size, so every neighbour of a pixel
// lies in one of 9 surrounding cells, and joins neighbours with union-find.
// Membership is the same as with exhaustive flood fill. Duplicated pixels are counted once
func connectedComponents(pixels []PixelCoord, radius float64) [][]PixelCoord {
	unique := make([]PixelCoord, 0, len(pixels))
	seen := make(map[PixelCoord]struct{}, len(pixels))
	for _, p := range pixels {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
	}
	if len(unique) == 0 {
		return nil
	}

	cellSize := math.Max(radius, 1.0)
	grid := make(map[cellKey][]int)
	for i, p := range unique {
		key := cellKey{x: cellIndex(p.X, cellSize), y: cellIndex(p.Y, cellSize)}
		grid[key] = append(grid[key], i)
	}

	sets := newUnionFind(len(unique))
	if radius >= 0 {
		radiusSq := radius * radius
		for i, p := range unique {
			cx, cy := cellIndex(p.X, cellSize), cellIndex(p.Y, cellSize)
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					for _, j := range grid[cellKey{x: cx + dx, y: cy + dy}] {
						if j <= i {
							continue
						}
						if float64(squaredPixelDistance(p, unique[j])) <= radiusSq {
							sets.union(i, j)
						}
					}
				}
			}
		}
	}

	componentIdx := make(map[int]int)
	components := make([][]PixelCoord, 0)
	for i, p := range unique {
		root := sets.find(i)
		idx, ok := componentIdx[root]
		if !ok {
			idx = len(components)
			componentIdx[root] = idx
			components = append(components, make([]PixelCoord, 0, 1))
		}
		components[idx] = append(components[idx], p)
	}
	return components
}

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{
		parent: parent,
		rank:   make([]int, n),
	}
}

func (uf *unionFind) find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

func (uf *unionFind) union(i, j int) {
	rootI, rootJ := uf.find(i), uf.find(j)
	if rootI == rootJ {
		return
	}
	switch {
	case uf.rank[rootI] < uf.rank[rootJ]:
		uf.parent[rootI] = rootJ
	case uf.rank[rootI] > uf.rank[rootJ]:
		uf.parent[rootJ] = rootI
	default:
		uf.parent[rootJ] = rootI
		uf.rank[rootI]++
	}
}
