package juggle

import (
	"math"

	"github.com/arthurkushman/go-hungarian"
)

// MatchingAlgorithm is for algorithm type for matching detections to tracks
type MatchingAlgorithm uint16

const (
	// MatchingGreedy walks over tracks in their order and gives each one the nearest unclaimed blob.
	// Order of tracks affects the outcome when blobs are ambiguous
	MatchingGreedy MatchingAlgorithm = iota
	// MatchingHungarian uses the Hungarian algorithm (Kuhn-Munkres) for optimal assignment over gated distances
	MatchingHungarian
)

func (algorithm MatchingAlgorithm) String() string {
	switch algorithm {
	case MatchingGreedy:
		return "greedy"
	case MatchingHungarian:
		return "hungarian"
	default:
		return "unknown"
	}
}

// assignGreedy returns index of matched blob for every track or -1
func assignGreedy(tracks []TrackedObject, blobs []BlobCandidate, maxDistance float64) []int {
	assignment := make([]int, len(tracks))
	claimed := make([]bool, len(blobs))
	for i, track := range tracks {
		assignment[i] = -1
		bestDistance := math.Inf(1)
		for j, blob := range blobs {
			if claimed[j] {
				continue
			}
			distance := euclideanDistance(track.Center(), blob.Center())
			if distance < maxDistance && distance < bestDistance {
				bestDistance = distance
				assignment[i] = j
			}
		}
		if assignment[i] >= 0 {
			claimed[assignment[i]] = true
		}
	}
	return assignment
}

// assignHungarian maximizes total (maxDistance - distance) over all pairs closer than maxDistance.
// Farther pairs score zero, same as padding, and are rejected afterwards
func assignHungarian(tracks []TrackedObject, blobs []BlobCandidate, maxDistance float64) []int {
	assignment := make([]int, len(tracks))
	for i := range assignment {
		assignment[i] = -1
	}
	if len(tracks) == 0 || len(blobs) == 0 {
		return assignment
	}

	distances := make([][]float64, len(tracks))
	for i, track := range tracks {
		distances[i] = make([]float64, len(blobs))
		for j, blob := range blobs {
			distances[i][j] = euclideanDistance(track.Center(), blob.Center())
		}
	}

	// Pad to make it square
	paddedSize := maxInt(len(tracks), len(blobs))
	scores := make([][]float64, paddedSize)
	for i := 0; i < paddedSize; i++ {
		scores[i] = make([]float64, paddedSize)
		if i >= len(tracks) {
			continue
		}
		for j := 0; j < len(blobs); j++ {
			if distances[i][j] < maxDistance {
				scores[i][j] = maxDistance - distances[i][j]
			}
		}
	}

	assignmentsMap := hungarian.SolveMax(scores)
	for trackIdx, rowMap := range assignmentsMap {
		if trackIdx >= len(tracks) {
			continue
		}
		for blobIdx := range rowMap {
			if blobIdx < len(blobs) && distances[trackIdx][blobIdx] < maxDistance {
				assignment[trackIdx] = blobIdx
			}
			break
		}
	}
	return assignment
}
