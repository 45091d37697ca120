package juggle

// TrackedObject is a persistent identity of a blob across consecutive frames
type TrackedObject struct {
	ID int
	// Current centroid
	X float64
	Y float64
	// Number of pixels of the latest matched blob
	Size int
	// Vertical position on the previous frame
	LastY            float64
	MatchedThisFrame bool
	// Number of consecutive frames without a match
	MissedFrames int
}

// Center returns object's current centroid
func (object TrackedObject) Center() Point {
	return NewPoint(object.X, object.Y)
}

// TrackParams is set of parameters for UpdateTracks
type TrackParams struct {
	// Blob is associated with a track only if distance is strictly less than this value (in pixels)
	MaxTrackingDistance float64
	// Number of frames an unmatched track survives. Zero removes it on its first miss
	MaxMissedFrames int
	// Algorithm to use for matching
	Algorithm MatchingAlgorithm
}

// NewTrackParams extracts tracking parameters from config
func NewTrackParams(cfg Config) TrackParams {
	return TrackParams{
		MaxTrackingDistance: cfg.MaxTrackingDistance,
		MaxMissedFrames:     cfg.MaxMissedFrames,
		Algorithm:           cfg.Matching,
	}
}

// UpdateTracks associates blobs detected on current frame with existing tracks.
//
// Matched tracks get LastY of their previous Y and position/size of the blob.
// Unmatched tracks are dropped once they missed more than MaxMissedFrames frames in a row; while kept their LastY equals Y.
// Every unclaimed blob spawns a new track (appended after the survivors) with freshly allocated id and LastY equal to Y,
// so it can't cross the line on its first frame.
//
// Input slice is not modified. Returns new set of tracks and next id to allocate
func UpdateTracks(tracks []TrackedObject, blobs []BlobCandidate, nextID int, params TrackParams) ([]TrackedObject, int) {
	var assignment []int
	switch params.Algorithm {
	case MatchingHungarian:
		assignment = assignHungarian(tracks, blobs, params.MaxTrackingDistance)
	default:
		assignment = assignGreedy(tracks, blobs, params.MaxTrackingDistance)
	}

	claimed := make([]bool, len(blobs))
	updated := make([]TrackedObject, 0, len(tracks)+len(blobs))
	for i, track := range tracks {
		track.LastY = track.Y
		if blobIdx := assignment[i]; blobIdx >= 0 {
			blob := blobs[blobIdx]
			claimed[blobIdx] = true
			track.X = blob.X
			track.Y = blob.Y
			track.Size = blob.Size
			track.MatchedThisFrame = true
			track.MissedFrames = 0
			updated = append(updated, track)
			continue
		}
		track.MatchedThisFrame = false
		track.MissedFrames++
		if track.MissedFrames > params.MaxMissedFrames {
			continue
		}
		updated = append(updated, track)
	}

	for j, blob := range blobs {
		if claimed[j] {
			continue
		}
		updated = append(updated, TrackedObject{
			ID:               nextID,
			X:                blob.X,
			Y:                blob.Y,
			Size:             blob.Size,
			LastY:            blob.Y,
			MatchedThisFrame: true,
		})
		nextID++
	}
	return updated, nextID
}
