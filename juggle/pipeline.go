package juggle

import (
	"fmt"
	"image"
)

// SingleTrack is the implicit object of single mode. It keeps last seen position across frames without detection
type SingleTrack struct {
	Seen bool
	ID   int
	X    float64
	Y    float64
	Size int
}

// State is everything the pipeline carries between frames.
// Step never mutates the State it gets, it returns the updated one
type State struct {
	Mode   Mode
	Tracks []TrackedObject
	NextID int
	Single SingleTrack
	// Primary output, persists across mode switches
	Count int
	// Shared cooldown (CooldownShared)
	Cooldown int
	// Cooldown per track id (CooldownPerTrack)
	TrackCooldowns map[int]int
}

// Event is a detected line crossing
type Event struct {
	Kind    CrossingKind
	TrackID int
	Y       float64
	// Count after the event
	Count int
}

// FrameResult is output of processing single frame
type FrameResult struct {
	// Blobs found on frame (multi mode)
	Blobs []BlobCandidate
	// Objects present after the frame: all tracks in multi mode, implicit object in single mode when it was detected
	Tracks       []TrackedObject
	Events       []Event
	Count        int
	CountChanged bool
	LineY        float64
	// Human readable status, empty when nothing happened
	Status string
	// Predicted centroids per track id. Filled by Counter
	Predictions map[int]Point
	// Error of writing count to sink. Filled by Counter
	SinkErr error
}

// NewState creates empty state for config's mode
func NewState(cfg Config) State {
	return State{
		Mode:           cfg.Mode,
		Tracks:         make([]TrackedObject, 0),
		NextID:         cfg.InitialTrackID,
		TrackCooldowns: make(map[int]int),
	}
}

func (state State) clone() State {
	cloned := state
	cloned.Tracks = make([]TrackedObject, len(state.Tracks))
	copy(cloned.Tracks, state.Tracks)
	cloned.TrackCooldowns = make(map[int]int, len(state.TrackCooldowns))
	for id, cooldown := range state.TrackCooldowns {
		cloned.TrackCooldowns[id] = cooldown
	}
	return cloned
}

// SwitchMode clears all tracks and resets id allocation. Count is preserved
func SwitchMode(state State, mode Mode, cfg Config) State {
	next := NewState(cfg)
	next.Mode = mode
	next.Count = state.Count
	next.Cooldown = state.Cooldown
	return next
}

// ResetCount zeroes count, clears tracks and resets id allocation.
// Shared cooldown and last position of the single mode object are kept
func ResetCount(state State, cfg Config) State {
	next := NewState(cfg)
	next.Mode = state.Mode
	next.Cooldown = state.Cooldown
	next.Single = state.Single
	return next
}

// Step processes single frame: color matching, clustering and tracking (multi mode) or centroid (single mode),
// then crossing detection. Cooldown decreases once per call.
// Nil frame is processed as a frame with nothing on it
func Step(state State, frame *image.RGBA, cfg Config) (State, FrameResult) {
	next := state.clone()
	height := 0
	var pixels []PixelCoord
	if frame != nil {
		height = frame.Rect.Dy()
		pixels = CollectMatchingPixels(frame, NewMatcher(cfg), cfg.SampleStride)
	}

	result := FrameResult{
		LineY: LineY(cfg.LineHeightPercent, height),
	}
	rule := NewCrossingRule(cfg)

	switch next.Mode {
	case ModeMulti:
		result.Blobs = ClusterPixels(pixels, NewClusterParams(cfg))
		next.Tracks, next.NextID = UpdateTracks(next.Tracks, result.Blobs, next.NextID, NewTrackParams(cfg))
		for _, track := range next.Tracks {
			next.evaluate(track, result.LineY, rule, cfg.CooldownScope, &result)
		}
		result.Tracks = next.Tracks
	default:
		detected, ok := singleDetection(pixels, cfg.MinBlobSize)
		if ok {
			track := next.observeSingle(detected)
			next.evaluate(track, result.LineY, rule, cfg.CooldownScope, &result)
			result.Tracks = []TrackedObject{track}
		}
	}

	next.tickCooldowns()
	result.Count = next.Count
	return next, result
}

func (state *State) evaluate(track TrackedObject, lineY float64, rule CrossingRule, scope CooldownScope, result *FrameResult) {
	cooldown := state.Cooldown
	if scope == CooldownPerTrack {
		cooldown = state.TrackCooldowns[track.ID]
	}
	crossing := Evaluate(track, lineY, cooldown, rule)
	if crossing.Kind == CrossingNone {
		return
	}
	if scope == CooldownPerTrack {
		state.TrackCooldowns[track.ID] = crossing.Cooldown
	} else {
		state.Cooldown = crossing.Cooldown
	}
	state.Count += crossing.Delta
	if crossing.Kind == CrossingCatch {
		result.CountChanged = result.CountChanged || crossing.Delta != 0
		result.Status = fmt.Sprintf("Catch detected! Count: %d", state.Count)
	}
	result.Events = append(result.Events, Event{
		Kind:    crossing.Kind,
		TrackID: track.ID,
		Y:       track.Y,
		Count:   state.Count,
	})
}

func (state *State) observeSingle(blob BlobCandidate) TrackedObject {
	if !state.Single.Seen {
		state.Single = SingleTrack{Seen: true, ID: state.NextID, Y: blob.Y}
		state.NextID++
	}
	track := TrackedObject{
		ID:               state.Single.ID,
		X:                blob.X,
		Y:                blob.Y,
		Size:             blob.Size,
		LastY:            state.Single.Y,
		MatchedThisFrame: true,
	}
	state.Single.X = blob.X
	state.Single.Y = blob.Y
	state.Single.Size = blob.Size
	return track
}

func (state *State) tickCooldowns() {
	if state.Cooldown > 0 {
		state.Cooldown--
	}
	alive := make(map[int]struct{}, len(state.Tracks)+1)
	for _, track := range state.Tracks {
		alive[track.ID] = struct{}{}
	}
	if state.Single.Seen {
		alive[state.Single.ID] = struct{}{}
	}
	for id, cooldown := range state.TrackCooldowns {
		if _, ok := alive[id]; !ok || cooldown <= 1 {
			delete(state.TrackCooldowns, id)
			continue
		}
		state.TrackCooldowns[id] = cooldown - 1
	}
}

// singleDetection is centroid of all matching pixels if there are at least minSize of them
func singleDetection(pixels []PixelCoord, minSize int) (BlobCandidate, bool) {
	if len(pixels) == 0 || len(pixels) < minSize {
		return BlobCandidate{}, false
	}
	totalX, totalY := 0, 0
	for _, p := range pixels {
		totalX += p.X
		totalY += p.Y
	}
	return BlobCandidate{
		X:    float64(totalX) / float64(len(pixels)),
		Y:    float64(totalY) / float64(len(pixels)),
		Size: len(pixels),
	}, true
}
