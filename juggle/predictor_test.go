package juggle

import (
	"math"
	"testing"
)

func TestPredictorFollowsTrack(t *testing.T) {
	predictor := NewPredictor()
	track := TrackedObject{ID: 3, X: 100, Y: 10, MatchedThisFrame: true}

	predictions, err := predictor.Observe([]TrackedObject{track})
	if err != nil {
		t.Fatal(err)
	}
	if predictions[3] != track.Center() {
		t.Errorf("First prediction should be current position, got %v", predictions[3])
	}

	for frame := 1; frame <= 10; frame++ {
		track.LastY = track.Y
		track.Y += 10
		predictions, err = predictor.Observe([]TrackedObject{track})
		if err != nil {
			t.Fatalf("Frame %d: %v", frame, err)
		}
		prediction, ok := predictions[3]
		if !ok {
			t.Fatalf("Frame %d: no prediction for track 3", frame)
		}
		if math.IsNaN(prediction.X) || math.IsNaN(prediction.Y) {
			t.Fatalf("Frame %d: prediction is NaN", frame)
		}
	}
	// Constant speed: filter ends up close to the trajectory
	if math.Abs(predictions[3].Y-track.Y) > 20 || math.Abs(predictions[3].X-track.X) > 20 {
		t.Errorf("Prediction %v is too far from %v", predictions[3], track.Center())
	}
}

func TestPredictorDropsGoneTracks(t *testing.T) {
	predictor := NewPredictor()
	_, err := predictor.Observe([]TrackedObject{{ID: 1, MatchedThisFrame: true}, {ID: 2, MatchedThisFrame: true}})
	if err != nil {
		t.Fatal(err)
	}
	if predictor.Len() != 2 {
		t.Fatalf("Expected 2 filters, got %d", predictor.Len())
	}
	_, err = predictor.Observe([]TrackedObject{{ID: 2, MatchedThisFrame: true}})
	if err != nil {
		t.Fatal(err)
	}
	if predictor.Len() != 1 {
		t.Errorf("Expected 1 filter, got %d", predictor.Len())
	}
	predictor.Reset()
	if predictor.Len() != 0 {
		t.Errorf("Expected no filters after reset, got %d", predictor.Len())
	}
}
