package juggle

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"
)

// Predictor smooths track centroids with 2D Kalman filter (one filter per track id).
// It is used for overlays only and never affects counting
type Predictor struct {
	dt      float64
	filters map[int]*kalman_filter.Kalman2D
}

// NewPredictor creates predictor with time step of 1 frame
func NewPredictor() *Predictor {
	return NewPredictorWithTime(1.0)
}

// NewPredictorWithTime creates predictor with specified time step
func NewPredictorWithTime(dt float64) *Predictor {
	return &Predictor{
		dt:      dt,
		filters: make(map[int]*kalman_filter.Kalman2D),
	}
}

func (predictor *Predictor) newFilter(center Point) *kalman_filter.Kalman2D {
	/* Kalman filter props */
	ux := 1.0
	uy := 1.0
	stdDevA := 2.0
	stdDevMx := 0.1
	stdDevMy := 0.1
	return kalman_filter.NewKalman2D(predictor.dt, ux, uy, stdDevA, stdDevMx, stdDevMy, kalman_filter.WithState2D(center.X, center.Y))
}

// Observe advances filters of the given tracks by one frame and returns predicted centroid for every track.
// Matched tracks correct their filter with the measured centroid. Filters of tracks which are gone are dropped
func (predictor *Predictor) Observe(tracks []TrackedObject) (map[int]Point, error) {
	predictions := make(map[int]Point, len(tracks))
	alive := make(map[int]struct{}, len(tracks))
	for _, track := range tracks {
		alive[track.ID] = struct{}{}
		filter, ok := predictor.filters[track.ID]
		if !ok {
			predictor.filters[track.ID] = predictor.newFilter(track.Center())
			predictions[track.ID] = track.Center()
			continue
		}
		filter.Predict()
		stateX, stateY := filter.GetState()
		predictions[track.ID] = NewPoint(stateX, stateY)
		if !track.MatchedThisFrame {
			continue
		}
		err := filter.Update(track.X, track.Y)
		if err != nil {
			return predictions, errors.Wrapf(err, "Can't update predictor for track %d", track.ID)
		}
	}
	for id := range predictor.filters {
		if _, ok := alive[id]; !ok {
			delete(predictor.filters, id)
		}
	}
	return predictions, nil
}

// Reset drops all filters
func (predictor *Predictor) Reset() {
	predictor.filters = make(map[int]*kalman_filter.Kalman2D)
}

// Len returns number of tracks being predicted
func (predictor *Predictor) Len() int {
	return len(predictor.filters)
}
