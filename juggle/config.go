package juggle

import (
	"github.com/pkg/errors"
)

// ErrOutOfRange is returned when a parameter is outside of its documented range
var ErrOutOfRange = errors.New("value out of range")

// Mode is for tracking mode
type Mode uint8

const (
	// ModeSingle treats all matching pixels of a frame as one object
	ModeSingle Mode = iota
	// ModeMulti clusters matching pixels and tracks every blob
	ModeMulti
)

func (mode Mode) String() string {
	switch mode {
	case ModeSingle:
		return "single"
	case ModeMulti:
		return "multi"
	default:
		return "unknown"
	}
}

// CooldownScope is for how crossing cooldown is shared between tracked objects
type CooldownScope uint8

const (
	// CooldownShared is one counter for all objects: a crossing by any object masks crossings of the others
	CooldownShared CooldownScope = iota
	// CooldownPerTrack keeps cooldown per track id
	CooldownPerTrack
)

func (scope CooldownScope) String() string {
	switch scope {
	case CooldownShared:
		return "shared"
	case CooldownPerTrack:
		return "per-track"
	default:
		return "unknown"
	}
}

// Config is snapshot of tunable parameters. It is read-only while a frame is processed
type Config struct {
	TargetColor Color
	// 0-100
	ColorTolerancePercent float64
	// Min number of sampled pixels in a blob
	MinBlobSize int
	// 0-1
	CircularityThreshold float64
	// Weight of hue distance in color matching
	HueWeight float64
	// Reference line position, percent of frame height from the top
	LineHeightPercent float64
	// Count increment per catch
	CatchMultiplier     int
	MaxTrackingDistance float64
	ClusterRadius       float64
	Mode                Mode

	// Only every SampleStride-th pixel of every SampleStride-th row is classified
	SampleStride int
	// Length of crossing suppression window in frames
	CooldownFrames int
	// Frames an unmatched track is kept for
	MaxMissedFrames int
	// First id allocated after start, reset or mode switch
	InitialTrackID int
	Matching       MatchingAlgorithm
	CooldownScope  CooldownScope
	Perimeter      PerimeterEstimator
}

// DefaultConfig returns a Config with sensible defaults: red ball, one object, reference debounce
func DefaultConfig() Config {
	return Config{
		TargetColor:           Color{R: 255, G: 0, B: 0},
		ColorTolerancePercent: 30,
		MinBlobSize:           10,
		CircularityThreshold:  0.6,
		HueWeight:             4,
		LineHeightPercent:     50,
		CatchMultiplier:       1,
		MaxTrackingDistance:   50,
		ClusterRadius:         25,
		Mode:                  ModeSingle,
		SampleStride:          2,
		CooldownFrames:        15,
		MaxMissedFrames:       0,
		InitialTrackID:        0,
		Matching:              MatchingGreedy,
		CooldownScope:         CooldownShared,
		Perimeter:             PerimeterCornerCut,
	}
}

func checkFloat(name string, value, min, max float64) error {
	if !inRange(value, min, max) {
		return errors.Wrapf(ErrOutOfRange, "%s must be in [%g, %g], got %g", name, min, max, value)
	}
	return nil
}

func checkPositiveFloat(name string, value float64) error {
	if !(value > 0) {
		return errors.Wrapf(ErrOutOfRange, "%s must be positive, got %g", name, value)
	}
	return nil
}

func checkInt(name string, value, min, max int) error {
	if value < min || value > max {
		return errors.Wrapf(ErrOutOfRange, "%s must be in [%d, %d], got %d", name, min, max, value)
	}
	return nil
}

const maxInt32 = 1<<31 - 1

// Validate checks every field against its range
func (cfg Config) Validate() error {
	checks := []error{
		checkFloat("color tolerance", cfg.ColorTolerancePercent, 0, 100),
		checkInt("min blob size", cfg.MinBlobSize, 1, maxInt32),
		checkFloat("circularity threshold", cfg.CircularityThreshold, 0, 1),
		checkFloat("hue weight", cfg.HueWeight, 0, 10),
		checkFloat("line height", cfg.LineHeightPercent, 0, 100),
		checkInt("catch multiplier", cfg.CatchMultiplier, 1, 10),
		checkPositiveFloat("max tracking distance", cfg.MaxTrackingDistance),
		checkPositiveFloat("cluster radius", cfg.ClusterRadius),
		checkInt("mode", int(cfg.Mode), int(ModeSingle), int(ModeMulti)),
		checkInt("sample stride", cfg.SampleStride, 1, 64),
		checkInt("cooldown frames", cfg.CooldownFrames, 0, maxInt32),
		checkInt("max missed frames", cfg.MaxMissedFrames, 0, maxInt32),
		checkInt("initial track id", cfg.InitialTrackID, 0, maxInt32),
		checkInt("matching algorithm", int(cfg.Matching), int(MatchingGreedy), int(MatchingHungarian)),
		checkInt("cooldown scope", int(cfg.CooldownScope), int(CooldownShared), int(CooldownPerTrack)),
		checkInt("perimeter estimator", int(cfg.Perimeter), int(PerimeterCornerCut), int(PerimeterEdges)),
	}
	for _, err := range checks {
		if err != nil {
			return errors.Wrap(err, "invalid config")
		}
	}
	return nil
}

// SetTargetColor replaces target color wholesale
func (cfg *Config) SetTargetColor(color Color) {
	cfg.TargetColor = color
}

// SetTargetColorString calibrates target color from `rgb(r, g, b)` or `#rrggbb` text.
// Malformed input leaves previous color unchanged
func (cfg *Config) SetTargetColorString(s string) error {
	color, err := ParseColor(s)
	if err != nil {
		return err
	}
	cfg.TargetColor = color
	return nil
}

// SetColorTolerance sets tolerance in percent (0-100)
func (cfg *Config) SetColorTolerance(value float64) error {
	if err := checkFloat("color tolerance", value, 0, 100); err != nil {
		return err
	}
	cfg.ColorTolerancePercent = value
	return nil
}

// SetMinBlobSize sets min number of pixels in blob (>= 1)
func (cfg *Config) SetMinBlobSize(value int) error {
	if err := checkInt("min blob size", value, 1, maxInt32); err != nil {
		return err
	}
	cfg.MinBlobSize = value
	return nil
}

// SetCircularityThreshold sets circularity threshold (0-1)
func (cfg *Config) SetCircularityThreshold(value float64) error {
	if err := checkFloat("circularity threshold", value, 0, 1); err != nil {
		return err
	}
	cfg.CircularityThreshold = value
	return nil
}

// SetHueWeight sets weight of hue distance (0-10)
func (cfg *Config) SetHueWeight(value float64) error {
	if err := checkFloat("hue weight", value, 0, 10); err != nil {
		return err
	}
	cfg.HueWeight = value
	return nil
}

// SetLineHeight sets line position in percent of frame height (0-100)
func (cfg *Config) SetLineHeight(value float64) error {
	if err := checkFloat("line height", value, 0, 100); err != nil {
		return err
	}
	cfg.LineHeightPercent = value
	return nil
}

// SetCatchMultiplier sets count increment per catch (1-10)
func (cfg *Config) SetCatchMultiplier(value int) error {
	if err := checkInt("catch multiplier", value, 1, 10); err != nil {
		return err
	}
	cfg.CatchMultiplier = value
	return nil
}

// SetMaxTrackingDistance sets max distance between track and blob (> 0)
func (cfg *Config) SetMaxTrackingDistance(value float64) error {
	if err := checkPositiveFloat("max tracking distance", value); err != nil {
		return err
	}
	cfg.MaxTrackingDistance = value
	return nil
}

// SetClusterRadius sets max distance between pixels of the same cluster (> 0)
func (cfg *Config) SetClusterRadius(value float64) error {
	if err := checkPositiveFloat("cluster radius", value); err != nil {
		return err
	}
	cfg.ClusterRadius = value
	return nil
}

// SetMode sets tracking mode. Use Counter.SetMode or SwitchMode to reset tracking state as well
func (cfg *Config) SetMode(mode Mode) error {
	if err := checkInt("mode", int(mode), int(ModeSingle), int(ModeMulti)); err != nil {
		return err
	}
	cfg.Mode = mode
	return nil
}

// SetSampleStride sets sampling stride (1-64)
func (cfg *Config) SetSampleStride(value int) error {
	if err := checkInt("sample stride", value, 1, 64); err != nil {
		return err
	}
	cfg.SampleStride = value
	return nil
}

// SetCooldownFrames sets crossing suppression window (>= 0)
func (cfg *Config) SetCooldownFrames(value int) error {
	if err := checkInt("cooldown frames", value, 0, maxInt32); err != nil {
		return err
	}
	cfg.CooldownFrames = value
	return nil
}

// SetMaxMissedFrames sets grace period for unmatched tracks (>= 0)
func (cfg *Config) SetMaxMissedFrames(value int) error {
	if err := checkInt("max missed frames", value, 0, maxInt32); err != nil {
		return err
	}
	cfg.MaxMissedFrames = value
	return nil
}

// SetInitialTrackID sets first id allocated after start, mode switch or reset (>= 0)
func (cfg *Config) SetInitialTrackID(value int) error {
	if err := checkInt("initial track id", value, 0, maxInt32); err != nil {
		return err
	}
	cfg.InitialTrackID = value
	return nil
}

// SetMatching sets algorithm for matching blobs to tracks
func (cfg *Config) SetMatching(algorithm MatchingAlgorithm) error {
	if err := checkInt("matching algorithm", int(algorithm), int(MatchingGreedy), int(MatchingHungarian)); err != nil {
		return err
	}
	cfg.Matching = algorithm
	return nil
}

// SetCooldownScope sets whether cooldown is shared by all tracks or kept per track
func (cfg *Config) SetCooldownScope(scope CooldownScope) error {
	if err := checkInt("cooldown scope", int(scope), int(CooldownShared), int(CooldownPerTrack)); err != nil {
		return err
	}
	cfg.CooldownScope = scope
	return nil
}

// SetPerimeter sets perimeter estimator used by circularity
func (cfg *Config) SetPerimeter(estimator PerimeterEstimator) error {
	if err := checkInt("perimeter estimator", int(estimator), int(PerimeterCornerCut), int(PerimeterEdges)); err != nil {
		return err
	}
	cfg.Perimeter = estimator
	return nil
}
