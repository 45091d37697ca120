package juggle

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
	if cfg.TargetColor != (Color{R: 255}) {
		t.Errorf("Default target should be red, got %v", cfg.TargetColor)
	}
	if cfg.Mode != ModeSingle || cfg.CooldownFrames != 15 || cfg.SampleStride != 2 {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

func TestConfigSettersRejectOutOfRange(t *testing.T) {
	cfg := DefaultConfig()
	reference := cfg
	setters := []struct {
		name string
		set  func(cfg *Config) error
	}{
		{"tolerance above", func(cfg *Config) error { return cfg.SetColorTolerance(101) }},
		{"tolerance below", func(cfg *Config) error { return cfg.SetColorTolerance(-1) }},
		{"tolerance NaN", func(cfg *Config) error { return cfg.SetColorTolerance(math.NaN()) }},
		{"circularity", func(cfg *Config) error { return cfg.SetCircularityThreshold(1.5) }},
		{"min blob size", func(cfg *Config) error { return cfg.SetMinBlobSize(0) }},
		{"hue weight", func(cfg *Config) error { return cfg.SetHueWeight(-2) }},
		{"line height", func(cfg *Config) error { return cfg.SetLineHeight(120) }},
		{"multiplier", func(cfg *Config) error { return cfg.SetCatchMultiplier(0) }},
		{"tracking distance", func(cfg *Config) error { return cfg.SetMaxTrackingDistance(0) }},
		{"cluster radius", func(cfg *Config) error { return cfg.SetClusterRadius(-5) }},
		{"mode", func(cfg *Config) error { return cfg.SetMode(Mode(5)) }},
		{"stride", func(cfg *Config) error { return cfg.SetSampleStride(0) }},
		{"cooldown", func(cfg *Config) error { return cfg.SetCooldownFrames(-1) }},
		{"missed frames", func(cfg *Config) error { return cfg.SetMaxMissedFrames(-1) }},
		{"initial track id", func(cfg *Config) error { return cfg.SetInitialTrackID(-1) }},
		{"matching", func(cfg *Config) error { return cfg.SetMatching(MatchingAlgorithm(7)) }},
		{"cooldown scope", func(cfg *Config) error { return cfg.SetCooldownScope(CooldownScope(2)) }},
		{"perimeter", func(cfg *Config) error { return cfg.SetPerimeter(PerimeterEstimator(4)) }},
	}
	for _, setter := range setters {
		err := setter.set(&cfg)
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("%s: expected ErrOutOfRange, got %v", setter.name, err)
		}
		if cfg != reference {
			t.Errorf("%s: rejected value changed config", setter.name)
			cfg = reference
		}
	}
}

func TestConfigSettersApply(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.SetColorTolerance(45); err != nil || cfg.ColorTolerancePercent != 45 {
		t.Errorf("Tolerance not applied: %v", err)
	}
	if err := cfg.SetCircularityThreshold(0); err != nil || cfg.CircularityThreshold != 0 {
		t.Errorf("Circularity not applied: %v", err)
	}
	if err := cfg.SetLineHeight(100); err != nil || cfg.LineHeightPercent != 100 {
		t.Errorf("Line height not applied: %v", err)
	}
	if err := cfg.SetCatchMultiplier(3); err != nil || cfg.CatchMultiplier != 3 {
		t.Errorf("Multiplier not applied: %v", err)
	}
	if err := cfg.SetMode(ModeMulti); err != nil || cfg.Mode != ModeMulti {
		t.Errorf("Mode not applied: %v", err)
	}
	if err := cfg.SetInitialTrackID(100); err != nil || cfg.InitialTrackID != 100 {
		t.Errorf("Initial track id not applied: %v", err)
	}
	if err := cfg.SetMatching(MatchingHungarian); err != nil || cfg.Matching != MatchingHungarian {
		t.Errorf("Matching not applied: %v", err)
	}
	if err := cfg.SetCooldownScope(CooldownPerTrack); err != nil || cfg.CooldownScope != CooldownPerTrack {
		t.Errorf("Cooldown scope not applied: %v", err)
	}
	if err := cfg.SetPerimeter(PerimeterEdges); err != nil || cfg.Perimeter != PerimeterEdges {
		t.Errorf("Perimeter not applied: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Config should stay valid: %v", err)
	}
}

func TestSetTargetColorString(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.SetTargetColorString("#00ff00"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.TargetColor != (Color{G: 255}) {
		t.Errorf("Expected green, got %v", cfg.TargetColor)
	}
	if err := cfg.SetTargetColorString("rgb(1, 2, 3)"); err != nil || cfg.TargetColor != (Color{R: 1, G: 2, B: 3}) {
		t.Errorf("Expected rgb(1, 2, 3), got %v (%v)", cfg.TargetColor, err)
	}
	err := cfg.SetTargetColorString("rgb(1, 2")
	if !errors.Is(err, ErrMalformedColor) {
		t.Errorf("Expected ErrMalformedColor, got %v", err)
	}
	if cfg.TargetColor != (Color{R: 1, G: 2, B: 3}) {
		t.Errorf("Malformed input should keep previous color, got %v", cfg.TargetColor)
	}
}

func TestValidateRejectsBrokenConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ClusterRadius = 0
	if err := cfg.Validate(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange, got %v", err)
	}
	cfg = DefaultConfig()
	cfg.Matching = MatchingAlgorithm(9)
	if err := cfg.Validate(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange, got %v", err)
	}
}
