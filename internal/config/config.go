// Package config reads juggle-counter settings from a TOML file and watches it for changes
package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/LdDl/juggle-go/juggle"
)

// ErrUnknownKey is returned when the file has keys that don't map to any setting
var ErrUnknownKey = errors.New("unknown config key")

// Detection is for [detection] section
type Detection struct {
	TargetColor          string  `toml:"target_color"`
	ColorTolerance       float64 `toml:"color_tolerance"`
	MinBlobSize          int     `toml:"min_blob_size"`
	CircularityThreshold float64 `toml:"circularity_threshold"`
	HueWeight            float64 `toml:"hue_weight"`
	ClusterRadius        float64 `toml:"cluster_radius"`
	SampleStride         int     `toml:"sample_stride"`
	Perimeter            string  `toml:"perimeter"`
}

// Tracking is for [tracking] section
type Tracking struct {
	Mode                string  `toml:"mode"`
	MaxTrackingDistance float64 `toml:"max_tracking_distance"`
	MaxMissedFrames     int     `toml:"max_missed_frames"`
	InitialTrackID      int     `toml:"initial_track_id"`
	Matching            string  `toml:"matching"`
}

// Counter is for [counter] section
type Counter struct {
	LineHeight      float64 `toml:"line_height"`
	CatchMultiplier int     `toml:"catch_multiplier"`
	CooldownFrames  int     `toml:"cooldown_frames"`
	CooldownScope   string  `toml:"cooldown_scope"`
	CountFile       string  `toml:"count_file"`
}

// Source is for [source] section
type Source struct {
	Kind   string  `toml:"kind"`
	Dir    string  `toml:"dir"`
	Device int     `toml:"device"`
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	FPS    float64 `toml:"fps"`
	Blur   float64 `toml:"blur"`
}

// Log is for [log] section
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Metrics is for [metrics] section. Empty address disables metrics endpoint
type Metrics struct {
	Addr string `toml:"addr"`
}

// File is the whole config file
type File struct {
	Detection Detection `toml:"detection"`
	Tracking  Tracking  `toml:"tracking"`
	Counter   Counter   `toml:"counter"`
	Source    Source    `toml:"source"`
	Log       Log       `toml:"log"`
	Metrics   Metrics   `toml:"metrics"`
}

// Default returns file with default pipeline settings, directory source with native frame size and text logs at info level
func Default() File {
	cfg := juggle.DefaultConfig()
	return File{
		Detection: Detection{
			TargetColor:          cfg.TargetColor.Hex(),
			ColorTolerance:       cfg.ColorTolerancePercent,
			MinBlobSize:          cfg.MinBlobSize,
			CircularityThreshold: cfg.CircularityThreshold,
			HueWeight:            cfg.HueWeight,
			ClusterRadius:        cfg.ClusterRadius,
			SampleStride:         cfg.SampleStride,
			Perimeter:            cfg.Perimeter.String(),
		},
		Tracking: Tracking{
			Mode:                cfg.Mode.String(),
			MaxTrackingDistance: cfg.MaxTrackingDistance,
			MaxMissedFrames:     cfg.MaxMissedFrames,
			InitialTrackID:      cfg.InitialTrackID,
			Matching:            cfg.Matching.String(),
		},
		Counter: Counter{
			LineHeight:      cfg.LineHeightPercent,
			CatchMultiplier: cfg.CatchMultiplier,
			CooldownFrames:  cfg.CooldownFrames,
			CooldownScope:   cfg.CooldownScope.String(),
			CountFile:       "juggle_count.txt",
		},
		Source: Source{
			Kind: "dir",
			Dir:  "frames",
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads file on top of defaults: keys missing in file keep default values
func Load(path string) (File, error) {
	file := Default()
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return File{}, errors.Wrapf(err, "Can't decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return File{}, errors.Wrapf(ErrUnknownKey, "%s: %s", path, strings.Join(keys, ", "))
	}
	return file, nil
}

// Pipeline converts file settings into validated pipeline config
func (file File) Pipeline() (juggle.Config, error) {
	cfg := juggle.DefaultConfig()
	err := cfg.SetTargetColorString(file.Detection.TargetColor)
	if err != nil {
		return cfg, errors.Wrap(err, "detection.target_color")
	}
	cfg.ColorTolerancePercent = file.Detection.ColorTolerance
	cfg.MinBlobSize = file.Detection.MinBlobSize
	cfg.CircularityThreshold = file.Detection.CircularityThreshold
	cfg.HueWeight = file.Detection.HueWeight
	cfg.ClusterRadius = file.Detection.ClusterRadius
	cfg.SampleStride = file.Detection.SampleStride
	if cfg.Perimeter, err = ParsePerimeter(file.Detection.Perimeter); err != nil {
		return cfg, err
	}

	if cfg.Mode, err = ParseMode(file.Tracking.Mode); err != nil {
		return cfg, err
	}
	cfg.MaxTrackingDistance = file.Tracking.MaxTrackingDistance
	cfg.MaxMissedFrames = file.Tracking.MaxMissedFrames
	cfg.InitialTrackID = file.Tracking.InitialTrackID
	if cfg.Matching, err = ParseMatching(file.Tracking.Matching); err != nil {
		return cfg, err
	}

	cfg.LineHeightPercent = file.Counter.LineHeight
	cfg.CatchMultiplier = file.Counter.CatchMultiplier
	cfg.CooldownFrames = file.Counter.CooldownFrames
	if cfg.CooldownScope, err = ParseCooldownScope(file.Counter.CooldownScope); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ParseMode parses "single" or "multi"
func ParseMode(s string) (juggle.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return juggle.ModeSingle, nil
	case "multi":
		return juggle.ModeMulti, nil
	}
	return juggle.ModeSingle, errors.Wrapf(juggle.ErrOutOfRange, "tracking.mode %q", s)
}

// ParseMatching parses "greedy" or "hungarian"
func ParseMatching(s string) (juggle.MatchingAlgorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "greedy":
		return juggle.MatchingGreedy, nil
	case "hungarian":
		return juggle.MatchingHungarian, nil
	}
	return juggle.MatchingGreedy, errors.Wrapf(juggle.ErrOutOfRange, "tracking.matching %q", s)
}

// ParseCooldownScope parses "shared" or "per-track"
func ParseCooldownScope(s string) (juggle.CooldownScope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shared":
		return juggle.CooldownShared, nil
	case "per-track":
		return juggle.CooldownPerTrack, nil
	}
	return juggle.CooldownShared, errors.Wrapf(juggle.ErrOutOfRange, "counter.cooldown_scope %q", s)
}

// ParsePerimeter parses "corner-cut" or "edges"
func ParsePerimeter(s string) (juggle.PerimeterEstimator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "corner-cut":
		return juggle.PerimeterCornerCut, nil
	case "edges":
		return juggle.PerimeterEdges, nil
	}
	return juggle.PerimeterCornerCut, errors.Wrapf(juggle.ErrOutOfRange, "detection.perimeter %q", s)
}
