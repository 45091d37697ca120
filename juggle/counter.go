package juggle

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrNoFrame is returned when there is no frame to process
var ErrNoFrame = errors.New("no frame")

// Counter drives the pipeline for a session: it owns config and state, writes count to the sink on every change
// and reports status messages. It is not safe for concurrent use: frames and config changes must come
// from the same goroutine, config changes are applied between frames
type Counter struct {
	session   uuid.UUID
	cfg       Config
	state     State
	sink      CountSink
	predictor *Predictor
	logger    *slog.Logger
	status    string
}

// CounterOption configures Counter
type CounterOption func(*Counter)

// WithSink sets the sink count is written to. Default discards counts
func WithSink(sink CountSink) CounterOption {
	return func(counter *Counter) {
		counter.sink = sink
	}
}

// WithLogger sets logger. Default discards logs
func WithLogger(logger *slog.Logger) CounterOption {
	return func(counter *Counter) {
		counter.logger = logger
	}
}

// WithPredictor enables Kalman predictions of track positions in FrameResult
func WithPredictor(predictor *Predictor) CounterOption {
	return func(counter *Counter) {
		counter.predictor = predictor
	}
}

// NewCounter creates counter with validated config
func NewCounter(cfg Config, options ...CounterOption) (*Counter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	counter := &Counter{
		session: uuid.New(),
		cfg:     cfg,
		state:   NewState(cfg),
		sink:    NopSink{},
		logger:  slog.New(slog.DiscardHandler),
		status:  "Ready",
	}
	for _, option := range options {
		option(counter)
	}
	counter.logger = counter.logger.With("session", counter.session.String())
	return counter, nil
}

// Session returns session identifier
func (counter *Counter) Session() uuid.UUID {
	return counter.session
}

// Count returns current count
func (counter *Counter) Count() int {
	return counter.state.Count
}

// Config returns copy of current config
func (counter *Counter) Config() Config {
	return counter.cfg
}

// State returns copy of current pipeline state
func (counter *Counter) State() State {
	return counter.state.clone()
}

// Status returns the latest status message
func (counter *Counter) Status() string {
	return counter.status
}

// ProcessFrame runs pipeline over frame, writes count to sink if it changed
func (counter *Counter) ProcessFrame(frame *image.RGBA) (FrameResult, error) {
	if frame == nil {
		return FrameResult{Count: counter.state.Count}, ErrNoFrame
	}
	next, result := Step(counter.state, frame, counter.cfg)
	counter.state = next

	if counter.predictor != nil {
		predictions, err := counter.predictor.Observe(result.Tracks)
		if err != nil {
			counter.logger.Warn("prediction failed", "error", err)
		}
		result.Predictions = predictions
	}

	for _, event := range result.Events {
		counter.logger.Info("crossing detected", "kind", event.Kind.String(), "track", event.TrackID, "y", event.Y, "count", event.Count)
	}
	if counter.logger.Enabled(context.Background(), slog.LevelDebug) {
		counter.logger.Debug("frame processed", "blobs", len(result.Blobs), "tracks", len(result.Tracks), "cooldown", next.Cooldown, "line_y", result.LineY)
	}

	if result.Status != "" {
		counter.status = result.Status
	}
	if result.CountChanged {
		result.SinkErr = counter.writeCount()
	}
	return result, nil
}

func (counter *Counter) writeCount() error {
	err := counter.sink.WriteCount(counter.state.Count)
	if err != nil {
		counter.logger.Error("can't write count", "count", counter.state.Count, "error", err)
		counter.status = "Failed to write count to file"
	}
	return err
}

// Configure applies changes to a copy of the config; the copy replaces config only if it is valid.
// Mode change resets tracking the same way SetMode does
func (counter *Counter) Configure(change func(cfg *Config) error) error {
	updated := counter.cfg
	if err := change(&updated); err != nil {
		counter.status = fmt.Sprintf("Invalid setting: %v", err)
		counter.logger.Warn("config change rejected", "error", err)
		return err
	}
	return counter.SetConfig(updated)
}

// SetConfig replaces config if it is valid
func (counter *Counter) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		counter.status = fmt.Sprintf("Invalid setting: %v", err)
		counter.logger.Warn("config rejected", "error", err)
		return err
	}
	modeChanged := cfg.Mode != counter.state.Mode
	counter.cfg = cfg
	counter.logger.Info("config applied", "target", cfg.TargetColor.Hex(), "tolerance", cfg.ColorTolerancePercent, "mode", cfg.Mode.String())
	if modeChanged {
		counter.switchMode(cfg.Mode)
	}
	return nil
}

// SetMode switches tracking mode: all tracks are cleared and ids are allocated from the start again, count is preserved
func (counter *Counter) SetMode(mode Mode) error {
	return counter.Configure(func(cfg *Config) error {
		return cfg.SetMode(mode)
	})
}

func (counter *Counter) switchMode(mode Mode) {
	counter.state = SwitchMode(counter.state, mode, counter.cfg)
	if counter.predictor != nil {
		counter.predictor.Reset()
	}
	name := "Single"
	if mode == ModeMulti {
		name = "Multi"
	}
	counter.status = fmt.Sprintf("%s-ball tracking enabled", name)
	counter.logger.Info("mode switched", "mode", mode.String())
}

// ResetCount zeroes count, clears tracking and writes 0 to the sink
func (counter *Counter) ResetCount() error {
	counter.state = ResetCount(counter.state, counter.cfg)
	if counter.predictor != nil {
		counter.predictor.Reset()
	}
	counter.status = "Count reset to 0"
	counter.logger.Info("count reset")
	return counter.writeCount()
}

// Calibrate sets target color from `rgb(r, g, b)` or `#rrggbb` text. Malformed input keeps previous color
func (counter *Counter) Calibrate(colorText string) error {
	err := counter.Configure(func(cfg *Config) error {
		return cfg.SetTargetColorString(colorText)
	})
	if err != nil {
		counter.status = fmt.Sprintf("Invalid color %q", colorText)
		return err
	}
	counter.status = fmt.Sprintf("Target color set to %s", counter.cfg.TargetColor.Hex())
	return nil
}

// CalibrateAt sets target color from the pixel at (x, y) of frame (coordinates relative to frame's top-left corner)
func (counter *Counter) CalibrateAt(frame *image.RGBA, x, y int) error {
	if frame == nil {
		return ErrNoFrame
	}
	point := image.Pt(frame.Rect.Min.X+x, frame.Rect.Min.Y+y)
	if !point.In(frame.Rect) {
		counter.status = "Calibration point is outside of frame"
		return errors.Wrapf(ErrOutOfRange, "point (%d, %d) outside of %v", x, y, frame.Rect)
	}
	sample := frame.RGBAAt(point.X, point.Y)
	err := counter.Configure(func(cfg *Config) error {
		cfg.SetTargetColor(Color{R: sample.R, G: sample.G, B: sample.B})
		return nil
	})
	if err != nil {
		return err
	}
	counter.status = "Color calibrated from video"
	return nil
}
