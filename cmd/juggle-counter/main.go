package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/LdDl/juggle-go/internal/config"
	"github.com/LdDl/juggle-go/internal/metrics"
	"github.com/LdDl/juggle-go/internal/source"
	"github.com/LdDl/juggle-go/juggle"
)

// Consecutive acquisition failures tolerated before giving up
const maxSourceFailures = 30

var (
	configPath  = flag.String("config", "", "Path to TOML config file (watched for changes)")
	sourceKind  = flag.String("source", "", "Frame source: dir or camera")
	framesDir   = flag.String("dir", "", "Directory with frame images for dir source")
	device      = flag.Int("device", 0, "Camera device index")
	width       = flag.Int("width", 0, "Frame width (0 keeps native size)")
	height      = flag.Int("height", 0, "Frame height (0 keeps native size)")
	fps         = flag.Float64("fps", 0, "Max frames per second (0 is unlimited)")
	countFile   = flag.String("count-file", "", "File the count is written to")
	multi       = flag.Bool("multi", false, "Enable multi-ball tracking")
	targetColor = flag.String("color", "", "Target color as #rrggbb or rgb(r, g, b)")
	metricsAddr = flag.String("metrics", "", "Metrics server address, e.g. :9090")
	logLevel    = flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat   = flag.String("log-format", "", "Log format (text, json)")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "juggle-counter: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	file := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		file = loaded
	}
	overrideFile(&file)

	logger, err := newLogger(file.Log)
	if err != nil {
		return err
	}

	cfg, err := pipelineConfig(file)
	if err != nil {
		return err
	}

	sink, err := juggle.NewFileSink(file.Counter.CountFile)
	if err != nil {
		return err
	}
	counter, err := juggle.NewCounter(cfg, juggle.WithSink(sink), juggle.WithLogger(logger), juggle.WithPredictor(juggle.NewPredictor()))
	if err != nil {
		return err
	}
	logger = logger.With("session", counter.Session().String())
	logger.Info("counter started", "count_file", sink.Path(), "mode", cfg.Mode.String(), "target", cfg.TargetColor.Hex())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if file.Metrics.Addr != "" {
		server := m.NewServer(file.Metrics.Addr)
		go func() {
			logger.Info("metrics server started", "addr", file.Metrics.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}()
	}

	var reloads <-chan config.File
	if *configPath != "" {
		reloads, err = config.Watch(ctx, *configPath, logger)
		if err != nil {
			return err
		}
	}

	frames, err := openSource(file.Source)
	if err != nil {
		return err
	}
	defer frames.Close()

	var ticker *time.Ticker
	if file.Source.FPS > 0 {
		ticker = time.NewTicker(time.Duration(float64(time.Second) / file.Source.FPS))
		defer ticker.Stop()
	}

	status := counter.Status()
	failures := 0
	for {
		if ticker != nil {
			select {
			case <-ctx.Done():
				logger.Info("stopped", "count", counter.Count())
				return nil
			case <-ticker.C:
			}
		}
		// Pending config is applied strictly between frames
		select {
		case reloaded, ok := <-reloads:
			if ok {
				applyReload(counter, reloaded, logger)
			}
		default:
		}

		frame, err := frames.Next(ctx)
		switch {
		case errors.Is(err, context.Canceled):
			logger.Info("stopped", "count", counter.Count())
			return nil
		case errors.Is(err, source.ErrExhausted):
			logger.Info("source exhausted", "count", counter.Count())
			return nil
		case err != nil:
			m.SourceError()
			failures++
			logger.Warn("frame acquisition failed", "error", err, "failures", failures)
			if failures >= maxSourceFailures {
				return errors.Wrapf(err, "%d consecutive acquisition failures", failures)
			}
			continue
		}
		failures = 0

		started := time.Now()
		result, err := counter.ProcessFrame(frame)
		if err != nil {
			logger.Warn("frame skipped", "error", err)
			continue
		}
		m.Observe(result, time.Since(started))
		if counter.Status() != status {
			status = counter.Status()
			logger.Info("status", "message", status)
		}
	}
}

// overrideFile applies flags which were set explicitly on top of config file
func overrideFile(file *config.File) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			file.Source.Kind = *sourceKind
		case "dir":
			file.Source.Dir = *framesDir
		case "device":
			file.Source.Device = *device
		case "width":
			file.Source.Width = *width
		case "height":
			file.Source.Height = *height
		case "fps":
			file.Source.FPS = *fps
		case "count-file":
			file.Counter.CountFile = *countFile
		case "multi":
			if *multi {
				file.Tracking.Mode = juggle.ModeMulti.String()
			} else {
				file.Tracking.Mode = juggle.ModeSingle.String()
			}
		case "color":
			file.Detection.TargetColor = *targetColor
		case "metrics":
			file.Metrics.Addr = *metricsAddr
		case "log-level":
			file.Log.Level = *logLevel
		case "log-format":
			file.Log.Format = *logFormat
		}
	})
}

func pipelineConfig(file config.File) (juggle.Config, error) {
	cfg, err := file.Pipeline()
	if err != nil {
		return cfg, errors.Wrap(err, "Bad pipeline settings")
	}
	return cfg, nil
}

// applyReload keeps flag overrides over reloaded file
func applyReload(counter *juggle.Counter, file config.File, logger *slog.Logger) {
	overrideFile(&file)
	cfg, err := pipelineConfig(file)
	if err != nil {
		logger.Warn("reloaded config rejected", "error", err)
		return
	}
	if err := counter.SetConfig(cfg); err != nil {
		logger.Warn("reloaded config rejected", "error", err)
	}
}

func newLogger(settings config.Log) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(settings.Level)); err != nil {
		return nil, errors.Wrapf(err, "Bad log level %q", settings.Level)
	}
	options := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(settings.Format) {
	case "text", "":
		return slog.New(slog.NewTextHandler(os.Stderr, options)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, options)), nil
	}
	return nil, errors.Errorf("Bad log format %q", settings.Format)
}

func openSource(settings config.Source) (source.Source, error) {
	options := source.Options{
		Width:  settings.Width,
		Height: settings.Height,
		Blur:   settings.Blur,
	}
	switch settings.Kind {
	case "dir":
		return source.NewDirSource(settings.Dir, options)
	case "camera":
		return source.OpenCamera(settings.Device, options)
	}
	return nil, errors.Errorf("Unknown source %q", settings.Kind)
}
