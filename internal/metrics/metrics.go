// Package metrics exposes counter pipeline metrics for Prometheus
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LdDl/juggle-go/juggle"
)

// Metrics holds pipeline collectors in its own registry
type Metrics struct {
	registry *prometheus.Registry

	frames       prometheus.Counter
	sourceErrors prometheus.Counter
	sinkErrors   prometheus.Counter
	crossings    *prometheus.CounterVec
	blobs        prometheus.Counter
	activeTracks prometheus.Gauge
	count        prometheus.Gauge
	latency      prometheus.Histogram
}

// New creates metrics and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "juggle_frames_processed_total",
			Help: "Total frames passed through the pipeline",
		}),
		sourceErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "juggle_source_errors_total",
			Help: "Total frame acquisition failures",
		}),
		sinkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "juggle_sink_errors_total",
			Help: "Total failed count writes",
		}),
		crossings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "juggle_crossings_total",
			Help: "Total line crossings by kind",
		}, []string{"kind"}),
		blobs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "juggle_blobs_detected_total",
			Help: "Total ball candidates accepted by the circularity filter",
		}),
		activeTracks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "juggle_active_tracks",
			Help: "Number of tracks after the latest frame",
		}),
		count: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "juggle_count",
			Help: "Current catch count",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "juggle_frame_processing_seconds",
			Help:    "Time spent in the pipeline per frame",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
	}
	m.registry.MustRegister(m.frames, m.sourceErrors, m.sinkErrors, m.crossings, m.blobs, m.activeTracks, m.count, m.latency)
	return m
}

// Observe records result of one frame and time it took
func (m *Metrics) Observe(result juggle.FrameResult, elapsed time.Duration) {
	m.frames.Inc()
	m.blobs.Add(float64(len(result.Blobs)))
	m.activeTracks.Set(float64(len(result.Tracks)))
	m.count.Set(float64(result.Count))
	m.latency.Observe(elapsed.Seconds())
	for _, event := range result.Events {
		m.crossings.WithLabelValues(event.Kind.String()).Inc()
	}
	if result.SinkErr != nil {
		m.sinkErrors.Inc()
	}
}

// SetCount updates count gauge outside of frame processing (e.g. after reset)
func (m *Metrics) SetCount(count int) {
	m.count.Set(float64(count))
}

// SourceError records failed frame acquisition
func (m *Metrics) SourceError() {
	m.sourceErrors.Inc()
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// NewServer returns HTTP server exposing metrics on /metrics
func (m *Metrics) NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
