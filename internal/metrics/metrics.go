package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for picture uploads. A nil *Metrics records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	uploads        *prometheus.CounterVec
	uploadBytes    prometheus.Histogram
	visionDuration *prometheus.HistogramVec
}

// New creates the collectors on a dedicated registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "picture_uploads_total",
			Help: "Picture upload requests by outcome.",
		}, []string{"outcome"}),
		uploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "picture_upload_bytes",
			Help:    "Size of upload request bodies.",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		visionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "picture_vision_request_duration_seconds",
			Help:    "Latency of object detection requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.uploads,
		m.uploadBytes,
		m.visionDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveUpload records one finished upload request
func (m *Metrics) ObserveUpload(outcome string, bodySize int) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(outcome).Inc()
	m.uploadBytes.Observe(float64(bodySize))
}

type objectDetector interface {
	DetectObjects(ctx context.Context, resourceURL string) (json.RawMessage, error)
}

type instrumentedDetector struct {
	next     objectDetector
	duration *prometheus.HistogramVec
}

// InstrumentDetector wraps d so every call is timed
func (m *Metrics) InstrumentDetector(d objectDetector) objectDetector {
	if m == nil {
		return d
	}
	return &instrumentedDetector{next: d, duration: m.visionDuration}
}

func (d *instrumentedDetector) DetectObjects(ctx context.Context, resourceURL string) (json.RawMessage, error) {
	start := time.Now()
	result, err := d.next.DetectObjects(ctx, resourceURL)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	d.duration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return result, err
}
