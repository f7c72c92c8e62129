package assets

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels how an upload finished.
type Outcome string

const (
	OutcomeCreated  Outcome = "created"
	OutcomeReused   Outcome = "reused"
	OutcomeRenamed  Outcome = "renamed"
	OutcomeRaced    Outcome = "raced"
	OutcomeRejected Outcome = "rejected"
	OutcomeFailed   Outcome = "failed"
)

// Observer captures telemetry for ingestion.
type Observer interface {
	RecordIngest(assetType string, outcome Outcome, duration time.Duration, storedBytes int64)
}

// PrometheusObserver exports ingestion metrics to Prometheus.
type PrometheusObserver struct {
	uploads     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	storedBytes prometheus.Counter
}

// NewPrometheusObserver registers the ingestion collectors on reg.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "assetd"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Uploads by asset type and outcome.",
	}, []string{"asset_type", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_duration_seconds",
		Help:      "Latency of upload requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})
	storedBytes := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stored_bytes_total",
		Help:      "Bytes written to object storage.",
	})

	observer := &PrometheusObserver{}
	register := func(c prometheus.Collector) (prometheus.Collector, error) {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				return are.ExistingCollector, nil
			}
			return nil, fmt.Errorf("register ingest metric: %w", err)
		}
		return c, nil
	}
	c, err := register(uploads)
	if err != nil {
		return nil, err
	}
	observer.uploads = c.(*prometheus.CounterVec)
	if c, err = register(duration); err != nil {
		return nil, err
	}
	observer.duration = c.(*prometheus.HistogramVec)
	if c, err = register(storedBytes); err != nil {
		return nil, err
	}
	observer.storedBytes = c.(prometheus.Counter)
	return observer, nil
}

// RecordIngest counts the upload and, for new blobs, the bytes written.
func (o *PrometheusObserver) RecordIngest(assetType string, outcome Outcome, duration time.Duration, storedBytes int64) {
	if o == nil {
		return
	}
	o.uploads.WithLabelValues(assetType, string(outcome)).Inc()
	o.duration.WithLabelValues(string(outcome)).Observe(duration.Seconds())
	if storedBytes > 0 {
		o.storedBytes.Add(float64(storedBytes))
	}
}

type nopObserver struct{}

func (nopObserver) RecordIngest(string, Outcome, time.Duration, int64) {}
