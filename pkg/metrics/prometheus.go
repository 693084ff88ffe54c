package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	providerRequests *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	rebuilds         *prometheus.CounterVec
	rebuildDuration  prometheus.Histogram
	compositeScore   *prometheus.GaugeVec
	errorsTotal      *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		providerRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "showpulse_provider_requests_total",
				Help: "Provider fetch attempts by outcome (ok, absent, error, timeout, ratelimited)",
			},
			[]string{"provider", "outcome"},
		),
		providerLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "showpulse_provider_fetch_seconds",
				Help:    "Provider fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		rebuilds: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "showpulse_rebuilds_total",
				Help: "Snapshot rebuilds by outcome",
			},
			[]string{"outcome"},
		),
		rebuildDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "showpulse_rebuild_duration_seconds",
				Help:    "Full snapshot rebuild duration in seconds",
				Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
			},
		),
		compositeScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "showpulse_composite_score",
				Help: "Latest composite score per show",
			},
			[]string{"show"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "showpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordProviderRequest records one provider fetch attempt and its outcome.
func (r *Recorder) RecordProviderRequest(provider, outcome string) {
	r.providerRequests.WithLabelValues(provider, outcome).Inc()
}

// RecordProviderLatency records the latency of one provider fetch.
func (r *Recorder) RecordProviderLatency(provider string, seconds float64) {
	r.providerLatency.WithLabelValues(provider).Observe(seconds)
}

// RecordRebuild records a completed rebuild attempt.
func (r *Recorder) RecordRebuild(outcome string, seconds float64) {
	r.rebuilds.WithLabelValues(outcome).Inc()
	r.rebuildDuration.Observe(seconds)
}

// RecordCompositeScore records the latest composite score for a show.
func (r *Recorder) RecordCompositeScore(show string, score float64) {
	r.compositeScore.WithLabelValues(show).Set(score)
}

// WatchSnapshotAge registers a gauge that reports, at scrape time, how long
// ago the latest snapshot was published. Reads 0 until the first publish.
func (r *Recorder) WatchSnapshotAge(lastPublished func() (time.Time, bool)) {
	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "showpulse_snapshot_age_seconds",
			Help: "Seconds since the latest snapshot was published",
		},
		func() float64 {
			ts, ok := lastPublished()
			if !ok {
				return 0
			}
			return time.Since(ts).Seconds()
		},
	)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
