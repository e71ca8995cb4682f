package kvstore

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "kv_store"
)

// Metrics contains metrics exposed by this package. Every metric carries the
// labels "store" and "type".
type Metrics struct {
	// Milliseconds spent in a batched fetch.
	FetchLatencyMs metrics.Histogram
	// Number of keys in a batched fetch.
	FetchBatchSize metrics.Histogram
	// Keys of fetches that did not fail, found or not.
	FetchSuccess metrics.Counter
	// Keys that were not found.
	FetchNotFound metrics.Counter
	// Keys of fetches that failed.
	FetchError metrics.Counter
}

// PrometheusMetrics returns Metrics build using Prometheus client library.
// Optionally, labels can be provided along with their values ("foo",
// "fooValue").
func PrometheusMetrics(namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}
	labels = append(labels, "store", "type")
	return &Metrics{
		FetchLatencyMs: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "num_fetches_latency_ms",
			Help:      "Latency of batched fetches in milliseconds.",
			Buckets:   stdprometheus.ExponentialBuckets(1, 2, 14),
		}, labels).With(labelsAndValues...),
		FetchBatchSize: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "num_fetches_batch_size",
			Help:      "Number of keys per batched fetch.",
			Buckets:   stdprometheus.ExponentialBuckets(1, 2, 12),
		}, labels).With(labelsAndValues...),
		FetchSuccess: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "num_fetches_success",
			Help:      "Number of keys fetched by batches that did not fail.",
		}, labels).With(labelsAndValues...),
		FetchNotFound: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "num_fetches_not_found",
			Help:      "Number of keys that were not found.",
		}, labels).With(labelsAndValues...),
		FetchError: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "num_fetches_error",
			Help:      "Number of keys fetched by batches that failed.",
		}, labels).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		FetchLatencyMs: discard.NewHistogram(),
		FetchBatchSize: discard.NewHistogram(),
		FetchSuccess:   discard.NewCounter(),
		FetchNotFound:  discard.NewCounter(),
		FetchError:     discard.NewCounter(),
	}
}
