package authority

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "safe_client"
)

// Method label values.
const (
	methodHandleTransaction            = "handle_transaction"
	methodHandleCertificate            = "handle_certificate"
	methodHandleObjectInfoRequest      = "handle_object_info_request"
	methodHandleTransactionInfoRequest = "handle_transaction_info_request"
)

// Metrics contains metrics exposed by this package. Every metric carries the
// labels "address" and "method".
type Metrics struct {
	// Requests sent to a validator.
	TotalRequests metrics.Counter
	// Responses that passed every check.
	TotalOkResponses metrics.Counter
	// Seconds spent in a call, checks included.
	Latency metrics.Histogram
}

// PrometheusMetrics returns Metrics build using Prometheus client library.
// Optionally, labels can be provided along with their values ("foo",
// "fooValue").
func PrometheusMetrics(namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}
	labels = append(labels, "address", "method")
	return &Metrics{
		TotalRequests: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "total_requests_by_address_method",
			Help:      "Total number of requests sent to a validator, by address and method.",
		}, labels).With(labelsAndValues...),
		TotalOkResponses: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "total_responses_by_address_method",
			Help:      "Total number of validated responses from a validator, by address and method.",
		}, labels).With(labelsAndValues...),
		Latency: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "latency",
			Help:      "Latency of a request to a validator, by address and method.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, labels).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		TotalRequests:    discard.NewCounter(),
		TotalOkResponses: discard.NewCounter(),
		Latency:          discard.NewHistogram(),
	}
}

// clientMetrics are the metrics of one validator, with the address label
// bound.
type clientMetrics struct {
	totalRequestsTxInfo    metrics.Counter
	totalOkTxInfo          metrics.Counter
	totalRequestsObjInfo   metrics.Counter
	totalOkObjInfo         metrics.Counter
	handleTransactionTimer metrics.Histogram
	handleCertificateTimer metrics.Histogram
	handleObjInfoTimer     metrics.Histogram
	handleTxInfoTimer      metrics.Histogram
}

func newClientMetrics(m *Metrics, address string) *clientMetrics {
	with := func(method string) []string {
		return []string{"address", address, "method", method}
	}
	return &clientMetrics{
		totalRequestsTxInfo:    m.TotalRequests.With(with(methodHandleTransactionInfoRequest)...),
		totalOkTxInfo:          m.TotalOkResponses.With(with(methodHandleTransactionInfoRequest)...),
		totalRequestsObjInfo:   m.TotalRequests.With(with(methodHandleObjectInfoRequest)...),
		totalOkObjInfo:         m.TotalOkResponses.With(with(methodHandleObjectInfoRequest)...),
		handleTransactionTimer: m.Latency.With(with(methodHandleTransaction)...),
		handleCertificateTimer: m.Latency.With(with(methodHandleCertificate)...),
		handleObjInfoTimer:     m.Latency.With(with(methodHandleObjectInfoRequest)...),
		handleTxInfoTimer:      m.Latency.With(with(methodHandleTransactionInfoRequest)...),
	}
}
