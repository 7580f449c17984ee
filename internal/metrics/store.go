package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "docgate"

// Store and listing Prometheus metrics.
var (
	StoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Document store operation duration in seconds",
			Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"op", "status"},
	)

	DocumentsDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_dropped_total",
			Help:      "Documents skipped while listing because they could not be decoded",
		},
		[]string{"collection", "reason"},
	)
)

var storeMetricsRegistered bool

// RegisterStoreMetrics registers the store metrics. Must be called once from main.
func RegisterStoreMetrics() {
	if storeMetricsRegistered {
		return
	}
	prometheus.MustRegister(StoreOperationDuration)
	prometheus.MustRegister(DocumentsDroppedTotal)
	storeMetricsRegistered = true
}

// DropCounter reports documents skipped while listing to DocumentsDroppedTotal.
type DropCounter struct{}

// Dropped increments the counter for collection and reason.
func (DropCounter) Dropped(collection, reason string) {
	DocumentsDroppedTotal.WithLabelValues(collection, reason).Inc()
}
