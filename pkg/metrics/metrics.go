// Package metrics registers the service's prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus instruments for the back office.
type Metrics struct {
	LoadsTotal         prometheus.Counter
	MutationsTotal     *prometheus.CounterVec
	DocumentsGenerated *prometheus.CounterVec
	ActivityPublished  prometheus.Counter
	GenerationTime     prometheus.Histogram
	ErrorsTotal        *prometheus.CounterVec
}

// New creates and registers the metrics under the given namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		LoadsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_loads_total",
			Help:      "The total number of aggregate store load cycles",
		}),
		MutationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "The total number of store mutations",
		}, []string{"entity", "action"}),
		DocumentsGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_generated_total",
			Help:      "The total number of generated documents",
		}, []string{"kind"}),
		ActivityPublished: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_events_published_total",
			Help:      "The total number of activity events published to the broker",
		}),
		GenerationTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_generation_seconds",
			Help:      "Time taken to generate documents",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
