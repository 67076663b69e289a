package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search pipeline metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_requests_total",
			Help:      "Live search requests by outcome",
		},
		[]string{"outcome"}, // ok / empty / too_short / disabled / error
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_duration_seconds",
			Help:      "End-to-end search pipeline duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	CatalogQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "catalog_query_duration_seconds",
			Help:      "Catalog query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"query"}, // products / product_cat / product_tag
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_results",
			Help:      "Number of results returned per section",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"section"},
	)
)

var registerSearchOnce sync.Once

// RegisterSearchMetrics registers the search collectors. Safe to call more than once.
func RegisterSearchMetrics() {
	registerSearchOnce.Do(func() {
		prometheus.MustRegister(SearchRequestsTotal)
		prometheus.MustRegister(SearchDuration)
		prometheus.MustRegister(CatalogQueryDuration)
		prometheus.MustRegister(SearchResults)
	})
}
