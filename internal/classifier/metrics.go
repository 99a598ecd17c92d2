package classifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	productsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_products_classified_total",
			Help: "Products processed by classification passes, by outcome.",
		},
		[]string{"outcome"},
	)

	fitmentMatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fitment_matches_total",
			Help: "Fitment decisions per pass, by decision rule.",
		},
		[]string{"rule"},
	)

	associationsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_associations_written_total",
			Help: "Product-vehicle association rows present after rewrites.",
		},
	)

	passDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_classification_pass_duration_seconds",
			Help:    "Wall-clock duration of full classification passes.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)
)
