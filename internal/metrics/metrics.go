package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "addressd"

// Registry holds every metric of the service; exposed on /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
}

// Resolutions counts resolution requests by backend and outcome
// (resolved, not_found, error).
var Resolutions = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resolutions_total",
		Help:      "Address resolution requests by source and outcome",
	},
	[]string{"source", "outcome"},
)

// Suggestions counts suggestion lookups by kind (cities, streets).
var Suggestions = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "suggestions_total",
		Help:      "Suggestion lookups by kind",
	},
	[]string{"kind"},
)

// GeocoderRequestSeconds tracks remote provider latency.
var GeocoderRequestSeconds = promauto.With(Registry).NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "geocoder_request_seconds",
		Help:      "Remote geocoding provider request latency",
		Buckets:   prometheus.DefBuckets,
	},
)

// DatasetFeatures reports how many features the dataset currently holds.
var DatasetFeatures = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dataset_features",
		Help:      "Loaded dataset features by kind (places, roads)",
	},
	[]string{"kind"},
)
