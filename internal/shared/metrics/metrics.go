package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AnalysisStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_analysis_started_total",
			Help: "Total ticket analyses started",
		},
	)

	AnalysisCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_analysis_completed_total",
			Help: "Total ticket analyses completed by detected language",
		},
		[]string{"language"},
	)

	AnalysisFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_analysis_failed_total",
			Help: "Total ticket analyses failed by error kind",
		},
		[]string{"kind"},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticket_analysis_duration_seconds",
			Help:    "Ticket analysis duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
	)

	ImagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_analysis_images_dropped_total",
			Help: "Uploaded images that could not be normalized",
		},
	)

	TrackerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tracker_request_duration_seconds",
			Help:    "Issue tracker call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "outcome"},
	)

	CredentialCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credential_cache_lookups_total",
			Help: "Credential cache lookups by result",
		},
		[]string{"result"},
	)
)

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Outcome labels a call result for duration histograms.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
