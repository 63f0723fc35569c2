// Package metrics holds the Prometheus collectors shared by the API and the
// worker. Collectors register on the default registry at init.
package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ProjectAnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradesmarket_project_analyses_total",
			Help: "Project analyses attached, by risk level",
		},
		[]string{"risk_level"},
	)

	MatchScoresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradesmarket_match_scores_total",
			Help: "Professional/project pairs scored, by outcome",
		},
		[]string{"outcome"},
	)

	RescoresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradesmarket_rescores_total",
			Help: "Trade score recomputations, by trigger and outcome",
		},
		[]string{"reason", "outcome"},
	)

	RescoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tradesmarket_rescore_duration_seconds",
			Help:    "Duration of a trade score recomputation including persistence",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"reason"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tradesmarket_http_request_duration_seconds",
			Help:    "HTTP request latency by route template and status class",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Outcome labels.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// ObserveRescore records one recomputation.
func ObserveRescore(reason string, started time.Time, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	RescoresTotal.WithLabelValues(reason, outcome).Inc()
	RescoreDuration.WithLabelValues(reason).Observe(time.Since(started).Seconds())
}

// ObserveMatch records one scored pair.
func ObserveMatch(err error) {
	if err != nil {
		MatchScoresTotal.WithLabelValues(OutcomeInvalid).Inc()
		return
	}
	MatchScoresTotal.WithLabelValues(OutcomeOK).Inc()
}

// Middleware records request latency under the matched route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, statusClass(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
