// Package telemetry registers the service's Prometheus metrics against the
// default registry. They are served on GET /metrics.
//
// HTTP metrics use the Echo route template (c.Path()) as the path label, so
// ids in URLs never inflate label cardinality.
package telemetry

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
)

// Moderation metrics.
//
// SubmissionTransitionsTotal{event, outcome}: outcome is "ok", "conflict"
// (lost a race or already terminal), "denied" or "error".
// AuthorizationDenialsTotal{reason}: reason is a policy.DenyReason.
var (
	SubmissionTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submission_transitions_total",
			Help: "Submission lifecycle transitions attempted, by event and outcome.",
		},
		[]string{"event", "outcome"},
	)

	RoleMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "role_mutations_total",
			Help: "Committed role mutations, by audit action.",
		},
		[]string{"action"},
	)

	AuthorizationDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authorization_denials_total",
			Help: "Requests denied by the authorization decision, by reason.",
		},
		[]string{"reason"},
	)
)

// RecordTransition counts one transition attempt.
func RecordTransition(event, outcome string) {
	SubmissionTransitionsTotal.WithLabelValues(event, outcome).Inc()
}

// RecordRoleMutation counts one committed role mutation.
func RecordRoleMutation(action string) {
	RoleMutationsTotal.WithLabelValues(action).Inc()
}

// RecordDenial counts one authorization denial.
func RecordDenial(reason string) {
	AuthorizationDenialsTotal.WithLabelValues(reason).Inc()
}

// Middleware records http_requests_total and http_request_duration_seconds
// for every request. Register it after Recover so error statuses are seen.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// let the error handler write the response so the status is final
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "<no-route>"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
			HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
