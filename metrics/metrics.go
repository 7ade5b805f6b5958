// Package metrics holds the Prometheus collectors served on /metrics.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quizhub_sessions_started_total",
			Help: "Total number of quiz sessions started",
		},
	)

	// status: completed/abandoned, trigger: complete/patch/sweep
	SessionsEnded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizhub_sessions_ended_total",
			Help: "Total number of quiz sessions that reached a terminal state",
		},
		[]string{"status", "trigger"},
	)

	AnswersSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizhub_answers_submitted_total",
			Help: "Total number of answers submitted",
		},
		[]string{"correct"},
	)

	SessionScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quizhub_session_score",
			Help:    "Score of completed quiz sessions",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	QuestionsImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizhub_questions_imported_total",
			Help: "Total number of questions handled by bulk imports",
		},
		[]string{"source", "status"}, // status: success/failure
	)
)

// Handler serves the default registry through fiber.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
