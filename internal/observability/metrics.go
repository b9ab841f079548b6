package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventServiceCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_service_calls_total",
		Help: "Total number of Event Service calls by operation and outcome",
	}, []string{"operation", "outcome"})

	eventServiceCallDuration = promauto.NewSummaryVec(prometheus.SummaryOpts{
		Name:       "event_service_call_duration_seconds",
		Help:       "Duration of Event Service calls in seconds",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"operation"})

	bookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_total",
		Help: "Total number of booking submissions by result",
	}, []string{"result"})

	staleResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "view_stale_responses_total",
		Help: "Responses dropped because a newer refresh of the same view was started",
	}, []string{"view"})

	MessagesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messages_processed_total",
		Help: "Total number of messages processed",
	}, []string{"topic", "handler"})

	MessagesProcessingFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messages_processing_failed_total",
		Help: "Total number of messages processing failures",
	}, []string{"topic", "handler"})

	MessagesProcessingDuration = promauto.NewSummaryVec(prometheus.SummaryOpts{
		Name:       "messages_processing_duration_seconds",
		Help:       "Duration of message processing in seconds",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"topic", "handler"})
)

func ObserveEventServiceCall(operation, outcome string, took time.Duration) {
	eventServiceCallsTotal.WithLabelValues(operation, outcome).Inc()
	eventServiceCallDuration.WithLabelValues(operation).Observe(took.Seconds())
}

func CountBooking(result string) {
	bookingsTotal.WithLabelValues(result).Inc()
}

func CountStaleResponse(view string) {
	staleResponsesTotal.WithLabelValues(view).Inc()
}
