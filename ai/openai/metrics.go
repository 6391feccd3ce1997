package openai

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// generationDuration measures chat completion latency.
	// Labels: model, status (success, error)
	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scout",
			Subsystem: "llm",
			Name:      "generation_duration_seconds",
			Help:      "Duration of chat completion calls in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"model", "status"},
	)

	// generationsTotal counts chat completion calls.
	// Labels: model, status (success, error)
	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scout",
			Subsystem: "llm",
			Name:      "generations_total",
			Help:      "Total number of chat completion calls.",
		},
		[]string{"model", "status"},
	)
)

func recordGeneration(model string, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	generationDuration.WithLabelValues(model, status).Observe(elapsed.Seconds())
	generationsTotal.WithLabelValues(model, status).Inc()
}
