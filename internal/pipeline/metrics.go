package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fyrsmithlabs/suggestd/internal/suggestion"
)

var (
	runsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "suggestd",
		Name:      "runs_total",
		Help:      "Pipeline runs completed.",
	})

	suggestionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "suggestd",
		Name:      "suggestions_emitted_total",
		Help:      "Final suggestions emitted across all runs.",
	})

	dropsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "suggestd",
		Name:      "drops_total",
		Help:      "Sections and candidates dropped, by stage and reason.",
	}, []string{"stage", "reason"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "suggestd",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of pipeline runs.",
		Buckets:   prometheus.DefBuckets,
	})
)

func observeDrop(d *suggestion.Drop) {
	dropsTotal.WithLabelValues(string(d.Stage), string(d.Reason)).Inc()
}
