package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the quiz pipeline collectors. A nil *Metrics records nothing.
type Metrics struct {
	generations        *prometheus.CounterVec
	generationDuration prometheus.Histogram
	submissions        prometheus.Counter
	scores             prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "generations_total",
			Help:      "Quiz generation attempts by outcome.",
		}, []string{"outcome"}),
		generationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quiz",
			Name:      "generation_duration_seconds",
			Help:      "Time spent requesting and parsing a quiz.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}),
		submissions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "submissions_total",
			Help:      "Quizzes submitted for grading.",
		}),
		scores: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quiz",
			Name:      "score_percent",
			Help:      "Distribution of graded scores.",
			Buckets:   []float64{20, 40, 60, 80, 100},
		}),
	}
}

func (m *Metrics) ObserveGeneration(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome).Inc()
	m.generationDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveSubmission(score float64) {
	if m == nil {
		return
	}
	m.submissions.Inc()
	m.scores.Observe(score)
}
