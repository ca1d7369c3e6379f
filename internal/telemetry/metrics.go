package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records quiz session activity. It satisfies app.Recorder.
type Metrics struct {
	sessions *prometheus.CounterVec
	active   prometheus.Gauge
	hints    *prometheus.CounterVec
	answers  *prometheus.CounterVec
	scores   prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netquiz",
			Name:      "sessions_total",
			Help:      "Quiz sessions by lifecycle event.",
		}, []string{"event"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "netquiz",
			Name:      "sessions_active",
			Help:      "Quiz sessions currently in progress.",
		}),
		hints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netquiz",
			Name:      "hints_total",
			Help:      "Hint requests by outcome.",
		}, []string{"outcome"}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netquiz",
			Name:      "answers_total",
			Help:      "Graded answers by outcome.",
		}, []string{"outcome"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "netquiz",
			Name:      "final_score_ratio",
			Help:      "Final score as a fraction of the bank total.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
	}
	reg.MustRegister(m.sessions, m.active, m.hints, m.answers, m.scores)
	return m
}

func (m *Metrics) SessionStarted() {
	m.sessions.WithLabelValues("started").Inc()
	m.active.Inc()
}

func (m *Metrics) SessionCompleted(score, total int) {
	m.sessions.WithLabelValues("completed").Inc()
	m.active.Dec()
	if total > 0 {
		m.scores.Observe(float64(score) / float64(total))
	}
}

func (m *Metrics) SessionAborted() {
	m.sessions.WithLabelValues("aborted").Inc()
	m.active.Dec()
}

func (m *Metrics) HintRequested(granted bool) {
	m.hints.WithLabelValues(outcome(granted, "granted", "denied")).Inc()
}

func (m *Metrics) AnswerGraded(correct bool) {
	m.answers.WithLabelValues(outcome(correct, "correct", "incorrect")).Inc()
}

func outcome(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
