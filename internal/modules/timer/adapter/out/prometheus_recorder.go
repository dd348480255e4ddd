package out

import (
	"github.com/prometheus/client_golang/prometheus"

	"timebox/internal/modules/timer/domain"
	timerout "timebox/internal/modules/timer/port/out"
)

type PrometheusRecorder struct {
	started     *prometheus.CounterVec
	finished    *prometheus.CounterVec
	ticks       prometheus.Counter
	persistence *prometheus.CounterVec
	recoveries  *prometheus.CounterVec
}

func NewPrometheusRecorder(reg prometheus.Registerer) (timerout.Recorder, error) {
	r := &PrometheusRecorder{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timebox",
			Name:      "sessions_started_total",
			Help:      "Sessions started, by session type.",
		}, []string{"type"}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timebox",
			Name:      "sessions_finished_total",
			Help:      "Sessions committed to history, by type and outcome.",
		}, []string{"type", "outcome"}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "timebox",
			Name:      "timer_ticks_total",
			Help:      "Countdown ticks processed while running.",
		}),
		persistence: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timebox",
			Name:      "persistence_failures_total",
			Help:      "Failed session store writes, by operation.",
		}, []string{"op"}),
		recoveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timebox",
			Name:      "recoveries_total",
			Help:      "Startup recovery outcomes.",
		}, []string{"outcome"}),
	}
	for _, c := range []prometheus.Collector{r.started, r.finished, r.ticks, r.persistence, r.recoveries} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *PrometheusRecorder) SessionStarted(sessionType domain.SessionType) {
	r.started.WithLabelValues(string(sessionType)).Inc()
}

func (r *PrometheusRecorder) SessionFinished(sessionType domain.SessionType, completed bool) {
	outcome := "stopped"
	if completed {
		outcome = "completed"
	}
	r.finished.WithLabelValues(string(sessionType), outcome).Inc()
}

func (r *PrometheusRecorder) Tick() {
	r.ticks.Inc()
}

func (r *PrometheusRecorder) PersistenceFailure(op string) {
	r.persistence.WithLabelValues(op).Inc()
}

func (r *PrometheusRecorder) Recovery(outcome domain.RecoveryOutcome) {
	r.recoveries.WithLabelValues(string(outcome)).Inc()
}
