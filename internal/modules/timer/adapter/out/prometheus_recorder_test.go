package out_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	timeradapter "timebox/internal/modules/timer/adapter/out"
	"timebox/internal/modules/timer/domain"
)

func TestPrometheusRecorderCounts(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	recorder, err := timeradapter.NewPrometheusRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	recorder.SessionStarted(domain.SessionFocus)
	recorder.SessionFinished(domain.SessionFocus, true)
	recorder.SessionFinished(domain.SessionFocus, false)
	recorder.Tick()
	recorder.Tick()
	recorder.PersistenceFailure("tick")
	recorder.Recovery(domain.RecoveryRestored)

	if got := testutil.CollectAndCount(reg, "timebox_sessions_finished_total"); got != 2 {
		t.Fatalf("expected 2 finished series, got %d", got)
	}
	if got := testutil.CollectAndCount(reg, "timebox_timer_ticks_total"); got != 1 {
		t.Fatalf("expected tick counter, got %d", got)
	}
	if _, err := timeradapter.NewPrometheusRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}
