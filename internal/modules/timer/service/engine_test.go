package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"timebox/internal/modules/timer/domain"
	timerout "timebox/internal/modules/timer/port/out"
	"timebox/internal/modules/timer/service"
	apperrors "timebox/internal/platform/errors"
	"timebox/internal/platform/logging"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time           { return c.now }
func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeID struct{}

func (fakeID) New() string { return "session_1_abc" }

type memStore struct {
	snapshot  *domain.Snapshot
	history   []domain.Session
	writes    int
	writeErr  error
	commitErr error
	corrupt   bool
}

func (m *memStore) WriteSnapshot(_ context.Context, s domain.Snapshot) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if m.snapshot != nil && s.Seq < m.snapshot.Seq {
		return nil
	}
	m.writes++
	m.snapshot = &s
	return nil
}

func (m *memStore) ReplaceSnapshot(_ context.Context, s domain.Snapshot) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.snapshot = &s
	return nil
}

func (m *memStore) ReadSnapshot(context.Context) (domain.Snapshot, error) {
	if m.corrupt {
		return domain.Snapshot{}, fmt.Errorf("%w: bad json", apperrors.ErrCorruptSnapshot)
	}
	if m.snapshot == nil {
		return domain.Snapshot{}, apperrors.ErrNoActiveSession
	}
	return *m.snapshot, nil
}

func (m *memStore) DeleteSnapshot(context.Context) error {
	m.snapshot = nil
	m.corrupt = false
	return nil
}

func (m *memStore) AppendHistory(_ context.Context, s domain.Session) error {
	m.history = append([]domain.Session{s}, m.history...)
	return nil
}

func (m *memStore) ReadHistory(context.Context) ([]domain.Session, error) {
	return m.history, nil
}

func (m *memStore) CommitTerminal(ctx context.Context, s domain.Session) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.snapshot = nil
	return m.AppendHistory(ctx, s)
}

type fakeAlerts struct {
	scheduled []time.Time
	cancelled []timerout.AlertHandle
	live      map[timerout.AlertHandle]bool
}

func (f *fakeAlerts) ScheduleCompletionAlert(_ context.Context, fireAt time.Time) (timerout.AlertHandle, error) {
	if f.live == nil {
		f.live = map[timerout.AlertHandle]bool{}
	}
	f.scheduled = append(f.scheduled, fireAt)
	h := timerout.AlertHandle(fmt.Sprintf("alert-%d", len(f.scheduled)))
	f.live[h] = true
	return h, nil
}

func (f *fakeAlerts) Cancel(_ context.Context, h timerout.AlertHandle) error {
	f.cancelled = append(f.cancelled, h)
	delete(f.live, h)
	return nil
}

type denyPolicy struct{}

func (denyPolicy) Authorize(context.Context, domain.SessionType, int) error {
	return apperrors.ErrFeatureLocked
}

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type harness struct {
	engine *service.Engine
	clock  *manualClock
	store  *memStore
	alerts *fakeAlerts
}

func newHarness() harness {
	clk := &manualClock{now: t0}
	store := &memStore{}
	alerts := &fakeAlerts{}
	engine := service.NewEngine(service.Deps{
		Clock:  clk,
		IDs:    fakeID{},
		Store:  store,
		Alerts: alerts,
		Logger: logging.Discard(),
	})
	return harness{engine: engine, clock: clk, store: store, alerts: alerts}
}

func (h harness) tick(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		h.clock.Advance(time.Second)
		if _, err := h.engine.Tick(context.Background()); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
}

func TestStartPersistsAndSchedulesAlert(t *testing.T) {
	t.Parallel()
	h := newHarness()
	status, err := h.engine.Start(context.Background(), 25, domain.SessionFocus, "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if status.State != domain.StateRunning || status.TimeLeftSeconds != 1500 || status.Progress != 0 {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.Session.Title != "Focus Session" || status.Session.Completed || status.Session.Interrupted {
		t.Fatalf("unexpected session %+v", status.Session)
	}
	if h.store.snapshot == nil || h.store.snapshot.TimeLeftSeconds != 1500 {
		t.Fatalf("snapshot not persisted: %+v", h.store.snapshot)
	}
	if len(h.alerts.scheduled) != 1 || !h.alerts.scheduled[0].Equal(t0.Add(25*time.Minute)) {
		t.Fatalf("unexpected alert schedule %v", h.alerts.scheduled)
	}
}

func TestStartWhileActiveIsRejected(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()
	if _, err := h.engine.Start(ctx, 25, domain.SessionFocus, "first"); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, err := h.engine.Start(ctx, 15, domain.SessionQuick, "second")
	if !errors.Is(err, apperrors.ErrActiveSessionExists) || !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("expected active session error, got %v", err)
	}
	if h.store.snapshot.Session.Title != "first" {
		t.Fatalf("snapshot must not be overwritten")
	}
}

func TestStartValidatesInputAndPolicy(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()
	if _, err := h.engine.Start(ctx, 0, domain.SessionFocus, ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for zero minutes, got %v", err)
	}
	if _, err := h.engine.Start(ctx, 10, domain.SessionType("nap"), ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for type, got %v", err)
	}

	locked := service.NewEngine(service.Deps{Clock: h.clock, IDs: fakeID{}, Store: &memStore{}, Policy: denyPolicy{}, Logger: logging.Discard()})
	if _, err := locked.Start(ctx, 90, domain.SessionUltra, ""); !errors.Is(err, apperrors.ErrFeatureLocked) {
		t.Fatalf("expected feature locked, got %v", err)
	}
	if locked.Status().State != domain.StateIdle {
		t.Fatalf("rejected start must leave engine idle")
	}
}

func TestFullCountdownCompletesExactlyOnce(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()
	if _, err := h.engine.Start(ctx, 25, domain.SessionFocus, "Focus Session"); err != nil {
		t.Fatalf("start: %v", err)
	}

	h.tick(t, 1499)
	if st := h.engine.Status(); st.State != domain.StateRunning || st.TimeLeftSeconds != 1 {
		t.Fatalf("unexpected status before final tick %+v", st)
	}
	h.clock.Advance(time.Second)
	completed, err := h.engine.Tick(ctx)
	if err != nil || !completed {
		t.Fatalf("final tick: completed=%v err=%v", completed, err)
	}

	if st := h.engine.Status(); st.State != domain.StateIdle || st.Session != nil {
		t.Fatalf("expected idle after completion, got %+v", st)
	}
	if len(h.store.history) != 1 {
		t.Fatalf("expected one history entry, got %d", len(h.store.history))
	}
	got := h.store.history[0]
	if !got.Completed || got.Interrupted || got.DurationMinutes != 25 || got.EndTime == nil {
		t.Fatalf("unexpected history entry %+v", got)
	}
	if !got.EndTime.Equal(t0.Add(25 * time.Minute)) {
		t.Fatalf("unexpected end time %v", got.EndTime)
	}
	if h.store.snapshot != nil {
		t.Fatalf("snapshot must be deleted after completion")
	}

	h.tick(t, 5)
	if len(h.store.history) != 1 {
		t.Fatalf("idle ticks must not append history")
	}

	var kinds []domain.EventKind
	for len(h.engine.Events()) > 0 {
		kinds = append(kinds, (<-h.engine.Events()).Kind)
	}
	if len(kinds) != 2 || kinds[0] != domain.EventStarted || kinds[1] != domain.EventCompleted {
		t.Fatalf("unexpected events %v", kinds)
	}
}

func TestTickWritesOrderedSnapshots(t *testing.T) {
	t.Parallel()
	h := newHarness()
	if _, err := h.engine.Start(context.Background(), 15, domain.SessionQuick, ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	first := h.store.snapshot.Seq
	h.tick(t, 3)
	if h.store.snapshot.Seq != first+3 {
		t.Fatalf("expected seq %d, got %d", first+3, h.store.snapshot.Seq)
	}
	if h.store.snapshot.TimeLeftSeconds != 897 {
		t.Fatalf("expected 897 seconds left, got %d", h.store.snapshot.TimeLeftSeconds)
	}
}

func TestPauseCancelsAlertAndResumeReschedules(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()
	if _, err := h.engine.Start(ctx, 15, domain.SessionQuick, ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.tick(t, 100)

	status, err := h.engine.Pause(ctx)
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if status.State != domain.StatePaused || !status.Session.Interrupted || status.TimeLeftSeconds != 800 {
		t.Fatalf("unexpected paused status %+v", status)
	}
	if len(h.alerts.live) != 0 || len(h.alerts.cancelled) != 1 {
		t.Fatalf("pause must cancel the pending alert: %+v", h.alerts)
	}
	if h.store.snapshot.State != domain.StatePaused {
		t.Fatalf("paused state not persisted")
	}

	h.tick(t, 10)
	if st := h.engine.Status(); st.TimeLeftSeconds != 800 {
		t.Fatalf("paused session must not count down, got %d", st.TimeLeftSeconds)
	}

	if _, err := h.engine.Resume(ctx); err != nil {
		t.Fatalf("resume: %v", err)
	}
	want := h.clock.Now().Add(800 * time.Second)
	if last := h.alerts.scheduled[len(h.alerts.scheduled)-1]; !last.Equal(want) {
		t.Fatalf("resume alert at %v, want %v", last, want)
	}

	h.tick(t, 800)
	if len(h.store.history) != 1 || !h.store.history[0].Completed || h.store.history[0].Interrupted {
		t.Fatalf("resumed session should complete cleanly: %+v", h.store.history)
	}
}

func TestInvalidTransitionsAreReported(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()

	if _, err := h.engine.Pause(ctx); !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("pause while idle: %v", err)
	}
	if _, err := h.engine.Resume(ctx); !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("resume while idle: %v", err)
	}
	if _, err := h.engine.Stop(ctx); !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("stop while idle: %v", err)
	}
	if _, err := h.engine.Reset(ctx); !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("reset while idle: %v", err)
	}

	if _, err := h.engine.Start(ctx, 15, domain.SessionQuick, ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, err := h.engine.Resume(ctx)
	var stateErr *domain.InvalidStateError
	if !errors.As(err, &stateErr) || stateErr.Op != "resume" || stateErr.State != domain.StateRunning {
		t.Fatalf("expected resume invalid state error, got %v", err)
	}
	if len(h.store.history) != 0 {
		t.Fatalf("invalid calls must not touch history")
	}
}

func TestStopAppendsInterruptedRecord(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()
	if _, err := h.engine.Start(ctx, 45, domain.SessionDeep, ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.tick(t, 600)

	stopped, err := h.engine.Stop(ctx)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if stopped.Completed || !stopped.Interrupted || stopped.EndTime == nil {
		t.Fatalf("unexpected stopped session %+v", stopped)
	}
	if !stopped.EndTime.Equal(t0.Add(600 * time.Second)) {
		t.Fatalf("unexpected end time %v", stopped.EndTime)
	}
	if len(h.store.history) != 1 || h.store.snapshot != nil {
		t.Fatalf("stop must append once and delete snapshot")
	}
	if len(h.alerts.live) != 0 {
		t.Fatalf("stop must cancel the pending alert")
	}
	if _, err := h.engine.Stop(ctx); !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("second stop should be rejected, got %v", err)
	}
	if len(h.store.history) != 1 {
		t.Fatalf("history must never receive two finalizations")
	}
}

func TestResetRestoresFullDuration(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()
	if _, err := h.engine.Start(ctx, 15, domain.SessionQuick, ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.tick(t, 120)

	status, err := h.engine.Reset(ctx)
	if err != nil {
		t.Fatalf("reset running: %v", err)
	}
	if status.State != domain.StateRunning || status.TimeLeftSeconds != 900 {
		t.Fatalf("unexpected status after reset %+v", status)
	}
	if len(h.alerts.scheduled) != 2 || len(h.alerts.live) != 1 {
		t.Fatalf("running reset should reschedule: %+v", h.alerts)
	}
	if !h.alerts.scheduled[1].Equal(h.clock.Now().Add(900 * time.Second)) {
		t.Fatalf("unexpected rescheduled alert %v", h.alerts.scheduled[1])
	}

	h.tick(t, 30)
	if _, err := h.engine.Pause(ctx); err != nil {
		t.Fatalf("pause: %v", err)
	}
	status, err = h.engine.Reset(ctx)
	if err != nil {
		t.Fatalf("reset paused: %v", err)
	}
	if status.State != domain.StatePaused || status.TimeLeftSeconds != 900 {
		t.Fatalf("paused reset should stay paused with full time: %+v", status)
	}
	if len(h.alerts.scheduled) != 2 || len(h.alerts.live) != 0 {
		t.Fatalf("paused reset must not schedule: %+v", h.alerts)
	}
	if len(h.store.history) != 0 {
		t.Fatalf("reset must not finalize")
	}
}

func TestSnapshotWriteFailureDoesNotStopCountdown(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()
	if _, err := h.engine.Start(ctx, 15, domain.SessionQuick, ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	<-h.engine.Events()

	h.store.writeErr = errors.New("disk full")
	h.tick(t, 5)
	if st := h.engine.Status(); st.State != domain.StateRunning || st.TimeLeftSeconds != 895 {
		t.Fatalf("countdown must continue in memory: %+v", st)
	}
	ev := <-h.engine.Events()
	if ev.Kind != domain.EventPersistenceFailed {
		t.Fatalf("expected persistence event, got %s", ev.Kind)
	}

	h.store.writeErr = nil
	h.tick(t, 1)
	if h.store.snapshot.TimeLeftSeconds != 894 {
		t.Fatalf("next tick should persist again, got %d", h.store.snapshot.TimeLeftSeconds)
	}
}

func TestCompletionCommitFailureRetriesOnNextTick(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()
	if _, err := h.engine.Start(ctx, 1, domain.SessionCustom, ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.tick(t, 59)

	h.store.commitErr = errors.New("locked")
	h.clock.Advance(time.Second)
	completed, err := h.engine.Tick(ctx)
	if completed || !errors.Is(err, apperrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got completed=%v err=%v", completed, err)
	}
	if st := h.engine.Status(); st.State != domain.StateCompleting || st.TimeLeftSeconds != 0 {
		t.Fatalf("expected completing state, got %+v", st)
	}
	if _, err := h.engine.Start(ctx, 15, domain.SessionQuick, ""); !errors.Is(err, apperrors.ErrActiveSessionExists) {
		t.Fatalf("start during pending completion should be rejected, got %v", err)
	}

	h.store.commitErr = nil
	h.clock.Advance(time.Second)
	completed, err = h.engine.Tick(ctx)
	if err != nil || !completed {
		t.Fatalf("retry: completed=%v err=%v", completed, err)
	}
	if len(h.store.history) != 1 || !h.store.history[0].Completed {
		t.Fatalf("expected one completed record, got %+v", h.store.history)
	}
	if !h.store.history[0].EndTime.Equal(t0.Add(60 * time.Second)) {
		t.Fatalf("end time should be the moment the countdown hit zero, got %v", h.store.history[0].EndTime)
	}
}

func TestStopCommitFailureKeepsSessionActive(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()
	if _, err := h.engine.Start(ctx, 25, domain.SessionFocus, ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.store.commitErr = errors.New("locked")
	_, err := h.engine.Stop(ctx)
	var perr *domain.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if st := h.engine.Status(); st.State != domain.StateRunning {
		t.Fatalf("failed stop must keep session running, got %s", st.State)
	}
	if len(h.alerts.live) != 1 {
		t.Fatalf("failed stop must keep the alert")
	}

	h.store.commitErr = nil
	if _, err := h.engine.Stop(ctx); err != nil {
		t.Fatalf("retry stop: %v", err)
	}
	if len(h.store.history) != 1 {
		t.Fatalf("expected one history record, got %d", len(h.store.history))
	}
}

func snapshotAt(start time.Time, minutes, timeLeft int, completed bool) *domain.Snapshot {
	return &domain.Snapshot{
		Session: domain.Session{
			ID:              "session_recovered",
			Title:           "Focus Session",
			DurationMinutes: minutes,
			SessionType:     domain.SessionFocus,
			StartTime:       start,
			Completed:       completed,
		},
		TimeLeftSeconds: timeLeft,
		State:           domain.StateRunning,
		Seq:             42,
	}
}

func TestRecoverOutcomes(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		snapshot *domain.Snapshot
		corrupt  bool
		want     domain.RecoveryOutcome
		timeLeft int
	}{
		{name: "no snapshot", want: domain.RecoveryNone},
		{name: "corrupt", corrupt: true, want: domain.RecoveryDiscarded},
		{name: "older than a day", snapshot: snapshotAt(t0.Add(-25*time.Hour), 25, 1500, false), want: domain.RecoveryDiscarded},
		{name: "exactly a day", snapshot: snapshotAt(t0.Add(-24*time.Hour), 25, 1500, false), want: domain.RecoveryDiscarded},
		{name: "already completed", snapshot: snapshotAt(t0.Add(-time.Minute), 25, 1440, true), want: domain.RecoveryDiscarded},
		{name: "in progress", snapshot: snapshotAt(t0.Add(-100*time.Second), 25, 1400, false), want: domain.RecoveryRestored, timeLeft: 1400},
		{name: "start in future", snapshot: snapshotAt(t0.Add(time.Minute), 25, 1500, false), want: domain.RecoveryRestored, timeLeft: 1500},
		{name: "elapsed past duration", snapshot: snapshotAt(t0.Add(-30*time.Minute), 25, 300, false), want: domain.RecoveryCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness()
			h.store.snapshot = tc.snapshot
			h.store.corrupt = tc.corrupt
			result, err := h.engine.Recover(context.Background())
			if err != nil {
				t.Fatalf("recover: %v", err)
			}
			if result.Outcome != tc.want {
				t.Fatalf("outcome %s, want %s (%s)", result.Outcome, tc.want, result.Reason)
			}
			switch tc.want {
			case domain.RecoveryDiscarded:
				if h.store.snapshot != nil || result.Reason == "" {
					t.Fatalf("discard must delete snapshot and give a reason")
				}
				if ev := <-h.engine.Events(); ev.Kind != domain.EventRecoveryDiscarded {
					t.Fatalf("expected discard event, got %s", ev.Kind)
				}
			case domain.RecoveryRestored:
				st := h.engine.Status()
				if st.State != domain.StatePaused || st.TimeLeftSeconds != tc.timeLeft || result.TimeLeftSeconds != tc.timeLeft {
					t.Fatalf("unexpected restored status %+v", st)
				}
				if len(h.alerts.scheduled) != 0 {
					t.Fatalf("recovery must never auto-resume")
				}
			case domain.RecoveryCompleted:
				if len(h.store.history) != 1 || !h.store.history[0].Completed || h.store.snapshot != nil {
					t.Fatalf("expected completed history append: %+v", h.store.history)
				}
			}
		})
	}
}

func TestRecoverCompletionIsIdempotentAcrossRestarts(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.store.snapshot = snapshotAt(t0.Add(-2*time.Hour), 45, 10, false)

	result, err := h.engine.Recover(context.Background())
	if err != nil || result.Outcome != domain.RecoveryCompleted {
		t.Fatalf("first recovery: %+v %v", result, err)
	}
	want := t0.Add(-2 * time.Hour).Add(45 * time.Minute)
	if !result.Session.EndTime.Equal(want) {
		t.Fatalf("completed end time %v, want %v", result.Session.EndTime, want)
	}

	restarted := service.NewEngine(service.Deps{Clock: h.clock, IDs: fakeID{}, Store: h.store, Logger: logging.Discard()})
	result, err = restarted.Recover(context.Background())
	if err != nil || result.Outcome != domain.RecoveryNone {
		t.Fatalf("second recovery should be a no-op: %+v %v", result, err)
	}
	if len(h.store.history) != 1 {
		t.Fatalf("expected exactly one append, got %d", len(h.store.history))
	}
}

func TestRecoverRequiresIdle(t *testing.T) {
	t.Parallel()
	h := newHarness()
	if _, err := h.engine.Start(context.Background(), 15, domain.SessionQuick, ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := h.engine.Recover(context.Background()); !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	engine := service.NewEngine(service.Deps{Store: store, TickInterval: time.Millisecond, Logger: logging.Discard()})
	if _, err := engine.Start(context.Background(), 1, domain.SessionCustom, ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for engine.Status().TimeLeftSeconds == 60 {
		select {
		case <-deadline:
			t.Fatalf("run loop never ticked")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
}
