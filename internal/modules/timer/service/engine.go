package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"timebox/internal/modules/timer/domain"
	timerout "timebox/internal/modules/timer/port/out"
	"timebox/internal/platform/clock"
	apperrors "timebox/internal/platform/errors"
	"timebox/internal/platform/id"
	"timebox/internal/platform/logging"
)

const eventBuffer = 32

type Deps struct {
	Clock        clock.Clock
	IDs          id.Generator
	Store        timerout.SessionStore
	Alerts       timerout.AlertScheduler
	Policy       timerout.PresetPolicy
	Recorder     timerout.Recorder
	Logger       *slog.Logger
	TickInterval time.Duration
}

// Engine owns the single active session. Commands and ticks are serialized by mu,
// so a session is finalized into history at most once.
type Engine struct {
	mu       sync.Mutex
	clock    clock.Clock
	ids      id.Generator
	store    timerout.SessionStore
	alerts   timerout.AlertScheduler
	policy   timerout.PresetPolicy
	recorder timerout.Recorder
	logger   *slog.Logger
	interval time.Duration

	state    domain.State
	session  domain.Session
	timeLeft int
	seq      int64
	alert    timerout.AlertHandle
	pending  *domain.Session

	events chan domain.Event
}

func NewEngine(deps Deps) *Engine {
	e := &Engine{
		clock:    deps.Clock,
		ids:      deps.IDs,
		store:    deps.Store,
		alerts:   deps.Alerts,
		policy:   deps.Policy,
		recorder: deps.Recorder,
		logger:   logging.OrDefault(deps.Logger),
		interval: deps.TickInterval,
		state:    domain.StateIdle,
		events:   make(chan domain.Event, eventBuffer),
	}
	if e.clock == nil {
		e.clock = clock.SystemClock{}
	}
	if e.ids == nil {
		e.ids = id.SessionToken{Clock: e.clock}
	}
	if e.alerts == nil {
		e.alerts = noopAlerts{}
	}
	if e.policy == nil {
		e.policy = allowAll{}
	}
	if e.recorder == nil {
		e.recorder = noopRecorder{}
	}
	if e.interval <= 0 {
		e.interval = time.Second
	}
	return e
}

// Events delivers lifecycle notifications. Sends never block; a slow reader misses events.
func (e *Engine) Events() <-chan domain.Event {
	return e.events
}

func (e *Engine) Status() domain.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statusLocked()
}

func (e *Engine) History(ctx context.Context) ([]domain.Session, error) {
	history, err := e.store.ReadHistory(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read history", Err: err}
	}
	return history, nil
}

func (e *Engine) Start(ctx context.Context, minutes int, sessionType domain.SessionType, title string) (domain.Status, error) {
	if err := sessionType.Validate(); err != nil {
		return domain.Status{}, err
	}
	if minutes <= 0 {
		return domain.Status{}, fmt.Errorf("%w: duration must be positive", apperrors.ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != domain.StateIdle {
		return domain.Status{}, fmt.Errorf("%w: %w", apperrors.ErrActiveSessionExists, &domain.InvalidStateError{Op: "start", State: e.state})
	}
	if err := e.policy.Authorize(ctx, sessionType, minutes); err != nil {
		return domain.Status{}, err
	}

	now := e.clock.Now()
	if strings.TrimSpace(title) == "" {
		title = defaultTitle(sessionType)
	}
	e.session = domain.Session{
		ID:              e.ids.New(),
		Title:           title,
		DurationMinutes: minutes,
		SessionType:     sessionType,
		StartTime:       now,
	}
	e.timeLeft = e.session.TotalSeconds()
	e.seq = 0
	e.state = domain.StateRunning
	e.writeSnapshot(ctx, "start", true)
	e.scheduleAlert(ctx, now)

	e.recorder.SessionStarted(sessionType)
	e.logger.Info("session started", "session_id", e.session.ID, "type", sessionType, "minutes", minutes)
	e.emit(domain.Event{Kind: domain.EventStarted, Session: e.session, At: now})
	return e.statusLocked(), nil
}

func (e *Engine) Pause(ctx context.Context) (domain.Status, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != domain.StateRunning {
		return domain.Status{}, &domain.InvalidStateError{Op: "pause", State: e.state}
	}
	e.cancelAlert(ctx)
	e.session.Interrupted = true
	e.state = domain.StatePaused
	e.writeSnapshot(ctx, "pause", false)
	e.logger.Info("session paused", "session_id", e.session.ID, "time_left", e.timeLeft)
	return e.statusLocked(), nil
}

func (e *Engine) Resume(ctx context.Context) (domain.Status, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != domain.StatePaused || e.timeLeft <= 0 {
		return domain.Status{}, &domain.InvalidStateError{Op: "resume", State: e.state}
	}
	e.state = domain.StateRunning
	e.scheduleAlert(ctx, e.clock.Now())
	e.writeSnapshot(ctx, "resume", false)
	e.logger.Info("session resumed", "session_id", e.session.ID, "time_left", e.timeLeft)
	return e.statusLocked(), nil
}

func (e *Engine) Reset(ctx context.Context) (domain.Status, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case domain.StateRunning:
		e.cancelAlert(ctx)
		e.timeLeft = e.session.TotalSeconds()
		e.scheduleAlert(ctx, e.clock.Now())
	case domain.StatePaused:
		e.cancelAlert(ctx)
		e.timeLeft = e.session.TotalSeconds()
	default:
		return domain.Status{}, &domain.InvalidStateError{Op: "reset", State: e.state}
	}
	e.writeSnapshot(ctx, "reset", false)
	return e.statusLocked(), nil
}

// Stop finalizes the active session as interrupted. If the history commit fails the
// session stays active and the call may be retried.
func (e *Engine) Stop(ctx context.Context) (domain.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case domain.StateCompleting:
		done := *e.pending
		if _, err := e.commitCompletion(ctx); err != nil {
			return domain.Session{}, err
		}
		return done, nil
	case domain.StateRunning, domain.StatePaused:
	default:
		return domain.Session{}, &domain.InvalidStateError{Op: "stop", State: e.state}
	}

	now := e.clock.Now()
	final := e.session.Finalize(now, false)
	if err := e.store.CommitTerminal(ctx, final); err != nil {
		e.persistenceFailed("commit stopped session", err, now)
		return domain.Session{}, &domain.PersistenceError{Op: "commit stopped session", Err: err}
	}
	e.cancelAlert(ctx)
	e.clearLocked()

	e.recorder.SessionFinished(final.SessionType, false)
	e.logger.Info("session stopped", "session_id", final.ID)
	e.emit(domain.Event{Kind: domain.EventStopped, Session: final, At: now})
	return final, nil
}

// Tick advances the countdown by one second. It reports true when the session completed
// and was committed. Snapshot write failures are logged only; a failed completion commit
// is returned and retried on the next tick.
func (e *Engine) Tick(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case domain.StateCompleting:
		return e.commitCompletion(ctx)
	case domain.StateRunning:
	default:
		return false, nil
	}

	e.recorder.Tick()
	if e.timeLeft > 0 {
		e.timeLeft--
	}
	if e.timeLeft > 0 {
		e.writeSnapshot(ctx, "tick", false)
		return false, nil
	}

	final := e.session.Finalize(e.clock.Now(), true)
	e.pending = &final
	e.state = domain.StateCompleting
	// the alert for this moment has fired or is about to
	e.alert = ""
	return e.commitCompletion(ctx)
}

func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := e.Tick(ctx); err != nil {
				e.logger.Warn("completion not committed, retrying next tick", "error", err)
			}
		}
	}
}

// Recover restores the persisted snapshot. A live session always comes back paused.
func (e *Engine) Recover(ctx context.Context) (domain.RecoveryResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != domain.StateIdle {
		return domain.RecoveryResult{}, &domain.InvalidStateError{Op: "recover", State: e.state}
	}

	now := e.clock.Now()
	snapshot, err := e.store.ReadSnapshot(ctx)
	switch {
	case errors.Is(err, apperrors.ErrNoActiveSession):
		e.recorder.Recovery(domain.RecoveryNone)
		return domain.RecoveryResult{Outcome: domain.RecoveryNone}, nil
	case errors.Is(err, apperrors.ErrCorruptSnapshot):
		return e.discard(ctx, domain.Session{}, err.Error(), now)
	case err != nil:
		return domain.RecoveryResult{}, &domain.PersistenceError{Op: "read snapshot", Err: err}
	}

	session := snapshot.Session
	elapsed := now.Sub(session.StartTime)
	if elapsed < 0 {
		elapsed = 0
	}
	if session.Completed {
		return e.discard(ctx, session, "snapshot already completed", now)
	}
	if elapsed >= domain.MaxSnapshotAge {
		return e.discard(ctx, session, "snapshot older than 24h", now)
	}

	remaining := session.TotalSeconds() - int(elapsed/time.Second)
	if remaining <= 0 {
		fireAt := session.StartTime.Add(time.Duration(session.TotalSeconds()) * time.Second)
		final := session.Finalize(fireAt, true)
		if err := e.store.CommitTerminal(ctx, final); err != nil {
			e.persistenceFailed("commit recovered session", err, now)
			return domain.RecoveryResult{}, &domain.PersistenceError{Op: "commit recovered session", Err: err}
		}
		e.recorder.Recovery(domain.RecoveryCompleted)
		e.recorder.SessionFinished(final.SessionType, true)
		e.logger.Info("recovered session completed while away", "session_id", final.ID)
		e.emit(domain.Event{Kind: domain.EventCompleted, Session: final, At: now})
		return domain.RecoveryResult{Outcome: domain.RecoveryCompleted, Session: &final}, nil
	}

	session.Interrupted = true
	e.session = session
	e.timeLeft = remaining
	e.seq = snapshot.Seq
	e.state = domain.StatePaused
	e.writeSnapshot(ctx, "recover", false)

	e.recorder.Recovery(domain.RecoveryRestored)
	e.logger.Info("session recovered paused", "session_id", session.ID, "time_left", remaining)
	e.emit(domain.Event{Kind: domain.EventRecovered, Session: session, At: now})
	restored := session
	return domain.RecoveryResult{Outcome: domain.RecoveryRestored, Session: &restored, TimeLeftSeconds: remaining}, nil
}

func (e *Engine) discard(ctx context.Context, session domain.Session, reason string, now time.Time) (domain.RecoveryResult, error) {
	if err := e.store.DeleteSnapshot(ctx); err != nil {
		return domain.RecoveryResult{}, &domain.PersistenceError{Op: "delete snapshot", Err: err}
	}
	e.recorder.Recovery(domain.RecoveryDiscarded)
	e.logger.Info("snapshot discarded", "session_id", session.ID, "reason", reason)
	e.emit(domain.Event{Kind: domain.EventRecoveryDiscarded, Session: session, Reason: reason, At: now})
	return domain.RecoveryResult{Outcome: domain.RecoveryDiscarded, Reason: reason}, nil
}

func (e *Engine) commitCompletion(ctx context.Context) (bool, error) {
	final := *e.pending
	if err := e.store.CommitTerminal(ctx, final); err != nil {
		e.persistenceFailed("commit completed session", err, e.clock.Now())
		return false, &domain.PersistenceError{Op: "commit completed session", Err: err}
	}
	e.clearLocked()
	e.recorder.SessionFinished(final.SessionType, true)
	e.logger.Info("session completed", "session_id", final.ID, "minutes", final.DurationMinutes)
	e.emit(domain.Event{Kind: domain.EventCompleted, Session: final, At: *final.EndTime})
	return true, nil
}

func (e *Engine) writeSnapshot(ctx context.Context, op string, replace bool) {
	e.seq++
	snapshot := domain.Snapshot{
		Session:         e.session,
		TimeLeftSeconds: e.timeLeft,
		State:           e.state,
		Seq:             e.seq,
	}
	var err error
	if replace {
		err = e.store.ReplaceSnapshot(ctx, snapshot)
	} else {
		err = e.store.WriteSnapshot(ctx, snapshot)
	}
	if err != nil {
		e.persistenceFailed(op, err, e.clock.Now())
	}
}

func (e *Engine) persistenceFailed(op string, err error, at time.Time) {
	e.recorder.PersistenceFailure(op)
	e.logger.Warn("persistence failed", "op", op, "session_id", e.session.ID, "seq", e.seq, "error", err)
	e.emit(domain.Event{Kind: domain.EventPersistenceFailed, Session: e.session, Reason: err.Error(), At: at})
}

func (e *Engine) scheduleAlert(ctx context.Context, now time.Time) {
	fireAt := now.Add(time.Duration(e.timeLeft) * time.Second)
	handle, err := e.alerts.ScheduleCompletionAlert(ctx, fireAt)
	if err != nil {
		e.logger.Warn("schedule completion alert", "session_id", e.session.ID, "error", err)
		return
	}
	e.alert = handle
}

func (e *Engine) cancelAlert(ctx context.Context) {
	if e.alert == "" {
		return
	}
	if err := e.alerts.Cancel(ctx, e.alert); err != nil {
		e.logger.Warn("cancel completion alert", "session_id", e.session.ID, "error", err)
	}
	e.alert = ""
}

func (e *Engine) clearLocked() {
	e.state = domain.StateIdle
	e.session = domain.Session{}
	e.timeLeft = 0
	e.seq = 0
	e.alert = ""
	e.pending = nil
}

func (e *Engine) statusLocked() domain.Status {
	if e.state == domain.StateIdle {
		return domain.Status{State: domain.StateIdle}
	}
	session := e.session
	return domain.Status{
		State:           e.state,
		Session:         &session,
		TimeLeftSeconds: e.timeLeft,
		Progress:        domain.Progress(e.timeLeft, session.TotalSeconds()),
	}
}

func (e *Engine) emit(event domain.Event) {
	select {
	case e.events <- event:
	default:
		e.logger.Debug("event dropped", "kind", event.Kind)
	}
}

func defaultTitle(t domain.SessionType) string {
	name := string(t)
	if name == "" {
		return "Session"
	}
	return strings.ToUpper(name[:1]) + name[1:] + " Session"
}
