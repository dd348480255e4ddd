package out

import (
	"context"
	"time"

	"timebox/internal/modules/timer/domain"
)

type SnapshotStore interface {
	// WriteSnapshot replaces the snapshot unless a newer Seq is already stored.
	WriteSnapshot(ctx context.Context, snapshot domain.Snapshot) error
	// ReplaceSnapshot overwrites unconditionally and resets the stored sequence.
	ReplaceSnapshot(ctx context.Context, snapshot domain.Snapshot) error
	// ReadSnapshot returns ErrNoActiveSession when absent and ErrCorruptSnapshot when unreadable.
	ReadSnapshot(ctx context.Context) (domain.Snapshot, error)
	DeleteSnapshot(ctx context.Context) error
}

type HistoryStore interface {
	AppendHistory(ctx context.Context, session domain.Session) error
	ReadHistory(ctx context.Context) ([]domain.Session, error)
}

// TerminalCommitter appends a finalized session and deletes the snapshot atomically.
type TerminalCommitter interface {
	CommitTerminal(ctx context.Context, session domain.Session) error
}

type SessionStore interface {
	SnapshotStore
	HistoryStore
	TerminalCommitter
}

type AlertHandle string

type AlertScheduler interface {
	ScheduleCompletionAlert(ctx context.Context, fireAt time.Time) (AlertHandle, error)
	Cancel(ctx context.Context, handle AlertHandle) error
}

type PresetPolicy interface {
	Authorize(ctx context.Context, sessionType domain.SessionType, minutes int) error
}

type Recorder interface {
	SessionStarted(sessionType domain.SessionType)
	SessionFinished(sessionType domain.SessionType, completed bool)
	Tick()
	PersistenceFailure(op string)
	Recovery(outcome domain.RecoveryOutcome)
}
