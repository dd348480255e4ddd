package domain

import (
	"fmt"
	"time"

	apperrors "timebox/internal/platform/errors"
)

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
	// StateCompleting holds a session whose countdown hit zero but whose
	// history commit has not landed yet.
	StateCompleting State = "completing"
)

// Snapshot is the persisted form of the active session.
type Snapshot struct {
	Session         Session `json:"session"`
	TimeLeftSeconds int     `json:"timeLeft"`
	State           State   `json:"state"`
	Seq             int64   `json:"seq"`
}

func (s Snapshot) Validate() error {
	switch {
	case s.Session.ID == "":
		return fmt.Errorf("%w: missing session id", apperrors.ErrCorruptSnapshot)
	case s.Session.DurationMinutes <= 0:
		return fmt.Errorf("%w: non-positive duration", apperrors.ErrCorruptSnapshot)
	case s.Session.StartTime.IsZero():
		return fmt.Errorf("%w: missing start time", apperrors.ErrCorruptSnapshot)
	case s.TimeLeftSeconds < 0 || s.TimeLeftSeconds > s.Session.TotalSeconds():
		return fmt.Errorf("%w: time left %d out of range", apperrors.ErrCorruptSnapshot, s.TimeLeftSeconds)
	}
	if err := s.Session.SessionType.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrCorruptSnapshot, err)
	}
	return nil
}

type Status struct {
	State           State
	Session         *Session
	TimeLeftSeconds int
	Progress        float64
}

type EventKind string

const (
	EventStarted           EventKind = "started"
	EventCompleted         EventKind = "completed"
	EventStopped           EventKind = "stopped"
	EventRecovered         EventKind = "recovered"
	EventRecoveryDiscarded EventKind = "recovery_discarded"
	EventPersistenceFailed EventKind = "persistence_failed"
)

type Event struct {
	Kind    EventKind
	Session Session
	Reason  string
	At      time.Time
}

type RecoveryOutcome string

const (
	RecoveryNone      RecoveryOutcome = "none"
	RecoveryRestored  RecoveryOutcome = "restored"
	RecoveryCompleted RecoveryOutcome = "completed"
	RecoveryDiscarded RecoveryOutcome = "discarded"
)

type RecoveryResult struct {
	Outcome         RecoveryOutcome
	Reason          string
	Session         *Session
	TimeLeftSeconds int
}

// MaxSnapshotAge bounds how old a snapshot may be and still be recovered.
const MaxSnapshotAge = 24 * time.Hour
