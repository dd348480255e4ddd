package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "timebox/internal/platform/errors"
)

type SessionType string

const (
	SessionQuick  SessionType = "quick"
	SessionFocus  SessionType = "focus"
	SessionDeep   SessionType = "deep"
	SessionUltra  SessionType = "ultra"
	SessionCustom SessionType = "custom"
)

var SessionTypes = []SessionType{SessionQuick, SessionFocus, SessionDeep, SessionUltra, SessionCustom}

func ParseSessionType(raw string) (SessionType, error) {
	t := SessionType(strings.ToLower(strings.TrimSpace(raw)))
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

func (t SessionType) Validate() error {
	for _, known := range SessionTypes {
		if t == known {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown session type %q", apperrors.ErrInvalidInput, string(t))
}

// Session is one focus interval. The JSON shape matches the persisted history records.
type Session struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	DurationMinutes int         `json:"duration"`
	SessionType     SessionType `json:"sessionType"`
	StartTime       time.Time   `json:"startTime"`
	EndTime         *time.Time  `json:"endTime,omitempty"`
	Completed       bool        `json:"completed"`
	Interrupted     bool        `json:"interrupted"`
}

func (s Session) TotalSeconds() int {
	return s.DurationMinutes * 60
}

func (s Session) Terminal() bool {
	return s.EndTime != nil
}

// Finalize returns a terminal copy. endTime never precedes startTime.
func (s Session) Finalize(at time.Time, completed bool) Session {
	if at.Before(s.StartTime) {
		at = s.StartTime
	}
	end := at
	s.EndTime = &end
	s.Completed = completed
	s.Interrupted = !completed
	return s
}

// Progress is 1 - timeLeft/total, clamped to [0,1].
func Progress(timeLeftSeconds, totalSeconds int) float64 {
	if totalSeconds <= 0 {
		return 0
	}
	p := 1 - float64(timeLeftSeconds)/float64(totalSeconds)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
