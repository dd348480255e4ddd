package domain_test

import (
	"errors"
	"testing"
	"time"

	"timebox/internal/modules/timer/domain"
	apperrors "timebox/internal/platform/errors"
)

func TestProgressIsClamped(t *testing.T) {
	t.Parallel()
	cases := []struct {
		left, total int
		want        float64
	}{
		{1500, 1500, 0},
		{750, 1500, 0.5},
		{0, 1500, 1},
		{1600, 1500, 0},
		{-5, 1500, 1},
		{10, 0, 0},
	}
	for _, tc := range cases {
		if got := domain.Progress(tc.left, tc.total); got != tc.want {
			t.Fatalf("Progress(%d,%d)=%v want %v", tc.left, tc.total, got, tc.want)
		}
	}
}

func TestFinalizeNeverEndsBeforeStart(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := domain.Session{ID: "s", DurationMinutes: 25, SessionType: domain.SessionFocus, StartTime: start}

	done := s.Finalize(start.Add(-time.Minute), true)
	if done.EndTime == nil || done.EndTime.Before(start) {
		t.Fatalf("end time must not precede start: %v", done.EndTime)
	}
	if !done.Completed || done.Interrupted {
		t.Fatalf("completed finalize flags wrong: %+v", done)
	}
	stopped := s.Finalize(start.Add(time.Minute), false)
	if stopped.Completed || !stopped.Interrupted {
		t.Fatalf("stopped finalize flags wrong: %+v", stopped)
	}
	if s.EndTime != nil {
		t.Fatalf("finalize must not mutate the receiver")
	}
}

func TestSnapshotValidateFlagsCorruption(t *testing.T) {
	t.Parallel()
	good := domain.Snapshot{
		Session:         domain.Session{ID: "s", DurationMinutes: 15, SessionType: domain.SessionQuick, StartTime: time.Now()},
		TimeLeftSeconds: 900,
		State:           domain.StateRunning,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid snapshot rejected: %v", err)
	}
	bad := good
	bad.TimeLeftSeconds = 901
	if err := bad.Validate(); !errors.Is(err, apperrors.ErrCorruptSnapshot) {
		t.Fatalf("expected corrupt snapshot, got %v", err)
	}
	bad = good
	bad.Session.SessionType = "marathon"
	if err := bad.Validate(); !errors.Is(err, apperrors.ErrCorruptSnapshot) {
		t.Fatalf("expected corrupt snapshot for type, got %v", err)
	}
}

func TestParseSessionType(t *testing.T) {
	t.Parallel()
	got, err := domain.ParseSessionType(" Deep ")
	if err != nil || got != domain.SessionDeep {
		t.Fatalf("parse deep: %v %v", got, err)
	}
	if _, err := domain.ParseSessionType("nap"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestErrorTypesMatchSentinels(t *testing.T) {
	t.Parallel()
	var err error = &domain.InvalidStateError{Op: "pause", State: domain.StateIdle}
	if !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("invalid state error should match sentinel")
	}
	cause := errors.New("disk full")
	err = &domain.PersistenceError{Op: "append history", Err: cause}
	if !errors.Is(err, apperrors.ErrPersistence) || !errors.Is(err, cause) {
		t.Fatalf("persistence error should match sentinel and cause")
	}
}
