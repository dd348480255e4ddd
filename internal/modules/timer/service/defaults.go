package service

import (
	"context"
	"time"

	"timebox/internal/modules/timer/domain"
	timerout "timebox/internal/modules/timer/port/out"
)

type noopAlerts struct{}

func (noopAlerts) ScheduleCompletionAlert(context.Context, time.Time) (timerout.AlertHandle, error) {
	return "", nil
}

func (noopAlerts) Cancel(context.Context, timerout.AlertHandle) error { return nil }

type allowAll struct{}

func (allowAll) Authorize(context.Context, domain.SessionType, int) error { return nil }

type noopRecorder struct{}

func (noopRecorder) SessionStarted(domain.SessionType)        {}
func (noopRecorder) SessionFinished(domain.SessionType, bool) {}
func (noopRecorder) Tick()                                    {}
func (noopRecorder) PersistenceFailure(string)                {}
func (noopRecorder) Recovery(domain.RecoveryOutcome)          {}
