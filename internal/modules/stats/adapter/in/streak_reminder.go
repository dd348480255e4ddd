package in

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	statsdto "timebox/internal/modules/stats/dto"
	statsin "timebox/internal/modules/stats/port/in"
	"timebox/internal/platform/logging"
)

// StreakReminder checks on a cron schedule whether today's session is still missing
// from a live streak and hands the reminder to notify.
type StreakReminder struct {
	usecase statsin.Usecase
	notify  func(statsdto.ReminderOutput)
	logger  *slog.Logger
	cron    *cron.Cron
}

func NewStreakReminder(usecase statsin.Usecase, loc *time.Location, notify func(statsdto.ReminderOutput), logger *slog.Logger) *StreakReminder {
	if loc == nil {
		loc = time.Local
	}
	return &StreakReminder{
		usecase: usecase,
		notify:  notify,
		logger:  logging.OrDefault(logger),
		cron:    cron.New(cron.WithLocation(loc)),
	}
}

// Start registers schedule and starts the scheduler. It returns an error for an
// invalid cron expression instead of guessing a fallback.
func (r *StreakReminder) Start(ctx context.Context, schedule string) error {
	if _, err := r.cron.AddFunc(schedule, func() { r.Check(ctx) }); err != nil {
		return fmt.Errorf("parse reminder schedule %q: %w", schedule, err)
	}
	r.cron.Start()
	r.logger.Info("streak reminder scheduled", "schedule", schedule)
	return nil
}

func (r *StreakReminder) Stop() {
	<-r.cron.Stop().Done()
}

// Check runs one evaluation immediately.
func (r *StreakReminder) Check(ctx context.Context) {
	out, err := r.usecase.Reminder(ctx)
	if err != nil {
		r.logger.Warn("streak reminder check failed", "error", err)
		return
	}
	if !out.Due {
		r.logger.Debug("no reminder due", "streak", out.Streak)
		return
	}
	if r.notify != nil {
		r.notify(out)
	}
}
