package out

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	timerout "timebox/internal/modules/timer/port/out"
	"timebox/internal/platform/clock"
)

// AlertFunc is invoked when a scheduled completion alert fires.
type AlertFunc func(handle timerout.AlertHandle, fireAt time.Time)

// LocalAlertScheduler fires in-process alerts with time.AfterFunc.
type LocalAlertScheduler struct {
	mu     sync.Mutex
	clock  clock.Clock
	notify AlertFunc
	timers map[timerout.AlertHandle]*time.Timer
}

func NewLocalAlertScheduler(clk clock.Clock, notify AlertFunc) *LocalAlertScheduler {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &LocalAlertScheduler{clock: clk, notify: notify, timers: map[timerout.AlertHandle]*time.Timer{}}
}

func (s *LocalAlertScheduler) ScheduleCompletionAlert(_ context.Context, fireAt time.Time) (timerout.AlertHandle, error) {
	handle := timerout.AlertHandle(uuid.NewString())
	delay := fireAt.Sub(s.clock.Now())
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers[handle] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		_, live := s.timers[handle]
		delete(s.timers, handle)
		s.mu.Unlock()
		if live && s.notify != nil {
			s.notify(handle, fireAt)
		}
	})
	return handle, nil
}

func (s *LocalAlertScheduler) Cancel(_ context.Context, handle timerout.AlertHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// already fired or cancelled
	timer, ok := s.timers[handle]
	if !ok {
		return nil
	}
	timer.Stop()
	delete(s.timers, handle)
	return nil
}

// Pending reports how many alerts are scheduled and not yet fired or cancelled.
func (s *LocalAlertScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
