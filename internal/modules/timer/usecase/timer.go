package usecase

import (
	"context"
	"fmt"
	"sync"

	"timebox/internal/modules/timer/domain"
	timerdto "timebox/internal/modules/timer/dto"
	timerin "timebox/internal/modules/timer/port/in"
	"timebox/internal/modules/timer/service"
	apperrors "timebox/internal/platform/errors"
)

type Interactor struct {
	engine *service.Engine

	once   sync.Once
	events chan timerdto.EventOutput
}

func NewInteractor(engine *service.Engine) timerin.Usecase {
	return &Interactor{engine: engine}
}

func (i *Interactor) Start(ctx context.Context, input timerdto.StartInput) (timerdto.StatusOutput, error) {
	sessionType, err := domain.ParseSessionType(input.SessionType)
	if err != nil {
		return timerdto.StatusOutput{}, err
	}
	minutes := input.Minutes
	if minutes == 0 {
		minutes, err = presetMinutes(sessionType)
		if err != nil {
			return timerdto.StatusOutput{}, err
		}
	}
	status, err := i.engine.Start(ctx, minutes, sessionType, input.Title)
	if err != nil {
		return timerdto.StatusOutput{}, err
	}
	return toStatusOutput(status), nil
}

func (i *Interactor) Pause(ctx context.Context) (timerdto.StatusOutput, error) {
	status, err := i.engine.Pause(ctx)
	if err != nil {
		return timerdto.StatusOutput{}, err
	}
	return toStatusOutput(status), nil
}

func (i *Interactor) Resume(ctx context.Context) (timerdto.StatusOutput, error) {
	status, err := i.engine.Resume(ctx)
	if err != nil {
		return timerdto.StatusOutput{}, err
	}
	return toStatusOutput(status), nil
}

func (i *Interactor) Stop(ctx context.Context) (timerdto.SessionOutput, error) {
	session, err := i.engine.Stop(ctx)
	if err != nil {
		return timerdto.SessionOutput{}, err
	}
	return toSessionOutput(session), nil
}

func (i *Interactor) Reset(ctx context.Context) (timerdto.StatusOutput, error) {
	status, err := i.engine.Reset(ctx)
	if err != nil {
		return timerdto.StatusOutput{}, err
	}
	return toStatusOutput(status), nil
}

func (i *Interactor) Status(context.Context) (timerdto.StatusOutput, error) {
	return toStatusOutput(i.engine.Status()), nil
}

func (i *Interactor) Recover(ctx context.Context) (timerdto.RecoveryOutput, error) {
	result, err := i.engine.Recover(ctx)
	if err != nil {
		return timerdto.RecoveryOutput{}, err
	}
	out := timerdto.RecoveryOutput{
		Outcome:         string(result.Outcome),
		Reason:          result.Reason,
		TimeLeftSeconds: result.TimeLeftSeconds,
	}
	if result.Session != nil {
		session := toSessionOutput(*result.Session)
		out.Session = &session
	}
	return out, nil
}

// History returns up to limit records newest-first; limit <= 0 returns everything.
func (i *Interactor) History(ctx context.Context, limit int) ([]timerdto.SessionOutput, error) {
	history, err := i.engine.History(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	out := make([]timerdto.SessionOutput, 0, len(history))
	for _, s := range history {
		out = append(out, toSessionOutput(s))
	}
	return out, nil
}

func (i *Interactor) Run(ctx context.Context) error {
	return i.engine.Run(ctx)
}

func (i *Interactor) Events() <-chan timerdto.EventOutput {
	i.once.Do(func() {
		i.events = make(chan timerdto.EventOutput, cap(i.engine.Events()))
		go func() {
			for ev := range i.engine.Events() {
				i.events <- timerdto.EventOutput{
					Kind:    string(ev.Kind),
					Session: toSessionOutput(ev.Session),
					Reason:  ev.Reason,
					At:      ev.At,
				}
			}
		}()
	})
	return i.events
}

func presetMinutes(t domain.SessionType) (int, error) {
	switch t {
	case domain.SessionQuick:
		return 15, nil
	case domain.SessionFocus:
		return 25, nil
	case domain.SessionDeep:
		return 45, nil
	case domain.SessionUltra:
		return 90, nil
	default:
		return 0, fmt.Errorf("%w: %s sessions need an explicit duration", apperrors.ErrInvalidInput, t)
	}
}

func toSessionOutput(s domain.Session) timerdto.SessionOutput {
	return timerdto.SessionOutput{
		ID:              s.ID,
		Title:           s.Title,
		DurationMinutes: s.DurationMinutes,
		SessionType:     string(s.SessionType),
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		Completed:       s.Completed,
		Interrupted:     s.Interrupted,
	}
}

func toStatusOutput(status domain.Status) timerdto.StatusOutput {
	out := timerdto.StatusOutput{
		State:           string(status.State),
		TimeLeftSeconds: status.TimeLeftSeconds,
		Progress:        status.Progress,
	}
	if status.Session != nil {
		out.Active = true
		out.Session = toSessionOutput(*status.Session)
	}
	return out
}
