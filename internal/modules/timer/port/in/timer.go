package in

import (
	"context"

	"timebox/internal/modules/timer/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StatusOutput, error)
	Pause(ctx context.Context) (dto.StatusOutput, error)
	Resume(ctx context.Context) (dto.StatusOutput, error)
	Stop(ctx context.Context) (dto.SessionOutput, error)
	Reset(ctx context.Context) (dto.StatusOutput, error)
	Status(ctx context.Context) (dto.StatusOutput, error)
	Recover(ctx context.Context) (dto.RecoveryOutput, error)
	History(ctx context.Context, limit int) ([]dto.SessionOutput, error)
	// Run drives the countdown until ctx is cancelled.
	Run(ctx context.Context) error
	Events() <-chan dto.EventOutput
}
