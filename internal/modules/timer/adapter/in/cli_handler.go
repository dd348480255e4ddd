package in

import (
	"context"

	timerdto "timebox/internal/modules/timer/dto"
	timerin "timebox/internal/modules/timer/port/in"
)

type CLIHandler struct {
	usecase timerin.Usecase
}

func NewCLIHandler(usecase timerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, sessionType string, minutes int, title string) (timerdto.StatusOutput, error) {
	return h.usecase.Start(ctx, timerdto.StartInput{SessionType: sessionType, Minutes: minutes, Title: title})
}

func (h CLIHandler) Pause(ctx context.Context) (timerdto.StatusOutput, error) {
	return h.usecase.Pause(ctx)
}

func (h CLIHandler) Resume(ctx context.Context) (timerdto.StatusOutput, error) {
	return h.usecase.Resume(ctx)
}

func (h CLIHandler) Stop(ctx context.Context) (timerdto.SessionOutput, error) {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) (timerdto.StatusOutput, error) {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (timerdto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Recover(ctx context.Context) (timerdto.RecoveryOutput, error) {
	return h.usecase.Recover(ctx)
}

func (h CLIHandler) History(ctx context.Context, limit int) ([]timerdto.SessionOutput, error) {
	return h.usecase.History(ctx, limit)
}

func (h CLIHandler) Run(ctx context.Context) error {
	return h.usecase.Run(ctx)
}

func (h CLIHandler) Events() <-chan timerdto.EventOutput {
	return h.usecase.Events()
}
