package in

import (
	"context"

	"timebox/internal/modules/insight/dto"
	insightin "timebox/internal/modules/insight/port/in"
)

type CLIHandler struct {
	usecase insightin.Usecase
}

func NewCLIHandler(usecase insightin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Generate(ctx context.Context) (dto.ReportOutput, error) {
	return h.usecase.Generate(ctx)
}

func (h CLIHandler) Providers(ctx context.Context) ([]dto.ProviderInfo, error) {
	return h.usecase.Providers(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}
