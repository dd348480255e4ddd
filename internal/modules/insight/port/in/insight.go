package in

import (
	"context"

	"timebox/internal/modules/insight/dto"
)

type Usecase interface {
	// Generate requires ai_insights.
	Generate(ctx context.Context) (dto.ReportOutput, error)
	Providers(ctx context.Context) ([]dto.ProviderInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
}
