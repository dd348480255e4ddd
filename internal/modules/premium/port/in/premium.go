package in

import (
	"context"

	"timebox/internal/modules/premium/dto"
)

type Usecase interface {
	Status(ctx context.Context) (dto.StatusOutput, error)
	Features(ctx context.Context) ([]dto.FeatureOutput, error)
	HasFeature(ctx context.Context, feature string) (bool, error)
	Purchase(ctx context.Context, productID string) (dto.PurchaseOutput, error)
	Restore(ctx context.Context) (dto.PurchaseOutput, error)
	AuthorizePreset(ctx context.Context, input dto.PresetInput) error
	Presets(ctx context.Context) ([]dto.PresetOutput, error)
}
