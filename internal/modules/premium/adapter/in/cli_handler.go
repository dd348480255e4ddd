package in

import (
	"context"

	premiumdto "timebox/internal/modules/premium/dto"
	premiumin "timebox/internal/modules/premium/port/in"
)

type CLIHandler struct {
	usecase premiumin.Usecase
}

func NewCLIHandler(usecase premiumin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Status(ctx context.Context) (premiumdto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Features(ctx context.Context) ([]premiumdto.FeatureOutput, error) {
	return h.usecase.Features(ctx)
}

func (h CLIHandler) Purchase(ctx context.Context, productID string) (premiumdto.PurchaseOutput, error) {
	return h.usecase.Purchase(ctx, productID)
}

func (h CLIHandler) Restore(ctx context.Context) (premiumdto.PurchaseOutput, error) {
	return h.usecase.Restore(ctx)
}

func (h CLIHandler) Presets(ctx context.Context) ([]premiumdto.PresetOutput, error) {
	return h.usecase.Presets(ctx)
}
