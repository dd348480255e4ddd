package usecase

import (
	"context"

	"timebox/internal/modules/premium/domain"
	premiumdto "timebox/internal/modules/premium/dto"
	premiumin "timebox/internal/modules/premium/port/in"
	"timebox/internal/modules/premium/service"
)

type Interactor struct {
	svc *service.PremiumService
}

func NewInteractor(svc *service.PremiumService) premiumin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Status(ctx context.Context) (premiumdto.StatusOutput, error) {
	status, err := i.svc.Status(ctx)
	if err != nil {
		return premiumdto.StatusOutput{}, err
	}
	return toStatusOutput(status), nil
}

func (i *Interactor) Features(ctx context.Context) ([]premiumdto.FeatureOutput, error) {
	features, err := i.svc.Features(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]premiumdto.FeatureOutput, 0, len(features))
	for _, f := range features {
		out = append(out, premiumdto.FeatureOutput{ID: string(f.ID), Name: f.Name, Description: f.Description, Available: f.Available})
	}
	return out, nil
}

func (i *Interactor) HasFeature(ctx context.Context, feature string) (bool, error) {
	id, err := domain.ParseFeature(feature)
	if err != nil {
		return false, err
	}
	return i.svc.HasFeature(ctx, id)
}

func (i *Interactor) Purchase(ctx context.Context, productID string) (premiumdto.PurchaseOutput, error) {
	status, ok, err := i.svc.Purchase(ctx, productID)
	if err != nil {
		return premiumdto.PurchaseOutput{}, err
	}
	return premiumdto.PurchaseOutput{Success: ok, Status: toStatusOutput(status)}, nil
}

func (i *Interactor) Restore(ctx context.Context) (premiumdto.PurchaseOutput, error) {
	status, ok, err := i.svc.Restore(ctx)
	if err != nil {
		return premiumdto.PurchaseOutput{}, err
	}
	return premiumdto.PurchaseOutput{Success: ok, Status: toStatusOutput(status)}, nil
}

func (i *Interactor) AuthorizePreset(ctx context.Context, input premiumdto.PresetInput) error {
	return i.svc.AuthorizePreset(ctx, input.Preset, input.Minutes)
}

func (i *Interactor) Presets(ctx context.Context) ([]premiumdto.PresetOutput, error) {
	status, err := i.svc.Status(ctx)
	if err != nil {
		return nil, err
	}
	presets := domain.Presets()
	out := make([]premiumdto.PresetOutput, 0, len(presets))
	for _, p := range presets {
		out = append(out, premiumdto.PresetOutput{
			ID:       p.ID,
			Label:    p.Label,
			Minutes:  p.Minutes,
			Free:     p.Free,
			Unlocked: p.Free || status.IsPro,
		})
	}
	return out, nil
}

func toStatusOutput(status domain.Status) premiumdto.StatusOutput {
	return premiumdto.StatusOutput{IsPro: status.IsPro, PurchaseDate: status.PurchaseDate, ProductID: status.ProductID}
}
