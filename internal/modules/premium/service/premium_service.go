package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"timebox/internal/modules/premium/domain"
	premiumout "timebox/internal/modules/premium/port/out"
	"timebox/internal/platform/clock"
	apperrors "timebox/internal/platform/errors"
	"timebox/internal/platform/logging"
)

type PremiumService struct {
	clock     clock.Clock
	flags     premiumout.FlagStore
	purchaser premiumout.Purchaser
	logger    *slog.Logger
}

func NewPremiumService(clock clock.Clock, flags premiumout.FlagStore, purchaser premiumout.Purchaser, logger *slog.Logger) *PremiumService {
	return &PremiumService{clock: clock, flags: flags, purchaser: purchaser, logger: logging.OrDefault(logger)}
}

// Status reads the persisted flag; a missing flag means not pro.
func (s *PremiumService) Status(ctx context.Context) (domain.Status, error) {
	status, err := s.flags.LoadStatus(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.Status{}, nil
	}
	if err != nil {
		return domain.Status{}, fmt.Errorf("load premium status: %w", err)
	}
	return status, nil
}

func (s *PremiumService) Features(ctx context.Context) ([]domain.Feature, error) {
	status, err := s.Status(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Features(status.IsPro), nil
}

func (s *PremiumService) HasFeature(ctx context.Context, feature domain.FeatureID) (bool, error) {
	status, err := s.Status(ctx)
	if err != nil {
		return false, err
	}
	for _, f := range domain.Features(status.IsPro) {
		if f.ID == feature {
			return f.Available, nil
		}
	}
	return false, fmt.Errorf("%w: unknown feature %q", apperrors.ErrInvalidInput, feature)
}

// Purchase flips the pro flag only when the purchaser approves. Any other outcome
// leaves the stored status untouched.
func (s *PremiumService) Purchase(ctx context.Context, productID string) (domain.Status, bool, error) {
	if productID == "" {
		productID = domain.ProductLifetime
	}
	if productID != domain.ProductLifetime {
		return domain.Status{}, false, fmt.Errorf("%w: unknown product %q", apperrors.ErrInvalidInput, productID)
	}
	current, err := s.Status(ctx)
	if err != nil {
		return domain.Status{}, false, err
	}
	ok, err := s.purchaser.Purchase(ctx, productID)
	if err != nil {
		return current, false, fmt.Errorf("purchase %s: %w", productID, err)
	}
	if !ok {
		s.logger.Info("purchase declined", "product_id", productID)
		return current, false, nil
	}
	now := s.clock.Now()
	next := domain.Status{IsPro: true, PurchaseDate: &now, ProductID: productID}
	if err := s.flags.SaveStatus(ctx, next); err != nil {
		return current, false, fmt.Errorf("save premium status: %w", err)
	}
	s.logger.Info("purchase completed", "product_id", productID)
	return next, true, nil
}

func (s *PremiumService) Restore(ctx context.Context) (domain.Status, bool, error) {
	current, err := s.Status(ctx)
	if err != nil {
		return domain.Status{}, false, err
	}
	ok, err := s.purchaser.Restore(ctx)
	if err != nil {
		return current, false, fmt.Errorf("restore purchases: %w", err)
	}
	if !ok {
		s.logger.Info("no purchases to restore")
		return current, false, nil
	}
	next := current
	next.IsPro = true
	if next.ProductID == "" {
		next.ProductID = domain.ProductLifetime
	}
	if next.PurchaseDate == nil {
		now := s.clock.Now()
		next.PurchaseDate = &now
	}
	if err := s.flags.SaveStatus(ctx, next); err != nil {
		return current, false, fmt.Errorf("save premium status: %w", err)
	}
	s.logger.Info("purchases restored", "product_id", next.ProductID)
	return next, true, nil
}

func (s *PremiumService) AuthorizePreset(ctx context.Context, presetID string, minutes int) error {
	status, err := s.Status(ctx)
	if err != nil {
		return err
	}
	return domain.CheckPreset(presetID, minutes, status.IsPro)
}
