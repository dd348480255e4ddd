package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timebox/internal/modules/premium/domain"
	"timebox/internal/modules/premium/service"
	"timebox/internal/platform/clock"
	apperrors "timebox/internal/platform/errors"
)

type fakeFlags struct {
	status  *domain.Status
	saves   int
	saveErr error
}

func (f *fakeFlags) LoadStatus(context.Context) (domain.Status, error) {
	if f.status == nil {
		return domain.Status{}, apperrors.ErrNotFound
	}
	return *f.status, nil
}

func (f *fakeFlags) SaveStatus(_ context.Context, status domain.Status) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.status = &status
	return nil
}

type fakePurchaser struct {
	approve bool
	err     error
	bought  []string
}

func (f *fakePurchaser) Purchase(_ context.Context, productID string) (bool, error) {
	f.bought = append(f.bought, productID)
	return f.approve, f.err
}

func (f *fakePurchaser) Restore(context.Context) (bool, error) {
	return f.approve, f.err
}

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestStatusDefaultsToFree(t *testing.T) {
	t.Parallel()
	svc := service.NewPremiumService(clock.Fixed(now), &fakeFlags{}, &fakePurchaser{}, nil)

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.IsPro)

	ok, err := svc.HasFeature(context.Background(), domain.FeatureAdvancedStats)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPurchaseSuccessPersistsMetadata(t *testing.T) {
	t.Parallel()
	flags := &fakeFlags{}
	purchaser := &fakePurchaser{approve: true}
	svc := service.NewPremiumService(clock.Fixed(now), flags, purchaser, nil)

	status, ok, err := svc.Purchase(context.Background(), "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, status.IsPro)
	assert.Equal(t, domain.ProductLifetime, status.ProductID)
	require.NotNil(t, status.PurchaseDate)
	assert.True(t, status.PurchaseDate.Equal(now))
	assert.Equal(t, []string{domain.ProductLifetime}, purchaser.bought)
	assert.Equal(t, 1, flags.saves)

	ok, err = svc.HasFeature(context.Background(), domain.FeatureAIInsights)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFailedPurchaseLeavesFlagUnchanged(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		purchaser *fakePurchaser
		wantErr   bool
	}{
		{name: "declined", purchaser: &fakePurchaser{approve: false}},
		{name: "collaborator error", purchaser: &fakePurchaser{err: errors.New("store unavailable")}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			flags := &fakeFlags{}
			svc := service.NewPremiumService(clock.Fixed(now), flags, tc.purchaser, nil)
			status, ok, err := svc.Purchase(context.Background(), domain.ProductLifetime)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.False(t, ok)
			assert.False(t, status.IsPro)
			assert.Zero(t, flags.saves)
		})
	}
}

func TestPurchaseRejectsUnknownProduct(t *testing.T) {
	t.Parallel()
	purchaser := &fakePurchaser{approve: true}
	svc := service.NewPremiumService(clock.Fixed(now), &fakeFlags{}, purchaser, nil)
	_, _, err := svc.Purchase(context.Background(), "timebox_pro_monthly")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Empty(t, purchaser.bought)
}

func TestRestoreKeepsOriginalPurchaseDate(t *testing.T) {
	t.Parallel()
	earlier := now.AddDate(0, -2, 0)
	flags := &fakeFlags{status: &domain.Status{IsPro: false, PurchaseDate: &earlier, ProductID: domain.ProductLifetime}}
	svc := service.NewPremiumService(clock.Fixed(now), flags, &fakePurchaser{approve: true}, nil)

	status, ok, err := svc.Restore(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, status.IsPro)
	assert.True(t, status.PurchaseDate.Equal(earlier))
}

func TestAuthorizePresetFollowsProFlag(t *testing.T) {
	t.Parallel()
	flags := &fakeFlags{}
	svc := service.NewPremiumService(clock.Fixed(now), flags, &fakePurchaser{approve: true}, nil)
	ctx := context.Background()

	assert.NoError(t, svc.AuthorizePreset(ctx, "focus", 25))
	assert.ErrorIs(t, svc.AuthorizePreset(ctx, "ultra", 90), apperrors.ErrFeatureLocked)
	assert.ErrorIs(t, svc.AuthorizePreset(ctx, "custom", 120), apperrors.ErrFeatureLocked)

	_, _, err := svc.Purchase(ctx, "")
	require.NoError(t, err)
	assert.NoError(t, svc.AuthorizePreset(ctx, "ultra", 90))
	assert.NoError(t, svc.AuthorizePreset(ctx, "custom", 120))
}
