package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timebox/internal/modules/premium/domain"
	apperrors "timebox/internal/platform/errors"
)

func TestFeaturesMirrorProFlag(t *testing.T) {
	t.Parallel()
	free := domain.Features(false)
	pro := domain.Features(true)
	require.Len(t, free, 8)
	require.Len(t, pro, 8)
	for i := range free {
		assert.False(t, free[i].Available, free[i].ID)
		assert.True(t, pro[i].Available, pro[i].ID)
	}
}

func TestCheckPreset(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		id      string
		minutes int
		isPro   bool
		wantErr error
	}{
		{name: "free quick", id: "quick", minutes: 15},
		{name: "free focus", id: "focus", minutes: 25},
		{name: "free deep", id: "deep", minutes: 45},
		{name: "ultra locked", id: "ultra", minutes: 90, wantErr: apperrors.ErrFeatureLocked},
		{name: "ultra pro", id: "ultra", minutes: 90, isPro: true},
		{name: "custom locked", id: "custom", minutes: 50, wantErr: apperrors.ErrFeatureLocked},
		{name: "custom pro", id: "custom", minutes: 50, isPro: true},
		{name: "custom upper bound", id: "custom", minutes: 480, isPro: true},
		{name: "custom too long", id: "custom", minutes: 481, isPro: true, wantErr: apperrors.ErrInvalidInput},
		{name: "custom zero", id: "custom", minutes: 0, isPro: true, wantErr: apperrors.ErrInvalidInput},
		{name: "preset duration mismatch", id: "focus", minutes: 30, wantErr: apperrors.ErrInvalidInput},
		{name: "unknown", id: "nap", minutes: 20, wantErr: apperrors.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := domain.CheckPreset(tc.id, tc.minutes, tc.isPro)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestParseFeature(t *testing.T) {
	t.Parallel()
	id, err := domain.ParseFeature("ai_insights")
	require.NoError(t, err)
	assert.Equal(t, domain.FeatureAIInsights, id)
	_, err = domain.ParseFeature("teleport")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
