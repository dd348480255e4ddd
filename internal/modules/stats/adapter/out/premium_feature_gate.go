package out

import (
	"context"

	premiumin "timebox/internal/modules/premium/port/in"
	statsout "timebox/internal/modules/stats/port/out"
)

type PremiumFeatureGate struct {
	premium premiumin.Usecase
}

func NewPremiumFeatureGate(premium premiumin.Usecase) statsout.FeatureGate {
	return PremiumFeatureGate{premium: premium}
}

func (g PremiumFeatureGate) Allowed(ctx context.Context, feature string) (bool, error) {
	return g.premium.HasFeature(ctx, feature)
}
