package out

import (
	"context"

	insightout "timebox/internal/modules/insight/port/out"
	premiumin "timebox/internal/modules/premium/port/in"
)

const featureAIInsights = "ai_insights"

type PremiumGate struct {
	premium premiumin.Usecase
}

func NewPremiumGate(premium premiumin.Usecase) insightout.Gate {
	return PremiumGate{premium: premium}
}

func (g PremiumGate) Allowed(ctx context.Context) (bool, error) {
	return g.premium.HasFeature(ctx, featureAIInsights)
}
