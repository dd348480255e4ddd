package out

import (
	"context"

	premiumdto "timebox/internal/modules/premium/dto"
	premiumin "timebox/internal/modules/premium/port/in"
	"timebox/internal/modules/timer/domain"
	timerout "timebox/internal/modules/timer/port/out"
)

// PremiumPresetPolicy asks the feature gate whether a preset may start.
type PremiumPresetPolicy struct {
	premium premiumin.Usecase
}

func NewPremiumPresetPolicy(premium premiumin.Usecase) timerout.PresetPolicy {
	return PremiumPresetPolicy{premium: premium}
}

func (p PremiumPresetPolicy) Authorize(ctx context.Context, sessionType domain.SessionType, minutes int) error {
	return p.premium.AuthorizePreset(ctx, premiumdto.PresetInput{Preset: string(sessionType), Minutes: minutes})
}
