package out

import (
	"context"
	"log/slog"

	premiumout "timebox/internal/modules/premium/port/out"
	"timebox/internal/platform/logging"
)

// SimulatedPurchaser stands in for a store SDK. Approve decides every outcome.
type SimulatedPurchaser struct {
	Approve bool
	Logger  *slog.Logger
}

func NewSimulatedPurchaser(approve bool, logger *slog.Logger) premiumout.Purchaser {
	return SimulatedPurchaser{Approve: approve, Logger: logger}
}

func (p SimulatedPurchaser) Purchase(_ context.Context, productID string) (bool, error) {
	logging.OrDefault(p.Logger).Debug("simulated purchase", "product_id", productID, "approved", p.Approve)
	return p.Approve, nil
}

func (p SimulatedPurchaser) Restore(context.Context) (bool, error) {
	logging.OrDefault(p.Logger).Debug("simulated restore", "approved", p.Approve)
	return p.Approve, nil
}
