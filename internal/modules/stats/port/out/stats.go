package out

import (
	"context"

	"timebox/internal/modules/stats/domain"
)

// HistoryReader yields finalized sessions newest-first.
type HistoryReader interface {
	ReadHistory(ctx context.Context) ([]domain.Record, error)
}

type FeatureGate interface {
	Allowed(ctx context.Context, feature string) (bool, error)
}
