package out

import (
	"context"

	"timebox/internal/modules/premium/domain"
)

type FlagStore interface {
	LoadStatus(ctx context.Context) (domain.Status, error)
	SaveStatus(ctx context.Context, status domain.Status) error
}

// Purchaser is the in-app purchase collaborator. Its answer is trusted as-is.
type Purchaser interface {
	Purchase(ctx context.Context, productID string) (bool, error)
	Restore(ctx context.Context) (bool, error)
}
