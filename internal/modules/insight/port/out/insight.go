package out

import (
	"context"

	"timebox/internal/modules/insight/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

// Host runs out-of-process providers.
type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Generate(ctx context.Context, manifest domain.Manifest, metrics domain.Metrics) ([]domain.Insight, error)
}

type MetricsSource interface {
	Metrics(ctx context.Context) (domain.Metrics, error)
}

type Gate interface {
	Allowed(ctx context.Context) (bool, error)
}
