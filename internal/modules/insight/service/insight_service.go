package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"timebox/internal/modules/insight/domain"
	insightout "timebox/internal/modules/insight/port/out"
	"timebox/internal/platform/clock"
	apperrors "timebox/internal/platform/errors"
	"timebox/internal/platform/logging"
)

const recommendationCount = 3

type Report struct {
	Metrics         domain.Metrics
	Insights        []domain.Insight
	Recommendations []string
	Failed          []string
}

type InsightService struct {
	clock   clock.Clock
	store   insightout.ManifestStore
	host    insightout.Host
	metrics insightout.MetricsSource
	gate    insightout.Gate
	logger  *slog.Logger
}

func NewInsightService(clk clock.Clock, store insightout.ManifestStore, host insightout.Host, metrics insightout.MetricsSource, gate insightout.Gate, logger *slog.Logger) *InsightService {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &InsightService{clock: clk, store: store, host: host, metrics: metrics, gate: gate, logger: logging.OrDefault(logger)}
}

// Generate evaluates the built-in rules and then asks every enabled provider.
// A failing provider is logged and skipped.
func (s *InsightService) Generate(ctx context.Context) (Report, error) {
	if s.gate != nil {
		ok, err := s.gate.Allowed(ctx)
		if err != nil {
			return Report{}, err
		}
		if !ok {
			return Report{}, fmt.Errorf("%w: ai_insights", apperrors.ErrFeatureLocked)
		}
	}
	metrics, err := s.metrics.Metrics(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("collect metrics: %w", err)
	}
	now := s.clock.Now()
	report := Report{
		Metrics:         metrics,
		Insights:        domain.Evaluate(metrics, now),
		Recommendations: domain.Recommendations(recommendationCount),
	}
	if s.store == nil || s.host == nil {
		return report, nil
	}

	manifests, err := s.loadValidated(ctx)
	if err != nil {
		s.logger.Warn("insight providers unavailable", "error", err)
		report.Failed = append(report.Failed, "plugins.json")
		return report, nil
	}
	for _, m := range manifests {
		if !m.Enabled || !m.HasCapability(domain.CapabilityInsights) {
			continue
		}
		extra, err := s.fromProvider(ctx, m, metrics, now)
		if err != nil {
			s.logger.Warn("insight provider failed", "provider", m.Name, "error", err)
			report.Failed = append(report.Failed, m.Name)
			continue
		}
		report.Insights = append(report.Insights, extra...)
	}
	return report, nil
}

func (s *InsightService) fromProvider(ctx context.Context, m domain.Manifest, metrics domain.Metrics, now time.Time) ([]domain.Insight, error) {
	if err := checksumMatches(m.Binary, m.SHA256); err != nil {
		return nil, err
	}
	insights, err := s.host.Generate(ctx, m, metrics)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProviderTimeout, m.Name)
		}
		return nil, err
	}
	out := make([]domain.Insight, 0, len(insights))
	for i, insight := range insights {
		if err := insight.Validate(); err != nil {
			return nil, fmt.Errorf("insight %d: %w", i, err)
		}
		insight.Source = m.Name
		if insight.At.IsZero() {
			insight.At = now
		}
		if insight.ID == "" {
			insight.ID = fmt.Sprintf("%s-%d-%d", m.Name, now.UnixMilli(), i)
		}
		out = append(out, insight)
	}
	return out, nil
}

func (s *InsightService) Providers(ctx context.Context) ([]domain.Manifest, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.loadValidated(ctx)
}

func (s *InsightService) Doctor(ctx context.Context) ([]DoctorResult, error) {
	if s.store == nil {
		return nil, nil
	}
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

func (s *InsightService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate provider name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read provider binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	if hex.EncodeToString(hash[:]) != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
