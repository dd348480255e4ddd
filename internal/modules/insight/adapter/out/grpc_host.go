package out

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	insightrpc "timebox/internal/modules/insight/adapter/out/rpc"
	"timebox/internal/modules/insight/domain"
	insightout "timebox/internal/modules/insight/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

type GRPCHost struct {
	logger hclog.Logger
}

// NewGRPCHost launches providers as go-plugin subprocesses. A nil logger silences
// the plugin client.
func NewGRPCHost(logger hclog.Logger) insightout.Host {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &GRPCHost{logger: logger}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()

	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	capabilities := make([]domain.Capability, 0, len(meta.Capabilities))
	for _, capability := range meta.Capabilities {
		capabilities = append(capabilities, domain.Capability(capability))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Capabilities: capabilities}, nil
}

func (h *GRPCHost) Generate(ctx context.Context, manifest domain.Manifest, metrics domain.Metrics) ([]domain.Insight, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	response, err := client.GenerateInsights(callCtx, &insightrpc.GenerateRequest{Metrics: insightrpc.Metrics{
		FocusScore:           metrics.FocusScore,
		PeakHours:            metrics.PeakHours,
		CompletionRate:       metrics.CompletionRate,
		AverageSessionLength: metrics.AverageSessionLength,
		WeeklyTrend:          string(metrics.WeeklyTrend),
		TotalSessions:        metrics.TotalSessions,
	}})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %s", domain.ErrProviderTimeout, manifest.Name)
		}
		return nil, fmt.Errorf("generate insights: %w", err)
	}
	out := make([]domain.Insight, 0, len(response.Insights))
	for _, in := range response.Insights {
		out = append(out, domain.Insight{
			ID:         in.ID,
			Kind:       domain.Kind(in.Type),
			Title:      in.Title,
			Message:    in.Message,
			Confidence: in.Confidence,
			Actionable: in.Actionable,
			Category:   in.Category,
		})
	}
	return out, nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (insightrpc.InsightProviderClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  insightrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          insightrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           h.logger.Named(manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start provider client: %w", err)
	}
	raw, err := rpcClient.Dispense(insightrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense provider: %w", err)
	}
	typed, ok := raw.(insightrpc.InsightProviderClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("provider rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
