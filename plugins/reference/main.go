package main

import (
	"context"
	"fmt"

	insightrpc "timebox/internal/modules/insight/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

// server is a deterministic insight provider used by the host integration tests.
type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *insightrpc.Empty) (*insightrpc.Metadata, error) {
	return &insightrpc.Metadata{
		Name:         "reference",
		Version:      "1.0.0",
		Capabilities: []string{"insights"},
	}, nil
}

func (s *server) GenerateInsights(_ context.Context, in *insightrpc.GenerateRequest) (*insightrpc.GenerateResponse, error) {
	m := in.Metrics
	out := &insightrpc.GenerateResponse{}
	if m.AverageSessionLength > 0 && m.AverageSessionLength < 25 {
		out.Insights = append(out.Insights, insightrpc.Insight{
			Type:       "focus",
			Title:      "Build Longer Sessions",
			Message:    fmt.Sprintf("Your sessions average %d minutes. Try one 25-minute block today.", m.AverageSessionLength),
			Confidence: 0.7,
			Actionable: true,
			Category:   "Habits",
		})
	}
	if m.TotalSessions >= 3 && m.WeeklyTrend != "declining" {
		out.Insights = append(out.Insights, insightrpc.Insight{
			Type:       "break",
			Title:      "Plan Recovery",
			Message:    "You have a steady rhythm. Take a longer break after every third session.",
			Confidence: 0.6,
			Actionable: true,
			Category:   "Wellness",
		})
	}
	return out, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: insightrpc.HandshakeConfig,
		Plugins:         insightrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
