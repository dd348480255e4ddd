package usecase

import (
	"context"

	"timebox/internal/modules/insight/domain"
	"timebox/internal/modules/insight/dto"
	insightin "timebox/internal/modules/insight/port/in"
	"timebox/internal/modules/insight/service"
)

type Interactor struct {
	svc *service.InsightService
}

func NewInteractor(svc *service.InsightService) insightin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Generate(ctx context.Context) (dto.ReportOutput, error) {
	report, err := i.svc.Generate(ctx)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	out := dto.ReportOutput{
		Metrics:         toMetricsOutput(report.Metrics),
		Insights:        make([]dto.InsightOutput, 0, len(report.Insights)),
		Recommendations: report.Recommendations,
		Failed:          report.Failed,
	}
	for _, insight := range report.Insights {
		out.Insights = append(out.Insights, dto.InsightOutput{
			ID:         insight.ID,
			Type:       string(insight.Kind),
			Title:      insight.Title,
			Message:    insight.Message,
			Confidence: insight.Confidence,
			Actionable: insight.Actionable,
			Category:   insight.Category,
			Source:     insight.Source,
			At:         insight.At,
		})
	}
	return out, nil
}

func (i *Interactor) Providers(ctx context.Context) ([]dto.ProviderInfo, error) {
	manifests, err := i.svc.Providers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProviderInfo, 0, len(manifests))
	for _, m := range manifests {
		caps := make([]string, 0, len(m.Capabilities))
		for _, c := range m.Capabilities {
			caps = append(caps, string(c))
		}
		out = append(out, dto.ProviderInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Capabilities: caps})
	}
	return out, nil
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	results, err := i.svc.Doctor(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DoctorResult, 0, len(results))
	for _, r := range results {
		out = append(out, dto.DoctorResult(r))
	}
	return out, nil
}

func toMetricsOutput(m domain.Metrics) dto.MetricsOutput {
	return dto.MetricsOutput{
		FocusScore:           m.FocusScore,
		PeakHours:            m.PeakHours,
		CompletionRate:       m.CompletionRate,
		AverageSessionLength: m.AverageSessionLength,
		WeeklyTrend:          string(m.WeeklyTrend),
	}
}
