package domain

import (
	"fmt"
	"time"

	apperrors "timebox/internal/platform/errors"
)

const ProductLifetime = "timebox_pro_lifetime"

type FeatureID string

const (
	FeatureCustomDurations     FeatureID = "custom_durations"
	FeatureAIInsights          FeatureID = "ai_insights"
	FeatureAdvancedStats       FeatureID = "advanced_stats"
	FeatureUnlimitedSessions   FeatureID = "unlimited_sessions"
	FeatureBinauralBeats       FeatureID = "binaural_beats"
	FeatureTeamFeatures        FeatureID = "team_features"
	FeatureCalendarIntegration FeatureID = "calendar_integration"
	FeatureExportData          FeatureID = "export_data"
)

type Feature struct {
	ID          FeatureID
	Name        string
	Description string
	Available   bool
}

var featureTable = []Feature{
	{ID: FeatureCustomDurations, Name: "Custom Session Durations", Description: "Create sessions of any length from 1 minute to 8 hours"},
	{ID: FeatureAIInsights, Name: "AI-Powered Insights", Description: "Personalized productivity recommendations"},
	{ID: FeatureAdvancedStats, Name: "Advanced Analytics", Description: "Weekly reports, productivity trends, and heatmaps"},
	{ID: FeatureUnlimitedSessions, Name: "Unlimited Sessions", Description: "No limits on daily sessions and session history"},
	{ID: FeatureBinauralBeats, Name: "Binaural Beats Library", Description: "Premium focus sounds and binaural frequencies"},
	{ID: FeatureTeamFeatures, Name: "Team Collaboration", Description: "Join teams, sync sessions, and compete with friends"},
	{ID: FeatureCalendarIntegration, Name: "Calendar Integration", Description: "Auto-block calendar time and sync with your schedule"},
	{ID: FeatureExportData, Name: "Data Export", Description: "Export productivity data to CSV, PDF, or other apps"},
}

// Features returns the static table with every entry's availability mirroring isPro.
func Features(isPro bool) []Feature {
	out := make([]Feature, len(featureTable))
	for i, f := range featureTable {
		f.Available = isPro
		out[i] = f
	}
	return out
}

func ParseFeature(raw string) (FeatureID, error) {
	for _, f := range featureTable {
		if string(f.ID) == raw {
			return f.ID, nil
		}
	}
	return "", fmt.Errorf("%w: unknown feature %q", apperrors.ErrInvalidInput, raw)
}

type Status struct {
	IsPro        bool
	PurchaseDate *time.Time
	ProductID    string
}

const (
	MinCustomMinutes = 1
	MaxCustomMinutes = 480
)

type Preset struct {
	ID      string
	Label   string
	Minutes int
	Free    bool
}

const PresetCustom = "custom"

var presetTable = []Preset{
	{ID: "quick", Label: "Quick", Minutes: 15, Free: true},
	{ID: "focus", Label: "Focus", Minutes: 25, Free: true},
	{ID: "deep", Label: "Deep", Minutes: 45, Free: true},
	{ID: "ultra", Label: "Ultra", Minutes: 90, Free: false},
	{ID: PresetCustom, Label: "Custom", Minutes: 0, Free: false},
}

func Presets() []Preset {
	out := make([]Preset, len(presetTable))
	copy(out, presetTable)
	return out
}

func LookupPreset(id string) (Preset, bool) {
	for _, p := range presetTable {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// CheckPreset validates a preset request against the pro flag.
func CheckPreset(id string, minutes int, isPro bool) error {
	preset, ok := LookupPreset(id)
	if !ok {
		return fmt.Errorf("%w: unknown preset %q", apperrors.ErrInvalidInput, id)
	}
	if preset.ID == PresetCustom {
		if minutes < MinCustomMinutes || minutes > MaxCustomMinutes {
			return fmt.Errorf("%w: custom duration must be %d-%d minutes", apperrors.ErrInvalidInput, MinCustomMinutes, MaxCustomMinutes)
		}
		if !isPro {
			return fmt.Errorf("%w: %s", apperrors.ErrFeatureLocked, FeatureCustomDurations)
		}
		return nil
	}
	if minutes != preset.Minutes {
		return fmt.Errorf("%w: %s preset runs %d minutes, got %d", apperrors.ErrInvalidInput, preset.ID, preset.Minutes, minutes)
	}
	if !preset.Free && !isPro {
		return fmt.Errorf("%w: %s preset", apperrors.ErrFeatureLocked, preset.ID)
	}
	return nil
}
