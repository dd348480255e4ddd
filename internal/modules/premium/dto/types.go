package dto

import "time"

type StatusOutput struct {
	IsPro        bool
	PurchaseDate *time.Time
	ProductID    string
}

type FeatureOutput struct {
	ID          string
	Name        string
	Description string
	Available   bool
}

type PurchaseOutput struct {
	Success bool
	Status  StatusOutput
}

type PresetInput struct {
	Preset  string
	Minutes int
}

type PresetOutput struct {
	ID       string
	Label    string
	Minutes  int
	Free     bool
	Unlocked bool
}
