package dto

import "time"

type StartInput struct {
	SessionType string
	Minutes     int
	Title       string
}

type SessionOutput struct {
	ID              string
	Title           string
	DurationMinutes int
	SessionType     string
	StartTime       time.Time
	EndTime         *time.Time
	Completed       bool
	Interrupted     bool
}

type StatusOutput struct {
	State           string
	Active          bool
	Session         SessionOutput
	TimeLeftSeconds int
	Progress        float64
}

type RecoveryOutput struct {
	Outcome         string
	Reason          string
	Session         *SessionOutput
	TimeLeftSeconds int
}

type EventOutput struct {
	Kind    string
	Session SessionOutput
	Reason  string
	At      time.Time
}
