package id_test

import (
	"strings"
	"testing"
	"time"

	"timebox/internal/platform/clock"
	"timebox/internal/platform/id"
)

func TestSessionTokenEmbedsTimestampAndRandomSuffix(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	gen := id.SessionToken{Clock: clock.Fixed(at)}
	first := gen.New()
	second := gen.New()
	prefix := "session_1772355600000_"
	if !strings.HasPrefix(first, prefix) {
		t.Fatalf("expected prefix %s, got %s", prefix, first)
	}
	if len(first) != len(prefix)+9 {
		t.Fatalf("unexpected token length: %s", first)
	}
	if first == second {
		t.Fatalf("tokens generated at the same instant must differ")
	}
}
