package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"timebox/internal/platform/clock"
)

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// SessionToken builds "session_<unix millis>_<random>" identifiers.
type SessionToken struct {
	Clock clock.Clock
}

func (g SessionToken) New() string {
	c := g.Clock
	if c == nil {
		c = clock.SystemClock{}
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("session_%d_%s", c.Now().UnixMilli(), suffix)
}

// UUID returns random RFC 4122 identifiers.
type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}
