package telemetry

import (
	"context"

	"github.com/google/uuid"
)

type correlationKey struct{}

// Correlation ties events of one scenario together.
// IncidentID names the scenario; TurnID names one Resolve call on it.
type Correlation struct {
	IncidentID string
	TurnID     string
}

// NewTurnID returns a fresh, prefixed turn identifier.
func NewTurnID() string { return "turn-" + uuid.NewString() }

// NewIncidentID returns a fresh, prefixed incident identifier.
func NewIncidentID() string { return "inc-" + uuid.NewString() }

// WithCorrelation returns a child context carrying c.
// If ctx is nil, context.Background() is used.
func WithCorrelation(ctx context.Context, c Correlation) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, correlationKey{}, c)
}

// WithTurnID sets the turn ID, keeping any incident ID already present.
func WithTurnID(ctx context.Context, id string) context.Context {
	c, _ := CorrelationFromContext(ctx)
	c.TurnID = id
	return WithCorrelation(ctx, c)
}

// CorrelationFromContext returns the stored correlation, if any.
func CorrelationFromContext(ctx context.Context) (Correlation, bool) {
	if ctx == nil {
		return Correlation{}, false
	}
	c, ok := ctx.Value(correlationKey{}).(Correlation)
	return c, ok
}

// TurnIDFromContext returns the turn ID from ctx.
// Returns "", false if the value is missing or empty.
func TurnIDFromContext(ctx context.Context) (string, bool) {
	c, ok := CorrelationFromContext(ctx)
	if !ok || c.TurnID == "" {
		return "", false
	}
	return c.TurnID, true
}
