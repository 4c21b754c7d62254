package telemetry

import (
	"context"

	"github.com/petasbytes/synapse/internal/metrics"
)

// EmitScenario records derived features and the disruption category of a
// scenario. The raw text is never written.
func (e *Emitter) EmitScenario(ctx context.Context, scenario string) {
	if !e.Enabled() {
		return
	}
	c, _ := CorrelationFromContext(ctx)
	f := metrics.CountFeatures(scenario)
	e.Emit("scenario_received", map[string]any{
		"incident_id":      c.IncidentID,
		"turn_id":          c.TurnID,
		"features_version": "1",
		"category":         string(metrics.Classify(scenario)),
		"scenario": map[string]any{
			"bytes": f.Bytes,
			"runes": f.Runes,
			"words": f.Words,
			"lines": f.Lines,
			"refs":  f.Refs,
		},
	})
}
