package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/zap"

	"github.com/petasbytes/synapse/internal/telemetry"
)

// ErrStepLimit is returned by Resolve when the model keeps calling tools past MaxSteps.
var ErrStepLimit = errors.New("step limit reached before a final answer")

// Outcome summarises one resolved scenario.
type Outcome struct {
	IncidentID string
	TurnID     string
	Scenario   string
	// Answer is the text of the final assistant message.
	Answer  string
	Steps   int
	Calls   []ToolCall
	Elapsed time.Duration
}

// ToolErrors counts calls that returned is_error results.
func (o *Outcome) ToolErrors() int {
	n := 0
	for _, c := range o.Calls {
		if c.IsError {
			n++
		}
	}
	return n
}

// Resolve runs scenario in a fresh conversation until the model answers
// without calling tools. The outcome is returned even on error and holds
// whatever progress was made.
func (r *Runner) Resolve(ctx context.Context, scenario string) (*Outcome, error) {
	c, _ := telemetry.CorrelationFromContext(ctx)
	if c.IncidentID == "" {
		c.IncidentID = telemetry.NewIncidentID()
	}
	c.TurnID = telemetry.NewTurnID()
	ctx = telemetry.WithCorrelation(ctx, c)

	r.Telemetry.EmitScenario(ctx, scenario)

	out := &Outcome{IncidentID: c.IncidentID, TurnID: c.TurnID, Scenario: scenario}
	start := time.Now()
	conv := []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(scenario))}

	err := r.loop(ctx, conv, out)
	out.Elapsed = time.Since(start)

	fields := map[string]any{
		"incident_id":  out.IncidentID,
		"turn_id":      out.TurnID,
		"steps":        out.Steps,
		"tool_calls":   len(out.Calls),
		"tool_errors":  out.ToolErrors(),
		"duration_ms":  out.Elapsed.Milliseconds(),
		"answer_bytes": len(out.Answer),
		"error":        nil,
	}
	if err != nil {
		fields["error"] = errorKind(err)
	}
	r.Telemetry.Emit("turn_complete", fields)
	r.Logger.Info("scenario resolved",
		zap.String("turn_id", out.TurnID),
		zap.Int("steps", out.Steps),
		zap.Int("tool_calls", len(out.Calls)),
		zap.Duration("elapsed", out.Elapsed),
		zap.Error(err),
	)
	return out, err
}

func (r *Runner) loop(ctx context.Context, conv []anthropic.MessageParam, out *Outcome) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if out.Steps >= r.MaxSteps {
			return ErrStepLimit
		}
		step, err := r.RunOneStep(ctx, conv)
		if err != nil {
			return fmt.Errorf("step %d: %w", out.Steps+1, err)
		}
		out.Steps++
		out.Calls = append(out.Calls, step.Calls...)
		out.Answer = messageText(step.Message)

		conv = append(conv, step.Message.ToParam())
		if len(step.Results) == 0 {
			return nil
		}
		conv = append(conv, anthropic.NewUserMessage(step.Results...))
	}
}

func messageText(msg *anthropic.Message) string {
	var parts []string
	for _, block := range msg.Content {
		if t, ok := block.AsAny().(anthropic.TextBlock); ok && strings.TrimSpace(t.Text) != "" {
			parts = append(parts, strings.TrimSpace(t.Text))
		}
	}
	return strings.Join(parts, "\n\n")
}

// errorKind maps err to a payload-free label for telemetry.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrStepLimit):
		return "step_limit"
	case errors.Is(err, ErrBudgetNotSet):
		return "budget_not_set"
	case errors.Is(err, ErrNewestOverBudget):
		return "over_budget_newest"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("api_%d", apiErr.StatusCode)
	}
	return "other"
}
