package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/zap"

	"github.com/petasbytes/synapse/internal/metrics"
	"github.com/petasbytes/synapse/internal/provider"
	"github.com/petasbytes/synapse/internal/telemetry"
	"github.com/petasbytes/synapse/internal/windowing"
	"github.com/petasbytes/synapse/tools"
)

var (
	// ErrBudgetNotSet is returned when the runner has no positive token budget.
	ErrBudgetNotSet = errors.New("token budget not set; configure agent.token_budget or SYNAPSE_TOKEN_BUDGET")
	// ErrNewestOverBudget is returned when the newest message group, together with the pinned scenario, exceeds the budget.
	ErrNewestOverBudget = errors.New("windowing: newest group (with pinned scenario) exceeds token budget; increase budget with headroom")
)

const (
	DefaultMaxSteps  = 15
	DefaultMaxTokens = int64(1024)
)

type Runner struct {
	Client      *anthropic.Client
	Tools       []tools.ToolDefinition
	Model       anthropic.Model
	System      string
	Temperature float64
	MaxTokens   int64
	Budget      int
	MaxSteps    int

	Observer  Observer
	Telemetry *telemetry.Emitter
	Usage     *metrics.ToolUsage
	Logger    *zap.Logger

	counter windowing.TokenCounter
}

// Option configures a Runner.
type Option func(*Runner)

func WithModel(m anthropic.Model) Option { return func(r *Runner) { r.Model = m } }
func WithSystem(s string) Option { return func(r *Runner) { r.System = s } }
func WithTemperature(t float64) Option { return func(r *Runner) { r.Temperature = t } }
func WithMaxTokens(n int64) Option { return func(r *Runner) { r.MaxTokens = n } }
func WithBudget(n int) Option { return func(r *Runner) { r.Budget = n } }
func WithMaxSteps(n int) Option { return func(r *Runner) { r.MaxSteps = n } }
func WithObserver(o Observer) Option { return func(r *Runner) { r.Observer = o } }
func WithTelemetry(e *telemetry.Emitter) Option { return func(r *Runner) { r.Telemetry = e } }
func WithUsage(u *metrics.ToolUsage) Option { return func(r *Runner) { r.Usage = u } }
func WithLogger(l *zap.Logger) Option { return func(r *Runner) { r.Logger = l } }

// New returns a Runner with defaults for anything opts leave unset.
// The token budget has no default and must be supplied with WithBudget.
func New(client *anthropic.Client, toolDefs []tools.ToolDefinition, opts ...Option) *Runner {
	r := &Runner{
		Client:    client,
		Tools:     toolDefs,
		Model:     provider.DefaultModel,
		MaxTokens: DefaultMaxTokens,
		MaxSteps:  DefaultMaxSteps,
		counter:   windowing.HeuristicCounter{},
	}
	for _, o := range opts {
		o(r)
	}
	if r.Observer == nil {
		r.Observer = NopObserver{}
	}
	if r.Logger == nil {
		r.Logger = zap.NewNop()
	}
	if r.MaxSteps <= 0 {
		r.MaxSteps = DefaultMaxSteps
	}
	if r.MaxTokens <= 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	return r
}

// Step is the outcome of one model round trip.
type Step struct {
	Message *anthropic.Message
	// Results holds one tool_result block per tool_use in Message, in order.
	Results []anthropic.ContentBlockParamUnion
	Calls   []ToolCall
}

// ToolCall records a single tool execution.
type ToolCall struct {
	ID       string
	Name     string
	Input    json.RawMessage
	Output   string
	IsError  bool
	Duration time.Duration
}

func (r *Runner) anthropicTools() []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(r.Tools))
	for _, t := range r.Tools {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: t.InputSchema,
		}})
	}
	return out
}

// RunOneStep sends the budgeted window of conv and executes any requested tools.
// Tool failures are returned to the model as is_error results and never abort the step.
func (r *Runner) RunOneStep(ctx context.Context, conv []anthropic.MessageParam) (*Step, error) {
	if r.Budget <= 0 {
		return nil, ErrBudgetNotSet
	}

	// Prepare pair-safe, budgeted window
	window, stats := windowing.PrepareSendWindow(conv, r.Budget, r.counter, r.Logger)

	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = telemetry.NewTurnID()
		ctx = telemetry.WithTurnID(ctx, turnID)
	}

	r.Telemetry.Emit("window_prepared", map[string]any{
		"turn_id":            turnID,
		"model":              string(r.Model),
		"budget":             stats.Budget,
		"total_estimated":    stats.Total,
		"included_groups":    stats.IncludedGroups,
		"skipped_groups":     stats.SkippedGroups,
		"over_budget_newest": stats.OverBudgetNewest,
		"pinned_scenario":    stats.Pinned,
	})
	r.Logger.Debug("window prepared",
		zap.String("turn_id", turnID),
		zap.Int("budget", stats.Budget),
		zap.Int("est_total", stats.Total),
		zap.Int("groups_in", stats.IncludedGroups),
		zap.Int("groups_skip", stats.SkippedGroups),
	)

	if stats.OverBudgetNewest {
		return nil, ErrNewestOverBudget
	}

	params := anthropic.MessageNewParams{
		Model:       r.Model,
		MaxTokens:   r.MaxTokens,
		Messages:    window,
		Temperature: anthropic.Float(r.Temperature),
		Tools:       r.anthropicTools(),
	}
	if r.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: r.System}}
	}

	msg, err := r.Client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("messages.new: %w", err)
	}

	// Text next to tool calls is reasoning; text of a closing message is the answer
	// and is left to the caller.
	intermediate := hasToolUse(msg)
	step := &Step{Message: msg}
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			if intermediate {
				r.Observer.AssistantText(v.Text)
			}
		case anthropic.ToolUseBlock:
			// Pass raw JSON input through to the tool implementation
			input := json.RawMessage(v.JSON.Input.Raw())
			call := r.execTool(ctx, v.ID, v.Name, input)
			step.Calls = append(step.Calls, call)
			step.Results = append(step.Results, anthropic.NewToolResultBlock(call.ID, call.Output, call.IsError))
		}
	}
	return step, nil
}

func hasToolUse(msg *anthropic.Message) bool {
	for _, block := range msg.Content {
		if block.Type == "tool_use" {
			return true
		}
	}
	return false
}

func (r *Runner) execTool(ctx context.Context, id, name string, input json.RawMessage) ToolCall {
	r.Observer.ToolCall(name, input)

	turnID, _ := telemetry.TurnIDFromContext(ctx)
	call := ToolCall{ID: id, Name: name, Input: input}
	start := time.Now()

	var errStr string
	def, ok := tools.Lookup(r.Tools, name)
	switch {
	case !ok:
		call.Output = tools.ToolError{Code: tools.ErrToolNotFound, Message: "unknown tool: " + name}.Error()
		call.IsError = true
		errStr = "tool not found"
	default:
		resp, err := def.Function(input)
		if err != nil {
			// Detailed message goes to the model; telemetry gets a generic string.
			call.Output = err.Error()
			call.IsError = true
			errStr = "tool error"
		} else {
			call.Output = resp
		}
	}
	call.Duration = time.Since(start)

	fields := map[string]any{
		"tool_name":   name,
		"duration_ms": call.Duration.Milliseconds(),
		"input_size":  len(input),
		"output_size": 0,
		"turn_id":     turnID,
		"error":       nil,
	}
	if call.IsError {
		fields["error"] = errStr
	} else {
		fields["output_size"] = len(call.Output)
	}
	r.Telemetry.Emit("tool_exec", fields)
	r.Usage.Record(name, call.IsError)
	r.Logger.Debug("tool executed",
		zap.String("tool", name),
		zap.Bool("is_error", call.IsError),
		zap.Duration("duration", call.Duration),
	)

	r.Observer.ToolResult(call)
	return call
}
