package runner_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/tidwall/gjson"

	"github.com/petasbytes/synapse/internal/runner"
	"github.com/petasbytes/synapse/tools"
)

func TestRunner_KeepsScenarioAndNewestPair_WhenBudgetTight(t *testing.T) {
	// Budget fits the opening scenario plus the newest pair and drops the older pair.
	fake := newFake(emptyReply)
	r := runner.New(newClientWithTransport(fake), tools.Registry(), runner.WithBudget(25))

	// Conversation: oldest -> newest
	// 1) user("old")                                   3 + 4 = 7 (pinned)
	// 2) assistant(tool_use id="a", name="dummy_tool") 10 + 4 = 14
	// 3) user(tool_result tool_use_id="a")             4
	// 4) assistant(tool_use id="b", name="dummy_tool") 14
	// 5) user(tool_result tool_use_id="b")             4
	useA := anthropic.ToolUseBlockParam{ID: "a", Name: "dummy_tool"}
	resA := anthropic.ToolResultBlockParam{ToolUseID: "a"}
	useB := anthropic.ToolUseBlockParam{ID: "b", Name: "dummy_tool"}
	resB := anthropic.ToolResultBlockParam{ToolUseID: "b"}

	conv := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock("old")),
		anthropic.NewAssistantMessage(anthropic.ContentBlockParamUnion{OfToolUse: &useA}),
		anthropic.NewUserMessage(anthropic.ContentBlockParamUnion{OfToolResult: &resA}),
		anthropic.NewAssistantMessage(anthropic.ContentBlockParamUnion{OfToolUse: &useB}),
		anthropic.NewUserMessage(anthropic.ContentBlockParamUnion{OfToolResult: &resB}),
	}

	if _, err := r.RunOneStep(context.Background(), conv); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	body := fake.lastBody(t)
	msgs := gjson.Get(body, "messages")
	if n := len(msgs.Array()); n != 3 {
		t.Fatalf("expected scenario plus the newest pair (3 messages), got %d\nbody=%s", n, body)
	}
	if gjson.Get(body, "messages.0.role").String() != "user" ||
		gjson.Get(body, "messages.0.content.0.text").String() != "old" {
		t.Fatalf("unexpected first message (user scenario): %s", msgs.Array()[0].Raw)
	}
	if gjson.Get(body, "messages.1.role").String() != "assistant" ||
		gjson.Get(body, "messages.1.content.0.type").String() != "tool_use" ||
		gjson.Get(body, "messages.1.content.0.id").String() != "b" {
		t.Fatalf("unexpected second message (assistant tool_use): %s", msgs.Array()[1].Raw)
	}
	if gjson.Get(body, "messages.2.role").String() != "user" ||
		gjson.Get(body, "messages.2.content.0.type").String() != "tool_result" ||
		gjson.Get(body, "messages.2.content.0.tool_use_id").String() != "b" {
		t.Fatalf("unexpected third message (user tool_result): %s", msgs.Array()[2].Raw)
	}
}

func TestRunner_MissingBudget_ReturnsError(t *testing.T) {
	fake := newFake(emptyReply)
	r := runner.New(newClientWithTransport(fake), tools.Registry())
	_, err := r.RunOneStep(context.Background(), nil)
	if !errors.Is(err, runner.ErrBudgetNotSet) {
		t.Fatalf("expected ErrBudgetNotSet, got %v", err)
	}
	if len(fake.calls()) != 0 {
		t.Fatal("expected no HTTP call without a budget")
	}
}

func TestRunner_OverBudgetNewest_ReturnsError_NoHTTP(t *testing.T) {
	// Guard: newest group over budget returns error and makes no HTTP call.
	fake := newFake(emptyReply)
	r := runner.New(newClientWithTransport(fake), tools.Registry(), runner.WithBudget(1))
	conv := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock("hello")),
	}
	_, err := r.RunOneStep(context.Background(), conv)
	if !errors.Is(err, runner.ErrNewestOverBudget) {
		t.Fatalf("expected over-budget newest error, got %v", err)
	}
	if n := len(fake.calls()); n != 0 {
		t.Fatalf("expected no HTTP call when over-budget newest; got %d", n)
	}
}

func TestRunner_SendsPreparedWindowSubset(t *testing.T) {
	// Sends the pinned opening message and the newest one, not the full conversation.
	fake := newFake(emptyReply)
	r := runner.New(newClientWithTransport(fake), tools.Registry(), runner.WithBudget(16))
	conv := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock("abc")),   // 7
		anthropic.NewUserMessage(anthropic.NewTextBlock("x")),     // 5
		anthropic.NewUserMessage(anthropic.NewTextBlock("defgh")), // 9
	}
	if _, err := r.RunOneStep(context.Background(), conv); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	body := fake.lastBody(t)
	if n := len(gjson.Get(body, "messages").Array()); n != 2 {
		t.Fatalf("expected 2 messages in prepared window, got %d", n)
	}
	if got := gjson.Get(body, "messages.0.content.0.text").String(); got != "abc" {
		t.Fatalf("unexpected opening message: %q", got)
	}
	if got := gjson.Get(body, "messages.1.content.0.text").String(); got != "defgh" {
		t.Fatalf("unexpected prepared window payload: %q", got)
	}
}

func TestRunner_RequestCarriesSystemToolsAndSettings(t *testing.T) {
	fake := newFake(emptyReply)
	r := runner.New(newClientWithTransport(fake), tools.Registry(),
		runner.WithBudget(1000),
		runner.WithSystem("You are Synapse."),
		runner.WithModel("claude-test"),
		runner.WithMaxTokens(256),
		runner.WithTemperature(0.2),
	)
	conv := []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("hi"))}
	if _, err := r.RunOneStep(context.Background(), conv); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	body := fake.lastBody(t)
	checks := map[string]string{
		"model":                           "claude-test",
		"max_tokens":                      "256",
		"temperature":                     "0.2",
		"system.0.text":                   "You are Synapse.",
		"tools.#":                         "17",
		"tools.0.name":                    "get_merchant_status",
		"tools.0.input_schema.type":       "object",
		"tools.0.input_schema.required.0": "merchant_name",
		"tools.16.name":                   "initiate_qr_code_verification",
	}
	for path, want := range checks {
		if got := gjson.Get(body, path).String(); got != want {
			t.Errorf("%s: got %q want %q", path, got, want)
		}
	}
}

func TestRunner_NoSystemPrompt_OmitsSystem(t *testing.T) {
	fake := newFake(emptyReply)
	r := runner.New(newClientWithTransport(fake), nil, runner.WithBudget(1000))
	conv := []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("hi"))}
	if _, err := r.RunOneStep(context.Background(), conv); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gjson.Get(fake.lastBody(t), "system").Exists() {
		t.Fatal("system should be omitted when empty")
	}
}

func TestRunner_ToolUse_ExecutesToolAndReturnsResults(t *testing.T) {
	fake := newFake(toolReply("t1", "get_merchant_status", `{"merchant_name":"Pizza Palace"}`))
	rec := &recorder{}
	r := runner.New(newClientWithTransport(fake), tools.Registry(),
		runner.WithBudget(1000), runner.WithObserver(rec))
	conv := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock("Driver reports Pizza Palace is overloaded")),
	}
	step, err := r.RunOneStep(context.Background(), conv)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if step.Message == nil {
		t.Fatal("nil message returned")
	}
	if len(step.Results) != 1 || len(step.Calls) != 1 {
		t.Fatalf("expected one result and one call, got %d/%d", len(step.Results), len(step.Calls))
	}

	call := step.Calls[0]
	if call.ID != "t1" || call.Name != "get_merchant_status" || call.IsError {
		t.Fatalf("unexpected call: %+v", call)
	}
	if gjson.GetBytes(call.Input, "merchant_name").String() != "Pizza Palace" {
		t.Fatalf("raw input not passed through: %s", call.Input)
	}
	found := false
	for _, s := range tools.MerchantStatuses {
		if call.Output == s {
			found = true
		}
	}
	if !found {
		t.Fatalf("output %q not a merchant status", call.Output)
	}

	tr := step.Results[0].OfToolResult
	if tr == nil || tr.ToolUseID != "t1" {
		t.Fatalf("unexpected tool_result block: %+v", step.Results[0])
	}
	if len(rec.started) != 1 || rec.started[0] != "get_merchant_status" || len(rec.results) != 1 {
		t.Fatalf("observer not notified: %+v", rec)
	}
}

func TestRunner_UnknownTool_IsErrorResult(t *testing.T) {
	fake := newFake(toolReply("nf1", "does_not_exist", `{"a":1}`))
	r := runner.New(newClientWithTransport(fake), tools.Registry(), runner.WithBudget(1000))
	conv := []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("call missing"))}

	step, err := r.RunOneStep(context.Background(), conv)
	if err != nil {
		t.Fatalf("unknown tool must not abort the step: %v", err)
	}
	call := step.Calls[0]
	if !call.IsError || gjson.Get(call.Output, "code").String() != tools.ErrToolNotFound {
		t.Fatalf("unexpected call: %+v", call)
	}
	if !strings.Contains(call.Output, "does_not_exist") {
		t.Fatalf("error should name the tool: %s", call.Output)
	}
}

func TestRunner_InvalidArgs_IsErrorResult(t *testing.T) {
	fake := newFake(toolReply("t1", "reroute_driver", `{"driver_id":"D-1"}`))
	r := runner.New(newClientWithTransport(fake), tools.Registry(), runner.WithBudget(1000))
	conv := []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("reroute"))}

	step, err := r.RunOneStep(context.Background(), conv)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	call := step.Calls[0]
	var te tools.ToolError
	if err := json.Unmarshal([]byte(call.Output), &te); err != nil {
		t.Fatalf("output is not a ToolError: %q", call.Output)
	}
	if !call.IsError || te.Code != tools.ErrInvalidArgs || !strings.Contains(te.Message, "new_task_description") {
		t.Fatalf("unexpected result: %+v", call)
	}
}

func TestRunner_TextBesideToolUse_ReachesObserver(t *testing.T) {
	fake := newFake(`{"id":"msg_m","type":"message","role":"assistant","stop_reason":"tool_use","content":[` +
		`{"type":"text","text":"Checking the merchant now."},` +
		`{"type":"tool_use","id":"t1","name":"get_merchant_status","input":{"merchant_name":"Pizza Palace"}}]}`)
	rec := &recorder{}
	r := runner.New(newClientWithTransport(fake), tools.Registry(),
		runner.WithBudget(1000), runner.WithObserver(rec))
	conv := []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("hi"))}

	step, err := r.RunOneStep(context.Background(), conv)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(step.Results) != 1 {
		t.Fatalf("expected one tool result, got %d", len(step.Results))
	}
	if len(rec.texts) != 1 || rec.texts[0] != "Checking the merchant now." {
		t.Fatalf("observer texts: %+v", rec.texts)
	}
}

func TestRunner_FinalText_NotSentToObserver(t *testing.T) {
	fake := newFake(textReply("Order rerouted to Pizza Pronto."))
	rec := &recorder{}
	r := runner.New(newClientWithTransport(fake), tools.Registry(),
		runner.WithBudget(1000), runner.WithObserver(rec))
	conv := []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("hi"))}

	step, err := r.RunOneStep(context.Background(), conv)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(step.Results) != 0 {
		t.Fatalf("text-only reply produced tool results: %d", len(step.Results))
	}
	if len(rec.texts) != 0 {
		t.Fatalf("closing text must be left to the caller, observer saw %+v", rec.texts)
	}
}
