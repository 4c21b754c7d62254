package runner_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/petasbytes/synapse/internal/runner"
	"github.com/petasbytes/synapse/internal/telemetry"
)

type capture struct {
	method string
	url    string
	body   []byte
}

// fakeTransport replays respBodies in order, repeating the last one, and
// records every request body.
type fakeTransport struct {
	respStatus int
	respBodies [][]byte

	mu       sync.Mutex
	requests []capture
}

func newFake(bodies ...string) *fakeTransport {
	f := &fakeTransport{respStatus: 200}
	for _, b := range bodies {
		f.respBodies = append(f.respBodies, []byte(b))
	}
	return f
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	b, _ := io.ReadAll(req.Body)
	_ = req.Body.Close()

	f.mu.Lock()
	n := len(f.requests)
	f.requests = append(f.requests, capture{method: req.Method, url: req.URL.String(), body: b})
	body := f.respBodies[min(n, len(f.respBodies)-1)]
	f.mu.Unlock()

	resp := &http.Response{
		StatusCode: f.respStatus,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     make(http.Header),
		Request:    req,
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

func (f *fakeTransport) calls() []capture {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]capture(nil), f.requests...)
}

func (f *fakeTransport) lastBody(t *testing.T) string {
	t.Helper()
	reqs := f.calls()
	if len(reqs) == 0 {
		t.Fatal("no request captured")
	}
	return string(reqs[len(reqs)-1].body)
}

func newClientWithTransport(rt http.RoundTripper) *anthropic.Client {
	c := anthropic.NewClient(
		option.WithHTTPClient(&http.Client{Transport: rt}),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
		// Base URL is irrelevant since transport intercepts
	)
	return &c
}

// readEventLines returns the non-empty lines of the emitter's JSONL file.
func readEventLines(t *testing.T, e *telemetry.Emitter) []string {
	t.Helper()
	f, err := os.Open(e.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("open events: %v", err)
	}
	defer f.Close()

	var out []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		if line := strings.TrimSpace(s.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := s.Err(); err != nil {
		t.Fatalf("scan events: %v", err)
	}
	return out
}

func newEmitter(t *testing.T) *telemetry.Emitter {
	t.Helper()
	return telemetry.New(filepath.Join(t.TempDir(), ".synapse"), true, nil)
}

const emptyReply = `{"id":"msg_0","type":"message","role":"assistant","content":[],"stop_reason":"end_turn"}`

func textReply(text string) string {
	return `{"id":"msg_t","type":"message","role":"assistant","stop_reason":"end_turn","content":[{"type":"text","text":` + quote(text) + `}]}`
}

func toolReply(id, name, input string) string {
	return `{"id":"msg_u","type":"message","role":"assistant","stop_reason":"tool_use","content":[{"type":"tool_use","id":` +
		quote(id) + `,"name":` + quote(name) + `,"input":` + input + `}]}`
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// recorder is an Observer that keeps what it saw.
type recorder struct {
	texts   []string
	started []string
	results []runner.ToolCall
}

func (r *recorder) AssistantText(text string) { r.texts = append(r.texts, text) }

func (r *recorder) ToolCall(name string, _ json.RawMessage) { r.started = append(r.started, name) }

func (r *recorder) ToolResult(call runner.ToolCall) { r.results = append(r.results, call) }
