// Package console renders the operator-facing transcript of a session.
package console

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/fatih/color"
	"github.com/tidwall/gjson"

	"github.com/petasbytes/synapse/internal/metrics"
	"github.com/petasbytes/synapse/internal/runner"
	"github.com/petasbytes/synapse/memory"
	"github.com/petasbytes/synapse/tools"
)

// ExampleScenarios are shown by Help.
var ExampleScenarios = []string{
	"Driver reports Pizza Palace is overloaded with 45-minute wait",
	"Customer complains their food arrived spilled and damaged",
	"Driver cannot find the address: Room 301, Near big temple",
	"Customer says driver never arrived but marked as failed delivery",
}

type Options struct {
	Color    bool
	Markdown bool
	Width    int
}

// Printer writes coloured transcript lines to out. It implements runner.Observer.
type Printer struct {
	out      io.Writer
	markdown bool
	width    int
	renderer *glamour.TermRenderer

	header      *color.Color
	bold        *color.Color
	coordinator *color.Color
	thought     *color.Color
	tool        *color.Color
	answer      *color.Color
	errc        *color.Color
	info        *color.Color
	infoBold    *color.Color
	answerBold  *color.Color
	errBold     *color.Color
	warn        *color.Color
	faint       *color.Color
}

var _ runner.Observer = (*Printer)(nil)

func New(out io.Writer, opts Options) *Printer {
	if opts.Width <= 0 {
		opts.Width = 100
	}
	p := &Printer{
		out:         out,
		markdown:    opts.Markdown,
		width:       opts.Width,
		header:      color.New(color.FgMagenta, color.Bold),
		bold:        color.New(color.Bold),
		coordinator: color.New(color.FgBlue),
		thought:     color.New(color.FgCyan),
		tool:        color.New(color.FgYellow),
		answer:      color.New(color.FgGreen),
		errc:        color.New(color.FgRed),
		info:        color.New(color.FgCyan),
		infoBold:    color.New(color.FgCyan, color.Bold),
		answerBold:  color.New(color.FgGreen, color.Bold),
		errBold:     color.New(color.FgRed, color.Bold),
		warn:        color.New(color.FgYellow, color.Bold),
		faint:       color.New(color.Faint),
	}
	if !opts.Color {
		for _, c := range []*color.Color{p.header, p.bold, p.coordinator, p.thought, p.tool, p.answer, p.errc, p.info, p.infoBold, p.answerBold, p.errBold, p.warn, p.faint} {
			c.DisableColor()
		}
	}
	if opts.Markdown {
		var margin uint
		style := styles.DarkStyleConfig
		if !opts.Color {
			style = styles.ASCIIStyleConfig
		}
		style.Document.Margin = &margin
		r, err := glamour.NewTermRenderer(
			glamour.WithStyles(style),
			glamour.WithWordWrap(opts.Width),
		)
		if err == nil {
			p.renderer = r
		}
	}
	return p
}

func (p *Printer) Banner(name string) {
	p.header.Fprintf(p.out, "Welcome to the Project %s Interactive CLI.\n", name)
	p.header.Fprintln(p.out, "You can describe a delivery disruption, and the agent will try to resolve it.")
	p.header.Fprintln(p.out, "Type 'exit' or 'quit' to end the session.")
	p.header.Fprintln(p.out, "Type 'help' for available commands.")
	fmt.Fprintln(p.out)
}

func (p *Printer) Help() {
	fmt.Fprintln(p.out)
	p.infoBold.Fprintln(p.out, "Available Commands:")
	for _, c := range [][2]string{
		{"help", "Show this help message"},
		{"tools", "List the available tools"},
		{"history", "Show recently resolved incidents"},
		{"stats", "Show tool usage for this session"},
		{"exit", "Exit the application"},
		{"quit", "Exit the application"},
	} {
		p.info.Fprintf(p.out, "  %-8s - %s\n", c[0], c[1])
	}
	fmt.Fprintln(p.out)
	p.info.Fprintln(p.out, "Example Scenarios:")
	for _, s := range ExampleScenarios {
		p.info.Fprintf(p.out, "  '%s'\n", s)
	}
	fmt.Fprintln(p.out)
}

func (p *Printer) Prompt() {
	p.bold.Fprint(p.out, "Enter a disruption scenario: ")
}

func (p *Printer) Coordinator(msg string) {
	p.coordinator.Fprintf(p.out, "[Coordinator] %s\n", msg)
}

func (p *Printer) Info(msg string) {
	p.info.Fprintf(p.out, "ℹ️ %s\n", msg)
}

func (p *Printer) Warn(msg string) {
	p.warn.Fprintln(p.out, msg)
}

func (p *Printer) Error(err error) {
	fmt.Fprintln(p.out)
	p.errBold.Fprintln(p.out, "❌ Error:")
	p.errc.Fprintf(p.out, "%v\n\n", err)
}

// AssistantText prints intermediate model reasoning.
func (p *Printer) AssistantText(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	fmt.Fprintln(p.out)
	p.thought.Fprintln(p.out, "🤔 Agent Thought:")
	p.thought.Fprintln(p.out, text)
}

func (p *Printer) ToolCall(name string, input json.RawMessage) {
	fmt.Fprintln(p.out)
	p.tool.Fprintf(p.out, "🛠️ Calling Tool: %s\n", name)
	if args := FormatArgs(input); args != "" {
		p.tool.Fprintf(p.out, "   Input: %s\n", args)
	}
}

func (p *Printer) ToolResult(call runner.ToolCall) {
	if call.IsError {
		msg := call.Output
		if code := gjson.Get(call.Output, "code"); code.Exists() {
			msg = code.String() + ": " + gjson.Get(call.Output, "message").String()
		}
		p.errc.Fprintf(p.out, "   Error: %s\n", msg)
		return
	}
	p.tool.Fprintf(p.out, "   Output: %s\n", call.Output)
}

// FinalAnswer prints the resolution, rendered as markdown when enabled.
func (p *Printer) FinalAnswer(answer string) {
	fmt.Fprintln(p.out)
	p.answerBold.Fprintln(p.out, "✅ Final Answer:")
	body := strings.TrimSpace(answer)
	if p.markdown && p.renderer != nil {
		if md, err := p.renderer.Render(body); err == nil {
			fmt.Fprintln(p.out, strings.Trim(md, "\n"))
			fmt.Fprintln(p.out)
			return
		}
	}
	p.answer.Fprintf(p.out, "%s\n\n", body)
}

// Tools lists defs by group with their parameter names.
func (p *Printer) Tools(defs []tools.ToolDefinition) {
	groups := tools.Groups(defs)
	for _, g := range tools.GroupOrder {
		list := groups[g]
		if len(list) == 0 {
			continue
		}
		p.bold.Fprintf(p.out, "%s\n", strings.ToUpper(string(g)))
		for _, d := range list {
			p.tool.Fprintf(p.out, "  %s", d.Signature())
			p.faint.Fprintf(p.out, "  %s\n", d.Summary)
		}
	}
}

func (p *Printer) History(incs []memory.Incident) {
	if len(incs) == 0 {
		p.Info("No incidents recorded yet.")
		return
	}
	for _, inc := range incs {
		status := p.answer.Sprint("resolved")
		if inc.Error != "" {
			status = p.errc.Sprint("failed")
		}
		fmt.Fprintf(p.out, "%s  %s  %-22s %s\n",
			p.faint.Sprint(inc.StartedAt.Local().Format(time.DateTime)),
			status,
			inc.Category,
			truncate(inc.Scenario, p.width-60),
		)
		names := make([]string, 0, len(inc.Tools))
		for _, t := range inc.Tools {
			names = append(names, t.Name)
		}
		if len(names) > 0 {
			p.faint.Fprintf(p.out, "    tools: %s\n", strings.Join(names, ", "))
		}
	}
}

func (p *Printer) Stats(counts []metrics.ToolCount) {
	if len(counts) == 0 {
		p.Info("No tools called yet.")
		return
	}
	total, errs := 0, 0
	for _, c := range counts {
		fmt.Fprintf(p.out, "  %-34s %4d", c.Name, c.Calls)
		if c.Errors > 0 {
			p.errc.Fprintf(p.out, "  (%d errors)", c.Errors)
		}
		fmt.Fprintln(p.out)
		total += c.Calls
		errs += c.Errors
	}
	p.bold.Fprintf(p.out, "  %-34s %4d\n", "total", total)
	if errs > 0 {
		p.errc.Fprintf(p.out, "  %-34s %4d\n", "errors", errs)
	}
}

// FormatArgs renders a JSON object as key=value pairs in input order.
// Non-object input is returned compacted.
func FormatArgs(input json.RawMessage) string {
	res := gjson.ParseBytes(input)
	if !res.IsObject() {
		return strings.TrimSpace(res.Raw)
	}
	var parts []string
	res.ForEach(func(key, value gjson.Result) bool {
		v := value.String()
		if value.Type == gjson.JSON {
			v = value.Raw
		}
		parts = append(parts, key.String()+"="+v)
		return true
	})
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	if n < 20 {
		n = 20
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
