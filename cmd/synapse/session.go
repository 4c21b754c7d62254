package main

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/petasbytes/synapse/internal/console"
	"github.com/petasbytes/synapse/internal/metrics"
	"github.com/petasbytes/synapse/internal/prompt"
	"github.com/petasbytes/synapse/internal/provider"
	"github.com/petasbytes/synapse/internal/runner"
	"github.com/petasbytes/synapse/internal/telemetry"
	"github.com/petasbytes/synapse/memory"
	"github.com/petasbytes/synapse/tools"
)

const historyLimit = 10

type resolver interface {
	Resolve(ctx context.Context, scenario string) (*runner.Outcome, error)
}

// session owns one interactive or one-shot run.
type session struct {
	name     string
	printer  *console.Printer
	resolver resolver
	store    *memory.Store
	usage    *metrics.ToolUsage
	defs     []tools.ToolDefinition
	logger   *zap.Logger
}

// newSession wires the runner with the printer as its observer.
func (a *app) newSession() (*session, error) {
	if err := a.cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	cfg := a.cfg
	printer := a.printer()
	usage := metrics.NewToolUsage()
	defs := tools.Registry()

	var store *memory.Store
	if cfg.Memory.Enabled {
		store = memory.NewStore(cfg.Memory.Path)
	}

	r := runner.New(a.client(), defs,
		runner.WithModel(provider.Model(cfg.LLM)),
		runner.WithSystem(prompt.System(cfg.Agent.Name, defs)),
		runner.WithTemperature(cfg.LLM.Temperature),
		runner.WithMaxTokens(cfg.LLM.MaxTokens),
		runner.WithBudget(cfg.Agent.TokenBudget),
		runner.WithMaxSteps(cfg.Agent.MaxSteps),
		runner.WithObserver(printer),
		runner.WithTelemetry(telemetry.New(cfg.Telemetry.Dir, cfg.Telemetry.Enabled, a.logger)),
		runner.WithUsage(usage),
		runner.WithLogger(a.logger),
	)

	return &session{
		name:     cfg.Agent.Name,
		printer:  printer,
		resolver: r,
		store:    store,
		usage:    usage,
		defs:     defs,
		logger:   a.logger,
	}, nil
}

// run reads scenarios from in until exit, EOF or ctx cancellation.
func (s *session) run(ctx context.Context, in io.Reader) error {
	s.printer.Banner(s.name)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// stdin reader goroutine -> lines into channel
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		s.printer.Prompt()
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			s.printer.Warn("\nSession interrupted. Goodbye!")
			return nil
		case line, ok = <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
		}
		if s.handle(ctx, line) {
			return nil
		}
	}
}

// handle executes one input line and reports whether the session should end.
func (s *session) handle(ctx context.Context, line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
	case "exit", "quit":
		s.printer.Warn("Ending session. Goodbye!")
		return true
	case "help":
		s.printer.Help()
	case "tools":
		s.printer.Tools(s.defs)
	case "stats":
		s.printer.Stats(s.usage.Snapshot())
	case "history":
		incs, err := s.store.Recent(historyLimit)
		if err != nil {
			s.printer.Error(err)
			break
		}
		s.printer.History(incs)
	default:
		_ = s.resolve(ctx, line)
	}
	return false
}

// resolve hands scenario to the agent, prints the outcome and records it.
func (s *session) resolve(ctx context.Context, scenario string) error {
	s.printer.Coordinator("Received new disruption. Handing over to the agent...")

	started := time.Now()
	out, err := s.resolver.Resolve(ctx, scenario)
	s.record(scenario, started, out, err)
	if err != nil {
		s.printer.Error(err)
		return err
	}

	s.printer.FinalAnswer(out.Answer)
	s.printer.Coordinator("Agent has completed its task and is ready for the next scenario.\n")
	return nil
}

func (s *session) record(scenario string, started time.Time, out *runner.Outcome, err error) {
	inc := memory.Incident{
		Scenario:   scenario,
		Category:   string(metrics.Classify(scenario)),
		StartedAt:  started.UTC(),
		DurationMS: time.Since(started).Milliseconds(),
	}
	if out != nil {
		inc.ID = out.IncidentID
		inc.TurnID = out.TurnID
		inc.Answer = out.Answer
		inc.Steps = out.Steps
		for _, c := range out.Calls {
			inc.Tools = append(inc.Tools, memory.ToolCall{Name: c.Name, IsError: c.IsError})
		}
	}
	if err != nil {
		inc.Error = err.Error()
	}
	if err := s.store.Append(inc); err != nil {
		s.logger.Warn("failed to record incident", zap.String("path", s.store.Path()), zap.Error(err))
	}
}
