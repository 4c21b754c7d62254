package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petasbytes/synapse/internal/config"
	"github.com/petasbytes/synapse/internal/logging"
	"github.com/petasbytes/synapse/internal/provider"
	"github.com/petasbytes/synapse/tools"
)

// app carries flags, loaded configuration and I/O for every command.
type app struct {
	in  io.Reader
	out io.Writer

	configPath string
	verbose    bool
	seed       uint64
	noColor    bool

	cfg    *config.Config
	logger *zap.Logger

	// httpClient overrides the Anthropic transport when set.
	httpClient *http.Client
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "synapse",
		Short: "Synapse - last-mile delivery disruption coordinator",
		Long: `Synapse resolves last-mile delivery disruptions with an LLM agent.

Describe a disruption in plain language and the agent decides which
logistics, customer, dispute and verification tools to use.

Run without arguments to start the interactive session.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.runChat,
	}
	root.SetIn(a.in)
	root.SetOut(a.out)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "synapse.yaml", "Path to the YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().Uint64Var(&a.seed, "seed", 0, "Seed simulated tool outcomes for reproducible runs")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable coloured output")

	root.AddCommand(newChatCmd(a))
	root.AddCommand(newResolveCmd(a))
	root.AddCommand(newToolsCmd(a))
	root.AddCommand(newConfigCmd(a))
	return root
}

// setup loads configuration and logging before any command runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	// A zero seed in the file means unseeded; an explicit --seed always applies.
	seeded := cfg.Agent.Seed != 0
	if cmd.Flags().Changed("seed") {
		cfg.Agent.Seed = a.seed
		seeded = true
	}
	if a.noColor {
		cfg.Console.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Logging, a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if seeded {
		tools.Seed(cfg.Agent.Seed)
		logger.Debug("seeded tool outcomes", zap.Uint64("seed", cfg.Agent.Seed))
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) client() *anthropic.Client {
	return provider.NewAnthropicClient(a.cfg.LLM, a.httpClient)
}

func main() {
	a := &app{in: os.Stdin, out: os.Stdout}
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
