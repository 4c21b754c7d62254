package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petasbytes/synapse/internal/config"
	"github.com/petasbytes/synapse/internal/console"
	"github.com/petasbytes/synapse/tools"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive disruption session (default)",
		Args:  cobra.NoArgs,
		RunE:  a.runChat,
	}
}

func (a *app) runChat(cmd *cobra.Command, args []string) error {
	s, err := a.newSession()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("session started", zap.String("model", a.cfg.LLM.Model))
	return s.run(ctx, cmd.InOrStdin())
}

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [scenario...]",
		Short: "Resolve a single disruption scenario and exit",
		Long: `Hands one scenario to the agent, prints the tool calls and the final
answer, and exits non-zero when resolution fails.

Example:
  synapse resolve "Customer says driver never arrived but marked as failed delivery"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			scenario := strings.Join(args, " ")
			if strings.TrimSpace(scenario) == "" {
				return fmt.Errorf("scenario must not be blank")
			}
			if err := s.resolve(ctx, scenario); err != nil {
				return fmt.Errorf("resolve: %w", err)
			}
			return nil
		},
	}
}

func newToolsCmd(a *app) *cobra.Command {
	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect and invoke the simulated tool catalog",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tools grouped by area",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.printer().Tools(tools.Registry())
			return nil
		},
	}

	var rawArgs string
	callCmd := &cobra.Command{
		Use:   "call [name]",
		Short: "Invoke one tool locally without the model",
		Long: `Runs a tool stub with JSON arguments and prints its result.

Example:
  synapse tools call get_merchant_status --args '{"merchant_name":"Pizza Palace"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, ok := tools.Lookup(tools.Registry(), args[0])
			if !ok {
				return tools.ToolError{Code: tools.ErrToolNotFound, Message: "unknown tool: " + args[0]}
			}
			if !json.Valid([]byte(rawArgs)) {
				return fmt.Errorf("--args is not valid JSON: %s", rawArgs)
			}
			out, err := def.Function(json.RawMessage(rawArgs))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	callCmd.Flags().StringVar(&rawArgs, "args", "{}", "Tool arguments as a JSON object")

	toolsCmd.AddCommand(listCmd, callCmd)
	return toolsCmd
}

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the YAML configuration file",
		// init must work even when the existing file does not load.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Long: `Writes the default configuration to the --config path. The API key is
left empty; export ANTHROPIC_API_KEY or fill in llm.api_key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", a.configPath)
			}
			if err := config.DefaultConfig().Save(a.configPath); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", a.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(initCmd)
	return configCmd
}

func (a *app) printer() *console.Printer {
	return console.New(a.out, console.Options{
		Color:    a.cfg.Console.Color,
		Markdown: a.cfg.Console.Markdown,
		Width:    a.cfg.Console.Width,
	})
}
