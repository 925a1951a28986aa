package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/philippgille/chromem-go"
	"github.com/spf13/cobra"

	"github.com/tomvane/triage/internal/agentspec"
	"github.com/tomvane/triage/internal/config"
	"github.com/tomvane/triage/internal/responder"
	"github.com/tomvane/triage/internal/router"
	"github.com/tomvane/triage/internal/session"
	"github.com/tomvane/triage/internal/transcript"
)

// ChatOptions holds flags for the chat command.
type ChatOptions struct {
	*RootOptions
	ConfigPath string
	Database   string // overrides the config file when set

	// Decider overrides the model-backed decision-maker (for testing).
	Decider router.Decider

	// Responders overrides the label-to-responder map (for testing).
	Responders map[string]responder.Responder
}

// NewChatCommand creates the chat command.
func NewChatCommand(rootOpts *RootOptions) *cobra.Command {
	return newChatCommand(&ChatOptions{RootOptions: rootOpts})
}

// newChatCommand builds the command from pre-populated options so tests can
// inject a fake decision-maker and responders.
func newChatCommand(opts *ChatOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive routed chat session",
		Long: `Start an interactive chat session.

Each turn is classified by the supervisor profile and routed to the
responder serving the chosen label. Every exchange is appended to the
SQLite transcript together with a checkpoint recording the routing
decision. Type "exit" or "quit" (or press Ctrl-D) to leave.

Examples:
  triage chat --config ./triage.yaml
  triage chat --db /tmp/scratch.db --verbose`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "triage.yaml", "path to config file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite transcript (overrides config)")

	return cmd
}

func runChat(opts *ChatOptions, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.DatabasePath = opts.Database
	}

	slog.Info("opening transcript", "path", cfg.DatabasePath)
	st, err := transcript.Open(cfg.DatabasePath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open transcript", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing transcript", "error", closeErr)
		}
	}()

	decider := opts.Decider
	responders := opts.Responders
	if decider == nil || responders == nil {
		decider, responders, err = buildAgents(cfg)
		if err != nil {
			return err
		}
	}

	sess := session.New(st, decider, responders, cfg.HistoryWindow)

	// Cancel the session on Ctrl-C or SIGTERM.
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	if _, err := sess.Start(ctx); err != nil {
		return WrapExitError(ExitCommandError, "failed to start session", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Session started. Type 'exit' to leave.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			continue
		}
		if prompt == "exit" || prompt == "quit" {
			break
		}

		answer, err := sess.HandleTurn(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return WrapExitError(ExitFailure, "turn failed", err)
		}
		fmt.Fprintln(out, answer)
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}

	fmt.Fprintln(out, "Goodbye.")
	return nil
}

// buildAgents assembles the production decision-maker and responders from
// the CUE profiles named in the config.
func buildAgents(cfg config.Config) (router.Decider, map[string]responder.Responder, error) {
	profiles, err := agentspec.Load(cfg.SpecsDir)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to load agent profiles", err)
	}

	supervisor, ok := profiles.Supervisor()
	if !ok {
		return nil, nil, NewExitError(ExitCommandError,
			fmt.Sprintf("no %q profile defined in %s", agentspec.SupervisorName, cfg.SpecsDir))
	}

	client := anthropic.NewClient()
	model := anthropic.Model(cfg.Model)
	decider := router.NewAnthropicDecider(&client, model, supervisor)

	responders := make(map[string]responder.Responder)
	for name, profile := range profiles {
		if name == agentspec.SupervisorName {
			continue
		}
		for _, label := range profile.Labels {
			switch label {
			case router.LabelRetrieval:
				rag, err := responder.OpenRetrieval(
					cfg.Index.Path, cfg.Index.Collection,
					chromem.NewEmbeddingFuncDefault(),
					&client, model, profile, cfg.Index.TopK,
				)
				if err != nil {
					return nil, nil, WrapExitError(ExitCommandError, "failed to open document index", err)
				}
				responders[label] = rag
			default:
				responders[label] = responder.NewAgent(&client, model, profile)
			}
		}
	}

	return decider, responders, nil
}
