package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomvane/triage/internal/history"
	"github.com/tomvane/triage/internal/transcript"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database   string
	Checkpoint int64
}

// ReplayResult holds the replay command output.
type ReplayResult struct {
	Checkpoint int64             `json:"checkpoint"`
	Turns      []transcript.Turn `json:"turns"`
	Total      int               `json:"total"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay the transcript up to a checkpoint",
		Long: `Replay the transcript from the beginning up to and including a
checkpoint entry, in chronological order.

The id must refer to a checkpoint row. Pointing at an ordinary turn, or at
an id that does not exist, is a failure.

Exit codes:
  0 - Replay succeeded
  1 - The id is not a known checkpoint
  2 - Command error (database not found, etc.)

Examples:
  triage replay --db ./triage.db --checkpoint 42
  triage replay --db ./triage.db --checkpoint 42 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite transcript (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().Int64Var(&opts.Checkpoint, "checkpoint", 0, "checkpoint id to replay up to (required)")
	_ = cmd.MarkFlagRequired("checkpoint")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := transcript.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open transcript", err)
	}
	defer st.Close()

	turns, err := st.LoadFromCheckpoint(ctx, opts.Checkpoint)
	if err != nil {
		if errors.Is(err, transcript.ErrCheckpointNotFound) {
			return WrapExitError(ExitFailure,
				fmt.Sprintf("checkpoint %d not found", opts.Checkpoint), err)
		}
		return WrapExitError(ExitCommandError, "failed to replay transcript", err)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Format == "json" {
		return formatter.Success(ReplayResult{
			Checkpoint: opts.Checkpoint,
			Turns:      turns,
			Total:      len(turns),
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), history.Format(turns))
	return nil
}
