package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomvane/triage/internal/transcript"
)

// CheckpointOptions holds flags for the checkpoint command.
type CheckpointOptions struct {
	*RootOptions
	Database string
	Payload  string
}

// CheckpointResult holds the checkpoint command output.
type CheckpointResult struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// NewCheckpointCommand creates the checkpoint command.
func NewCheckpointCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckpointOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "checkpoint <label>",
		Short: "Write a checkpoint marker to the transcript",
		Long: `Write a checkpoint marker to the transcript and print its id.

The payload is stored exactly as given, byte for byte, so the replay
command returns it verbatim.

Examples:
  triage checkpoint --db ./triage.db "Before migration"
  triage checkpoint --db ./triage.db "Routing decision" --payload coding_task`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckpoint(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite transcript (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Payload, "payload", "", "checkpoint payload (stored verbatim)")

	return cmd
}

func runCheckpoint(opts *CheckpointOptions, label string, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := transcript.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open transcript", err)
	}
	defer st.Close()

	id, err := st.SaveCheckpoint(ctx, label, opts.Payload)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to write checkpoint", err)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Format == "json" {
		return formatter.Success(CheckpointResult{ID: id, Label: label})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Checkpoint %d written.\n", id)
	return nil
}
