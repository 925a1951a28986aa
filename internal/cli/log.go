package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomvane/triage/internal/history"
	"github.com/tomvane/triage/internal/transcript"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// LogEntry is the JSON shape of one transcript row.
type LogEntry struct {
	ID           int64  `json:"id"`
	Role         string `json:"role"`
	Content      string `json:"content"`
	Timestamp    string `json:"timestamp"`
	IsCheckpoint bool   `json:"is_checkpoint"`
}

// LogResult holds the log command output.
type LogResult struct {
	Entries []LogEntry `json:"entries"`
	Total   int        `json:"total"`
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent transcript entries",
		Long: `Show the most recent transcript entries in chronological order.

Checkpoint rows are part of the transcript and appear alongside ordinary
turns.

Examples:
  triage log --db ./triage.db
  triage log --db ./triage.db --limit 20 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite transcript (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "maximum number of entries to show")

	return cmd
}

func runLog(opts *LogOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := transcript.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open transcript", err)
	}
	defer st.Close()

	entries, err := st.Entries(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read transcript", err)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Format == "json" {
		result := LogResult{Entries: make([]LogEntry, 0, len(entries)), Total: len(entries)}
		// Entries is newest-first; present oldest-first.
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			result.Entries = append(result.Entries, LogEntry{
				ID:           e.ID,
				Role:         e.Role,
				Content:      e.Content,
				Timestamp:    e.Timestamp,
				IsCheckpoint: e.IsCheckpoint,
			})
		}
		return formatter.Success(result)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Transcript is empty.")
		return nil
	}

	turns := make([]transcript.Turn, 0, len(entries))
	for _, e := range entries {
		turns = append(turns, transcript.Turn{Role: e.Role, Content: e.Content})
	}
	fmt.Fprintln(cmd.OutOrStdout(), history.Format(history.Reverse(turns)))
	return nil
}
