package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomvane/triage/internal/transcript"
)

// seedTranscript creates a transcript with a session checkpoint and two
// exchanges, returning the database path.
func seedTranscript(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	st, err := transcript.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	_, err = st.SaveCheckpoint(ctx, "New Session Started", "")
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, "User", "Hi"))
	require.NoError(t, st.Save(ctx, "Agent", "Hello! How can I help?"))
	require.NoError(t, st.Save(ctx, "User", "What is Go?"))
	require.NoError(t, st.Save(ctx, "Agent", "A programming language."))

	return dbPath
}

func TestLogMissingDatabaseFlag(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewLogCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestLogUnreadableDatabase(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewLogCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--db", filepath.Join(t.TempDir(), "missing", "deep", "test.db")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestLogEmptyTranscript(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	st, err := transcript.Open(dbPath)
	require.NoError(t, err)
	st.Close()

	buf := &bytes.Buffer{}
	cmd := NewLogCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Transcript is empty")
}

func TestLogTextChronological(t *testing.T) {
	dbPath := seedTranscript(t)

	buf := &bytes.Buffer{}
	cmd := NewLogCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "User: Hi")
	assert.Contains(t, out, "Agent: A programming language.")
	assert.Less(t,
		bytes.Index(buf.Bytes(), []byte("User: Hi")),
		bytes.Index(buf.Bytes(), []byte("User: What is Go?")),
		"entries should appear oldest first")
}

func TestLogLimitBoundsOutput(t *testing.T) {
	dbPath := seedTranscript(t)

	buf := &bytes.Buffer{}
	cmd := NewLogCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--limit", "2"})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	// Only the two most recent rows survive the limit.
	assert.NotContains(t, out, "User: Hi")
	assert.Contains(t, out, "User: What is Go?")
	assert.Contains(t, out, "Agent: A programming language.")
}

func TestLogJSON(t *testing.T) {
	dbPath := seedTranscript(t)

	buf := &bytes.Buffer{}
	cmd := NewLogCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--limit", strconv.Itoa(10)})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result LogResult
	require.NoError(t, json.Unmarshal(data, &result))

	require.Equal(t, 5, result.Total)
	assert.Equal(t, int64(1), result.Entries[0].ID, "oldest entry first")
	assert.True(t, result.Entries[0].IsCheckpoint)
	assert.Equal(t, "User", result.Entries[1].Role)
	assert.Equal(t, "Hi", result.Entries[1].Content)
	assert.NotEmpty(t, result.Entries[1].Timestamp)
}
