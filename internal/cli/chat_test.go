package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomvane/triage/internal/responder"
	"github.com/tomvane/triage/internal/router"
	"github.com/tomvane/triage/internal/transcript"
)

// labelDecider always routes to the same label.
type labelDecider struct {
	label string
}

func (d labelDecider) Decide(ctx context.Context, query, history string) (router.Decision, error) {
	return router.Decision{Raw: d.label, Label: d.label}, nil
}

// cannedResponder answers every query with a fixed string.
type cannedResponder struct {
	answer string
}

func (r cannedResponder) Respond(ctx context.Context, query, history string) (responder.Result, error) {
	return responder.Result{Raw: r.answer}, nil
}

func chatCommand(t *testing.T, dbPath, input string) (*cobraResult, error) {
	t.Helper()

	opts := &ChatOptions{
		RootOptions: &RootOptions{Format: "text"},
		Decider:     labelDecider{label: router.LabelCoding},
		Responders: map[string]responder.Responder{
			router.LabelCoding: cannedResponder{answer: "use a slice"},
		},
	}
	cmd := newChatCommand(opts)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs([]string{"--db", dbPath, "--config", filepath.Join(t.TempDir(), "absent.yaml")})

	err := cmd.Execute()
	return &cobraResult{out: out, errOut: errOut}, err
}

type cobraResult struct {
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func TestChatSessionExitsOnCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chat.db")

	res, err := chatCommand(t, dbPath, "exit\n")
	require.NoError(t, err)
	assert.Contains(t, res.out.String(), "Session started.")
	assert.Contains(t, res.out.String(), "Goodbye.")
}

func TestChatSessionExitsOnEOF(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chat.db")

	res, err := chatCommand(t, dbPath, "")
	require.NoError(t, err)
	assert.Contains(t, res.out.String(), "Goodbye.")
}

func TestChatTurnIsAnsweredAndPersisted(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chat.db")

	res, err := chatCommand(t, dbPath, "how do I append?\nexit\n")
	require.NoError(t, err)
	assert.Contains(t, res.out.String(), "use a slice")

	st, err := transcript.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	entries, err := st.Entries(ctx, 10)
	require.NoError(t, err)

	// Initial session checkpoint plus one full exchange.
	require.Len(t, entries, 4)
	assert.Equal(t, "supervisor_agent", entries[0].Role)
	assert.True(t, entries[0].IsCheckpoint)
	assert.Equal(t, "Agent", entries[1].Role)
	assert.Equal(t, "use a slice", entries[1].Content)
	assert.Equal(t, "User", entries[2].Role)
	assert.Equal(t, "New Session Started", entries[3].Role)
	assert.True(t, entries[3].IsCheckpoint)
}

func TestChatBlankLinesAreIgnored(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chat.db")

	_, err := chatCommand(t, dbPath, "\n   \nexit\n")
	require.NoError(t, err)

	st, err := transcript.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	entries, err := st.Entries(context.Background(), 10)
	require.NoError(t, err)
	// Only the session checkpoint; blank input never reaches the decider.
	require.Len(t, entries, 1)
	assert.Equal(t, "New Session Started", entries[0].Role)
}

func TestChatEachSessionStartsACheckpoint(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chat.db")

	_, err := chatCommand(t, dbPath, "exit\n")
	require.NoError(t, err)
	_, err = chatCommand(t, dbPath, "exit\n")
	require.NoError(t, err)

	st, err := transcript.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	id, err := st.LastCheckpointID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}
