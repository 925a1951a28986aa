package agentspec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSpec(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

const validSpec = `
agent: supervisor: {
	role:      "Supervisor Agent"
	goal:      "Classify user requests and route them to a specialist."
	backstory: "You are a top-tier assistant that acts as a router."
	labels: ["coding_task", "rag_task"]
}

agent: coder: {
	role: "coding_agent"
	goal: "Write python code based on user queries."
	labels: ["coding_task"]
}

agent: retriever: {
	role:     "RAG Agent"
	goal:     "Answer user queries from the policy index."
	expected: "Return short and to the point answers."
	labels: ["rag_task"]
}
`

func TestLoad_ValidProfiles(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "agents.cue", validSpec)

	set, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, set, 3)

	sup, ok := set.Supervisor()
	require.True(t, ok)
	assert.Equal(t, "Supervisor Agent", sup.Role)
	assert.Equal(t, []string{"coding_task", "rag_task"}, sup.Labels)

	assert.Equal(t, []string{"coding_task", "rag_task"}, set.RoutingLabels())

	retriever := set["retriever"]
	assert.Equal(t, "retriever", retriever.Name)
	assert.Equal(t, "Return short and to the point answers.", retriever.Expected)
}

func TestLoad_SplitAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "supervisor.cue", `
agent: supervisor: {
	role: "Supervisor Agent"
	goal: "Route."
	labels: ["coding_task"]
}
`)
	writeSpec(t, dir, "coder.cue", `
agent: coder: {
	role: "coding_agent"
	goal: "Code."
}
`)

	set, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, set, 2)
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	le, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

func TestLoad_EmptyDirectory(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	le, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNoFiles, le.Code)
}

func TestLoad_MissingGoal(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "agents.cue", `
agent: supervisor: {
	role: "Supervisor Agent"
}
`)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing goal")
}

func TestLoad_NoAgentStruct(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "other.cue", `task: something: {description: "x"}`)

	_, err := Load(dir)
	require.Error(t, err)
	le, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalid, le.Code)
}

func TestLoad_SyntaxError(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "broken.cue", `agent: supervisor: { role: `)

	_, err := Load(dir)
	require.Error(t, err)
}

func TestRoutingLabels_NoSupervisor(t *testing.T) {
	set := Set{"coder": {Name: "coder", Role: "coding_agent", Goal: "g"}}
	assert.Nil(t, set.RoutingLabels())
}
