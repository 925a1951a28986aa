package history

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/tomvane/triage/internal/codec"
	"github.com/tomvane/triage/internal/transcript"
)

func TestFormat_Empty(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
	if got := Format([]transcript.Turn{}); got != "" {
		t.Errorf("Format(empty) = %q, want empty", got)
	}
}

func TestFormat_SingleTurn(t *testing.T) {
	got := Format([]transcript.Turn{{Role: "User", Content: "Hi"}})
	if got != "User: Hi" {
		t.Errorf("Format = %q, want %q", got, "User: Hi")
	}
}

func TestFormat_PreservesInputOrder(t *testing.T) {
	turns := []transcript.Turn{
		{Role: "Agent", Content: "Hello"},
		{Role: "User", Content: "Hi"},
	}
	got := Format(turns)
	want := "Agent: Hello\nUser: Hi"
	if got != want {
		t.Errorf("Format = %q, want %q (no implicit re-sorting)", got, want)
	}
}

func TestFormat_ContentWithSeparatorAndNewlines(t *testing.T) {
	content := "CODE:\nprint(1)\nOUTPUT: 1"
	got := Format([]transcript.Turn{{Role: "Agent", Content: content}})
	want := "Agent: " + content
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormat_DecodesLeakedCanonicalForm(t *testing.T) {
	// A stored value that skipped the read path's decode step.
	turns := []transcript.Turn{{Role: "Agent", Content: codec.Encode("multi\nline")}}
	got := Format(turns)
	if got != "Agent: multi\nline" {
		t.Errorf("Format = %q, want decoded content", got)
	}
}

func TestFormat_MalformedEntryDegradesToRaw(t *testing.T) {
	turns := []transcript.Turn{
		{Role: "User", Content: "fine"},
		{Role: "Agent", Content: `{"not": "a string`},
		{Role: "User", Content: "also fine"},
	}
	got := Format(turns)
	want := "User: fine\nAgent: {\"not\": \"a string\nUser: also fine"
	if got != want {
		t.Errorf("Format = %q, want %q (bad entry must not abort the join)", got, want)
	}
}

func TestReverse(t *testing.T) {
	newest := []transcript.Turn{
		{Role: "supervisor_agent", Content: "rag_task"},
		{Role: "Agent", Content: "Hello"},
		{Role: "User", Content: "Hi"},
	}
	got := Reverse(newest)
	if got[0].Role != "User" || got[2].Role != "supervisor_agent" {
		t.Errorf("Reverse = %+v", got)
	}
	// Input untouched
	if newest[0].Role != "supervisor_agent" {
		t.Error("Reverse mutated its input")
	}
}

func TestFormat_Golden(t *testing.T) {
	turns := []transcript.Turn{
		{Role: "User", Content: "write fizzbuzz"},
		{Role: "Agent", Content: "CODE:\nfor i in range(1, 16):\n    print(i)\nOUTPUT:\n1\n2\n3"},
		{Role: "supervisor_agent", Content: "coding_task"},
		{Role: "User", Content: "what are the leave policies?"},
		{Role: "Agent", Content: "Employees accrue 20 days: see the HR handbook."},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "transcript_window", []byte(Format(turns)))
}
