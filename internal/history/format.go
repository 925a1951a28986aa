// Package history renders stored conversation turns into the flat transcript
// text used to contextualize prompts.
package history

import (
	"strings"

	"github.com/tomvane/triage/internal/codec"
	"github.com/tomvane/triage/internal/transcript"
)

// Separator joins a role with its content within one line.
const Separator = ": "

// Format converts an ordered sequence of turns into a single transcript
// string: one "role: content" line per turn, joined by newlines, input order
// preserved. The store returns recent turns newest-first; a caller that wants
// chronological output must reverse before formatting.
//
// Content is normally already decoded by the read path. A stored canonical
// value that leaks through is decoded here; anything else is used as-is, so
// a malformed entry degrades to its raw text without aborting the join.
func Format(turns []transcript.Turn) string {
	if len(turns) == 0 {
		return ""
	}

	parts := make([]string, 0, len(turns))
	for _, t := range turns {
		content := t.Content
		if res := codec.Decode(content); res.Form == codec.FormCanonical {
			content = res.Text
		}
		parts = append(parts, t.Role+Separator+content)
	}
	return strings.Join(parts, "\n")
}

// Reverse returns a copy of turns in the opposite order. LoadRecent hands
// back newest-first; prompting wants chronological, and the reversal is the
// caller's explicit responsibility.
func Reverse(turns []transcript.Turn) []transcript.Turn {
	out := make([]transcript.Turn, len(turns))
	for i, t := range turns {
		out[len(turns)-1-i] = t
	}
	return out
}
