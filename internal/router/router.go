// Package router resolves a user query to a routing decision.
//
// The decision itself comes from an external decider (normally an LLM acting
// on the supervisor profile); this package only canonicalizes the decider's
// raw text against a closed label set and dispatches accordingly. Labels the
// core does not recognize are not errors: the decision text is then the
// answer itself, e.g. when the supervisor responds to a question about the
// conversation history in natural language.
package router

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Well-known routing labels.
const (
	// LabelCoding routes to the code-writing responder.
	LabelCoding = "coding_task"

	// LabelRetrieval routes to the document-retrieval responder.
	LabelRetrieval = "rag_task"

	// LabelNone means the decider answered in natural language instead of
	// picking a responder.
	LabelNone = ""
)

// Decision is what a decider produces: the raw model text plus the label it
// resolved to (LabelNone when the text matched nothing in the label set).
type Decision struct {
	Raw   string
	Label string
}

// Decider chooses how a query should be handled, given the formatted
// historical context. Implementations may call out to an LLM; the decision
// is opaque to the memory core, which only stores Raw when checkpointing.
type Decider interface {
	Decide(ctx context.Context, query, history string) (Decision, error)
}

// Resolve canonicalizes raw decider output against a closed label set and
// returns the matching canonical label, or LabelNone.
//
// Model output arrives with unpredictable casing, whitespace, and sometimes
// decomposed Unicode; both sides are NFC-normalized, trimmed, and lowercased
// before comparison so a label match never hinges on byte identity.
func Resolve(raw string, labels []string) string {
	c := canonical(raw)
	for _, l := range labels {
		if c == canonical(l) {
			return canonical(l)
		}
	}
	return LabelNone
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}
