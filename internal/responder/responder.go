// Package responder contains the specialized answer producers the router
// dispatches to. Each responder turns (query, formatted history) into raw
// answer text; the caller stores that text in the transcript as-is.
package responder

import "context"

// Result carries a responder's answer.
type Result struct {
	// Raw is the final answer text, stored verbatim in the transcript.
	Raw string
}

// Responder produces the answer for a routed query.
type Responder interface {
	Respond(ctx context.Context, query, history string) (Result, error)
}
