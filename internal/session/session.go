// Package session drives the per-turn cycle: recall recent history, ask the
// decision-maker, dispatch to a responder, and persist the exchange plus a
// decision checkpoint in the transcript.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tomvane/triage/internal/history"
	"github.com/tomvane/triage/internal/responder"
	"github.com/tomvane/triage/internal/router"
	"github.com/tomvane/triage/internal/transcript"
)

// Roles written to the transcript for ordinary turns and the checkpoint
// label for routing decisions.
const (
	RoleUser       = "User"
	RoleAgent      = "Agent"
	CheckpointRole = "supervisor_agent"

	// StartLabel marks the beginning of a session in the log.
	StartLabel = "New Session Started"
)

// DefaultWindow is how many recent entries contextualize a turn.
const DefaultWindow = 3

// Session owns one conversation over a shared transcript store. The store
// is opened once by the caller and passed in; the session never reopens it.
type Session struct {
	store      *transcript.Store
	decider    router.Decider
	responders map[string]responder.Responder
	window     int
	token      string
}

// New wires a session. responders maps routing labels to the responder that
// serves them; a decision resolving to no known label is answered by the
// decision text itself.
func New(store *transcript.Store, decider router.Decider, responders map[string]responder.Responder, window int) *Session {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Session{
		store:      store,
		decider:    decider,
		responders: responders,
		window:     window,
		token:      uuid.Must(uuid.NewV7()).String(),
	}
}

// Token returns the session's identity, a UUIDv7 so tokens sort by creation
// time.
func (s *Session) Token() string {
	return s.token
}

// Start marks the session boundary with an initial checkpoint and returns
// its id.
func (s *Session) Start(ctx context.Context) (int64, error) {
	id, err := s.store.SaveCheckpoint(ctx, StartLabel, "")
	if err != nil {
		return 0, fmt.Errorf("start session: %w", err)
	}
	slog.Info("session started", "session", s.token, "checkpoint_id", id)
	return id, nil
}

// HandleTurn runs one full exchange and returns the rendered answer.
//
// Order matters and mirrors the production loop: context is loaded BEFORE
// the new prompt is saved, so the current question never appears in its own
// historical context.
func (s *Session) HandleTurn(ctx context.Context, prompt string) (string, error) {
	recent, err := s.store.LoadRecent(ctx, s.window)
	if err != nil {
		return "", fmt.Errorf("handle turn: %w", err)
	}
	// LoadRecent is newest-first; prompting wants chronological.
	contextText := history.Format(history.Reverse(recent))

	decision, err := s.decider.Decide(ctx, prompt, contextText)
	if err != nil {
		return "", fmt.Errorf("handle turn: %w", err)
	}
	slog.Debug("routing decision", "session", s.token, "label", decision.Label)

	answer := decision.Raw
	if r, ok := s.responders[decision.Label]; ok {
		res, err := r.Respond(ctx, prompt, contextText)
		if err != nil {
			return "", fmt.Errorf("handle turn: respond %s: %w", decision.Label, err)
		}
		answer = res.Raw
	}

	if err := s.store.Save(ctx, RoleUser, prompt); err != nil {
		return "", fmt.Errorf("handle turn: %w", err)
	}
	if err := s.store.Save(ctx, RoleAgent, answer); err != nil {
		return "", fmt.Errorf("handle turn: %w", err)
	}

	checkpointID, err := s.store.SaveCheckpoint(ctx, CheckpointRole, decision.Raw)
	if err != nil {
		return "", fmt.Errorf("handle turn: %w", err)
	}
	slog.Debug("decision checkpointed", "session", s.token, "checkpoint_id", checkpointID)

	return answer, nil
}
