package transcript

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tomvane/triage/internal/codec"
)

// LoadRecent returns the limit highest-id entries as (role, content) pairs,
// ordered NEWEST-FIRST. Callers that want chronological order must reverse
// the result themselves; the surprising order is part of the contract.
//
// Checkpoint entries participate like any other entry. Content is decoded
// via the codec's tolerant decode step, so a checkpoint payload or legacy
// plain row degrades to its raw text instead of failing the read.
//
// limit <= 0 yields an empty slice. Fewer than limit entries returns all
// of them.
func (s *Store) LoadRecent(ctx context.Context, limit int) ([]Turn, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []Turn{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT role, content FROM transcript
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("load recent: %w", err)
	}
	defer rows.Close()

	return scanTurns(rows)
}

// LoadFromCheckpoint returns every entry with id <= checkpointID in
// chronological (ascending id) order, content decoded.
//
// It fails closed: if no entry with that id exists, or the entry is not a
// checkpoint, it returns an empty slice together with ErrCheckpointNotFound.
// Callers treat that as a reporting branch - check errors.Is or emptiness.
func (s *Store) LoadFromCheckpoint(ctx context.Context, checkpointID int64) ([]Turn, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	var found int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM transcript WHERE id = ? AND is_checkpoint = 1
	`, checkpointID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		slog.Debug("checkpoint missing or not a checkpoint", "checkpoint_id", checkpointID)
		return []Turn{}, fmt.Errorf("load from checkpoint %d: %w", checkpointID, ErrCheckpointNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load from checkpoint: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT role, content FROM transcript
		WHERE id <= ?
		ORDER BY id ASC
	`, checkpointID)
	if err != nil {
		return nil, fmt.Errorf("load from checkpoint: %w", err)
	}
	defer rows.Close()

	return scanTurns(rows)
}

// LastCheckpointID returns the id of the most recent checkpoint entry, or
// ErrCheckpointNotFound if the log holds none.
func (s *Store) LastCheckpointID(ctx context.Context) (int64, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM transcript
		WHERE is_checkpoint = 1
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("last checkpoint: %w", ErrCheckpointNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("last checkpoint: %w", err)
	}
	return id, nil
}

// Entries returns the limit highest-id rows with full metadata, newest-first.
// Used by inspection surfaces (the log command); the chat loop reads Turns.
func (s *Store) Entries(ctx context.Context, limit int) ([]Entry, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []Entry{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, content, timestamp, is_checkpoint FROM transcript
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var stored string
		var checkpoint int
		if err := rows.Scan(&e.ID, &e.Role, &stored, &e.Timestamp, &checkpoint); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Content = decodeStored(stored)
		e.IsCheckpoint = checkpoint != 0
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	if entries == nil {
		entries = []Entry{}
	}

	return entries, nil
}

// scanTurns drains a (role, content) result set, decoding content.
func scanTurns(rows *sql.Rows) ([]Turn, error) {
	var turns []Turn
	for rows.Next() {
		var t Turn
		var stored string
		if err := rows.Scan(&t.Role, &stored); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		t.Content = decodeStored(stored)
		turns = append(turns, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	// Return empty slice instead of nil
	if turns == nil {
		turns = []Turn{}
	}

	return turns, nil
}

// decodeStored applies the tolerant codec decode. A fallback is not an
// error from the reader's perspective; it is logged at debug only so the
// read path never blocks on malformed content.
func decodeStored(stored string) string {
	res := codec.Decode(stored)
	if res.Form == codec.FormRaw {
		slog.Debug("content not in canonical form, using raw value")
	}
	return res.Text
}
