package transcript

import (
	"context"
	"fmt"

	"github.com/tomvane/triage/internal/codec"
)

// Save appends an ordinary turn to the log. Content is passed through the
// codec's encode step so newlines, quotes, and separator-like substrings
// survive storage byte-for-byte. The append is durably committed before
// Save returns; there is no write-behind buffering.
func (s *Store) Save(ctx context.Context, role, content string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transcript (role, content, timestamp, is_checkpoint)
		VALUES (?, ?, ?, 0)
	`,
		role,
		codec.Encode(content),
		s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("save turn: %w", err)
	}

	return nil
}

// SaveCheckpoint appends a checkpoint entry and returns its id.
//
// The payload is stored as given, WITHOUT the codec's canonical encoding:
// checkpoint content is itself a decision label like "coding_task", and the
// two write paths are kept distinct so existing stored checkpoints keep
// their round-trip behavior.
func (s *Store) SaveCheckpoint(ctx context.Context, label, payload string) (int64, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transcript (role, content, timestamp, is_checkpoint)
		VALUES (?, ?, ?, 1)
	`,
		label,
		payload,
		s.timestamp(),
	)
	if err != nil {
		return 0, fmt.Errorf("save checkpoint: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save checkpoint: last insert id: %w", err)
	}

	return id, nil
}
