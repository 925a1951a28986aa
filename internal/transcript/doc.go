// Package transcript provides SQLite-backed durable storage for the
// conversation log.
//
// The log is a single append-only table of timestamped entries:
//   - Ordinary turns: role + codec-encoded content, written via Save
//   - Checkpoints: named markers with raw payloads, written via SaveCheckpoint
//
// Entry ids are assigned by SQLite's AUTOINCREMENT and are strictly
// increasing in insertion order, so recency queries and checkpoint-bounded
// replay both order by id alone. Checkpoints are ordinary entries with the
// is_checkpoint flag set; they participate in recency queries and are never
// deleted or superseded.
//
// Checkpoint payloads deliberately bypass the content codec: a checkpoint's
// content is a decision label such as "coding_task", stored as given, and
// unifying the two write paths would change the round-trip behavior of
// existing stored checkpoints.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
//
// The store owns exactly one connection for its lifetime: opened once at
// construction, released once by Close. Operations after Close fail with
// ErrStoreClosed. Storage errors propagate to the caller unretried; retry
// policy belongs to the caller.
package transcript
