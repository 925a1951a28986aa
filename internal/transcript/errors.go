package transcript

import "errors"

// ErrStoreClosed is returned by any operation attempted after Close.
// This is a programming error in the caller, surfaced immediately.
var ErrStoreClosed = errors.New("transcript store is closed")

// ErrCheckpointNotFound is returned by LoadFromCheckpoint when the requested
// id does not exist or does not mark a checkpoint. It accompanies an empty
// result rather than aborting the caller: replay from a missing checkpoint is
// a reporting branch, not a fatal condition.
var ErrCheckpointNotFound = errors.New("checkpoint not found")
