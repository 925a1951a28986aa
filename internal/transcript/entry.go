package transcript

// Entry is one immutable row of the transcript log.
type Entry struct {
	// ID is assigned by the store on insert; strictly increasing, never reused.
	ID int64

	// Role is a short free-form tag: "User", "Agent", or a checkpoint label.
	Role string

	// Content is the decoded text payload.
	Content string

	// Timestamp is the ISO-8601 insert time, immutable after write.
	Timestamp string

	// IsCheckpoint is true only for entries created via SaveCheckpoint.
	IsCheckpoint bool
}

// Turn is the (role, content) pair read paths return; content is already
// decoded. This is the shape the history formatter consumes.
type Turn struct {
	Role    string
	Content string
}
