package cell

// Info records are plain value types returned by writer operations so
// callers can branch on the outcome (e.g. whether reclamation
// succeeded) without querying state after the fact.

// CommitInfo describes a Commit.
type CommitInfo struct {
	// Patches is how many staged patches this commit applied.
	// Zero from Commit means the commit was a no-op. Tx reports 1 and
	// Overwrite reports 0; both bump the timestamp.
	Patches int

	// Timestamp is the writer's local timestamp after the commit.
	Timestamp uint64
}

// PushInfo describes a Push.
type PushInfo struct {
	// Commits is how many commits this push published
	// (the timestamp distance between the new and old heads).
	// Zero means the push was a no-op.
	Commits int

	// Reclaimed reports whether the writer got the retired buffer back
	// exclusively and replayed patches onto it instead of cloning.
	Reclaimed bool

	// Timestamp is the published head's timestamp after the push.
	Timestamp uint64
}

// PullInfo describes a Pull.
type PullInfo struct {
	// StagedDiscarded is how many staged (uncommitted) patches
	// the pull threw away.
	StagedDiscarded int

	// CommittedDiscarded is how many committed-but-unpublished
	// patches the pull threw away.
	CommittedDiscarded int

	// OldTimestamp is the writer's local timestamp before the pull.
	OldTimestamp uint64

	// NewTimestamp is the timestamp after the pull
	// (the published head's).
	NewTimestamp uint64
}

// StatusInfo is a bag of diagnostics about the current state of the
// writer and its readers, returned by Writer.Status.
type StatusInfo struct {
	// Staged and Committed are the lengths of the two patch logs.
	Staged    int
	Committed int

	// Timestamp and RemoteTimestamp are the writer's local and the
	// published head's timestamps.
	Timestamp       uint64
	RemoteTimestamp uint64

	// HeadCount is the approximate number of outstanding reader
	// references to the published head.
	HeadCount int

	// ReaderCount is the number of live reader handles.
	ReaderCount int

	// Marks is how many published snapshots the writer has retained.
	Marks int
}
