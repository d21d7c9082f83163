package cell

//
// Pull / overwrite
//

// Pull discards all local divergence: the local copy is reset to the
// published head, both patch logs are cleared, and the timestamp drops
// back to the head's.
func (w *Writer[T]) Pull() PullInfo {
	w.mustOpen()

	info := PullInfo{
		StagedDiscarded:    w.staged.Clear(),
		CommittedDiscarded: w.committed.Clear(),
		OldTimestamp:       w.timestamp,
		NewTimestamp:       w.remote.timestamp,
	}

	w.local = w.remote.data.Clone()
	w.timestamp = w.remote.timestamp
	w.replayValid = true

	return info
}

// Overwrite replaces the writer's local copy with data and bumps the
// timestamp by one. The previous local copy is returned.
//
// No patch sequence can describe this change deterministically from
// the old baseline, so the committed log is cleared and the next Push
// publishes a clone of exactly this value. Staged patches are kept and
// will apply on top at the next Commit.
func (w *Writer[T]) Overwrite(data T) (T, CommitInfo) {
	w.mustOpen()

	old := w.local
	w.local = data
	w.timestamp++
	w.committed.Clear()
	w.replayValid = false

	return old, CommitInfo{Patches: 0, Timestamp: w.timestamp}
}
