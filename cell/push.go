package cell

import "fmt"

//
// Publish / reclaim
//

// Push publishes the writer's committed state as a new snapshot.
//
// After the swap the writer tries to turn its reference to the retired
// snapshot into exclusive ownership: that succeeds iff no load is in
// flight and the strong count is exactly one. On success the retired
// buffer is reused and the committed log is replayed onto it with the
// new head as baseline, restoring convergence; otherwise the writer
// clones. Readers are never waited on: if they hold the retired
// snapshot, they drop it in their own time.
func (w *Writer[T]) Push() PushInfo {
	return w.push(false)
}

// PushClone is Push, but always clones and never attempts
// reclamation. Use it when readers are known to hold snapshots for a
// long time and probing would always fail.
func (w *Writer[T]) PushClone() PushInfo {
	return w.push(true)
}

func (w *Writer[T]) push(forceClone bool) PushInfo {
	w.mustOpen()

	// No-op guard: nothing committed, nothing to publish.
	if w.timestamp == w.remote.timestamp && w.committed.Len() == 0 {
		return PushInfo{Commits: 0, Reclaimed: true, Timestamp: w.timestamp}
	}

	// Build and publish the new snapshot. The local buffer moves into
	// it; from here on the writer must not touch w.local until it is
	// re-seeded below.
	next := newSnapshot(w.local, w.timestamp)
	prev := w.s.pub.store(next)
	w.remote = next
	commits := int(next.timestamp - prev.timestamp)

	forceClone = forceClone || w.forceClone

	// Exclusivity probe. loads must be checked as well as the strong
	// count: a reader that fetched prev but has not yet secured its
	// reference is visible only through the in-flight counter. The
	// probe is opportunistic; a false negative costs one clone.
	reclaimed := !forceClone && w.s.pub.quiescent() && prev.refs.Load() == 1

	var buf T
	switch {
	case !w.replayValid || w.committed.Len() == 0:
		// The committed log does not derive local from the retired
		// buffer (Overwrite, Tx, or a bare timestamp bump): write a
		// clone of the new head into the buffer directly.
		buf = next.data.Clone()
		if !reclaimed {
			prev.Release()
		}
	case reclaimed:
		// Sole owner: mutate the retired buffer in place.
		buf = prev.data
		w.replay(&buf, next)
	default:
		// Readers still hold prev. Clone it and replay; prev's data
		// is immutable while shared, so reading it here is safe.
		buf = prev.data.Clone()
		prev.Release()
		w.replay(&buf, next)
	}

	// Seed the next cycle: buf now equals local as of this publish.
	w.local = buf
	w.remote = next
	w.committed.Clear()
	w.forceClone = false
	w.replayValid = true

	return PushInfo{Commits: commits, Reclaimed: reclaimed, Timestamp: next.timestamp}
}

// replay applies the committed log in order to buf, with the newly
// published snapshot as the baseline argument. Afterwards buf must
// equal the data just published. At commit the same patches saw the
// then-published head as baseline, so a patch whose effect depends on
// the baseline's contents can produce a different buffer here;
// VerifyReplay detects that.
func (w *Writer[T]) replay(buf *T, next *Snapshot[T]) {
	head := &next.data
	w.committed.Each(func(p Patch[T]) {
		p(buf, head)
	})

	if w.opts.VerifyReplay && !equal(*buf, next.data) {
		panic(fmt.Sprintf(
			"cell: replay diverged at timestamp %d: a committed patch is not deterministic",
			next.timestamp,
		))
	}
}
