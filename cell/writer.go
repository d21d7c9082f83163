package cell

import (
	"sort"

	"mvcell_v0.1/patch"
)

// Writer is the single writer of a cell.
//
// It owns a private mutable copy of T, stages patches with Add,
// applies them locally with Commit, and publishes with Push. A Writer
// must not be shared between goroutines without external
// serialization; all methods assume exclusive access.
//
// Readers are never blocked by any writer operation.
type Writer[T Cloner[T]] struct {
	s *shared[T]

	// local is the writer's private copy of T (the head as the writer
	// sees it). It is moved into the published snapshot on push and
	// replaced by the reclaimed or cloned retired buffer, or after
	// Overwrite or Tx by a clone of the new head.
	local T

	// remote is the writer's cached strong reference to the most
	// recently published snapshot. Equal to the publication slot's
	// content except while a push is in progress.
	remote *Snapshot[T]

	// timestamp is the writer's local version, always >= remote's.
	timestamp uint64

	staged    patch.Log[T]
	committed patch.Log[T]

	// replayValid records whether the committed log still derives
	// local from the retired buffer. Overwrite and Tx break that
	// derivation; the next push must then clone outright.
	replayValid bool

	// forceClone is the one-shot flag set by Tag.
	forceClone bool

	marks map[uint64]*Snapshot[T]

	opts   Options
	closed bool
}

//
// Construction
//

// New creates a Reader/Writer pair sharing a publication slot
// initialized with snapshot {initial, 0}.
func New[T Cloner[T]](initial T) (*Reader[T], *Writer[T]) {
	return NewWithOptions(initial, DefaultOptions())
}

// NewWith is New with a capacity hint for the internal patch logs.
// Use it when many patches are staged between commits.
func NewWith[T Cloner[T]](capacityHint int, initial T) (*Reader[T], *Writer[T]) {
	return NewWithOptions(initial, Options{CapacityHint: capacityHint})
}

// NewWithOptions is New with explicit Options.
func NewWithOptions[T Cloner[T]](initial T, opts Options) (*Reader[T], *Writer[T]) {
	return restore(initial, 0, opts)
}

// Restore creates a pair whose initial snapshot carries the given
// timestamp. Serialization adapters use it to revive a persisted
// writer; both logs start empty.
func Restore[T Cloner[T]](data T, timestamp uint64) (*Reader[T], *Writer[T]) {
	return restore(data, timestamp, DefaultOptions())
}

func restore[T Cloner[T]](data T, timestamp uint64, opts Options) (*Reader[T], *Writer[T]) {
	if opts.CapacityHint <= 0 {
		opts.CapacityHint = DefaultCapacity
	}

	// The published snapshot gets its own deep copy; the writer keeps
	// mutating data as its local buffer.
	snap := newSnapshot(data.Clone(), timestamp)

	s := &shared[T]{}
	s.pub.head.Store(snap)
	s.readers.Store(1)

	w := &Writer[T]{
		s:           s,
		local:       data,
		remote:      snap,
		timestamp:   timestamp,
		staged:      patch.NewLog[T](opts.CapacityHint),
		committed:   patch.NewLog[T](opts.CapacityHint),
		replayValid: true,
		opts:        opts,
	}
	r := &Reader[T]{s: s}
	return r, w
}

//
// Staging and committing
//

// Add appends a patch to the staged log. The patch is not executed
// until Commit.
func (w *Writer[T]) Add(p Patch[T]) {
	w.mustOpen()
	w.staged.Append(p)
}

// Commit drains the staged log, applying each patch to the local copy
// in insertion order with the published head as baseline, and moves
// the patches to the committed log. The timestamp is incremented by
// exactly one iff at least one patch was drained.
//
// The baseline is frozen for the duration of the commit: it only
// changes on Push.
func (w *Writer[T]) Commit() CommitInfo {
	w.mustOpen()

	n := w.staged.Len()
	if n == 0 {
		return CommitInfo{Patches: 0, Timestamp: w.timestamp}
	}

	w.timestamp++

	head := &w.remote.data
	for _, p := range w.staged.Drain() {
		p(&w.local, head)
		w.committed.Append(p)
	}

	return CommitInfo{Patches: n, Timestamp: w.timestamp}
}

// CommitAndPush is Commit followed by Push.
func (w *Writer[T]) CommitAndPush() (CommitInfo, PushInfo) {
	ci := w.Commit()
	pi := w.Push()
	return ci, pi
}

// Tx applies fn directly to the writer's local copy, bypassing the
// patch discipline, and bumps the timestamp by one.
//
// A direct mutation cannot be replayed against the retired buffer, so
// the committed log is cleared and the next push clones. Use it when
// a one-off mutation is cheaper to express than a patch, or when the
// accumulated patches would be more expensive than a clone.
func (w *Writer[T]) Tx(fn func(*T)) CommitInfo {
	w.mustOpen()

	fn(&w.local)
	w.timestamp++
	w.committed.Clear()
	w.replayValid = false

	return CommitInfo{Patches: 1, Timestamp: w.timestamp}
}

//
// Inspection
//

// Data returns the writer's local copy. Read-only: mutate through
// patches, Tx, or Overwrite instead.
func (w *Writer[T]) Data() T {
	return w.local
}

// Head returns the data of the writer's cached published snapshot.
func (w *Writer[T]) Head() T {
	return w.remote.data
}

// HeadRef returns a strong reference to the writer's cached published
// snapshot. The caller must Release it.
func (w *Writer[T]) HeadRef() *Snapshot[T] {
	return w.remote.retain()
}

// Staged returns a read-only view of the staged log.
func (w *Writer[T]) Staged() []Patch[T] {
	return w.staged.Slice()
}

// CommittedPatches returns a read-only view of the committed log.
func (w *Writer[T]) CommittedPatches() []Patch[T] {
	return w.committed.Slice()
}

// Timestamp returns the writer's local timestamp.
func (w *Writer[T]) Timestamp() uint64 {
	return w.timestamp
}

// RemoteTimestamp returns the published head's timestamp.
func (w *Writer[T]) RemoteTimestamp() uint64 {
	return w.remote.timestamp
}

// TimestampDiff returns how many commits the writer is ahead of the
// published head.
func (w *Writer[T]) TimestampDiff() int {
	return int(w.timestamp - w.remote.timestamp)
}

// Synced reports whether there is nothing left to push.
func (w *Writer[T]) Synced() bool {
	return w.timestamp == w.remote.timestamp && w.committed.Len() == 0
}

// Ahead reports whether the writer has committed changes the readers
// cannot see yet.
func (w *Writer[T]) Ahead() bool {
	return !w.Synced()
}

// HeadCount returns the approximate number of outstanding reader
// references to the published head. Diagnostics only.
func (w *Writer[T]) HeadCount() int {
	n := w.s.pub.peek().Count() - 1 // minus the writer's own reference
	if n < 0 {
		n = 0
	}
	return n
}

// ReaderCount returns the number of live reader handles.
func (w *Writer[T]) ReaderCount() int {
	return int(w.s.readers.Load())
}

// Status returns a bag of diagnostics about the writer and readers.
func (w *Writer[T]) Status() StatusInfo {
	return StatusInfo{
		Staged:          w.staged.Len(),
		Committed:       w.committed.Len(),
		Timestamp:       w.timestamp,
		RemoteTimestamp: w.remote.timestamp,
		HeadCount:       w.HeadCount(),
		ReaderCount:     w.ReaderCount(),
		Marks:           len(w.marks),
	}
}

//
// Readers
//

// Reader mints a new reader handle onto this writer's publication
// slot.
func (w *Writer[T]) Reader() *Reader[T] {
	w.s.readers.Add(1)
	return &Reader[T]{s: w.s}
}

//
// Tag
//

// Tag forces the next Push to clone instead of attempting
// reclamation. One-shot: the flag clears once that push completes.
//
// The forced clone path still replays the committed log, onto a fresh
// clone of the retired data instead of the retired buffer itself.
func (w *Writer[T]) Tag() {
	w.mustOpen()
	w.forceClone = true
}

//
// Marks
//

// Mark retains the currently published snapshot and returns it.
//
// A marked snapshot holds a strong reference, so its buffer is never
// reclaimed while the mark lives. Marking the same timestamp twice
// returns the existing mark.
func (w *Writer[T]) Mark() *Snapshot[T] {
	w.mustOpen()
	if w.marks == nil {
		w.marks = make(map[uint64]*Snapshot[T])
	}
	ts := w.remote.timestamp
	if m, ok := w.marks[ts]; ok {
		return m
	}
	m := w.remote.retain()
	w.marks[ts] = m
	return m
}

// Marks returns the retained snapshots in ascending timestamp order.
func (w *Writer[T]) Marks() []*Snapshot[T] {
	out := make([]*Snapshot[T], 0, len(w.marks))
	for _, m := range w.marks {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].timestamp < out[j].timestamp
	})
	return out
}

// MarkRemove drops the mark at the given timestamp, releasing its
// reference. It reports whether a mark existed.
func (w *Writer[T]) MarkRemove(timestamp uint64) bool {
	m, ok := w.marks[timestamp]
	if !ok {
		return false
	}
	delete(w.marks, timestamp)
	m.Release()
	return true
}

// MarkClear drops every mark and returns how many were dropped.
func (w *Writer[T]) MarkClear() int {
	n := len(w.marks)
	for ts, m := range w.marks {
		delete(w.marks, ts)
		m.Release()
	}
	return n
}

//
// Teardown
//

// IntoInner consumes the writer, returning the local copy and the
// staged log. Existing snapshots and readers stay valid; the writer
// must not be used afterwards.
func (w *Writer[T]) IntoInner() (T, []Patch[T]) {
	w.mustOpen()
	local, staged := w.local, w.staged.Slice()
	w.teardown()
	return local, staged
}

// Close releases the writer's references and marks it closed.
// Existing snapshots and readers stay valid. Idempotent.
func (w *Writer[T]) Close() {
	if w.closed {
		return
	}
	w.teardown()
}

func (w *Writer[T]) teardown() {
	w.MarkClear()
	w.remote.Release()
	w.remote = nil
	w.closed = true
	w.s.writerClosed.Store(true)
}

func (w *Writer[T]) mustOpen() {
	if w.closed {
		panic("cell: use of closed Writer")
	}
}
