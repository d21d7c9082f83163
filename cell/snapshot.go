package cell

import (
	"sync/atomic"
)

// Snapshot is an immutable, timestamped view of T.
//
// Any number of holders may observe a snapshot concurrently; none may
// mutate it. A snapshot handed out by Reader.Head or Writer.HeadRef
// carries a strong reference: call Release when done with it, or the
// writer can never reclaim the buffer and every push degrades to the
// clone path.
//
// Two snapshots from the same cell with equal timestamps contain equal
// data; this is enforced by construction (the writer bumps the
// timestamp on every commit).
type Snapshot[T Cloner[T]] struct {
	data      T
	timestamp uint64

	// refs counts strong holders: the writer's cached head plus every
	// outstanding handle returned to readers. The buffer may be reused
	// only after refs drops to exactly one (the writer alone).
	refs atomic.Int64
}

func newSnapshot[T Cloner[T]](data T, timestamp uint64) *Snapshot[T] {
	s := &Snapshot[T]{data: data, timestamp: timestamp}
	s.refs.Store(1) // the writer's reference
	return s
}

// Data returns the snapshot's value.
//
// If T carries references (slices, maps), the returned value shares
// storage with the snapshot: treat it as read-only.
func (s *Snapshot[T]) Data() T {
	return s.data
}

// Timestamp returns the snapshot's version number.
func (s *Snapshot[T]) Timestamp() uint64 {
	return s.timestamp
}

// Count returns the current strong count, including the writer's own
// reference while this snapshot is the published head. Diagnostics
// only; the value may be stale the moment it is read.
func (s *Snapshot[T]) Count() int {
	return int(s.refs.Load())
}

// Release drops the caller's strong reference.
//
// Every snapshot obtained from Reader.Head or Writer.HeadRef must be
// released exactly once. Releasing more times than acquired panics.
func (s *Snapshot[T]) Release() {
	if s.refs.Add(-1) < 0 {
		panic("cell: snapshot released more times than acquired")
	}
}

// retain adds a strong reference on behalf of a new holder.
func (s *Snapshot[T]) retain() *Snapshot[T] {
	s.refs.Add(1)
	return s
}

// Equal reports whether two snapshots denote the same version.
//
// Snapshots from the same cell are equal iff their timestamps are
// equal; equal timestamps imply equal data.
func (s *Snapshot[T]) Equal(other *Snapshot[T]) bool {
	if s == other {
		return true
	}
	if other == nil {
		return false
	}
	return s.timestamp == other.timestamp
}

// EqualData compares the snapshot's data against v, using T's Equal
// method when it has one and reflect.DeepEqual otherwise.
func (s *Snapshot[T]) EqualData(v T) bool {
	return equal(s.data, v)
}
