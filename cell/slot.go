package cell

import (
	"sync/atomic"
)

// slot is the publication slot: the single atomic cell holding the
// currently visible snapshot. It is the only mutable memory shared
// between the writer and the readers.
//
// Stores are writer-only; loads are wait-free and allocation-free.
type slot[T Cloner[T]] struct {
	head atomic.Pointer[Snapshot[T]]

	// loads counts readers inside load(), between entering and having
	// secured their strong reference. The writer's exclusivity probe
	// requires loads == 0 so that a reader which fetched the old
	// pointer but has not yet incremented its refcount is never missed.
	loads atomic.Int64
}

// load returns the current snapshot with a new strong reference.
//
// Ordering note: the in-flight counter is incremented before the
// pointer load. If the writer swaps the head concurrently, either the
// reader observes the new snapshot, or the writer's probe observes
// loads > 0 and refuses to reclaim the old one. Both atomics are
// sequentially consistent, so there is no window in which the writer
// mutates a buffer a reader is still acquiring.
func (s *slot[T]) load() *Snapshot[T] {
	s.loads.Add(1)
	snap := s.head.Load().retain()
	s.loads.Add(-1)
	return snap
}

// peek returns the current snapshot without acquiring a reference.
// For diagnostics only; the caller must not retain the result.
func (s *slot[T]) peek() *Snapshot[T] {
	return s.head.Load()
}

// store publishes next and returns the previously stored snapshot.
//
// Writer-only. The store is sequentially consistent, so any load that
// observes next also observes every write made to next's data before
// the store.
func (s *slot[T]) store(next *Snapshot[T]) *Snapshot[T] {
	return s.head.Swap(next)
}

// quiescent reports whether no load is in flight right now. A false
// result only ever costs the writer a clone; it never blocks anyone.
func (s *slot[T]) quiescent() bool {
	return s.loads.Load() == 0
}

// shared is the state a writer and all its readers point at.
type shared[T Cloner[T]] struct {
	pub slot[T]

	// readers counts live reader handles, for diagnostics and for
	// Reader.IntoInner's "was I the last" check.
	readers atomic.Int64

	// writerClosed is set once the writer is closed or consumed.
	writerClosed atomic.Bool
}
