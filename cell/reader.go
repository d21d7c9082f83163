package cell

//
// Reader
//

// Reader is a cheaply cloneable front-end onto a cell's publication
// slot. Any number of readers may call Head concurrently with each
// other and with the writer.
//
// Readers never mutate and never wait; Head is wait-free.
type Reader[T Cloner[T]] struct {
	s      *shared[T]
	closed bool
}

// Head returns a strong reference to the most recently published
// snapshot visible at call time. Successive calls observe
// non-decreasing timestamps.
//
// The caller must Release the snapshot when done with it; an
// unreleased snapshot pins its buffer and forces the writer onto the
// clone path forever.
func (r *Reader[T]) Head() *Snapshot[T] {
	return r.s.pub.load()
}

// Timestamp returns the currently published head's timestamp without
// acquiring a reference.
func (r *Reader[T]) Timestamp() uint64 {
	return r.s.pub.peek().timestamp
}

// HeadCount returns the approximate number of outstanding reader
// references to the current head. Diagnostics only; never use it for
// correctness.
func (r *Reader[T]) HeadCount() int {
	n := r.s.pub.peek().Count() - 1 // minus the writer's reference
	if n < 0 {
		n = 0
	}
	return n
}

// Clone returns another reader handle onto the same publication slot.
func (r *Reader[T]) Clone() *Reader[T] {
	r.s.readers.Add(1)
	return &Reader[T]{s: r.s}
}

// Fork creates an independent Reader/Writer pair seeded with a deep
// clone of the current head, at the head's timestamp. The new pair
// shares nothing with this one.
func (r *Reader[T]) Fork() (*Reader[T], *Writer[T]) {
	head := r.Head()
	defer head.Release()
	return Restore(head.data.Clone(), head.timestamp)
}

// WriterClosed reports whether the writer side has been closed or
// consumed. Published snapshots remain readable either way.
func (r *Reader[T]) WriterClosed() bool {
	return r.s.writerClosed.Load()
}

// IntoInner consumes this reader handle. If it was the last live
// reader, a deep clone of the current head's data is returned with
// ok = true; otherwise the zero value and ok = false (the data is
// still shared with other readers).
func (r *Reader[T]) IntoInner() (data T, ok bool) {
	if r.closed {
		return data, false
	}
	r.closed = true
	last := r.s.readers.Add(-1) == 0
	if !last {
		return data, false
	}
	head := r.s.pub.load()
	defer head.Release()
	return head.data.Clone(), true
}
