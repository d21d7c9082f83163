package cell

import (
	"reflect"
	"testing"
)

func TestHeadMonotonic(t *testing.T) {
	r, w := New(strs{})

	var last uint64
	for i := 0; i < 10; i++ {
		w.Add(push("x"))
		w.CommitAndPush()

		head := r.Head()
		if head.Timestamp() < last {
			t.Fatalf("timestamp went backwards: %d -> %d", last, head.Timestamp())
		}
		last = head.Timestamp()
		head.Release()
	}
	if last != 10 {
		t.Fatalf("final timestamp = %d", last)
	}
}

func TestCloneSharesSlot(t *testing.T) {
	r, w := New(strs{"a"})
	r2 := r.Clone()

	w.Add(push("b"))
	w.CommitAndPush()

	h1 := r.Head()
	h2 := r2.Head()
	defer h1.Release()
	defer h2.Release()

	if !h1.Equal(h2) {
		t.Fatal("clones observed different heads")
	}
	if w.ReaderCount() != 2 {
		t.Fatalf("reader count = %d", w.ReaderCount())
	}
}

func TestEqualTimestampsEqualData(t *testing.T) {
	r, w := New(strs{"a"})

	w.Add(push("b"))
	w.CommitAndPush()

	h1 := r.Head()
	h2 := r.Head()
	defer h1.Release()
	defer h2.Release()

	if h1.Timestamp() != h2.Timestamp() {
		t.Fatal("same publication, different timestamps")
	}
	if !reflect.DeepEqual(h1.Data(), h2.Data()) {
		t.Fatal("equal timestamps with unequal data")
	}
	if !h1.Equal(h2) || !h1.EqualData(h2.Data()) {
		t.Fatal("snapshot equality broken")
	}
}

func TestHeldSnapshotNeverChanges(t *testing.T) {
	r, w := New(strs{"a"})

	held := r.Head()
	defer held.Release()

	for i := 0; i < 20; i++ {
		w.Add(push("x"))
		w.CommitAndPush()
	}

	if !reflect.DeepEqual(held.Data(), strs{"a"}) || held.Timestamp() != 0 {
		t.Fatalf("held snapshot observed later writes: (%v, %d)",
			held.Data(), held.Timestamp())
	}
}

func TestFork(t *testing.T) {
	r, w := New(strs{"a"})
	w.Add(push("b"))
	w.CommitAndPush()

	fr, fw := r.Fork()

	if fw.Timestamp() != 1 {
		t.Fatalf("fork timestamp = %d", fw.Timestamp())
	}
	if !reflect.DeepEqual(fw.Data(), strs{"a", "b"}) {
		t.Fatalf("fork data = %v", fw.Data())
	}

	// The fork is independent: writes to it don't reach the original.
	fw.Add(push("FORK"))
	fw.CommitAndPush()

	head := r.Head()
	defer head.Release()
	if len(head.Data()) != 2 {
		t.Fatalf("fork leaked into the original: %v", head.Data())
	}

	fh := fr.Head()
	defer fh.Release()
	if !reflect.DeepEqual(fh.Data(), strs{"a", "b", "FORK"}) {
		t.Fatalf("fork head = %v", fh.Data())
	}
}

func TestReaderIntoInnerLast(t *testing.T) {
	r, w := New(strs{"a"})
	r2 := r.Clone()

	if _, ok := r.IntoInner(); ok {
		t.Fatal("IntoInner succeeded while another reader exists")
	}

	data, ok := r2.IntoInner()
	if !ok {
		t.Fatal("IntoInner failed for the last reader")
	}
	if !reflect.DeepEqual(data, strs{"a"}) {
		t.Fatalf("inner data = %v", data)
	}

	// The writer is unaffected.
	w.Add(push("b"))
	w.CommitAndPush()
}

func TestWriterCloseKeepsReaders(t *testing.T) {
	r, w := New(strs{"a"})

	w.Add(push("b"))
	w.CommitAndPush()
	w.Close()

	if !r.WriterClosed() {
		t.Fatal("WriterClosed = false after Close")
	}
	head := r.Head()
	defer head.Release()
	if !reflect.DeepEqual(head.Data(), strs{"a", "b"}) {
		t.Fatalf("head after writer close = %v", head.Data())
	}
}
