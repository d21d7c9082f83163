package cell

import (
	"fmt"
	"sync"
	"testing"
)

func TestConcurrencySWMR(t *testing.T) {
	r, w := New(strs{})

	const writes = 1000
	var wg sync.WaitGroup

	// Writer routine.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			v := fmt.Sprintf("v-%d", i)
			w.Add(func(local *strs, _ *strs) {
				*local = append(*local, v)
			})
			w.CommitAndPush()
		}
	}()

	// Reader routines.
	for rid := 0; rid < 5; rid++ {
		wg.Add(1)
		go func(rr *Reader[strs]) {
			defer wg.Done()
			var last uint64
			for i := 0; i < 2000; i++ {
				head := rr.Head()
				ts := head.Timestamp()
				if ts < last {
					t.Errorf("timestamp went backwards: %d -> %d", last, ts)
				}
				// Timestamp counts commits; with one patch per commit
				// the data length equals the timestamp.
				if uint64(len(head.Data())) != ts {
					t.Errorf("snapshot (len %d, ts %d) is torn",
						len(head.Data()), ts)
				}
				last = ts
				head.Release()
			}
		}(r.Clone())
	}

	wg.Wait()

	head := r.Head()
	defer head.Release()
	if head.Timestamp() != writes || len(head.Data()) != writes {
		t.Fatalf("final head = (len %d, ts %d)", len(head.Data()), head.Timestamp())
	}
}

func TestConcurrentHoldAndRelease(t *testing.T) {
	// Readers grab and hold snapshots at random points while the
	// writer pushes; each push may reclaim or clone, and neither
	// outcome may ever mutate shared data.
	r, w := New(strs{})

	stop := make(chan struct{})
	var wg sync.WaitGroup

	for rid := 0; rid < 4; rid++ {
		wg.Add(1)
		go func(rr *Reader[strs]) {
			defer wg.Done()
			var held *Snapshot[strs]
			n := 0
			for {
				select {
				case <-stop:
					if held != nil {
						held.Release()
					}
					return
				default:
				}
				if held != nil {
					held.Release()
				}
				held = rr.Head()
				if want := held.Timestamp(); uint64(len(held.Data())) != want {
					t.Errorf("torn snapshot: len %d, ts %d", len(held.Data()), want)
				}
				n++
			}
		}(r.Clone())
	}

	reclaims, clones := 0, 0
	for i := 0; i < 500; i++ {
		w.Add(func(local *strs, _ *strs) {
			*local = append(*local, "x")
		})
		_, pi := w.CommitAndPush()
		if pi.Reclaimed {
			reclaims++
		} else {
			clones++
		}
	}
	close(stop)
	wg.Wait()

	t.Logf("reclaims=%d clones=%d", reclaims, clones)
}
