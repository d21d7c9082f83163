package patch

import (
	"reflect"
	"testing"
)

func TestLogAppendDrain(t *testing.T) {
	var l Log[int]

	order := []int{}
	for i := 0; i < 3; i++ {
		n := i
		l.Append(func(local *int, _ *int) {
			order = append(order, n)
			*local += n
		})
	}
	if l.Len() != 3 {
		t.Fatalf("len = %d", l.Len())
	}

	v, head := 0, 0
	for _, p := range l.Drain() {
		p(&v, &head)
	}
	if l.Len() != 0 {
		t.Fatalf("len after drain = %d", l.Len())
	}
	if !reflect.DeepEqual(order, []int{0, 1, 2}) {
		t.Fatalf("patches ran out of order: %v", order)
	}
	if v != 3 {
		t.Fatalf("v = %d", v)
	}
}

func TestLogClear(t *testing.T) {
	l := NewLog[int](4)

	l.Append(func(*int, *int) {})
	l.Append(func(*int, *int) {})
	if n := l.Clear(); n != 2 {
		t.Fatalf("cleared %d", n)
	}
	if n := l.Clear(); n != 0 {
		t.Fatalf("cleared %d from an empty log", n)
	}
}

func TestLogAppendAfterDrain(t *testing.T) {
	var l Log[int]

	l.Append(func(local *int, _ *int) { *local = 1 })
	drained := l.Drain()

	// New appends must not disturb a previously drained batch.
	l.Append(func(local *int, _ *int) { *local = 2 })

	v, head := 0, 0
	drained[0](&v, &head)
	if v != 1 {
		t.Fatalf("drained batch disturbed: v = %d", v)
	}
}

func TestLogEach(t *testing.T) {
	var l Log[int]
	for i := 0; i < 5; i++ {
		l.Append(func(local *int, _ *int) { *local++ })
	}

	v, head := 0, 0
	l.Each(func(p Patch[int]) { p(&v, &head) })
	if v != 5 || l.Len() != 5 {
		t.Fatalf("each: v=%d len=%d", v, l.Len())
	}
}
