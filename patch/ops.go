package patch

//
// Prebuilt patches for common container types.
//
// All of these capture plain values and touch nothing but the local
// copy, so they satisfy the determinism contract by construction.
//

// Set replaces the local value with v.
//
// v is captured by the patch; if T carries references (slices, maps),
// the caller must not mutate v after handing it over.
func Set[T any](v T) Patch[T] {
	return func(local *T, _ *T) {
		*local = v
	}
}

//
// Slices
//

// Append appends elems to a slice.
func Append[S ~[]E, E any](elems ...E) Patch[S] {
	return func(local *S, _ *S) {
		*local = append(*local, elems...)
	}
}

// Insert inserts v at index i, shifting later elements right.
// Out-of-range indices are clamped to the valid range.
func Insert[S ~[]E, E any](i int, v E) Patch[S] {
	return func(local *S, _ *S) {
		s := *local
		if i < 0 {
			i = 0
		}
		if i > len(s) {
			i = len(s)
		}
		s = append(s, v)
		copy(s[i+1:], s[i:])
		s[i] = v
		*local = s
	}
}

// RemoveAt removes the element at index i.
// A no-op if i is out of range.
func RemoveAt[S ~[]E, E any](i int) Patch[S] {
	return func(local *S, _ *S) {
		s := *local
		if i < 0 || i >= len(s) {
			return
		}
		*local = append(s[:i], s[i+1:]...)
	}
}

// SetAt replaces the element at index i with v.
// A no-op if i is out of range.
func SetAt[S ~[]E, E any](i int, v E) Patch[S] {
	return func(local *S, _ *S) {
		s := *local
		if i < 0 || i >= len(s) {
			return
		}
		s[i] = v
	}
}

// Truncate shortens a slice to n elements.
// A no-op if the slice is already that short.
func Truncate[S ~[]E, E any](n int) Patch[S] {
	return func(local *S, _ *S) {
		if n < 0 {
			n = 0
		}
		if n < len(*local) {
			*local = (*local)[:n]
		}
	}
}

// ClearSlice empties a slice, keeping its capacity.
func ClearSlice[S ~[]E, E any]() Patch[S] {
	return func(local *S, _ *S) {
		*local = (*local)[:0]
	}
}

//
// Maps
//

// MapSet stores v under k.
func MapSet[M ~map[K]V, K comparable, V any](k K, v V) Patch[M] {
	return func(local *M, _ *M) {
		if *local == nil {
			*local = make(M)
		}
		(*local)[k] = v
	}
}

// MapDelete removes k.
func MapDelete[M ~map[K]V, K comparable, V any](k K) Patch[M] {
	return func(local *M, _ *M) {
		delete(*local, k)
	}
}

// MapClear removes every entry.
func MapClear[M ~map[K]V, K comparable, V any]() Patch[M] {
	return func(local *M, _ *M) {
		clear(*local)
	}
}

//
// Numbers
//

// Number covers the built-in numeric types usable with Add and Mul.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Add adds n to a numeric value.
func Add[N Number](n N) Patch[N] {
	return func(local *N, _ *N) {
		*local += n
	}
}

// Mul multiplies a numeric value by n.
func Mul[N Number](n N) Patch[N] {
	return func(local *N, _ *N) {
		*local *= n
	}
}
