// Package cell provides a lock-free single-writer / many-reader
// multi-version cell around a user data type T.
//
// Readers obtain wait-free, timestamped, immutable snapshots of T
// while the writer mutates a private copy and atomically publishes new
// versions. On publish the writer either reclaims the retired buffer
// (when no reader still holds it) and replays its committed patches
// onto it, or clones. Both buffers stay logically convergent across an
// unbounded series of publishes.
package cell

import (
	"reflect"

	"mvcell_v0.1/patch"
)

// Patch is re-exported from the patch package for convenience.
type Patch[T any] = patch.Patch[T]

// Cloner is the contract the cell requires of T: a deep clone.
//
// Clone must return a copy that shares no mutable storage with the
// receiver. A shallow clone of a pointer-bearing type breaks snapshot
// immutability.
type Cloner[T any] interface {
	Clone() T
}

// equaler is detected dynamically where equality of T is required.
type equaler[T any] interface {
	Equal(T) bool
}

// equal compares two values of T, preferring a user-defined
// Equal method over reflect.DeepEqual.
func equal[T any](a, b T) bool {
	if e, ok := any(a).(equaler[T]); ok {
		return e.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}
