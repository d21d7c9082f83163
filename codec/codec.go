// Package codec bridges cells to external encoders.
//
// Encoding captures only a value and its timestamp: patch logs are
// never serialized, so a decoded writer starts with empty logs at the
// decoded timestamp.
package codec

import (
	"errors"
	"fmt"

	"mvcell_v0.1/cell"
)

// ErrReaderAlone is returned when decoding directly into a reader: a
// reader without a writer has no meaningful relationship. Decode into
// a writer instead; it returns a fresh pair.
var ErrReaderAlone = errors.New("codec: cannot decode into a bare reader, decode a writer to get a pair")

// Codec is one external encoding.
type Codec interface {
	// Name identifies the encoding, e.g. "json".
	Name() string

	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// envelope is the wire form shared by all three roles.
type envelope[T any] struct {
	Timestamp uint64 `json:"timestamp" yaml:"timestamp" toml:"timestamp"`
	Data      T      `json:"data" yaml:"data" toml:"data"`
}

//
// Encoding
//

// EncodeWriter serializes the writer's local copy and local timestamp.
func EncodeWriter[T cell.Cloner[T]](c Codec, w *cell.Writer[T]) ([]byte, error) {
	return encode(c, w.Data(), w.Timestamp())
}

// EncodeReader serializes the currently published data and timestamp.
func EncodeReader[T cell.Cloner[T]](c Codec, r *cell.Reader[T]) ([]byte, error) {
	head := r.Head()
	defer head.Release()
	return encode(c, head.Data(), head.Timestamp())
}

// EncodeSnapshot serializes a snapshot's data and timestamp.
func EncodeSnapshot[T cell.Cloner[T]](c Codec, s *cell.Snapshot[T]) ([]byte, error) {
	return encode(c, s.Data(), s.Timestamp())
}

func encode[T any](c Codec, data T, timestamp uint64) ([]byte, error) {
	b, err := c.Marshal(envelope[T]{Timestamp: timestamp, Data: data})
	if err != nil {
		return nil, fmt.Errorf("codec: %s encode: %w", c.Name(), err)
	}
	return b, nil
}

//
// Decoding
//

// DecodeWriter constructs a fresh Reader/Writer pair with the decoded
// value and timestamp as the initial snapshot.
func DecodeWriter[T cell.Cloner[T]](c Codec, data []byte) (*cell.Reader[T], *cell.Writer[T], error) {
	var env envelope[T]
	if err := c.Unmarshal(data, &env); err != nil {
		return nil, nil, fmt.Errorf("codec: %s decode: %w", c.Name(), err)
	}
	r, w := cell.Restore(env.Data, env.Timestamp)
	return r, w, nil
}

// DecodeReader always fails with ErrReaderAlone.
func DecodeReader[T cell.Cloner[T]](Codec, []byte) (*cell.Reader[T], error) {
	return nil, ErrReaderAlone
}

// DecodeSnapshot decodes a value and timestamp previously written by
// any of the Encode functions.
func DecodeSnapshot[T cell.Cloner[T]](c Codec, data []byte) (T, uint64, error) {
	var env envelope[T]
	if err := c.Unmarshal(data, &env); err != nil {
		var zero T
		return zero, 0, fmt.Errorf("codec: %s decode: %w", c.Name(), err)
	}
	return env.Data, env.Timestamp, nil
}
