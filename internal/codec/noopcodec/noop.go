// Package noopcodec passes uncompressed table files through unchanged.
package noopcodec

import (
	"io"

	"github.com/discochess/fathom/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec performs no decompression.
type Codec struct{}

// New returns a new no-op codec.
func New() *Codec {
	return &Codec{}
}

// Reader returns r as a ReadCloser. Closing it closes r when r is an
// io.ReadCloser.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	if rc, ok := r.(io.ReadCloser); ok {
		return rc, nil
	}
	return io.NopCloser(r), nil
}

// Extension returns empty string.
func (c *Codec) Extension() string {
	return ""
}
