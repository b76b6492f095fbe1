// Package gzipcodec reads gzip-compressed table files.
package gzipcodec

import (
	"compress/gzip"
	"io"

	"github.com/discochess/fathom/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec decompresses gzip.
type Codec struct{}

// New returns a new gzip codec.
func New() *Codec {
	return &Codec{}
}

// Reader wraps r to decompress gzip data.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

// Extension returns "gz".
func (c *Codec) Extension() string {
	return "gz"
}
