// Package zstdcodec reads zstd-compressed table files.
package zstdcodec

import (
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/discochess/fathom/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec decompresses zstd.
type Codec struct {
	maxMemory uint64
}

// New returns a zstd codec. maxMemory bounds the decoder window in bytes;
// zero keeps the library default.
func New(maxMemory uint64) *Codec {
	return &Codec{maxMemory: maxMemory}
}

// Reader wraps r to decompress zstd data. Closing the reader releases the
// decoder's goroutines.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	var opts []zstd.DOption
	if c.maxMemory > 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(c.maxMemory))
	}
	decoder, err := zstd.NewReader(r, opts...)
	if err != nil {
		return nil, err
	}
	return decoder.IOReadCloser(), nil
}

// Extension returns "zst".
func (c *Codec) Extension() string {
	return "zst"
}
