// Package mirror copies Syzygy table files from a remote or local source into
// a tablebase directory, decompressing them on the way.
package mirror

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when an object does not exist in the source.
var ErrNotFound = errors.New("mirror: object not found")

// Object is one file listed by a Source.
type Object struct {
	// Name is the base file name, e.g. "KQvK.rtbw.zst".
	Name string
	// Size is the stored size in bytes, or -1 when unknown.
	Size int64
}

// Source lists and reads table files.
type Source interface {
	// List returns every object under the source's root, in any order.
	List(ctx context.Context) ([]Object, error)

	// Open returns the stored bytes of the named object.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Close releases any resources held by the source.
	Close() error
}
