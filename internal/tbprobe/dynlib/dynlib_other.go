//go:build !((darwin || freebsd || linux || netbsd) && !android)

package dynlib

import (
	"errors"

	"github.com/discochess/fathom/internal/tbprobe"
)

// ErrUnsupported is returned by Open on platforms without dlopen support.
var ErrUnsupported = errors.New("dynlib: dynamic loading not supported on this platform")

// ErrClosed is returned by Close when the library was already unloaded.
var ErrClosed = errors.New("dynlib: library closed")

// DefaultName returns the platform file name of the Fathom shared library.
func DefaultName() string {
	return "fathom.dll"
}

// Library is unavailable on this platform.
type Library struct{ tbprobe.Library }

// Open always fails on this platform.
func Open(path string) (*Library, error) {
	return nil, ErrUnsupported
}

// Close is a no-op.
func (l *Library) Close() error {
	return ErrClosed
}
