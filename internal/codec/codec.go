// Package codec decodes table files that a mirror source stores compressed.
package codec

import (
	"io"
	"strings"
)

// Codec decompresses one storage format.
type Codec interface {
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Extension returns the file extension without dot (e.g., "zst", "gz").
	// Returns empty string for no compression.
	Extension() string
}

// Match returns the codec whose extension ends name, and name without that
// extension. ok is false when none of codecs matches.
func Match(name string, codecs ...Codec) (c Codec, base string, ok bool) {
	for _, c := range codecs {
		ext := c.Extension()
		if ext == "" {
			continue
		}
		if trimmed, found := strings.CutSuffix(name, "."+ext); found && trimmed != "" {
			return c, trimmed, true
		}
	}
	return nil, name, false
}
