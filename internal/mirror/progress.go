package mirror

import (
	"fmt"
	"io"
	"sync/atomic"
)

// Progress reports the state of a running sync.
type Progress struct {
	File       string
	Files      int // files completed, including skipped ones
	FilesTotal int
	Bytes      int64 // decompressed bytes written so far
}

// ProgressFunc is called after each file completes.
type ProgressFunc func(Progress)

// countingReader counts bytes read through it.
type countingReader struct {
	r    io.Reader
	read *atomic.Int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.read.Add(int64(n))
	return n, err
}

// FormatBytes formats bytes as human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
