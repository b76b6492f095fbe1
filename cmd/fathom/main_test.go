package main

import (
	"testing"

	"github.com/discochess/fathom"
)

func TestSplitBucket(t *testing.T) {
	tests := []struct {
		in     string
		bucket string
		prefix string
	}{
		{"bucket", "bucket", ""},
		{"bucket/syzygy", "bucket", "syzygy"},
		{"bucket/a/b/", "bucket", "a/b/"},
	}
	for _, tt := range tests {
		bucket, prefix := splitBucket(tt.in)
		if bucket != tt.bucket || prefix != tt.prefix {
			t.Errorf("splitBucket(%q) = %q, %q; want %q, %q", tt.in, bucket, prefix, tt.bucket, tt.prefix)
		}
	}
}

func TestUCI(t *testing.T) {
	if got := uci(fathom.Move{From: 52, To: 60, Promote: fathom.PromoteQueen}); got != "e7e8q" {
		t.Errorf("uci() = %q, want %q", got, "e7e8q")
	}
}
