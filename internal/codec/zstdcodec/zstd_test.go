package zstdcodec

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestCodec_Extension(t *testing.T) {
	if got := New(0).Extension(); got != "zst" {
		t.Errorf("Extension() = %q, want %q", got, "zst")
	}
}

func TestCodec_Reader(t *testing.T) {
	original := bytes.Repeat([]byte{0xd7, 0x66, 0x0c, 0xa5}, 25000)

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	compressed := enc.EncodeAll(original, nil)
	enc.Close()

	for _, maxMemory := range []uint64{0, 1 << 20} {
		reader, err := New(maxMemory).Reader(bytes.NewReader(compressed))
		if err != nil {
			t.Fatalf("Reader() error = %v", err)
		}
		got, err := io.ReadAll(reader)
		reader.Close()
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if !bytes.Equal(got, original) {
			t.Errorf("maxMemory %d: decompressed %d bytes, want %d", maxMemory, len(got), len(original))
		}
	}
}

func TestCodec_Reader_InvalidData(t *testing.T) {
	reader, err := New(0).Reader(bytes.NewReader([]byte("not zstd data")))
	if err != nil {
		return
	}
	defer reader.Close()
	if _, err := io.ReadAll(reader); err == nil {
		t.Error("ReadAll() expected error for invalid zstd data, got nil")
	}
}
