// Package dirsource reads table files from a local or mounted directory.
package dirsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/discochess/fathom/internal/mirror"
)

// Compile-time check that Source implements mirror.Source.
var _ mirror.Source = (*Source)(nil)

// Source is a directory of table files.
type Source struct {
	root string
}

// New creates a source rooted at the given directory, which must exist.
func New(root string) (*Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}
	return &Source{root: root}, nil
}

// List returns the regular files directly under the root.
func (s *Source) List(ctx context.Context) ([]mirror.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.root, err)
	}

	objects := make([]mirror.Object, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		size := int64(-1)
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		objects = append(objects, mirror.Object{Name: e.Name(), Size: size})
	}
	return objects, nil
}

// Open opens the named file.
func (s *Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("%w: %q", mirror.ErrNotFound, name)
	}

	f, err := os.Open(filepath.Join(s.root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, mirror.ErrNotFound
		}
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	return f, nil
}

// Close releases any resources held by the source.
func (s *Source) Close() error {
	return nil
}
