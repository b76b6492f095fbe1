// Package gcssource reads table files from a Google Cloud Storage bucket.
package gcssource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/discochess/fathom/internal/mirror"
)

// Compile-time check that Source implements mirror.Source.
var _ mirror.Source = (*Source)(nil)

// Source is a GCS bucket, optionally restricted to a prefix.
type Source struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
}

// Option configures a Source.
type Option func(*Source)

// WithPrefix restricts the source to objects under prefix.
func WithPrefix(prefix string) Option {
	return func(s *Source) {
		s.prefix = normalizePrefix(prefix)
	}
}

// New creates a source over the named bucket, which must already exist.
func New(ctx context.Context, bucketName string, opts ...Option) (*Source, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	s := &Source{
		client: client,
		bucket: client.Bucket(bucketName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// List returns the objects directly under the prefix.
func (s *Source) List(ctx context.Context) ([]mirror.Object, error) {
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: s.prefix, Delimiter: "/"})

	var objects []mirror.Object
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing objects: %w", err)
		}
		if attrs.Name == "" {
			continue // synthetic directory entry
		}
		if name, ok := s.name(attrs.Name); ok {
			objects = append(objects, mirror.Object{Name: name, Size: attrs.Size})
		}
	}
	return objects, nil
}

// Open returns a reader for the named object.
func (s *Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := s.bucket.Object(s.key(name)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, mirror.ErrNotFound
		}
		return nil, fmt.Errorf("creating reader: %w", err)
	}
	return reader, nil
}

// Close releases the client.
func (s *Source) Close() error {
	return s.client.Close()
}

func (s *Source) key(name string) string {
	return s.prefix + name
}

// name returns the base name of key, or false for keys nested deeper.
func (s *Source) name(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, s.prefix)
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return path.Base(rest), true
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return prefix
}
