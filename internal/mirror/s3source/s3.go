// Package s3source reads table files from an AWS S3 (or S3-compatible)
// bucket.
package s3source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/discochess/fathom/internal/mirror"
)

// Compile-time check that Source implements mirror.Source.
var _ mirror.Source = (*Source)(nil)

// Source is an S3 bucket, optionally restricted to a prefix.
type Source struct {
	client *s3.Client
	bucket string
	prefix string
}

// settings collects options before the client is built.
type settings struct {
	prefix   string
	region   string
	endpoint string
}

// Option configures a Source.
type Option func(*settings)

// WithPrefix restricts the source to keys under prefix.
func WithPrefix(prefix string) Option {
	return func(s *settings) {
		s.prefix = prefix
	}
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(s *settings) {
		s.region = region
	}
}

// WithEndpoint sets a custom endpoint (for S3-compatible services like MinIO).
func WithEndpoint(endpoint string) Option {
	return func(s *settings) {
		s.endpoint = endpoint
	}
}

// New creates a source over the named bucket, which must already exist.
func New(ctx context.Context, bucketName string, opts ...Option) (*Source, error) {
	var set settings
	for _, opt := range opts {
		opt(&set)
	}

	var loadOpts []func(*config.LoadOptions) error
	if set.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(set.region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if set.endpoint != "" {
			o.BaseEndpoint = aws.String(set.endpoint)
			o.UsePathStyle = true
		}
	})

	return &Source{
		client: client,
		bucket: bucketName,
		prefix: normalizePrefix(set.prefix),
	}, nil
}

// List returns the objects directly under the prefix.
func (s *Source) List(ctx context.Context) ([]mirror.Object, error) {
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(s.prefix),
		Delimiter: aws.String("/"),
	})

	var objects []mirror.Object
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing objects: %w", err)
		}
		for _, obj := range page.Contents {
			name, ok := s.name(aws.ToString(obj.Key))
			if !ok {
				continue
			}
			objects = append(objects, mirror.Object{Name: name, Size: aws.ToInt64(obj.Size)})
		}
	}
	return objects, nil
}

// Open returns the body of the named object.
func (s *Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, mirror.ErrNotFound
		}
		return nil, fmt.Errorf("reading object: %w", err)
	}
	return out.Body, nil
}

// Close releases resources.
func (s *Source) Close() error {
	// S3 client doesn't need explicit closing.
	return nil
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
	return rest, true
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return prefix
}
