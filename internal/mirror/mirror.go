package mirror

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/fathom/internal/codec"
	"github.com/discochess/fathom/internal/codec/gzipcodec"
	"github.com/discochess/fathom/internal/codec/noopcodec"
	"github.com/discochess/fathom/internal/codec/zstdcodec"
	"github.com/discochess/fathom/internal/inventory"
	"github.com/discochess/fathom/internal/stats"
)

// Result summarizes a completed sync.
type Result struct {
	Fetched []string // local file names written
	Skipped []string // local file names already present
	Bytes   int64
	Elapsed time.Duration
}

// Syncer copies missing tables from a Source into a directory.
type Syncer struct {
	src       Source
	dest      string
	codecs    []codec.Codec
	maxPieces int
	overwrite bool
	logger    *zap.Logger
	stats     stats.Collector
	progress  ProgressFunc
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithCodecs sets the codecs tried against each object's extension.
// Objects matching none are copied as-is.
func WithCodecs(codecs ...codec.Codec) Option {
	return func(s *Syncer) {
		s.codecs = codecs
	}
}

// WithMaxPieces skips tables with more than n pieces. Zero means no limit.
func WithMaxPieces(n int) Option {
	return func(s *Syncer) {
		s.maxPieces = n
	}
}

// WithOverwrite refetches tables that are already present.
func WithOverwrite(overwrite bool) Option {
	return func(s *Syncer) {
		s.overwrite = overwrite
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Syncer) {
		s.logger = l
	}
}

// WithStats sets the stats collector.
func WithStats(c stats.Collector) Option {
	return func(s *Syncer) {
		s.stats = c
	}
}

// WithProgress sets a callback invoked after each file.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Syncer) {
		s.progress = fn
	}
}

// New creates a Syncer writing into dest.
func New(src Source, dest string, opts ...Option) *Syncer {
	s := &Syncer{
		src:    src,
		dest:   dest,
		codecs: []codec.Codec{zstdcodec.New(0), gzipcodec.New()},
		logger: zap.NewNop(),
		stats:  stats.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// job is one table to fetch.
type job struct {
	obj   Object
	codec codec.Codec
	local string
}

// Plan lists the objects a Sync would fetch and the local names already
// present, without writing anything.
func (s *Syncer) Plan(ctx context.Context) (fetch []Object, skipped []string, err error) {
	jobs, skipped, err := s.plan(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, j := range jobs {
		fetch = append(fetch, j.obj)
	}
	return fetch, skipped, nil
}

func (s *Syncer) plan(ctx context.Context) ([]job, []string, error) {
	objects, err := s.src.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing source: %w", err)
	}

	inv, err := inventory.Scan(s.dest)
	if err != nil {
		return nil, nil, fmt.Errorf("scanning %s: %w", s.dest, err)
	}

	var jobs []job
	var skipped []string
	for _, obj := range objects {
		c, local, ok := codec.Match(obj.Name, s.codecs...)
		if !ok {
			c = noopcodec.New()
		}

		ext := filepath.Ext(local)
		if ext != inventory.WDLExt && ext != inventory.DTZExt {
			continue
		}
		pieces := inventory.Pieces(strings.TrimSuffix(local, ext))
		if pieces == 0 || (s.maxPieces > 0 && pieces > s.maxPieces) {
			continue
		}

		if !s.overwrite && inv.Has(local) {
			skipped = append(skipped, local)
			continue
		}
		jobs = append(jobs, job{obj: obj, codec: c, local: local})
	}
	return jobs, skipped, nil
}

// Sync fetches every table missing from the destination. Files are written
// under a temporary name and renamed once complete, so the engine never
// sees a partial table.
func (s *Syncer) Sync(ctx context.Context) (*Result, error) {
	start := time.Now()

	if err := os.MkdirAll(s.dest, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", s.dest, err)
	}

	jobs, skipped, err := s.plan(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{Skipped: skipped}
	total := len(jobs) + len(skipped)
	var written atomic.Int64

	s.logger.Info("mirror sync starting",
		zap.String("dest", s.dest),
		zap.Int("fetch", len(jobs)),
		zap.Int("skip", len(skipped)),
	)

	for i, j := range jobs {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		before := written.Load()
		if err := s.fetch(ctx, j, &written); err != nil {
			return res, fmt.Errorf("fetching %s: %w", j.obj.Name, err)
		}
		n := written.Load() - before

		res.Fetched = append(res.Fetched, j.local)
		s.stats.IncCounter(stats.MetricMirrorFiles, 1)
		s.stats.IncCounter(stats.MetricMirrorBytes, n)
		s.logger.Debug("table fetched",
			zap.String("file", j.local),
			zap.String("codec", j.codec.Extension()),
			zap.Int64("bytes", n),
		)

		if s.progress != nil {
			s.progress(Progress{
				File:       j.local,
				Files:      len(skipped) + i + 1,
				FilesTotal: total,
				Bytes:      written.Load(),
			})
		}
	}

	res.Bytes = written.Load()
	res.Elapsed = time.Since(start)
	s.logger.Info("mirror sync complete",
		zap.Int("fetched", len(res.Fetched)),
		zap.Int64("bytes", res.Bytes),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

func (s *Syncer) fetch(ctx context.Context, j job, written *atomic.Int64) error {
	rc, err := s.src.Open(ctx, j.obj.Name)
	if err != nil {
		return err
	}
	defer rc.Close()

	dec, err := j.codec.Reader(rc)
	if err != nil {
		return fmt.Errorf("creating decompressor: %w", err)
	}
	defer dec.Close()

	tmp, err := os.CreateTemp(s.dest, j.local+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, &countingReader{r: dec, read: written}); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", j.local, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", j.local, err)
	}

	return os.Rename(tmpName, filepath.Join(s.dest, j.local))
}
