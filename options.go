package fathom

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/discochess/fathom/internal/stats"
	"github.com/discochess/fathom/internal/tbprobe/dynlib"
)

// LibraryEnv names the environment variable consulted for the shared library
// path when neither WithLibrary nor WithLibraryPath is given.
const LibraryEnv = "FATHOM_LIBRARY"

// Option configures a Tablebase.
type Option interface {
	apply(*options)
}

// options holds the Tablebase configuration.
type options struct {
	library     Library
	libraryPath string
	stats       stats.Collector
	logger      *zap.Logger
	cacheSize   int
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		stats:  stats.NewNoop(),
		logger: zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithLibrary sets the engine implementation to use. The Tablebase does not
// close it.
func WithLibrary(lib Library) Option {
	return optionFunc(func(o *options) {
		o.library = lib
	})
}

// WithLibraryPath sets the path of the Fathom shared library to load.
// If not set, $FATHOM_LIBRARY is used, then the platform default name.
func WithLibraryPath(path string) Option {
	return optionFunc(func(o *options) {
		o.libraryPath = path
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithWDLCache enables an LRU cache of WDL probe results holding up to size
// positions. The cache is purged on Reload and Close.
func WithWDLCache(size int) Option {
	return optionFunc(func(o *options) {
		o.cacheSize = size
	})
}

// openLibrary returns the configured library and, when it was loaded here,
// the closer that unloads it.
func (o *options) openLibrary() (Library, io.Closer, error) {
	if o.library != nil {
		return o.library, nil, nil
	}

	path := o.libraryPath
	if path == "" {
		path = os.Getenv(LibraryEnv)
	}
	if path == "" {
		path = dynlib.DefaultName()
	}

	lib, err := dynlib.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return lib, lib, nil
}
