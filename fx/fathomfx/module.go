// Package fathomfx provides an fx module for a Syzygy tablebase.
package fathomfx

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/fathom"
	"github.com/discochess/fathom/internal/stats"
	"github.com/discochess/fathom/internal/stats/logger"
	promstats "github.com/discochess/fathom/internal/stats/prometheus"
)

// Config holds configuration for the tablebase.
type Config struct {
	// Path lists the table directories, separated by os.PathListSeparator.
	Path string

	// LibraryPath is the Fathom shared library to load.
	// Default is $FATHOM_LIBRARY, then the platform library name.
	LibraryPath string

	// CacheSize is the number of WDL results to cache. Zero disables the
	// cache.
	CacheSize int

	// Registry receives tablebase metrics. When nil, metrics are logged.
	Registry prometheus.Registerer
}

// Module provides a *fathom.Tablebase that is closed when the app stops.
// Requires a Config and a *zap.Logger to be provided. A fathom.Library may
// be provided to replace the shared library.
var Module = fx.Module("fathom",
	fx.Provide(
		newStatsCollector,
		newTablebase,
	),
)

func newStatsCollector(cfg Config, log *zap.Logger) stats.Collector {
	if cfg.Registry != nil {
		return promstats.New(cfg.Registry)
	}
	return logger.New(log.Named("fathom.stats"))
}

// Params holds dependencies for creating the tablebase.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Library   fathom.Library `optional:"true"`
	Lifecycle fx.Lifecycle
}

// Result holds the provided tablebase.
type Result struct {
	fx.Out

	Tablebase *fathom.Tablebase
}

func newTablebase(p Params) (Result, error) {
	opts := []fathom.Option{
		fathom.WithStats(p.Collector),
		fathom.WithLogger(p.Logger.Named("fathom")),
		fathom.WithWDLCache(p.Config.CacheSize),
	}
	if p.Library != nil {
		opts = append(opts, fathom.WithLibrary(p.Library))
	} else if p.Config.LibraryPath != "" {
		opts = append(opts, fathom.WithLibraryPath(p.Config.LibraryPath))
	}

	tb, err := fathom.New(p.Config.Path, opts...)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tb.Close()
		},
	})

	return Result{Tablebase: tb}, nil
}
