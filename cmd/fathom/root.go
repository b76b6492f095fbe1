package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/fathom"
)

// pathEnv names the environment variable holding the default table path.
const pathEnv = "SYZYGY_PATH"

var (
	// Global flags.
	tbPath      string
	libraryPath string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "fathom",
	Short: "Probe Syzygy endgame tablebases",
	Long: `Fathom is a CLI tool for probing Syzygy endgame tablebases through the
Fathom probing engine, and for mirroring table files into a local directory.

The engine is loaded from a shared library at runtime: --library, then
$FATHOM_LIBRARY, then the platform default (libfathom.so, libfathom.dylib).

Examples:
  # Probe a position
  fathom probe -p ./syzygy "8/8/8/8/8/8/1Q6/K6k w - - 0 1"

  # List the tables in a directory
  fathom tables -p ./syzygy

  # Fetch up to 5-piece tables from a bucket
  fathom sync gs://my-bucket/syzygy -p ./syzygy --max-pieces 5`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&tbPath, "tb-path", "p", os.Getenv(pathEnv),
		"table directories, separated by the OS path list separator (default $"+pathEnv+")")
	rootCmd.PersistentFlags().StringVarP(&libraryPath, "library", "l", "", "path to the Fathom shared library")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

func newLogger() (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func requirePath() error {
	if tbPath == "" {
		return fmt.Errorf("no table path; pass --tb-path or set $%s", pathEnv)
	}
	return nil
}

// openTablebase loads the tables at tbPath with the global flags applied.
func openTablebase(log *zap.Logger) (*fathom.Tablebase, error) {
	if err := requirePath(); err != nil {
		return nil, err
	}

	opts := []fathom.Option{fathom.WithLogger(log)}
	if libraryPath != "" {
		opts = append(opts, fathom.WithLibraryPath(libraryPath))
	}

	tb, err := fathom.New(tbPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("opening tablebase: %w", err)
	}
	return tb, nil
}
