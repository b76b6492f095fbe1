package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/discochess/fathom"
	"github.com/discochess/fathom/benchmark/latency"
)

var benchCmd = &cobra.Command{
	Use:   "bench [FEN...]",
	Short: "Measure probe latency",
	Long: `Probe each position repeatedly and report latency statistics for WDL
and root probes separately. Checkmate and stalemate results count as
successful probes.

Examples:
  fathom bench -n 1000 "8/8/8/8/8/8/1Q6/K6k w - - 0 1" "8/8/8/4k3/8/8/4P3/4K3 w - - 0 1"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBench,
}

var (
	benchIterations int
	benchCache      int
)

func init() {
	benchCmd.Flags().IntVarP(&benchIterations, "iterations", "n", 100, "probes per position")
	benchCmd.Flags().IntVar(&benchCache, "cache", 0, "WDL cache size (0 = disabled)")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	positions := make([]*fathom.Position, len(args))
	for i, fen := range args {
		pos, err := fathom.PositionFromFEN(fen)
		if err != nil {
			return fmt.Errorf("parsing %q: %w", fen, err)
		}
		positions[i] = pos
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := requirePath(); err != nil {
		return err
	}
	opts := []fathom.Option{fathom.WithLogger(log), fathom.WithWDLCache(benchCache)}
	if libraryPath != "" {
		opts = append(opts, fathom.WithLibraryPath(libraryPath))
	}
	tb, err := fathom.New(tbPath, opts...)
	if err != nil {
		return fmt.Errorf("opening tablebase: %w", err)
	}
	defer tb.Close()

	ctx := context.Background()
	root, wdl := tb.Probers()

	var wdlTimes, rootTimes []time.Duration
	var failures int
	for i := 0; i < benchIterations; i++ {
		for _, pos := range positions {
			start := time.Now()
			_, err := wdl.Probe(ctx, pos)
			if err == nil {
				wdlTimes = append(wdlTimes, time.Since(start))
			} else {
				failures++
			}

			start = time.Now()
			_, err = root.Probe(ctx, pos)
			if err == nil || errors.Is(err, fathom.ErrCheckmate) || errors.Is(err, fathom.ErrStalemate) {
				rootTimes = append(rootTimes, time.Since(start))
			} else {
				failures++
			}
		}
	}

	fmt.Printf("WDL:   %s\n", latency.Summarize(wdlTimes))
	fmt.Printf("Root:  %s\n", latency.Summarize(rootTimes))
	if failures > 0 {
		fmt.Printf("Failed probes: %d\n", failures)
	}
	if benchCache > 0 {
		s := tb.CacheStats()
		fmt.Printf("Cache: %d hits, %d misses (%.1f%%)\n", s.Hits, s.Misses, s.HitRate())
	}
	return nil
}
