package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/discochess/fathom/internal/mirror"
	"github.com/discochess/fathom/internal/mirror/dirsource"
	"github.com/discochess/fathom/internal/mirror/gcssource"
	"github.com/discochess/fathom/internal/mirror/s3source"
	"github.com/discochess/fathom/internal/stats/logger"
)

var syncCmd = &cobra.Command{
	Use:   "sync [SOURCE]",
	Short: "Fetch missing tables into the table path",
	Long: `Copy Syzygy table files from a source into the first directory of the
table path. Tables already present are skipped. Files stored with a .zst or
.gz suffix are decompressed on the way.

SOURCE is one of:
  gs://bucket/prefix    Google Cloud Storage
  s3://bucket/prefix    AWS S3 or an S3-compatible service (--s3-endpoint)
  /path/to/dir          a local or mounted directory

Examples:
  # Fetch 3-4-5 piece tables from GCS
  fathom sync gs://my-bucket/syzygy -p ./syzygy --max-pieces 5

  # Show what would be fetched from MinIO
  fathom sync s3://tables/syzygy --s3-endpoint http://localhost:9000 --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

var (
	maxPieces  int
	overwrite  bool
	dryRun     bool
	s3Region   string
	s3Endpoint string
)

func init() {
	syncCmd.Flags().IntVar(&maxPieces, "max-pieces", 0, "skip tables with more pieces (0 = no limit)")
	syncCmd.Flags().BoolVar(&overwrite, "overwrite", false, "refetch tables that are already present")
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "list what would be fetched without writing")
	syncCmd.Flags().StringVar(&s3Region, "s3-region", "", "AWS region for s3:// sources")
	syncCmd.Flags().StringVar(&s3Endpoint, "s3-endpoint", "", "custom endpoint for s3:// sources")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if err := requirePath(); err != nil {
		return err
	}
	dest := strings.Split(tbPath, string(os.PathListSeparator))[0]

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	src, err := openSource(ctx, args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	s := mirror.New(src, dest,
		mirror.WithMaxPieces(maxPieces),
		mirror.WithOverwrite(overwrite),
		mirror.WithLogger(log.Named("mirror")),
		mirror.WithStats(logger.New(log.Named("mirror.stats"))),
		mirror.WithProgress(printProgress),
	)

	if dryRun {
		fetch, skipped, err := s.Plan(ctx)
		if err != nil {
			return err
		}
		var total int64
		for _, obj := range fetch {
			fmt.Printf("fetch %s (%s)\n", obj.Name, mirror.FormatBytes(obj.Size))
			if obj.Size > 0 {
				total += obj.Size
			}
		}
		fmt.Printf("%d to fetch (%s stored), %d already present\n",
			len(fetch), mirror.FormatBytes(total), len(skipped))
		return nil
	}

	res, err := s.Sync(ctx)
	if err != nil {
		fmt.Println()
		return fmt.Errorf("sync failed: %w", err)
	}

	fmt.Printf("\n[Done] %d fetched, %d already present, %s in %s\n",
		len(res.Fetched), len(res.Skipped), mirror.FormatBytes(res.Bytes), res.Elapsed.Round(time.Millisecond))
	return nil
}

// openSource parses a source argument.
func openSource(ctx context.Context, arg string) (mirror.Source, error) {
	switch {
	case strings.HasPrefix(arg, "gs://"):
		bucket, prefix := splitBucket(strings.TrimPrefix(arg, "gs://"))
		return gcssource.New(ctx, bucket, gcssource.WithPrefix(prefix))
	case strings.HasPrefix(arg, "s3://"):
		bucket, prefix := splitBucket(strings.TrimPrefix(arg, "s3://"))
		opts := []s3source.Option{s3source.WithPrefix(prefix)}
		if s3Region != "" {
			opts = append(opts, s3source.WithRegion(s3Region))
		}
		if s3Endpoint != "" {
			opts = append(opts, s3source.WithEndpoint(s3Endpoint))
		}
		return s3source.New(ctx, bucket, opts...)
	default:
		return dirsource.New(arg)
	}
}

func splitBucket(s string) (bucket, prefix string) {
	bucket, prefix, _ = strings.Cut(s, "/")
	return bucket, prefix
}

func printProgress(p mirror.Progress) {
	fmt.Printf("\r[Sync] %d / %d files, %s  %-24s",
		p.Files, p.FilesTotal, mirror.FormatBytes(p.Bytes), p.File)
}
