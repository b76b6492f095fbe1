// Package fathom provides typed, memory-safe access to Syzygy endgame
// tablebases through the Fathom probing engine.
//
// The engine keeps its loaded tables in process-wide state, so at most one
// Tablebase may be open at a time. Probes go through capability values
// minted by the Tablebase; they report misuse after Reload or Close as an
// error instead of touching freed native state.
//
// Example usage:
//
//	tb, err := fathom.New("/path/to/syzygy")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tb.Close()
//
//	pos, err := fathom.PositionFromFEN("8/8/8/8/8/8/1Q6/K6k w - - 0 1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	root, _ := tb.Probers()
//	res, err := root.Probe(ctx, pos)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s, dtz %d\n", res.Wdl, res.DTZ)
package fathom

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/discochess/fathom/internal/cache"
	"github.com/discochess/fathom/internal/inventory"
	"github.com/discochess/fathom/internal/stats"
	"github.com/discochess/fathom/internal/tbprobe"
)

// Sentinel errors for lifecycle and capability misuse.
var (
	// ErrInvalidPath indicates the path cannot be passed to the engine: it is
	// not valid UTF-8 or contains a NUL byte.
	ErrInvalidPath = errors.New("fathom: invalid path")

	// ErrAlreadyInitialized indicates another Tablebase is open.
	ErrAlreadyInitialized = errors.New("fathom: library already initialized")

	// ErrInitFailed indicates the engine reported failure loading tables.
	ErrInitFailed = errors.New("fathom: tablebase initialization failed")

	// ErrClosed indicates the Tablebase has been closed.
	ErrClosed = errors.New("fathom: tablebase closed")

	// ErrStaleProber indicates a prober was used after the Tablebase was
	// reloaded, or after a newer prober pair revoked its root grant.
	ErrStaleProber = errors.New("fathom: prober outlived its grant")
)

// Library is the native engine boundary. The default implementation loads
// the Fathom shared library; WithLibrary substitutes another.
type Library = tbprobe.Library

// initialized is true while a Tablebase is open. It is set before the
// native init call and cleared only after the native free call returns.
var initialized atomic.Bool

// Tablebase owns the process-wide native tablebase context.
//
// Probes hold a shared lock for the duration of the native call; Reload and
// Close take it exclusively, so native state is never freed under a probe.
type Tablebase struct {
	binding *tbprobe.Binding
	lib     io.Closer // non-nil when the library was loaded by New
	logger  *zap.Logger
	stats   stats.Collector
	cache   *cache.Cache[Position, Wdl]

	mu     sync.RWMutex
	rootMu sync.Mutex // tb_probe_root is not reentrant
	path   string
	epoch  uint64
	closed bool

	grant atomic.Uint64
}

// New loads the tables found under path and returns the owning handle.
// path may list several directories separated by os.PathListSeparator.
//
// While another Tablebase is open New fails with ErrAlreadyInitialized,
// whatever the path.
func New(path string, opts ...Option) (*Tablebase, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if initialized.Swap(true) {
		return nil, ErrAlreadyInitialized
	}

	if err := validatePath(path); err != nil {
		initialized.Store(false)
		return nil, err
	}

	lib, closer, err := cfg.openLibrary()
	if err != nil {
		initialized.Store(false)
		return nil, fmt.Errorf("loading engine: %w", err)
	}

	tb := &Tablebase{
		binding: tbprobe.New(lib),
		lib:     closer,
		logger:  cfg.logger,
		stats:   cfg.stats,
	}

	if cfg.cacheSize > 0 {
		tb.cache, err = cache.New[Position, Wdl](cfg.cacheSize, cfg.stats)
		if err != nil {
			tb.release()
			return nil, fmt.Errorf("creating cache: %w", err)
		}
	}

	if !tb.binding.Init(path) {
		tb.logger.Warn("tablebase init failed", zap.String("path", path))
		tb.binding.Free()
		tb.release()
		return nil, fmt.Errorf("%w: %q", ErrInitFailed, path)
	}

	tb.path = path
	tb.loaded("tablebase initialized")
	return tb, nil
}

// Reload re-initializes the engine in place with a new path. Probers minted
// before the call become stale. The engine drops the previous tables before
// loading, so after a failed Reload nothing is loaded and Path reports the
// attempted path.
func (tb *Tablebase) Reload(path string) error {
	if err := validatePath(path); err != nil {
		return err
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	if tb.closed {
		return ErrClosed
	}

	tb.epoch++
	if tb.cache != nil {
		tb.cache.Purge()
	}
	tb.stats.IncCounter(stats.MetricReloads, 1)

	tb.path = path
	if !tb.binding.Init(path) {
		tb.logger.Warn("tablebase reload failed", zap.String("path", path))
		return fmt.Errorf("%w: %q", ErrInitFailed, path)
	}

	tb.loaded("tablebase reloaded")
	return nil
}

// Close frees the native tables. After Close, a new Tablebase may be opened.
func (tb *Tablebase) Close() error {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if tb.closed {
		return ErrClosed
	}
	tb.closed = true
	tb.epoch++
	if tb.cache != nil {
		tb.cache.Purge()
	}

	tb.binding.Free()
	err := tb.release()

	tb.logger.Debug("tablebase closed", zap.String("path", tb.path))
	if err != nil {
		return fmt.Errorf("unloading engine: %w", err)
	}
	return nil
}

// MaxPieces returns the largest total piece count the loaded tables cover,
// or 0 once closed.
func (tb *Tablebase) MaxPieces() uint32 {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	if tb.closed {
		return 0
	}
	return tb.binding.Largest()
}

// Path returns the path passed to the last New or Reload call.
func (tb *Tablebase) Path() string {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	return tb.path
}

// Inventory lists the table files present under the loaded path.
func (tb *Tablebase) Inventory() (*inventory.Inventory, error) {
	return inventory.Scan(tb.Path())
}

// CacheStats returns WDL cache statistics. It is the zero value when the
// cache is disabled.
func (tb *Tablebase) CacheStats() cache.Stats {
	if tb.cache == nil {
		return cache.Stats{}
	}
	return tb.cache.Stats()
}

// Probers returns a root prober and a WDL prober bound to the current load.
// Minting a new pair revokes the root prober of every earlier pair.
func (tb *Tablebase) Probers() (*RootProber, *Prober) {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	root := &RootProber{tb: tb, epoch: tb.epoch, grant: tb.grant.Add(1)}
	return root, &Prober{tb: tb, epoch: tb.epoch}
}

// Prober returns a WDL-only prober bound to the current load. Any number of
// WDL probers may be used concurrently.
func (tb *Tablebase) Prober() *Prober {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	return &Prober{tb: tb, epoch: tb.epoch}
}

// check reports whether a capability minted at epoch may still probe.
// Callers must hold tb.mu.
func (tb *Tablebase) check(epoch uint64) error {
	if tb.closed {
		return ErrClosed
	}
	if epoch != tb.epoch {
		return ErrStaleProber
	}
	return nil
}

// release unloads an owned library and then clears the process-wide flag.
func (tb *Tablebase) release() error {
	var err error
	if tb.lib != nil {
		err = tb.lib.Close()
	}
	initialized.Store(false)
	return err
}

// loaded logs and records the state after a successful init.
func (tb *Tablebase) loaded(msg string) {
	largest := tb.binding.Largest()
	tb.stats.SetGauge(stats.MetricMaxPieces, int64(largest))

	fields := []zap.Field{
		zap.String("path", tb.path),
		zap.Uint32("maxPieces", largest),
	}
	if inv, err := inventory.Scan(tb.path); err == nil {
		tb.stats.SetGauge(stats.MetricTables, int64(len(inv.Tables)))
		fields = append(fields, zap.Int("tables", len(inv.Tables)))
	} else {
		fields = append(fields, zap.Error(err))
	}
	tb.logger.Debug(msg, fields...)
}

func validatePath(path string) error {
	if !utf8.ValidString(path) || strings.IndexByte(path, 0) >= 0 {
		return ErrInvalidPath
	}
	return nil
}
