package fathom_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/discochess/fathom"
	"github.com/discochess/fathom/internal/stats/logger"
	"github.com/discochess/fathom/internal/tbprobe"
	"github.com/discochess/fathom/internal/tbprobe/memlib"
)

// kqk is white Ka1 Qb2 against black Kh1, white to move.
var kqk = fathom.Position{
	White:  1 | 1<<9,
	Black:  1 << 7,
	Kings:  1 | 1<<7,
	Queens: 1 << 9,
	Turn:   fathom.White,
}

func argsOf(p fathom.Position) tbprobe.Args {
	return tbprobe.Args{
		White:    p.White,
		Black:    p.Black,
		Kings:    p.Kings,
		Queens:   p.Queens,
		Rooks:    p.Rooks,
		Bishops:  p.Bishops,
		Knights:  p.Knights,
		Pawns:    p.Pawns,
		Rule50:   p.Rule50,
		Castling: p.Castling,
		EP:       p.EP,
		Turn:     p.Turn == fathom.White,
	}
}

// open creates a Tablebase over lib and closes it when the test ends.
// Tests in this package must not run in parallel: the engine is a
// process-wide singleton.
func open(t *testing.T, lib *memlib.Library, path string, opts ...fathom.Option) *fathom.Tablebase {
	t.Helper()
	opts = append([]fathom.Option{fathom.WithLibrary(lib)}, opts...)
	tb, err := fathom.New(path, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = tb.Close() })
	return tb
}

func TestNew_DropSafety(t *testing.T) {
	lib := memlib.New(5)

	tb, err := fathom.New("foobar", fathom.WithLibrary(lib))
	if err != nil {
		t.Fatalf("New(foobar) error = %v", err)
	}
	if err := tb.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	tb, err = fathom.New("", fathom.WithLibrary(lib))
	if err != nil {
		t.Fatalf("New() after Close error = %v", err)
	}
	if err := tb.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if got := lib.Frees(); got != 2 {
		t.Errorf("Frees() = %d, want 2", got)
	}
}

func TestNew_AlreadyInitialized(t *testing.T) {
	lib := memlib.New(5)
	open(t, lib, "first")

	_, err := fathom.New("second", fathom.WithLibrary(lib))
	if !errors.Is(err, fathom.ErrAlreadyInitialized) {
		t.Fatalf("New() error = %v, want ErrAlreadyInitialized", err)
	}
	if got := lib.InitPaths(); len(got) != 1 || got[0] != "first" {
		t.Errorf("InitPaths() = %q, want [first]", got)
	}
}

func TestNew_ConcurrentCallers(t *testing.T) {
	const callers = 32
	lib := memlib.New(5)

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		tbs   = make([]*fathom.Tablebase, callers)
		errs  = make([]error, callers)
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			tbs[i], errs[i] = fathom.New("tables", fathom.WithLibrary(lib))
		}(i)
	}
	close(start)
	wg.Wait()

	successes := 0
	for i, err := range errs {
		if err == nil {
			successes++
			t.Cleanup(func() { _ = tbs[i].Close() })
			continue
		}
		if !errors.Is(err, fathom.ErrAlreadyInitialized) {
			t.Errorf("New() error = %v, want ErrAlreadyInitialized", err)
		}
	}
	if successes != 1 {
		t.Errorf("successful New() calls = %d, want 1", successes)
	}
	if n := len(lib.InitPaths()); n != 1 {
		t.Errorf("Init called %d times, want 1", n)
	}
}

func TestNew_InvalidPathWhileOpen(t *testing.T) {
	lib := memlib.New(5)
	open(t, lib, "tables")

	_, err := fathom.New("bad\x00path", fathom.WithLibrary(lib))
	if !errors.Is(err, fathom.ErrAlreadyInitialized) {
		t.Fatalf("New() error = %v, want ErrAlreadyInitialized", err)
	}
	if n := len(lib.InitPaths()); n != 1 {
		t.Errorf("Init called %d times, want 1", n)
	}
}

func TestNew_InvalidPath(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"nul byte", "tables\x00more"},
		{"invalid utf8", "tables\xff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := memlib.New(5)
			_, err := fathom.New(tt.path, fathom.WithLibrary(lib))
			if !errors.Is(err, fathom.ErrInvalidPath) {
				t.Fatalf("New() error = %v, want ErrInvalidPath", err)
			}
			if n := len(lib.InitPaths()); n != 0 {
				t.Errorf("Init called %d times, want 0", n)
			}
		})
	}

	// A rejected path must not leave the engine marked as in use.
	open(t, memlib.New(5), "")
}

func TestNew_InitFailed(t *testing.T) {
	lib := memlib.New(5)
	lib.SetInitResult(false)

	_, err := fathom.New("tables", fathom.WithLibrary(lib))
	if !errors.Is(err, fathom.ErrInitFailed) {
		t.Fatalf("New() error = %v, want ErrInitFailed", err)
	}
	if got := lib.Frees(); got != 1 {
		t.Errorf("Frees() = %d, want 1", got)
	}

	lib.SetInitResult(true)
	open(t, lib, "tables")
}

func TestNew_LibraryLoadFailure(t *testing.T) {
	_, err := fathom.New("tables", fathom.WithLibraryPath("/nonexistent/libfathom.so"))
	if err == nil {
		t.Fatal("New() error = nil, want error")
	}

	open(t, memlib.New(5), "tables")
}

func TestTablebase_MaxPieces(t *testing.T) {
	tb := open(t, memlib.New(6), "tables")

	if got := tb.MaxPieces(); got != 6 {
		t.Errorf("MaxPieces() = %d, want 6", got)
	}
	root, wdl := tb.Probers()
	if got := root.MaxPieces(); got != 6 {
		t.Errorf("RootProber.MaxPieces() = %d, want 6", got)
	}
	if got := wdl.MaxPieces(); got != 6 {
		t.Errorf("Prober.MaxPieces() = %d, want 6", got)
	}
	if got := tb.Path(); got != "tables" {
		t.Errorf("Path() = %q, want %q", got, "tables")
	}
}

func TestTablebase_Reload(t *testing.T) {
	ctx := context.Background()
	lib := memlib.New(5)
	lib.SetWDL(argsOf(kqk), tbprobe.Win)
	col := logger.New(nil)
	tb := open(t, lib, "old", fathom.WithStats(col))

	root, wdl := tb.Probers()
	if err := tb.Reload("new"); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if _, err := wdl.Probe(ctx, &kqk); !errors.Is(err, fathom.ErrStaleProber) {
		t.Errorf("stale Prober.Probe() error = %v, want ErrStaleProber", err)
	}
	if _, err := root.Probe(ctx, &kqk); !errors.Is(err, fathom.ErrStaleProber) {
		t.Errorf("stale RootProber.Probe() error = %v, want ErrStaleProber", err)
	}

	got, err := tb.Prober().Probe(ctx, &kqk)
	if err != nil {
		t.Fatalf("Probe() after Reload error = %v", err)
	}
	if got != fathom.Win {
		t.Errorf("Probe() = %v, want %v", got, fathom.Win)
	}

	if paths := lib.InitPaths(); len(paths) != 2 || paths[1] != "new" {
		t.Errorf("InitPaths() = %q, want [old new]", paths)
	}
	if tb.Path() != "new" {
		t.Errorf("Path() = %q, want %q", tb.Path(), "new")
	}
	if n := col.Counter("fathom_reloads_total"); n != 1 {
		t.Errorf("reloads counter = %d, want 1", n)
	}

	if err := tb.Reload("bad\x00"); !errors.Is(err, fathom.ErrInvalidPath) {
		t.Errorf("Reload(invalid) error = %v, want ErrInvalidPath", err)
	}
}

func TestTablebase_ReloadFailed(t *testing.T) {
	lib := memlib.New(5)
	tb := open(t, lib, "old")

	lib.SetInitResult(false)
	if err := tb.Reload("missing"); !errors.Is(err, fathom.ErrInitFailed) {
		t.Fatalf("Reload() error = %v, want ErrInitFailed", err)
	}
	if got := tb.Path(); got != "missing" {
		t.Errorf("Path() = %q, want %q", got, "missing")
	}
	if got := tb.MaxPieces(); got != 0 {
		t.Errorf("MaxPieces() = %d, want 0", got)
	}
}

func TestTablebase_Close(t *testing.T) {
	ctx := context.Background()
	lib := memlib.New(5)
	tb, err := fathom.New("tables", fathom.WithLibrary(lib))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	root, wdl := tb.Probers()

	if err := tb.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := tb.Close(); !errors.Is(err, fathom.ErrClosed) {
		t.Errorf("second Close() error = %v, want ErrClosed", err)
	}
	if got := lib.Frees(); got != 1 {
		t.Errorf("Frees() = %d, want 1", got)
	}
	if lib.Loaded() {
		t.Error("Loaded() = true after Close")
	}
	if got := tb.MaxPieces(); got != 0 {
		t.Errorf("MaxPieces() after Close = %d, want 0", got)
	}

	if _, err := wdl.Probe(ctx, &kqk); !errors.Is(err, fathom.ErrClosed) {
		t.Errorf("Prober.Probe() error = %v, want ErrClosed", err)
	}
	if _, err := root.Probe(ctx, &kqk); !errors.Is(err, fathom.ErrClosed) {
		t.Errorf("RootProber.Probe() error = %v, want ErrClosed", err)
	}
	if err := tb.Reload("tables"); !errors.Is(err, fathom.ErrClosed) {
		t.Errorf("Reload() error = %v, want ErrClosed", err)
	}
	if n := lib.WDLProbes() + lib.RootProbes(); n != 0 {
		t.Errorf("library probed %d times after Close, want 0", n)
	}
}

func TestTablebase_ProbersRevokeRootGrant(t *testing.T) {
	ctx := context.Background()
	lib := memlib.New(5)
	word := tbprobe.Win | 9<<tbprobe.ResultFromShift | 1<<tbprobe.ResultToShift
	lib.SetRoot(argsOf(kqk), word)
	lib.SetWDL(argsOf(kqk), tbprobe.Win)
	tb := open(t, lib, "tables")

	oldRoot, oldWDL := tb.Probers()
	newRoot, _ := tb.Probers()

	if _, err := oldRoot.Probe(ctx, &kqk); !errors.Is(err, fathom.ErrStaleProber) {
		t.Errorf("revoked RootProber.Probe() error = %v, want ErrStaleProber", err)
	}
	if _, err := newRoot.Probe(ctx, &kqk); err != nil {
		t.Errorf("RootProber.Probe() error = %v", err)
	}
	if _, err := oldWDL.Probe(ctx, &kqk); err != nil {
		t.Errorf("Prober.Probe() from earlier pair error = %v", err)
	}
}
