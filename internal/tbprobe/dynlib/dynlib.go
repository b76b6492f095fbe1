//go:build (darwin || freebsd || linux || netbsd) && !android

// Package dynlib loads the Fathom shared library at runtime.
//
// Symbols are resolved with purego, so no cgo toolchain is needed to build
// the module; only the shared library must be present when Open is called.
package dynlib

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/discochess/fathom/internal/tbprobe"
)

// Compile-time check that Library implements tbprobe.Library.
var _ tbprobe.Library = (*Library)(nil)

// ErrClosed is returned by Close when the library was already unloaded.
var ErrClosed = errors.New("dynlib: library closed")

// DefaultName returns the platform file name of the Fathom shared library.
func DefaultName() string {
	if runtime.GOOS == "darwin" {
		return "libfathom.dylib"
	}
	return "libfathom.so"
}

// Library is a dynamically loaded Fathom engine.
type Library struct {
	handle  uintptr
	largest *uint32

	tbInit      func(path string) bool
	tbFree      func()
	tbProbeWDL  func(white, black, kings, queens, rooks, bishops, knights, pawns uint64, ep uint32, turn bool) uint32
	tbProbeRoot func(white, black, kings, queens, rooks, bishops, knights, pawns uint64, rule50, ep uint32, turn bool, results *uint32) uint32
}

// Open loads the shared library at path and resolves the probing symbols.
func Open(path string) (*Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	l := &Library{handle: handle}

	largest, err := purego.Dlsym(handle, "TB_LARGEST")
	if err != nil {
		purego.Dlclose(handle)
		return nil, fmt.Errorf("resolving TB_LARGEST: %w", err)
	}
	l.largest = (*uint32)(unsafe.Pointer(largest))

	funcs := []struct {
		name string
		fptr any
	}{
		{"tb_init", &l.tbInit},
		{"tb_free", &l.tbFree},
		{"tb_probe_wdl_impl", &l.tbProbeWDL},
		{"tb_probe_root_impl", &l.tbProbeRoot},
	}
	for _, f := range funcs {
		sym, err := purego.Dlsym(handle, f.name)
		if err != nil {
			purego.Dlclose(handle)
			return nil, fmt.Errorf("resolving %s: %w", f.name, err)
		}
		purego.RegisterFunc(f.fptr, sym)
	}

	return l, nil
}

// Init calls tb_init.
func (l *Library) Init(path string) bool {
	return l.tbInit(path)
}

// Free calls tb_free.
func (l *Library) Free() {
	l.tbFree()
}

// Largest reads TB_LARGEST.
func (l *Library) Largest() uint32 {
	return *l.largest
}

// ProbeWDL calls tb_probe_wdl_impl.
func (l *Library) ProbeWDL(a *tbprobe.Args) uint32 {
	return l.tbProbeWDL(a.White, a.Black, a.Kings, a.Queens, a.Rooks, a.Bishops, a.Knights, a.Pawns,
		a.EP, a.Turn)
}

// ProbeRoot calls tb_probe_root_impl.
func (l *Library) ProbeRoot(a *tbprobe.Args, results []uint32) uint32 {
	var out *uint32
	if len(results) > 0 {
		out = &results[0]
	}
	r := l.tbProbeRoot(a.White, a.Black, a.Kings, a.Queens, a.Rooks, a.Bishops, a.Knights, a.Pawns,
		a.Rule50, a.EP, a.Turn, out)
	runtime.KeepAlive(results)
	return r
}

// Close unloads the shared library. The tables must already be freed.
func (l *Library) Close() error {
	if l.handle == 0 {
		return ErrClosed
	}
	err := purego.Dlclose(l.handle)
	l.handle = 0
	l.largest = nil
	return err
}
