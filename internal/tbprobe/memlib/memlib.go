// Package memlib provides an in-memory tbprobe.Library for testing.
//
// Results are scripted per position; anything not scripted probes as
// ResultFailed, as the native engine does for missing tables.
package memlib

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/discochess/fathom/internal/tbprobe"
)

// Compile-time check that Library implements tbprobe.Library.
var _ tbprobe.Library = (*Library)(nil)

type rootEntry struct {
	word  uint32
	moves []uint32
}

// Library is a scripted, thread-safe stand-in for the native engine.
type Library struct {
	mu         sync.RWMutex
	largest    uint32
	initResult bool
	loaded     bool
	initPaths  []string
	frees      int
	wdl        map[tbprobe.Args]uint32
	root       map[tbprobe.Args]rootEntry

	wdlProbes  atomic.Int64
	rootProbes atomic.Int64

	// inFlight counts probes between entry and return; overlaps counts
	// Init and Free calls that arrived while one was in flight.
	inFlight   atomic.Int64
	overlaps   atomic.Int64
	probeDelay atomic.Int64
}

// New creates a library that reports largest as its piece ceiling once
// initialized.
func New(largest uint32) *Library {
	return &Library{
		largest:    largest,
		initResult: true,
		wdl:        make(map[tbprobe.Args]uint32),
		root:       make(map[tbprobe.Args]rootEntry),
	}
}

// SetInitResult sets the value returned by subsequent Init calls.
func (l *Library) SetInitResult(ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.initResult = ok
}

// SetWDL scripts the WDL probe result for a.
func (l *Library) SetWDL(a tbprobe.Args, word uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.wdl[a] = word
}

// SetRoot scripts the root probe result for a, plus the per-move results
// written to the caller's buffer.
func (l *Library) SetRoot(a tbprobe.Args, word uint32, moves ...uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	copied := make([]uint32, len(moves))
	copy(copied, moves)
	l.root[a] = rootEntry{word: word, moves: copied}
}

// SetProbeDelay makes every probe stall for d before answering, widening
// the window in which an overlapping Init or Free is observed.
func (l *Library) SetProbeDelay(d time.Duration) {
	l.probeDelay.Store(int64(d))
}

// enter marks a probe in flight and applies the configured delay. The
// returned func marks it done.
func (l *Library) enter() func() {
	l.inFlight.Add(1)
	if d := l.probeDelay.Load(); d > 0 {
		time.Sleep(time.Duration(d))
	}
	return func() { l.inFlight.Add(-1) }
}

func (l *Library) checkOverlap() {
	if l.inFlight.Load() > 0 {
		l.overlaps.Add(1)
	}
}

// Init records the call and marks the tables loaded.
func (l *Library) Init(path string) bool {
	l.checkOverlap()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.initPaths = append(l.initPaths, path)
	l.loaded = l.initResult
	return l.initResult
}

// Free records the call and unloads the tables.
func (l *Library) Free() {
	l.checkOverlap()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frees++
	l.loaded = false
}

// Largest returns the configured ceiling, or 0 when nothing is loaded.
func (l *Library) Largest() uint32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.loaded {
		return 0
	}
	return l.largest
}

// ProbeWDL returns the scripted WDL result for a.
func (l *Library) ProbeWDL(a *tbprobe.Args) uint32 {
	l.wdlProbes.Add(1)
	defer l.enter()()
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.loaded {
		return tbprobe.ResultFailed
	}
	word, ok := l.wdl[*a]
	if !ok {
		return tbprobe.ResultFailed
	}
	return word
}

// ProbeRoot returns the scripted root result for a.
func (l *Library) ProbeRoot(a *tbprobe.Args, results []uint32) uint32 {
	l.rootProbes.Add(1)
	defer l.enter()()
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.loaded {
		return tbprobe.ResultFailed
	}
	e, ok := l.root[*a]
	if !ok {
		return tbprobe.ResultFailed
	}
	if results != nil {
		n := copy(results[:len(results)-1], e.moves)
		results[n] = tbprobe.ResultFailed
	}
	return e.word
}

// InitPaths returns the paths passed to Init, in call order.
func (l *Library) InitPaths() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.initPaths))
	copy(out, l.initPaths)
	return out
}

// Frees returns the number of Free calls.
func (l *Library) Frees() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.frees
}

// Loaded reports whether tables are currently loaded.
func (l *Library) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// WDLProbes returns the number of ProbeWDL calls that reached the library.
func (l *Library) WDLProbes() int64 {
	return l.wdlProbes.Load()
}

// RootProbes returns the number of ProbeRoot calls that reached the library.
func (l *Library) RootProbes() int64 {
	return l.rootProbes.Load()
}

// Overlaps returns the number of Init and Free calls made while a probe was
// in flight. A caller that serializes lifecycle calls against probes keeps
// it at zero.
func (l *Library) Overlaps() int64 {
	return l.overlaps.Load()
}
