package fathom

import (
	"context"
	"errors"
	"time"

	"github.com/discochess/fathom/internal/stats"
	"github.com/discochess/fathom/internal/tbprobe"
)

// Prober answers WDL probes. It is valid until its Tablebase is reloaded or
// closed, and is safe for concurrent use.
type Prober struct {
	tb    *Tablebase
	epoch uint64
}

// MaxPieces returns the largest piece count the loaded tables cover.
func (p *Prober) MaxPieces() uint32 {
	return p.tb.MaxPieces()
}

// Probe returns the WDL outcome of pos. The position must have no castling
// rights and a zero rule-50 counter; otherwise it fails with ErrProbeFailed
// without reaching the engine.
func (p *Prober) Probe(ctx context.Context, pos *Position) (Wdl, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := pos.Validate(); err != nil {
		return 0, err
	}

	tb := p.tb
	tb.mu.RLock()
	defer tb.mu.RUnlock()

	if err := tb.check(p.epoch); err != nil {
		return 0, err
	}

	tb.stats.IncCounter(stats.MetricProbes, 1)

	if tb.cache != nil {
		if wdl, ok := tb.cache.Get(*pos); ok {
			return wdl, nil
		}
	}

	a := pos.args()
	start := time.Now()
	word := tb.binding.ProbeWDL(&a)
	tb.stats.ObserveHistogram(stats.MetricProbeSeconds, time.Since(start).Seconds())

	if word == tbprobe.ResultFailed {
		tb.stats.IncCounter(stats.MetricProbeFailures, 1)
		return 0, ErrProbeFailed
	}
	wdl, ok := extractWdl(word)
	if !ok {
		tb.stats.IncCounter(stats.MetricProbeFailures, 1)
		return 0, ErrBadResult
	}

	if tb.cache != nil {
		tb.cache.Add(*pos, wdl)
	}
	return wdl, nil
}

// RootProber answers root probes. It is valid until its Tablebase is
// reloaded or closed, or until Tablebase.Probers mints a newer pair. Root
// probes are serialized; concurrent callers wait for one another.
type RootProber struct {
	tb    *Tablebase
	epoch uint64
	grant uint64
}

// MaxPieces returns the largest piece count the loaded tables cover.
func (r *RootProber) MaxPieces() uint32 {
	return r.tb.MaxPieces()
}

// Probe returns the best move at pos together with its outcome and DTZ.
// Checkmate, stalemate and unanswerable positions return ErrCheckmate,
// ErrStalemate and ErrProbeFailed, all of which wrap ErrNoResult.
func (r *RootProber) Probe(ctx context.Context, pos *Position) (RootProbeResult, error) {
	word, _, err := r.probe(ctx, pos, false)
	if err != nil {
		return RootProbeResult{}, err
	}
	return r.decode(word)
}

// ProbeMoves returns the best-move result followed by the result of every
// legal move at pos, in the order the engine reports them. Entries that fail
// to decode are skipped.
func (r *RootProber) ProbeMoves(ctx context.Context, pos *Position) (RootProbeResult, []RootProbeResult, error) {
	word, results, err := r.probe(ctx, pos, true)
	if err != nil {
		return RootProbeResult{}, nil, err
	}
	best, err := r.decode(word)
	if err != nil {
		return RootProbeResult{}, nil, err
	}

	moves := make([]RootProbeResult, 0, 16)
	for _, w := range results {
		if w == tbprobe.ResultFailed {
			break
		}
		if res, err := decodeMove(w); err == nil {
			moves = append(moves, res)
		}
	}
	return best, moves, nil
}

func (r *RootProber) probe(ctx context.Context, pos *Position, withMoves bool) (uint32, []uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	if err := pos.Validate(); err != nil {
		return 0, nil, err
	}

	tb := r.tb
	tb.mu.RLock()
	defer tb.mu.RUnlock()

	if err := tb.check(r.epoch); err != nil {
		return 0, nil, err
	}
	if r.grant != tb.grant.Load() {
		return 0, nil, ErrStaleProber
	}

	tb.rootMu.Lock()
	defer tb.rootMu.Unlock()

	tb.stats.IncCounter(stats.MetricRootProbes, 1)

	var results []uint32
	if withMoves {
		results = make([]uint32, tbprobe.MaxMoves)
	}

	a := pos.args()
	start := time.Now()
	word := tb.binding.ProbeRoot(&a, results)
	tb.stats.ObserveHistogram(stats.MetricProbeSeconds, time.Since(start).Seconds())
	return word, results, nil
}

func (r *RootProber) decode(word uint32) (RootProbeResult, error) {
	res, err := Decode(word)
	if err != nil && !errors.Is(err, ErrCheckmate) && !errors.Is(err, ErrStalemate) {
		r.tb.stats.IncCounter(stats.MetricProbeFailures, 1)
	}
	return res, err
}
