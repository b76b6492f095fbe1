package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/notnil/chess"
	"github.com/spf13/cobra"

	"github.com/discochess/fathom"
)

var probeCmd = &cobra.Command{
	Use:   "probe [FEN]",
	Short: "Probe a position",
	Long: `Probe a position given in FEN notation.

By default the root probe reports the best move, its outcome and the
distance to zeroing (DTZ). With --wdl-only only the WDL table is probed,
which requires no castling rights and a zero halfmove clock.

Examples:
  # Best move in KQ vs K
  fathom probe "8/8/8/8/8/8/1Q6/K6k w - - 0 1"

  # Every legal move, as JSON
  fathom probe --moves --json "8/8/8/8/8/8/1Q6/K6k w - - 0 1"`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

var (
	wdlOnly    bool
	listMoves  bool
	outputJSON bool
	showTiming bool
)

func init() {
	probeCmd.Flags().BoolVar(&wdlOnly, "wdl-only", false, "probe only the WDL table")
	probeCmd.Flags().BoolVar(&listMoves, "moves", false, "report every legal move")
	probeCmd.Flags().BoolVar(&outputJSON, "json", false, "output result as JSON")
	probeCmd.Flags().BoolVar(&showTiming, "timing", false, "show probe timing")
	rootCmd.AddCommand(probeCmd)
}

// moveJSON is one root move in JSON output.
type moveJSON struct {
	UCI       string `json:"uci"`
	Wdl       string `json:"wdl"`
	DTZ       uint16 `json:"dtz"`
	EnPassant bool   `json:"en_passant,omitempty"`
}

// probeJSON is the JSON output of the probe command.
type probeJSON struct {
	FEN       string     `json:"fen"`
	Wdl       string     `json:"wdl,omitempty"`
	Result    string     `json:"result,omitempty"`
	BestMove  *moveJSON  `json:"best_move,omitempty"`
	Moves     []moveJSON `json:"moves,omitempty"`
	ElapsedUS int64      `json:"elapsed_us,omitempty"`
}

func runProbe(cmd *cobra.Command, args []string) error {
	fen := args[0]

	pos, err := fathom.PositionFromFEN(fen)
	if err != nil {
		return fmt.Errorf("parsing FEN: %w", err)
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	tb, err := openTablebase(log)
	if err != nil {
		return err
	}
	defer tb.Close()

	if n := uint32(pos.PieceCount()); n > tb.MaxPieces() {
		return fmt.Errorf("position has %d pieces; tables cover at most %d", n, tb.MaxPieces())
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := probeJSON{FEN: fen}
	start := time.Now()

	if wdlOnly {
		wdl, err := tb.Prober().Probe(ctx, pos)
		if err != nil {
			return fmt.Errorf("probe failed: %w", err)
		}
		out.Wdl = wdl.String()
	} else {
		root, _ := tb.Probers()
		var best fathom.RootProbeResult
		var moves []fathom.RootProbeResult
		if listMoves {
			best, moves, err = root.ProbeMoves(ctx, pos)
		} else {
			best, err = root.Probe(ctx, pos)
		}
		switch {
		case errors.Is(err, fathom.ErrCheckmate):
			out.Result = "checkmate"
		case errors.Is(err, fathom.ErrStalemate):
			out.Result = "stalemate"
		case err != nil:
			return fmt.Errorf("probe failed: %w", err)
		default:
			bm := toMoveJSON(best)
			out.Wdl = bm.Wdl
			out.BestMove = &bm
			for _, m := range moves {
				out.Moves = append(out.Moves, toMoveJSON(m))
			}
		}
	}

	elapsed := time.Since(start)
	if showTiming {
		out.ElapsedUS = elapsed.Microseconds()
	}

	if outputJSON {
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(out)
	}
	printProbeText(out, elapsed)
	return nil
}

func toMoveJSON(r fathom.RootProbeResult) moveJSON {
	return moveJSON{
		UCI:       uci(r.BestMove),
		Wdl:       r.Wdl.String(),
		DTZ:       r.DTZ,
		EnPassant: r.BestMove.EnPassant,
	}
}

// uci formats m in UCI long algebraic notation, e.g. "e7e8q".
func uci(m fathom.Move) string {
	return chess.Square(m.From.Index()).String() +
		chess.Square(m.To.Index()).String() +
		m.Promote.UCI()
}

func printProbeText(out probeJSON, elapsed time.Duration) {
	fmt.Printf("FEN:    %s\n", out.FEN)
	if out.Result != "" {
		fmt.Printf("Result: %s\n", out.Result)
	}
	if out.Wdl != "" {
		fmt.Printf("WDL:    %s\n", out.Wdl)
	}
	if out.BestMove != nil {
		fmt.Printf("Best:   %s (dtz %d)\n", out.BestMove.UCI, out.BestMove.DTZ)
	}
	for _, m := range out.Moves {
		fmt.Printf("  %-6s %-13s dtz %d\n", m.UCI, m.Wdl, m.DTZ)
	}
	if showTiming {
		fmt.Printf("Time:   %s\n", elapsed)
	}
}
