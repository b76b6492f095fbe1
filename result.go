package fathom

import "fmt"

// Wdl is a game-theoretic outcome from the side to move's perspective,
// ordered worst to best. Cursed wins and blessed losses are wins and losses
// that the fifty-move rule turns into draws.
type Wdl uint8

const (
	Loss Wdl = iota
	BlessedLoss
	Draw
	CursedWin
	Win
)

var wdlNames = [...]string{"loss", "blessed loss", "draw", "cursed win", "win"}

func (w Wdl) String() string {
	if int(w) < len(wdlNames) {
		return wdlNames[w]
	}
	return fmt.Sprintf("Wdl(%d)", uint8(w))
}

// Square is a board square index, 0 through 63.
type Square uint8

// Index returns the square index.
func (s Square) Index() uint8 {
	return uint8(s)
}

// PromotionPiece is the piece a pawn promotes to.
type PromotionPiece uint8

const (
	PromoteNone PromotionPiece = iota
	PromoteKnight
	PromoteBishop
	PromoteRook
	PromoteQueen
)

// UCI returns the promotion suffix used in UCI move notation.
func (p PromotionPiece) UCI() string {
	switch p {
	case PromoteKnight:
		return "n"
	case PromoteBishop:
		return "b"
	case PromoteRook:
		return "r"
	case PromoteQueen:
		return "q"
	default:
		return ""
	}
}

func (p PromotionPiece) String() string {
	switch p {
	case PromoteNone:
		return "none"
	case PromoteKnight:
		return "knight"
	case PromoteBishop:
		return "bishop"
	case PromoteRook:
		return "rook"
	case PromoteQueen:
		return "queen"
	default:
		return fmt.Sprintf("PromotionPiece(%d)", uint8(p))
	}
}

// Move is a move recommended by a root probe.
type Move struct {
	From      Square
	To        Square
	Promote   PromotionPiece
	EnPassant bool
}

// RootProbeResult is the outcome of a root probe: the best move, the outcome
// it preserves, and the distance to the next zeroing move.
type RootProbeResult struct {
	Wdl      Wdl
	BestMove Move
	DTZ      uint16
}
