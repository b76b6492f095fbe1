package fathom

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/discochess/fathom/internal/fen"
	"github.com/discochess/fathom/internal/tbprobe"
)

// Castling rights bits for Position.Castling.
const (
	CastleWhiteKingside  = tbprobe.CastlingK
	CastleWhiteQueenside = tbprobe.CastlingQ
	CastleBlackKingside  = tbprobe.Castlingk
	CastleBlackQueenside = tbprobe.Castlingq
)

// ErrInvalidPosition indicates a Position whose bitboards are inconsistent.
var ErrInvalidPosition = errors.New("fathom: invalid position")

// Side is the side to move.
type Side uint8

const (
	Black Side = 0
	White Side = 1
)

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

// Position is a chess position as the engine consumes it. Bitboards use
// a1=0 through h8=63. Every piece-type bit must be set in exactly one of
// White and Black, and no square may hold two piece types.
type Position struct {
	White   uint64
	Black   uint64
	Kings   uint64
	Queens  uint64
	Rooks   uint64
	Bishops uint64
	Knights uint64
	Pawns   uint64

	// Rule50 counts half-moves since the last capture or pawn move.
	Rule50 uint32
	// Castling is a mask of the Castle* constants.
	Castling uint32
	// EP is the en passant target square, or 0 when there is none.
	EP   uint32
	Turn Side
}

// PositionFromFEN builds a Position from a FEN string.
func PositionFromFEN(s string) (*Position, error) {
	b, err := fen.Parse(s)
	if err != nil {
		return nil, err
	}

	pos := &Position{
		White:    b.White,
		Black:    b.Black,
		Kings:    b.Kings,
		Queens:   b.Queens,
		Rooks:    b.Rooks,
		Bishops:  b.Bishops,
		Knights:  b.Knights,
		Pawns:    b.Pawns,
		Rule50:   b.HalfMoveClock,
		Castling: b.Castling,
		EP:       b.EnPassant,
		Turn:     Black,
	}
	if b.WhiteToMove {
		pos.Turn = White
	}
	return pos, nil
}

// PieceCount returns the number of pieces on the board.
func (p *Position) PieceCount() int {
	return bits.OnesCount64(p.White | p.Black)
}

// Validate checks the occupancy invariants.
func (p *Position) Validate() error {
	if p.White&p.Black != 0 {
		return fmt.Errorf("%w: squares claimed by both sides", ErrInvalidPosition)
	}

	pieces := [...]uint64{p.Kings, p.Queens, p.Rooks, p.Bishops, p.Knights, p.Pawns}
	var seen uint64
	for _, bb := range pieces {
		if seen&bb != 0 {
			return fmt.Errorf("%w: square holds two piece types", ErrInvalidPosition)
		}
		seen |= bb
	}
	if seen != p.White|p.Black {
		return fmt.Errorf("%w: piece masks do not match side masks", ErrInvalidPosition)
	}

	if p.Castling&^0xF != 0 {
		return fmt.Errorf("%w: castling mask %#x", ErrInvalidPosition, p.Castling)
	}
	if p.EP > 63 {
		return fmt.Errorf("%w: en passant square %d", ErrInvalidPosition, p.EP)
	}
	if p.Turn > White {
		return fmt.Errorf("%w: side to move %d", ErrInvalidPosition, p.Turn)
	}
	return nil
}

// args converts p to the native argument set.
func (p *Position) args() tbprobe.Args {
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
		Turn:     p.Turn == White,
	}
}
