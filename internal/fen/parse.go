// Package fen converts FEN (Forsyth-Edwards Notation) strings into the
// occupancy bitboards and state fields the probing engine consumes.
package fen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"
)

// ErrInvalidFEN indicates the FEN string is malformed.
var ErrInvalidFEN = errors.New("invalid FEN notation")

// Castling bits, matching the engine's layout.
const (
	CastleWhiteKingside  uint32 = 1
	CastleWhiteQueenside uint32 = 2
	CastleBlackKingside  uint32 = 4
	CastleBlackQueenside uint32 = 8
)

// Board holds the fields decoded from a FEN string. Square indices run
// a1=0 through h8=63.
type Board struct {
	White, Black                                  uint64
	Kings, Queens, Rooks, Bishops, Knights, Pawns uint64

	HalfMoveClock uint32
	Castling      uint32
	EnPassant     uint32 // target square index, 0 when none
	WhiteToMove   bool
}

// Parse decodes a FEN string. The halfmove clock and fullmove number are
// optional and default to 0 and 1.
func Parse(fenStr string) (*Board, error) {
	parts := strings.Fields(fenStr)
	if len(parts) < 4 || len(parts) > 6 {
		return nil, ErrInvalidFEN
	}
	if !isValidPiecePlacement(parts[0]) {
		return nil, ErrInvalidFEN
	}
	if parts[1] != "w" && parts[1] != "b" {
		return nil, ErrInvalidFEN
	}

	clock, err := halfMoveClock(parts)
	if err != nil {
		return nil, err
	}

	full := append([]string{}, parts...)
	if len(full) == 4 {
		full = append(full, "0")
	}
	if len(full) == 5 {
		full = append(full, "1")
	}
	opt, err := chess.FEN(strings.Join(full, " "))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	pos := chess.NewGame(opt).Position()

	b := &Board{
		HalfMoveClock: clock,
		WhiteToMove:   pos.Turn() == chess.White,
	}

	for sq, pc := range pos.Board().SquareMap() {
		bb := uint64(1) << uint(sq)
		switch pc.Color() {
		case chess.White:
			b.White |= bb
		case chess.Black:
			b.Black |= bb
		}
		switch pc.Type() {
		case chess.King:
			b.Kings |= bb
		case chess.Queen:
			b.Queens |= bb
		case chess.Rook:
			b.Rooks |= bb
		case chess.Bishop:
			b.Bishops |= bb
		case chess.Knight:
			b.Knights |= bb
		case chess.Pawn:
			b.Pawns |= bb
		}
	}

	cr := pos.CastleRights()
	if cr.CanCastle(chess.White, chess.KingSide) {
		b.Castling |= CastleWhiteKingside
	}
	if cr.CanCastle(chess.White, chess.QueenSide) {
		b.Castling |= CastleWhiteQueenside
	}
	if cr.CanCastle(chess.Black, chess.KingSide) {
		b.Castling |= CastleBlackKingside
	}
	if cr.CanCastle(chess.Black, chess.QueenSide) {
		b.Castling |= CastleBlackQueenside
	}

	if ep := pos.EnPassantSquare(); ep != chess.NoSquare {
		b.EnPassant = uint32(ep)
	}

	return b, nil
}

// halfMoveClock returns the fifth FEN field, or 0 when absent.
func halfMoveClock(parts []string) (uint32, error) {
	if len(parts) < 5 {
		return 0, nil
	}
	n, err := strconv.ParseUint(parts[4], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: halfmove clock %q", ErrInvalidFEN, parts[4])
	}
	return uint32(n), nil
}

// isValidPiecePlacement validates the piece placement part of a FEN.
func isValidPiecePlacement(placement string) bool {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return false
	}

	for _, rank := range ranks {
		squares := 0
		for _, ch := range rank {
			switch {
			case ch >= '1' && ch <= '8':
				squares += int(ch - '0')
			case strings.ContainsRune("PNBRQKpnbrqk", ch):
				squares++
			default:
				return false
			}
		}
		if squares != 8 {
			return false
		}
	}

	return true
}
