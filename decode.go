package fathom

import (
	"errors"
	"fmt"

	"github.com/discochess/fathom/internal/tbprobe"
)

// Errors for probes that produce no result. All of them wrap ErrNoResult.
var (
	// ErrNoResult indicates the probe produced no usable result.
	ErrNoResult = errors.New("fathom: no tablebase result")

	// ErrProbeFailed indicates the engine could not answer: the position
	// needs a missing table, exceeds the piece limit, or breaks a probe
	// precondition (castling rights, nonzero rule-50 counter for WDL).
	ErrProbeFailed = fmt.Errorf("%w: probe failed", ErrNoResult)

	// ErrCheckmate indicates the side to move is checkmated.
	ErrCheckmate = fmt.Errorf("%w: checkmate", ErrNoResult)

	// ErrStalemate indicates the side to move is stalemated.
	ErrStalemate = fmt.Errorf("%w: stalemate", ErrNoResult)

	// ErrBadResult indicates a result word with a field outside its domain.
	ErrBadResult = fmt.Errorf("%w: undecodable result", ErrNoResult)
)

// Decode decodes a root probe result word. Sentinel words map to
// ErrCheckmate, ErrStalemate and ErrProbeFailed. Decoding is all-or-nothing:
// if any field is out of range the whole word is rejected with ErrBadResult.
func Decode(word uint32) (RootProbeResult, error) {
	switch word {
	case tbprobe.ResultCheckmate:
		return RootProbeResult{}, ErrCheckmate
	case tbprobe.ResultStalemate:
		return RootProbeResult{}, ErrStalemate
	case tbprobe.ResultFailed:
		return RootProbeResult{}, ErrProbeFailed
	}
	return decodeMove(word)
}

// decodeMove decodes a word that is known not to be a sentinel, such as an
// entry of the per-move results buffer.
func decodeMove(word uint32) (RootProbeResult, error) {
	wdl, ok := extractWdl(word)
	if !ok {
		return RootProbeResult{}, ErrBadResult
	}
	move, ok := extractMove(word)
	if !ok {
		return RootProbeResult{}, ErrBadResult
	}
	dtz, ok := extractDTZ(word)
	if !ok {
		return RootProbeResult{}, ErrBadResult
	}
	return RootProbeResult{Wdl: wdl, BestMove: move, DTZ: dtz}, nil
}

func extractWdl(word uint32) (Wdl, bool) {
	switch (word & tbprobe.ResultWDLMask) >> tbprobe.ResultWDLShift {
	case tbprobe.Loss:
		return Loss, true
	case tbprobe.BlessedLoss:
		return BlessedLoss, true
	case tbprobe.Draw:
		return Draw, true
	case tbprobe.CursedWin:
		return CursedWin, true
	case tbprobe.Win:
		return Win, true
	default:
		return 0, false
	}
}

func extractSquare(word, mask uint32, shift uint) (Square, bool) {
	sq := (word & mask) >> shift
	if sq >= 64 {
		return 0, false
	}
	return Square(sq), true
}

func extractPromotion(word uint32) (PromotionPiece, bool) {
	return promotionFromCode((word & tbprobe.ResultPromotesMask) >> tbprobe.ResultPromotesShift)
}

func promotionFromCode(code uint32) (PromotionPiece, bool) {
	switch code {
	case tbprobe.PromotesNone:
		return PromoteNone, true
	case tbprobe.PromotesKnight:
		return PromoteKnight, true
	case tbprobe.PromotesBishop:
		return PromoteBishop, true
	case tbprobe.PromotesRook:
		return PromoteRook, true
	case tbprobe.PromotesQueen:
		return PromoteQueen, true
	default:
		return PromoteNone, false
	}
}

func extractMove(word uint32) (Move, bool) {
	from, ok := extractSquare(word, tbprobe.ResultFromMask, tbprobe.ResultFromShift)
	if !ok {
		return Move{}, false
	}
	to, ok := extractSquare(word, tbprobe.ResultToMask, tbprobe.ResultToShift)
	if !ok {
		return Move{}, false
	}
	promote, ok := extractPromotion(word)
	if !ok {
		return Move{}, false
	}
	return Move{
		From:      from,
		To:        to,
		Promote:   promote,
		EnPassant: (word&tbprobe.ResultEPMask)>>tbprobe.ResultEPShift != 0,
	}, true
}

// extractDTZ returns the 12-bit DTZ field.
func extractDTZ(word uint32) (uint16, bool) {
	dtz := (word & tbprobe.ResultDTZMask) >> tbprobe.ResultDTZShift
	if dtz > 0xFFF {
		return 0, false
	}
	return uint16(dtz), true
}
