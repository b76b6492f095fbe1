package fathom_test

import (
	"errors"
	"testing"

	"github.com/discochess/fathom"
)

func TestPositionFromFEN(t *testing.T) {
	pos, err := fathom.PositionFromFEN("8/8/8/8/8/8/1Q6/K6k w - - 0 1")
	if err != nil {
		t.Fatalf("PositionFromFEN() error = %v", err)
	}
	if *pos != kqk {
		t.Errorf("PositionFromFEN() = %+v, want %+v", *pos, kqk)
	}
	if n := pos.PieceCount(); n != 3 {
		t.Errorf("PieceCount() = %d, want 3", n)
	}
	if err := pos.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestPositionFromFEN_State(t *testing.T) {
	pos, err := fathom.PositionFromFEN("4k3/8/8/3pP3/8/8/8/R3K3 w Q d6 4 30")
	if err != nil {
		t.Fatalf("PositionFromFEN() error = %v", err)
	}
	if pos.Castling != fathom.CastleWhiteQueenside {
		t.Errorf("Castling = %#x, want %#x", pos.Castling, fathom.CastleWhiteQueenside)
	}
	if pos.EP != 43 {
		t.Errorf("EP = %d, want 43", pos.EP)
	}
	if pos.Rule50 != 4 {
		t.Errorf("Rule50 = %d, want 4", pos.Rule50)
	}
	if pos.Turn != fathom.White {
		t.Errorf("Turn = %v, want %v", pos.Turn, fathom.White)
	}
}

func TestPositionFromFEN_Invalid(t *testing.T) {
	if _, err := fathom.PositionFromFEN("not a fen"); err == nil {
		t.Fatal("PositionFromFEN() error = nil, want error")
	}
}

func TestPosition_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*fathom.Position)
	}{
		{"overlapping sides", func(p *fathom.Position) { p.Black |= 1 }},
		{"two piece types", func(p *fathom.Position) { p.Rooks |= 1 }},
		{"piece without side", func(p *fathom.Position) { p.Pawns |= 1 << 20 }},
		{"side without piece", func(p *fathom.Position) { p.White |= 1 << 20 }},
		{"castling mask", func(p *fathom.Position) { p.Castling = 0x10 }},
		{"en passant square", func(p *fathom.Position) { p.EP = 64 }},
		{"side to move", func(p *fathom.Position) { p.Turn = 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := kqk
			tt.mutate(&pos)
			if err := pos.Validate(); !errors.Is(err, fathom.ErrInvalidPosition) {
				t.Errorf("Validate() error = %v, want ErrInvalidPosition", err)
			}
		})
	}
}

func TestWdl_String(t *testing.T) {
	if got := fathom.CursedWin.String(); got != "cursed win" {
		t.Errorf("String() = %q, want %q", got, "cursed win")
	}
	if got := fathom.Wdl(9).String(); got != "Wdl(9)" {
		t.Errorf("String() = %q, want %q", got, "Wdl(9)")
	}
}

func TestPromotionPiece_UCI(t *testing.T) {
	if got := fathom.PromoteQueen.UCI(); got != "q" {
		t.Errorf("UCI() = %q, want %q", got, "q")
	}
	if got := fathom.PromoteNone.UCI(); got != "" {
		t.Errorf("UCI() = %q, want empty", got)
	}
}
