package board

import (
	"errors"
	"testing"
)

func TestDefaultTablesVerify(t *testing.T) {
	if err := defaultTables.Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestBuildTablesOtherSeed(t *testing.T) {
	if testing.Short() {
		t.Skip("magic search is slow")
	}
	tables, err := BuildTables(42, DefaultMagicTrials)
	if err != nil {
		t.Fatal(err)
	}
	if err := tables.Verify(); err != nil {
		t.Fatal(err)
	}
	if tables.Trials < 128 {
		t.Errorf("trials = %d, want at least one per entry", tables.Trials)
	}
}

func TestBuildTablesDeterministic(t *testing.T) {
	a, err := BuildTables(DefaultMagicSeed, DefaultMagicTrials)
	if err != nil {
		t.Fatal(err)
	}
	for sq := A1; sq <= H8; sq++ {
		if a.Rook[sq].Magic != defaultTables.Rook[sq].Magic || a.Bishop[sq].Magic != defaultTables.Bishop[sq].Magic {
			t.Fatalf("%s: same seed produced different magics", sq)
		}
	}
}

func TestBuildTablesOutOfTrials(t *testing.T) {
	_, err := BuildTables(DefaultMagicSeed, 0)
	if !errors.Is(err, ErrMagicNotFound) {
		t.Fatalf("err = %v, want ErrMagicNotFound", err)
	}
}

func TestRelevantMask(t *testing.T) {
	tests := []struct {
		sq     Square
		s      Slider
		bits   int
		sample Square
		in     bool
	}{
		{A1, RookSlider, 12, A8, false},
		{A1, RookSlider, 12, A7, true},
		{D4, RookSlider, 10, D8, false},
		{E4, BishopSlider, 9, H7, false},
		{E4, BishopSlider, 9, G6, true},
		{A1, BishopSlider, 6, B2, true},
		{D5, BishopSlider, 9, A8, false},
	}
	for _, tc := range tests {
		mask := relevantMask(tc.sq, tc.s)
		if got := mask.PopCount(); got != tc.bits {
			t.Errorf("%s %s mask has %d bits, want %d", tc.s, tc.sq, got, tc.bits)
		}
		if mask.IsSet(tc.sample) != tc.in {
			t.Errorf("%s %s mask contains %s = %v, want %v", tc.s, tc.sq, tc.sample, !tc.in, tc.in)
		}
	}
}

func TestSlidingAttacks(t *testing.T) {
	occ := SquareBB(D6) | SquareBB(F4) | SquareBB(B2) | SquareBB(G7)
	rook := RookAttacks(D4, occ)
	for _, sq := range []Square{D5, D6, D3, D2, D1, E4, F4, C4, B4, A4} {
		if !rook.IsSet(sq) {
			t.Errorf("rook on d4 should reach %s", sq)
		}
	}
	if rook.IsSet(D7) || rook.IsSet(G4) {
		t.Error("rook on d4 sees through a blocker")
	}

	bishop := BishopAttacks(D4, occ)
	if !bishop.IsSet(B2) || bishop.IsSet(A1) || !bishop.IsSet(G7) || bishop.IsSet(H8) {
		t.Errorf("bishop on d4 stops wrong:\n%s", bishop)
	}
	if QueenAttacks(D4, occ) != rook|bishop {
		t.Error("queen attacks differ from rook|bishop")
	}
}

func TestSubsetsEnumeratesPowerSet(t *testing.T) {
	mask := SquareBB(A2) | SquareBB(C5) | SquareBB(H7)
	seen := map[Bitboard]bool{}
	for _, s := range subsets(mask) {
		if s&^mask != 0 {
			t.Fatalf("subset %#x escapes mask", uint64(s))
		}
		seen[s] = true
	}
	if len(seen) != 8 {
		t.Errorf("got %d distinct subsets, want 8", len(seen))
	}
}
