package board

import "testing"

const (
	kiwipeteFEN  = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	position3FEN = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	// Capturing en passant would expose the black king on a4 to the rook
	// along the fourth rank.
	epPinFEN = "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1"
)

func TestPerft(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
		want  uint64
	}{
		{"start", StartFEN, 1, 20},
		{"start", StartFEN, 2, 400},
		{"start", StartFEN, 3, 8902},
		{"start", StartFEN, 4, 197281},
		{"kiwipete", kiwipeteFEN, 1, 48},
		{"kiwipete", kiwipeteFEN, 2, 2039},
		{"kiwipete", kiwipeteFEN, 3, 97862},
		{"position3", position3FEN, 1, 14},
		{"position3", position3FEN, 2, 191},
		{"position3", position3FEN, 3, 2812},
		{"position3", position3FEN, 4, 43238},
		{"ep-pin", epPinFEN, 1, 6},
		{"ep-pin", epPinFEN, 2, 94},
	}

	for _, tc := range tests {
		pos, err := ParseFEN(tc.fen)
		if err != nil {
			t.Fatalf("%s: ParseFEN: %v", tc.name, err)
		}
		if testing.Short() && tc.want > 50000 {
			continue
		}
		if got := pos.Perft(tc.depth); got != tc.want {
			t.Errorf("%s perft(%d) = %d, want %d", tc.name, tc.depth, got, tc.want)
		}
	}
}

func TestDivideSumsToPerft(t *testing.T) {
	pos, err := ParseFEN(kiwipeteFEN)
	if err != nil {
		t.Fatal(err)
	}
	var total uint64
	entries := pos.Divide(2)
	for _, e := range entries {
		total += e.Nodes
	}
	if len(entries) != 48 || total != 2039 {
		t.Errorf("divide(2): %d moves, %d nodes; want 48 moves, 2039 nodes", len(entries), total)
	}
}

func TestEnPassantPinIsIllegal(t *testing.T) {
	pos, err := ParseFEN(epPinFEN)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.Kind() == EnPassant {
			t.Errorf("en passant %s generated although it exposes the king", m)
		}
	}
	pseudo := pos.GeneratePseudoLegalMoves()
	found := false
	for _, m := range pseudo.Slice() {
		found = found || m.Kind() == EnPassant
	}
	if !found {
		t.Error("en passant missing from pseudo-legal moves")
	}
}
