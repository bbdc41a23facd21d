package board

import "testing"

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want Status
	}{
		{"start", StartFEN, Ongoing},
		{"queen mate", "7k/6Q1/5K2/8/8/8/8/8 b - - 0 1", Checkmate},
		{"back rank mate", "6k1/5ppp/8/8/8/8/8/R5K1 b - - 0 1", Ongoing},
		{"back rank mated", "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1", Checkmate},
		{"fools mate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", Checkmate},
		{"queen stalemate", "k7/8/1QK5/8/8/8/8/8 b - - 0 1", Stalemate},
		{"pawn stalemate", "8/8/8/8/8/5k2/5p2/5K2 w - - 0 1", Stalemate},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatal(err)
			}
			if got := pos.Status(); got != tc.want {
				t.Errorf("Status() = %s, want %s", got, tc.want)
			}
			if (tc.want == Ongoing) != (pos.GenerateLegalMoves().Len() > 0) {
				t.Error("Status disagrees with the legal move count")
			}
		})
	}
}

func TestInsufficientMaterial(t *testing.T) {
	tests := []struct {
		fen  string
		want bool
	}{
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", true},
		{"4k3/8/8/8/8/8/8/4KB2 w - - 0 1", true},
		{"4k3/8/8/8/8/8/8/4KN2 w - - 0 1", true},
		{"4kb2/8/8/8/8/8/8/2B1K3 w - - 0 1", true},  // c1 and f8 are both dark
		{"4k1b1/8/8/8/8/8/8/2B1K3 w - - 0 1", false}, // g8 is light
		{"4k3/8/8/8/8/8/8/3NKN2 w - - 0 1", false},
		{"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", false},
		{"4k3/8/8/8/8/8/8/R3K3 w - - 0 1", false},
	}
	for _, tc := range tests {
		pos, err := ParseFEN(tc.fen)
		if err != nil {
			t.Fatal(err)
		}
		if got := pos.IsInsufficientMaterial(); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.fen, got, tc.want)
		}
	}
}
