package board

import (
	"sort"
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/require"
)

// oracleMoves lists the legal moves of fen according to notnil/chess.
func oracleMoves(t *testing.T, fen string) []string {
	t.Helper()
	opt, err := chess.FEN(fen)
	require.NoError(t, err, fen)
	var out []string
	for _, m := range chess.NewGame(opt).ValidMoves() {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func ourMoves(pos *Position) []string {
	var out []string
	for _, m := range pos.GenerateLegalMoves().Slice() {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

// TestLegalMovesMatchOracle compares legal move sets with an independent
// implementation on the test positions and on every position one move
// away from them.
func TestLegalMovesMatchOracle(t *testing.T) {
	for _, fen := range roundTripFENs {
		pos, err := ParseFEN(fen)
		require.NoError(t, err)
		require.Equal(t, oracleMoves(t, fen), ourMoves(pos), fen)

		for _, m := range pos.GenerateLegalMoves().Slice() {
			undo := pos.MakeMove(m)
			child := pos.FEN()
			require.Equal(t, oracleMoves(t, child), ourMoves(pos), "%s after %s", fen, m)
			pos.UnmakeMove(m, undo)
		}
	}
}
