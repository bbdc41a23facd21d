package engine

import (
	"os"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hailam/pawndropper/internal/board"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestSearchBasic(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(Options{})

	var depths []int
	eng.OnInfo = func(info SearchInfo) {
		depths = append(depths, info.Depth)
	}

	r := eng.Search(pos, Limits{Depth: 3})
	require.NotEqual(t, board.NoMove, r.Move)
	require.True(t, pos.IsLegal(r.Move), "best move %s is not legal", r.Move)
	require.Equal(t, 3, r.Depth)
	require.Equal(t, []int{1, 2, 3}, depths)
	require.Equal(t, board.StartFEN, pos.FEN())
}

func TestEngineDefaultDepth(t *testing.T) {
	is := is.New(t)
	eng := NewEngine(Options{})
	r := eng.Search(mustFEN(t, "4k3/8/4K3/8/8/8/8/7R w - - 0 1"), Limits{})
	is.Equal(r.Move.String(), "h1h8")
	is.Equal(r.Depth, 1) // a mate stops the deepening
}

func TestEngineMoveTimeCompletesDepthOne(t *testing.T) {
	is := is.New(t)
	eng := NewEngine(Options{})
	r := eng.Search(mustFEN(t, kiwipeteFEN), Limits{Depth: 20, MoveTime: time.Nanosecond})
	is.True(r.Move != board.NoMove)
	is.Equal(r.Depth, 1)
}

func TestEngineWithTranspositionTable(t *testing.T) {
	is := is.New(t)
	eng := NewEngine(Options{UseTT: true, TTSizeMB: 1})
	r := eng.Search(mustFEN(t, hangingFEN), Limits{Depth: 4})
	is.Equal(r.Move.String(), "d2d5")

	r = eng.Search(mustFEN(t, backRankFEN), Limits{Depth: 4})
	is.Equal(r.Move.String(), "a1a8")
	is.Equal(r.Score, MateScore-1)
	eng.Clear()
}

func TestEngineNoLegalMoves(t *testing.T) {
	is := is.New(t)
	r := NewEngine(Options{}).Search(mustFEN(t, "k7/8/1QK5/8/8/8/8/8 b - - 0 1"), Limits{Depth: 4})
	is.Equal(r.Move, board.NoMove)
	is.Equal(r.Status, board.Stalemate)
}

func TestEngineAvoidsRepetitionWhenWinning(t *testing.T) {
	is := is.New(t)
	// White is a queen up. After Qa1-a2 Ke8-d8 Qa2-a1 Kd8-e8 the position
	// repeats, so playing Qa2 again scores as a draw.
	start := mustFEN(t, "4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")
	pos := start.Copy()
	var history []uint64
	for _, uci := range []string{"a1a2", "e8d8", "a2a1", "d8e8"} {
		history = append(history, pos.Hash)
		m, err := board.ParseUCIMove(uci, pos)
		is.NoErr(err)
		pos.MakeMove(m)
	}
	is.Equal(pos.Hash, start.Hash)

	eng := NewEngine(Options{})
	eng.SetHistory(history)
	r := eng.Search(pos, Limits{Depth: 1})
	is.True(r.Move.String() != "a1a2")
	is.True(r.Score > 0)
}

func TestScoreToString(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "+0.00"},
		{35, "+0.35"},
		{-150, "-1.50"},
		{MateScore - 1, "#1"},
		{MateScore - 3, "#2"},
		{-MateScore + 2, "#-1"},
	}
	for _, tt := range tests {
		if got := ScoreToString(tt.score); got != tt.want {
			t.Errorf("ScoreToString(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestFormatPV(t *testing.T) {
	is := is.New(t)
	pv := []board.Move{
		board.NewMove(board.E2, board.E4, board.DoublePawnPush),
		board.NewMove(board.E7, board.E5, board.DoublePawnPush),
	}
	is.Equal(FormatPV(pv), "e2e4 e7e5")
	is.Equal(FormatPV(nil), "")
}
