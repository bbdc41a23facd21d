package engine

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/pawndropper/internal/board"
)

const (
	kiwipeteFEN  = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	position3FEN = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	backRankFEN  = "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"
	hangingFEN   = "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1"
)

func TestSearchTerminalPositions(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		status board.Status
		score  int
	}{
		{"checkmate", "7k/6Q1/5K2/8/8/8/8/8 b - - 0 1", board.Checkmate, -MateScore},
		{"stalemate", "k7/8/1QK5/8/8/8/8/8 b - - 0 1", board.Stalemate, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewSearcher(nil).Search(mustFEN(t, tt.fen), 3)
			assert.Equal(t, board.NoMove, r.Move)
			assert.Equal(t, tt.status, r.Status)
			assert.Equal(t, tt.score, r.Score)
			assert.Empty(t, r.PV)
		})
	}
}

func TestSearchFindsMateInOne(t *testing.T) {
	for depth := 1; depth <= 3; depth++ {
		r := NewSearcher(nil).Search(mustFEN(t, backRankFEN), depth)
		require.Equal(t, "a1a8", r.Move.String(), "depth %d", depth)
		require.Equal(t, MateScore-1, r.Score, "depth %d", depth)
		require.Equal(t, board.Ongoing, r.Status)
	}
}

func TestSearchCapturesHangingQueen(t *testing.T) {
	r := NewSearcher(nil).Search(mustFEN(t, hangingFEN), 2)
	require.Equal(t, "d2d5", r.Move.String())
	require.Greater(t, r.Score, 300)
	require.NotEmpty(t, r.PV)
	require.Equal(t, r.Move, r.PV[0])
}

func TestSearchMatchesExhaustive(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
		short bool
	}{
		{"start", board.StartFEN, 2, true},
		{"start", board.StartFEN, 3, false},
		{"back rank", backRankFEN, 2, true},
		{"back rank", backRankFEN, 3, false},
		{"hanging queen", hangingFEN, 3, true},
		{"position3", position3FEN, 2, true},
		{"position3", position3FEN, 3, false},
		{"italian", "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3", 2, false},
		{"king hunt", "4k3/8/4K3/8/8/8/8/7R w - - 0 1", 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if testing.Short() && !tt.short {
				t.Skip("exhaustive search is slow")
			}
			pos := mustFEN(t, tt.fen)
			pruned := NewSearcher(nil).Search(pos, tt.depth)
			full := NewSearcher(nil).searchExhaustive(pos, tt.depth)

			require.Equal(t, full.Move, pruned.Move, "best move at depth %d", tt.depth)
			require.Equal(t, full.Score, pruned.Score, "score at depth %d", tt.depth)
			require.LessOrEqual(t, pruned.Nodes, full.Nodes)
		})
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	is := is.New(t)
	pos := mustFEN(t, kiwipeteFEN)
	a := NewSearcher(nil).Search(pos, 3)
	b := NewSearcher(nil).Search(pos, 3)
	is.Equal(a.Move, b.Move)
	is.Equal(a.Score, b.Score)
	is.Equal(a.Nodes, b.Nodes)
	is.Equal(pos.FEN(), kiwipeteFEN) // the caller's position is untouched
}

func TestSearchWithTranspositionTable(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(1)
	s := NewSearcher(tt)
	r := s.Search(mustFEN(t, backRankFEN), 3)
	is.Equal(r.Move.String(), "a1a8")
	is.Equal(r.Score, MateScore-1)
	is.True(tt.HashFull() >= 0)
}

func TestQuiescenceTerminates(t *testing.T) {
	fens := []string{kiwipeteFEN, position3FEN, hangingFEN,
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1"}
	const ceiling = 200_000
	for _, fen := range fens {
		s := NewSearcher(nil)
		s.prepare(mustFEN(t, fen), 1)
		score := s.quiescence(0, 0, -Infinity, Infinity)
		assert.Less(t, s.Nodes(), uint64(ceiling), fen)
		assert.Greater(t, score, -Infinity, fen)
		assert.Less(t, score, Infinity, fen)
	}
}

func TestQuiescenceCeiling(t *testing.T) {
	is := is.New(t)
	s := NewSearcher(nil)
	s.prepare(mustFEN(t, kiwipeteFEN), 1)
	score := s.quiescence(0, MaxQuiescencePly, -Infinity, Infinity)
	is.Equal(score, Evaluate(s.pos))
	is.Equal(s.Nodes(), uint64(1))
}

func TestQuiescenceStandPat(t *testing.T) {
	is := is.New(t)
	s := NewSearcher(nil)
	// No captures: quiescence is the static evaluation.
	s.prepare(mustFEN(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"), 1)
	is.Equal(s.quiescence(0, 0, -Infinity, Infinity), Evaluate(s.pos))

	// A free queen is taken.
	s.prepare(mustFEN(t, hangingFEN), 1)
	is.True(s.quiescence(0, 0, -Infinity, Infinity) > Evaluate(s.pos))
}

func TestRepetitionIsDraw(t *testing.T) {
	is := is.New(t)
	s := NewSearcher(nil)
	s.prepare(board.NewPosition(), 1)

	for _, uci := range []string{"g1f3", "g8f6", "f3g1"} {
		m, err := board.ParseUCIMove(uci, s.pos)
		is.NoErr(err)
		s.makeMove(m)
		is.True(!s.isRepetition())
	}
	m, err := board.ParseUCIMove("f6g8", s.pos)
	is.NoErr(err)
	s.makeMove(m)
	is.True(s.isRepetition())
	is.True(s.isDraw(false))
}

func TestRootHistoryRepetition(t *testing.T) {
	is := is.New(t)
	start := board.NewPosition()
	pos := start.Copy()
	var history []uint64
	for _, uci := range []string{"g1f3", "g8f6", "f3g1"} {
		history = append(history, pos.Hash)
		m, err := board.ParseUCIMove(uci, pos)
		is.NoErr(err)
		pos.MakeMove(m)
	}

	// Black to move; Ng8 would repeat the starting position.
	s := NewSearcher(nil)
	s.SetRootHistory(history)
	s.prepare(pos, 1)
	m, err := board.ParseUCIMove("f6g8", s.pos)
	is.NoErr(err)
	s.makeMove(m)
	is.True(s.isRepetition())
}

func TestFiftyMoveRuleScoresDraw(t *testing.T) {
	// Every white move is quiet and completes the hundredth half-move.
	pos := mustFEN(t, "4k3/8/8/8/8/8/8/Q3K3 w - - 99 80")
	for depth := 1; depth <= 2; depth++ {
		r := NewSearcher(nil).Search(pos, depth)
		require.NotEqual(t, board.NoMove, r.Move)
		require.Equal(t, 0, r.Score, "depth %d", depth)
	}
}

func TestCheckmateBeatsFiftyMoveRule(t *testing.T) {
	// Ra8 mates on the hundredth half-move.
	r := NewSearcher(nil).Search(mustFEN(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 99 80"), 1)
	require.Equal(t, "a1a8", r.Move.String())
	require.Equal(t, MateScore-1, r.Score)
}

func TestInsufficientMaterialScoresDraw(t *testing.T) {
	// Taking the last pawn leaves king and knight against king.
	r := NewSearcher(nil).Search(mustFEN(t, "8/8/4k3/3P4/8/8/7N/7K b - - 0 1"), 1)
	require.Equal(t, "e6d5", r.Move.String())
	require.Equal(t, 0, r.Score)
}
