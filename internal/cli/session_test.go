package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/pawndropper/internal/board"
	"github.com/hailam/pawndropper/internal/config"
	"github.com/hailam/pawndropper/internal/storage"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func testConfig(cpu board.Color, fen string) *config.Config {
	return &config.Config{
		CPUSide:   cpu,
		Depth:     2,
		TTSizeMB:  1,
		LogFormat: "console",
		FEN:       fen,
	}
}

func newSession(t *testing.T, cfg *config.Config, withStore bool) (*Session, *bytes.Buffer, *storage.Storage) {
	t.Helper()
	var store *storage.Storage
	if withStore {
		var err error
		store, err = storage.Open("")
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
	}
	var out bytes.Buffer
	s, err := NewSession(cfg, store, &out)
	require.NoError(t, err)
	return s, &out, store
}

func TestHumanMoveAndEngineReply(t *testing.T) {
	s, out, _ := newSession(t, testConfig(board.Black, ""), false)
	s.Start()
	assert.Contains(t, out.String(), "You play white.")
	assert.Empty(t, s.game.Moves())
	assert.Equal(t, "move 1> ", s.prompt())

	assert.False(t, s.handleLine("e4"))
	require.Len(t, s.game.Moves(), 2)
	assert.Equal(t, "e4", s.game.SANs()[0])
	assert.Contains(t, out.String(), "Engine plays")
	assert.Equal(t, "move 2> ", s.prompt())
}

func TestEngineOpensAsWhite(t *testing.T) {
	s, out, _ := newSession(t, testConfig(board.White, ""), false)
	s.Start()
	require.Len(t, s.game.Moves(), 1)
	assert.Equal(t, board.Black, s.game.SideToMove())
	assert.Equal(t, "move ..1> ", s.prompt())
	assert.Contains(t, out.String(), "You play black.")
}

func TestIllegalMove(t *testing.T) {
	s, out, _ := newSession(t, testConfig(board.Black, ""), false)
	s.handleLine("e5")
	assert.Empty(t, s.game.Moves())
	assert.Contains(t, out.String(), "Illegal move: e5")
	assert.Contains(t, out.String(), "Nf3")

	out.Reset()
	s.handleLine("hello")
	assert.Contains(t, out.String(), "Illegal move: hello")
}

func TestCommands(t *testing.T) {
	s, out, _ := newSession(t, testConfig(board.Black, ""), false)

	s.handleLine("moves")
	assert.Contains(t, out.String(), "Nf3")
	assert.Contains(t, out.String(), "e4")

	out.Reset()
	s.handleLine("fen")
	assert.Equal(t, board.StartFEN+"\n", out.String())

	out.Reset()
	s.handleLine("help")
	assert.Contains(t, out.String(), "Commands:")

	out.Reset()
	s.handleLine("eval")
	assert.Contains(t, out.String(), "+0.00")

	out.Reset()
	s.handleLine("stats")
	assert.Contains(t, out.String(), "not stored")

	out.Reset()
	s.handleLine("   ")
	assert.Empty(t, out.String())

	assert.True(t, s.handleLine("quit"))
	assert.True(t, s.handleLine("EXIT"))
}

func TestUndo(t *testing.T) {
	s, out, _ := newSession(t, testConfig(board.Black, ""), false)
	s.handleLine("undo")
	assert.Contains(t, out.String(), "Nothing to undo.")

	s.handleLine("d4")
	require.Len(t, s.game.Moves(), 2)
	s.handleLine("undo")
	assert.Empty(t, s.game.Moves())
	assert.Equal(t, board.StartFEN, s.game.Position().FEN())
}

func TestUndoFirstEngineMove(t *testing.T) {
	s, _, _ := newSession(t, testConfig(board.White, ""), false)
	s.Start()
	require.Len(t, s.game.Moves(), 1)

	// Nothing of the human's to take back: the engine moves again.
	s.handleLine("undo")
	assert.Len(t, s.game.Moves(), 1)
	assert.Equal(t, board.Black, s.game.SideToMove())
}

func TestHumanWinIsRecorded(t *testing.T) {
	cfg := testConfig(board.Black, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	cfg.Name = "ada"
	s, out, store := newSession(t, cfg, true)

	s.handleLine("Ra8#")
	assert.True(t, s.game.Outcome().IsOver())
	assert.Contains(t, out.String(), "Checkmate: you win.")
	assert.Contains(t, out.String(), "1. Ra8# 1-0")

	stats, err := store.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.GamesPlayed)
	assert.Equal(t, 1, stats.Wins)

	games, err := store.ListGames(0)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "black", games[0].EngineSide)
	assert.Equal(t, []string{"Ra8#"}, games[0].Moves)
	assert.Equal(t, "checkmate", games[0].Outcome)

	prefs, err := store.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, "ada", prefs.Username)
	assert.Equal(t, 2, prefs.Depth)

	out.Reset()
	s.handleLine("a3")
	assert.Contains(t, out.String(), "The game is over.")
	s.handleLine("undo")
	assert.Len(t, s.game.Moves(), 1)

	out.Reset()
	s.handleLine("games")
	assert.Contains(t, out.String(), "checkmate")

	out.Reset()
	s.handleLine("stats")
	assert.Contains(t, out.String(), "ada: 1 games, 1 wins")

	s.handleLine("new")
	assert.Empty(t, s.game.Moves())
	assert.False(t, s.game.Outcome().IsOver())
}

func TestNewGameSwitchesSides(t *testing.T) {
	s, out, _ := newSession(t, testConfig(board.Black, ""), false)
	s.handleLine("new black")
	assert.Equal(t, board.Black, s.human)
	require.Len(t, s.game.Moves(), 1)
	assert.Contains(t, out.String(), "New game. You play black.")

	out.Reset()
	s.handleLine("new purple")
	assert.Contains(t, out.String(), "Usage: new")
}

func TestFirstLaunchWelcome(t *testing.T) {
	s, out, store := newSession(t, testConfig(board.Black, ""), true)
	s.Start()
	assert.Contains(t, out.String(), "Welcome, Player.")

	first, err := store.IsFirstLaunch()
	require.NoError(t, err)
	assert.False(t, first)
}

func TestRenderBoard(t *testing.T) {
	pos, err := board.ParseFEN(board.StartFEN)
	require.NoError(t, err)

	white := strings.Split(renderBoard(pos, board.White, board.NoMove), "\n")
	assert.Equal(t, "  8 r  n  b  q  k  b  n  r ", white[0])
	assert.Equal(t, "  1 R  N  B  Q  K  B  N  R ", white[7])
	assert.Equal(t, "    a  b  c  d  e  f  g  h ", white[8])

	black := strings.Split(renderBoard(pos, board.Black, board.NoMove), "\n")
	assert.Equal(t, "  1 R  N  B  K  Q  B  N  R ", black[0])
	assert.Equal(t, "    h  g  f  e  d  c  b  a ", black[8])

	m, err := board.ParseUCIMove("e2e4", pos)
	require.NoError(t, err)
	pos.MakeMove(m)
	marked := renderBoard(pos, board.White, m)
	assert.Contains(t, marked, "[P]")
	assert.Contains(t, marked, "[.]")
}

func TestCompleter(t *testing.T) {
	s, _, _ := newSession(t, testConfig(board.Black, ""), false)
	c := &completer{s: s}

	got, n := c.Do([]rune("Nf"), 2)
	assert.Equal(t, 2, n)
	assert.Equal(t, [][]rune{[]rune("3")}, got)

	got, n = c.Do([]rune("und"), 3)
	assert.Equal(t, 3, n)
	assert.Equal(t, [][]rune{[]rune("o")}, got)

	got, n = c.Do([]rune("new b"), 5)
	assert.Equal(t, 1, n)
	assert.Equal(t, [][]rune{[]rune("lack")}, got)
}
