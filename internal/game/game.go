// Package game keeps the state of one game: the position, the moves played
// and the position history needed for repetition draws.
package game

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/hailam/pawndropper/internal/board"
	"github.com/hailam/pawndropper/internal/storage"
)

var (
	// ErrGameOver means a move was attempted after the game ended.
	ErrGameOver = errors.New("game is over")
	// ErrNothingToUndo means no move has been played yet.
	ErrNothingToUndo = errors.New("nothing to undo")
)

// PlayedMove is a move together with its SAN in the position it was played.
type PlayedMove struct {
	Move board.Move
	SAN  string

	undo board.UndoInfo
}

// Game is a sequence of moves from a starting position.
type Game struct {
	pos      *board.Position
	startFEN string
	moves    []PlayedMove

	// hashes[i] is the position before moves[i].
	hashes []uint64

	outcome   Outcome
	startedAt time.Time
}

// New starts a game from the standard starting position.
func New() *Game {
	g, err := FromFEN(board.StartFEN)
	if err != nil {
		panic(err)
	}
	return g
}

// FromFEN starts a game from a FEN position.
func FromFEN(fen string) (*Game, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	g := &Game{
		pos:       pos,
		startFEN:  pos.FEN(),
		startedAt: time.Now(),
	}
	g.outcome = outcomeOf(pos, 1)
	return g, nil
}

// Position returns a copy of the current position.
func (g *Game) Position() *board.Position { return g.pos.Copy() }

// SideToMove returns the color to move.
func (g *Game) SideToMove() board.Color { return g.pos.SideToMove }

// MoveNumber returns the full-move number of the current position.
func (g *Game) MoveNumber() int { return g.pos.FullMoveNumber }

// Outcome returns the state of the current position.
func (g *Game) Outcome() Outcome { return g.outcome }

// Moves returns the moves played so far.
func (g *Game) Moves() []PlayedMove { return g.moves }

// SANs returns the SAN of every move played so far.
func (g *Game) SANs() []string {
	return lo.Map(g.moves, func(pm PlayedMove, _ int) string { return pm.SAN })
}

// History returns the hashes of the positions before the current one,
// oldest first.
func (g *Game) History() []uint64 {
	return append([]uint64(nil), g.hashes...)
}

// LegalMoves returns the legal moves in the current position.
func (g *Game) LegalMoves() []board.Move {
	if g.outcome.IsOver() {
		return nil
	}
	return append([]board.Move(nil), g.pos.GenerateLegalMoves().Slice()...)
}

// LegalSANs returns the legal moves in SAN, sorted.
func (g *Game) LegalSANs() []string {
	sans := lo.Map(g.LegalMoves(), func(m board.Move, _ int) string { return m.SAN(g.pos) })
	slices.Sort(sans)
	return sans
}

// repetitions counts the occurrences of the current position.
func (g *Game) repetitions() int {
	return 1 + lo.Count(g.hashes, g.pos.Hash)
}

// Play applies m if it is legal. The position is unchanged on error.
func (g *Game) Play(m board.Move) (Outcome, error) {
	if g.outcome.IsOver() {
		return g.outcome, fmt.Errorf("%w: %s", ErrGameOver, g.outcome)
	}
	if !g.pos.GenerateLegalMoves().Contains(m) {
		return g.outcome, fmt.Errorf("%w: %s", board.ErrIllegalMove, m)
	}

	san := m.SAN(g.pos)
	g.hashes = append(g.hashes, g.pos.Hash)
	undo := g.pos.MakeMove(m)
	g.moves = append(g.moves, PlayedMove{Move: m, SAN: san, undo: undo})
	g.outcome = outcomeOf(g.pos, g.repetitions())

	if g.outcome.IsOver() {
		log.Info().
			Str("outcome", g.outcome.String()).
			Str("result", g.Result()).
			Int("moves", len(g.moves)).
			Msg("game over")
	}
	return g.outcome, nil
}

// PlaySAN parses s in the current position and plays it.
func (g *Game) PlaySAN(s string) (board.Move, Outcome, error) {
	if g.outcome.IsOver() {
		return board.NoMove, g.outcome, fmt.Errorf("%w: %s", ErrGameOver, g.outcome)
	}
	m, err := board.ParseSAN(s, g.pos)
	if err != nil {
		return board.NoMove, g.outcome, err
	}
	outcome, err := g.Play(m)
	return m, outcome, err
}

// Undo takes back the last move.
func (g *Game) Undo() (board.Move, error) {
	n := len(g.moves)
	if n == 0 {
		return board.NoMove, ErrNothingToUndo
	}
	last := g.moves[n-1]
	g.pos.UnmakeMove(last.Move, last.undo)
	g.moves = g.moves[:n-1]
	g.hashes = g.hashes[:n-1]
	g.outcome = outcomeOf(g.pos, g.repetitions())
	return last.Move, nil
}

// Winner returns the winning color, or NoColor when the game is not won.
func (g *Game) Winner() board.Color {
	if g.outcome != Checkmate {
		return board.NoColor
	}
	return g.pos.SideToMove.Other()
}

// Result returns the PGN result tag: "1-0", "0-1", "1/2-1/2" or "*".
func (g *Game) Result() string {
	switch {
	case g.outcome == Checkmate && g.Winner() == board.White:
		return "1-0"
	case g.outcome == Checkmate:
		return "0-1"
	case g.outcome.IsDraw():
		return "1/2-1/2"
	}
	return "*"
}

// PlayerResult scores a finished game for the player of color human.
func (g *Game) PlayerResult(human board.Color) storage.PlayerResult {
	switch g.Winner() {
	case human:
		return storage.PlayerWin
	case board.NoColor:
		return storage.PlayerDraw
	}
	return storage.PlayerLoss
}

// MoveText renders the moves as numbered SAN, e.g. "1. e4 e5 2. Nf3".
func (g *Game) MoveText() string {
	start, err := board.ParseFEN(g.startFEN)
	if err != nil {
		panic(err)
	}
	num, color := start.FullMoveNumber, start.SideToMove

	var sb strings.Builder
	for i, pm := range g.moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch {
		case color == board.White:
			sb.WriteString(strconv.Itoa(num) + ". ")
		case i == 0:
			sb.WriteString(strconv.Itoa(num) + "... ")
		}
		sb.WriteString(pm.SAN)
		if color == board.Black {
			num++
		}
		color = color.Other()
	}
	return sb.String()
}

// Record returns the game in its storable form.
func (g *Game) Record() *storage.GameRecord {
	return &storage.GameRecord{
		StartFEN:   g.startFEN,
		FinalFEN:   g.pos.FEN(),
		Moves:      g.SANs(),
		Result:     g.Result(),
		Outcome:    g.outcome.String(),
		StartedAt:  g.startedAt,
		FinishedAt: time.Now(),
	}
}
