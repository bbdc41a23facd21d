// Package cli runs an interactive game against the engine in a terminal.
package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/hailam/pawndropper/internal/board"
	"github.com/hailam/pawndropper/internal/config"
	"github.com/hailam/pawndropper/internal/engine"
	"github.com/hailam/pawndropper/internal/game"
	"github.com/hailam/pawndropper/internal/storage"
)

const historyFile = "history"

// Session is one terminal session. It may span several games.
type Session struct {
	cfg   *config.Config
	store *storage.Storage // nil when games are not stored
	eng   *engine.Engine
	game  *game.Game
	human board.Color
	name  string
	out   io.Writer

	// recorded is set once the current game has been saved.
	recorded bool
}

// NewSession prepares a game according to cfg. store may be nil.
func NewSession(cfg *config.Config, store *storage.Storage, out io.Writer) (*Session, error) {
	s := &Session{
		cfg:   cfg,
		store: store,
		eng:   engine.NewEngine(cfg.EngineOptions()),
		human: cfg.HumanSide(),
		name:  cfg.Name,
		out:   out,
	}

	if store != nil {
		prefs, err := store.LoadPreferences()
		if err != nil {
			return nil, err
		}
		if s.name == "" {
			s.name = prefs.Username
		}
		prefs.Username = s.name
		prefs.EngineSide = cfg.CPUSide.String()
		prefs.Depth = cfg.Depth
		prefs.MoveTime = cfg.MoveTime
		if err := store.SavePreferences(prefs); err != nil {
			return nil, err
		}
	}
	if s.name == "" {
		s.name = storage.DefaultPreferences().Username
	}

	if err := s.newGame(); err != nil {
		return nil, err
	}
	return s, nil
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// Run reads commands until the user quits or closes the input.
func (s *Session) Run() error {
	rlc := &readline.Config{
		Prompt:              s.prompt(),
		EOFPrompt:           "exit",
		InterruptPrompt:     "^C",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
		AutoComplete:        &completer{s: s},
	}
	if !s.cfg.NoStore && s.cfg.DataDir != "" {
		rlc.HistoryFile = filepath.Join(s.cfg.DataDir, historyFile)
	}
	l, err := readline.NewEx(rlc)
	if err != nil {
		return fmt.Errorf("cli: %w", err)
	}
	defer l.Close()
	s.out = l.Stdout()

	s.Start()
	for {
		l.SetPrompt(s.prompt())
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		if s.handleLine(line) {
			break
		}
	}
	log.Debug().Msg("exiting readline loop")
	return nil
}

// Start shows the board and lets the engine move when it is on turn.
func (s *Session) Start() {
	if s.store != nil {
		if first, err := s.store.IsFirstLaunch(); err == nil && first {
			showMessage(fmt.Sprintf("Welcome, %s. Type 'help' for the list of commands.", s.name), s.out)
			if err := s.store.MarkFirstLaunchComplete(); err != nil {
				log.Error().Err(err).Msg("marking first launch")
			}
		}
	}
	showMessage(fmt.Sprintf("You play %s.", s.human), s.out)
	s.showBoard()
	s.engineTurn()
}

// prompt is "move N> " when white is to move and "move ..N> " otherwise.
func (s *Session) prompt() string {
	if s.game.SideToMove() == board.White {
		return fmt.Sprintf("move %d> ", s.game.MoveNumber())
	}
	return fmt.Sprintf("move ..%d> ", s.game.MoveNumber())
}

func (s *Session) newGame() error {
	fen := s.cfg.FEN
	if fen == "" {
		fen = board.StartFEN
	}
	g, err := game.FromFEN(fen)
	if err != nil {
		return err
	}
	s.game = g
	s.recorded = false
	s.eng.Clear()
	return nil
}

// handleLine executes one line of input and reports whether to quit.
func (s *Session) handleLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch cmd := strings.ToLower(fields[0]); cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		showMessage(helpText, s.out)
	case "board", "b":
		s.showBoard()
	case "moves":
		sans := s.game.LegalSANs()
		if len(sans) == 0 {
			showMessage("No legal moves.", s.out)
		} else {
			showMessage(strings.Join(sans, " "), s.out)
		}
	case "fen":
		showMessage(s.game.Position().FEN(), s.out)
	case "pgn", "history":
		s.showPGN()
	case "eval":
		score := s.eng.Evaluate(s.game.Position())
		showMessage(fmt.Sprintf("Static evaluation for %s: %s", s.game.SideToMove(), engine.ScoreToString(score)), s.out)
	case "undo":
		s.undo()
	case "new":
		s.startNew(fields[1:])
	case "stats":
		s.showStats()
	case "games":
		s.showGames()
	default:
		s.humanMove(fields[0])
	}
	return false
}

func (s *Session) humanMove(text string) {
	if s.game.Outcome().IsOver() {
		showMessage("The game is over. Type 'new' to play again.", s.out)
		return
	}
	if s.game.SideToMove() != s.human {
		showMessage("It is not your turn.", s.out)
		return
	}

	_, outcome, err := s.game.PlaySAN(text)
	switch {
	case errors.Is(err, board.ErrAmbiguousMove):
		showMessage(fmt.Sprintf("Ambiguous move: %s", text), s.out)
		return
	case errors.Is(err, board.ErrIllegalMove):
		showMessage(fmt.Sprintf("Illegal move: %s", text), s.out)
		showMessage("Legal moves: "+strings.Join(s.game.LegalSANs(), " "), s.out)
		return
	case err != nil:
		showMessage(err.Error(), s.out)
		return
	}

	s.showBoard()
	if s.finish(outcome) {
		return
	}
	s.engineTurn()
}

// engineTurn searches and plays the engine's move when it is on turn.
func (s *Session) engineTurn() {
	if s.game.Outcome().IsOver() || s.game.SideToMove() == s.human {
		return
	}

	s.eng.SetHistory(s.game.History())
	start := time.Now()
	r := s.eng.Search(s.game.Position(), s.cfg.Limits())
	elapsed := time.Since(start)
	if r.Move == board.NoMove {
		return
	}

	pos := s.game.Position()
	san := r.Move.SAN(pos)
	outcome, err := s.game.Play(r.Move)
	if err != nil {
		log.Error().Err(err).Str("move", r.Move.String()).Msg("engine produced an unplayable move")
		return
	}
	log.Info().
		Str("move", san).
		Str("score", engine.ScoreToString(r.Score)).
		Int("depth", r.Depth).
		Uint64("nodes", r.Nodes).
		Dur("elapsed", elapsed).
		Msg("engine move")

	showMessage(fmt.Sprintf("Engine plays %s (%s, depth %d, %d nodes, %s)",
		san, engine.ScoreToString(r.Score), r.Depth, r.Nodes, elapsed.Round(time.Millisecond)), s.out)
	s.showBoard()
	s.finish(outcome)
}

// finish announces a finished game and records it. It reports whether the
// game is over.
func (s *Session) finish(outcome game.Outcome) bool {
	switch {
	case outcome == game.Check:
		showMessage("Check.", s.out)
		return false
	case !outcome.IsOver():
		return false
	case outcome == game.Checkmate && s.game.Winner() == s.human:
		showMessage("Checkmate: you win.", s.out)
	case outcome == game.Checkmate:
		showMessage("Checkmate: the engine wins.", s.out)
	default:
		showMessage(fmt.Sprintf("Draw: %s.", outcome), s.out)
	}
	showMessage(fmt.Sprintf("%s %s", s.game.MoveText(), s.game.Result()), s.out)
	s.record()
	return true
}

func (s *Session) record() {
	if s.store == nil || s.recorded {
		return
	}
	s.recorded = true

	rec := s.game.Record()
	rec.EngineSide = s.cfg.CPUSide.String()
	rec.Depth = s.cfg.Depth
	if err := s.store.SaveGame(rec); err != nil {
		log.Error().Err(err).Msg("saving game")
	}
	stats, err := s.store.RecordResult(s.game.PlayerResult(s.human))
	if err != nil {
		log.Error().Err(err).Msg("recording result")
		return
	}
	showMessage(formatStats(s.name, stats), s.out)
}

// undo takes back moves until the human is on turn again.
func (s *Session) undo() {
	if s.recorded {
		showMessage("The game is over. Type 'new' to play again.", s.out)
		return
	}
	if _, err := s.game.Undo(); err != nil {
		showMessage("Nothing to undo.", s.out)
		return
	}
	if s.game.SideToMove() != s.human {
		if _, err := s.game.Undo(); err != nil {
			// The engine made the first move; let it choose again.
			s.showBoard()
			s.engineTurn()
			return
		}
	}
	s.showBoard()
}

func (s *Session) startNew(args []string) {
	if len(args) > 0 {
		side, ok := board.ParseColor(strings.ToLower(args[0]))
		if !ok {
			showMessage("Usage: new [white|black]", s.out)
			return
		}
		s.human = side
		s.cfg.CPUSide = side.Other()
	}
	if err := s.newGame(); err != nil {
		showMessage(err.Error(), s.out)
		return
	}
	showMessage(fmt.Sprintf("New game. You play %s.", s.human), s.out)
	s.showBoard()
	s.engineTurn()
}

func (s *Session) showBoard() {
	var last board.Move
	if moves := s.game.Moves(); len(moves) > 0 {
		last = moves[len(moves)-1].Move
	}
	showMessage(renderBoard(s.game.Position(), s.human, last), s.out)
}

func (s *Session) showPGN() {
	white, black := s.name, "pawndropper"
	if s.human == board.Black {
		white, black = black, white
	}
	showMessage(fmt.Sprintf("[White %q]\n[Black %q]\n[Result %q]", white, black, s.game.Result()), s.out)
	if start := s.cfg.FEN; start != "" {
		showMessage(fmt.Sprintf("[FEN %q]", start), s.out)
	}
	text := s.game.MoveText()
	if text == "" {
		text = "(no moves)"
	}
	showMessage(text+" "+s.game.Result(), s.out)
}

func (s *Session) showStats() {
	if s.store == nil {
		showMessage("Statistics are not stored in this session.", s.out)
		return
	}
	stats, err := s.store.LoadStats()
	if err != nil {
		showMessage(err.Error(), s.out)
		return
	}
	showMessage(formatStats(s.name, stats), s.out)
}

func (s *Session) showGames() {
	if s.store == nil {
		showMessage("Games are not stored in this session.", s.out)
		return
	}
	games, err := s.store.ListGames(10)
	if err != nil {
		showMessage(err.Error(), s.out)
		return
	}
	if len(games) == 0 {
		showMessage("No games played yet.", s.out)
		return
	}
	for _, g := range games {
		showMessage(fmt.Sprintf("%s  %-7s  %-22s  engine %-5s  %d moves",
			g.FinishedAt.Format("2006-01-02 15:04"), g.Result, g.Outcome, g.EngineSide, len(g.Moves)), s.out)
	}
}

func formatStats(name string, st *storage.GameStats) string {
	return fmt.Sprintf("%s: %d games, %d wins, %d losses, %d draws (%.0f%%), best streak %d",
		name, st.GamesPlayed, st.Wins, st.Losses, st.Draws, st.WinRate(), st.LongestWinStreak)
}

const helpText = `Enter a move in SAN (Nf3, exd5, O-O, e8=Q) or coordinates (g1f3).
Commands:
  moves            list the legal moves
  board            show the board
  undo             take back your last move
  new [white|black] start a new game, optionally switching sides
  fen              print the position as FEN
  pgn              print the moves played
  eval             static evaluation of the position
  stats            your results against the engine
  games            recently finished games
  quit             leave`
