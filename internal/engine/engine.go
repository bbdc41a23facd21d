package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/hailam/pawndropper/internal/board"
)

const (
	// DefaultDepth is used when Limits.Depth is not set.
	DefaultDepth = 5
	// MaxDepth caps the iterative deepening loop.
	MaxDepth = MaxPly / 4
)

// SearchInfo contains information about one finished iteration.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // Permille of hash table used
}

// Limits specifies constraints on the search.
type Limits struct {
	Depth    int           // Maximum depth (0 = DefaultDepth)
	MoveTime time.Duration // Time for this move (0 = no limit)
}

// Options configures an Engine.
type Options struct {
	// UseTT enables the per-search transposition table.
	UseTT    bool
	TTSizeMB int
}

// Engine chooses moves by iterative deepening.
type Engine struct {
	searcher *Searcher
	tt       *TranspositionTable
	tm       *TimeManager
	history  []uint64

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine.
func NewEngine(opts Options) *Engine {
	var tt *TranspositionTable
	if opts.UseTT {
		tt = NewTranspositionTable(opts.TTSizeMB)
	}
	return &Engine{
		searcher: NewSearcher(tt),
		tt:       tt,
		tm:       NewTimeManager(),
	}
}

// SetHistory sets the hashes of the game positions before the one that
// will be searched, oldest first.
func (e *Engine) SetHistory(hashes []uint64) {
	e.history = append(e.history[:0], hashes...)
}

// Search deepens from depth 1 to limits.Depth and returns the result of the
// last completed iteration. Depth 1 always completes; deeper iterations are
// abandoned when limits.MoveTime runs out.
func (e *Engine) Search(pos *board.Position, limits Limits) Result {
	maxDepth := limits.Depth
	if maxDepth <= 0 {
		maxDepth = DefaultDepth
	}
	maxDepth = min(maxDepth, MaxDepth)

	e.tm.Init(limits)
	if e.tt != nil {
		e.tt.NewSearch()
	}
	e.searcher.SetRootHistory(e.history)

	var best Result
	var nodes uint64
	for depth := 1; depth <= maxDepth; depth++ {
		if depth == 1 {
			e.searcher.SetDeadline(time.Time{})
		} else {
			e.searcher.SetDeadline(e.tm.Deadline())
		}

		r := e.searcher.Search(pos, depth)
		nodes += r.Nodes
		if r.Aborted {
			log.Debug().Int("depth", depth).Dur("elapsed", e.tm.Elapsed()).Msg("iteration abandoned")
			break
		}
		best = r

		if best.Move == board.NoMove {
			break
		}

		info := SearchInfo{
			Depth: depth,
			Score: r.Score,
			Nodes: nodes,
			Time:  e.tm.Elapsed(),
			PV:    r.PV,
		}
		if e.tt != nil {
			info.HashFull = e.tt.HashFull()
		}
		log.Debug().
			Int("depth", depth).
			Str("score", ScoreToString(r.Score)).
			Uint64("nodes", nodes).
			Dur("elapsed", info.Time).
			Str("pv", FormatPV(r.PV)).
			Msg("iteration")
		if e.OnInfo != nil {
			e.OnInfo(info)
		}

		if IsMateScore(r.Score) || e.tm.ShouldStop() || !e.tm.CanStartIteration() {
			break
		}
	}

	best.Nodes = nodes
	return best
}

// Clear clears the transposition table and move ordering state.
func (e *Engine) Clear() {
	if e.tt != nil {
		e.tt.Clear()
	}
	e.searcher.orderer.Clear()
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString renders a score in pawns, or as a mate distance in moves.
func ScoreToString(score int) string {
	switch {
	case score > MateScore-MaxPly:
		return fmt.Sprintf("#%d", (MateScore-score+1)/2)
	case score < -MateScore+MaxPly:
		return fmt.Sprintf("#-%d", (MateScore+score+1)/2)
	}
	sign := "+"
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}

// FormatPV joins a line of moves in UCI notation.
func FormatPV(pv []board.Move) string {
	return strings.Join(lo.Map(pv, func(m board.Move, _ int) string { return m.String() }), " ")
}
