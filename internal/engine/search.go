package engine

import (
	"time"

	"github.com/hailam/pawndropper/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128

	// MaxQuiescencePly bounds how far quiescence may run past the horizon.
	MaxQuiescencePly = 32
)

// IsMateScore reports whether score encodes a forced mate for either side.
func IsMateScore(score int) bool {
	return score > MateScore-MaxPly || score < -MateScore+MaxPly
}

// PVTable stores the principal variation.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// update makes m followed by the child's line the PV at ply.
func (pv *PVTable) update(ply int, m board.Move) {
	pv.moves[ply][ply] = m
	for i := ply + 1; i < pv.length[ply+1]; i++ {
		pv.moves[ply][i] = pv.moves[ply+1][i]
	}
	pv.length[ply] = max(pv.length[ply+1], ply+1)
}

// Result is the outcome of searching one position to a fixed depth.
type Result struct {
	// Move is NoMove exactly when the side to move has no legal move.
	Move   board.Move
	Score  int
	Depth  int
	Nodes  uint64
	PV     []board.Move
	Status board.Status

	// Aborted is set when the deadline cut the root move loop short.
	Aborted bool
}

// nodeFunc searches the position below a root move.
type nodeFunc func(depth, ply, alpha, beta int) int

// Searcher performs the alpha-beta search on its own copy of the position.
type Searcher struct {
	pos     *board.Position
	orderer *MoveOrderer
	tt      *TranspositionTable

	nodes uint64
	pv    PVTable

	// Hashes of the game before the root, then the root and the current
	// search path.
	rootHistory []uint64
	path        []uint64

	rootDepth int
	deadline  time.Time
	aborted   bool
}

// NewSearcher creates a new searcher. tt may be nil.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{
		orderer: NewMoveOrderer(),
		tt:      tt,
		path:    make([]uint64, 0, 256),
	}
}

// SetRootHistory sets the hashes of the positions played before the root,
// oldest first, so repetitions of game positions are scored as draws.
func (s *Searcher) SetRootHistory(hashes []uint64) {
	s.rootHistory = append(s.rootHistory[:0], hashes...)
}

// SetDeadline makes the root loop stop before its next move once t has
// passed. The zero time disables the deadline.
func (s *Searcher) SetDeadline(t time.Time) {
	s.deadline = t
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// GetPV returns the principal variation from the last search.
func (s *Searcher) GetPV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	copy(pv, s.pv.moves[0][:s.pv.length[0]])
	return pv
}

// Search runs a fixed-depth alpha-beta search. It does not clear the
// transposition table.
func (s *Searcher) Search(pos *board.Position, depth int) Result {
	depth = max(depth, 1)
	s.prepare(pos, depth)
	move, score := s.searchRoot(depth, s.negamax)
	return s.result(move, score, depth)
}

// searchExhaustive visits the full tree with the same rules as Search but
// without pruning or the transposition table.
func (s *Searcher) searchExhaustive(pos *board.Position, depth int) Result {
	depth = max(depth, 1)
	tt := s.tt
	s.tt = nil
	defer func() { s.tt = tt }()

	s.prepare(pos, depth)
	move, score := s.searchRoot(depth, s.minimax)
	return s.result(move, score, depth)
}

func (s *Searcher) prepare(pos *board.Position, depth int) {
	s.pos = pos.Copy()
	s.nodes = 0
	s.aborted = false
	s.rootDepth = depth
	s.orderer.Clear()
	s.path = append(s.path[:0], s.rootHistory...)
	s.path = append(s.path, s.pos.Hash)
}

func (s *Searcher) result(move board.Move, score, depth int) Result {
	r := Result{
		Move:    move,
		Score:   score,
		Depth:   depth,
		Nodes:   s.nodes,
		PV:      s.GetPV(),
		Aborted: s.aborted,
	}
	if move == board.NoMove {
		r.Status = s.pos.Status()
	}
	return r
}

func (s *Searcher) pastDeadline() bool {
	return !s.deadline.IsZero() && time.Now().After(s.deadline)
}

func (s *Searcher) makeMove(m board.Move) board.UndoInfo {
	undo := s.pos.MakeMove(m)
	s.path = append(s.path, s.pos.Hash)
	return undo
}

func (s *Searcher) unmakeMove(m board.Move, undo board.UndoInfo) {
	s.path = s.path[:len(s.path)-1]
	s.pos.UnmakeMove(m, undo)
}

// searchRoot scores every root move with child. A move only replaces the
// best one when it scores strictly higher.
func (s *Searcher) searchRoot(depth int, child nodeFunc) (board.Move, int) {
	s.pv.length[0] = 0
	s.nodes++

	moves := s.pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		if s.pos.InCheck() {
			return board.NoMove, -MateScore
		}
		return board.NoMove, 0
	}

	ttMove := board.NoMove
	if s.tt != nil {
		if entry, ok := s.tt.Probe(s.pos.Hash); ok {
			ttMove = entry.BestMove
		}
	}
	scores := s.orderer.ScoreMoves(s.pos, moves, 0, ttMove)

	bestMove, best := board.NoMove, -Infinity
	alpha, beta := -Infinity, Infinity
	for i := 0; i < moves.Len(); i++ {
		if i > 0 && s.pastDeadline() {
			s.aborted = true
			break
		}
		PickMove(moves, scores, i)
		m := moves.Get(i)

		undo := s.makeMove(m)
		score := -child(depth-1, 1, -beta, -alpha)
		s.unmakeMove(m, undo)

		if score > best {
			best, bestMove = score, m
			s.pv.update(0, m)
			alpha = max(alpha, score)
		}
	}

	if s.tt != nil && !s.aborted {
		s.tt.Store(s.pos.Hash, depth, best, TTExact, bestMove)
	}
	return bestMove, best
}

// isDraw reports a draw by insufficient material, repetition or the
// fifty-move rule. Checkmate takes precedence over the fifty-move rule.
func (s *Searcher) isDraw(inCheck bool) bool {
	if s.pos.IsInsufficientMaterial() || s.isRepetition() {
		return true
	}
	return s.pos.IsFiftyMoveDraw() && (!inCheck || s.pos.HasLegalMoves())
}

// isRepetition looks for the current position among earlier positions with
// the same side to move since the last irreversible move.
func (s *Searcher) isRepetition() bool {
	n := len(s.path) - 1
	h := s.path[n]
	for i := n - 2; i >= 0 && i >= n-s.pos.HalfMoveClock; i -= 2 {
		if s.path[i] == h {
			return true
		}
	}
	return false
}

// negamax implements the negamax algorithm with alpha-beta pruning.
func (s *Searcher) negamax(depth, ply, alpha, beta int) int {
	s.pv.length[ply] = ply
	if ply >= MaxPly-1 {
		return Evaluate(s.pos)
	}

	inCheck := s.pos.InCheck()
	if s.isDraw(inCheck) {
		return 0
	}
	if inCheck && ply < 2*s.rootDepth {
		depth++
	}
	if depth <= 0 {
		return s.quiescence(ply, 0, alpha, beta)
	}
	s.nodes++

	ttMove := board.NoMove
	if s.tt != nil {
		if entry, ok := s.tt.Probe(s.pos.Hash); ok {
			ttMove = entry.BestMove
			if int(entry.Depth) >= depth {
				score := AdjustScoreFromTT(int(entry.Score), ply)
				switch {
				case entry.Flag == TTExact,
					entry.Flag == TTLowerBound && score >= beta,
					entry.Flag == TTUpperBound && score <= alpha:
					return score
				}
			}
		}
	}

	moves := s.pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}
	scores := s.orderer.ScoreMoves(s.pos, moves, ply, ttMove)

	origAlpha := alpha
	bestMove, best := board.NoMove, -Infinity
	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.Get(i)

		undo := s.makeMove(m)
		score := -s.negamax(depth-1, ply+1, -beta, -alpha)
		s.unmakeMove(m, undo)

		if score > best {
			best, bestMove = score, m
			if score > alpha {
				alpha = score
				s.pv.update(ply, m)
				if alpha >= beta {
					s.orderer.UpdateKillers(m, ply)
					break
				}
			}
		}
	}

	if s.tt != nil {
		flag := TTExact
		switch {
		case best <= origAlpha:
			flag = TTUpperBound
		case best >= beta:
			flag = TTLowerBound
		}
		s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(best, ply), flag, bestMove)
	}
	return best
}

// quiescence searches captures and promotions until the position is quiet.
// In check every evasion is searched and there is no stand pat.
func (s *Searcher) quiescence(ply, qply, alpha, beta int) int {
	s.pv.length[ply] = ply
	s.nodes++
	if ply >= MaxPly-1 || qply >= MaxQuiescencePly {
		return Evaluate(s.pos)
	}

	best := -Infinity
	var moves *board.MoveList
	if s.pos.InCheck() {
		moves = s.pos.GenerateLegalMoves()
		if moves.Len() == 0 {
			return -MateScore + ply
		}
	} else {
		best = Evaluate(s.pos)
		if best >= beta {
			return best
		}
		alpha = max(alpha, best)
		moves = s.pos.GenerateCaptures()
	}
	scores := s.orderer.ScoreMoves(s.pos, moves, ply, board.NoMove)

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.Get(i)

		undo := s.makeMove(m)
		score := -s.quiescence(ply+1, qply+1, -beta, -alpha)
		s.unmakeMove(m, undo)

		if score > best {
			best = score
			if score > alpha {
				alpha = score
				if alpha >= beta {
					break
				}
			}
		}
	}
	return best
}

// minimax is negamax without pruning. The bounds are ignored.
func (s *Searcher) minimax(depth, ply, _, _ int) int {
	s.pv.length[ply] = ply
	if ply >= MaxPly-1 {
		return Evaluate(s.pos)
	}

	inCheck := s.pos.InCheck()
	if s.isDraw(inCheck) {
		return 0
	}
	if inCheck && ply < 2*s.rootDepth {
		depth++
	}
	if depth <= 0 {
		return s.quiescenceAll(ply, 0)
	}
	s.nodes++

	moves := s.pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	best := -Infinity
	for _, m := range moves.Slice() {
		undo := s.makeMove(m)
		score := -s.minimax(depth-1, ply+1, 0, 0)
		s.unmakeMove(m, undo)

		if score > best {
			best = score
			s.pv.update(ply, m)
		}
	}
	return best
}

// quiescenceAll is quiescence without the beta cutoff.
func (s *Searcher) quiescenceAll(ply, qply int) int {
	s.pv.length[ply] = ply
	s.nodes++
	if ply >= MaxPly-1 || qply >= MaxQuiescencePly {
		return Evaluate(s.pos)
	}

	best := -Infinity
	var moves *board.MoveList
	if s.pos.InCheck() {
		moves = s.pos.GenerateLegalMoves()
		if moves.Len() == 0 {
			return -MateScore + ply
		}
	} else {
		best = Evaluate(s.pos)
		moves = s.pos.GenerateCaptures()
	}

	for _, m := range moves.Slice() {
		undo := s.makeMove(m)
		best = max(best, -s.quiescenceAll(ply+1, qply+1))
		s.unmakeMove(m, undo)
	}
	return best
}
