// Package engine searches chess positions: static evaluation, move
// ordering and a negamax alpha-beta search with quiescence.
package engine

import (
	"github.com/hailam/pawndropper/internal/board"
)

// Material values in centipawns.
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
)

var pieceValues = [7]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, 0, 0}

// Game phase weights; a board with all minor and major pieces scores
// totalPhase and is evaluated purely with the middlegame terms.
var phaseWeights = [6]int{0, 1, 1, 2, 4, 0}

const totalPhase = 24

const (
	bishopPairMg = 35
	bishopPairEg = 50

	doubledPawnMg = -1
	doubledPawnEg = -10

	// Full ray coverage by a slider is worth this much.
	sliderCoverageMg = 70
	sliderCoverageEg = 80
)

// Piece-square tables are written as seen from White with rank 8 on the
// first row, so a white piece on sq reads index sq.Mirror() and a black
// piece reads index sq.
var mgTables = [6][64]int{
	board.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		40, 40, 40, 40, 40, 40, 40, 40,
		10, 10, 20, 35, 35, 20, 10, 10,
		5, 5, 25, 30, 30, 25, 5, 5,
		0, 10, 10, 25, 25, 0, 0, 0,
		5, -5, -10, 0, 0, -10, -5, 5,
		5, -10, 10, -30, -30, 10, 10, 5,
		0, -10, 0, 0, 0, 0, -10, 0,
	},
	board.Knight: {
		-50, -30, -30, -30, -30, -30, -30, -50,
		-30, -20, 0, 0, 0, 0, -20, -30,
		-30, 0, 10, 20, 20, 10, 0, -30,
		-30, 0, 20, 25, 25, 20, 0, -30,
		-30, 0, 20, 25, 25, 20, 0, -30,
		-30, 0, 10, 20, 20, 10, 0, -30,
		-30, -20, 0, 5, 5, 0, -20, -30,
		-50, -10, 0, -30, -30, 0, -10, -50,
	},
	board.Bishop: {
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	board.Rook: {
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 20, 20, 20, 20, 20, 20, 5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		0, 0, 0, 15, 15, 10, 0, 0,
	},
	board.Queen: {
		-20, -10, -10, -2, -2, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-5, 0, 0, 0, 0, 0, 0, -5,
		0, 0, 0, -10, -10, 0, 0, 0,
		0, 0, 0, -10, -10, 0, 0, 0,
		-5, 0, -10, 0, 0, -10, 0, -5,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, 0, 0, 10, 0, 0, 0, -20,
	},
	board.King: {
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-10, -20, -20, -30, -30, -20, -20, -10,
		15, 15, 0, -10, -10, 0, 15, 15,
		20, 25, 10, 0, 0, 10, 25, 20,
	},
}

var egTables = [6][64]int{
	board.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		100, 100, 100, 100, 100, 100, 100, 100,
		60, 60, 60, 70, 70, 60, 60, 60,
		40, 5, 25, 40, 40, 25, 5, 40,
		30, 20, 20, 30, 30, 0, 0, 30,
		5, 10, 10, 0, 0, 10, 10, 5,
		5, 10, 10, -20, -20, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	board.Knight: {
		-50, -30, -30, -30, -30, -30, -30, -50,
		-30, -20, 0, 0, 0, 0, -20, -30,
		-30, 0, 10, 20, 20, 10, 0, -30,
		-30, 0, 20, 25, 25, 20, 0, -30,
		-30, 0, 20, 25, 25, 20, 0, -30,
		-30, 0, 10, 20, 20, 10, 0, -30,
		-30, -20, 0, 5, 5, 0, -20, -30,
		-50, -10, 0, -30, -30, 0, -10, -50,
	},
	board.Bishop: {
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 30, 0, 0, 0, 0, 30, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	board.Rook: {
		5, 40, 40, 40, 40, 4, 40, 5,
		10, 50, 50, 50, 50, 50, 50, 5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		0, 0, 0, 50, 50, 20, 0, 0,
	},
	board.Queen: {
		-20, 20, 20, 20, 20, 10, 10, 20,
		-10, 20, 30, 40, 50, 20, 30, 0,
		-5, 10, 10, 40, 40, 10, 10, 5,
		0, 20, 30, 50, 50, 30, 10, 0,
		0, 20, 30, 50, 50, 30, 10, 0,
		-5, 20, 30, 30, 10, 30, 10, -5,
		-10, 0, 20, 0, 0, 10, 10, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	board.King: {
		-50, -40, -30, -20, -20, -30, -40, -50,
		-30, -20, -10, 0, 0, -10, -20, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -30, 0, 0, 0, 0, -30, -30,
		-50, -30, -30, -30, -30, -30, -30, -50,
	},
}

// Evaluate scores pos in centipawns from the side to move's point of view.
func Evaluate(pos *board.Position) int {
	var mg, eg, phase int

	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}

		for pt := board.Pawn; pt <= board.King; pt++ {
			for bb := pos.Pieces[c][pt]; bb != 0; {
				sq := bb.PopLSB()
				idx := sq
				if c == board.White {
					idx = sq.Mirror()
				}
				mg += sign * (pieceValues[pt] + mgTables[pt][idx])
				eg += sign * (pieceValues[pt] + egTables[pt][idx])
				phase += phaseWeights[pt]

				if pt == board.Bishop || pt == board.Rook || pt == board.Queen {
					cmg, ceg := sliderCoverage(pos, pt, sq)
					mg += sign * cmg
					eg += sign * ceg
				}
			}
		}

		if pos.Pieces[c][board.Bishop].PopCount() >= 2 {
			mg += sign * bishopPairMg
			eg += sign * bishopPairEg
		}

		doubled := doubledPawns(pos.Pieces[c][board.Pawn])
		mg += sign * doubled * doubledPawnMg
		eg += sign * doubled * doubledPawnEg
	}

	if phase > totalPhase {
		phase = totalPhase
	}
	score := (mg*phase + eg*(totalPhase-phase)) / totalPhase

	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

// sliderCoverage rewards a slider by the share of its empty-board rays it
// still reaches.
func sliderCoverage(pos *board.Position, pt board.PieceType, sq board.Square) (mg, eg int) {
	var reach, full board.Bitboard
	switch pt {
	case board.Bishop:
		reach, full = board.BishopAttacks(sq, pos.AllOccupied), board.BishopAttacks(sq, 0)
	case board.Rook:
		reach, full = board.RookAttacks(sq, pos.AllOccupied), board.RookAttacks(sq, 0)
	default:
		reach, full = board.QueenAttacks(sq, pos.AllOccupied), board.QueenAttacks(sq, 0)
	}
	n, total := reach.PopCount(), full.PopCount()
	return sliderCoverageMg * n / total, sliderCoverageEg * n / total
}

// doubledPawns counts pawns beyond the first on each file.
func doubledPawns(pawns board.Bitboard) int {
	extra := 0
	for f := 0; f < 8; f++ {
		if n := (pawns & board.FileMask(f)).PopCount(); n > 1 {
			extra += n - 1
		}
	}
	return extra
}

// EvaluateMaterial is the material balance alone, from the side to move's
// point of view.
func EvaluateMaterial(pos *board.Position) int {
	score := pos.Material(board.White) - pos.Material(board.Black)
	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}
