package game

import "github.com/hailam/pawndropper/internal/board"

// Outcome describes the position after a move from the game's point of view.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Check
	Checkmate
	Stalemate
	FiftyMoveRule
	InsufficientMaterial
	ThreefoldRepetition
)

var outcomeNames = [...]string{
	Ongoing:              "ongoing",
	Check:                "check",
	Checkmate:            "checkmate",
	Stalemate:            "stalemate",
	FiftyMoveRule:        "fifty-move rule",
	InsufficientMaterial: "insufficient material",
	ThreefoldRepetition:  "threefold repetition",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// IsOver reports whether no further moves may be played.
func (o Outcome) IsOver() bool { return o >= Checkmate }

// IsDraw reports whether the game ended without a winner.
func (o Outcome) IsDraw() bool { return o >= Stalemate }

// outcomeOf classifies pos. repetitions is how often pos has occurred in
// the game, itself included.
func outcomeOf(pos *board.Position, repetitions int) Outcome {
	switch pos.Status() {
	case board.Checkmate:
		return Checkmate
	case board.Stalemate:
		return Stalemate
	}
	switch {
	case pos.IsInsufficientMaterial():
		return InsufficientMaterial
	case pos.IsFiftyMoveDraw():
		return FiftyMoveRule
	case repetitions >= 3:
		return ThreefoldRepetition
	case pos.InCheck():
		return Check
	}
	return Ongoing
}
