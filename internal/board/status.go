package board

// Status classifies a position by the mover's legal moves.
type Status uint8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "ongoing"
}

// Status reports checkmate or stalemate when the side to move has no legal
// move. These are facts about the position, not errors.
func (p *Position) Status() Status {
	if p.HasLegalMoves() {
		return Ongoing
	}
	if p.InCheck() {
		return Checkmate
	}
	return Stalemate
}

// HasLegalMoves stops at the first legal move found.
func (p *Position) HasLegalMoves() bool {
	ml := NewMoveList()
	p.generate(ml, genAll)
	for _, m := range ml.Slice() {
		if p.IsLegal(m) {
			return true
		}
	}
	return false
}

const darkSquares Bitboard = 0xAA55AA55AA55AA55

// IsInsufficientMaterial reports king against king, king and one minor
// piece against king, and king and bishop against king and bishop with
// both bishops on the same square color.
func (p *Position) IsInsufficientMaterial() bool {
	for c := White; c <= Black; c++ {
		if p.Pieces[c][Pawn]|p.Pieces[c][Rook]|p.Pieces[c][Queen] != 0 {
			return false
		}
	}
	knights := p.Pieces[White][Knight] | p.Pieces[Black][Knight]
	bishops := p.Pieces[White][Bishop] | p.Pieces[Black][Bishop]
	minors := (knights | bishops).PopCount()

	switch {
	case minors <= 1:
		return true
	case knights == 0 && p.Pieces[White][Bishop].PopCount() == 1 && p.Pieces[Black][Bishop].PopCount() == 1:
		return bishops&darkSquares == 0 || bishops&^darkSquares == 0
	}
	return false
}

// IsFiftyMoveDraw reports that fifty moves by each side passed without a
// capture or pawn move.
func (p *Position) IsFiftyMoveDraw() bool { return p.HalfMoveClock >= 100 }
