package board

import "fmt"

// MoveKind tells MakeMove which side effects a move has beyond moving a
// piece from one square to another.
type MoveKind uint8

const (
	Quiet MoveKind = iota
	Capture
	DoublePawnPush
	EnPassant
	CastleKingSide
	CastleQueenSide
)

var moveKindNames = [...]string{"quiet", "capture", "double-push", "en-passant", "O-O", "O-O-O"}

func (k MoveKind) String() string {
	if int(k) < len(moveKindNames) {
		return moveKindNames[k]
	}
	return fmt.Sprintf("MoveKind(%d)", uint8(k))
}

// Move packs a move into 32 bits:
//
//	bits 0-5   origin square
//	bits 6-11  destination square
//	bits 12-14 kind
//	bits 15-17 promotion piece type, 0 when the move does not promote
type Move uint32

// NoMove is the zero move, returned when a position has no legal move.
const NoMove Move = 0

// NewMove builds a non-promoting move.
func NewMove(from, to Square, kind MoveKind) Move {
	return Move(from) | Move(to)<<6 | Move(kind)<<12
}

// NewPromotion builds a pawn move to the last rank. kind is Quiet or Capture.
func NewPromotion(from, to Square, kind MoveKind, promo PieceType) Move {
	return NewMove(from, to, kind) | Move(promo)<<15
}

func (m Move) From() Square   { return Square(m & 0x3F) }
func (m Move) To() Square     { return Square(m >> 6 & 0x3F) }
func (m Move) Kind() MoveKind { return MoveKind(m >> 12 & 7) }

// Promotion returns the promoted-to type, or NoPieceType.
func (m Move) Promotion() PieceType {
	if pt := PieceType(m >> 15 & 7); pt != Pawn {
		return pt
	}
	return NoPieceType
}

func (m Move) IsPromotion() bool { return m>>15&7 != 0 }
func (m Move) IsCapture() bool   { return m.Kind() == Capture || m.Kind() == EnPassant }
func (m Move) IsCastling() bool  { return m.Kind() == CastleKingSide || m.Kind() == CastleQueenSide }

// String renders the move in coordinate form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string([]byte{pieceChars[6+int(m.Promotion())]})
	}
	return s
}

// ParseUCIMove resolves coordinate notation against the legal moves of pos.
func ParseUCIMove(s string, pos *Position) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	promo := NoPieceType
	if len(s) == 5 {
		if promo = pieceTypeFromLetter(s[4]); promo == NoPieceType {
			return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
		}
	}

	legal := pos.GenerateLegalMoves()
	for _, m := range legal.Slice() {
		if m.From() == from && m.To() == to && m.Promotion() == promo {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
}

// MoveList is a fixed-capacity move buffer; no position has more than
// 218 legal moves.
type MoveList struct {
	moves [256]Move
	count int
}

func NewMoveList() *MoveList { return &MoveList{} }

func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

func (ml *MoveList) Len() int          { return ml.count }
func (ml *MoveList) Get(i int) Move    { return ml.moves[i] }
func (ml *MoveList) Set(i int, m Move) { ml.moves[i] = m }
func (ml *MoveList) Swap(i, j int)     { ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i] }
func (ml *MoveList) Clear()            { ml.count = 0 }
func (ml *MoveList) Slice() []Move     { return ml.moves[:ml.count] }

func (ml *MoveList) Contains(m Move) bool {
	for _, x := range ml.Slice() {
		if x == m {
			return true
		}
	}
	return false
}

// UndoInfo is the part of the position a move overwrites and UnmakeMove
// cannot recompute.
type UndoInfo struct {
	Captured       Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
}
