package board

import (
	"fmt"
	"strings"
)

// CastlingRights is a set of the four castling flags.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// String renders the FEN castling field.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, c := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// castlingKeep[sq] is ANDed into the rights whenever a move starts or ends
// on sq, dropping rights once a king or rook leaves (or is captured on)
// its home square.
var castlingKeep = func() (keep [64]CastlingRights) {
	for sq := range keep {
		keep[sq] = AllCastling
	}
	keep[E1] &^= WhiteKingSide | WhiteQueenSide
	keep[H1] &^= WhiteKingSide
	keep[A1] &^= WhiteQueenSide
	keep[E8] &^= BlackKingSide | BlackQueenSide
	keep[H8] &^= BlackKingSide
	keep[A8] &^= BlackQueenSide
	return keep
}()

// DebugAssertions makes MakeMove and UnmakeMove check the position
// invariants after every change and panic on a violation.
var DebugAssertions = false

// Position is a full game state. It is a plain value: copying it with
// Copy (or *p) yields an independent position.
type Position struct {
	Pieces      [2][6]Bitboard
	Occupied    [2]Bitboard
	AllOccupied Bitboard

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	FullMoveNumber int

	Hash       uint64
	KingSquare [2]Square
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

func (p *Position) Copy() *Position {
	c := *p
	return &c
}

// PieceAt returns the piece on sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece {
	c := White
	switch {
	case p.Occupied[White].IsSet(sq):
	case p.Occupied[Black].IsSet(sq):
		c = Black
	default:
		return NoPiece
	}
	if pt := p.pieceTypeAt(c, sq); pt != NoPieceType {
		return NewPiece(pt, c)
	}
	return NoPiece
}

func (p *Position) pieceTypeAt(c Color, sq Square) PieceType {
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt].IsSet(sq) {
			return pt
		}
	}
	return NoPieceType
}

func (p *Position) IsEmpty(sq Square) bool { return !p.AllOccupied.IsSet(sq) }

// put, remove and relocate keep the occupancy sets, king squares and the
// hash in step with the piece boards.
func (p *Position) put(pc Piece, sq Square) {
	c, pt := pc.Color(), pc.Type()
	b := SquareBB(sq)
	p.Pieces[c][pt] |= b
	p.Occupied[c] |= b
	p.AllOccupied |= b
	p.Hash ^= zobristPiece[c][pt][sq]
	if pt == King {
		p.KingSquare[c] = sq
	}
}

func (p *Position) remove(pc Piece, sq Square) {
	c, pt := pc.Color(), pc.Type()
	b := SquareBB(sq)
	p.Pieces[c][pt] &^= b
	p.Occupied[c] &^= b
	p.AllOccupied &^= b
	p.Hash ^= zobristPiece[c][pt][sq]
}

func (p *Position) relocate(pc Piece, from, to Square) {
	c, pt := pc.Color(), pc.Type()
	b := SquareBB(from) | SquareBB(to)
	p.Pieces[c][pt] ^= b
	p.Occupied[c] ^= b
	p.AllOccupied ^= b
	p.Hash ^= zobristPiece[c][pt][from] ^ zobristPiece[c][pt][to]
	if pt == King {
		p.KingSquare[c] = to
	}
}

// Validate checks the invariants of a legal chess position.
func (p *Position) Validate() error {
	if err := p.validateStructure(); err != nil {
		return err
	}
	them := p.SideToMove.Other()
	if p.IsSquareAttacked(p.KingSquare[them], p.SideToMove) {
		return fmt.Errorf("%w: %s to move can capture the %s king", ErrInvalidPosition, p.SideToMove, them)
	}
	return nil
}

// validateStructure is Validate without the king safety rule, which a
// pseudo-legal move may break until it is taken back.
func (p *Position) validateStructure() error {
	var union Bitboard
	for c := White; c <= Black; c++ {
		var side Bitboard
		for pt := Pawn; pt <= King; pt++ {
			if side&p.Pieces[c][pt] != 0 || union&p.Pieces[c][pt] != 0 {
				return fmt.Errorf("%w: %s %s board overlaps another piece", ErrInvalidPosition, c, pt)
			}
			side |= p.Pieces[c][pt]
			union |= p.Pieces[c][pt]
		}
		if side != p.Occupied[c] {
			return fmt.Errorf("%w: %s occupancy out of sync", ErrInvalidPosition, c)
		}
		if n := p.Pieces[c][King].PopCount(); n != 1 {
			return fmt.Errorf("%w: %s has %d kings", ErrInvalidPosition, c, n)
		}
		if p.KingSquare[c] != p.Pieces[c][King].LSB() {
			return fmt.Errorf("%w: %s king square out of sync", ErrInvalidPosition, c)
		}
		if p.Pieces[c][Pawn]&(Rank1|Rank8) != 0 {
			return fmt.Errorf("%w: %s pawn on a back rank", ErrInvalidPosition, c)
		}
	}
	if union != p.AllOccupied {
		return fmt.Errorf("%w: aggregate occupancy out of sync", ErrInvalidPosition)
	}
	return nil
}

func (p *Position) assertConsistent(op string, m Move) {
	if err := p.validateStructure(); err != nil {
		panic(fmt.Sprintf("board: %s %s: %v\n%s", op, m, err, p))
	}
	if h := p.ComputeHash(); h != p.Hash {
		panic(fmt.Sprintf("board: %s %s: hash %#x, recomputed %#x\n%s", op, m, p.Hash, h, p))
	}
}

// Material sums PieceValue over c's pieces, kings excluded.
func (p *Position) Material(c Color) int {
	total := 0
	for pt := Pawn; pt < King; pt++ {
		total += p.Pieces[c][pt].PopCount() * PieceValue[pt]
	}
	return total
}

// PieceValue holds the conventional material values in centipawns.
var PieceValue = [...]int{Pawn: 100, Knight: 320, Bishop: 330, Rook: 500, Queen: 900, King: 0, NoPieceType: 0}

// String draws the board with rank 8 on top followed by the FEN.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		for file := 0; file < 8; file++ {
			sb.WriteByte(' ')
			if pc := p.PieceAt(NewSquare(file, rank)); pc != NoPiece {
				sb.WriteString(pc.String())
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	sb.WriteString(p.FEN())
	sb.WriteByte('\n')
	return sb.String()
}
