package board

import "fmt"

// enPassantVictim is the square of the pawn captured en passant when a
// pawn of color us lands on to.
func enPassantVictim(to Square, us Color) Square {
	if us == White {
		return to - 8
	}
	return to + 8
}

// MakeMove plays m in place and returns what UnmakeMove needs to take it
// back. m must be pseudo-legal for the side to move; anything else is a
// programming error and panics.
func (p *Position) MakeMove(m Move) UndoInfo {
	us, them := p.SideToMove, p.SideToMove.Other()
	from, to := m.From(), m.To()

	moving := p.pieceTypeAt(us, from)
	if moving == NoPieceType {
		panic(fmt.Sprintf("board: MakeMove %s: no %s piece on %s\n%s", m, us, from, p))
	}

	undo := UndoInfo{
		Captured:       NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
	}

	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
		p.EnPassant = NoSquare
	}

	switch m.Kind() {
	case Capture:
		captured := p.pieceTypeAt(them, to)
		if captured == NoPieceType || captured == King {
			panic(fmt.Sprintf("board: MakeMove %s: bad capture target %s\n%s", m, captured, p))
		}
		undo.Captured = NewPiece(captured, them)
		p.remove(undo.Captured, to)
	case EnPassant:
		undo.Captured = NewPiece(Pawn, them)
		p.remove(undo.Captured, enPassantVictim(to, us))
	}

	p.relocate(NewPiece(moving, us), from, to)

	if promo := m.Promotion(); promo != NoPieceType {
		p.remove(NewPiece(Pawn, us), to)
		p.put(NewPiece(promo, us), to)
	}

	switch m.Kind() {
	case CastleKingSide, CastleQueenSide:
		rookFrom, rookTo := castlingRook(us, m.Kind())
		p.relocate(NewPiece(Rook, us), rookFrom, rookTo)
	case DoublePawnPush:
		p.EnPassant = Square((int(from) + int(to)) / 2)
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	if rights := p.CastlingRights & castlingKeep[from] & castlingKeep[to]; rights != p.CastlingRights {
		p.Hash ^= zobristCastling[p.CastlingRights] ^ zobristCastling[rights]
		p.CastlingRights = rights
	}

	if moving == Pawn || undo.Captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}
	p.SideToMove = them
	p.Hash ^= zobristSideToMove

	if DebugAssertions {
		p.assertConsistent("MakeMove", m)
	}
	return undo
}

// UnmakeMove reverts MakeMove(m), restoring the position exactly.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	us := p.SideToMove.Other()
	from, to := m.From(), m.To()

	p.SideToMove = us
	if us == Black {
		p.FullMoveNumber--
	}

	if promo := m.Promotion(); promo != NoPieceType {
		p.remove(NewPiece(promo, us), to)
		p.put(NewPiece(Pawn, us), to)
	}
	p.relocate(NewPiece(p.pieceTypeAt(us, to), us), to, from)

	switch m.Kind() {
	case Capture:
		p.put(undo.Captured, to)
	case EnPassant:
		p.put(undo.Captured, enPassantVictim(to, us))
	case CastleKingSide, CastleQueenSide:
		rookFrom, rookTo := castlingRook(us, m.Kind())
		p.relocate(NewPiece(Rook, us), rookTo, rookFrom)
	}

	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.Hash = undo.Hash

	if DebugAssertions {
		p.assertConsistent("UnmakeMove", m)
	}
}
