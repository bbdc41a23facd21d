package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// castlingHome lists, per right, the king and rook squares the right
// depends on.
var castlingHome = [4]struct {
	right      CastlingRights
	king, rook Piece
	kingSq     Square
	rookSq     Square
}{
	{WhiteKingSide, WhiteKing, WhiteRook, E1, H1},
	{WhiteQueenSide, WhiteKing, WhiteRook, E1, A1},
	{BlackKingSide, BlackKing, BlackRook, E8, H8},
	{BlackQueenSide, BlackKing, BlackRook, E8, A8},
}

// ParseFEN decodes a FEN record. The halfmove and fullmove fields may be
// omitted. Every failure wraps ErrInvalidFEN, and the returned position
// has passed Validate.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, fmt.Errorf("%w: want 4 to 6 fields, got %d", ErrInvalidFEN, len(fields))
	}

	pos := &Position{EnPassant: NoSquare, FullMoveNumber: 1}
	if err := pos.parsePlacement(fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	if err := pos.parseCastling(fields[2]); err != nil {
		return nil, err
	}
	if err := pos.parseEnPassant(fields[3]); err != nil {
		return nil, err
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: halfmove clock %q", ErrInvalidFEN, fields[4])
		}
		pos.HalfMoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: fullmove number %q", ErrInvalidFEN, fields[5])
		}
		pos.FullMoveNumber = n
	}

	pos.Hash = pos.ComputeHash()
	if err := pos.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return pos, nil
}

func (p *Position) parsePlacement(s string) error {
	ranks := strings.Split(s, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	p.KingSquare = [2]Square{NoSquare, NoSquare}
	for i, row := range ranks {
		rank, file := 7-i, 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			pc := PieceFromChar(c)
			if pc == NoPiece {
				return fmt.Errorf("%w: bad piece %q", ErrInvalidFEN, c)
			}
			if file > 7 {
				return fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, rank+1)
			}
			p.put(pc, NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, rank+1, file)
		}
	}
	return nil
}

func (p *Position) parseCastling(s string) error {
	if s == "-" {
		return nil
	}
	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte("KQkq", s[i])
		if idx < 0 {
			return fmt.Errorf("%w: castling field %q", ErrInvalidFEN, s)
		}
		home := castlingHome[idx]
		if p.PieceAt(home.kingSq) != home.king || p.PieceAt(home.rookSq) != home.rook {
			return fmt.Errorf("%w: castling right %c without king on %s and rook on %s",
				ErrInvalidFEN, s[i], home.kingSq, home.rookSq)
		}
		p.CastlingRights |= home.right
	}
	return nil
}

func (p *Position) parseEnPassant(s string) error {
	if s == "-" {
		return nil
	}
	sq, err := ParseSquare(s)
	if err != nil {
		return fmt.Errorf("%w: en-passant square: %v", ErrInvalidFEN, err)
	}
	// The target sits behind a pawn of the side that just moved, on the
	// third rank from that side's point of view.
	mover := p.SideToMove.Other()
	pawnSq := Square(int(sq) + 8)
	if mover == Black {
		pawnSq = Square(int(sq) - 8)
	}
	if sq.RelativeRank(mover) != 2 || !p.IsEmpty(sq) || p.PieceAt(pawnSq) != NewPiece(Pawn, mover) {
		return fmt.Errorf("%w: en-passant square %s does not follow a double push", ErrInvalidFEN, sq)
	}
	p.EnPassant = sq
	return nil
}

// FEN encodes the position. ParseFEN(p.FEN()) reproduces p.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.PieceAt(NewSquare(file, rank))
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(pc.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	side := "w"
	if p.SideToMove == Black {
		side = "b"
	}
	fmt.Fprintf(&sb, " %s %s %s %d %d", side, p.CastlingRights, p.EnPassant, p.HalfMoveClock, p.FullMoveNumber)
	return sb.String()
}
