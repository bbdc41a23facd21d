package board

import (
	"fmt"
	"strings"
)

// SAN renders m, which must be legal in pos, in standard algebraic
// notation including the check or mate suffix.
func (m Move) SAN(pos *Position) string {
	if m == NoMove {
		return "--"
	}
	var sb strings.Builder
	switch m.Kind() {
	case CastleKingSide:
		sb.WriteString("O-O")
	case CastleQueenSide:
		sb.WriteString("O-O-O")
	default:
		from, to := m.From(), m.To()
		pt := pos.pieceTypeAt(pos.SideToMove, from)
		if pt == Pawn {
			if m.IsCapture() {
				sb.WriteByte(byte('a' + from.File()))
			}
		} else {
			sb.WriteString(pt.Letter())
			sb.WriteString(disambiguation(pos, m, pt))
		}
		if m.IsCapture() {
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteString(m.Promotion().Letter())
		}
	}

	undo := pos.MakeMove(m)
	switch {
	case !pos.InCheck():
	case pos.HasLegalMoves():
		sb.WriteByte('+')
	default:
		sb.WriteByte('#')
	}
	pos.UnmakeMove(m, undo)
	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from other legal moves of the same piece type to the same square.
func disambiguation(pos *Position, m Move, pt PieceType) string {
	from := m.From()
	ambiguous, sameFile, sameRank := false, false, false
	for _, other := range pos.GenerateLegalMoves().Slice() {
		of := other.From()
		if other.To() != m.To() || of == from || pos.pieceTypeAt(pos.SideToMove, of) != pt {
			continue
		}
		ambiguous = true
		sameFile = sameFile || of.File() == from.File()
		sameRank = sameRank || of.Rank() == from.Rank()
	}
	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return from.String()[:1]
	case !sameRank:
		return from.String()[1:]
	}
	return from.String()
}

// ParseSAN resolves a move in standard algebraic notation against the
// legal moves of pos. Check and annotation suffixes are ignored, "0-0"
// is accepted for castling, a missing promotion piece means a queen, and
// coordinate notation ("e2e4") is tried as a fallback.
func ParseSAN(s string, pos *Position) (Move, error) {
	orig := s
	s = strings.TrimRight(strings.TrimSpace(s), "+#!?")
	s = strings.ReplaceAll(s, "0", "O")

	legal := pos.GenerateLegalMoves()
	switch s {
	case "O-O", "O-O-O":
		kind := CastleKingSide
		if s == "O-O-O" {
			kind = CastleQueenSide
		}
		for _, m := range legal.Slice() {
			if m.Kind() == kind {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, orig)
	}

	req, ok := parseSANFields(s)
	if !ok {
		if m, err := ParseUCIMove(strings.TrimSpace(orig), pos); err == nil {
			return m, nil
		}
		return NoMove, fmt.Errorf("%w: cannot read %q", ErrIllegalMove, orig)
	}

	found := NoMove
	for _, m := range legal.Slice() {
		from := m.From()
		switch {
		case m.To() != req.to,
			m.IsCastling(),
			pos.pieceTypeAt(pos.SideToMove, from) != req.piece,
			req.file >= 0 && from.File() != req.file,
			req.rank >= 0 && from.Rank() != req.rank,
			req.capture && !m.IsCapture(),
			m.Promotion() != req.promo:
			continue
		}
		if found != NoMove {
			return NoMove, fmt.Errorf("%w: %s", ErrAmbiguousMove, orig)
		}
		found = m
	}
	if found == NoMove {
		if m, err := ParseUCIMove(strings.TrimSpace(orig), pos); err == nil {
			return m, nil
		}
		return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, orig)
	}
	return found, nil
}

type sanFields struct {
	piece      PieceType
	file, rank int
	capture    bool
	to         Square
	promo      PieceType
}

func parseSANFields(s string) (sanFields, bool) {
	f := sanFields{piece: Pawn, file: -1, rank: -1, promo: NoPieceType}
	if s == "" {
		return f, false
	}
	if pt := pieceTypeFromLetter(s[0]); s[0] >= 'A' && s[0] <= 'Z' && pt != NoPieceType {
		f.piece = pt
		s = s[1:]
	}

	// Promotion suffix: "=Q" or a bare trailing piece letter.
	if i := strings.IndexByte(s, '='); i >= 0 {
		if i+2 != len(s) {
			return f, false
		}
		f.promo = pieceTypeFromLetter(s[i+1])
		s = s[:i]
	} else if n := len(s); n > 2 && f.piece == Pawn && strings.IndexByte("NBRQ", s[n-1]) >= 0 {
		f.promo = pieceTypeFromLetter(s[n-1])
		s = s[:n-1]
	}
	if f.promo == Pawn || f.promo == King {
		return f, false
	}

	if len(s) < 2 {
		return f, false
	}
	to, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return f, false
	}
	f.to = to
	s = s[:len(s)-2]

	if strings.HasSuffix(s, "x") || strings.HasSuffix(s, ":") {
		f.capture = true
		s = s[:len(s)-1]
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'h':
			f.file = int(c - 'a')
		case c >= '1' && c <= '8':
			f.rank = int(c - '1')
		default:
			return f, false
		}
	}

	if f.piece == Pawn && f.promo == NoPieceType && (to.Rank() == 0 || to.Rank() == 7) {
		f.promo = Queen
	}
	return f, true
}
