package board

// genMode restricts pseudo-legal generation.
type genMode uint8

const (
	genAll genMode = iota
	// genTactical yields captures and promotions only.
	genTactical
)

var promotionOrder = [4]PieceType{Queen, Rook, Bishop, Knight}

// castlingPath describes one castling move for one side.
type castlingPath struct {
	right      CastlingRights
	kind       MoveKind
	kingFrom   Square
	kingTo     Square
	rookFrom   Square
	rookTo     Square
	mustBeSafe [3]Square // king's origin, transit and destination
}

var castlingPaths = [2][2]castlingPath{
	White: {
		{WhiteKingSide, CastleKingSide, E1, G1, H1, F1, [3]Square{E1, F1, G1}},
		{WhiteQueenSide, CastleQueenSide, E1, C1, A1, D1, [3]Square{E1, D1, C1}},
	},
	Black: {
		{BlackKingSide, CastleKingSide, E8, G8, H8, F8, [3]Square{E8, F8, G8}},
		{BlackQueenSide, CastleQueenSide, E8, C8, A8, D8, [3]Square{E8, D8, C8}},
	},
}

// castlingRook returns the rook's origin and destination for a castling
// move by c.
func castlingRook(c Color, kind MoveKind) (from, to Square) {
	path := castlingPaths[c][0]
	if kind == CastleQueenSide {
		path = castlingPaths[c][1]
	}
	return path.rookFrom, path.rookTo
}

// GeneratePseudoLegalMoves returns every move that obeys piece movement
// rules, including ones that leave the mover's king attacked. Castling is
// only generated when fully legal.
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generate(ml, genAll)
	return ml
}

// GenerateLegalMoves returns every legal move in the position.
func (p *Position) GenerateLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generate(ml, genAll)
	return p.filterLegal(ml)
}

// GenerateCaptures returns the legal captures and promotions.
func (p *Position) GenerateCaptures() *MoveList {
	ml := NewMoveList()
	p.generate(ml, genTactical)
	return p.filterLegal(ml)
}

// IsLegal applies a pseudo-legal move, tests the mover's king against the
// opponent's attacks with the resulting occupancy, and takes it back.
func (p *Position) IsLegal(m Move) bool {
	us := p.SideToMove
	undo := p.MakeMove(m)
	ok := !p.IsSquareAttacked(p.KingSquare[us], us.Other())
	p.UnmakeMove(m, undo)
	return ok
}

func (p *Position) filterLegal(ml *MoveList) *MoveList {
	n := 0
	for i := 0; i < ml.Len(); i++ {
		if m := ml.Get(i); p.IsLegal(m) {
			ml.Set(n, m)
			n++
		}
	}
	ml.count = n
	return ml
}

func (p *Position) generate(ml *MoveList, mode genMode) {
	us, them := p.SideToMove, p.SideToMove.Other()
	enemies := p.Occupied[them]
	targets := ^p.Occupied[us]
	if mode == genTactical {
		targets = enemies
	}

	p.generatePawnMoves(ml, us, mode)

	for pt := Knight; pt <= King; pt++ {
		for pieces := p.Pieces[us][pt]; pieces != 0; {
			from := pieces.PopLSB()
			var attacks Bitboard
			switch pt {
			case Knight:
				attacks = KnightAttacks(from)
			case Bishop:
				attacks = BishopAttacks(from, p.AllOccupied)
			case Rook:
				attacks = RookAttacks(from, p.AllOccupied)
			case Queen:
				attacks = QueenAttacks(from, p.AllOccupied)
			case King:
				attacks = KingAttacks(from)
			}
			for attacks &= targets; attacks != 0; {
				to := attacks.PopLSB()
				kind := Quiet
				if enemies.IsSet(to) {
					kind = Capture
				}
				ml.Add(NewMove(from, to, kind))
			}
		}
	}

	if mode == genAll {
		p.generateCastling(ml, us)
	}
}

func (p *Position) generatePawnMoves(ml *MoveList, us Color, mode genMode) {
	them := us.Other()
	enemies := p.Occupied[them]
	empty := ^p.AllOccupied

	for pawns := p.Pieces[us][Pawn]; pawns != 0; {
		from := pawns.PopLSB()
		promotes := from.RelativeRank(us) == 6

		if push := pawnPushes[us][from] & empty; push != 0 {
			to := push.LSB()
			switch {
			case promotes:
				addPromotions(ml, from, to, Quiet)
			case mode == genAll:
				ml.Add(NewMove(from, to, Quiet))
				if from.RelativeRank(us) == 1 {
					if double := pawnPushes[us][to] & empty; double != 0 {
						ml.Add(NewMove(from, double.LSB(), DoublePawnPush))
					}
				}
			}
		}

		for caps := pawnAttacks[us][from] & enemies; caps != 0; {
			to := caps.PopLSB()
			if promotes {
				addPromotions(ml, from, to, Capture)
			} else {
				ml.Add(NewMove(from, to, Capture))
			}
		}

		if p.EnPassant != NoSquare && pawnAttacks[us][from].IsSet(p.EnPassant) {
			ml.Add(NewMove(from, p.EnPassant, EnPassant))
		}
	}
}

func addPromotions(ml *MoveList, from, to Square, kind MoveKind) {
	for _, pt := range promotionOrder {
		ml.Add(NewPromotion(from, to, kind, pt))
	}
}

// generateCastling adds castling moves that are legal outright: the right
// is held, king and rook stand on their home squares, the squares between
// them are empty, and the king is not in check, does not pass through an
// attacked square and does not land on one.
func (p *Position) generateCastling(ml *MoveList, us Color) {
	them := us.Other()
	for _, c := range castlingPaths[us] {
		if p.CastlingRights&c.right == 0 ||
			!p.Pieces[us][King].IsSet(c.kingFrom) ||
			!p.Pieces[us][Rook].IsSet(c.rookFrom) ||
			Between(c.kingFrom, c.rookFrom)&p.AllOccupied != 0 {
			continue
		}
		safe := true
		for _, sq := range c.mustBeSafe {
			if p.IsSquareAttacked(sq, them) {
				safe = false
				break
			}
		}
		if safe {
			ml.Add(NewMove(c.kingFrom, c.kingTo, c.kind))
		}
	}
}
