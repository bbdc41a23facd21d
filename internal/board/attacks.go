package board

var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard
	pawnPushes    [2][64]Bitboard

	// betweenBB holds the squares strictly between two aligned squares.
	betweenBB [64][64]Bitboard

	// defaultTables backs RookAttacks and BishopAttacks. It is built once
	// below and never written again.
	defaultTables *Tables
)

// direction is a (file, rank) step.
type direction struct{ df, dr int }

var (
	rookDirections   = [4]direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	bishopDirections = [4]direction{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
)

func init() {
	initLeaperAttacks()
	initBetween()

	t, err := BuildTables(DefaultMagicSeed, DefaultMagicTrials)
	if err != nil {
		panic("board: building slider attack tables: " + err.Error())
	}
	defaultTables = t
}

func initLeaperAttacks() {
	for sq := A1; sq <= H8; sq++ {
		b := SquareBB(sq)

		knightAttacks[sq] = (b<<17)&NotFileA | (b<<15)&NotFileH |
			(b>>15)&NotFileA | (b>>17)&NotFileH |
			(b<<10)&NotFileAB | (b<<6)&NotFileGH |
			(b>>6)&NotFileAB | (b>>10)&NotFileGH

		kingAttacks[sq] = b.North() | b.South() | b.East() | b.West() |
			b.NorthEast() | b.NorthWest() | b.SouthEast() | b.SouthWest()

		pawnAttacks[White][sq] = b.NorthEast() | b.NorthWest()
		pawnAttacks[Black][sq] = b.SouthEast() | b.SouthWest()
		pawnPushes[White][sq] = b.North()
		pawnPushes[Black][sq] = b.South()
	}
}

func initBetween() {
	dirs := append(rookDirections[:], bishopDirections[:]...)
	for from := A1; from <= H8; from++ {
		for _, d := range dirs {
			var path Bitboard
			f, r := from.File()+d.df, from.Rank()+d.dr
			for onBoard(f, r) {
				to := NewSquare(f, r)
				betweenBB[from][to] = path
				path |= SquareBB(to)
				f += d.df
				r += d.dr
			}
		}
	}
}

// slideAttacks casts rays from sq in each direction, stopping at (and
// including) the first occupied square. It is the reference the magic
// tables are built and verified against.
func slideAttacks(sq Square, occupied Bitboard, dirs *[4]direction) Bitboard {
	var attacks Bitboard
	for _, d := range dirs {
		f, r := sq.File()+d.df, sq.Rank()+d.dr
		for onBoard(f, r) {
			s := NewSquare(f, r)
			attacks |= SquareBB(s)
			if occupied.IsSet(s) {
				break
			}
			f += d.df
			r += d.dr
		}
	}
	return attacks
}

func rookAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return slideAttacks(sq, occupied, &rookDirections)
}

func bishopAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return slideAttacks(sq, occupied, &bishopDirections)
}

func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }
func KingAttacks(sq Square) Bitboard   { return kingAttacks[sq] }

// PawnAttacks returns the squares a c pawn on sq captures on.
func PawnAttacks(sq Square, c Color) Bitboard { return pawnAttacks[c][sq] }

// PawnPushes returns the single-push target of a c pawn on sq.
func PawnPushes(sq Square, c Color) Bitboard { return pawnPushes[c][sq] }

func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return defaultTables.Rook[sq].Lookup(occupied)
}

func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return defaultTables.Bishop[sq].Lookup(occupied)
}

func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return RookAttacks(sq, occupied) | BishopAttacks(sq, occupied)
}

// Between returns the squares strictly between a and b, or Empty when
// they do not share a rank, file or diagonal.
func Between(a, b Square) Bitboard { return betweenBB[a][b] }

// AttackersByColor returns the pieces of color c attacking sq, with
// sliders blocked by occupied.
func (p *Position) AttackersByColor(sq Square, c Color, occupied Bitboard) Bitboard {
	own := &p.Pieces[c]
	return pawnAttacks[c.Other()][sq]&own[Pawn] |
		knightAttacks[sq]&own[Knight] |
		kingAttacks[sq]&own[King] |
		BishopAttacks(sq, occupied)&(own[Bishop]|own[Queen]) |
		RookAttacks(sq, occupied)&(own[Rook]|own[Queen])
}

// IsSquareAttacked reports whether any piece of color by attacks sq.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	return p.AttackersByColor(sq, by, p.AllOccupied) != 0
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	us := p.SideToMove
	return p.IsSquareAttacked(p.KingSquare[us], us.Other())
}
