package board

// zobristSeed keys the ChaCha stream the hash keys are drawn from, so
// hashes are stable across runs.
const zobristSeed uint64 = 0x98F107A2BEEF1234

var (
	zobristPiece      [2][6][64]uint64
	zobristEnPassant  [8]uint64
	zobristCastling   [16]uint64
	zobristSideToMove uint64
)

func init() {
	rng := newSeededRNG(zobristSeed)
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = randUint64(rng)
			}
		}
	}
	for f := range zobristEnPassant {
		zobristEnPassant[f] = randUint64(rng)
	}
	for cr := range zobristCastling {
		zobristCastling[cr] = randUint64(rng)
	}
	zobristSideToMove = randUint64(rng)
}

// ComputeHash hashes the position from scratch. MakeMove keeps Hash
// up to date incrementally; the two must always agree.
func (p *Position) ComputeHash() uint64 {
	var h uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for bb := p.Pieces[c][pt]; bb != 0; {
				h ^= zobristPiece[c][pt][bb.PopLSB()]
			}
		}
	}
	if p.EnPassant != NoSquare {
		h ^= zobristEnPassant[p.EnPassant.File()]
	}
	h ^= zobristCastling[p.CastlingRights]
	if p.SideToMove == Black {
		h ^= zobristSideToMove
	}
	return h
}
