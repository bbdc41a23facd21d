package board

import (
	"encoding/binary"
	"fmt"

	"lukechampine.com/frand"
)

const (
	// DefaultMagicSeed seeds the candidate stream for the package tables,
	// so every process finds the same multipliers.
	DefaultMagicSeed uint64 = 0x70617764726f7070

	// DefaultMagicTrials bounds the candidates tried per square.
	DefaultMagicTrials = 10_000_000
)

// Slider selects the rook or bishop half of a Tables.
type Slider uint8

const (
	RookSlider Slider = iota
	BishopSlider
)

func (s Slider) String() string {
	if s == BishopSlider {
		return "bishop"
	}
	return "rook"
}

func (s Slider) directions() *[4]direction {
	if s == BishopSlider {
		return &bishopDirections
	}
	return &rookDirections
}

// MagicEntry maps the relevant occupancy of one square to its attack set:
// Attacks[((occ & Mask) * Magic) >> Shift].
type MagicEntry struct {
	Mask    Bitboard
	Magic   uint64
	Shift   uint8
	Attacks []Bitboard
}

// Lookup returns the attack set for the given board occupancy.
func (e *MagicEntry) Lookup(occupied Bitboard) Bitboard {
	return e.Attacks[(uint64(occupied&e.Mask)*e.Magic)>>e.Shift]
}

// Tables holds magic lookups for both sliders on every square. A Tables is
// read-only once BuildTables returns it.
type Tables struct {
	Rook   [64]MagicEntry
	Bishop [64]MagicEntry

	// Trials counts candidates drawn across all squares.
	Trials int
}

// Entry returns the lookup for slider s on sq.
func (t *Tables) Entry(s Slider, sq Square) *MagicEntry {
	if s == BishopSlider {
		return &t.Bishop[sq]
	}
	return &t.Rook[sq]
}

// BuildTables searches a collision-free multiplier for every square and
// slider. Candidates come from a ChaCha stream keyed by seed. If any square
// needs more than maxTrials candidates the error wraps ErrMagicNotFound.
func BuildTables(seed uint64, maxTrials int) (*Tables, error) {
	rng := newSeededRNG(seed)
	t := &Tables{}
	for _, s := range []Slider{RookSlider, BishopSlider} {
		for sq := A1; sq <= H8; sq++ {
			n, err := t.Entry(s, sq).search(sq, s, rng, maxTrials)
			t.Trials += n
			if err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// relevantMask is the set of squares whose occupancy can change a slider's
// attacks from sq: every ray square except the last one before the edge.
func relevantMask(sq Square, s Slider) Bitboard {
	var mask Bitboard
	for _, d := range s.directions() {
		f, r := sq.File()+d.df, sq.Rank()+d.dr
		for onBoard(f+d.df, r+d.dr) {
			mask |= SquareBB(NewSquare(f, r))
			f += d.df
			r += d.dr
		}
	}
	return mask
}

// subsets enumerates every subset of mask, starting with the empty set.
func subsets(mask Bitboard) []Bitboard {
	out := make([]Bitboard, 0, 1<<mask.PopCount())
	occ := Empty
	for {
		out = append(out, occ)
		occ = (occ - mask) & mask
		if occ == Empty {
			return out
		}
	}
}

func (e *MagicEntry) search(sq Square, s Slider, rng *frand.RNG, maxTrials int) (int, error) {
	mask := relevantMask(sq, s)
	relevant := mask.PopCount()
	shift := uint8(64 - relevant)

	occs := subsets(mask)
	refs := make([]Bitboard, len(occs))
	for i, occ := range occs {
		refs[i] = slideAttacks(sq, occ, s.directions())
	}

	table := make([]Bitboard, len(occs))
	// stamp[i] == trial marks table[i] as written during the current trial,
	// so the table never needs clearing between candidates.
	stamp := make([]int, len(occs))

	for trial := 1; trial <= maxTrials; trial++ {
		magic := sparseUint64(rng)
		if Bitboard((uint64(mask)*magic)&0xFF00000000000000).PopCount() < 6 {
			continue
		}

		ok := true
		for i, occ := range occs {
			idx := (uint64(occ) * magic) >> shift
			if stamp[idx] != trial {
				stamp[idx] = trial
				table[idx] = refs[i]
			} else if table[idx] != refs[i] {
				ok = false
				break
			}
		}
		if ok {
			*e = MagicEntry{Mask: mask, Magic: magic, Shift: shift, Attacks: table}
			return trial, nil
		}
	}
	return maxTrials, fmt.Errorf("%w: %s on %s after %d trials", ErrMagicNotFound, s, sq, maxTrials)
}

// Verify compares every lookup against the ray caster for all relevant
// occupancies of every square.
func (t *Tables) Verify() error {
	for _, s := range []Slider{RookSlider, BishopSlider} {
		for sq := A1; sq <= H8; sq++ {
			e := t.Entry(s, sq)
			if want := relevantMask(sq, s); e.Mask != want {
				return fmt.Errorf("%s on %s: mask %#x, want %#x", s, sq, uint64(e.Mask), uint64(want))
			}
			for _, occ := range subsets(e.Mask) {
				got, want := e.Lookup(occ), slideAttacks(sq, occ, s.directions())
				if got != want {
					return fmt.Errorf("%s on %s: occupancy %#x gives %#x, want %#x",
						s, sq, uint64(occ), uint64(got), uint64(want))
				}
			}
		}
	}
	return nil
}

// newSeededRNG returns a deterministic ChaCha stream for seed.
func newSeededRNG(seed uint64) *frand.RNG {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	return frand.NewCustom(key[:], 1024, 12)
}

func randUint64(rng *frand.RNG) uint64 {
	var buf [8]byte
	rng.Read(buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}

// sparseUint64 ANDs three random words; magics with few set bits index
// well.
func sparseUint64(rng *frand.RNG) uint64 {
	return randUint64(rng) & randUint64(rng) & randUint64(rng)
}
