package engine

import (
	"math/bits"

	"github.com/samber/lo"

	"github.com/hailam/pawndropper/internal/board"
)

// TTFlag says how a stored score relates to the true value.
type TTFlag uint8

const (
	TTExact      TTFlag = iota
	TTLowerBound        // score >= stored, the node failed high
	TTUpperBound        // score <= stored, no move raised alpha
)

// TTEntry is one slot of the table; 16 bytes.
type TTEntry struct {
	Key      uint64
	BestMove board.Move
	Score    int16
	Depth    int8
	Flag     TTFlag
}

const ttEntryBytes = 16

// TranspositionTable caches search results within one search. It is owned
// by a single searcher and is not safe for concurrent use.
type TranspositionTable struct {
	entries []TTEntry
	mask    uint64

	hits   uint64
	probes uint64
}

// NewTranspositionTable allocates the largest power-of-two number of
// entries that fits in sizeMB megabytes (at least 1).
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	sizeMB = max(sizeMB, 1)
	fit := uint64(sizeMB) << 20 / ttEntryBytes
	n := uint64(1) << (bits.Len64(fit) - 1)
	return &TranspositionTable{
		entries: make([]TTEntry, n),
		mask:    n - 1,
	}
}

// Probe looks up a position in the transposition table.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++
	entry := tt.entries[hash&tt.mask]
	if entry.Key == hash && entry.Depth > 0 {
		tt.hits++
		return entry, true
	}
	return TTEntry{}, false
}

// Store saves a result, keeping a deeper entry for the same position.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move) {
	entry := &tt.entries[hash&tt.mask]
	if entry.Key == hash && int(entry.Depth) > depth {
		return
	}
	*entry = TTEntry{
		Key:      hash,
		BestMove: bestMove,
		Score:    int16(score),
		Depth:    int8(depth),
		Flag:     flag,
	}
}

// NewSearch empties the table; entries never outlive one search.
func (tt *TranspositionTable) NewSearch() {
	tt.Clear()
}

// Clear clears the transposition table.
func (tt *TranspositionTable) Clear() {
	clear(tt.entries)
	tt.hits = 0
	tt.probes = 0
}

// HashFull estimates the used share of the table in permille from its
// first thousand slots.
func (tt *TranspositionTable) HashFull() int {
	sample := tt.entries[:min(1000, len(tt.entries))]
	used := lo.CountBy(sample, func(e TTEntry) bool { return e.Depth > 0 })
	return used * 1000 / len(sample)
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// Size returns the number of entries in the table.
func (tt *TranspositionTable) Size() uint64 { return uint64(len(tt.entries)) }

// AdjustScoreFromTT converts a stored mate score back to distance from the
// current root.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT stores mate scores as distance from the node.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
