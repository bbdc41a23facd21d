package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hailam/pawndropper/internal/board"
)

func TestTranspositionTableStoreProbe(t *testing.T) {
	tt := NewTranspositionTable(1)
	assert.Equal(t, uint64(1<<16), tt.Size())

	m := board.NewMove(board.E2, board.E4, board.DoublePawnPush)
	const hash = 0xDEADBEEFCAFEF00D

	_, ok := tt.Probe(hash)
	assert.False(t, ok)

	tt.Store(hash, 3, 42, TTExact, m)
	e, ok := tt.Probe(hash)
	assert.True(t, ok)
	assert.Equal(t, m, e.BestMove)
	assert.Equal(t, int16(42), e.Score)
	assert.Equal(t, int8(3), e.Depth)
	assert.Equal(t, TTExact, e.Flag)

	// A shallower result for the same position does not replace a deeper one.
	tt.Store(hash, 1, -7, TTUpperBound, board.NoMove)
	e, _ = tt.Probe(hash)
	assert.Equal(t, int8(3), e.Depth)

	// Same slot, different key: replaced.
	other := uint64(hash ^ (1 << 60))
	tt.Store(other, 1, 5, TTLowerBound, board.NoMove)
	_, ok = tt.Probe(hash)
	assert.False(t, ok)
	assert.InDelta(t, 50.0, tt.HitRate(), 0.01)

	tt.NewSearch()
	_, ok = tt.Probe(other)
	assert.False(t, ok)
	assert.Equal(t, 0, tt.HashFull())
}

func TestAdjustMateScores(t *testing.T) {
	tests := []struct {
		score, ply int
	}{
		{MateScore - 3, 5},
		{-MateScore + 4, 2},
		{123, 7},
		{0, 0},
	}
	for _, tc := range tests {
		stored := AdjustScoreToTT(tc.score, tc.ply)
		assert.Equal(t, tc.score, AdjustScoreFromTT(stored, tc.ply))
	}
	assert.Equal(t, MateScore-1, AdjustScoreToTT(MateScore-3, 2))
	assert.Equal(t, 123, AdjustScoreToTT(123, 9))
}
