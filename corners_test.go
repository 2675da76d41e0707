package resample

import (
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"
)

// newCandidateSet builds a CandidateSet for a single target point from
// (x, y, idx) triples already ordered by increasing distance.
func newCandidateSet(k int, points [][3]float64) *CandidateSet {
	candidates := &CandidateSet{
		K:     k,
		X:     make([]float64, k),
		Y:     make([]float64, k),
		Idx:   make([]int32, k),
		Valid: make([]bool, k),
	}
	for i := range k {
		candidates.X[i] = math.NaN()
		candidates.Y[i] = math.NaN()
	}
	for i, p := range points {
		candidates.X[i] = p[0]
		candidates.Y[i] = p[1]
		candidates.Idx[i] = int32(p[2])
		candidates.Valid[i] = true
	}
	return candidates
}

func TestSelectCorners(t *testing.T) {
	// Target at the origin; one candidate strictly inside each quadrant.
	candidates := newCandidateSet(8, [][3]float64{
		{-1, 1, 0},  // Upper-left.
		{1, 1, 1},   // Upper-right.
		{-1, -1, 2}, // Lower-left.
		{1, -1, 3},  // Lower-right.
	})
	corners := selectCorners(candidates, []float64{0}, []float64{0})

	assert.Equal(t, -1.0, corners.X[cornerUpperLeft][0])
	assert.Equal(t, 1.0, corners.Y[cornerUpperLeft][0])
	assert.Equal(t, int32(0), corners.Idx[cornerUpperLeft][0])

	assert.Equal(t, 1.0, corners.X[cornerUpperRight][0])
	assert.Equal(t, int32(1), corners.Idx[cornerUpperRight][0])

	assert.Equal(t, -1.0, corners.X[cornerLowerLeft][0])
	assert.Equal(t, int32(2), corners.Idx[cornerLowerLeft][0])

	assert.Equal(t, 1.0, corners.X[cornerLowerRight][0])
	assert.Equal(t, -1.0, corners.Y[cornerLowerRight][0])
	assert.Equal(t, int32(3), corners.Idx[cornerLowerRight][0])
}

func TestSelectCornersNearestWins(t *testing.T) {
	// Two upper-left candidates; the first in distance order must win even
	// though the second is also valid.
	candidates := newCandidateSet(4, [][3]float64{
		{-1, 1, 5},
		{-2, 2, 6},
	})
	corners := selectCorners(candidates, []float64{0}, []float64{0})

	assert.Equal(t, int32(5), corners.Idx[cornerUpperLeft][0])
	assert.Equal(t, -1.0, corners.X[cornerUpperLeft][0])
}

func TestSelectCornersMissingQuadrant(t *testing.T) {
	// No candidate in the lower-right quadrant.
	candidates := newCandidateSet(8, [][3]float64{
		{-1, 1, 0},
		{1, 1, 1},
		{-1, -1, 2},
	})
	corners := selectCorners(candidates, []float64{0}, []float64{0})

	assert.True(t, math.IsNaN(corners.X[cornerLowerRight][0]))
	assert.True(t, math.IsNaN(corners.Y[cornerLowerRight][0]))
	assert.Equal(t, int32(0), corners.Idx[cornerLowerRight][0])
}

func TestSelectCornersAxisAlignedCandidatesExcluded(t *testing.T) {
	// Candidates exactly on the target's axes fall in no quadrant.
	candidates := newCandidateSet(4, [][3]float64{
		{0, 1, 0},
		{1, 0, 1},
		{0, -1, 2},
		{-1, 0, 3},
	})
	corners := selectCorners(candidates, []float64{0}, []float64{0})

	for q := range numCorners {
		assert.True(t, math.IsNaN(corners.X[q][0]))
	}
}
