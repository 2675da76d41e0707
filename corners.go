package resample

import "math"

// Corner positions within a CornerSet.
const (
	cornerUpperLeft = iota
	cornerUpperRight
	cornerLowerLeft
	cornerLowerRight
	numCorners
)

// A CornerSet holds, for each target point, the four source points bounding
// it: upper-left, upper-right, lower-left, and lower-right. Absent corners
// have NaN coordinates and index 0.
type CornerSet struct {
	X   [numCorners][]float64
	Y   [numCorners][]float64
	Idx [numCorners][]int32
}

// selectCorners picks, for each target point and each planar quadrant around
// it, the nearest valid candidate. Candidates are ordered by increasing
// distance, so the first candidate in a quadrant wins.
func selectCorners(candidates *CandidateSet, tgtX, tgtY []float64) *CornerSet {
	n := len(tgtX)
	corners := &CornerSet{}
	for q := range numCorners {
		corners.X[q] = make([]float64, n)
		corners.Y[q] = make([]float64, n)
		corners.Idx[q] = make([]int32, n)
	}

	k := candidates.K
	for i := range n {
		for q := range numCorners {
			corners.X[q][i] = math.NaN()
			corners.Y[q][i] = math.NaN()
		}
		for j := range k {
			c := i*k + j
			if !candidates.Valid[c] {
				continue
			}
			dx := tgtX[i] - candidates.X[c]
			dy := tgtY[i] - candidates.Y[c]
			q := -1
			switch {
			case dx > 0 && dy < 0:
				q = cornerUpperLeft
			case dx < 0 && dy < 0:
				q = cornerUpperRight
			case dx > 0 && dy > 0:
				q = cornerLowerLeft
			case dx < 0 && dy > 0:
				q = cornerLowerRight
			}
			if q < 0 || !math.IsNaN(corners.X[q][i]) {
				continue
			}
			corners.X[q][i] = candidates.X[c]
			corners.Y[q][i] = candidates.Y[c]
			corners.Idx[q][i] = candidates.Idx[c]
		}
	}

	return corners
}
