package resample

import (
	"errors"
	"fmt"
	"math"
)

var errNoChannelFit = errors.New("data length is not a multiple of the source point count")

// A WeightTable is the reusable result of resolving resampling geometry
// between a source and a target grid. It is independent of any particular
// data layer: the same table can be applied to any number of layers sharing
// the source grid's geometry.
type WeightTable struct {
	// T and S are the per-target-point vertical and horizontal fractional
	// coordinates, each in [0, 1] or NaN where the target point could not
	// be resolved.
	T []float64
	S []float64
	// ValidInput flags, per flattened source grid point, whether the
	// point's coordinates were valid. Corner indexes refer to the reduced
	// array of valid source points only.
	ValidInput []bool
	// NumValidInput is the number of true elements in ValidInput.
	NumValidInput int
	// Corners holds four indexes per target point, in upper-left,
	// upper-right, lower-left, lower-right order, into the reduced source
	// array. Absent corners index slot 0; their NaN fractional
	// coordinates keep the slot's value out of any result.
	Corners []int32
}

// NumTargets returns the number of target points in the table.
func (wt *WeightTable) NumTargets() int {
	return len(wt.T)
}

// reduce returns data restricted to the valid source points. It accepts
// either a full source-grid layer or one already reduced to the valid
// points.
func (wt *WeightTable) reduce(data []float64) ([]float64, error) {
	switch len(data) {
	case wt.NumValidInput:
		return data, nil
	case len(wt.ValidInput):
		reduced := make([]float64, 0, wt.NumValidInput)
		for i, valid := range wt.ValidInput {
			if valid {
				reduced = append(reduced, data[i])
			}
		}
		return reduced, nil
	default:
		return nil, fmt.Errorf("data length %d matches neither source size %d nor valid source point count %d", len(data), len(wt.ValidInput), wt.NumValidInput)
	}
}

// Apply resamples one data layer onto the target grid. Unresolved target
// points, and results rejected by the extrapolation guard, are NaN.
func (wt *WeightTable) Apply(data []float64) ([]float64, error) {
	reduced, err := wt.reduce(data)
	if err != nil {
		return nil, err
	}

	n := wt.NumTargets()
	result := make([]float64, n)
	if len(reduced) == 0 {
		for i := range result {
			result[i] = math.NaN()
		}
		return result, nil
	}

	// Observed data range for the extrapolation guard, ignoring NaNs.
	dataMin := math.Inf(1)
	dataMax := math.Inf(-1)
	for _, v := range reduced {
		if math.IsNaN(v) {
			continue
		}
		if v < dataMin {
			dataMin = v
		}
		if v > dataMax {
			dataMax = v
		}
	}

	for i := range n {
		p1 := reduced[wt.Corners[4*i+cornerUpperLeft]]
		p2 := reduced[wt.Corners[4*i+cornerUpperRight]]
		p3 := reduced[wt.Corners[4*i+cornerLowerLeft]]
		p4 := reduced[wt.Corners[4*i+cornerLowerRight]]
		t, s := wt.T[i], wt.S[i]

		v := p1*(1-s)*(1-t) +
			p2*s*(1-t) +
			p3*(1-s)*t +
			p4*s*t

		// Anything outside the observed range is unreliable
		// extrapolation. NaN fails both comparisons and stays NaN.
		if v < dataMin || v > dataMax {
			v = math.NaN()
		}
		result[i] = v
	}

	return result, nil
}

// ApplyChannels resamples a multi-channel layer. Data is point-major: all
// channels of the first source point, then all channels of the second, and
// so on. The channel count is inferred from the data length; it must be an
// exact multiple of either the source grid size or the valid source point
// count.
func (wt *WeightTable) ApplyChannels(data []float64) ([][]float64, error) {
	var points, channels int
	switch {
	case wt.NumValidInput > 0 && len(data)%wt.NumValidInput == 0:
		points = wt.NumValidInput
		channels = len(data) / wt.NumValidInput
	case len(wt.ValidInput) > 0 && len(data)%len(wt.ValidInput) == 0:
		points = len(wt.ValidInput)
		channels = len(data) / len(wt.ValidInput)
	default:
		return nil, errNoChannelFit
	}

	results := make([][]float64, channels)
	channelData := make([]float64, points)
	for c := range channels {
		for p := range points {
			channelData[p] = data[p*channels+c]
		}
		result, err := wt.Apply(channelData)
		if err != nil {
			return nil, err
		}
		results[c] = result
	}
	return results, nil
}

// MaskOf returns the validity mask of a resampled layer: true marks
// unresolved or guarded-out points.
func MaskOf(values []float64) []bool {
	mask := make([]bool, len(values))
	for i, v := range values {
		mask[i] = math.IsNaN(v)
	}
	return mask
}

// Reshape lays out a flat resampled layer as rows x cols. It is a pure
// layout transform.
func Reshape(values []float64, rows, cols int) ([][]float64, error) {
	if rows*cols != len(values) {
		return nil, fmt.Errorf("cannot reshape %d values to %dx%d", len(values), rows, cols)
	}
	reshaped := make([][]float64, rows)
	for r := range rows {
		reshaped[r] = values[r*cols : (r+1)*cols]
	}
	return reshaped, nil
}
