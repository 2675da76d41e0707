package resample_test

import (
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"

	resample "github.com/twpayne/go-resample"
)

// planarProjector treats longitude and latitude as planar x and y directly,
// so test geometry can be reasoned about without PROJ.
type planarProjector struct{}

func (planarProjector) Project(lons, lats []float64) ([]float64, []float64, error) {
	xs := make([]float64, len(lons))
	ys := make([]float64, len(lats))
	copy(xs, lons)
	copy(ys, lats)
	return xs, ys, nil
}

// testSwath returns a 5x5 regular grid posing as a swath, with lon = column,
// lat = 4 - row, and an extra invalid source point appended, plus a data
// layer with value lon + 10*lat.
func testSwath(t *testing.T) (*resample.SwathGrid, []float64) {
	t.Helper()
	var lons, lats, data []float64
	for row := range 5 {
		for col := range 5 {
			lon := float64(col)
			lat := float64(4 - row)
			lons = append(lons, lon)
			lats = append(lats, lat)
			data = append(data, lon+10*lat)
		}
	}
	lons = append(lons, 999)
	lats = append(lats, 0)
	data = append(data, -1e9)
	grid, err := resample.NewSwathGrid(lons, lats)
	assert.NoError(t, err)
	return grid, data
}

func newTestResampler(t *testing.T, options ...resample.ResamplerOption) *resample.Resampler {
	t.Helper()
	resampler, err := resample.NewResampler(append([]resample.ResamplerOption{
		resample.WithProjector(planarProjector{}),
		resample.WithRadius(10),
	}, options...)...)
	assert.NoError(t, err)
	return resampler
}

func TestResamplerWeightTable(t *testing.T) {
	source, _ := testSwath(t)
	target, err := resample.NewSwathGrid(
		[]float64{1.25, 2.5, -1, 999},
		[]float64{2.25, 1.5, 2.5, 0},
	)
	assert.NoError(t, err)

	resampler := newTestResampler(t)
	weightTable, err := resampler.WeightTable(t.Context(), source, target)
	assert.NoError(t, err)

	assert.Equal(t, 26, len(weightTable.ValidInput))
	assert.Equal(t, 25, weightTable.NumValidInput)
	assert.False(t, weightTable.ValidInput[25])

	// Target 0 sits at row fraction 0.75, column fraction 0.25 of its
	// bounding cell.
	assert.Equal(t, 0.75, weightTable.T[0])
	assert.Equal(t, 0.25, weightTable.S[0])

	// Target 1 is a cell center.
	assert.Equal(t, 0.5, weightTable.T[1])
	assert.Equal(t, 0.5, weightTable.S[1])

	// Target 2 lies west of the grid: no upper-left or lower-left corner.
	assert.True(t, math.IsNaN(weightTable.T[2]))
	assert.True(t, math.IsNaN(weightTable.S[2]))

	// Target 3 has invalid coordinates.
	assert.True(t, math.IsNaN(weightTable.T[3]))
	assert.True(t, math.IsNaN(weightTable.S[3]))
}

func TestResamplerResample(t *testing.T) {
	source, data := testSwath(t)
	target, err := resample.NewSwathGrid(
		[]float64{1.25, 2.5, -1},
		[]float64{2.25, 1.5, 2.5},
	)
	assert.NoError(t, err)

	resampler := newTestResampler(t)
	result, err := resampler.Resample(t.Context(), data, source, target)
	assert.NoError(t, err)

	// The data layer is linear in lon and lat, so bilinear resampling
	// reproduces it exactly at resolved points.
	assert.Equal(t, 1.25+10*2.25, result[0])
	assert.Equal(t, 2.5+10*1.5, result[1])
	assert.True(t, math.IsNaN(result[2]))
}

func TestResamplerResampleChannels(t *testing.T) {
	source, data := testSwath(t)
	target, err := resample.NewSwathGrid([]float64{2.5}, []float64{1.5})
	assert.NoError(t, err)

	// Second channel offset by a constant, point-major interleaved.
	channelData := make([]float64, 0, 2*len(data))
	for _, v := range data {
		channelData = append(channelData, v, v+1000)
	}

	resampler := newTestResampler(t)
	results, err := resampler.ResampleChannels(t.Context(), channelData, source, target)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(results))
	assert.Equal(t, []float64{17.5}, results[0])
	assert.Equal(t, []float64{1017.5}, results[1])
}

func TestResamplerCutoffRadius(t *testing.T) {
	source, data := testSwath(t)
	target, err := resample.NewSwathGrid([]float64{20}, []float64{2})
	assert.NoError(t, err)

	resampler := newTestResampler(t)
	result, err := resampler.Resample(t.Context(), data, source, target)
	assert.NoError(t, err)
	assert.True(t, math.IsNaN(result[0]))
}

func TestResamplerWeightTableCached(t *testing.T) {
	source, _ := testSwath(t)
	target, err := resample.NewSwathGrid([]float64{2.5}, []float64{1.5})
	assert.NoError(t, err)

	resampler := newTestResampler(t)
	first, err := resampler.WeightTable(t.Context(), source, target)
	assert.NoError(t, err)
	second, err := resampler.WeightTable(t.Context(), source, target)
	assert.NoError(t, err)
	assert.True(t, first == second)
}

func TestResamplerDeterminism(t *testing.T) {
	source, data := testSwath(t)
	target, err := resample.NewSwathGrid(
		[]float64{1.25, 2.5, 0.5, 3.75},
		[]float64{2.25, 1.5, 0.5, 3.25},
	)
	assert.NoError(t, err)

	first := newTestResampler(t)
	second := newTestResampler(t)

	firstTable, err := first.WeightTable(t.Context(), source, target)
	assert.NoError(t, err)
	secondTable, err := second.WeightTable(t.Context(), source, target)
	assert.NoError(t, err)

	assert.Equal(t, firstTable.Corners, secondTable.Corners)
	for i := range firstTable.T {
		assert.Equal(t, math.Float64bits(firstTable.T[i]), math.Float64bits(secondTable.T[i]))
		assert.Equal(t, math.Float64bits(firstTable.S[i]), math.Float64bits(secondTable.S[i]))
	}

	firstResult, err := firstTable.Apply(data)
	assert.NoError(t, err)
	secondResult, err := secondTable.Apply(data)
	assert.NoError(t, err)
	for i := range firstResult {
		assert.Equal(t, math.Float64bits(firstResult[i]), math.Float64bits(secondResult[i]))
	}
}

func TestNewResamplerTooFewNeighbours(t *testing.T) {
	_, err := resample.NewResampler(resample.WithNeighbours(3))
	assert.Error(t, err)
}

func TestResamplerDataLengthMismatch(t *testing.T) {
	source, _ := testSwath(t)
	target, err := resample.NewSwathGrid([]float64{2.5}, []float64{1.5})
	assert.NoError(t, err)

	resampler := newTestResampler(t)
	_, err = resampler.Resample(t.Context(), []float64{1, 2, 3}, source, target)
	assert.Error(t, err)
}
