package resample

import (
	"errors"
	"math"
)

var errCoordLengthMismatch = errors.New("longitude and latitude lengths differ")

// A Grid provides the geographic coordinates of a source or target grid as
// flat, equal-length longitude and latitude slices. Coordinates of invalid
// grid points are NaN.
type Grid interface {
	LonLats() (lons, lats []float64, err error)
	Size() int
}

// A CRSGrid is a Grid with a native projected coordinate reference system.
type CRSGrid interface {
	Grid
	CRS() string
}

// A SwathGrid is an irregular grid defined by per-point longitudes and
// latitudes, for example a satellite swath.
type SwathGrid struct {
	lons []float64
	lats []float64
}

// NewSwathGrid returns a new SwathGrid. Coordinates outside [-180, 180]
// longitude or [-90, 90] latitude are treated as absent and replaced with
// NaN.
func NewSwathGrid(lons, lats []float64) (*SwathGrid, error) {
	if len(lons) != len(lats) {
		return nil, errCoordLengthMismatch
	}
	maskedLons := make([]float64, len(lons))
	maskedLats := make([]float64, len(lats))
	copy(maskedLons, lons)
	copy(maskedLats, lats)
	maskCoords(maskedLons, maskedLats)
	return &SwathGrid{
		lons: maskedLons,
		lats: maskedLats,
	}, nil
}

func (g *SwathGrid) LonLats() ([]float64, []float64, error) {
	return g.lons, g.lats, nil
}

func (g *SwathGrid) Size() int {
	return len(g.lons)
}

// maskCoords replaces coordinate pairs outside the valid longitude/latitude
// ranges with NaN, in place.
func maskCoords(lons, lats []float64) {
	for i := range lons {
		if lons[i] < -180 || lons[i] > 180 || lats[i] < -90 || lats[i] > 90 {
			lons[i] = math.NaN()
			lats[i] = math.NaN()
		}
	}
}
