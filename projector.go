package resample

import (
	"math"

	"github.com/twpayne/go-proj/v11"
)

// A Projector converts geographic longitude/latitude coordinates to planar
// x/y coordinates in which the quadrilateral geometry is solved. NaN
// coordinates project to NaN.
type Projector interface {
	Project(lons, lats []float64) (xs, ys []float64, err error)
}

// A projProjector is a Projector backed by a PROJ CRS-to-CRS transformation
// from EPSG:4326.
type projProjector struct {
	pj *proj.PJ
}

// NewProjProjector returns a Projector that projects EPSG:4326 longitude/
// latitude coordinates to crs.
//
// PROJ returns coordinates in the CRS's authority axis order; the flip back
// to (x, y) assumes that order is (northing, easting), as for EPSG:3035 and
// most national grids. For (easting, northing) CRSs such as UTM zones the
// planar axes come out swapped, which relabels t, s and the corners but
// leaves resampled values unchanged.
func NewProjProjector(crs string) (Projector, error) {
	pj, err := proj.NewCRSToCRS("epsg:4326", crs, nil)
	if err != nil {
		return nil, err
	}
	return &projProjector{pj: pj}, nil
}

func (p *projProjector) Project(lons, lats []float64) ([]float64, []float64, error) {
	xs := make([]float64, len(lons))
	ys := make([]float64, len(lons))

	// PROJ is only handed finite coordinate pairs; everything else stays
	// NaN.
	indexes := make([]int, 0, len(lons))
	for i := range lons {
		if isFinite(lons[i]) && isFinite(lats[i]) {
			indexes = append(indexes, i)
		} else {
			xs[i] = math.NaN()
			ys[i] = math.NaN()
		}
	}

	// EPSG:4326 axis order is latitude, longitude.
	coordsFlat := make([]float64, 2*len(indexes))
	coords := make([][]float64, len(indexes))
	for j, i := range indexes {
		coordsFlat[2*j] = lats[i]
		coordsFlat[2*j+1] = lons[i]
		coords[j] = coordsFlat[2*j : 2*j+2]
	}
	if err := p.pj.ForwardFloat64Slices(coords); err != nil {
		return nil, nil, err
	}
	for j, i := range indexes {
		x, y := coords[j][1], coords[j][0]
		if !isFinite(x) || !isFinite(y) {
			x = math.NaN()
			y = math.NaN()
		}
		xs[i] = x
		ys[i] = y
	}

	return xs, ys, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
