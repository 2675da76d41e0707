package resample

import (
	"fmt"
	"sync"

	"github.com/twpayne/go-proj/v11"
)

// An AreaGrid is a regular grid in a projected coordinate reference system.
// The origin is the center of the upper-left cell; y decreases with each row
// and x increases with each column, both by the cell size.
type AreaGrid struct {
	crs     string
	rows    int
	cols    int
	originX float64
	originY float64
	scaleX  float64
	scaleY  float64

	lonLatsOnce sync.Once
	lons        []float64
	lats        []float64
	lonLatsErr  error
}

// NewAreaGrid returns a new AreaGrid.
func NewAreaGrid(crs string, rows, cols int, originX, originY, scaleX, scaleY float64) (*AreaGrid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions %dx%d", rows, cols)
	}
	if scaleX <= 0 || scaleY <= 0 {
		return nil, fmt.Errorf("invalid cell size %gx%g", scaleX, scaleY)
	}
	return &AreaGrid{
		crs:     crs,
		rows:    rows,
		cols:    cols,
		originX: originX,
		originY: originY,
		scaleX:  scaleX,
		scaleY:  scaleY,
	}, nil
}

func (g *AreaGrid) CRS() string { return g.crs }

func (g *AreaGrid) Rows() int { return g.rows }

func (g *AreaGrid) Cols() int { return g.cols }

func (g *AreaGrid) Size() int { return g.rows * g.cols }

// XY returns the planar coordinates of the cell at row r, column c.
func (g *AreaGrid) XY(r, c int) (float64, float64) {
	return g.originX + float64(c)*g.scaleX, g.originY - float64(r)*g.scaleY
}

// LonLats returns the geographic coordinates of every cell in row-major
// order, computed once by inverse projection from the grid's CRS. The grid's
// planar axes follow the same (northing, easting) authority-order convention
// as NewProjProjector.
func (g *AreaGrid) LonLats() ([]float64, []float64, error) {
	g.lonLatsOnce.Do(func() {
		pj, err := proj.NewCRSToCRS("epsg:4326", g.crs, nil)
		if err != nil {
			g.lonLatsErr = err
			return
		}

		coordsFlat := make([]float64, 2*g.Size())
		coords := make([][]float64, g.Size())
		for r := range g.rows {
			for c := range g.cols {
				i := r*g.cols + c
				x, y := g.XY(r, c)
				coordsFlat[2*i] = y
				coordsFlat[2*i+1] = x
				coords[i] = coordsFlat[2*i : 2*i+2]
			}
		}
		if err := pj.InverseFloat64Slices(coords); err != nil {
			g.lonLatsErr = err
			return
		}

		lons := make([]float64, g.Size())
		lats := make([]float64, g.Size())
		for i, coord := range coords {
			lats[i] = coord[0]
			lons[i] = coord[1]
		}
		maskCoords(lons, lats)
		g.lons = lons
		g.lats = lats
	})
	return g.lons, g.lats, g.lonLatsErr
}
