package resample

import (
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/maypok86/otter/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	weightTableCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resample_weight_table_cache_hits_total",
		Help: "The total number of hits on the weight table cache",
	})
	weightTableCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resample_weight_table_cache_misses_total",
		Help: "The total number of misses on the weight table cache",
	})
	projectorCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resample_projector_cache_hits_total",
		Help: "The total number of hits on the projector cache",
	})
	projectorCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resample_projector_cache_misses_total",
		Help: "The total number of misses on the projector cache",
	})
)

var errTooFewNeighbours = errors.New("at least 4 neighbours are required")

// A gridPair keys the weight table cache. Grid implementations used with a
// Resampler must be comparable; pointer implementations are.
type gridPair struct {
	source Grid
	target Grid
}

// A Resampler resamples data layers from a source grid onto a target grid
// with bilinear interpolation over irregularly spaced source points. The
// geometric resolution for a grid pair is computed once and cached; applying
// it to data layers is cheap and repeatable.
type Resampler struct {
	radius               float64
	neighbours           int
	crs                  string
	searcher             NeighbourSearcher
	projector            Projector
	weightTableCacheSize int
	projectors           *lru.Cache[string, Projector]
	weightTables         *otter.Cache[gridPair, *WeightTable]
}

// A ResamplerOption sets an option on a Resampler.
type ResamplerOption func(*Resampler)

// NewResampler returns a new Resampler with the given options.
func NewResampler(options ...ResamplerOption) (*Resampler, error) {
	r := &Resampler{
		radius:               50e3,
		neighbours:           32,
		crs:                  "epsg:4326",
		searcher:             NewKDTreeSearcher(),
		weightTableCacheSize: 8,
	}
	for _, option := range options {
		option(r)
	}

	if r.neighbours < 4 {
		return nil, errTooFewNeighbours
	}

	var err error
	r.projectors, err = lru.New[string, Projector](4)
	if err != nil {
		return nil, err
	}
	r.weightTables, err = otter.New(&otter.Options[gridPair, *WeightTable]{
		MaximumSize: r.weightTableCacheSize,
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// WithRadius sets the cutoff radius for candidate source points, in world
// units of the planar coordinate system.
func WithRadius(radius float64) ResamplerOption {
	return func(r *Resampler) {
		r.radius = radius
	}
}

// WithNeighbours sets the number of candidate source points considered per
// target point. It must be at least 4 for a corner to be findable in every
// quadrant.
func WithNeighbours(neighbours int) ResamplerOption {
	return func(r *Resampler) {
		r.neighbours = neighbours
	}
}

// WithCRS sets the planar coordinate reference system in which the geometry
// is solved, used for target grids that do not carry their own.
func WithCRS(crs string) ResamplerOption {
	return func(r *Resampler) {
		r.crs = crs
	}
}

// WithNeighbourSearcher sets the neighbour search implementation.
func WithNeighbourSearcher(searcher NeighbourSearcher) ResamplerOption {
	return func(r *Resampler) {
		r.searcher = searcher
	}
}

// WithProjector sets a fixed projector, bypassing per-CRS projector
// construction.
func WithProjector(projector Projector) ResamplerOption {
	return func(r *Resampler) {
		r.projector = projector
	}
}

// WithWeightTableCacheSize sets the number of grid pairs whose weight tables
// are kept.
func WithWeightTableCacheSize(size int) ResamplerOption {
	return func(r *Resampler) {
		r.weightTableCacheSize = size
	}
}

// WeightTable returns the weight table for resampling from source to target,
// computing it on first use and serving it from cache afterwards.
func (r *Resampler) WeightTable(ctx context.Context, source, target Grid) (*WeightTable, error) {
	pair := gridPair{source: source, target: target}
	if weightTable, ok := r.weightTables.GetIfPresent(pair); ok {
		weightTableCacheHits.Inc()
		return weightTable, nil
	}
	weightTableCacheMisses.Inc()
	return r.weightTables.Get(ctx, pair, otter.LoaderFunc[gridPair, *WeightTable](r.resolveGeometry))
}

// Resample resamples one data layer from source onto target. Unresolved
// target points are NaN; use [MaskOf] for a mask representation.
func (r *Resampler) Resample(ctx context.Context, data []float64, source, target Grid) ([]float64, error) {
	weightTable, err := r.WeightTable(ctx, source, target)
	if err != nil {
		return nil, err
	}
	return weightTable.Apply(data)
}

// ResampleChannels resamples a point-major multi-channel layer from source
// onto target, one result slice per channel.
func (r *Resampler) ResampleChannels(ctx context.Context, data []float64, source, target Grid) ([][]float64, error) {
	weightTable, err := r.WeightTable(ctx, source, target)
	if err != nil {
		return nil, err
	}
	return weightTable.ApplyChannels(data)
}

// resolveGeometry computes the weight table for a grid pair: project both
// grids to planar coordinates, find candidate source points around each
// target point, select the bounding corners, classify each quadrilateral,
// and solve the fractional coordinates.
func (r *Resampler) resolveGeometry(_ context.Context, pair gridPair) (*WeightTable, error) {
	srcLons, srcLats, err := pair.source.LonLats()
	if err != nil {
		return nil, err
	}
	tgtLons, tgtLats, err := pair.target.LonLats()
	if err != nil {
		return nil, err
	}

	validInput := make([]bool, len(srcLons))
	numValidInput := 0
	reducedLons := make([]float64, 0, len(srcLons))
	reducedLats := make([]float64, 0, len(srcLats))
	for i := range srcLons {
		if isFinite(srcLons[i]) && isFinite(srcLats[i]) {
			validInput[i] = true
			numValidInput++
			reducedLons = append(reducedLons, srcLons[i])
			reducedLats = append(reducedLats, srcLats[i])
		}
	}

	projector, err := r.projectorFor(pair.target)
	if err != nil {
		return nil, err
	}
	srcX, srcY, err := projector.Project(reducedLons, reducedLats)
	if err != nil {
		return nil, err
	}
	tgtX, tgtY, err := projector.Project(tgtLons, tgtLats)
	if err != nil {
		return nil, err
	}

	candidates, err := r.searcher.Nearest(srcX, srcY, tgtX, tgtY, r.neighbours, r.radius)
	if err != nil {
		return nil, err
	}

	corners := selectCorners(candidates, tgtX, tgtY)
	shapes := classifyShapes(corners)
	t, s := solveFractions(corners, shapes, tgtX, tgtY)

	n := len(tgtX)
	cornerIdx := make([]int32, numCorners*n)
	for i := range n {
		for q := range numCorners {
			cornerIdx[numCorners*i+q] = corners.Idx[q][i]
		}
	}

	return &WeightTable{
		T:             t,
		S:             s,
		ValidInput:    validInput,
		NumValidInput: numValidInput,
		Corners:       cornerIdx,
	}, nil
}

// projectorFor returns the projector for a target grid: a fixed projector if
// one was set, otherwise a cached per-CRS PROJ projector using the grid's
// own CRS when it has one.
func (r *Resampler) projectorFor(target Grid) (Projector, error) {
	if r.projector != nil {
		return r.projector, nil
	}
	crs := r.crs
	if crsGrid, ok := target.(CRSGrid); ok {
		crs = crsGrid.CRS()
	}
	if projector, ok := r.projectors.Get(crs); ok {
		projectorCacheHits.Inc()
		return projector, nil
	}
	projectorCacheMisses.Inc()
	projector, err := NewProjProjector(crs)
	if err != nil {
		return nil, err
	}
	r.projectors.Add(crs, projector)
	return projector, nil
}
