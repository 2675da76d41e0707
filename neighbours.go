package resample

import (
	"container/heap"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// A NeighbourSearcher finds, for each target point, up to k nearby source
// points within a cutoff radius, ordered by increasing distance. Missing
// candidates are reported through the validity slice, never by truncation.
type NeighbourSearcher interface {
	Nearest(srcX, srcY, tgtX, tgtY []float64, k int, radius float64) (*CandidateSet, error)
}

// A CandidateSet holds, for each target point, k candidate source points in
// planar coordinates. All slices have length k times the number of target
// points; candidate j of target point i is at index i*k+j. Idx indexes the
// reduced valid-source arrays and is 0 for invalid candidates.
type CandidateSet struct {
	K     int
	X     []float64
	Y     []float64
	Idx   []int32
	Valid []bool
}

// A planarPoint is a kd-tree comparable carrying its index in the reduced
// source arrays.
type planarPoint struct {
	x, y float64
	idx  int32
}

func (p planarPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(planarPoint)
	switch d {
	case 0:
		return p.x - q.x
	default:
		return p.y - q.y
	}
}

func (p planarPoint) Dims() int { return 2 }

// Distance returns the squared Euclidean distance.
func (p planarPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(planarPoint)
	dx := p.x - q.x
	dy := p.y - q.y
	return dx*dx + dy*dy
}

type planarPoints []planarPoint

func (p planarPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p planarPoints) Len() int                              { return len(p) }
func (p planarPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot uses median-of-medians rather than sampled medians so that tree
// construction, and therefore candidate ordering under distance ties, is
// deterministic.
func (p planarPoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(planarPlane{planarPoints: p, Dim: d}, kdtree.MedianOfMedians(planarPlane{planarPoints: p, Dim: d}))
}

type planarPlane struct {
	planarPoints
	kdtree.Dim
}

func (p planarPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.planarPoints[i].x < p.planarPoints[j].x
	default:
		return p.planarPoints[i].y < p.planarPoints[j].y
	}
}

func (p planarPlane) Swap(i, j int) {
	p.planarPoints[i], p.planarPoints[j] = p.planarPoints[j], p.planarPoints[i]
}

func (p planarPlane) Slice(start, end int) kdtree.SortSlicer {
	return planarPlane{planarPoints: p.planarPoints[start:end], Dim: p.Dim}
}

// A KDTreeSearcher is a NeighbourSearcher backed by a 2-D kd-tree over the
// source points.
type KDTreeSearcher struct{}

func NewKDTreeSearcher() *KDTreeSearcher {
	return &KDTreeSearcher{}
}

func (s *KDTreeSearcher) Nearest(srcX, srcY, tgtX, tgtY []float64, k int, radius float64) (*CandidateSet, error) {
	points := make(planarPoints, 0, len(srcX))
	for i := range srcX {
		if isFinite(srcX[i]) && isFinite(srcY[i]) {
			points = append(points, planarPoint{x: srcX[i], y: srcY[i], idx: int32(i)})
		}
	}

	n := len(tgtX)
	candidates := &CandidateSet{
		K:     k,
		X:     make([]float64, n*k),
		Y:     make([]float64, n*k),
		Idx:   make([]int32, n*k),
		Valid: make([]bool, n*k),
	}
	for i := range candidates.X {
		candidates.X[i] = math.NaN()
		candidates.Y[i] = math.NaN()
	}
	if len(points) == 0 {
		return candidates, nil
	}

	tree := kdtree.New(points, false)
	radiusSq := radius * radius
	nearest := make([]planarPoint, 0, k)
	dists := make([]float64, 0, k)
	for i := range tgtX {
		if !isFinite(tgtX[i]) || !isFinite(tgtY[i]) {
			continue
		}

		keeper := kdtree.NewNKeeper(k)
		tree.NearestSet(keeper, planarPoint{x: tgtX[i], y: tgtY[i]})

		nearest = nearest[:0]
		dists = dists[:0]
		for keeper.Len() > 0 {
			item := heap.Pop(keeper).(kdtree.ComparableDist)
			if item.Comparable == nil || item.Dist > radiusSq {
				continue
			}
			nearest = append(nearest, item.Comparable.(planarPoint))
			dists = append(dists, item.Dist)
		}

		// The keeper pops farthest-first; re-order by increasing
		// distance, breaking ties by source index for determinism.
		order := make([]int, len(nearest))
		for j := range order {
			order[j] = j
		}
		sort.Slice(order, func(a, b int) bool {
			if dists[order[a]] != dists[order[b]] {
				return dists[order[a]] < dists[order[b]]
			}
			return nearest[order[a]].idx < nearest[order[b]].idx
		})

		for j, o := range order {
			point := nearest[o]
			candidates.X[i*k+j] = point.x
			candidates.Y[i*k+j] = point.y
			candidates.Idx[i*k+j] = point.idx
			candidates.Valid[i*k+j] = true
		}
	}

	return candidates, nil
}
