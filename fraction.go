package resample

import "math"

// Fractional coordinates locate a target point inside its bounding
// quadrilateral: t is the vertical fraction from the upper edge, s the
// horizontal fraction from the left edge. The solve follows
// http://www.ahinson.com/algorithms_general/Sections/InterpolationRegression/InterpolationIrregularBilinear.pdf
// with a branch per shape class.

// A quadBatch gathers the corner and target coordinates of a subset of
// target points into aligned slices.
type quadBatch struct {
	x1, y1 []float64 // Upper-left.
	x2, y2 []float64 // Upper-right.
	x3, y3 []float64 // Lower-left.
	x4, y4 []float64 // Lower-right.
	outX   []float64
	outY   []float64
}

func gatherQuads(corners *CornerSet, indexes []int, tgtX, tgtY []float64) *quadBatch {
	q := &quadBatch{
		x1:   make([]float64, len(indexes)),
		y1:   make([]float64, len(indexes)),
		x2:   make([]float64, len(indexes)),
		y2:   make([]float64, len(indexes)),
		x3:   make([]float64, len(indexes)),
		y3:   make([]float64, len(indexes)),
		x4:   make([]float64, len(indexes)),
		y4:   make([]float64, len(indexes)),
		outX: make([]float64, len(indexes)),
		outY: make([]float64, len(indexes)),
	}
	for j, i := range indexes {
		q.x1[j], q.y1[j] = corners.X[cornerUpperLeft][i], corners.Y[cornerUpperLeft][i]
		q.x2[j], q.y2[j] = corners.X[cornerUpperRight][i], corners.Y[cornerUpperRight][i]
		q.x3[j], q.y3[j] = corners.X[cornerLowerLeft][i], corners.Y[cornerLowerLeft][i]
		q.x4[j], q.y4[j] = corners.X[cornerLowerRight][i], corners.Y[cornerLowerRight][i]
		q.outX[j], q.outY[j] = tgtX[i], tgtY[i]
	}
	return q
}

// solveFractions computes (t, s) for every target point, dispatching each
// mutually-exclusive shape-class subset to its solver. Any pair with a
// fraction outside [0, 1], including NaN from absent corners or degenerate
// geometry, is invalidated as a whole.
func solveFractions(corners *CornerSet, shapes []ShapeClass, tgtX, tgtY []float64) ([]float64, []float64) {
	n := len(tgtX)
	t := make([]float64, n)
	s := make([]float64, n)
	for i := range n {
		t[i] = math.NaN()
		s[i] = math.NaN()
	}

	for _, class := range []ShapeClass{ShapeIrregular, ShapeUprightsParallel, ShapeParallelogram} {
		var indexes []int
		for i, shape := range shapes {
			if shape == class {
				indexes = append(indexes, i)
			}
		}
		if len(indexes) == 0 {
			continue
		}
		quads := gatherQuads(corners, indexes, tgtX, tgtY)
		var tc, sc []float64
		switch class {
		case ShapeIrregular:
			tc, sc = solveIrregular(quads)
		case ShapeUprightsParallel:
			tc, sc = solveUprightsParallel(quads)
		case ShapeParallelogram:
			tc, sc = solveParallelogram(quads)
		}
		for j, i := range indexes {
			t[i] = tc[j]
			s[i] = sc[j]
		}
	}

	for i := range n {
		if !inUnitInterval(t[i]) || !inUnitInterval(s[i]) {
			t[i] = math.NaN()
			s[i] = math.NaN()
		}
	}

	return t, s
}

func inUnitInterval(f float64) bool {
	return 0 <= f && f <= 1
}

// solveIrregular handles quadrilaterals with no parallel sides: t is a root
// of a quadratic in the corner cross-differences, s follows linearly.
func solveIrregular(q *quadBatch) ([]float64, []float64) {
	n := len(q.outX)
	a := make([]float64, n)
	b := make([]float64, n)
	c := make([]float64, n)
	for i := range n {
		x21 := q.x2[i] - q.x1[i]
		x31 := q.x3[i] - q.x1[i]
		x42 := q.x4[i] - q.x2[i]
		y21 := q.y2[i] - q.y1[i]
		y31 := q.y3[i] - q.y1[i]
		y42 := q.y4[i] - q.y2[i]

		a[i] = x31*y42 - y31*x42
		b[i] = q.outY[i]*(x42-x31) - q.outX[i]*(y42-y31) +
			x31*q.y2[i] - y31*q.x2[i] +
			q.x1[i]*y42 - q.y1[i]*x42
		c[i] = q.outY[i]*x21 - q.outX[i]*y21 + q.x1[i]*q.y2[i] - q.x2[i]*q.y1[i]
	}

	t := solveQuadratic(a, b, c, 0, 1)

	s := make([]float64, n)
	for i := range n {
		y31 := q.y3[i] - q.y1[i]
		y42 := q.y4[i] - q.y2[i]
		s[i] = (q.outY[i] - q.y1[i] - y31*t[i]) /
			(q.y2[i] + y42*t[i] - q.y1[i] - y31*t[i])
		if !inUnitInterval(s[i]) {
			s[i] = math.NaN()
		}
	}

	return t, s
}

// solveUprightsParallel handles quadrilaterals whose vertical sides are
// parallel: the quadratic is in s, with t following linearly.
func solveUprightsParallel(q *quadBatch) ([]float64, []float64) {
	n := len(q.outX)
	a := make([]float64, n)
	b := make([]float64, n)
	c := make([]float64, n)
	for i := range n {
		x21 := q.x2[i] - q.x1[i]
		x31 := q.x3[i] - q.x1[i]
		x43 := q.x4[i] - q.x3[i]
		y21 := q.y2[i] - q.y1[i]
		y31 := q.y3[i] - q.y1[i]
		y43 := q.y4[i] - q.y3[i]

		a[i] = x21*y43 - y21*x43
		b[i] = q.outY[i]*(x43-x21) - q.outX[i]*(y43-y21) +
			q.x1[i]*y43 - q.y1[i]*x43 +
			x21*q.y3[i] - y21*q.x3[i]
		c[i] = q.outY[i]*x31 - q.outX[i]*y31 + q.x1[i]*q.y3[i] - q.x3[i]*q.y1[i]
	}

	s := solveQuadratic(a, b, c, 0, 1)

	t := make([]float64, n)
	for i := range n {
		y21 := q.y2[i] - q.y1[i]
		y43 := q.y4[i] - q.y3[i]
		t[i] = (q.outY[i] - q.y1[i] - y21*s[i]) /
			(q.y3[i] + y43*s[i] - q.y1[i] - y21*s[i])
		if !inUnitInterval(t[i]) {
			t[i] = math.NaN()
		}
	}

	return t, s
}

// solveParallelogram handles quadrilaterals with both side pairs parallel:
// both relations are linear and no quadratic is needed.
func solveParallelogram(q *quadBatch) ([]float64, []float64) {
	n := len(q.outX)
	t := make([]float64, n)
	s := make([]float64, n)
	for i := range n {
		x21 := q.x2[i] - q.x1[i]
		x31 := q.x3[i] - q.x1[i]
		y21 := q.y2[i] - q.y1[i]
		y31 := q.y3[i] - q.y1[i]

		t[i] = (x21*(q.outY[i]-q.y1[i]) - y21*(q.outX[i]-q.x1[i])) /
			(x21*y31 - y21*x31)
		if !inUnitInterval(t[i]) {
			t[i] = math.NaN()
		}

		s[i] = (q.outX[i] - q.x1[i] - x31*t[i]) / x21
		if !inUnitInterval(s[i]) {
			s[i] = math.NaN()
		}
	}
	return t, s
}
