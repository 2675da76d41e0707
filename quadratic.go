package resample

import "math"

// solveQuadratic solves a[i]*x² + b[i]*x + c[i] = 0 element-wise and returns,
// for each element, the real root inside [minVal, maxVal]. The root from the
// positive branch of the discriminant is preferred; the negative branch is
// substituted where the positive one falls outside the interval. Elements
// with no root in the interval, a negative discriminant, or a degenerate
// leading coefficient are NaN.
func solveQuadratic(a, b, c []float64, minVal, maxVal float64) []float64 {
	roots := make([]float64, len(a))
	for i := range a {
		disc := math.Sqrt(b[i]*b[i] - 4*a[i]*c[i])
		x1 := (-b[i] + disc) / (2 * a[i])
		x2 := (-b[i] - disc) / (2 * a[i])
		x := x1
		if x < minVal || x > maxVal || math.IsNaN(x) {
			x = x2
		}
		if x < minVal || x > maxVal {
			x = math.NaN()
		}
		roots[i] = x
	}
	return roots
}
