package resample

// A ShapeClass classifies the quadrilateral around a target point by which
// of its side pairs are parallel.
type ShapeClass uint8

const (
	// ShapeIrregular means the vertical sides are not parallel.
	ShapeIrregular ShapeClass = iota
	// ShapeUprightsParallel means the vertical sides are parallel but the
	// horizontal sides are not.
	ShapeUprightsParallel
	// ShapeParallelogram means both side pairs are parallel.
	ShapeParallelogram
)

// classifyShapes determines the shape class of each target point's
// quadrilateral. Parallelism is a cross-product test with exact
// floating-point equality: the classes must be disjoint and stable, and
// near-parallel quadrilaterals deliberately fall through to the quadratic
// path. Quadrilaterals with absent corners classify as irregular and
// resolve to NaN downstream.
func classifyShapes(corners *CornerSet) []ShapeClass {
	n := len(corners.X[cornerUpperLeft])
	shapes := make([]ShapeClass, n)
	for i := range n {
		x1, y1 := corners.X[cornerUpperLeft][i], corners.Y[cornerUpperLeft][i]
		x2, y2 := corners.X[cornerUpperRight][i], corners.Y[cornerUpperRight][i]
		x3, y3 := corners.X[cornerLowerLeft][i], corners.Y[cornerLowerLeft][i]
		x4, y4 := corners.X[cornerLowerRight][i], corners.Y[cornerLowerRight][i]

		vertParallel := (x3-x1)*(y4-y2)-(x4-x2)*(y3-y1) == 0
		horizParallel := (x2-x1)*(y4-y3)-(x4-x3)*(y2-y1) == 0

		switch {
		case vertParallel && horizParallel:
			shapes[i] = ShapeParallelogram
		case vertParallel:
			shapes[i] = ShapeUprightsParallel
		default:
			shapes[i] = ShapeIrregular
		}
	}
	return shapes
}
