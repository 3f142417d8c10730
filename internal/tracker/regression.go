package tracker

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/your-org/mva/internal/frame"
)

// LinearFit is the result of fitting a line to a set of points by
// minimizing perpendicular (not vertical) distance: a Deming/orthogonal
// regression, equivalent to taking the first principal component of the
// centered point cloud.
type LinearFit struct {
	Point     frame.Point // a point the line passes through (the centroid)
	Direction [2]float64  // unit direction vector
	MeanError float64     // mean perpendicular distance of the inputs to the line
}

// LinearRegres fits points by orthogonal regression. Fewer than two
// distinct points yields a zero-direction fit with zero error.
func LinearRegres(points []frame.Point) LinearFit {
	n := len(points)
	if n < 2 {
		if n == 1 {
			return LinearFit{Point: points[0]}
		}
		return LinearFit{}
	}

	var meanX, meanY float64
	for _, p := range points {
		meanX += float64(p.X)
		meanY += float64(p.Y)
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var varX, varY, cov float64
	for _, p := range points {
		dx := float64(p.X) - meanX
		dy := float64(p.Y) - meanY
		varX += dx * dx
		varY += dy * dy
		cov += dx * dy
	}
	varX /= float64(n)
	varY /= float64(n)
	cov /= float64(n)

	sym := mat.NewSymDense(2, []float64{varX, cov, cov, varY})
	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return LinearFit{Point: frame.Point{X: int(meanX), Y: int(meanY)}}
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	// The principal direction is the eigenvector of the larger eigenvalue.
	col := 0
	if values[1] > values[0] {
		col = 1
	}
	dx, dy := vectors.At(0, col), vectors.At(1, col)
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		norm = 1
	}
	dx, dy = dx/norm, dy/norm

	var sumErr float64
	for _, p := range points {
		px := float64(p.X) - meanX
		py := float64(p.Y) - meanY
		// perpendicular distance to the line through origin with direction (dx,dy)
		perp := math.Abs(px*dy - py*dx)
		sumErr += perp
	}

	return LinearFit{
		Point:     frame.Point{X: int(meanX), Y: int(meanY)},
		Direction: [2]float64{dx, dy},
		MeanError: sumErr / float64(n),
	}
}

// DistanceToLine returns the perpendicular distance from p to the fitted
// line.
func (f LinearFit) DistanceToLine(p frame.Point) float64 {
	px := float64(p.X - f.Point.X)
	py := float64(p.Y - f.Point.Y)
	return math.Abs(px*f.Direction[1] - py*f.Direction[0])
}
