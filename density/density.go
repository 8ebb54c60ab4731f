package density

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mweagle/goscore/histogram"
)

// Step is the x distance between consecutive curve points.
const Step = 0.5

// Span is the number of standard deviations covered either side of the mean.
const Span = 4.0

// Point is a single point of the scaled density curve.
type Point struct {
	X           float64
	Y           float64
	BelowCutoff bool
}

// ScaleFactor converts a probability density into histogram count units for
// a sample of sampleSize scores.
func ScaleFactor(sampleSize int) float64 {
	return float64(sampleSize) * histogram.BinWidth
}

// Curve evaluates the scaled Gaussian density over mean ± Span·stdDev. Points
// are addressed by an integer step index so the x values don't drift. A
// non-positive or undefined stdDev produces no points.
func Curve(mean float64, stdDev float64, scaleFactor float64, cutoff float64) []Point {
	if !(stdDev > 0) || math.IsInf(stdDev, 0) || math.IsNaN(mean) {
		return []Point{}
	}
	normal := distuv.Normal{
		Mu:    mean,
		Sigma: stdDev,
	}
	start := mean - Span*stdDev
	end := mean + Span*stdDev
	stepCount := int(math.Floor((end-start)/Step+1e-9)) + 1

	points := make([]Point, stepCount)
	for i := range points {
		x := start + float64(i)*Step
		points[i] = Point{
			X:           x,
			Y:           scaleFactor * normal.Prob(x),
			BelowCutoff: x <= cutoff,
		}
	}
	return points
}

// Peak returns the largest y value of the curve.
func Peak(points []Point) float64 {
	peak := 0.0
	for _, eachPoint := range points {
		peak = math.Max(peak, eachPoint.Y)
	}
	return peak
}
