package histogram

import (
	"fmt"
	"math"
	"sort"

	gonumstat "gonum.org/v1/gonum/stat"
)

// BinWidth is the fixed width of every bin.
const BinWidth = 5.0

// Bin is a half-open [Start, Start+BinWidth) bucket of the sample.
type Bin struct {
	RangeLabel string
	Count      int
	Midpoint   float64
	Start      float64
}

// End returns the exclusive upper edge of the bin.
func (b Bin) End() float64 {
	return b.Start + BinWidth
}

// Contains applies the half-open membership test.
func (b Bin) Contains(score float64) bool {
	return score >= b.Start && score < b.End()
}

// Bounds returns the largest multiple of BinWidth <= min and the smallest
// multiple of BinWidth >= max.
func Bounds(min float64, max float64) (lower float64, upper float64) {
	return math.Floor(min/BinWidth) * BinWidth, math.Ceil(max/BinWidth) * BinWidth
}

// Dividers returns the bin edges for an ascending sample: multiples of
// BinWidth from the lower bound up to the first edge strictly above max, so
// a maximum sitting exactly on the upper bound gets its own trailing bin.
func Dividers(min float64, max float64) []float64 {
	lower, _ := Bounds(min, max)
	binCount := int(math.Floor((max-lower)/BinWidth)) + 1
	dividers := make([]float64, 0, binCount+1)
	for i := 0; i <= binCount; i++ {
		dividers = append(dividers, lower+float64(i)*BinWidth)
	}
	for dividers[len(dividers)-1] <= max {
		dividers = append(dividers, dividers[len(dividers)-1]+BinWidth)
	}
	return dividers
}

// Build buckets the sample into fixed-width, half-open bins running left to
// right from the lower bound.
func Build(samples []float64) []Bin {
	if len(samples) == 0 {
		return []Bin{}
	}
	sortedSamples := make([]float64, len(samples))
	copy(sortedSamples, samples)
	sort.Float64s(sortedSamples)

	dividers := Dividers(sortedSamples[0], sortedSamples[len(sortedSamples)-1])
	counts := gonumstat.Histogram(nil, dividers, sortedSamples, nil)

	bins := make([]Bin, len(counts))
	for i, eachCount := range counts {
		start := dividers[i]
		bins[i] = Bin{
			RangeLabel: fmt.Sprintf("%g-%g", start, start+BinWidth-1),
			Count:      int(eachCount),
			Midpoint:   start + BinWidth/2,
			Start:      start,
		}
	}
	return bins
}

// Total returns the sum of the bin counts.
func Total(bins []Bin) int {
	total := 0
	for _, eachBin := range bins {
		total += eachBin.Count
	}
	return total
}
