package stats

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	mfstats "github.com/montanaflynn/stats"
	gonumstat "gonum.org/v1/gonum/stat"
)

// NoMode is reported when every distinct rounded score occurs equally often.
const NoMode = "No mode"

// Undefined is displayed for the spread metrics of a single-score sample.
const Undefined = "undefined"

// Summary holds the descriptive statistics of a sample at full precision.
// Formatting happens in Labels.
type Summary struct {
	Count    int
	Mean     float64
	Median   float64
	Mode     string
	Min      float64
	Max      float64
	Range    float64
	Q1       float64
	Q3       float64
	IQR      float64
	StdDev   float64
	Variance float64
}

// Label is a single display row of a Summary.
type Label struct {
	Name  string
	Value string
}

// Summarize reduces the sample to its summary statistics. An empty sample
// has no summary and yields nil.
func Summarize(samples []float64) *Summary {
	if len(samples) == 0 {
		return nil
	}
	sortedSamples := make([]float64, len(samples))
	copy(sortedSamples, samples)
	sort.Float64s(sortedSamples)

	n := len(sortedSamples)
	summary := &Summary{
		Count:    n,
		Variance: math.NaN(),
		StdDev:   math.NaN(),
	}
	if n >= 2 {
		// gonum's Variance is the unbiased (n-1) estimator
		summary.Mean, summary.Variance = gonumstat.MeanVariance(sortedSamples, nil)
		summary.StdDev = math.Sqrt(summary.Variance)
	} else {
		summary.Mean = gonumstat.Mean(sortedSamples, nil)
	}
	// The montanaflynn helpers only fail on empty input, handled above.
	summary.Median, _ = mfstats.Median(sortedSamples)
	summary.Min, _ = mfstats.Min(sortedSamples)
	summary.Max, _ = mfstats.Max(sortedSamples)
	summary.Range = summary.Max - summary.Min
	summary.Q1, summary.Q3 = NearestRankQuartiles(sortedSamples)
	summary.IQR = summary.Q3 - summary.Q1
	summary.Mode = Mode(sortedSamples)
	return summary
}

// NearestRankQuartiles returns the values at floor(n*0.25) and floor(n*0.75)
// of an ascending, non-empty sequence. No interpolation is applied.
func NearestRankQuartiles(sortedSamples []float64) (q1 float64, q3 float64) {
	n := len(sortedSamples)
	q1Index := int(math.Floor(float64(n) * 0.25))
	q3Index := int(math.Floor(float64(n) * 0.75))
	return sortedSamples[q1Index], sortedSamples[q3Index]
}

// Mode rounds each score to the nearest integer and returns the most frequent
// values, comma-joined in first-seen order. If every distinct value is tied
// the result is NoMode.
func Mode(samples []float64) string {
	if len(samples) == 0 {
		return NoMode
	}
	frequencies := make(map[float64]int)
	order := make([]float64, 0)
	maxFrequency := 0
	for _, eachSample := range samples {
		rounded := math.Floor(eachSample + 0.5)
		if _, seen := frequencies[rounded]; !seen {
			order = append(order, rounded)
		}
		frequencies[rounded]++
		if frequencies[rounded] > maxFrequency {
			maxFrequency = frequencies[rounded]
		}
	}
	modes := make([]string, 0)
	for _, eachValue := range order {
		if frequencies[eachValue] == maxFrequency {
			modes = append(modes, strconv.FormatFloat(eachValue, 'f', -1, 64))
		}
	}
	if len(modes) == len(order) {
		return NoMode
	}
	return strings.Join(modes, ", ")
}

// HasSpread reports whether the variance and standard deviation are defined.
func (s *Summary) HasSpread() bool {
	return s != nil && s.Count >= 2
}

// Labels returns the display rows of the summary, formatted to their fixed
// precision. A nil summary has no rows.
func (s *Summary) Labels() []Label {
	if s == nil {
		return nil
	}
	stdDev := Undefined
	variance := Undefined
	if s.HasSpread() {
		stdDev = fmt.Sprintf("%.2f", s.StdDev)
		variance = fmt.Sprintf("%.2f", s.Variance)
	}
	return []Label{
		{Name: "Count", Value: strconv.Itoa(s.Count)},
		{Name: "Mean", Value: fmt.Sprintf("%.2f", s.Mean)},
		{Name: "Median", Value: fmt.Sprintf("%.2f", s.Median)},
		{Name: "Mode", Value: s.Mode},
		{Name: "Min", Value: fmt.Sprintf("%.1f", s.Min)},
		{Name: "Max", Value: fmt.Sprintf("%.1f", s.Max)},
		{Name: "Range", Value: fmt.Sprintf("%.1f", s.Range)},
		{Name: "Q1", Value: fmt.Sprintf("%.1f", s.Q1)},
		{Name: "Q3", Value: fmt.Sprintf("%.1f", s.Q3)},
		{Name: "IQR", Value: fmt.Sprintf("%.1f", s.IQR)},
		{Name: "Std Dev", Value: stdDev},
		{Name: "Variance", Value: variance},
	}
}

// Value returns the formatted value of the named row, or "" if absent.
func (s *Summary) Value(name string) string {
	for _, eachLabel := range s.Labels() {
		if eachLabel.Name == name {
			return eachLabel.Value
		}
	}
	return ""
}
