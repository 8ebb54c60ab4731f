package sampler

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/rand"
)

// Scores are clamped to [MinScore, MaxScore] and rounded to one decimal.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

var (
	// ErrInvalidExpression is returned when a Normal(...) expression can't be parsed.
	ErrInvalidExpression = errors.New("invalid Normal expression")
	// ErrInvalidCount rejects samples too small to have a defined variance.
	ErrInvalidCount = errors.New("invalid sample count")
	// ErrInvalidStdDev rejects a non-positive spread.
	ErrInvalidStdDev = errors.New("invalid standard deviation")
)

// MinCount is the smallest sample size with a defined sample variance.
const MinCount = 2

// /////////////////////////////////////////////////////////////////////////////
// ___                     _
// / __| __ _ _ __  _ __| |___ _ _
// \__ \/ _` | '  \| '_ \ / -_) '_|
// |___/\__,_|_|_|_| .__/_\___|_|
//                 |_|
// /////////////////////////////////////////////////////////////////////////////

// Params are the distribution parameters for a generation run.
type Params struct {
	Count  int
	Mean   float64
	StdDev float64
}

func (p Params) Name() string {
	return fmt.Sprintf("Normal(μ = %.2f, σ= %.2f), n=%d",
		p.Mean,
		p.StdDev,
		p.Count)
}

// Validate rejects degenerate parameters before any sampling happens.
func (p Params) Validate() error {
	if p.Count < MinCount {
		return fmt.Errorf("%w: %d. Count must be >= %d", ErrInvalidCount, p.Count, MinCount)
	}
	if !(p.StdDev > 0) || math.IsInf(p.StdDev, 0) {
		return fmt.Errorf("%w: %.2f. Standard deviation must be > 0", ErrInvalidStdDev, p.StdDev)
	}
	if math.IsNaN(p.Mean) || math.IsInf(p.Mean, 0) {
		return fmt.Errorf("invalid mean: %v", p.Mean)
	}
	return nil
}

// Sample is an ascending sequence of bounded scores. Values are never
// modified after Generate returns.
type Sample []float64

// Generate draws params.Count scores using the Box-Muller transform, clamps
// and rounds each one, then sorts the result ascending.
func Generate(params Params, src rand.Source) Sample {
	if params.Count <= 0 {
		return Sample{}
	}
	rng := rand.New(src)
	scores := make(Sample, params.Count)
	for i := range scores {
		u1 := openUnit(rng)
		u2 := openUnit(rng)
		z0 := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
		scores[i] = RoundScore(params.Mean + params.StdDev*z0)
	}
	sort.Float64s(scores)
	return scores
}

// RoundScore clamps v to the score range and rounds it to one decimal place.
func RoundScore(v float64) float64 {
	clamped := math.Max(MinScore, math.Min(MaxScore, v))
	return math.Round(clamped*10) / 10
}

// openUnit returns a uniform value in the open interval (0,1). rand.Float64
// can return exactly zero, which would send ln(u1) to -Inf.
func openUnit(rng *rand.Rand) float64 {
	for {
		u := rng.Float64()
		if u > 0 {
			return u
		}
	}
}

// ParseExpression parses the mean and standard deviation out of an expression
// of the form Normal(mean, stddev).
func ParseExpression(expression string) (mean float64, stdDev float64, err error) {
	reParams := regexp.MustCompile(`[()]`)
	normalParts := reParams.Split(expression, -1)
	if len(normalParts) < 2 ||
		!strings.EqualFold(strings.TrimSpace(normalParts[0]), "Normal") {
		return 0, 0, fmt.Errorf("%w: %s", ErrInvalidExpression, expression)
	}
	normalFloatParts := strings.Split(normalParts[1], ",")
	if len(normalFloatParts) != 2 {
		return 0, 0, fmt.Errorf("%w: %s", ErrInvalidExpression, expression)
	}
	mean, err = strconv.ParseFloat(strings.TrimSpace(normalFloatParts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %w", ErrInvalidExpression, expression, err)
	}
	stdDev, err = strconv.ParseFloat(strings.TrimSpace(normalFloatParts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %w", ErrInvalidExpression, expression, err)
	}
	return mean, stdDev, nil
}
