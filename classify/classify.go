package classify

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCutoff rejects a cutoff no score can be compared against.
var ErrInvalidCutoff = errors.New("invalid cutoff")

// ValidateCutoff rejects NaN and infinite cutoffs.
func ValidateCutoff(cutoff float64) error {
	if math.IsNaN(cutoff) || math.IsInf(cutoff, 0) {
		return fmt.Errorf("%w: %v. Cutoff must be a finite number", ErrInvalidCutoff, cutoff)
	}
	return nil
}

// Classification partitions a sample against a cutoff score. Percentages are
// rounded independently, so they may not add up to exactly 100.
type Classification struct {
	Cutoff       float64
	Total        int
	BelowCount   int
	AtCount      int
	AboveCount   int
	BelowPercent float64
	AtPercent    float64
	AbovePercent float64
}

// Classify counts the scores strictly below, equal to, and strictly above
// the cutoff.
func Classify(samples []float64, cutoff float64) Classification {
	classification := Classification{
		Cutoff: cutoff,
		Total:  len(samples),
	}
	for _, eachSample := range samples {
		switch {
		case eachSample < cutoff:
			classification.BelowCount++
		case eachSample == cutoff:
			classification.AtCount++
		case eachSample > cutoff:
			classification.AboveCount++
		}
	}
	if classification.Total > 0 {
		classification.BelowPercent = percentOf(classification.BelowCount, classification.Total)
		classification.AtPercent = percentOf(classification.AtCount, classification.Total)
		classification.AbovePercent = percentOf(classification.AboveCount, classification.Total)
	}
	return classification
}

func percentOf(count int, total int) float64 {
	return math.Round(float64(count)/float64(total)*100*10) / 10
}

// Tiles returns the formatted below/at/above tiles.
func (c Classification) Tiles() [3]string {
	return [3]string{
		fmt.Sprintf("Below %g: %.1f%% (%d)", c.Cutoff, c.BelowPercent, c.BelowCount),
		fmt.Sprintf("At %g: %.1f%% (%d)", c.Cutoff, c.AtPercent, c.AtCount),
		fmt.Sprintf("Above %g: %.1f%% (%d)", c.Cutoff, c.AbovePercent, c.AboveCount),
	}
}
