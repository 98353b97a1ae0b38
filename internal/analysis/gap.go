// Package analysis turns extracted report text and survey matrices into the
// assembled Report, including perception-gap classification.
package analysis

import "github.com/jylim/leadership-coach/internal/models"

// GapThreshold is the minimum absolute self/other difference that counts as a
// perception gap. Differences below it classify as Alignment.
const GapThreshold = 0.5

// Classify maps a (self, other) score pair to its gap type. It is pure and
// total, and independent of which rater population supplied other. The
// boundaries are inclusive: a difference of exactly ±0.5 is a gap.
func Classify(self, other float64) models.GapType {
	diff := other - self
	switch {
	case diff >= GapThreshold:
		return models.Underestimation
	case diff <= -GapThreshold:
		return models.Overestimation
	default:
		return models.Alignment
	}
}
