package parsing

import (
	"regexp"
	"strconv"
	"strings"
)

// scoreValue matches a bounded decimal rating. The [0-5] bound keeps page
// numbers, years and percentile ranks in paginated layouts from being captured
// as scores.
var scoreValue = regexp.MustCompile(`[0-5]\.[0-9]`)

// ScorePair is the located (self, other) rating pair for one item.
type ScorePair struct {
	Self  float64
	Other float64
}

// ExtractPair locates spec's label in normalized text and returns the first
// bounded decimal pair following it. The first value must appear within
// spec.FirstWindow characters of the label, the second within
// spec.SecondWindow characters of the first. ok is false when the label or
// either value is missing; that is an extraction miss, not an error.
func ExtractPair(normalized string, spec LabelSpec, policy SearchPolicy) (ScorePair, bool) {
	region, start := anchorRegion(normalized, spec, policy)
	if start < 0 {
		return ScorePair{}, false
	}

	first, firstEnd, ok := findScore(region, start, spec.FirstWindow)
	if !ok {
		return ScorePair{}, false
	}

	second, _, ok := findScore(region, firstEnd, spec.SecondWindow)
	if !ok {
		return ScorePair{}, false
	}

	return ScorePair{Self: first, Other: second}, true
}

// ExtractSingle locates spec's label and returns the first bounded decimal
// value within spec.FirstWindow characters of it.
func ExtractSingle(normalized string, spec LabelSpec, policy SearchPolicy) (float64, bool) {
	region, start := anchorRegion(normalized, spec, policy)
	if start < 0 {
		return 0, false
	}

	v, _, ok := findScore(region, start, spec.FirstWindow)
	return v, ok
}

// anchorRegion applies the optional section anchor, then locates the first
// matching label variant under the given policy. It returns the searched
// region and the offset just past the matched label, or -1 when no variant
// occurs.
func anchorRegion(normalized string, spec LabelSpec, policy SearchPolicy) (string, int) {
	region := normalized
	if spec.SectionAnchor != "" {
		if idx := strings.LastIndex(region, Normalize(spec.SectionAnchor)); idx >= 0 {
			region = region[idx:]
		}
	}

	for _, variant := range spec.Variants {
		needle := Normalize(variant)
		if needle == "" {
			continue
		}

		var idx int
		switch policy {
		case AnchorFirst:
			idx = strings.Index(region, needle)
		default:
			idx = strings.LastIndex(region, needle)
		}
		if idx < 0 {
			continue
		}

		return region, idx + len(needle)
	}

	return region, -1
}

// findScore returns the first bounded score in region[from:from+window] along
// with the offset just past its match.
func findScore(region string, from, window int) (float64, int, bool) {
	if from >= len(region) {
		return 0, 0, false
	}

	end := from + window
	if window <= 0 || end > len(region) {
		end = len(region)
	}

	loc := scoreValue.FindStringIndex(region[from:end])
	if loc == nil {
		return 0, 0, false
	}

	v, err := strconv.ParseFloat(region[from+loc[0]:from+loc[1]], 64)
	if err != nil {
		return 0, 0, false
	}

	return v, from + loc[1], true
}
