package parsing

import (
	"strings"
	"unicode/utf8"
)

// Bullet glyphs that introduce a comment line in the report layouts seen so
// far. The middle-dot variants come from different PDF typesetters.
var bulletGlyphs = []string{"·", "•", "ㆍ", "∙", "○", "-", "‣"}

// CommentOptions tunes ExtractSection. The zero value uses the defaults.
type CommentOptions struct {
	// MinLineLength drops short boilerplate fragments (rune count).
	MinLineLength int
	// Loose also accepts unbulleted lines longer than MinLineLength.
	Loose bool
	// Policy selects which occurrence of the start marker anchors the slice.
	Policy SearchPolicy
	// Seen holds lines already captured by a sibling section; matching lines
	// are skipped so members never repeats what was attributed to boss. The
	// map is updated with every line this call emits.
	Seen map[string]bool
}

const defaultMinLineLength = 5

// ExtractSection slices rawText between startMarker and endMarker (or end of
// text when endMarker is empty or absent) and returns the bullet-marked lines
// in document order. Interrogative lines, short fragments and lines already
// present in opts.Seen are discarded. An empty result is a valid "no data"
// state, not an error.
func ExtractSection(rawText, startMarker, endMarker string, opts CommentOptions) []string {
	minLen := opts.MinLineLength
	if minLen <= 0 {
		minLen = defaultMinLineLength
	}

	lines := []string{}

	var start int
	switch opts.Policy {
	case AnchorFirst:
		start = strings.Index(rawText, startMarker)
	default:
		start = strings.LastIndex(rawText, startMarker)
	}
	if start < 0 {
		return lines
	}

	section := rawText[start+len(startMarker):]
	if endMarker != "" {
		if end := strings.Index(section, endMarker); end >= 0 {
			section = section[:end]
		}
	}

	for _, raw := range strings.Split(section, "\n") {
		line, bulleted := stripBullet(strings.TrimSpace(raw))
		if !bulleted && !opts.Loose {
			continue
		}
		if !acceptLine(line, minLen) {
			continue
		}
		if opts.Seen != nil {
			if opts.Seen[line] {
				continue
			}
			opts.Seen[line] = true
		}
		lines = append(lines, line)
	}

	return lines
}

// stripBullet removes a leading bullet glyph and reports whether one was
// present.
func stripBullet(line string) (string, bool) {
	for _, glyph := range bulletGlyphs {
		if strings.HasPrefix(line, glyph) {
			return strings.TrimSpace(strings.TrimPrefix(line, glyph)), true
		}
	}
	return line, false
}

// acceptLine filters noise: prompts (interrogative lines), short boilerplate
// and obvious header fragments.
func acceptLine(line string, minLen int) bool {
	if utf8.RuneCountInString(line) < minLen {
		return false
	}
	if strings.HasSuffix(line, "?") || strings.HasSuffix(line, "？") {
		return false
	}
	return true
}
