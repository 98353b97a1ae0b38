// Package parsing locates competency scores and comment blocks inside noisy
// report text extracted from PDF sources. Score anchoring works on a
// whitespace-collapsed view of the text; comment extraction works on the
// original text because it needs line breaks.
package parsing

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize removes every whitespace run (spaces, tabs, newlines) from text,
// producing the unbroken token stream used for label and score anchoring.
// Empty input yields empty output.
func Normalize(text string) string {
	return whitespaceRun.ReplaceAllString(text, "")
}

// CanonicalKey reduces a label to a form usable for normalization-insensitive
// lookup: whitespace and punctuation are dropped and Latin letters are
// lowercased. "전략적 Insight" and "전략적insight" share the same key.
func CanonicalKey(label string) string {
	var b strings.Builder
	for _, r := range label {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
