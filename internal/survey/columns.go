// Package survey parses multi-year survey workbooks whose column names encode
// competency, rater type and year, and aggregates them into year-indexed
// score matrices and rollups.
package survey

import (
	"regexp"
	"strings"
)

// ColumnKind classifies a workbook column by its parsed name and value type.
type ColumnKind int

const (
	// KindMeta covers leader name, ID and any column whose name does not
	// follow the grammar. Malformed names degrade to metadata silently.
	KindMeta ColumnKind = iota
	KindMemberScore
	KindPeerScore
	KindMemberText
	KindPeerText
)

// Column is one workbook column before grammar parsing.
type Column struct {
	Name    string
	Index   int
	Numeric bool
}

// ParsedColumn is a column resolved against the naming grammar
// `<label>_<YY년>` (member) or `<label>_동료_<YY년>` (peer).
type ParsedColumn struct {
	Column
	Kind  ColumnKind
	Label string
	Year  string
}

// ColumnSet groups the parsed columns of one workbook sheet.
type ColumnSet struct {
	MemberScores []ParsedColumn
	PeerScores   []ParsedColumn
	MemberText   []ParsedColumn
	PeerText     []ParsedColumn
	Meta         []Column
}

var yearSuffix = regexp.MustCompile(`_(\d{2}년)$`)

const peerSuffix = "_동료"

// ParseColumns resolves every column against the naming grammar. Columns that
// do not match are classified as metadata; the import never fails on a
// malformed name.
func ParseColumns(columns []Column) ColumnSet {
	var set ColumnSet

	for _, col := range columns {
		m := yearSuffix.FindStringSubmatch(col.Name)
		if m == nil {
			set.Meta = append(set.Meta, col)
			continue
		}

		year := m[1]
		base := strings.TrimSuffix(col.Name, m[0])
		peer := strings.HasSuffix(base, peerSuffix)
		if peer {
			base = strings.TrimSuffix(base, peerSuffix)
		}

		if base == "" {
			set.Meta = append(set.Meta, col)
			continue
		}

		parsed := ParsedColumn{Column: col, Label: base, Year: year}
		switch {
		case peer && col.Numeric:
			parsed.Kind = KindPeerScore
			set.PeerScores = append(set.PeerScores, parsed)
		case peer:
			parsed.Kind = KindPeerText
			set.PeerText = append(set.PeerText, parsed)
		case col.Numeric:
			parsed.Kind = KindMemberScore
			set.MemberScores = append(set.MemberScores, parsed)
		default:
			parsed.Kind = KindMemberText
			set.MemberText = append(set.MemberText, parsed)
		}
	}

	return set
}

// Years returns the distinct year tokens of the member score columns.
func (s ColumnSet) Years() []string {
	seen := map[string]bool{}
	var years []string
	for _, col := range s.MemberScores {
		if !seen[col.Year] {
			seen[col.Year] = true
			years = append(years, col.Year)
		}
	}
	return SortYears(years)
}
