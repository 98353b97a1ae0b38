package survey

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jylim/leadership-coach/internal/models"
	"github.com/xuri/excelize/v2"
)

// Table is one workbook sheet: a header row of column names plus data rows.
type Table struct {
	Columns []string
	Rows    [][]string
}

// LoadWorkbook reads the first sheet of an xlsx file into a Table.
func LoadWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return tableFromFile(f)
}

// LoadWorkbookReader reads the first sheet of an xlsx stream into a Table.
func LoadWorkbookReader(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return tableFromFile(f)
}

func tableFromFile(f *excelize.File) (*Table, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	return &Table{Columns: rows[0], Rows: rows[1:]}, nil
}

// DetectColumns builds the typed column list of a table. A column is numeric
// when every non-empty cell parses as a float.
func (t *Table) DetectColumns() []Column {
	columns := make([]Column, 0, len(t.Columns))
	for i, name := range t.Columns {
		columns = append(columns, Column{
			Name:    strings.TrimSpace(name),
			Index:   i,
			Numeric: t.columnIsNumeric(i),
		})
	}
	return columns
}

func (t *Table) columnIsNumeric(idx int) bool {
	nonEmpty := 0
	for _, row := range t.Rows {
		if idx >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			continue
		}
		nonEmpty++
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return false
		}
	}
	return nonEmpty > 0
}

// FindRow returns the first row whose cell in the named metadata column
// equals value, or false when absent.
func (t *Table) FindRow(column, value string) ([]string, bool) {
	idx := -1
	for i, name := range t.Columns {
		if strings.TrimSpace(name) == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	for _, row := range t.Rows {
		if idx < len(row) && strings.TrimSpace(row[idx]) == value {
			return row, true
		}
	}
	return nil, false
}

// Matrix maps year token → competency-or-group label → score. A zero value is
// the sentinel for "no valid data" and is excluded from every average.
type Matrix map[string]map[string]float64

// Average is an aggregation result with an explicit no-data marker, so an
// empty input never turns into NaN downstream.
type Average struct {
	Value float64
	Valid bool
}

// MemberMatrix builds the member (self-response) score matrix for one row.
// Peer columns are excluded. Unparseable or missing cells become the zero
// sentinel.
func MemberMatrix(row []string, set ColumnSet) Matrix {
	m := Matrix{}
	for _, col := range set.MemberScores {
		year := m[col.Year]
		if year == nil {
			year = map[string]float64{}
			m[col.Year] = year
		}

		var v float64
		if col.Index < len(row) {
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(row[col.Index]), 64); err == nil {
				v = parsed
			}
		}
		year[col.Label] = v
	}
	return m
}

// PeerMatrix builds the peer-rater score matrix for one row.
func PeerMatrix(row []string, set ColumnSet) Matrix {
	m := Matrix{}
	for _, col := range set.PeerScores {
		year := m[col.Year]
		if year == nil {
			year = map[string]float64{}
			m[col.Year] = year
		}

		var v float64
		if col.Index < len(row) {
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(row[col.Index]), 64); err == nil {
				v = parsed
			}
		}
		year[col.Label] = v
	}
	return m
}

// OverallAverage averages the strictly positive scores of one year. Zero
// scores signify missing data, not the lowest rating, and are excluded.
func OverallAverage(scores map[string]float64) Average {
	var sum float64
	var n int
	for _, v := range scores {
		if v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return Average{}
	}
	return Average{Value: sum / float64(n), Valid: true}
}

// GroupAverage averages the group's member items within one year's scores,
// excluding zero sentinels. Label matching is normalization-insensitive.
func GroupAverage(scores map[string]float64, group Group) Average {
	var sum float64
	var n int
	for label, v := range scores {
		if v > 0 && group.Contains(label) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return Average{}
	}
	return Average{Value: sum / float64(n), Valid: true}
}

// Delta returns the year-over-year change for a single competency. It is
// defined only when both years carry a strictly positive score; a zero
// baseline means missing data and never yields a delta.
func Delta(current, previous float64) (float64, bool) {
	if current <= 0 || previous <= 0 {
		return 0, false
	}
	return current - previous, true
}

// yearNumber extracts the 2-digit year embedded in a token like "24년".
func yearNumber(year string) int {
	digits := strings.TrimRight(year, "년")
	n, err := strconv.Atoi(digits)
	if err != nil {
		return -1
	}
	return n
}

// SortYears orders year tokens ascending by their embedded 2-digit number.
func SortYears(years []string) []string {
	sorted := make([]string, len(years))
	copy(sorted, years)
	sort.Slice(sorted, func(i, j int) bool {
		return yearNumber(sorted[i]) < yearNumber(sorted[j])
	})
	return sorted
}

// LatestYear returns the maximum year token, and the second-maximum when at
// least two years are present.
func LatestYear(years []string) (latest, previous string) {
	sorted := SortYears(years)
	if len(sorted) == 0 {
		return "", ""
	}
	latest = sorted[len(sorted)-1]
	if len(sorted) > 1 {
		previous = sorted[len(sorted)-2]
	}
	return latest, previous
}

// Trends rolls a member matrix into per-year summaries ordered by year:
// overall average, per-competency scores, group rollups and year-over-year
// deltas against the immediately preceding year.
func Trends(m Matrix, groups []Group) []models.YearTrend {
	years := make([]string, 0, len(m))
	for year := range m {
		years = append(years, year)
	}
	years = SortYears(years)

	trends := make([]models.YearTrend, 0, len(years))
	for i, year := range years {
		scores := m[year]

		trend := models.YearTrend{
			Year:         year,
			ByCompetency: scores,
			ByGroup:      map[string]float64{},
		}

		overall := OverallAverage(scores)
		trend.Overall = overall.Value
		trend.OverallValid = overall.Valid

		for _, g := range groups {
			// Zero stays the no-data sentinel in the rollup map as well.
			trend.ByGroup[g.Name] = GroupAverage(scores, g).Value
		}

		if i > 0 {
			prev := m[years[i-1]]
			deltas := map[string]float64{}
			for label, v := range scores {
				if d, ok := Delta(v, prev[label]); ok {
					deltas[label] = d
				}
			}
			if len(deltas) > 0 {
				trend.DeltaFromPrev = deltas
			}
		}

		trends = append(trends, trend)
	}

	return trends
}
