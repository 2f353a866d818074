// Package table is the in-memory representation of one dataset table: a
// header plus string rows, with the cleaning and ordering operations the
// pipeline and the merge store share. Values stay strings end to end so the
// persisted CSV form and the comparison form are the same bytes.
package table

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// rowSep joins cells for whole-row equality; it cannot occur in CSV fields
// produced by this pipeline.
const rowSep = "\x1f"

var (
	reUnderscores = regexp.MustCompile(`_+`)
	reSpaces      = regexp.MustCompile(`\s+`)
	reNonDigits   = regexp.MustCompile(`\D+`)

	titleCaser = cases.Title(language.English)
)

// Table is a header row plus data rows. Rows always have len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New creates an empty table with the given columns.
func New(columns ...string) *Table {
	return &Table{Columns: columns}
}

// CleanColumn normalises one column name: trimmed, lower-cased, spaces to
// underscores, runs of underscores collapsed.
func CleanColumn(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	c = strings.ReplaceAll(c, " ", "_")
	return reUnderscores.ReplaceAllString(c, "_")
}

// CleanColumns rewrites every column name with CleanColumn.
func (t *Table) CleanColumns() {
	for i, c := range t.Columns {
		t.Columns[i] = CleanColumn(c)
	}
}

// Index returns the position of a column, or -1 when absent.
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Column returns a copy of one column's values; nil when the column is
// absent.
func (t *Table) Column(column string) []string {
	idx := t.Index(column)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out
}

// SetColumn replaces a column's values, appending the column when absent.
// values must have one entry per row.
func (t *Table) SetColumn(column string, values []string) {
	idx := t.Index(column)
	if idx < 0 {
		idx = len(t.Columns)
		t.Columns = append(t.Columns, column)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], "")
		}
	}
	for i := range t.Rows {
		t.Rows[i][idx] = values[i]
	}
}

// Apply rewrites one column in place with fn. Absent columns are skipped,
// never an error: a previously persisted table may lack them.
func (t *Table) Apply(column string, fn func(string) string) {
	idx := t.Index(column)
	if idx < 0 {
		return
	}
	for i := range t.Rows {
		t.Rows[i][idx] = fn(t.Rows[i][idx])
	}
}

// AppendRow adds one row, padding or truncating to the column count.
func (t *Table) AppendRow(row []string) {
	cells := make([]string, len(t.Columns))
	copy(cells, row)
	t.Rows = append(t.Rows, cells)
}

// AppendTable concatenates other below t, unioning columns. Cells absent
// from either side become empty strings. Row order is t's rows then
// other's.
func (t *Table) AppendTable(other *Table) {
	for _, c := range other.Columns {
		if t.Index(c) < 0 {
			t.Columns = append(t.Columns, c)
			for i := range t.Rows {
				t.Rows[i] = append(t.Rows[i], "")
			}
		}
	}
	indices := make([]int, len(other.Columns))
	for i, c := range other.Columns {
		indices[i] = t.Index(c)
	}
	for _, row := range other.Rows {
		cells := make([]string, len(t.Columns))
		for i, idx := range indices {
			cells[idx] = row[i]
		}
		t.Rows = append(t.Rows, cells)
	}
}

// Dedupe removes exact full-row duplicates, keeping the first occurrence.
func (t *Table) Dedupe() {
	seen := make(map[string]bool, len(t.Rows))
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		key := strings.Join(row, rowSep)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, row)
	}
	t.Rows = kept
}

// SortBy orders rows ascending by the named columns, comparing cells as
// strings. The sort is stable: tied rows keep their relative order, which
// is what makes repeated merges byte-reproducible. Absent columns are
// ignored.
func (t *Table) SortBy(columns ...string) {
	var indices []int
	for _, c := range columns {
		if idx := t.Index(c); idx >= 0 {
			indices = append(indices, idx)
		}
	}
	if len(indices) == 0 {
		return
	}
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i], t.Rows[j]
		for _, idx := range indices {
			if a[idx] != b[idx] {
				return a[idx] < b[idx]
			}
		}
		return false
	})
}

// Filter keeps only rows for which keep returns true, preserving order.
func (t *Table) Filter(keep func(row []string) bool) {
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		if keep(row) {
			kept = append(kept, row)
		}
	}
	t.Rows = kept
}

// NormTitle collapses runs of whitespace and title-cases the result, the
// shared normal form for state and district values. Reapplying it to its
// own output changes nothing.
func NormTitle(s string) string {
	s = reSpaces.ReplaceAllString(strings.TrimSpace(s), " ")
	if s == "" {
		return ""
	}
	return titleCaser.String(s)
}

// NormPincode strips everything that is not a digit.
func NormPincode(s string) string {
	return reNonDigits.ReplaceAllString(strings.TrimSpace(s), "")
}

// CoerceNumeric parses a metric cell as a number and reserialises it in a
// minimal stable form; unparsable values become empty (missing). Stable
// means coercing the output again reproduces it exactly.
func CoerceNumeric(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
