// Package dates normalises the inconsistently formatted date strings found
// in source extracts into a single canonical form. Parsing is layered:
// placeholder detection, separator normalisation, a day-first pass, a
// month-first pass, then an ordered list of explicit formats. A value no
// stage can parse is simply missing; nothing here ever returns an error.
package dates

import (
	"strings"
	"time"
)

// Layout is the canonical serialised form of every parsed date.
const Layout = "2006-01-02"

// placeholder tokens that mean "no date", compared case-insensitively
var placeholders = map[string]bool{
	"":     true,
	"na":   true,
	"nan":  true,
	"null": true,
	"none": true,
	"-":    true,
	"--":   true,
}

// dayFirst resolves ambiguous numeric dates as day-month-year. The ISO
// layout sits in this pass because it is unambiguous and must win before
// any month-first reinterpretation.
var dayFirstLayouts = []string{
	"2006-1-2",
	"2-1-2006",
	"2-1-06",
}

var monthFirstLayouts = []string{
	"1-2-2006",
	"1-2-06",
}

// explicit formats tried last, in order; the first that parses a value wins
var explicitLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"01-02-2006",
	"20060102",
	"02012006",
	"01022006",
}

// Parse resolves one raw value. ok is false for placeholders and for values
// no stage can parse.
func Parse(raw string) (time.Time, bool) {
	s, missing := normalize(raw)
	if missing {
		return time.Time{}, false
	}
	for _, layouts := range [][]string{dayFirstLayouts, monthFirstLayouts, explicitLayouts} {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// ParseAll resolves a whole column. Output values are serialised with
// Layout; missing values are empty strings. Applying ParseAll to its own
// output is a no-op.
func ParseAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if t, ok := Parse(v); ok {
			out[i] = t.Format(Layout)
		}
	}
	return out
}

// normalize trims, detects placeholders, folds "." and "/" separators to
// "-" and strips internal whitespace.
func normalize(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if placeholders[strings.ToLower(s)] {
		return "", true
	}
	s = strings.ReplaceAll(s, ".", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.Join(strings.Fields(s), "")
	return s, false
}
