package pipeline

// normalize.go canonicalizes raw rows immediately after reading, before any
// entity-specific logic runs: header names are normalized, cells are cleaned
// of common spreadsheet artifacts, and fully-empty records are dropped. This
// step is identical for every entity type.

import (
	"strings"
	"time"
)

// NormalizeHeader canonicalizes a column name: trimmed, lower-cased, internal
// whitespace collapsed to single underscores.
func NormalizeHeader(h string) string {
	h = strings.TrimSpace(strings.ToLower(h))
	return strings.Join(strings.Fields(h), "_")
}

// CleanCell removes common CSV/spreadsheet artifacts from a cell value:
// surrounding whitespace, Excel formula prefixes (="value"), and stray
// surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// BuildRecords converts raw rows (header first) into Records with normalized
// headers and cleaned cells. Records where every field is blank are dropped.
// Line numbers count data rows from 1, mirroring the source file order.
func BuildRecords(rows [][]string) []Record {
	if len(rows) == 0 {
		return nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = NormalizeHeader(CleanCell(h))
	}

	var records []Record
	for i, row := range rows[1:] {
		fields := make(map[string]string, len(header))
		empty := true
		for j, col := range header {
			if col == "" {
				continue
			}
			var v string
			if j < len(row) {
				v = CleanCell(row[j])
			}
			fields[col] = v
			if v != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		records = append(records, Record{
			Columns: header,
			Fields:  fields,
			Line:    i + 1,
		})
	}
	return records
}

// Date layouts accepted in source files, split by year width so two-digit
// years can be pivoted.
var (
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006",
		"2.1.2006", "02.01.2006", // dotted dates are day-first
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "2.1.06", "02.01.06",
	}
)

// twoDigitYearPivot: two-digit years more than this many years in the future
// are assumed to belong to the previous century.
const twoDigitYearPivot = 20

// ParseDate parses a date cell in any of the accepted layouts. Returns nil
// for a blank cell and ok=false for an unparseable one.
func ParseDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}

	pivot := time.Now().Year() + twoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivot {
				t = t.AddDate(-100, 0, 0)
			}
			return &t, true
		}
	}

	return nil, false
}
