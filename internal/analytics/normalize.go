package analytics

import (
	"strconv"
	"strings"
	"time"

	"dealer-insights/internal/model"
)

// Value normalization. Every function here is pure: it returns a new
// slice and never mutates its input. Cells that fail to coerce become
// nil ("missing") and are later handled by the missing-value policy.

// dateFormats tried in order by the general date parser. The bare year
// format sits last so fully qualified dates win when both match.
var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"02-Jan-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"2006-01",
	"2006",
}

func tryParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func stripMonetary(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	return strings.ReplaceAll(s, " ", "")
}

// looksLikeDisguisedDate flags a stripped cell that still carries a
// slash, or a dash past the sign position. Such cells mean the column
// was a false-positive monetary match (most likely a date), and the
// whole column is returned untouched rather than corrupted.
func looksLikeDisguisedDate(s string) bool {
	if strings.Contains(s, "/") {
		return true
	}
	return strings.Index(s, "-") > 0
}

// NormalizeMonetary coerces a monetary column to float64-or-missing.
// Currency symbols, thousands separators and surrounding whitespace are
// stripped per cell before parsing as a signed decimal.
func NormalizeMonetary(cells []interface{}) []interface{} {
	for _, v := range cells {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		if looksLikeDisguisedDate(stripMonetary(s)) {
			return append([]interface{}(nil), cells...)
		}
	}

	out := make([]interface{}, len(cells))
	for i, v := range cells {
		switch val := v.(type) {
		case float64:
			out[i] = val
		case string:
			if f, err := strconv.ParseFloat(stripMonetary(val), 64); err == nil {
				out[i] = f
			}
		}
	}
	return out
}

// NormalizeDate coerces a date column to time.Time-or-missing using
// general format auto-detection. Already-parsed cells pass through.
func NormalizeDate(cells []interface{}) []interface{} {
	out := make([]interface{}, len(cells))
	for i, v := range cells {
		switch val := v.(type) {
		case time.Time:
			out[i] = val
		case string:
			if ts, ok := tryParseDate(val); ok {
				out[i] = ts
			}
		}
	}
	return out
}

// NormalizeYear parses a vehicle-year column with the year-only layout.
// A generic date parse would misread "2020" rows in surprising ways, so
// this column never goes through NormalizeDate.
func NormalizeYear(cells []interface{}) []interface{} {
	out := make([]interface{}, len(cells))
	for i, v := range cells {
		switch val := v.(type) {
		case time.Time:
			out[i] = val
		case string:
			if ts, err := time.Parse("2006", strings.TrimSpace(val)); err == nil {
				out[i] = ts
			}
		}
	}
	return out
}

// NormalizeNumeric coerces a column to plain float64-or-missing with no
// currency stripping. Used for days_to_close, which must stay numeric
// despite its date-flavored name.
func NormalizeNumeric(cells []interface{}) []interface{} {
	out := make([]interface{}, len(cells))
	for i, v := range cells {
		switch val := v.(type) {
		case float64:
			out[i] = val
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
				out[i] = f
			}
		}
	}
	return out
}

// FillMissing applies the global missing-value policy to a table:
// numeric columns fill nil cells with 0, textual columns with the empty
// string, date columns keep nil (there is no sensible zero date). The
// zero fill deliberately under-counts absent data instead of dropping
// rows; aggregation relies on this for output parity.
func FillMissing(t *model.Table) *model.Table {
	out := t.Clone()
	for _, col := range out.Columns {
		cells := out.Cells[col]
		switch columnKind(cells) {
		case kindNumeric:
			for i, v := range cells {
				if v == nil {
					cells[i] = 0.0
				}
			}
		case kindDate:
			// leave nil
		default:
			for i, v := range cells {
				if v == nil {
					cells[i] = ""
				}
			}
		}
	}
	return out
}

type cellKind int

const (
	kindText cellKind = iota
	kindNumeric
	kindDate
)

// columnKind classifies a column by its first non-missing cell. After
// normalization a column is homogeneous, so one cell decides.
func columnKind(cells []interface{}) cellKind {
	for _, v := range cells {
		switch v.(type) {
		case float64:
			return kindNumeric
		case time.Time:
			return kindDate
		case string:
			return kindText
		}
	}
	return kindText
}
