package analytics

import (
	"fmt"

	"dealer-insights/internal/model"
)

// Clean produces a cleaned copy of a raw table and the schema resolved
// against the cleaned column names. The caller's table is never
// mutated. Passes run in a fixed order: rename, monetary coercion,
// date coercion, missing-value fill. Cleaning an already-clean table
// is a no-op by construction (detection skips typed columns).
func Clean(t *model.Table) (*model.Table, model.ResolvedSchema) {
	out := renameColumns(t)

	for _, col := range monetaryColumns(out) {
		out.Cells[col] = NormalizeMonetary(out.Cells[col])
	}

	for _, col := range dateColumns(out) {
		switch {
		case isDaysToCloseName(col):
			out.Cells[col] = NormalizeNumeric(out.Cells[col])
		case isVehicleYearName(col):
			out.Cells[col] = NormalizeYear(out.Cells[col])
		case isPriceName(col):
			// monetary column with date-flavored values stays as the
			// monetary pass left it
		default:
			out.Cells[col] = NormalizeDate(out.Cells[col])
		}
	}

	out = FillMissing(out)
	return out, Resolve(out)
}

// renameColumns returns a copy of the table with every column name in
// snake_case. Collisions after normalization get a numeric suffix so no
// column silently shadows another.
func renameColumns(t *model.Table) *model.Table {
	names := make([]string, len(t.Columns))
	seen := make(map[string]int, len(t.Columns))
	for i, col := range t.Columns {
		name := NormalizeColumnName(col)
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		if _, dup := seen[name]; !dup {
			seen[name] = 1
		}
		names[i] = name
	}

	out := model.NewTable(names)
	for i, col := range t.Columns {
		out.Cells[names[i]] = append([]interface{}(nil), t.Cells[col]...)
	}
	return out
}
