package analytics

import (
	"math"
	"sort"

	"dealer-insights/internal/model"
	"dealer-insights/pkg/utils"
)

// topValueCount caps the frequency breakdown per textual column.
const topValueCount = 5

// ColumnProfile summarizes every column of a cleaned table: inferred
// type, missing counts, cardinality, and numeric spread or top values
// depending on the type.
func ColumnProfile(t *model.Table) []model.ColumnStats {
	out := make([]model.ColumnStats, 0, len(t.Columns))
	rows := t.RowCount()
	for _, col := range t.Columns {
		cells := t.Cells[col]
		stats := model.ColumnStats{
			Name: col,
			Type: columnTypeName(cells),
		}

		unique := make(map[string]int)
		var nums []float64
		for _, v := range cells {
			if v == nil || v == "" {
				stats.MissingCount++
				continue
			}
			unique[cellString(v)]++
			if f, ok := utils.Float(v); ok {
				nums = append(nums, f)
			}
		}
		stats.UniqueCount = len(unique)
		if rows > 0 {
			stats.MissingPercentage = float64(stats.MissingCount) / float64(rows) * 100
		}

		if len(nums) > 0 {
			min, max, sum := nums[0], nums[0], 0.0
			for _, f := range nums {
				if f < min {
					min = f
				}
				if f > max {
					max = f
				}
				sum += f
			}
			stats.Min = fptr(min)
			stats.Max = fptr(max)
			stats.Mean = fptr(sum / float64(len(nums)))
		} else if stats.Type == "string" {
			stats.TopValues = topValues(unique)
		}

		out = append(out, stats)
	}
	return out
}

// columnTypeName names the inferred column type for display. A numeric
// column where every value is whole reports as integer.
func columnTypeName(cells []interface{}) string {
	switch columnKind(cells) {
	case kindDate:
		return "date_string"
	case kindNumeric:
		for _, v := range cells {
			if f, ok := utils.Float(v); ok && f != math.Trunc(f) {
				return "float"
			}
		}
		return "integer"
	default:
		return "string"
	}
}

// topValues keeps the most frequent values, ties broken by value for a
// deterministic payload.
func topValues(counts map[string]int) map[string]int {
	if len(counts) <= topValueCount {
		return counts
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	out := make(map[string]int, topValueCount)
	for _, k := range keys[:topValueCount] {
		out[k] = counts[k]
	}
	return out
}
