package analytics

import (
	"sort"
	"strings"
	"time"

	"dealer-insights/internal/model"
	"dealer-insights/pkg/utils"
)

// Analyze computes the analysis for one intent over a cleaned table.
// The schema is resolved once by the caller (normally by Clean) and
// threaded through, so every section of the result sees the same role
// assignment. A missing role degrades its dependent sections to empty
// or absent; Analyze never fails.
func Analyze(t *model.Table, schema model.ResolvedSchema, intent model.Intent) model.Analysis {
	switch intent {
	case model.IntentSales:
		return analyzeSales(t, schema)
	case model.IntentProfit:
		return analyzeProfit(t, schema)
	case model.IntentRep:
		return analyzeReps(t, schema)
	case model.IntentLeadSource:
		return analyzeLeadSources(t, schema)
	case model.IntentVehicle:
		return analyzeVehicles(t, schema)
	default:
		return analyzeGeneral(t, schema)
	}
}

// chartTopGroups caps every chart payload at the ten best groups.
const chartTopGroups = 10

// group is one grouping key with the row indices that carry it, in
// first-occurrence order.
type group struct {
	key  string
	rows []int
}

// groupRows groups the table's rows by the values of one column,
// preserving first-occurrence order so that ranking ties stay stable.
func groupRows(t *model.Table, col string) []group {
	return groupRowsByKey(t, func(i int) string {
		return cellString(t.Cells[col][i])
	})
}

// groupRowsByKey groups rows by an arbitrary per-row key function.
// Used for the synthetic "make model" vehicle identity.
func groupRowsByKey(t *model.Table, key func(i int) string) []group {
	index := make(map[string]int)
	var groups []group
	for i := 0; i < t.RowCount(); i++ {
		k := key(i)
		if at, ok := index[k]; ok {
			groups[at].rows = append(groups[at].rows, i)
			continue
		}
		index[k] = len(groups)
		groups = append(groups, group{key: k, rows: []int{i}})
	}
	return groups
}

func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format("2006-01-02")
	default:
		f, _ := utils.Float(val)
		return utils.FormatNumber(f)
	}
}

func sumRows(cells []interface{}, rows []int) float64 {
	total := 0.0
	for _, i := range rows {
		if f, ok := utils.Float(cells[i]); ok {
			total += f
		}
	}
	return total
}

func meanRows(cells []interface{}, rows []int) float64 {
	if len(rows) == 0 {
		return 0
	}
	return sumRows(cells, rows) / float64(len(rows))
}

func maxRows(cells []interface{}, rows []int) float64 {
	best := 0.0
	first := true
	for _, i := range rows {
		if f, ok := utils.Float(cells[i]); ok {
			if first || f > best {
				best = f
				first = false
			}
		}
	}
	return best
}

// argmaxColumn returns the index of the first row holding the column's
// maximum numeric value. Stable by construction: later equal values
// never displace an earlier winner.
func argmaxColumn(cells []interface{}) (int, bool) {
	best, at := 0.0, -1
	for i, v := range cells {
		f, ok := utils.Float(v)
		if !ok {
			continue
		}
		if at < 0 || f > best {
			best, at = f, i
		}
	}
	return at, at >= 0
}

func argminColumn(cells []interface{}) (int, bool) {
	best, at := 0.0, -1
	for i, v := range cells {
		f, ok := utils.Float(v)
		if !ok {
			continue
		}
		if at < 0 || f < best {
			best, at = f, i
		}
	}
	return at, at >= 0
}

func fptr(f float64) *float64 { return &f }

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// metricSet selects which metric families a grouped record carries.
// Each analysis section asks only for the metrics its consumers read.
type metricSet struct {
	price   bool
	profit  bool
	expense bool
	days    bool
	highest bool // include per-group maxima
	margin  bool // include profit margin (needs price+profit)
	roi     bool // include ROI (needs profit+expense)
}

// recordsFromGroups computes an AggregateRecord per group. Metric
// families whose backing role did not resolve stay nil regardless of
// the requested set.
func recordsFromGroups(t *model.Table, schema model.ResolvedSchema, groups []group, set metricSet) []model.AggregateRecord {
	priceCol, hasPrice := schema.Column(model.RolePrice)
	profitCol, hasProfit := schema.Column(model.RoleProfit)
	expenseCol, hasExpense := schema.Column(model.RoleExpense)
	daysCol, hasDays := schema.Column(model.RoleDaysToClose)

	out := make([]model.AggregateRecord, 0, len(groups))
	for _, g := range groups {
		rec := model.AggregateRecord{Name: g.key, SaleCount: len(g.rows)}

		if set.price && hasPrice {
			cells := t.Cells[priceCol]
			rec.TotalSales = fptr(sumRows(cells, g.rows))
			rec.AverageSale = fptr(meanRows(cells, g.rows))
			if set.highest {
				rec.HighestSale = fptr(maxRows(cells, g.rows))
			}
		}
		if set.profit && hasProfit {
			cells := t.Cells[profitCol]
			rec.TotalProfit = fptr(sumRows(cells, g.rows))
			rec.AverageProfit = fptr(meanRows(cells, g.rows))
			if set.highest {
				rec.HighestProfit = fptr(maxRows(cells, g.rows))
			}
		}
		if set.expense && hasExpense {
			cells := t.Cells[expenseCol]
			rec.TotalExpense = fptr(sumRows(cells, g.rows))
			rec.AverageExpense = fptr(meanRows(cells, g.rows))
		}
		if set.days && hasDays {
			rec.AverageDaysToSell = fptr(meanRows(t.Cells[daysCol], g.rows))
		}
		if set.margin && hasPrice && hasProfit {
			if total := deref(rec.TotalSales); total > 0 {
				rec.ProfitMargin = fptr(deref(rec.TotalProfit) / total * 100)
			}
		}
		if set.roi && hasProfit && hasExpense {
			roi := 0.0
			if exp := deref(rec.TotalExpense); exp > 0 {
				roi = deref(rec.TotalProfit) / exp * 100
			}
			rec.ROI = fptr(roi)
		}

		out = append(out, rec)
	}
	return out
}

// rankRecords sorts grouped records descending by the fixed priority:
// total profit when a profit role resolved, else total sales when a
// price role resolved, else raw count. The stable sort keeps equal
// groups in first-occurrence order; downstream "top X" insights
// assume exactly this ordering.
func rankRecords(recs []model.AggregateRecord, schema model.ResolvedSchema) {
	var key func(r model.AggregateRecord) float64
	switch {
	case schema.Has(model.RoleProfit):
		key = func(r model.AggregateRecord) float64 { return deref(r.TotalProfit) }
	case schema.Has(model.RolePrice):
		key = func(r model.AggregateRecord) float64 { return deref(r.TotalSales) }
	default:
		key = func(r model.AggregateRecord) float64 { return float64(r.SaleCount) }
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return key(recs[i]) > key(recs[j])
	})
}

// rankValue returns the value extractor matching the ranking priority,
// with a display label for chart datasets.
func rankValue(schema model.ResolvedSchema) (func(r model.AggregateRecord) float64, string) {
	switch {
	case schema.Has(model.RoleProfit):
		return func(r model.AggregateRecord) float64 { return deref(r.TotalProfit) }, "Total Profit"
	case schema.Has(model.RolePrice):
		return func(r model.AggregateRecord) float64 { return deref(r.TotalSales) }, "Total Sales"
	default:
		return func(r model.AggregateRecord) float64 { return float64(r.SaleCount) }, "Sales Count"
	}
}

// vehicleGroups groups rows by vehicle identity: "make model" when both
// columns resolved, otherwise whichever single column did.
func vehicleGroups(t *model.Table, schema model.ResolvedSchema) ([]group, bool) {
	makeCol, hasMake := schema.Column(model.RoleVehicleMake)
	modelCol, hasModel := schema.Column(model.RoleVehicleModel)
	switch {
	case hasMake && hasModel:
		return groupRowsByKey(t, func(i int) string {
			key := cellString(t.Cells[makeCol][i]) + " " + cellString(t.Cells[modelCol][i])
			return strings.TrimSpace(key)
		}), true
	case hasMake:
		return groupRows(t, makeCol), true
	case hasModel:
		return groupRows(t, modelCol), true
	default:
		return nil, false
	}
}

// chartFromRecords builds a single-series chart payload from ranked
// records, capped at the top groups.
func chartFromRecords(recs []model.AggregateRecord, label string, value func(r model.AggregateRecord) float64) model.ChartData {
	n := len(recs)
	if n > chartTopGroups {
		n = chartTopGroups
	}
	chart := model.ChartData{
		Labels:   make([]string, 0, n),
		Datasets: []model.ChartDataset{{Label: label, Data: make([]float64, 0, n)}},
	}
	for _, r := range recs[:n] {
		chart.Labels = append(chart.Labels, r.Name)
		chart.Datasets[0].Data = append(chart.Datasets[0].Data, value(r))
	}
	return chart
}

func emptyChart(labels ...string) model.ChartData {
	datasets := make([]model.ChartDataset, len(labels))
	for i, l := range labels {
		datasets[i] = model.ChartDataset{Label: l, Data: []float64{}}
	}
	return model.ChartData{Labels: []string{}, Datasets: datasets}
}

// dateRange scans the resolved date column for its span.
func dateRange(t *model.Table, schema model.ResolvedSchema) *model.DateRange {
	col, ok := schema.Column(model.RoleSaleDate)
	if !ok {
		return nil
	}
	var min, max time.Time
	found := false
	for _, v := range t.Cells[col] {
		ts, ok := v.(time.Time)
		if !ok {
			continue
		}
		if !found || ts.Before(min) {
			min = ts
		}
		if !found || ts.After(max) {
			max = ts
		}
		found = true
	}
	if !found {
		return nil
	}
	return &model.DateRange{
		Start: min.Format("2006-01-02"),
		End:   max.Format("2006-01-02"),
		Days:  int(max.Sub(min).Hours() / 24),
	}
}

// saleDetail describes the single sale at row i with whatever context
// roles resolved.
func saleDetail(t *model.Table, schema model.ResolvedSchema, i int) *model.SaleDetail {
	detail := &model.SaleDetail{}
	if col, ok := schema.Column(model.RolePrice); ok {
		if f, ok := utils.Float(t.Cells[col][i]); ok {
			detail.Price = fptr(f)
		}
	}
	if col, ok := schema.Column(model.RoleProfit); ok {
		if f, ok := utils.Float(t.Cells[col][i]); ok {
			detail.Profit = fptr(f)
		}
	}
	if col, ok := schema.Column(model.RoleVehicleMake); ok {
		detail.VehicleMake = cellString(t.Cells[col][i])
	}
	if col, ok := schema.Column(model.RoleVehicleModel); ok {
		detail.VehicleModel = cellString(t.Cells[col][i])
	}
	if col, ok := schema.Column(model.RoleVehicleYear); ok {
		if ts, ok := t.Cells[col][i].(time.Time); ok {
			detail.VehicleYear = ts.Format("2006")
		}
	}
	if col, ok := schema.Column(model.RoleSalesRep); ok {
		detail.SalesRep = cellString(t.Cells[col][i])
	}
	return detail
}

// columnTotal sums a role column over the whole table, 0 when the role
// is unresolved.
func columnTotal(t *model.Table, schema model.ResolvedSchema, role model.Role) float64 {
	col, ok := schema.Column(role)
	if !ok {
		return 0
	}
	total := 0.0
	for _, v := range t.Cells[col] {
		if f, ok := utils.Float(v); ok {
			total += f
		}
	}
	return total
}

func columnMean(t *model.Table, schema model.ResolvedSchema, role model.Role) float64 {
	if t.RowCount() == 0 {
		return 0
	}
	return columnTotal(t, schema, role) / float64(t.RowCount())
}
