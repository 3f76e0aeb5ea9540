package analytics

import (
	"sort"

	"dealer-insights/internal/model"
)

// analyzeLeadSources builds the lead source view. ROI only appears when
// both profit and expense columns resolved; a source with zero recorded
// expense reports an ROI of 0 rather than an infinity.
func analyzeLeadSources(t *model.Table, schema model.ResolvedSchema) model.Analysis {
	a := model.LeadSourceAnalysis{
		SourceMetrics: []model.AggregateRecord{},
		SourceROI:     []model.AggregateRecord{},
		ChartType:     "bar",
	}

	col, ok := schema.Column(model.RoleLeadSource)
	if !ok || t.RowCount() == 0 {
		a.ChartData = emptyChart("Total Profit")
		return a
	}

	groups := groupRows(t, col)
	a.Summary.TotalSources = len(groups)

	a.SourceMetrics = recordsFromGroups(t, schema, groups, metricSet{
		price: true, profit: true, expense: true, roi: true,
	})
	rankRecords(a.SourceMetrics, schema)

	top := a.SourceMetrics[0]
	a.Summary.TopSource = &top
	if schema.Has(model.RoleProfit) {
		a.Summary.AverageProfitPerSource = fptr(columnTotal(t, schema, model.RoleProfit) / float64(len(groups)))
	}

	if schema.Has(model.RoleProfit) && schema.Has(model.RoleExpense) {
		a.SourceROI = recordsFromGroups(t, schema, groups, metricSet{
			profit: true, expense: true, roi: true,
		})
		sort.SliceStable(a.SourceROI, func(i, j int) bool {
			return deref(a.SourceROI[i].ROI) > deref(a.SourceROI[j].ROI)
		})
	}

	a.ChartData = sourceChart(a.SourceMetrics, schema)
	return a
}

// sourceChart plots the ranking value per source, with an ROI series
// alongside when the data supports one.
func sourceChart(recs []model.AggregateRecord, schema model.ResolvedSchema) model.ChartData {
	value, label := rankValue(schema)
	chart := chartFromRecords(recs, label, value)
	if !schema.Has(model.RoleProfit) || !schema.Has(model.RoleExpense) {
		return chart
	}
	roi := model.ChartDataset{Label: "ROI %", Data: make([]float64, 0, len(chart.Labels))}
	for _, r := range recs {
		if len(roi.Data) == len(chart.Labels) {
			break
		}
		roi.Data = append(roi.Data, deref(r.ROI))
	}
	chart.Datasets = append(chart.Datasets, roi)
	return chart
}
