package analytics

import (
	"dealer-insights/internal/model"
	"dealer-insights/pkg/utils"
)

// analyzeGeneral builds the headline overview: record counts, the date
// span, money totals, and one "top X" metric per resolved grouping
// role.
func analyzeGeneral(t *model.Table, schema model.ResolvedSchema) model.Analysis {
	a := model.GeneralAnalysis{
		Summary: model.GeneralSummary{
			TotalRecords:  t.RowCount(),
			DateRange:     dateRange(t, schema),
			TotalSales:    columnTotal(t, schema, model.RolePrice),
			TotalProfit:   columnTotal(t, schema, model.RoleProfit),
			AverageProfit: columnMean(t, schema, model.RoleProfit),
		},
		TopMetrics: []model.TopMetric{},
		ChartType:  "bar",
	}

	if top, ok := topGroup(t, schema, model.RoleSalesRep); ok {
		a.TopMetrics = append(a.TopMetrics, model.TopMetric{
			Title:       "Top Sales Rep",
			Value:       top.Name,
			Metric:      headlineMetric(top),
			Description: "Best performing sales rep across the data set",
		})
	}
	if top, ok := topGroup(t, schema, model.RoleLeadSource); ok {
		a.TopMetrics = append(a.TopMetrics, model.TopMetric{
			Title:       "Top Lead Source",
			Value:       top.Name,
			Metric:      headlineMetric(top),
			Description: "Lead source generating the most value",
		})
	}
	if groups, ok := vehicleGroups(t, schema); ok && len(groups) > 0 {
		recs := recordsFromGroups(t, schema, groups, metricSet{price: true, profit: true})
		rankRecords(recs, schema)
		a.TopMetrics = append(a.TopMetrics, model.TopMetric{
			Title:       "Top Vehicle",
			Value:       recs[0].Name,
			Metric:      headlineMetric(recs[0]),
			Description: "Best selling vehicle across the data set",
		})
	}

	a.ChartData = generalChart(t, schema)
	return a
}

// topGroup groups by one role column and returns the best record under
// the ranking priority.
func topGroup(t *model.Table, schema model.ResolvedSchema, role model.Role) (model.AggregateRecord, bool) {
	col, ok := schema.Column(role)
	if !ok || t.RowCount() == 0 {
		return model.AggregateRecord{}, false
	}
	recs := recordsFromGroups(t, schema, groupRows(t, col), metricSet{price: true, profit: true})
	rankRecords(recs, schema)
	return recs[0], true
}

// headlineMetric formats the ranking value of a record for display:
// profit as currency when present, then sales, then a raw count.
func headlineMetric(r model.AggregateRecord) string {
	switch {
	case r.TotalProfit != nil:
		return utils.FormatCurrency(*r.TotalProfit) + " profit"
	case r.TotalSales != nil:
		return utils.FormatCurrency(*r.TotalSales) + " in sales"
	default:
		return utils.FormatNumber(float64(r.SaleCount)) + " sales"
	}
}

// generalChart charts the first resolved grouping role, ranked.
func generalChart(t *model.Table, schema model.ResolvedSchema) model.ChartData {
	value, label := rankValue(schema)
	for _, role := range []model.Role{model.RoleSalesRep, model.RoleLeadSource} {
		if col, ok := schema.Column(role); ok {
			recs := recordsFromGroups(t, schema, groupRows(t, col), metricSet{price: true, profit: true})
			rankRecords(recs, schema)
			return chartFromRecords(recs, label, value)
		}
	}
	if groups, ok := vehicleGroups(t, schema); ok {
		recs := recordsFromGroups(t, schema, groups, metricSet{price: true, profit: true})
		rankRecords(recs, schema)
		return chartFromRecords(recs, label, value)
	}
	return emptyChart(label)
}
