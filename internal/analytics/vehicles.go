package analytics

import (
	"dealer-insights/internal/model"
)

// analyzeVehicles builds the vehicle view: combined "make model"
// metrics plus separate make and model performance tables.
func analyzeVehicles(t *model.Table, schema model.ResolvedSchema) model.Analysis {
	a := model.VehicleAnalysis{
		VehicleMetrics:   []model.AggregateRecord{},
		MakePerformance:  []model.AggregateRecord{},
		ModelPerformance: []model.AggregateRecord{},
		ChartType:        "bar",
	}
	a.Summary.TotalVehicles = t.RowCount()
	if schema.Has(model.RoleDaysToClose) && t.RowCount() > 0 {
		a.Summary.AverageDaysToSell = fptr(columnMean(t, schema, model.RoleDaysToClose))
	}

	if groups, ok := vehicleGroups(t, schema); ok {
		a.VehicleMetrics = recordsFromGroups(t, schema, groups, metricSet{
			price: true, profit: true, days: true,
		})
		rankRecords(a.VehicleMetrics, schema)
	}

	if col, ok := schema.Column(model.RoleVehicleMake); ok {
		a.MakePerformance = recordsFromGroups(t, schema, groupRows(t, col), metricSet{price: true, profit: true})
		rankRecords(a.MakePerformance, schema)
		if len(a.MakePerformance) > 0 {
			top := a.MakePerformance[0]
			a.Summary.TopMake = &top
		}
	}
	if col, ok := schema.Column(model.RoleVehicleModel); ok {
		a.ModelPerformance = recordsFromGroups(t, schema, groupRows(t, col), metricSet{price: true, profit: true})
		rankRecords(a.ModelPerformance, schema)
		if len(a.ModelPerformance) > 0 {
			top := a.ModelPerformance[0]
			a.Summary.TopModel = &top
		}
	}

	value, label := rankValue(schema)
	switch {
	case len(a.MakePerformance) > 0:
		a.ChartData = chartFromRecords(a.MakePerformance, label, value)
	case len(a.VehicleMetrics) > 0:
		a.ChartData = chartFromRecords(a.VehicleMetrics, label, value)
	default:
		a.ChartData = emptyChart(label)
	}
	return a
}
