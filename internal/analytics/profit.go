package analytics

import (
	"dealer-insights/internal/model"
)

// analyzeProfit builds the profit view: overall profit metrics, the
// single most profitable sale, the dealership-wide margin, and profit
// grouped by rep, lead source and vehicle type.
func analyzeProfit(t *model.Table, schema model.ResolvedSchema) model.Analysis {
	a := model.ProfitAnalysis{
		ProfitByRep:         []model.AggregateRecord{},
		ProfitByLeadSource:  []model.AggregateRecord{},
		ProfitByVehicleType: []model.AggregateRecord{},
		ChartType:           "bar",
	}
	a.Summary.TotalProfit = columnTotal(t, schema, model.RoleProfit)
	a.Summary.AverageProfit = columnMean(t, schema, model.RoleProfit)

	if col, ok := schema.Column(model.RoleProfit); ok {
		if i, ok := argmaxColumn(t.Cells[col]); ok {
			a.Summary.HighestProfitSale = saleDetail(t, schema, i)
		}
	}

	if schema.Has(model.RolePrice) && schema.Has(model.RoleProfit) {
		margin := 0.0
		if total := columnTotal(t, schema, model.RolePrice); total > 0 {
			margin = a.Summary.TotalProfit / total * 100
		}
		a.Summary.ProfitMargin = fptr(margin)
	}

	if col, ok := schema.Column(model.RoleSalesRep); ok {
		a.ProfitByRep = recordsFromGroups(t, schema, groupRows(t, col), metricSet{profit: true})
		rankRecords(a.ProfitByRep, schema)
	}
	if col, ok := schema.Column(model.RoleLeadSource); ok {
		a.ProfitByLeadSource = recordsFromGroups(t, schema, groupRows(t, col), metricSet{profit: true})
		rankRecords(a.ProfitByLeadSource, schema)
	}
	if groups, ok := vehicleGroups(t, schema); ok {
		a.ProfitByVehicleType = recordsFromGroups(t, schema, groups, metricSet{profit: true})
		rankRecords(a.ProfitByVehicleType, schema)
	}

	switch {
	case len(a.ProfitByRep) > 0:
		a.ChartData = profitChart(a.ProfitByRep)
	case len(a.ProfitByLeadSource) > 0:
		a.ChartData = profitChart(a.ProfitByLeadSource)
	case len(a.ProfitByVehicleType) > 0:
		a.ChartData = profitChart(a.ProfitByVehicleType)
	default:
		a.ChartData = emptyChart("Total Profit")
	}
	return a
}

func profitChart(recs []model.AggregateRecord) model.ChartData {
	return chartFromRecords(recs, "Total Profit", func(r model.AggregateRecord) float64 {
		return deref(r.TotalProfit)
	})
}
