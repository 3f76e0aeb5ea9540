package analytics

import (
	"dealer-insights/internal/model"
)

// analyzeReps builds the rep performance view: the ranked leaderboard
// plus the detailed per-rep metrics with maxima and margins.
func analyzeReps(t *model.Table, schema model.ResolvedSchema) model.Analysis {
	a := model.RepAnalysis{
		Leaderboard: []model.AggregateRecord{},
		RepMetrics:  []model.AggregateRecord{},
		ChartType:   "bar",
	}

	col, ok := schema.Column(model.RoleSalesRep)
	if !ok || t.RowCount() == 0 {
		a.ChartData = emptyChart("Total Profit", "Sales Count")
		return a
	}

	groups := groupRows(t, col)
	a.Summary.TotalReps = len(groups)

	a.Leaderboard = recordsFromGroups(t, schema, groups, metricSet{profit: true})
	rankRecords(a.Leaderboard, schema)

	a.RepMetrics = recordsFromGroups(t, schema, groups, metricSet{
		price: true, profit: true, highest: true, margin: true,
	})
	rankRecords(a.RepMetrics, schema)

	top := a.Leaderboard[0]
	a.Summary.TopRep = &top
	if schema.Has(model.RoleProfit) {
		a.Summary.AverageProfitPerRep = fptr(columnTotal(t, schema, model.RoleProfit) / float64(len(groups)))
	}

	a.ChartData = repChart(a.RepMetrics)
	return a
}

// repChart plots profit and sale count side by side for the top reps.
func repChart(recs []model.AggregateRecord) model.ChartData {
	n := len(recs)
	if n > chartTopGroups {
		n = chartTopGroups
	}
	chart := model.ChartData{
		Labels: make([]string, 0, n),
		Datasets: []model.ChartDataset{
			{Label: "Total Profit", Data: make([]float64, 0, n)},
			{Label: "Sales Count", Data: make([]float64, 0, n)},
		},
	}
	for _, r := range recs[:n] {
		chart.Labels = append(chart.Labels, r.Name)
		chart.Datasets[0].Data = append(chart.Datasets[0].Data, deref(r.TotalProfit))
		chart.Datasets[1].Data = append(chart.Datasets[1].Data, float64(r.SaleCount))
	}
	return chart
}
