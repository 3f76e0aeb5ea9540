package analytics

import (
	"sort"
	"time"

	"dealer-insights/internal/model"
	"dealer-insights/pkg/utils"
)

// analyzeSales builds the sales view: overall price metrics, the
// extreme sales, and the per-rep / per-month / per-vehicle breakdowns.
func analyzeSales(t *model.Table, schema model.ResolvedSchema) model.Analysis {
	a := model.SalesAnalysis{
		SalesByRep:         []model.AggregateRecord{},
		SalesByVehicleType: []model.AggregateRecord{},
		ChartType:          "bar",
	}
	a.Summary.TotalSales = columnTotal(t, schema, model.RolePrice)
	a.Summary.AverageSalePrice = columnMean(t, schema, model.RolePrice)

	if col, ok := schema.Column(model.RolePrice); ok {
		if i, ok := argmaxColumn(t.Cells[col]); ok {
			a.Summary.HighestSale = saleDetail(t, schema, i)
		}
		if i, ok := argminColumn(t.Cells[col]); ok {
			a.Summary.LowestSale = saleDetail(t, schema, i)
		}
	}

	if col, ok := schema.Column(model.RoleSalesRep); ok {
		a.SalesByRep = recordsFromGroups(t, schema, groupRows(t, col), metricSet{price: true, profit: true})
		rankRecords(a.SalesByRep, schema)
	}

	a.SalesByMonth = monthlySales(t, schema)

	if groups, ok := vehicleGroups(t, schema); ok {
		a.SalesByVehicleType = recordsFromGroups(t, schema, groups, metricSet{price: true})
		sortBySales(a.SalesByVehicleType)
	}

	if len(a.SalesByRep) > 0 {
		if schema.Has(model.RolePrice) {
			a.ChartData = chartFromRecords(a.SalesByRep, "Total Sales", func(r model.AggregateRecord) float64 {
				return deref(r.TotalSales)
			})
		} else {
			a.ChartData = chartFromRecords(a.SalesByRep, "Sales Count", func(r model.AggregateRecord) float64 {
				return float64(r.SaleCount)
			})
		}
	} else {
		a.ChartData = emptyChart("Total Sales")
	}
	return a
}

// monthlySales buckets sales into YYYY-MM periods. Needs both a date
// and a price column; rows whose date stayed missing are skipped.
func monthlySales(t *model.Table, schema model.ResolvedSchema) []model.MonthlySales {
	dateCol, ok := schema.Column(model.RoleSaleDate)
	if !ok {
		return nil
	}
	priceCol, ok := schema.Column(model.RolePrice)
	if !ok {
		return nil
	}

	type bucket struct {
		total float64
		count int
	}
	buckets := make(map[string]*bucket)
	dates := t.Cells[dateCol]
	prices := t.Cells[priceCol]
	for i := range dates {
		ts, ok := dates[i].(time.Time)
		if !ok {
			continue
		}
		month := ts.Format("2006-01")
		b := buckets[month]
		if b == nil {
			b = &bucket{}
			buckets[month] = b
		}
		if f, ok := utils.Float(prices[i]); ok {
			b.total += f
		}
		b.count++
	}

	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]model.MonthlySales, 0, len(months))
	for _, m := range months {
		b := buckets[m]
		out = append(out, model.MonthlySales{
			Month:       m,
			TotalSales:  b.total,
			AverageSale: b.total / float64(b.count),
			SaleCount:   b.count,
		})
	}
	return out
}

// sortBySales orders records by total sales descending, count when no
// price column resolved.
func sortBySales(recs []model.AggregateRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].TotalSales != nil || recs[j].TotalSales != nil {
			return deref(recs[i].TotalSales) > deref(recs[j].TotalSales)
		}
		return recs[i].SaleCount > recs[j].SaleCount
	})
}
