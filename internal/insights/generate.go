// Package insights renders analysis results into templated insight
// items and free-text answers. No computation happens here; every
// number is taken as-is from the analysis result and only formatted.
package insights

import (
	"fmt"
	"strings"

	"dealer-insights/internal/model"
	"dealer-insights/pkg/utils"
)

// Generate renders the insight items for one analysis result.
func Generate(a model.Analysis) []model.InsightItem {
	switch r := a.(type) {
	case model.SalesAnalysis:
		return salesInsights(r)
	case model.ProfitAnalysis:
		return profitInsights(r)
	case model.RepAnalysis:
		return repInsights(r)
	case model.LeadSourceAnalysis:
		return leadSourceInsights(r)
	case model.VehicleAnalysis:
		return vehicleInsights(r)
	case model.GeneralAnalysis:
		return generalInsights(r)
	default:
		return []model.InsightItem{}
	}
}

func generalInsights(a model.GeneralAnalysis) []model.InsightItem {
	insights := []model.InsightItem{}

	dateText := ""
	if dr := a.Summary.DateRange; dr != nil && dr.Start != "" && dr.End != "" {
		dateText = fmt.Sprintf(" from %s to %s (%d days)", dr.Start, dr.End, dr.Days)
	}
	insights = append(insights, model.InsightItem{
		Title: "Sales Summary",
		Description: fmt.Sprintf("Your dealership generated %s in sales and %s in profit%s.",
			utils.FormatCurrency(a.Summary.TotalSales), utils.FormatCurrency(a.Summary.TotalProfit), dateText),
		Amount: utils.FormatCurrency(a.Summary.TotalProfit),
		ActionItems: []string{
			fmt.Sprintf("Average profit per sale is %s.", utils.FormatCurrency(a.Summary.AverageProfit)),
			"Review the top performing areas below for more insights.",
		},
	})

	for _, metric := range a.TopMetrics {
		insights = append(insights, model.InsightItem{
			Title:         metric.Title,
			Description:   metric.Description,
			Employee:      metric.Value,
			EmployeeTitle: strings.ToLower(metric.Title),
			Amount:        metric.Metric,
			ActionItems:   actionItemsForMetric(metric.Title, metric.Value),
		})
	}
	return insights
}

func salesInsights(a model.SalesAnalysis) []model.InsightItem {
	insights := []model.InsightItem{}

	highest := ""
	if hs := a.Summary.HighestSale; hs != nil {
		highest = fmt.Sprintf("Your highest sale was %s", utils.FormatCurrencyPtr(hs.Price))
		if v := vehicleLabel(hs); v != "" {
			highest += fmt.Sprintf(" for a %s", v)
		}
		if hs.SalesRep != "" {
			highest += fmt.Sprintf(" by %s", hs.SalesRep)
		}
		highest += "."
	}
	item := model.InsightItem{
		Title: "Sales Performance",
		Description: fmt.Sprintf("Your dealership generated %s in total sales with an average sale price of %s.",
			utils.FormatCurrency(a.Summary.TotalSales), utils.FormatCurrency(a.Summary.AverageSalePrice)),
		Amount: utils.FormatCurrency(a.Summary.TotalSales),
		ActionItems: []string{
			"Focus on high-value vehicles to increase average sale price.",
		},
	}
	if highest != "" {
		item.ActionItems = append([]string{highest}, item.ActionItems...)
	}
	insights = append(insights, item)

	if len(a.SalesByRep) > 0 {
		top := a.SalesByRep[0]
		insights = append(insights, model.InsightItem{
			Title:         "Top Sales Representative",
			Description:   fmt.Sprintf("%s is your top performing sales representative by total sales.", top.Name),
			Employee:      top.Name,
			EmployeeTitle: "top sales performer",
			Amount:        utils.FormatCurrencyPtr(top.TotalSales),
			ActionItems: []string{
				fmt.Sprintf("Completed %d sales.", top.SaleCount),
				fmt.Sprintf("Study %s's sales techniques for team training.", top.Name),
			},
		})
	}

	if len(a.SalesByVehicleType) > 0 {
		top := a.SalesByVehicleType[0]
		insights = append(insights, model.InsightItem{
			Title:       "Top Selling Vehicle",
			Description: fmt.Sprintf("%s is your top selling vehicle by total sales.", top.Name),
			Amount:      utils.FormatCurrencyPtr(top.TotalSales),
			ActionItems: []string{
				fmt.Sprintf("Sold %d units.", top.SaleCount),
				fmt.Sprintf("Consider increasing inventory of %s models.", top.Name),
			},
		})
	}
	return insights
}

func profitInsights(a model.ProfitAnalysis) []model.InsightItem {
	insights := []model.InsightItem{}

	highest := ""
	if hs := a.Summary.HighestProfitSale; hs != nil {
		highest = fmt.Sprintf("Your highest profit sale was %s", utils.FormatCurrencyPtr(hs.Profit))
		if v := vehicleLabel(hs); v != "" {
			highest += fmt.Sprintf(" for a %s", v)
		}
		highest += "."
	}
	item := model.InsightItem{
		Title: "Profit Performance",
		Description: fmt.Sprintf("Your dealership generated %s in total profit with an average profit of %s per sale.",
			utils.FormatCurrency(a.Summary.TotalProfit), utils.FormatCurrency(a.Summary.AverageProfit)),
		Amount:     utils.FormatCurrency(a.Summary.TotalProfit),
		Percentage: percent(a.Summary.ProfitMargin),
		ActionItems: []string{
			"Focus on high-margin vehicles to increase overall profitability.",
		},
	}
	if highest != "" {
		item.ActionItems = append([]string{highest}, item.ActionItems...)
	}
	insights = append(insights, item)

	if len(a.ProfitByRep) > 0 {
		top := a.ProfitByRep[0]
		insights = append(insights, model.InsightItem{
			Title:         "Top Profit Generator",
			Description:   fmt.Sprintf("%s is your top profit-generating sales representative.", top.Name),
			Employee:      top.Name,
			EmployeeTitle: "top profit generator",
			Amount:        utils.FormatCurrencyPtr(top.TotalProfit),
			ActionItems: []string{
				fmt.Sprintf("Average profit per sale: %s.", utils.FormatCurrencyPtr(top.AverageProfit)),
				fmt.Sprintf("Analyze %s's negotiation strategies for team training.", top.Name),
			},
		})
	}

	if len(a.ProfitByLeadSource) > 0 {
		top := a.ProfitByLeadSource[0]
		insights = append(insights, model.InsightItem{
			Title:       "Most Profitable Lead Source",
			Description: fmt.Sprintf("%s is your most profitable lead source.", top.Name),
			Amount:      utils.FormatCurrencyPtr(top.TotalProfit),
			ActionItems: []string{
				fmt.Sprintf("Average profit per sale: %s.", utils.FormatCurrencyPtr(top.AverageProfit)),
				fmt.Sprintf("Consider increasing marketing investment in %s.", top.Name),
			},
		})
	}
	return insights
}

func repInsights(a model.RepAnalysis) []model.InsightItem {
	insights := []model.InsightItem{}

	if top := a.Summary.TopRep; top != nil {
		insights = append(insights, model.InsightItem{
			Title: "Sales Team Performance",
			Description: fmt.Sprintf("Your sales team consists of %d representatives with an average profit of %s per rep.",
				a.Summary.TotalReps, utils.FormatCurrencyPtr(a.Summary.AverageProfitPerRep)),
			ActionItems: []string{
				fmt.Sprintf("%s is your top performer with %s in profit.", top.Name, utils.FormatCurrencyPtr(top.TotalProfit)),
				"Consider implementing a mentorship program with top performers.",
			},
		})
	}

	if len(a.Leaderboard) >= 3 {
		top := a.Leaderboard[:3]
		insights = append(insights, model.InsightItem{
			Title:         "Sales Rep Leaderboard",
			Description:   "Your top 3 sales representatives by profit are:",
			Employee:      top[0].Name,
			EmployeeTitle: "top performer",
			Amount:        utils.FormatCurrencyPtr(top[0].TotalProfit),
			ActionItems: []string{
				fmt.Sprintf("2nd Place: %s with %s", top[1].Name, utils.FormatCurrencyPtr(top[1].TotalProfit)),
				fmt.Sprintf("3rd Place: %s with %s", top[2].Name, utils.FormatCurrencyPtr(top[2].TotalProfit)),
			},
		})
	}

	if best, ok := maxByAverageProfit(a.RepMetrics); ok {
		insights = append(insights, model.InsightItem{
			Title:         "Highest Average Profit",
			Description:   fmt.Sprintf("%s achieves the highest average profit per sale.", best.Name),
			Employee:      best.Name,
			EmployeeTitle: "highest margin rep",
			Amount:        utils.FormatCurrencyPtr(best.AverageProfit),
			ActionItems: []string{
				fmt.Sprintf("Completed %d sales.", best.SaleCount),
				fmt.Sprintf("Study %s's negotiation techniques for training materials.", best.Name),
			},
		})
	}
	return insights
}

func leadSourceInsights(a model.LeadSourceAnalysis) []model.InsightItem {
	insights := []model.InsightItem{}

	if top := a.Summary.TopSource; top != nil {
		insights = append(insights, model.InsightItem{
			Title: "Lead Source Performance",
			Description: fmt.Sprintf("Your dealership uses %d lead sources with an average profit of %s per source.",
				a.Summary.TotalSources, utils.FormatCurrencyPtr(a.Summary.AverageProfitPerSource)),
			ActionItems: []string{
				fmt.Sprintf("%s is your top performing source with %s in profit.", top.Name, utils.FormatCurrencyPtr(top.TotalProfit)),
				"Consider reallocating marketing budget to top performing sources.",
			},
		})
	}

	if best, ok := maxByROI(a.SourceROI); ok {
		insights = append(insights, model.InsightItem{
			Title:       "Highest ROI Lead Source",
			Description: fmt.Sprintf("%s provides the highest return on investment.", best.Name),
			Amount:      utils.FormatCurrencyPtr(best.TotalProfit),
			Percentage:  percent(best.ROI),
			ActionItems: []string{
				fmt.Sprintf("ROI: %s", percent(best.ROI)),
				fmt.Sprintf("Increase marketing investment in %s for optimal returns.", best.Name),
			},
		})
	}

	if best, ok := maxByAverageProfit(a.SourceMetrics); ok {
		insights = append(insights, model.InsightItem{
			Title:       "Highest Quality Leads",
			Description: fmt.Sprintf("%s provides leads with the highest average profit.", best.Name),
			Amount:      utils.FormatCurrencyPtr(best.AverageProfit),
			ActionItems: []string{
				fmt.Sprintf("Generated %d sales.", best.SaleCount),
				fmt.Sprintf("Focus on quality over quantity with %s leads.", best.Name),
			},
		})
	}
	return insights
}

func vehicleInsights(a model.VehicleAnalysis) []model.InsightItem {
	insights := []model.InsightItem{}

	summaryActions := []string{}
	if top := a.Summary.TopMake; top != nil {
		summaryActions = append(summaryActions,
			fmt.Sprintf("%s is your most profitable make with %s in profit.", top.Name, utils.FormatCurrencyPtr(top.TotalProfit)))
	}
	if top := a.Summary.TopModel; top != nil {
		summaryActions = append(summaryActions,
			fmt.Sprintf("%s is your most profitable model.", top.Name))
	}
	insights = append(insights, model.InsightItem{
		Title: "Vehicle Sales Performance",
		Description: fmt.Sprintf("Your dealership sold %d vehicles with an average time to sell of %s days.",
			a.Summary.TotalVehicles, decimal(a.Summary.AverageDaysToSell)),
		ActionItems: summaryActions,
	})

	if len(a.MakePerformance) > 0 {
		top := a.MakePerformance[0]
		insights = append(insights, model.InsightItem{
			Title:       "Top Performing Make",
			Description: fmt.Sprintf("%s is your top performing vehicle make by profit.", top.Name),
			Amount:      utils.FormatCurrencyPtr(top.TotalProfit),
			ActionItems: []string{
				fmt.Sprintf("Sold %d %s vehicles.", top.SaleCount, top.Name),
				fmt.Sprintf("Consider increasing %s inventory allocation.", top.Name),
			},
		})
	}

	if len(a.ModelPerformance) > 0 {
		top := a.ModelPerformance[0]
		insights = append(insights, model.InsightItem{
			Title:       "Top Performing Model",
			Description: fmt.Sprintf("%s is your top performing vehicle model by profit.", top.Name),
			Amount:      utils.FormatCurrencyPtr(top.TotalProfit),
			ActionItems: []string{
				fmt.Sprintf("Average profit per sale: %s.", utils.FormatCurrencyPtr(top.AverageProfit)),
				fmt.Sprintf("Focus sales team training on %s features and benefits.", top.Name),
			},
		})
	}

	if best, ok := minByDaysToSell(a.VehicleMetrics); ok {
		insights = append(insights, model.InsightItem{
			Title:       "Fastest Selling Vehicle",
			Description: fmt.Sprintf("%s sells the fastest on your lot.", best.Name),
			ActionItems: []string{
				fmt.Sprintf("Average days to sell: %s", decimal(best.AverageDaysToSell)),
				fmt.Sprintf("Maintain optimal inventory levels of %s to maximize turnover.", best.Name),
			},
		})
	}
	return insights
}

func actionItemsForMetric(title, value string) []string {
	switch {
	case strings.Contains(title, "Sales Rep") || strings.Contains(title, "Representative"):
		return []string{
			fmt.Sprintf("Study %s's sales strategies for team training.", value),
			"Analyze their lead source performance for optimization.",
		}
	case strings.Contains(title, "Lead Source"):
		return []string{
			fmt.Sprintf("Increase marketing investment in %s.", value),
			"Analyze customer demographics from this source.",
		}
	case strings.Contains(title, "Vehicle") || strings.Contains(title, "Make") || strings.Contains(title, "Model"):
		return []string{
			fmt.Sprintf("Increase inventory allocation for %s.", value),
			fmt.Sprintf("Train sales team on %s features and benefits.", value),
		}
	default:
		return []string{
			"Analyze trends over time for deeper insights.",
			"Compare with industry benchmarks for context.",
		}
	}
}

// vehicleLabel joins whatever vehicle context a sale detail carries
// into a display label like "2021 Toyota Camry".
func vehicleLabel(d *model.SaleDetail) string {
	parts := []string{}
	for _, p := range []string{d.VehicleYear, d.VehicleMake, d.VehicleModel} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func percent(p *float64) string {
	if p == nil {
		return ""
	}
	return utils.FormatPercent(*p)
}

func decimal(p *float64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%.1f", *p)
}

func maxByAverageProfit(recs []model.AggregateRecord) (model.AggregateRecord, bool) {
	best, found := model.AggregateRecord{}, false
	for _, r := range recs {
		if r.AverageProfit == nil {
			continue
		}
		if !found || *r.AverageProfit > derefOr(best.AverageProfit) {
			best, found = r, true
		}
	}
	return best, found
}

func maxByROI(recs []model.AggregateRecord) (model.AggregateRecord, bool) {
	best, found := model.AggregateRecord{}, false
	for _, r := range recs {
		if r.ROI == nil {
			continue
		}
		if !found || *r.ROI > derefOr(best.ROI) {
			best, found = r, true
		}
	}
	return best, found
}

func minByDaysToSell(recs []model.AggregateRecord) (model.AggregateRecord, bool) {
	best, found := model.AggregateRecord{}, false
	for _, r := range recs {
		if r.AverageDaysToSell == nil {
			continue
		}
		if !found || *r.AverageDaysToSell < derefOr(best.AverageDaysToSell) {
			best, found = r, true
		}
	}
	return best, found
}

func derefOr(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
