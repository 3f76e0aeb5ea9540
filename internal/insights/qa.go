package insights

import (
	"fmt"
	"regexp"
	"strings"

	"dealer-insights/internal/model"
	"dealer-insights/pkg/utils"
)

// intentKeywords maps question vocabulary to intents, checked in order.
// Earlier categories win when a question mixes vocabularies, so "which
// rep sold the most" routes to sales, matching how callers phrase money
// questions.
var intentKeywords = []struct {
	intent model.Intent
	terms  []string
}{
	{model.IntentSales, []string{"sales", "revenue", "sold", "selling", "sell"}},
	{model.IntentProfit, []string{"profit", "margin", "profitable", "earnings", "money"}},
	{model.IntentRep, []string{"rep", "representative", "salesperson", "sales person", "team"}},
	{model.IntentLeadSource, []string{"lead", "source", "marketing", "advertisement", "campaign"}},
	{model.IntentVehicle, []string{"vehicle", "car", "make", "model", "brand"}},
}

// DetermineIntent routes a free-text question to an analysis intent.
// The question is lowercased first; unmatched questions fall back to
// the general analysis.
func DetermineIntent(question string) model.Intent {
	q := strings.ToLower(strings.TrimSpace(question))
	for _, ik := range intentKeywords {
		for _, term := range ik.terms {
			if strings.Contains(q, term) {
				return ik.intent
			}
		}
	}
	return model.IntentGeneral
}

var (
	reSuperlative = regexp.MustCompile(`highest|top|best|most`)
	reRep         = regexp.MustCompile(`sales\s*rep|salesperson|representative`)
	reVehicle     = regexp.MustCompile(`vehicle|car|model|make`)
	reSource      = regexp.MustCompile(`lead\s*source|source|marketing`)
	reTotal       = regexp.MustCompile(`total|overall`)
	reAverage     = regexp.MustCompile(`average|mean`)
	reMargin      = regexp.MustCompile(`margin`)
	reLeaderboard = regexp.MustCompile(`leaderboard|ranking|rank|compare`)
	reROI         = regexp.MustCompile(`roi|return|investment`)
	reCompare     = regexp.MustCompile(`compare|comparison`)
	reMakeBrand   = regexp.MustCompile(`make|brand`)
	reModel       = regexp.MustCompile(`model`)
	reFast        = regexp.MustCompile(`fast|quick|days`)
	reSummary     = regexp.MustCompile(`summary|overview`)
)

// AnswerText renders the answer sentence for a question against the
// analysis produced for its intent. Pattern checks narrow from the most
// specific phrasing to a per-intent default, so every question gets an
// answer.
func AnswerText(question string, a model.Analysis) string {
	q := strings.ToLower(strings.TrimSpace(question))
	switch r := a.(type) {
	case model.SalesAnalysis:
		return salesAnswer(q, r)
	case model.ProfitAnalysis:
		return profitAnswer(q, r)
	case model.RepAnalysis:
		return repAnswer(q, r)
	case model.LeadSourceAnalysis:
		return leadSourceAnswer(q, r)
	case model.VehicleAnalysis:
		return vehicleAnswer(q, r)
	case model.GeneralAnalysis:
		return generalAnswer(q, r)
	default:
		return "I've analyzed your data and provided key insights below."
	}
}

func salesAnswer(q string, a model.SalesAnalysis) string {
	totalSales := utils.FormatCurrency(a.Summary.TotalSales)
	averageSale := utils.FormatCurrency(a.Summary.AverageSalePrice)

	if reSuperlative.MatchString(q) {
		if reRep.MatchString(q) && len(a.SalesByRep) > 0 {
			top := a.SalesByRep[0]
			return fmt.Sprintf("Your top sales representative is %s with %s in total sales. They completed %d sales with an average of %s per sale.",
				top.Name, utils.FormatCurrencyPtr(top.TotalSales), top.SaleCount, utils.FormatCurrencyPtr(top.AverageSale))
		}
		if reVehicle.MatchString(q) && len(a.SalesByVehicleType) > 0 {
			top := a.SalesByVehicleType[0]
			return fmt.Sprintf("Your top selling vehicle is the %s with %s in total sales. You sold %d units with an average price of %s per vehicle.",
				top.Name, utils.FormatCurrencyPtr(top.TotalSales), top.SaleCount, utils.FormatCurrencyPtr(top.AverageSale))
		}
	}
	if reTotal.MatchString(q) {
		return fmt.Sprintf("Your dealership generated %s in total sales. The average sale price was %s.", totalSales, averageSale)
	}
	if reAverage.MatchString(q) {
		return fmt.Sprintf("The average sale price at your dealership is %s.", averageSale)
	}
	return fmt.Sprintf("Based on your sales data, your dealership generated %s in total sales with an average sale price of %s. I've provided detailed insights below.",
		totalSales, averageSale)
}

func profitAnswer(q string, a model.ProfitAnalysis) string {
	totalProfit := utils.FormatCurrency(a.Summary.TotalProfit)
	averageProfit := utils.FormatCurrency(a.Summary.AverageProfit)
	margin := percent(a.Summary.ProfitMargin)

	if reSuperlative.MatchString(q) {
		if reRep.MatchString(q) && len(a.ProfitByRep) > 0 {
			top := a.ProfitByRep[0]
			return fmt.Sprintf("Your top profit-generating sales representative is %s with %s in total profit. Their average profit per sale is %s.",
				top.Name, utils.FormatCurrencyPtr(top.TotalProfit), utils.FormatCurrencyPtr(top.AverageProfit))
		}
		if reSource.MatchString(q) && len(a.ProfitByLeadSource) > 0 {
			top := a.ProfitByLeadSource[0]
			return fmt.Sprintf("Your most profitable lead source is %s with %s in total profit. The average profit per sale from this source is %s.",
				top.Name, utils.FormatCurrencyPtr(top.TotalProfit), utils.FormatCurrencyPtr(top.AverageProfit))
		}
		if reVehicle.MatchString(q) && len(a.ProfitByVehicleType) > 0 {
			top := a.ProfitByVehicleType[0]
			return fmt.Sprintf("Your most profitable vehicle is the %s with %s in total profit. The average profit per sale for this vehicle is %s.",
				top.Name, utils.FormatCurrencyPtr(top.TotalProfit), utils.FormatCurrencyPtr(top.AverageProfit))
		}
	}
	if reTotal.MatchString(q) {
		return fmt.Sprintf("Your dealership generated %s in total profit with an overall profit margin of %s.", totalProfit, margin)
	}
	if reAverage.MatchString(q) {
		return fmt.Sprintf("The average profit per sale at your dealership is %s.", averageProfit)
	}
	if reMargin.MatchString(q) {
		return fmt.Sprintf("Your dealership's overall profit margin is %s.", margin)
	}
	return fmt.Sprintf("Based on your data, your dealership generated %s in total profit with an average profit of %s per sale. The overall profit margin is %s. I've provided detailed insights below.",
		totalProfit, averageProfit, margin)
}

func repAnswer(q string, a model.RepAnalysis) string {
	if reSuperlative.MatchString(q) {
		if top := a.Summary.TopRep; top != nil {
			return fmt.Sprintf("Your top performing sales representative is %s with %s in total profit from %d sales.",
				top.Name, utils.FormatCurrencyPtr(top.TotalProfit), top.SaleCount)
		}
	}
	if reLeaderboard.MatchString(q) && len(a.Leaderboard) >= 3 {
		top := a.Leaderboard[:3]
		return fmt.Sprintf("Your top 3 sales representatives by profit are: 1. %s with %s, 2. %s with %s, and 3. %s with %s.",
			top[0].Name, utils.FormatCurrencyPtr(top[0].TotalProfit),
			top[1].Name, utils.FormatCurrencyPtr(top[1].TotalProfit),
			top[2].Name, utils.FormatCurrencyPtr(top[2].TotalProfit))
	}
	if reAverage.MatchString(q) {
		return fmt.Sprintf("The average profit generated per sales representative is %s.", utils.FormatCurrencyPtr(a.Summary.AverageProfitPerRep))
	}
	return fmt.Sprintf("Your sales team consists of %d representatives. I've provided detailed performance insights for your team below.", a.Summary.TotalReps)
}

func leadSourceAnswer(q string, a model.LeadSourceAnalysis) string {
	if reSuperlative.MatchString(q) {
		if reROI.MatchString(q) {
			if best, ok := maxByROI(a.SourceROI); ok {
				return fmt.Sprintf("Your highest ROI lead source is %s with a return on investment of %s. This source generated %s in total profit.",
					best.Name, percent(best.ROI), utils.FormatCurrencyPtr(best.TotalProfit))
			}
		} else if top := a.Summary.TopSource; top != nil {
			return fmt.Sprintf("Your most profitable lead source is %s with %s in total profit from %d sales.",
				top.Name, utils.FormatCurrencyPtr(top.TotalProfit), top.SaleCount)
		}
	}
	if reCompare.MatchString(q) && len(a.SourceMetrics) >= 3 {
		top := a.SourceMetrics[:3]
		return fmt.Sprintf("Your top 3 lead sources by profit are: 1. %s with %s, 2. %s with %s, and 3. %s with %s.",
			top[0].Name, utils.FormatCurrencyPtr(top[0].TotalProfit),
			top[1].Name, utils.FormatCurrencyPtr(top[1].TotalProfit),
			top[2].Name, utils.FormatCurrencyPtr(top[2].TotalProfit))
	}
	return fmt.Sprintf("Your dealership uses %d different lead sources. I've provided detailed performance insights for your lead sources below.", a.Summary.TotalSources)
}

func vehicleAnswer(q string, a model.VehicleAnalysis) string {
	avgDays := decimal(a.Summary.AverageDaysToSell)

	if reSuperlative.MatchString(q) {
		if reMakeBrand.MatchString(q) {
			if top := a.Summary.TopMake; top != nil {
				return fmt.Sprintf("Your most profitable vehicle make is %s with %s in total profit from %d sales.",
					top.Name, utils.FormatCurrencyPtr(top.TotalProfit), top.SaleCount)
			}
		}
		if reModel.MatchString(q) {
			if top := a.Summary.TopModel; top != nil {
				return fmt.Sprintf("Your most profitable vehicle model is the %s with %s in total profit from %d sales.",
					top.Name, utils.FormatCurrencyPtr(top.TotalProfit), top.SaleCount)
			}
		}
	}
	if reFast.MatchString(q) {
		if best, ok := minByDaysToSell(a.VehicleMetrics); ok {
			return fmt.Sprintf("Your fastest selling vehicle is the %s with an average of %s days to sell. The overall average for all vehicles is %s days.",
				best.Name, decimal(best.AverageDaysToSell), avgDays)
		}
	}
	return fmt.Sprintf("Your dealership sold %d vehicles with an average time to sell of %s days. I've provided detailed insights about your vehicle performance below.",
		a.Summary.TotalVehicles, avgDays)
}

func generalAnswer(q string, a model.GeneralAnalysis) string {
	totalSales := utils.FormatCurrency(a.Summary.TotalSales)
	totalProfit := utils.FormatCurrency(a.Summary.TotalProfit)
	averageProfit := utils.FormatCurrency(a.Summary.AverageProfit)

	if reSummary.MatchString(q) {
		return fmt.Sprintf("Your dealership generated %s in sales and %s in profit. The average profit per sale is %s. I've provided detailed insights below.",
			totalSales, totalProfit, averageProfit)
	}
	return fmt.Sprintf("Based on your data, I've analyzed your dealership's performance and provided key insights below. Your dealership generated %s in total profit with an average of %s per sale.",
		totalProfit, averageProfit)
}
