package model

// Intent is the analysis category requested by a caller.
type Intent string

const (
	IntentGeneral    Intent = "general_analysis"
	IntentSales      Intent = "sales_analysis"
	IntentProfit     Intent = "profit_analysis"
	IntentRep        Intent = "rep_performance"
	IntentLeadSource Intent = "lead_source_analysis"
	IntentVehicle    Intent = "vehicle_analysis"
)

// ParseIntent maps a request string to a known intent, defaulting to
// general analysis for anything unrecognized.
func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentSales, IntentProfit, IntentRep, IntentLeadSource, IntentVehicle:
		return Intent(s)
	default:
		return IntentGeneral
	}
}

// ChartDataset is one named numeric series of a chart payload.
type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// ChartData is the label/series payload consumed by chart renderers.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// DateRange describes the span of the resolved date column.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

// AggregateRecord is one row of a grouped summary: a group key plus the
// metrics whose backing roles resolved. Pointer fields are omitted when
// the dependent column is absent, not zero-filled.
type AggregateRecord struct {
	Name              string   `json:"name"`
	SaleCount         int      `json:"sale_count"`
	TotalSales        *float64 `json:"total_sales,omitempty"`
	AverageSale       *float64 `json:"average_sale,omitempty"`
	HighestSale       *float64 `json:"highest_sale,omitempty"`
	TotalProfit       *float64 `json:"total_profit,omitempty"`
	AverageProfit     *float64 `json:"average_profit,omitempty"`
	HighestProfit     *float64 `json:"highest_profit,omitempty"`
	ProfitMargin      *float64 `json:"profit_margin,omitempty"`
	TotalExpense      *float64 `json:"total_expense,omitempty"`
	AverageExpense    *float64 `json:"average_expense,omitempty"`
	ROI               *float64 `json:"roi,omitempty"`
	AverageDaysToSell *float64 `json:"average_days_to_sell,omitempty"`
}

// MonthlySales is the sales aggregate for one YYYY-MM bucket.
type MonthlySales struct {
	Month       string  `json:"month"`
	TotalSales  float64 `json:"total_sales"`
	AverageSale float64 `json:"average_sale"`
	SaleCount   int     `json:"sale_count"`
}

// SaleDetail describes a single extreme sale (highest/lowest price,
// highest profit) with whatever context columns resolved.
type SaleDetail struct {
	Price        *float64 `json:"price,omitempty"`
	Profit       *float64 `json:"profit,omitempty"`
	VehicleMake  string   `json:"vehicle_make,omitempty"`
	VehicleModel string   `json:"vehicle_model,omitempty"`
	VehicleYear  string   `json:"vehicle_year,omitempty"`
	SalesRep     string   `json:"sales_rep,omitempty"`
}

// TopMetric is one headline entry of the general analysis.
type TopMetric struct {
	Title       string `json:"title"`
	Value       string `json:"value"`
	Metric      string `json:"metric"`
	Description string `json:"description"`
}

// Analysis is implemented by every per-intent result type. Consumers
// that only need the chart payload (renderers, question answering)
// stay agnostic of the concrete result.
type Analysis interface {
	Intent() Intent
	Chart() (ChartData, string)
}

// GeneralSummary holds the headline numbers of a general analysis.
type GeneralSummary struct {
	TotalRecords  int        `json:"total_records"`
	DateRange     *DateRange `json:"date_range,omitempty"`
	TotalSales    float64    `json:"total_sales"`
	TotalProfit   float64    `json:"total_profit"`
	AverageProfit float64    `json:"average_profit"`
}

type GeneralAnalysis struct {
	Summary    GeneralSummary `json:"summary"`
	TopMetrics []TopMetric    `json:"top_metrics"`
	ChartData  ChartData      `json:"chart_data"`
	ChartType  string         `json:"chart_type"`
}

func (GeneralAnalysis) Intent() Intent { return IntentGeneral }
func (a GeneralAnalysis) Chart() (ChartData, string) { return a.ChartData, a.ChartType }

type SalesSummary struct {
	TotalSales       float64     `json:"total_sales"`
	AverageSalePrice float64     `json:"average_sale_price"`
	HighestSale      *SaleDetail `json:"highest_sale,omitempty"`
	LowestSale       *SaleDetail `json:"lowest_sale,omitempty"`
}

type SalesAnalysis struct {
	Summary            SalesSummary      `json:"summary"`
	SalesByRep         []AggregateRecord `json:"sales_by_rep"`
	SalesByMonth       []MonthlySales    `json:"sales_by_month,omitempty"`
	SalesByVehicleType []AggregateRecord `json:"sales_by_vehicle_type"`
	ChartData          ChartData         `json:"chart_data"`
	ChartType          string            `json:"chart_type"`
}

func (SalesAnalysis) Intent() Intent { return IntentSales }
func (a SalesAnalysis) Chart() (ChartData, string) { return a.ChartData, a.ChartType }

type ProfitSummary struct {
	TotalProfit       float64     `json:"total_profit"`
	AverageProfit     float64     `json:"average_profit"`
	HighestProfitSale *SaleDetail `json:"highest_profit_sale,omitempty"`
	ProfitMargin      *float64    `json:"profit_margin,omitempty"`
}

type ProfitAnalysis struct {
	Summary             ProfitSummary     `json:"summary"`
	ProfitByRep         []AggregateRecord `json:"profit_by_rep"`
	ProfitByLeadSource  []AggregateRecord `json:"profit_by_lead_source"`
	ProfitByVehicleType []AggregateRecord `json:"profit_by_vehicle_type"`
	ChartData           ChartData         `json:"chart_data"`
	ChartType           string            `json:"chart_type"`
}

func (ProfitAnalysis) Intent() Intent { return IntentProfit }
func (a ProfitAnalysis) Chart() (ChartData, string) { return a.ChartData, a.ChartType }

type RepSummary struct {
	TotalReps           int              `json:"total_reps"`
	TopRep              *AggregateRecord `json:"top_rep,omitempty"`
	AverageProfitPerRep *float64         `json:"average_profit_per_rep,omitempty"`
}

type RepAnalysis struct {
	Summary     RepSummary        `json:"summary"`
	Leaderboard []AggregateRecord `json:"rep_leaderboard"`
	RepMetrics  []AggregateRecord `json:"rep_metrics"`
	ChartData   ChartData         `json:"chart_data"`
	ChartType   string            `json:"chart_type"`
}

func (RepAnalysis) Intent() Intent { return IntentRep }
func (a RepAnalysis) Chart() (ChartData, string) { return a.ChartData, a.ChartType }

type LeadSourceSummary struct {
	TotalSources           int              `json:"total_sources"`
	TopSource              *AggregateRecord `json:"top_source,omitempty"`
	AverageProfitPerSource *float64         `json:"average_profit_per_source,omitempty"`
}

type LeadSourceAnalysis struct {
	Summary       LeadSourceSummary `json:"summary"`
	SourceMetrics []AggregateRecord `json:"source_metrics"`
	SourceROI     []AggregateRecord `json:"source_roi"`
	ChartData     ChartData         `json:"chart_data"`
	ChartType     string            `json:"chart_type"`
}

func (LeadSourceAnalysis) Intent() Intent { return IntentLeadSource }
func (a LeadSourceAnalysis) Chart() (ChartData, string) { return a.ChartData, a.ChartType }

type VehicleSummary struct {
	TotalVehicles     int              `json:"total_vehicles"`
	TopMake           *AggregateRecord `json:"top_make,omitempty"`
	TopModel          *AggregateRecord `json:"top_model,omitempty"`
	AverageDaysToSell *float64         `json:"average_days_to_sell,omitempty"`
}

type VehicleAnalysis struct {
	Summary          VehicleSummary    `json:"summary"`
	VehicleMetrics   []AggregateRecord `json:"vehicle_metrics"`
	MakePerformance  []AggregateRecord `json:"make_performance"`
	ModelPerformance []AggregateRecord `json:"model_performance"`
	ChartData        ChartData         `json:"chart_data"`
	ChartType        string            `json:"chart_type"`
}

func (VehicleAnalysis) Intent() Intent { return IntentVehicle }
func (a VehicleAnalysis) Chart() (ChartData, string) { return a.ChartData, a.ChartType }
