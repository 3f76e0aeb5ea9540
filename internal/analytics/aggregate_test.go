package analytics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealer-insights/internal/model"
)

func TestAnalyzeGeneral(t *testing.T) {
	table, schema := loadDealership(t)

	a, ok := Analyze(table, schema, model.IntentGeneral).(model.GeneralAnalysis)
	require.True(t, ok)

	assert.Equal(t, 4, a.Summary.TotalRecords)
	assert.Equal(t, 115000.0, a.Summary.TotalSales)
	assert.Equal(t, 14000.0, a.Summary.TotalProfit)
	assert.Equal(t, 3500.0, a.Summary.AverageProfit)

	require.NotNil(t, a.Summary.DateRange)
	assert.Equal(t, "2023-01-15", a.Summary.DateRange.Start)
	assert.Equal(t, "2023-02-10", a.Summary.DateRange.End)
	assert.Equal(t, 26, a.Summary.DateRange.Days)

	require.Len(t, a.TopMetrics, 3)
	assert.Equal(t, "Jane Smith", a.TopMetrics[0].Value)
	assert.Equal(t, "Web", a.TopMetrics[1].Value)
	assert.Equal(t, "bar", a.ChartType)
}

func TestAnalyzeSales(t *testing.T) {
	table, schema := loadDealership(t)

	a, ok := Analyze(table, schema, model.IntentSales).(model.SalesAnalysis)
	require.True(t, ok)

	assert.Equal(t, 115000.0, a.Summary.TotalSales)
	assert.Equal(t, 28750.0, a.Summary.AverageSalePrice)

	require.NotNil(t, a.Summary.HighestSale)
	assert.Equal(t, 40000.0, *a.Summary.HighestSale.Price)
	assert.Equal(t, "Toyota", a.Summary.HighestSale.VehicleMake)
	assert.Equal(t, "RAV4", a.Summary.HighestSale.VehicleModel)
	assert.Equal(t, "Jane Smith", a.Summary.HighestSale.SalesRep)

	require.NotNil(t, a.Summary.LowestSale)
	assert.Equal(t, 20000.0, *a.Summary.LowestSale.Price)

	// ranked by profit because a profit column resolved
	require.Len(t, a.SalesByRep, 3)
	assert.Equal(t, "Jane Smith", a.SalesByRep[0].Name)
	assert.Equal(t, 70000.0, *a.SalesByRep[0].TotalSales)
	assert.Equal(t, 2, a.SalesByRep[0].SaleCount)

	require.Len(t, a.SalesByMonth, 2)
	assert.Equal(t, "2023-01", a.SalesByMonth[0].Month)
	assert.Equal(t, 50000.0, a.SalesByMonth[0].TotalSales)
	assert.Equal(t, 2, a.SalesByMonth[0].SaleCount)
	assert.Equal(t, "2023-02", a.SalesByMonth[1].Month)
	assert.Equal(t, 65000.0, a.SalesByMonth[1].TotalSales)

	// vehicle identity is "make model"
	names := make([]string, 0, len(a.SalesByVehicleType))
	for _, v := range a.SalesByVehicleType {
		names = append(names, v.Name)
	}
	assert.ElementsMatch(t, []string{"Toyota Camry", "Honda Civic", "Toyota RAV4"}, names)
	assert.Equal(t, "Honda Civic", a.SalesByVehicleType[0].Name)
	assert.Equal(t, 45000.0, *a.SalesByVehicleType[0].TotalSales)
}

func TestAnalyzeProfit(t *testing.T) {
	table, schema := loadDealership(t)

	a, ok := Analyze(table, schema, model.IntentProfit).(model.ProfitAnalysis)
	require.True(t, ok)

	assert.Equal(t, 14000.0, a.Summary.TotalProfit)
	assert.Equal(t, 3500.0, a.Summary.AverageProfit)

	require.NotNil(t, a.Summary.HighestProfitSale)
	assert.Equal(t, 6000.0, *a.Summary.HighestProfitSale.Profit)

	require.NotNil(t, a.Summary.ProfitMargin)
	assert.InDelta(t, 14000.0/115000.0*100, *a.Summary.ProfitMargin, 0.001)

	require.Len(t, a.ProfitByRep, 3)
	assert.Equal(t, "Jane Smith", a.ProfitByRep[0].Name)
	assert.Equal(t, 10000.0, *a.ProfitByRep[0].TotalProfit)
	assert.Equal(t, 5000.0, *a.ProfitByRep[0].AverageProfit)
}

func TestAnalyzeReps(t *testing.T) {
	table, schema := loadDealership(t)

	a, ok := Analyze(table, schema, model.IntentRep).(model.RepAnalysis)
	require.True(t, ok)

	assert.Equal(t, 3, a.Summary.TotalReps)
	require.NotNil(t, a.Summary.TopRep)
	assert.Equal(t, "Jane Smith", a.Summary.TopRep.Name)
	require.NotNil(t, a.Summary.AverageProfitPerRep)
	assert.InDelta(t, 14000.0/3, *a.Summary.AverageProfitPerRep, 0.001)

	require.Len(t, a.RepMetrics, 3)
	top := a.RepMetrics[0]
	assert.Equal(t, "Jane Smith", top.Name)
	assert.Equal(t, 40000.0, *top.HighestSale)
	assert.Equal(t, 6000.0, *top.HighestProfit)
	require.NotNil(t, top.ProfitMargin)
	assert.InDelta(t, 10000.0/70000.0*100, *top.ProfitMargin, 0.001)

	// chart carries profit and count series for the same labels
	require.Len(t, a.ChartData.Datasets, 2)
	assert.Equal(t, a.ChartData.Labels[0], "Jane Smith")
	assert.Equal(t, 10000.0, a.ChartData.Datasets[0].Data[0])
	assert.Equal(t, 2.0, a.ChartData.Datasets[1].Data[0])
}

func TestAnalyzeLeadSourcesROI(t *testing.T) {
	table, schema := loadDealership(t)

	a, ok := Analyze(table, schema, model.IntentLeadSource).(model.LeadSourceAnalysis)
	require.True(t, ok)

	assert.Equal(t, 3, a.Summary.TotalSources)
	require.NotNil(t, a.Summary.TopSource)
	assert.Equal(t, "Web", a.Summary.TopSource.Name)

	require.Len(t, a.SourceROI, 3)
	assert.Equal(t, "Web", a.SourceROI[0].Name)
	assert.InDelta(t, 10000.0/1000.0*100, *a.SourceROI[0].ROI, 0.001)

	// zero recorded expense reports ROI 0, not infinity
	for _, s := range a.SourceROI {
		if s.Name == "Walk-in" {
			require.NotNil(t, s.ROI)
			assert.Equal(t, 0.0, *s.ROI)
		}
	}
}

func TestAnalyzeVehicles(t *testing.T) {
	table, schema := loadDealership(t)

	a, ok := Analyze(table, schema, model.IntentVehicle).(model.VehicleAnalysis)
	require.True(t, ok)

	assert.Equal(t, 4, a.Summary.TotalVehicles)
	require.NotNil(t, a.Summary.AverageDaysToSell)
	assert.InDelta(t, 17.5, *a.Summary.AverageDaysToSell, 0.001)

	require.NotNil(t, a.Summary.TopMake)
	assert.Equal(t, "Toyota", a.Summary.TopMake.Name)
	require.NotNil(t, a.Summary.TopModel)
	assert.Equal(t, "RAV4", a.Summary.TopModel.Name)

	require.Len(t, a.VehicleMetrics, 3)
	assert.Equal(t, "Toyota RAV4", a.VehicleMetrics[0].Name)
	require.NotNil(t, a.VehicleMetrics[0].AverageDaysToSell)
	assert.Equal(t, 8.0, *a.VehicleMetrics[0].AverageDaysToSell)
}

func TestAnalyzeVehiclesModelOnly(t *testing.T) {
	csv := "Model,SoldPrice\nCivic,20000\nCamry,30000\nCivic,25000\n"
	raw, err := LoadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	table, schema := Clean(raw)

	a, ok := Analyze(table, schema, model.IntentVehicle).(model.VehicleAnalysis)
	require.True(t, ok)

	// no make column: vehicle identity falls back to the model alone
	require.Len(t, a.VehicleMetrics, 2)
	assert.Equal(t, "Civic", a.VehicleMetrics[0].Name)
	assert.Equal(t, 45000.0, *a.VehicleMetrics[0].TotalSales)
	assert.Equal(t, 2, a.VehicleMetrics[0].SaleCount)
	assert.Equal(t, "Camry", a.VehicleMetrics[1].Name)
	assert.Equal(t, 30000.0, *a.VehicleMetrics[1].TotalSales)

	assert.Empty(t, a.MakePerformance)
	require.NotNil(t, a.Summary.TopModel)
	assert.Equal(t, "Civic", a.Summary.TopModel.Name)
}

func TestRankRecordsPriority(t *testing.T) {
	// profit outranks sales even when sales point the other way
	recs := []model.AggregateRecord{
		{Name: "A", TotalSales: fptr(90000), TotalProfit: fptr(1000)},
		{Name: "B", TotalSales: fptr(10000), TotalProfit: fptr(5000)},
	}
	schema := model.ResolvedSchema{model.RolePrice: "price", model.RoleProfit: "profit"}
	rankRecords(recs, schema)
	assert.Equal(t, "B", recs[0].Name)

	// without profit the price role decides
	schema = model.ResolvedSchema{model.RolePrice: "price"}
	rankRecords(recs, schema)
	assert.Equal(t, "A", recs[0].Name)
}

func TestRankRecordsStableTies(t *testing.T) {
	recs := []model.AggregateRecord{
		{Name: "first", SaleCount: 2},
		{Name: "second", SaleCount: 2},
		{Name: "third", SaleCount: 2},
	}
	rankRecords(recs, model.ResolvedSchema{})
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{recs[0].Name, recs[1].Name, recs[2].Name})
}

func TestChartCappedAtTopTen(t *testing.T) {
	csv := strings.Builder{}
	csv.WriteString("sales_rep,profit\n")
	for i := 0; i < 15; i++ {
		csv.WriteString("Rep")
		csv.WriteByte(byte('A' + i))
		csv.WriteString(",100\n")
	}
	raw, err := LoadCSV(strings.NewReader(csv.String()))
	require.NoError(t, err)
	table, schema := Clean(raw)

	a := Analyze(table, schema, model.IntentProfit).(model.ProfitAnalysis)
	assert.Len(t, a.ProfitByRep, 15)
	assert.Len(t, a.ChartData.Labels, 10)
	assert.Len(t, a.ChartData.Datasets[0].Data, 10)
}

func TestAnalyzeMissingRolesDegrade(t *testing.T) {
	csv := "widget,region\na,east\nb,west\na,east\n"
	raw, err := LoadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	table, schema := Clean(raw)

	a := Analyze(table, schema, model.IntentSales).(model.SalesAnalysis)
	assert.Equal(t, 0.0, a.Summary.TotalSales)
	assert.Nil(t, a.Summary.HighestSale)
	assert.Empty(t, a.SalesByRep)
	assert.Empty(t, a.SalesByMonth)

	r := Analyze(table, schema, model.IntentRep).(model.RepAnalysis)
	assert.Equal(t, 0, r.Summary.TotalReps)
	assert.Nil(t, r.Summary.TopRep)
}
