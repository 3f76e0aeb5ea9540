package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealer-insights/internal/model"
)

const dealershipCSV = `Sale Date,SoldPrice,Listing Price,Sales Rep,Lead Source,VehicleMake,VehicleModel,Vehicle Year,Days to Close,Profit,Marketing Cost
2023-01-15,"$30,000","$32,000",Jane Smith,Web,Toyota,Camry,2020,12,"$4,000",$500
2023-01-20,"$20,000","$21,000",Bob Jones,Referral,Honda,Civic,2019,20,"$2,500",$250
2023-02-05,"$40,000","$42,000",Jane Smith,Web,Toyota,RAV4,2021,8,"$6,000",$500
2023-02-10,"$25,000","$26,000",Ann Lee,Walk-in,Honda,Civic,2018,30,"$1,500",$0
`

func loadDealership(t *testing.T) (*model.Table, model.ResolvedSchema) {
	t.Helper()
	raw, err := LoadCSV(strings.NewReader(dealershipCSV))
	require.NoError(t, err)
	return Clean(raw)
}

func TestCleanRenamesColumns(t *testing.T) {
	table, _ := loadDealership(t)
	assert.Equal(t, []string{
		"sale_date", "sold_price", "listing_price", "sales_rep", "lead_source",
		"vehicle_make", "vehicle_model", "vehicle_year", "days_to_close",
		"profit", "marketing_cost",
	}, table.Columns)
}

func TestCleanTypesCells(t *testing.T) {
	table, _ := loadDealership(t)

	assert.Equal(t, 30000.0, table.Cells["sold_price"][0])
	assert.Equal(t, 4000.0, table.Cells["profit"][0])
	assert.Equal(t, 500.0, table.Cells["marketing_cost"][0])
	assert.Equal(t, 0.0, table.Cells["marketing_cost"][3])

	// days_to_close is numeric despite its date-flavored name
	assert.Equal(t, 12.0, table.Cells["days_to_close"][0])

	date, ok := table.Cells["sale_date"][0].(time.Time)
	require.True(t, ok)
	assert.Equal(t, "2023-01-15", date.Format("2006-01-02"))

	year, ok := table.Cells["vehicle_year"][0].(time.Time)
	require.True(t, ok)
	assert.Equal(t, "2020", year.Format("2006"))

	assert.Equal(t, "Jane Smith", table.Cells["sales_rep"][0])
}

func TestCleanResolvesSchema(t *testing.T) {
	_, schema := loadDealership(t)

	want := map[model.Role]string{
		model.RolePrice:        "sold_price",
		model.RoleProfit:       "profit",
		model.RoleExpense:      "marketing_cost",
		model.RoleSalesRep:     "sales_rep",
		model.RoleLeadSource:   "lead_source",
		model.RoleVehicleMake:  "vehicle_make",
		model.RoleVehicleModel: "vehicle_model",
		model.RoleVehicleYear:  "vehicle_year",
		model.RoleSaleDate:     "sale_date",
		model.RoleDaysToClose:  "days_to_close",
	}
	for role, col := range want {
		got, ok := schema.Column(role)
		require.True(t, ok, "role %s", role)
		assert.Equal(t, col, got, "role %s", role)
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	table, schema := loadDealership(t)

	again, schema2 := Clean(table)
	assert.Equal(t, table.Columns, again.Columns)
	assert.Equal(t, table.Cells, again.Cells)
	assert.Equal(t, schema, schema2)
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	raw, err := LoadCSV(strings.NewReader(dealershipCSV))
	require.NoError(t, err)

	Clean(raw)
	assert.Equal(t, "$30,000", raw.Cells["SoldPrice"][0])
	assert.Equal(t, []string{
		"Sale Date", "SoldPrice", "Listing Price", "Sales Rep", "Lead Source",
		"VehicleMake", "VehicleModel", "Vehicle Year", "Days to Close",
		"Profit", "Marketing Cost",
	}, raw.Columns)
}

func TestCleanFillsMissingValues(t *testing.T) {
	csv := "rep,amount\nJane,100\n,\nBob,200\n"
	raw, err := LoadCSV(strings.NewReader(csv))
	require.NoError(t, err)

	table, _ := Clean(raw)
	assert.Equal(t, "", table.Cells["rep"][1])
	assert.Equal(t, 0.0, table.Cells["amount"][1])
}

func TestCleanRenameCollision(t *testing.T) {
	csv := "Sale Price,sale_price,x\n100,200,a\n"
	raw, err := LoadCSV(strings.NewReader(csv))
	require.NoError(t, err)

	table, _ := Clean(raw)
	assert.Equal(t, []string{"sale_price", "sale_price_2", "x"}, table.Columns)
}
