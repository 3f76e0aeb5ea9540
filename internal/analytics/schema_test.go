package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealer-insights/internal/model"
)

func TestNormalizeColumnName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sale Date", "sale_date"},
		{"SoldPrice", "sold_price"},
		{"daysToClose", "days_to_close"},
		{"Lead-Source", "lead_source"},
		{"  Vehicle  Make  ", "vehicle_make"},
		{"Total Profit ($)", "total_profit"},
		{"VehicleYear", "vehicle_year"},
		{"price", "price"},
		{"REP_ID", "rep_id"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeColumnName(tt.in), "input %q", tt.in)
	}
}

func TestIsMonetaryName(t *testing.T) {
	assert.True(t, isMonetaryName("sold_price"))
	assert.True(t, isMonetaryName("total_profit"))
	assert.True(t, isMonetaryName("marketing_cost"))
	assert.True(t, isMonetaryName("price"))

	// pattern must match a whole word, not a substring
	assert.False(t, isMonetaryName("priceless"))

	// exclusion guard wins over a monetary word
	assert.False(t, isMonetaryName("rep_total"))
	assert.False(t, isMonetaryName("invoice_number_amount"))
	assert.False(t, isMonetaryName("customer_name"))
}

func TestHasWord(t *testing.T) {
	assert.True(t, hasWord("sold_price", "price"))
	assert.True(t, hasWord("sold_price", "sold_price"))
	assert.False(t, hasWord("sold_price", "old"))
	assert.False(t, hasWord("price", "sold_price"))
}

func TestResolvePriceTiers(t *testing.T) {
	// the listed/asking price must not shadow the transaction price
	table := model.NewTable([]string{"listing_price", "sold_price"})
	table.Cells["listing_price"] = []interface{}{32000.0}
	table.Cells["sold_price"] = []interface{}{30000.0}

	schema := Resolve(table)
	col, ok := schema.Column(model.RolePrice)
	require.True(t, ok)
	assert.Equal(t, "sold_price", col)
}

func TestResolvePriceExactFallback(t *testing.T) {
	table := model.NewTable([]string{"listing_price", "price"})
	table.Cells["listing_price"] = []interface{}{32000.0}
	table.Cells["price"] = []interface{}{30000.0}

	schema := Resolve(table)
	col, ok := schema.Column(model.RolePrice)
	require.True(t, ok)
	assert.Equal(t, "price", col)
}

func TestResolveFirstMatchWins(t *testing.T) {
	table := model.NewTable([]string{"gross_profit", "net_profit"})
	table.Cells["gross_profit"] = []interface{}{100.0}
	table.Cells["net_profit"] = []interface{}{90.0}

	schema := Resolve(table)
	col, ok := schema.Column(model.RoleProfit)
	require.True(t, ok)
	assert.Equal(t, "gross_profit", col)
}

func TestResolveForcedRoles(t *testing.T) {
	table := model.NewTable([]string{"days_to_close", "vehicle_year", "sale_date", "sold_price"})
	for _, c := range table.Columns {
		table.Cells[c] = []interface{}{nil}
	}

	schema := Resolve(table)

	col, ok := schema.Column(model.RoleDaysToClose)
	require.True(t, ok)
	assert.Equal(t, "days_to_close", col)

	col, ok = schema.Column(model.RoleVehicleYear)
	require.True(t, ok)
	assert.Equal(t, "vehicle_year", col)

	// sale date resolution must skip the price column even though
	// "sold" is date-flavored
	col, ok = schema.Column(model.RoleSaleDate)
	require.True(t, ok)
	assert.Equal(t, "sale_date", col)
}

func TestResolveMissingRolesAbsent(t *testing.T) {
	table := model.NewTable([]string{"foo", "bar"})
	table.Cells["foo"] = []interface{}{"a"}
	table.Cells["bar"] = []interface{}{"b"}

	schema := Resolve(table)
	assert.False(t, schema.Has(model.RolePrice))
	assert.False(t, schema.Has(model.RoleProfit))
	assert.False(t, schema.Has(model.RoleSalesRep))
}

func TestSniffMonetary(t *testing.T) {
	assert.True(t, sniffMonetary([]interface{}{"$1,200", "900"}))
	assert.True(t, sniffMonetary([]interface{}{"1,200", "900"}))
	assert.False(t, sniffMonetary([]interface{}{"1200", "900"}))
	assert.False(t, sniffMonetary([]interface{}{1200.0, 900.0}))
}

func TestSniffDate(t *testing.T) {
	assert.True(t, sniffDate([]interface{}{"2023-01-15", "2023-02-01"}))
	assert.False(t, sniffDate([]interface{}{"2023-01-15", "not a date"}))
	// a column with no string values is never a date candidate
	assert.False(t, sniffDate([]interface{}{nil, nil}))
}
