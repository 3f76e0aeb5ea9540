package analytics

import (
	"regexp"
	"strings"

	"dealer-insights/internal/model"
)

// Column-name heuristics. Matching is always against the snake_case
// normalized name, and always first-match-in-column-order: when several
// columns satisfy a role, the earliest column wins. That tie-break is a
// contract relied on by the aggregation ranking tests.

// monetaryNamePatterns are matched as whole underscore-delimited words,
// so "sold_price" matches "price" but "priceless" does not.
var monetaryNamePatterns = []string{
	"price", "profit", "gross", "expense", "cost", "revenue", "sale",
	"amount", "total", "fee", "charge", "budget", "payment", "income",
}

// monetaryExcludePatterns veto monetary classification as plain
// substrings. This keeps rep_id and invoice_number out of the monetary
// set, at the cost of false negatives like commission_id_amount.
var monetaryExcludePatterns = []string{"name", "rep", "id", "number"}

// dateNamePatterns are matched as plain substrings.
var dateNamePatterns = []string{
	"date", "day", "month", "year", "time", "created", "updated",
	"timestamp", "sold", "purchased", "closed",
}

var (
	camelBoundaryAcronym = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	camelBoundaryLower   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	nonAlnumRun          = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	underscoreRun        = regexp.MustCompile(`_+`)
)

// NormalizeColumnName converts an arbitrary header to snake_case:
// camelCase boundaries become underscores, runs of non-alphanumerics
// collapse to a single underscore, and the result is lowercased with
// leading/trailing underscores trimmed.
func NormalizeColumnName(name string) string {
	s := camelBoundaryAcronym.ReplaceAllString(name, "${1}_${2}")
	s = camelBoundaryLower.ReplaceAllString(s, "${1}_${2}")
	s = nonAlnumRun.ReplaceAllString(s, "_")
	s = underscoreRun.ReplaceAllString(s, "_")
	return strings.Trim(strings.ToLower(s), "_")
}

// hasWord reports whether word appears as a whole underscore-delimited
// segment run of name, e.g. hasWord("sold_price", "price") is true and
// hasWord("sold_price", "old") is false. Multi-segment words like
// "sold_price" are matched against consecutive segments.
func hasWord(name, word string) bool {
	segs := strings.Split(name, "_")
	wordSegs := strings.Split(word, "_")
	if len(wordSegs) > len(segs) {
		return false
	}
	for i := 0; i+len(wordSegs) <= len(segs); i++ {
		match := true
		for j, w := range wordSegs {
			if segs[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func containsAny(name string, patterns ...string) bool {
	for _, p := range patterns {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// isMonetaryName reports whether a normalized column name matches the
// monetary pattern set and survives the exclusion guard.
func isMonetaryName(name string) bool {
	if containsAny(name, monetaryExcludePatterns...) {
		return false
	}
	for _, p := range monetaryNamePatterns {
		if hasWord(name, p) {
			return true
		}
	}
	return false
}

// isDateName reports whether a normalized column name matches the date
// pattern set. days_to_close and price columns match here too; the
// cleaning pass applies their overrides afterwards.
func isDateName(name string) bool {
	return containsAny(name, dateNamePatterns...)
}

// isDaysToCloseName identifies the columns forced to plain numeric even
// though "closed"/"days" would otherwise pull them into the date set.
func isDaysToCloseName(name string) bool {
	return containsAny(name, "days_to_close", "days_to_sell")
}

func isVehicleYearName(name string) bool {
	return strings.Contains(name, "vehicle_year")
}

// isPriceName guards price columns against date coercion even when
// their values happen to parse as dates.
func isPriceName(name string) bool {
	return strings.Contains(name, "price")
}

const (
	monetarySniffSample = 100
	dateSniffSample     = 10
)

// sniffMonetary samples raw string cells for currency formatting. Any
// cell carrying a dollar sign or thousands separator marks the column.
func sniffMonetary(cells []interface{}) bool {
	seen := 0
	for _, v := range cells {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		if strings.ContainsAny(s, "$,") {
			return true
		}
		seen++
		if seen >= monetarySniffSample {
			break
		}
	}
	return false
}

// sniffDate samples raw string cells and accepts the column only if
// every sampled value parses as a date.
func sniffDate(cells []interface{}) bool {
	seen := 0
	for _, v := range cells {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		if _, ok := tryParseDate(s); !ok {
			return false
		}
		seen++
		if seen >= dateSniffSample {
			break
		}
	}
	return seen > 0
}

// hasStringCells reports whether the column still carries raw string
// values. Columns already coerced to float64/time.Time are skipped by
// both detection passes, which is what makes cleaning idempotent.
func hasStringCells(cells []interface{}) bool {
	for _, v := range cells {
		if s, ok := v.(string); ok && s != "" {
			return true
		}
	}
	return false
}

// monetaryColumns returns, in column order, every column the cleaning
// pass should coerce to numeric: name-pattern matches plus value-shape
// sniffs, minus exclusions and already-typed columns.
func monetaryColumns(t *model.Table) []string {
	var out []string
	for _, col := range t.Columns {
		cells := t.Cells[col]
		if !hasStringCells(cells) {
			continue
		}
		name := NormalizeColumnName(col)
		if containsAny(name, monetaryExcludePatterns...) {
			continue
		}
		if isMonetaryName(name) || sniffMonetary(cells) {
			out = append(out, col)
		}
	}
	return out
}

// dateColumns returns, in column order, every column the cleaning pass
// should run through date normalization. The days_to_close /
// vehicle_year / price overrides are applied by the caller per column.
func dateColumns(t *model.Table) []string {
	var out []string
	for _, col := range t.Columns {
		cells := t.Cells[col]
		name := NormalizeColumnName(col)
		if isDateName(name) {
			out = append(out, col)
			continue
		}
		if hasStringCells(cells) && sniffDate(cells) {
			out = append(out, col)
		}
	}
	return out
}

// rolePatterns is the explicit priority list per role, matched as plain
// substrings of the normalized name. Order within a role's term list is
// irrelevant; column order decides ties.
var rolePatterns = map[model.Role][]string{
	model.RoleProfit:       {"profit"},
	model.RoleExpense:      {"expense", "cost"},
	model.RoleSalesRep:     {"sales_rep", "salesperson", "rep_name"},
	model.RoleLeadSource:   {"lead_source", "source"},
	model.RoleVehicleMake:  {"make"},
	model.RoleVehicleModel: {"model"},
}

// priceTerms resolve the Price role in priority tiers: the explicit
// sold/selling/sale price names first, then a column literally named
// "price". A broader contains("price") would capture listing_price
// ahead of sold_price, which is not the sale amount.
var priceTerms = []string{"sold_price", "selling_price", "sale_price"}

// Resolve classifies the table's columns into roles. Each role gets at
// most one column, the first in column order that matches, and roles
// with no match are simply absent. Resolution never fails.
func Resolve(t *model.Table) model.ResolvedSchema {
	schema := make(model.ResolvedSchema)

	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = NormalizeColumnName(col)
	}

	// Forced roles first so the generic scans can skip their columns.
	for i, col := range t.Columns {
		if isDaysToCloseName(names[i]) {
			setRole(schema, model.RoleDaysToClose, col)
		} else if isVehicleYearName(names[i]) {
			setRole(schema, model.RoleVehicleYear, col)
		}
	}

	for role, terms := range rolePatterns {
		for i, col := range t.Columns {
			if schema[model.RoleDaysToClose] == col || schema[model.RoleVehicleYear] == col {
				continue
			}
			if containsAny(names[i], terms...) {
				setRole(schema, role, col)
				break
			}
		}
	}

	// Price: primary terms, then the exact-name fallback.
	for i, col := range t.Columns {
		if containsAny(names[i], priceTerms...) {
			setRole(schema, model.RolePrice, col)
			break
		}
	}
	if !schema.Has(model.RolePrice) {
		for i, col := range t.Columns {
			if names[i] == "price" {
				setRole(schema, model.RolePrice, col)
				break
			}
		}
	}

	// Sale date: substring "date", skipping the numeric and monetary
	// overrides so days_to_close and price columns never become dates.
	for i, col := range t.Columns {
		if isDaysToCloseName(names[i]) || isVehicleYearName(names[i]) || isPriceName(names[i]) {
			continue
		}
		if strings.Contains(names[i], "date") {
			setRole(schema, model.RoleSaleDate, col)
			break
		}
	}

	return schema
}

func setRole(schema model.ResolvedSchema, role model.Role, col string) {
	if _, ok := schema[role]; !ok {
		schema[role] = col
	}
}
