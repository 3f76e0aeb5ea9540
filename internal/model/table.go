package model

// Table is an ordered set of named columns aligned by row index. Every
// column holds exactly RowCount() cells; a nil cell means "missing".
// Raw tables hold strings, cleaned tables hold float64 / time.Time /
// string cells depending on the column's resolved role.
type Table struct {
	Columns []string                 `json:"columns"`
	Cells   map[string][]interface{} `json:"cells"`
}

// NewTable creates an empty table with the given column order.
func NewTable(columns []string) *Table {
	t := &Table{
		Columns: append([]string(nil), columns...),
		Cells:   make(map[string][]interface{}, len(columns)),
	}
	for _, c := range t.Columns {
		t.Cells[c] = nil
	}
	return t
}

// RowCount returns the number of rows in the table.
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Cells[t.Columns[0]])
}

// Column returns the cells of a named column, or nil if absent.
func (t *Table) Column(name string) []interface{} {
	return t.Cells[name]
}

// HasColumn reports whether the table contains the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Cells[name]
	return ok
}

// Clone returns a deep copy. Cleaning never mutates the caller's table,
// so every transformation starts from a clone.
func (t *Table) Clone() *Table {
	out := NewTable(t.Columns)
	for _, c := range t.Columns {
		out.Cells[c] = append([]interface{}(nil), t.Cells[c]...)
	}
	return out
}

// Role is the semantic category assigned to a table column.
type Role string

const (
	RolePrice        Role = "price"
	RoleProfit       Role = "profit"
	RoleExpense      Role = "expense"
	RoleSalesRep     Role = "sales_rep"
	RoleLeadSource   Role = "lead_source"
	RoleVehicleMake  Role = "vehicle_make"
	RoleVehicleModel Role = "vehicle_model"
	RoleVehicleYear  Role = "vehicle_year"
	RoleSaleDate     Role = "sale_date"
	RoleDaysToClose  Role = "days_to_close"
)

// ResolvedSchema maps roles to the column names matched in a table.
// A missing key means no column satisfied the role's patterns.
type ResolvedSchema map[Role]string

// Column returns the column name matched for a role.
func (s ResolvedSchema) Column(r Role) (string, bool) {
	name, ok := s[r]
	return name, ok
}

// Has reports whether a column was matched for the role.
func (s ResolvedSchema) Has(r Role) bool {
	_, ok := s[r]
	return ok
}
