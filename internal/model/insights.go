package model

// InsightItem is one templated insight rendered from an analysis result.
// No new computation happens here; every value is formatted from numbers
// already present in the analysis.
type InsightItem struct {
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Employee      string   `json:"employee,omitempty"`
	EmployeeTitle string   `json:"employeeTitle,omitempty"`
	Amount        string   `json:"amount,omitempty"`
	Percentage    string   `json:"percentage,omitempty"`
	ActionItems   []string `json:"actionItems,omitempty"`
}
