package model

// UploadResponse is returned by POST /api/v1/uploads.
type UploadResponse struct {
	UploadID    string `json:"upload_id"`
	Filename    string `json:"filename"`
	RowCount    int    `json:"row_count"`
	ColumnCount int    `json:"column_count"`
	Status      string `json:"status"`
}

// ColumnStats summarizes one column of an uploaded table.
type ColumnStats struct {
	Name              string         `json:"name"`
	Type              string         `json:"type"` // integer, float, date_string, string
	MissingCount      int            `json:"missing_count"`
	MissingPercentage float64        `json:"missing_percentage"`
	UniqueCount       int            `json:"unique_count"`
	Min               *float64       `json:"min,omitempty"`
	Max               *float64       `json:"max,omitempty"`
	Mean              *float64       `json:"mean,omitempty"`
	TopValues         map[string]int `json:"top_values,omitempty"`
}

// AnalyzeRequest is the body of POST /api/v1/uploads/{id}/analyze.
type AnalyzeRequest struct {
	Intent string `json:"intent"`
}

// AnalyzeResponse carries the typed analysis plus its rendered insights.
type AnalyzeResponse struct {
	UploadID  string        `json:"upload_id"`
	Intent    Intent        `json:"intent"`
	Analysis  Analysis      `json:"analysis"`
	Insights  []InsightItem `json:"insights"`
	ChartData ChartData     `json:"chart_data"`
	ChartType string        `json:"chart_type"`
}

// QuestionRequest is the body of POST /api/v1/uploads/{id}/question.
type QuestionRequest struct {
	Question string `json:"question"`
}

// QuestionResponse answers a free-text question about an upload.
type QuestionResponse struct {
	UploadID  string        `json:"upload_id"`
	Question  string        `json:"question"`
	Intent    Intent        `json:"intent"`
	Answer    string        `json:"answer"`
	Insights  []InsightItem `json:"insights"`
	ChartData ChartData     `json:"chart_data"`
	ChartType string        `json:"chart_type"`
}
