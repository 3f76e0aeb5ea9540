package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"dealer-insights/internal/analytics"
	"dealer-insights/internal/insights"
	"dealer-insights/internal/model"
	"dealer-insights/internal/store"
	"dealer-insights/pkg/utils"

	"github.com/google/uuid"
)

// Handler serves the upload and analysis endpoints. Dependencies are
// injected; nothing here is package-global.
type Handler struct {
	store         *store.Store
	files         *utils.UploadManager
	maxUploadSize int64
}

// New creates a handler with its dependencies.
func New(s *store.Store, files *utils.UploadManager, maxUploadSize int64) *Handler {
	return &Handler{store: s, files: files, maxUploadSize: maxUploadSize}
}

// CreateUpload accepts a CSV file and starts cleaning it
// @Summary Upload a sales CSV
// @Description Upload a dealership sales CSV for cleaning and analysis. Cleaning runs in the background; poll the upload status until it is ready.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} model.UploadResponse "Upload registered"
// @Failure 400 {object} map[string]interface{} "Invalid file"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /uploads [post]
func (h *Handler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		http.Error(w, "File too large or invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "A file field named 'file' is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !h.files.IsCSV(header.Filename) {
		http.Error(w, "Only CSV files are supported", http.StatusBadRequest)
		return
	}

	// Validate before registering: structural problems reject the
	// upload outright instead of parking it in a failed state.
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}
	table, err := analytics.LoadCSV(strings.NewReader(string(data)))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	uploadID := uuid.New().String()

	rawPath := h.files.RawPath(uploadID, header.Filename)
	if err := os.WriteFile(rawPath, data, 0644); err != nil {
		http.Error(w, "Failed to store file", http.StatusInternalServerError)
		return
	}

	u := store.Upload{
		ID:          uploadID,
		Filename:    header.Filename,
		RowCount:    table.RowCount(),
		ColumnCount: len(table.Columns),
	}
	if err := h.store.Put(u); err != nil {
		http.Error(w, "Failed to register upload", http.StatusInternalServerError)
		return
	}

	// Clean asynchronously; the upload stays in processing state until
	// the cleaned CSV is written.
	go h.process(uploadID, table)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.UploadResponse{
		UploadID:    uploadID,
		Filename:    header.Filename,
		RowCount:    table.RowCount(),
		ColumnCount: len(table.Columns),
		Status:      store.StatusProcessing,
	})
}

// process cleans a raw table and persists the result.
func (h *Handler) process(uploadID string, raw *model.Table) {
	cleaned, _ := analytics.Clean(raw)
	if err := analytics.WriteCSVFile(cleaned, h.files.ProcessedPath(uploadID)); err != nil {
		fmt.Printf("❌ Processing failed for upload %s: %v\n", uploadID, err)
		h.store.SaveError(uploadID, err)
		return
	}
	if err := h.store.MarkProcessed(uploadID, cleaned.RowCount(), len(cleaned.Columns)); err != nil {
		fmt.Printf("❌ Failed to mark upload %s processed: %v\n", uploadID, err)
		return
	}
	fmt.Printf("✅ Upload %s processed (%d rows, %d columns)\n", uploadID, cleaned.RowCount(), len(cleaned.Columns))
}

// ListUploads retrieves all uploads
// @Summary List uploads
// @Description Get all registered uploads with their current status
// @Tags uploads
// @Produce json
// @Success 200 {array} store.Upload "List of uploads"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /uploads [get]
func (h *Handler) ListUploads(w http.ResponseWriter, r *http.Request) {
	uploads, err := h.store.List()
	if err != nil {
		http.Error(w, "Failed to fetch uploads", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(uploads)
}

// GetUpload retrieves a specific upload
// @Summary Get upload
// @Description Retrieve the status and dimensions of one upload
// @Tags uploads
// @Produce json
// @Param id path string true "Upload ID"
// @Success 200 {object} map[string]interface{} "Upload details"
// @Failure 400 {object} map[string]interface{} "Invalid upload ID"
// @Failure 404 {object} map[string]interface{} "Upload not found"
// @Router /uploads/{id} [get]
func (h *Handler) GetUpload(w http.ResponseWriter, r *http.Request) {
	uploadID, ok := uploadIDFromPath(w, r, "")
	if !ok {
		return
	}

	u, err := h.store.Get(uploadID)
	if err != nil {
		http.Error(w, "Upload not found", http.StatusNotFound)
		return
	}

	resp := map[string]interface{}{
		"upload_id":    u.ID,
		"filename":     u.Filename,
		"status":       u.Status,
		"row_count":    u.RowCount,
		"column_count": u.ColumnCount,
		"createdAt":    u.CreatedAt,
		"updatedAt":    u.UpdatedAt,
	}
	switch u.Status {
	case store.StatusReady:
		resp["download_url"] = h.files.DownloadURL(u.ID)
	case store.StatusFailed:
		if msg, err := h.store.LastError(u.ID); err == nil && msg != "" {
			resp["error"] = msg
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetUploadColumns profiles the cleaned columns of an upload
// @Summary Get column statistics
// @Description Per-column type, missing counts and value statistics of the cleaned table
// @Tags uploads
// @Produce json
// @Param id path string true "Upload ID"
// @Success 200 {object} map[string]interface{} "Column statistics"
// @Failure 404 {object} map[string]interface{} "Upload not found"
// @Failure 409 {object} map[string]interface{} "Upload still processing"
// @Router /uploads/{id}/columns [get]
func (h *Handler) GetUploadColumns(w http.ResponseWriter, r *http.Request) {
	uploadID, ok := uploadIDFromPath(w, r, "/columns")
	if !ok {
		return
	}

	table, _, ok := h.loadCleaned(w, uploadID)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"upload_id": uploadID,
		"columns":   analytics.ColumnProfile(table),
	})
}

// AnalyzeUpload runs one analysis intent over an upload
// @Summary Analyze upload
// @Description Run the requested analysis intent over the cleaned table and render insights
// @Tags analysis
// @Accept json
// @Produce json
// @Param id path string true "Upload ID"
// @Param request body model.AnalyzeRequest true "Analysis intent"
// @Success 200 {object} model.AnalyzeResponse "Analysis result"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 404 {object} map[string]interface{} "Upload not found"
// @Failure 409 {object} map[string]interface{} "Upload still processing"
// @Router /uploads/{id}/analyze [post]
func (h *Handler) AnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	uploadID, ok := uploadIDFromPath(w, r, "/analyze")
	if !ok {
		return
	}

	var req model.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	table, schema, ok := h.loadCleaned(w, uploadID)
	if !ok {
		return
	}

	intent := model.ParseIntent(req.Intent)
	analysis := analytics.Analyze(table, schema, intent)
	chart, chartType := analysis.Chart()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.AnalyzeResponse{
		UploadID:  uploadID,
		Intent:    intent,
		Analysis:  analysis,
		Insights:  insights.Generate(analysis),
		ChartData: chart,
		ChartType: chartType,
	})
}

// AnswerQuestion answers a free-text question about an upload
// @Summary Ask a question
// @Description Route a free-text question to an analysis intent and answer it from the data
// @Tags analysis
// @Accept json
// @Produce json
// @Param id path string true "Upload ID"
// @Param request body model.QuestionRequest true "Question"
// @Success 200 {object} model.QuestionResponse "Answer"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 404 {object} map[string]interface{} "Upload not found"
// @Failure 409 {object} map[string]interface{} "Upload still processing"
// @Router /uploads/{id}/question [post]
func (h *Handler) AnswerQuestion(w http.ResponseWriter, r *http.Request) {
	uploadID, ok := uploadIDFromPath(w, r, "/question")
	if !ok {
		return
	}

	var req model.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		http.Error(w, "Question is required", http.StatusBadRequest)
		return
	}

	table, schema, ok := h.loadCleaned(w, uploadID)
	if !ok {
		return
	}

	intent := insights.DetermineIntent(req.Question)
	analysis := analytics.Analyze(table, schema, intent)
	chart, chartType := analysis.Chart()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.QuestionResponse{
		UploadID:  uploadID,
		Question:  req.Question,
		Intent:    intent,
		Answer:    insights.AnswerText(req.Question, analysis),
		Insights:  insights.Generate(analysis),
		ChartData: chart,
		ChartType: chartType,
	})
}

// DownloadProcessed serves the cleaned CSV for download
// @Summary Download cleaned CSV
// @Description Download the cleaned version of an upload
// @Tags uploads
// @Produce application/octet-stream
// @Param id path string true "Upload ID"
// @Success 200 {file} file "Cleaned CSV"
// @Failure 404 {object} map[string]interface{} "File not found"
// @Router /uploads/{id}/download [get]
func (h *Handler) DownloadProcessed(w http.ResponseWriter, r *http.Request) {
	uploadID, ok := uploadIDFromPath(w, r, "/download")
	if !ok {
		return
	}

	filePath := h.files.ProcessedPath(uploadID)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_processed.csv\"", uploadID))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, filePath)
}

// DeleteUpload deletes an upload and its files
// @Summary Delete upload
// @Description Delete an upload, its stored files and its error history
// @Tags uploads
// @Produce json
// @Param id path string true "Upload ID"
// @Success 200 {object} map[string]interface{} "Upload deleted"
// @Failure 404 {object} map[string]interface{} "Upload not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /uploads/{id} [delete]
func (h *Handler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	uploadID, ok := uploadIDFromPath(w, r, "")
	if !ok {
		return
	}

	if _, err := h.store.Get(uploadID); err != nil {
		http.Error(w, "Upload not found", http.StatusNotFound)
		return
	}

	if err := h.files.Remove(uploadID); err != nil {
		fmt.Printf("⚠️ Failed to remove files for upload %s: %v\n", uploadID, err)
	}
	if err := h.store.Delete(uploadID); err != nil {
		http.Error(w, "Failed to delete upload", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":   "Upload deleted successfully",
		"upload_id": uploadID,
	})
}

// Health reports service liveness
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Service status"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok"})
}

// loadCleaned loads the cleaned table of an upload and re-resolves its
// schema. Cleaning an already-clean table is a no-op for values, and
// restores the typed cells the CSV round-trip flattened to strings.
func (h *Handler) loadCleaned(w http.ResponseWriter, uploadID string) (*model.Table, model.ResolvedSchema, bool) {
	u, err := h.store.Get(uploadID)
	if err != nil {
		http.Error(w, "Upload not found", http.StatusNotFound)
		return nil, nil, false
	}
	switch u.Status {
	case store.StatusProcessing:
		http.Error(w, "Upload is still processing", http.StatusConflict)
		return nil, nil, false
	case store.StatusFailed:
		http.Error(w, "Upload failed processing", http.StatusConflict)
		return nil, nil, false
	}

	raw, err := analytics.LoadCSVFile(h.files.ProcessedPath(uploadID))
	if err != nil {
		http.Error(w, "Failed to load processed data", http.StatusInternalServerError)
		return nil, nil, false
	}
	table, schema := analytics.Clean(raw)
	return table, schema, true
}

// uploadIDFromPath extracts the upload ID from
// /api/v1/uploads/{id}{suffix} style paths.
func uploadIDFromPath(w http.ResponseWriter, r *http.Request, suffix string) (string, bool) {
	path := r.URL.Path
	prefix := "/api/v1/uploads/"

	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return "", false
	}

	uploadID := path[len(prefix) : len(path)-len(suffix)]
	if uploadID == "" || strings.Contains(uploadID, "/") {
		http.Error(w, "Upload ID is required", http.StatusBadRequest)
		return "", false
	}
	return uploadID, true
}
