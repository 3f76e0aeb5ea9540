package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealer-insights/internal/model"
	"dealer-insights/internal/store"
	"dealer-insights/pkg/utils"
)

const sampleCSV = `Sale Date,SoldPrice,Sales Rep,Lead Source,VehicleMake,VehicleModel,Profit
2023-01-15,"$30,000",Jane Smith,Web,Toyota,Camry,"$4,000"
2023-01-20,"$20,000",Bob Jones,Referral,Honda,Civic,"$2,500"
2023-02-05,"$40,000",Jane Smith,Web,Toyota,RAV4,"$6,000"
`

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	files := utils.NewUploadManager(dir)
	require.NoError(t, files.EnsureDir())
	return New(s, files, 10<<20)
}

func multipartUpload(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// uploadAndWait registers an upload and blocks until the background
// cleaning pass finishes.
func uploadAndWait(t *testing.T, h *Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.CreateUpload(rec, multipartUpload(t, "sales.csv", sampleCSV))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.UploadResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, store.StatusProcessing, resp.Status)

	require.Eventually(t, func() bool {
		u, err := h.store.Get(resp.UploadID)
		return err == nil && u.Status == store.StatusReady
	}, 5*time.Second, 10*time.Millisecond)
	return resp.UploadID
}

func TestCreateUploadRegistersAndProcesses(t *testing.T) {
	h := newTestHandler(t)
	id := uploadAndWait(t, h)

	u, err := h.store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "sales.csv", u.Filename)
	assert.Equal(t, 3, u.RowCount)
	assert.Equal(t, 7, u.ColumnCount)
}

func TestCreateUploadRejectsNonCSV(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.CreateUpload(rec, multipartUpload(t, "report.xlsx", sampleCSV))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUploadRejectsUnparsableCSV(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.CreateUpload(rec, multipartUpload(t, "empty.csv", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUploadReadyIncludesDownloadURL(t *testing.T) {
	h := newTestHandler(t)
	id := uploadAndWait(t, h)

	rec := httptest.NewRecorder()
	h.GetUpload(rec, httptest.NewRequest(http.MethodGet, "/api/v1/uploads/"+id, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, store.StatusReady, resp["status"])
	assert.Equal(t, "/api/v1/uploads/"+id+"/download", resp["download_url"])
}

func TestGetUploadNotFound(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.GetUpload(rec, httptest.NewRequest(http.MethodGet, "/api/v1/uploads/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUploadColumns(t *testing.T) {
	h := newTestHandler(t)
	id := uploadAndWait(t, h)

	rec := httptest.NewRecorder()
	h.GetUploadColumns(rec, httptest.NewRequest(http.MethodGet, "/api/v1/uploads/"+id+"/columns", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		UploadID string              `json:"upload_id"`
		Columns  []model.ColumnStats `json:"columns"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, id, resp.UploadID)
	assert.Len(t, resp.Columns, 7)
}

func TestAnalyzeUpload(t *testing.T) {
	h := newTestHandler(t)
	id := uploadAndWait(t, h)

	body := strings.NewReader(`{"intent":"sales_analysis"}`)
	rec := httptest.NewRecorder()
	h.AnalyzeUpload(rec, httptest.NewRequest(http.MethodPost, "/api/v1/uploads/"+id+"/analyze", body))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, id, resp["upload_id"])
	assert.Equal(t, "sales_analysis", resp["intent"])
	assert.NotEmpty(t, resp["insights"])
}

func TestAnalyzeUploadStillProcessing(t *testing.T) {
	h := newTestHandler(t)
	require.NoError(t, h.store.Put(store.Upload{ID: "pending", Filename: "sales.csv"}))

	body := strings.NewReader(`{"intent":"sales_analysis"}`)
	rec := httptest.NewRecorder()
	h.AnalyzeUpload(rec, httptest.NewRequest(http.MethodPost, "/api/v1/uploads/pending/analyze", body))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAnswerQuestion(t *testing.T) {
	h := newTestHandler(t)
	id := uploadAndWait(t, h)

	body := strings.NewReader(`{"question":"Who is my top sales rep?"}`)
	rec := httptest.NewRecorder()
	h.AnswerQuestion(rec, httptest.NewRequest(http.MethodPost, "/api/v1/uploads/"+id+"/question", body))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "sales_analysis", resp["intent"])
	assert.Contains(t, resp["answer"], "Jane Smith")
}

func TestAnswerQuestionRequiresQuestion(t *testing.T) {
	h := newTestHandler(t)
	id := uploadAndWait(t, h)

	body := strings.NewReader(`{"question":"  "}`)
	rec := httptest.NewRecorder()
	h.AnswerQuestion(rec, httptest.NewRequest(http.MethodPost, "/api/v1/uploads/"+id+"/question", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadProcessed(t *testing.T) {
	h := newTestHandler(t)
	id := uploadAndWait(t, h)

	rec := httptest.NewRecorder()
	h.DownloadProcessed(rec, httptest.NewRequest(http.MethodGet, "/api/v1/uploads/"+id+"/download", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), id+"_processed.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "sale_date,sold_price,"))
}

func TestDeleteUpload(t *testing.T) {
	h := newTestHandler(t)
	id := uploadAndWait(t, h)

	rec := httptest.NewRecorder()
	h.DeleteUpload(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/uploads/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := h.store.Get(id)
	assert.ErrorIs(t, err, store.ErrNotFound)

	rec = httptest.NewRecorder()
	h.DownloadProcessed(rec, httptest.NewRequest(http.MethodGet, "/api/v1/uploads/"+id+"/download", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadIDFromPath(t *testing.T) {
	tests := []struct {
		path   string
		suffix string
		want   string
		ok     bool
	}{
		{"/api/v1/uploads/abc", "", "abc", true},
		{"/api/v1/uploads/abc/columns", "/columns", "abc", true},
		{"/api/v1/uploads/", "", "", false},
		{"/api/v1/uploads/a/b", "", "", false},
		{"/other/abc", "", "", false},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		got, ok := uploadIDFromPath(rec, req, tt.suffix)
		assert.Equal(t, tt.ok, ok, "path %q", tt.path)
		assert.Equal(t, tt.want, got, "path %q", tt.path)
	}
}
