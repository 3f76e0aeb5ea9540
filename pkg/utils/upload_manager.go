package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UploadManager handles upload file organization and path management
type UploadManager struct {
	BaseUploadDir string
}

// NewUploadManager creates a new upload manager
func NewUploadManager(baseUploadDir string) *UploadManager {
	return &UploadManager{
		BaseUploadDir: baseUploadDir,
	}
}

// EnsureDir creates the upload directory if it doesn't exist
func (um *UploadManager) EnsureDir() error {
	if err := os.MkdirAll(um.BaseUploadDir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

// RawPath returns the storage path of an upload's original CSV
func (um *UploadManager) RawPath(uploadID, fileName string) string {
	cleanFileName := filepath.Base(fileName)
	return filepath.Join(um.BaseUploadDir, uploadID+"_"+cleanFileName)
}

// ProcessedPath returns the storage path of an upload's cleaned CSV
func (um *UploadManager) ProcessedPath(uploadID string) string {
	return filepath.Join(um.BaseUploadDir, uploadID+"_processed.csv")
}

// DownloadURL generates a download URL for an upload's cleaned CSV
func (um *UploadManager) DownloadURL(uploadID string) string {
	return fmt.Sprintf("/api/v1/uploads/%s/download", uploadID)
}

// IsCSV reports whether the file name carries a supported extension
func (um *UploadManager) IsCSV(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	return ext == ".csv" || ext == ".txt" || ext == ".tsv"
}

// Remove deletes every stored file belonging to an upload
func (um *UploadManager) Remove(uploadID string) error {
	matches, err := filepath.Glob(filepath.Join(um.BaseUploadDir, uploadID+"_*"))
	if err != nil {
		return fmt.Errorf("failed to list upload files: %w", err)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", m, err)
		}
	}
	return nil
}
