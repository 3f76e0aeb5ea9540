package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Upload statuses.
const (
	StatusProcessing = "processing"
	StatusReady      = "ready"
	StatusFailed     = "failed"
)

// ErrNotFound is returned when no upload matches the requested ID.
var ErrNotFound = errors.New("upload not found")

// Upload is one registered CSV upload.
type Upload struct {
	ID          string    `json:"upload_id"`
	Filename    string    `json:"filename"`
	Status      string    `json:"status"`
	RowCount    int       `json:"row_count"`
	ColumnCount int       `json:"column_count"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Store is the sqlite-backed upload registry. Handlers receive it by
// injection; nothing here is package-global.
type Store struct {
	db *sql.DB
}

// Open connects to the sqlite database and creates the schema if
// missing.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	uploadTable := `
	CREATE TABLE IF NOT EXISTS uploads (
		id TEXT PRIMARY KEY,
		filename TEXT,
		status TEXT,
		row_count INTEGER,
		column_count INTEGER,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS upload_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		upload_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`

	if _, err := db.Exec(uploadTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create uploads table: %w", err)
	}
	if _, err := db.Exec(errorTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create upload_errors table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put registers a new upload in processing state.
func (s *Store) Put(u Upload) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO uploads (id, filename, status, row_count, column_count, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Filename, StatusProcessing, u.RowCount, u.ColumnCount, now, now)
	return err
}

// Get fetches one upload by ID.
func (s *Store) Get(id string) (Upload, error) {
	var u Upload
	err := s.db.QueryRow(
		`SELECT id, filename, status, row_count, column_count, created_at, updated_at FROM uploads WHERE id = ?`, id).
		Scan(&u.ID, &u.Filename, &u.Status, &u.RowCount, &u.ColumnCount, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return Upload{}, ErrNotFound
	}
	if err != nil {
		return Upload{}, err
	}
	return u, nil
}

// List returns all uploads, newest first.
func (s *Store) List() ([]Upload, error) {
	rows, err := s.db.Query(
		`SELECT id, filename, status, row_count, column_count, created_at, updated_at FROM uploads ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	uploads := []Upload{}
	for rows.Next() {
		var u Upload
		if err := rows.Scan(&u.ID, &u.Filename, &u.Status, &u.RowCount, &u.ColumnCount, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

// SetStatus updates an upload's status.
func (s *Store) SetStatus(id, status string) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`UPDATE uploads SET status = ?, updated_at = ? WHERE id = ?`, status, now, id)
	return err
}

// MarkProcessed flips an upload to ready and records the cleaned
// table's dimensions.
func (s *Store) MarkProcessed(id string, rowCount, columnCount int) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`UPDATE uploads SET status = ?, row_count = ?, column_count = ?, updated_at = ? WHERE id = ?`,
		StatusReady, rowCount, columnCount, now, id)
	return err
}

// SaveError records a processing error and flips the upload to failed.
func (s *Store) SaveError(id string, procErr error) error {
	if procErr == nil {
		return nil
	}
	now := time.Now().UTC()
	if _, err := s.db.Exec(
		`INSERT INTO upload_errors (upload_id, error_message, created_at) VALUES (?, ?, ?)`,
		id, procErr.Error(), now); err != nil {
		return err
	}
	return s.SetStatus(id, StatusFailed)
}

// LastError returns the most recent error message for an upload, empty
// when none was recorded.
func (s *Store) LastError(id string) (string, error) {
	var msg string
	err := s.db.QueryRow(
		`SELECT error_message FROM upload_errors WHERE upload_id = ? ORDER BY created_at DESC LIMIT 1`, id).
		Scan(&msg)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return msg, err
}

// Delete removes an upload and its error history.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM uploads WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM upload_errors WHERE upload_id = ?`, id); err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
