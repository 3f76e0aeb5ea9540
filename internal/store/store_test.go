package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutAndGet(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Put(Upload{ID: "u1", Filename: "sales.csv"}))

	got, err := s.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "sales.csv", got.Filename)
	assert.Equal(t, StatusProcessing, got.Status)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Put(Upload{ID: "older", Filename: "a.csv"}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, s.Put(Upload{ID: "newer", Filename: "b.csv"}))

	uploads, err := s.List()
	require.NoError(t, err)
	require.Len(t, uploads, 2)
	assert.Equal(t, "newer", uploads[0].ID)
	assert.Equal(t, "older", uploads[1].ID)
}

func TestListEmpty(t *testing.T) {
	s := openTestStore(t)

	uploads, err := s.List()
	require.NoError(t, err)
	assert.NotNil(t, uploads)
	assert.Empty(t, uploads)
}

func TestMarkProcessed(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Put(Upload{ID: "u1", Filename: "sales.csv"}))
	require.NoError(t, s.MarkProcessed("u1", 42, 11))

	got, err := s.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, StatusReady, got.Status)
	assert.Equal(t, 42, got.RowCount)
	assert.Equal(t, 11, got.ColumnCount)
}

func TestSaveErrorMarksFailed(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Put(Upload{ID: "u1", Filename: "bad.csv"}))
	require.NoError(t, s.SaveError("u1", errors.New("no usable columns")))

	got, err := s.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)

	msg, err := s.LastError("u1")
	require.NoError(t, err)
	assert.Equal(t, "no usable columns", msg)
}

func TestLastErrorReturnsMostRecent(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Put(Upload{ID: "u1", Filename: "bad.csv"}))
	require.NoError(t, s.SaveError("u1", errors.New("first failure")))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, s.SaveError("u1", errors.New("second failure")))

	msg, err := s.LastError("u1")
	require.NoError(t, err)
	assert.Equal(t, "second failure", msg)
}

func TestLastErrorEmptyWhenNoneRecorded(t *testing.T) {
	s := openTestStore(t)

	msg, err := s.LastError("u1")
	require.NoError(t, err)
	assert.Empty(t, msg)
}

func TestSaveErrorNilIsNoop(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Put(Upload{ID: "u1", Filename: "a.csv"}))
	require.NoError(t, s.SaveError("u1", nil))

	got, err := s.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, got.Status)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Put(Upload{ID: "u1", Filename: "a.csv"}))
	require.NoError(t, s.SaveError("u1", errors.New("boom")))

	require.NoError(t, s.Delete("u1"))

	_, err := s.Get("u1")
	assert.ErrorIs(t, err, ErrNotFound)
	msg, err := s.LastError("u1")
	require.NoError(t, err)
	assert.Empty(t, msg)
}

func TestDeleteNotFound(t *testing.T) {
	s := openTestStore(t)

	assert.ErrorIs(t, s.Delete("missing"), ErrNotFound)
}
