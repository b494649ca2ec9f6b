package fileregistry

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zapcore"

	"github.com/fenixcs/fieldtracker/internal/models"
)

// MockStorage is a mock implementation of the Storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) InsertFile(record models.FileRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockStorage) UpdateFile(record models.FileRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockStorage) GetFile(id string) (models.FileRecord, error) {
	args := m.Called(id)
	return args.Get(0).(models.FileRecord), args.Error(1)
}

func (m *MockStorage) GetFiles(filter models.FileFilter, pagination models.Pagination) ([]models.FileRecord, error) {
	args := m.Called(filter, pagination)
	return args.Get(0).([]models.FileRecord), args.Error(1)
}

// MockStore is a mock implementation of the ObjectStore interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Upload(data []byte, path string) (string, error) {
	args := m.Called(data, path)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Delete(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

type noopLog struct{}

func (noopLog) Info(string, ...zapcore.Field) {}

func newTestRegistry(st *MockStorage, store *MockStore) *Registry {
	r := NewRegistry(st, store, noopLog{})
	r.now = func() time.Time {
		return time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC)
	}

	return r
}

func TestRegistry_AddFile(t *testing.T) {
	t.Run("uploads and registers", func(t *testing.T) {
		st := new(MockStorage)
		store := new(MockStore)
		st.On("InsertFile", mock.Anything).Return(nil)
		store.On("Upload", mock.Anything, mock.Anything).Return("receipt/1786435200000-invoice.pdf", nil)

		r := newTestRegistry(st, store)

		record, err := r.AddFile(FileInput{
			Data:         []byte("pdf bytes"),
			OriginalName: "invoice.pdf",
			Category:     "receipt",
			MimeType:     "application/pdf",
			UploadedBy:   "e1",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, record.ID)
		assert.Equal(t, models.FileStatusActive, record.Status)
		assert.Equal(t, int64(9), record.Size)
		assert.True(t, strings.HasSuffix(record.FileName, "-invoice.pdf"))

		// the storage path is prefixed with the category
		store.AssertCalled(t, "Upload", mock.Anything, mock.MatchedBy(func(path string) bool {
			return strings.HasPrefix(path, "receipt/")
		}))
	})

	t.Run("defaults the category", func(t *testing.T) {
		st := new(MockStorage)
		store := new(MockStore)
		st.On("InsertFile", mock.Anything).Return(nil)
		store.On("Upload", mock.Anything, mock.Anything).Return("url", nil)

		r := newTestRegistry(st, store)

		record, err := r.AddFile(FileInput{Data: []byte("x"), OriginalName: "a.txt"})

		assert.NoError(t, err)
		assert.Equal(t, "document", record.Category)
	})

	t.Run("upload failure aborts registration", func(t *testing.T) {
		st := new(MockStorage)
		store := new(MockStore)
		store.On("Upload", mock.Anything, mock.Anything).Return("", errors.New("disk full"))

		r := newTestRegistry(st, store)

		_, err := r.AddFile(FileInput{Data: []byte("x"), OriginalName: "a.txt"})

		assert.Error(t, err)
		st.AssertNotCalled(t, "InsertFile", mock.Anything)
	})
}

func TestRegistry_RemoveFile(t *testing.T) {
	st := new(MockStorage)
	st.On("GetFile", "f1").Return(models.FileRecord{ID: "f1", Status: models.FileStatusActive}, nil)
	st.On("UpdateFile", mock.Anything).Return(nil)

	r := newTestRegistry(st, new(MockStore))

	assert.NoError(t, r.RemoveFile("f1"))

	// the record is marked removed, the bytes stay in the store
	st.AssertCalled(t, "UpdateFile", mock.MatchedBy(func(rec models.FileRecord) bool {
		return rec.Status == models.FileStatusRemoved
	}))
}

func TestIconKind(t *testing.T) {
	assert.Equal(t, "image", IconKind("image/jpeg"))
	assert.Equal(t, "video", IconKind("video/mp4"))
	assert.Equal(t, "pdf", IconKind("application/pdf"))
	assert.Equal(t, "text", IconKind("text/plain"))
	assert.Equal(t, "file", IconKind("application/zip"))
	assert.Equal(t, "file", IconKind(""))
}
