// Package fileregistry associates uploaded binary objects with work
// sessions, employees and categories.
package fileregistry

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fenixcs/fieldtracker/internal/models"
)

type Log interface {
	Info(string, ...zapcore.Field)
}

type Storage interface {
	InsertFile(models.FileRecord) error
	UpdateFile(models.FileRecord) error
	GetFile(string) (models.FileRecord, error)
	GetFiles(models.FileFilter, models.Pagination) ([]models.FileRecord, error)
}

// ObjectStore is the external collaborator holding the bytes.
type ObjectStore interface {
	Upload(data []byte, path string) (string, error)
	Delete(path string) error
}

// FileInput carries everything needed to register an upload.
type FileInput struct {
	Data                 []byte
	OriginalName         string
	Category             string
	MimeType             string
	Description          string
	UploadedBy           string
	UploadedByName       string
	UploadedByType       string
	RelatedWorkSessionID string
	RelatedEmployeeID    string
}

type Registry struct {
	storage Storage
	store   ObjectStore
	log     Log
	now     func() time.Time
}

func NewRegistry(storage Storage, store ObjectStore, log Log) *Registry {
	return &Registry{
		storage: storage,
		store:   store,
		log:     log,
		now:     time.Now,
	}
}

// AddFile uploads the bytes and registers a FileRecord with a fresh id,
// the upload timestamp and status active.
func (r *Registry) AddFile(input FileInput) (models.FileRecord, error) {
	now := r.now()

	category := input.Category
	if category == "" {
		category = "document"
	}

	fileName := fmt.Sprintf("%d-%s", now.UnixMilli(), input.OriginalName)
	path := category + "/" + fileName

	var url string
	if len(input.Data) > 0 && r.store != nil {
		var err error
		url, err = r.store.Upload(input.Data, path)
		if err != nil {
			return models.FileRecord{}, fmt.Errorf("failed to upload file: %w", err)
		}
	}

	record := models.FileRecord{
		ID:                   uuid.New().String(),
		FileName:             fileName,
		OriginalName:         input.OriginalName,
		Category:             category,
		MimeType:             input.MimeType,
		Size:                 int64(len(input.Data)),
		UploadedBy:           input.UploadedBy,
		UploadedByName:       input.UploadedByName,
		UploadedByType:       input.UploadedByType,
		RelatedWorkSessionID: input.RelatedWorkSessionID,
		RelatedEmployeeID:    input.RelatedEmployeeID,
		FilePath:             url,
		Description:          input.Description,
		Status:               models.FileStatusActive,
		UploadDate:           now,
	}

	if err := r.storage.InsertFile(record); err != nil {
		return models.FileRecord{}, err
	}

	r.log.Info("file registered", zap.String("id", record.ID), zap.String("category", record.Category))

	return record, nil
}

// RemoveFile marks the record removed. The underlying bytes are kept.
func (r *Registry) RemoveFile(id string) error {
	record, err := r.storage.GetFile(id)
	if err != nil {
		return err
	}

	record.Status = models.FileStatusRemoved

	return r.storage.UpdateFile(record)
}

func (r *Registry) GetFile(id string) (models.FileRecord, error) {
	return r.storage.GetFile(id)
}

func (r *Registry) ListByCategory(category string) ([]models.FileRecord, error) {
	active := models.FileStatusActive
	return r.storage.GetFiles(models.FileFilter{Category: &category, Status: &active}, models.Pagination{})
}

func (r *Registry) ListByUploader(userID, userType string) ([]models.FileRecord, error) {
	active := models.FileStatusActive
	return r.storage.GetFiles(models.FileFilter{
		UploadedBy:     &userID,
		UploadedByType: &userType,
		Status:         &active,
	}, models.Pagination{})
}

// IconKind picks a display icon class from the MIME-type prefix. This is
// the only content inspection the registry does.
func IconKind(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "image"
	case strings.HasPrefix(mimeType, "video/"):
		return "video"
	case strings.HasPrefix(mimeType, "application/pdf"):
		return "pdf"
	case strings.HasPrefix(mimeType, "text/"):
		return "text"
	default:
		return "file"
	}
}
