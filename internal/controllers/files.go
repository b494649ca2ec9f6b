package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi"
	"go.uber.org/zap"

	authz "github.com/fenixcs/fieldtracker/internal/authorization"
	"github.com/fenixcs/fieldtracker/internal/fileregistry"
	"github.com/fenixcs/fieldtracker/internal/storage"
)

// @Summary Upload file
// @Description Upload a document, receipt or photo
// @Tags Files
// @Accept mpfd
// @Produce json
// @Param file formData file true "File"
// @Param category formData string false "Category"
// @Param description formData string false "Description"
// @Success 200 {object} models.FileRecord "Stored record"
// @Failure 400 {string} string "Bad Request"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/files [post]
func (h *BaseController) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.log.Info("cannot parse multipart form: ", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.log.Info("file part was not received: ", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Info("cannot read uploaded file: ", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	employee, err := h.storage.GetEmployee(authz.EmployeeIDFromContext(r.Context()))
	if err != nil {
		h.log.Info("employee not found")
		w.WriteHeader(http.StatusNotFound)
		return
	}

	record, err := h.registry.AddFile(fileregistry.FileInput{
		Data:           data,
		OriginalName:   header.Filename,
		Category:       r.FormValue("category"),
		MimeType:       header.Header.Get("Content-Type"),
		Description:    r.FormValue("description"),
		UploadedBy:     employee.ID,
		UploadedByName: employee.Name,
		UploadedByType: employee.Role,
	})
	if err != nil {
		h.log.Info("error registering file: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, record)
}

// @Summary Get files
// @Description List active files of a category
// @Tags Files
// @Produce json
// @Param category query string true "Category"
// @Success 200 {array} models.FileRecord "List of files"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/files [get]
func (h *BaseController) GetFiles(w http.ResponseWriter, r *http.Request) {
	records, err := h.registry.ListByCategory(r.URL.Query().Get("category"))
	if err != nil {
		h.log.Info("error loading files: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, records)
}

// @Summary Own files
// @Description List the caller's active uploads
// @Tags Files
// @Produce json
// @Success 200 {array} models.FileRecord "List of files"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/files/mine [get]
func (h *BaseController) GetOwnFiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.registry.ListByUploader(authz.EmployeeIDFromContext(ctx), authz.RoleFromContext(ctx))
	if err != nil {
		h.log.Info("error loading files: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, records)
}

// @Summary Get file
// @Description Get one file record
// @Tags Files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} models.FileRecord "File record"
// @Failure 404 {string} string "Not Found"
// @Router /api/files/{id} [get]
func (h *BaseController) GetFile(w http.ResponseWriter, r *http.Request) {
	record, err := h.registry.GetFile(chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	} else if err != nil {
		h.log.Info("error loading file: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, record)
}

// @Summary File content
// @Description Download the stored bytes of a file
// @Tags Files
// @Produce octet-stream
// @Param id path string true "File ID"
// @Success 200 {file} binary "File content"
// @Failure 404 {string} string "Not Found"
// @Router /api/files/{id}/content [get]
func (h *BaseController) GetFileContent(w http.ResponseWriter, r *http.Request) {
	record, err := h.registry.GetFile(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	data, err := h.objects.Read(record.FilePath)
	if err != nil {
		h.log.Info("error reading file content: ", zap.Error(err))
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if record.MimeType != "" {
		w.Header().Set("Content-Type", record.MimeType)
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\""+record.OriginalName+"\"")

	if _, err := w.Write(data); err != nil {
		h.log.Info("error writing file content: ", zap.Error(err))
	}
}

// @Summary Delete file
// @Description Mark a file removed. The stored bytes are kept.
// @Tags Files
// @Param id path string true "File ID"
// @Success 200 {string} string "File deleted successfully"
// @Failure 404 {string} string "Not Found"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/files/{id} [delete]
func (h *BaseController) DeleteFile(w http.ResponseWriter, r *http.Request) {
	err := h.registry.RemoveFile(chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		h.log.Info("file not found")
		w.WriteHeader(http.StatusNotFound)
		return
	} else if err != nil {
		h.log.Info("error removing file: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	h.log.Info("File deleted successfully")
}
