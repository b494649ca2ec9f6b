package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	authz "github.com/fenixcs/fieldtracker/internal/authorization"
	"github.com/fenixcs/fieldtracker/internal/fileregistry"
	"github.com/fenixcs/fieldtracker/internal/models"
	"github.com/fenixcs/fieldtracker/internal/reports"
	"github.com/fenixcs/fieldtracker/internal/storage"
	"github.com/fenixcs/fieldtracker/internal/worksession"
)

const maxUploadSize = 32 << 20

type locationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Error     string  `json:"error"`
}

func (l locationPayload) sample(at time.Time) models.LocationSample {
	return models.LocationSample{
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Timestamp: at,
		Err:       l.Error,
	}
}

type startSessionRequest struct {
	VehicleID       string          `json:"vehicleId" validate:"required"`
	Kilometers      float64         `json:"kilometers"`
	WorkDescription string          `json:"workDescription"`
	Location        locationPayload `json:"location"`
}

// @Summary Start work
// @Description Clock in: create a new working session for the caller
// @Tags Sessions
// @Accept json
// @Produce json
// @Param session body controllers.startSessionRequest true "Clock-in data"
// @Success 200 {object} models.WorkSession "Created session"
// @Failure 400 {string} string "Bad Request"
// @Failure 409 {string} string "Conflict"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/sessions/start [post]
func (h *BaseController) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Info("cannot decode request JSON body: ", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.log.Info("invalid start request: ", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	employee, err := h.storage.GetEmployee(authz.EmployeeIDFromContext(r.Context()))
	if err != nil {
		h.log.Info("employee not found")
		w.WriteHeader(http.StatusNotFound)
		return
	}

	vehicle, err := h.storage.GetVehicle(req.VehicleID)
	if err != nil {
		h.log.Info("vehicle not found")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	session, err := h.lifecycle.Start(worksession.StartInput{
		Employee:        employee,
		Vehicle:         vehicle,
		Location:        req.Location.sample(time.Now()),
		Kilometers:      req.Kilometers,
		WorkDescription: req.WorkDescription,
	})
	switch {
	case errors.Is(err, worksession.ErrVehicleRequired):
		w.WriteHeader(http.StatusBadRequest)
		return
	case errors.Is(err, worksession.ErrActiveSession):
		h.log.Info("employee already has an active session")
		w.WriteHeader(http.StatusConflict)
		return
	case err != nil:
		h.log.Info("error starting session: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, session)
}

// @Summary Take break
// @Description Pause the caller's active session
// @Tags Sessions
// @Produce json
// @Success 200 {object} models.WorkSession "Updated session"
// @Failure 404 {string} string "Not Found"
// @Failure 409 {string} string "Conflict"
// @Router /api/sessions/break [post]
func (h *BaseController) BreakSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.activeSession(w, r)
	if !ok {
		return
	}

	if err := h.lifecycle.Break(&session); err != nil {
		h.transitionError(w, err)
		return
	}

	h.writeJSON(w, session)
}

// @Summary Resume work
// @Description Resume the caller's session from a break
// @Tags Sessions
// @Produce json
// @Success 200 {object} models.WorkSession "Updated session"
// @Failure 404 {string} string "Not Found"
// @Failure 409 {string} string "Conflict"
// @Router /api/sessions/resume [post]
func (h *BaseController) ResumeSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.activeSession(w, r)
	if !ok {
		return
	}

	if err := h.lifecycle.Resume(&session); err != nil {
		h.transitionError(w, err)
		return
	}

	h.writeJSON(w, session)
}

// @Summary Add photo
// @Description Attach a photo to the caller's active session
// @Tags Sessions
// @Accept mpfd
// @Produce json
// @Param photo formData file true "Photo"
// @Param category formData string false "Category"
// @Success 200 {object} models.ScreenshotRef "Stored reference"
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Not Found"
// @Failure 409 {string} string "Conflict"
// @Router /api/sessions/screenshot [post]
func (h *BaseController) AddScreenshot(w http.ResponseWriter, r *http.Request) {
	session, ok := h.activeSession(w, r)
	if !ok {
		return
	}

	input, err := h.photoInput(r, session.EmployeeID, session.EmployeeName)
	if err != nil {
		h.log.Info("cannot read uploaded photo: ", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	ref, err := h.lifecycle.Capture(&session, *input)
	if err != nil {
		h.transitionError(w, err)
		return
	}

	h.writeJSON(w, ref)
}

// @Summary Report location
// @Description Record a position ping for the caller
// @Tags Sessions
// @Accept json
// @Success 200 {string} string "OK"
// @Failure 400 {string} string "Bad Request"
// @Router /api/sessions/location [post]
func (h *BaseController) ReportLocation(w http.ResponseWriter, r *http.Request) {
	var req locationPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Info("cannot decode request JSON body: ", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	h.reporter.Report(authz.EmployeeIDFromContext(r.Context()), req.sample(time.Now()))
	w.WriteHeader(http.StatusOK)
}

type endSessionRequest struct {
	FinalWorkDescription string          `json:"finalWorkDescription"`
	Location             locationPayload `json:"location"`
}

// @Summary End work
// @Description Clock out: finalize the caller's active session. Accepts
// JSON or a multipart form with an optional final photo.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param session body controllers.endSessionRequest true "Clock-out data"
// @Success 200 {object} models.WorkSession "Completed session"
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Not Found"
// @Failure 409 {string} string "Conflict"
// @Router /api/sessions/end [post]
func (h *BaseController) EndSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.activeSession(w, r)
	if !ok {
		return
	}

	input := worksession.EndInput{}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		photo, err := h.photoInput(r, session.EmployeeID, session.EmployeeName)
		if err == nil {
			photo.Category = "work_end"
			input.FinalPhoto = photo
		}
		input.FinalWorkDescription = r.FormValue("finalWorkDescription")
		input.Location = formLocation(r, time.Now())
	} else {
		var req endSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.log.Info("cannot decode request JSON body: ", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		input.FinalWorkDescription = req.FinalWorkDescription
		input.Location = req.Location.sample(time.Now())
	}

	if err := h.lifecycle.End(&session, input); err != nil {
		h.transitionError(w, err)
		return
	}

	h.writeJSON(w, session)
}

// @Summary Active session
// @Description Get the caller's active session, if any
// @Tags Sessions
// @Produce json
// @Success 200 {object} models.WorkSession "Active session"
// @Failure 404 {string} string "Not Found"
// @Router /api/sessions/active [get]
func (h *BaseController) GetActiveSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.storage.GetActiveWorkSession(authz.EmployeeIDFromContext(r.Context()))
	if errors.Is(err, storage.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	} else if err != nil {
		h.log.Info("error loading active session: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, session)
}

// @Summary Monthly hours
// @Description Total worked hours of the caller in the current month
// @Tags Sessions
// @Produce json
// @Success 200 {object} map[string]float64 "Hours"
// @Router /api/sessions/monthly-hours [get]
func (h *BaseController) GetMonthlyHours(w http.ResponseWriter, r *http.Request) {
	employeeID := authz.EmployeeIDFromContext(r.Context())

	sessions, err := h.storage.GetWorkSessions(models.SessionFilter{EmployeeID: &employeeID}, models.Pagination{})
	if err != nil {
		h.log.Info("error loading sessions: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]float64{
		"totalHours": reports.MonthlyHours(employeeID, sessions, time.Now()),
	})
}

// @Summary List sessions
// @Description List work sessions. Workers see their own, admins everyone's.
// @Tags Sessions
// @Produce json
// @Param employeeId query string false "Employee ID"
// @Param status query string false "Status"
// @Param from query string false "Start of range, RFC 3339"
// @Param to query string false "End of range, RFC 3339"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {array} models.WorkSession "Sessions"
// @Failure 400 {string} string "Bad Request"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/sessions [get]
func (h *BaseController) GetSessions(w http.ResponseWriter, r *http.Request) {
	var filter models.SessionFilter
	var pagination models.Pagination

	if v := r.URL.Query().Get("employeeId"); v != "" {
		filter.EmployeeID = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.log.Info("invalid from format")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		filter.From = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.log.Info("invalid to format")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		filter.To = &t
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		val, err := strconv.Atoi(v)
		if err != nil {
			h.log.Info("invalid limit format")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		pagination.Limit = val
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		val, err := strconv.Atoi(v)
		if err != nil {
			h.log.Info("invalid offset format")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		pagination.Offset = val
	}

	// workers only ever see their own history
	if authz.RoleFromContext(r.Context()) != models.RoleAdmin {
		own := authz.EmployeeIDFromContext(r.Context())
		filter.EmployeeID = &own
	}

	sessions, err := h.storage.GetWorkSessions(filter, pagination)
	if err != nil {
		h.log.Info("error loading sessions: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, sessions)
}

// activeSession loads the caller's active session, writing the error
// response itself when there is none.
func (h *BaseController) activeSession(w http.ResponseWriter, r *http.Request) (models.WorkSession, bool) {
	session, err := h.storage.GetActiveWorkSession(authz.EmployeeIDFromContext(r.Context()))
	if errors.Is(err, storage.ErrNotFound) {
		h.log.Info("no active session for employee")
		w.WriteHeader(http.StatusNotFound)
		return models.WorkSession{}, false
	} else if err != nil {
		h.log.Info("error loading active session: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return models.WorkSession{}, false
	}

	return session, true
}

func (h *BaseController) transitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, worksession.ErrNotWorking),
		errors.Is(err, worksession.ErrNotOnBreak),
		errors.Is(err, worksession.ErrCompleted):
		h.log.Info("invalid session transition: ", zap.Error(err))
		w.WriteHeader(http.StatusConflict)
	default:
		h.log.Info("error applying session transition: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// photoInput reads the "photo" part of a multipart request into a
// registry input attributed to the given employee.
func (h *BaseController) photoInput(r *http.Request, employeeID, employeeName string) (*fileregistry.FileInput, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, err
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &fileregistry.FileInput{
		Data:           data,
		OriginalName:   header.Filename,
		Category:       r.FormValue("category"),
		MimeType:       header.Header.Get("Content-Type"),
		Description:    r.FormValue("description"),
		UploadedBy:     employeeID,
		UploadedByName: employeeName,
		UploadedByType: models.RoleWorker,
	}, nil
}

// formLocation picks latitude/longitude/error values out of form fields.
func formLocation(r *http.Request, at time.Time) models.LocationSample {
	sample := models.LocationSample{Timestamp: at, Err: r.FormValue("locationError")}
	if sample.Err != "" {
		return sample
	}

	lat, errLat := strconv.ParseFloat(r.FormValue("latitude"), 64)
	lon, errLon := strconv.ParseFloat(r.FormValue("longitude"), 64)
	if errLat != nil || errLon != nil {
		return models.LocationSample{Timestamp: at, Err: "Location not available"}
	}

	sample.Latitude = lat
	sample.Longitude = lon

	return sample
}
