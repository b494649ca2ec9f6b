package controllers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fenixcs/fieldtracker/internal/models"
	"github.com/fenixcs/fieldtracker/internal/reports"
)

// monthParam parses the "month" query value (2006-01), defaulting to the
// current month.
func monthParam(r *http.Request) (time.Time, error) {
	v := r.URL.Query().Get("month")
	if v == "" {
		return time.Now(), nil
	}

	return time.Parse("2006-01", v)
}

// @Summary Monthly report
// @Description Per-employee hours, worked days and travelled distance for a month
// @Tags Reports
// @Produce json
// @Param month query string false "Month, format 2006-01"
// @Success 200 {array} models.ReportRow "Report rows"
// @Failure 400 {string} string "Bad Request"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/reports/monthly [get]
func (h *BaseController) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	date, err := monthParam(r)
	if err != nil {
		h.log.Info("invalid month format")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	sessions, err := h.storage.GetWorkSessions(models.SessionFilter{}, models.Pagination{})
	if err != nil {
		h.log.Info("error loading sessions: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, reports.MonthlyReport(sessions, date))
}

// @Summary Export monthly report
// @Description Download the monthly report as a spreadsheet or PDF
// @Tags Reports
// @Produce octet-stream
// @Param month query string false "Month, format 2006-01"
// @Param format query string false "xlsx or pdf, default xlsx"
// @Success 200 {file} binary "Report file"
// @Failure 400 {string} string "Bad Request"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/reports/monthly/export [get]
func (h *BaseController) ExportMonthlyReport(w http.ResponseWriter, r *http.Request) {
	date, err := monthParam(r)
	if err != nil {
		h.log.Info("invalid month format")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	sessions, err := h.storage.GetWorkSessions(models.SessionFilter{}, models.Pagination{})
	if err != nil {
		h.log.Info("error loading sessions: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	title := "Work Report " + date.Format("2006-01")
	table := reports.ReportTable(title, reports.MonthlyReport(sessions, date))

	var data []byte
	var contentType, ext string

	switch r.URL.Query().Get("format") {
	case "pdf":
		data, err = reports.WritePDF(table)
		contentType, ext = "application/pdf", "pdf"
	case "", "xlsx":
		data, err = reports.WriteXLSX(table)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		ext = "xlsx"
	default:
		h.log.Info("unknown export format")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err != nil {
		h.log.Info("error rendering report: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\"work-report-"+date.Format("2006-01")+"."+ext+"\"")

	if _, err := w.Write(data); err != nil {
		h.log.Info("error writing report: ", zap.Error(err))
	}
}

// @Summary Work statistics
// @Description Session counts and total hours over an optional range
// @Tags Reports
// @Produce json
// @Param employeeId query string false "Employee ID"
// @Param from query string false "Start of range, RFC 3339"
// @Param to query string false "End of range, RFC 3339"
// @Success 200 {object} models.WorkStats "Statistics"
// @Failure 400 {string} string "Bad Request"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/reports/stats [get]
func (h *BaseController) GetStats(w http.ResponseWriter, r *http.Request) {
	var filter models.SessionFilter

	if v := r.URL.Query().Get("employeeId"); v != "" {
		filter.EmployeeID = &v
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

	sessions, err := h.storage.GetWorkSessions(filter, models.Pagination{})
	if err != nil {
		h.log.Info("error loading sessions: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, reports.Statistics(sessions))
}
