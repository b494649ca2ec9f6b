package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"

	authz "github.com/fenixcs/fieldtracker/internal/authorization"
	"github.com/fenixcs/fieldtracker/internal/fileregistry"
	"github.com/fenixcs/fieldtracker/internal/i18n"
	"github.com/fenixcs/fieldtracker/internal/middleware"
	"github.com/fenixcs/fieldtracker/internal/models"
	"github.com/fenixcs/fieldtracker/internal/sessioncache"
	"github.com/fenixcs/fieldtracker/internal/worksession"
)

const (
	sessionTTL           = 24 * time.Hour
	rememberMeSessionTTL = 30 * 24 * time.Hour
)

type Storage interface {
	GetBaseConnection() bool

	GetEmployee(string) (models.Employee, error)
	GetEmployeeByEmail(string) (models.Employee, error)
	InsertEmployee(models.Employee) error
	UpdateEmployee(models.Employee) error
	DeleteEmployee(string) error
	GetEmployees(models.EmployeeFilter, models.Pagination) ([]models.Employee, error)

	GetVehicle(string) (models.Vehicle, error)
	InsertVehicle(models.Vehicle) error
	UpdateVehicle(models.Vehicle) error
	DeleteVehicle(string) error
	GetVehicles(models.VehicleFilter, models.Pagination) ([]models.Vehicle, error)

	GetMaterial(string) (models.Material, error)
	InsertMaterial(models.Material) error
	UpdateMaterial(models.Material) error
	DeleteMaterial(string) error
	GetMaterials(models.MaterialFilter, models.Pagination) ([]models.Material, error)

	GetWorkSession(string) (models.WorkSession, error)
	GetActiveWorkSession(string) (models.WorkSession, error)
	GetWorkSessions(models.SessionFilter, models.Pagination) ([]models.WorkSession, error)

	InsertAuthSession(models.AuthSession) error
	DeleteAuthSession(string) error
}

// Lifecycle is the work session state machine.
type Lifecycle interface {
	Start(worksession.StartInput) (models.WorkSession, error)
	Break(*models.WorkSession) error
	Resume(*models.WorkSession) error
	Capture(*models.WorkSession, fileregistry.FileInput) (models.ScreenshotRef, error)
	End(*models.WorkSession, worksession.EndInput) error
}

type Registry interface {
	AddFile(fileregistry.FileInput) (models.FileRecord, error)
	RemoveFile(string) error
	GetFile(string) (models.FileRecord, error)
	ListByCategory(string) ([]models.FileRecord, error)
	ListByUploader(string, string) ([]models.FileRecord, error)
}

// Objects reads back stored file bytes.
type Objects interface {
	Read(path string) ([]byte, error)
}

// External serves the weather widget and place search.
type External interface {
	Forecast(lat, lon float64) (models.WeatherForecast, error)
	SearchPlaces(name string) ([]models.GeoPlace, error)
}

// Reporter receives client position pings.
type Reporter interface {
	Report(employeeID string, sample models.LocationSample)
}

type Log interface {
	Info(string, ...zapcore.Field)
}

type Authz interface {
	JWTAuthzMiddleware(authz.Log) func(http.Handler) http.Handler
	RequireRole(string) func(http.Handler) http.Handler
	CreateJWTTokenForUser(string, string) string
	AuthCookie(string, string) *http.Cookie
}

type BaseController struct {
	storage   Storage
	lifecycle Lifecycle
	registry  Registry
	objects   Objects
	external  External
	reporter  Reporter
	cache     *sessioncache.Cache
	log       Log
	authz     Authz
	validate  *validator.Validate
}

func NewBaseController(storage Storage, lifecycle Lifecycle, registry Registry, objects Objects,
	external External, reporter Reporter, cache *sessioncache.Cache, log Log, authz Authz,
) *BaseController {
	instance := &BaseController{
		storage:   storage,
		lifecycle: lifecycle,
		registry:  registry,
		objects:   objects,
		external:  external,
		reporter:  reporter,
		cache:     cache,
		log:       log,
		authz:     authz,
		validate:  validator.New(),
	}

	return instance
}

func (h *BaseController) Route() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/ping", h.GetPing)
	r.With(middleware.RateLimit(rate.Every(time.Second), 5)).Post("/api/auth/login", h.Login)
	r.Get("/api/i18n/languages", h.GetLanguages)
	r.Get("/api/i18n/{lang}", h.GetDictionary)

	// group where the middleware authorization is needed
	r.Group(func(r chi.Router) {
		r.Use(h.authz.JWTAuthzMiddleware(h.log))

		r.Post("/api/auth/logout", h.Logout)
		r.Get("/api/auth/me", h.GetProfile)

		r.Post("/api/sessions/start", h.StartSession)
		r.Post("/api/sessions/break", h.BreakSession)
		r.Post("/api/sessions/resume", h.ResumeSession)
		r.Post("/api/sessions/screenshot", h.AddScreenshot)
		r.Post("/api/sessions/location", h.ReportLocation)
		r.Post("/api/sessions/end", h.EndSession)
		r.Get("/api/sessions/active", h.GetActiveSession)
		r.Get("/api/sessions/monthly-hours", h.GetMonthlyHours)
		r.Get("/api/sessions", h.GetSessions)

		r.Get("/api/vehicles", h.GetVehicles)
		r.Get("/api/weather", h.GetWeather)
		r.Get("/api/geocoding", h.SearchPlaces)

		r.Post("/api/files", h.UploadFile)
		r.Get("/api/files/mine", h.GetOwnFiles)
		r.Get("/api/files/{id}", h.GetFile)
		r.Get("/api/files/{id}/content", h.GetFileContent)

		// admin only
		r.Group(func(r chi.Router) {
			r.Use(h.authz.RequireRole(models.RoleAdmin))

			r.Post("/api/employees", h.AddEmployee)
			r.Put("/api/employees", h.UpdateEmployee)
			r.Delete("/api/employees/{id}", h.DeleteEmployee)
			r.Get("/api/employees", h.GetEmployees)

			r.Post("/api/vehicles", h.AddVehicle)
			r.Put("/api/vehicles", h.UpdateVehicle)
			r.Delete("/api/vehicles/{id}", h.DeleteVehicle)

			r.Post("/api/materials", h.AddMaterial)
			r.Put("/api/materials", h.UpdateMaterial)
			r.Delete("/api/materials/{id}", h.DeleteMaterial)
			r.Get("/api/materials", h.GetMaterials)

			r.Get("/api/files", h.GetFiles)
			r.Delete("/api/files/{id}", h.DeleteFile)

			r.Get("/api/reports/monthly", h.GetMonthlyReport)
			r.Get("/api/reports/monthly/export", h.ExportMonthlyReport)
			r.Get("/api/reports/stats", h.GetStats)
		})
	})

	return r
}

// @Summary Ping
// @Description Check service and database availability
// @Tags Service
// @Success 200 {string} string "pong"
// @Failure 500 {string} string "Internal Server Error"
// @Router /ping [get]
func (h *BaseController) GetPing(w http.ResponseWriter, r *http.Request) {
	if !h.storage.GetBaseConnection() {
		h.log.Info("database connection lost")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// @Summary Login
// @Description Authenticate an employee with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body controllers.loginRequest true "Credentials"
// @Success 200 {object} controllers.loginResponse "Tokens and profile"
// @Failure 400 {string} string "Bad Request"
// @Failure 401 {string} string "Unauthorized"
// @Router /api/auth/login [post]
func (h *BaseController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Info("cannot decode request JSON body: ", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.log.Info("invalid login request: ", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	employee, err := h.storage.GetEmployeeByEmail(req.Email)
	if err != nil || !authz.VerifyPassword(employee.Hash, req.Password) {
		h.log.Info("incorrect email/password pair, request status 401")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if employee.Status != "active" {
		h.log.Info("inactive employee login rejected")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	freshToken := h.authz.CreateJWTTokenForUser(employee.ID, employee.Role)
	http.SetCookie(w, h.authz.AuthCookie("jwt-token", freshToken))
	http.SetCookie(w, h.authz.AuthCookie("Authorization", freshToken))
	w.Header().Set("Authorization", freshToken)

	ttl := sessionTTL
	if req.RememberMe {
		ttl = rememberMeSessionTTL
	}

	now := time.Now()
	session := models.AuthSession{
		Token:          uuid.New().String(),
		EmployeeID:     employee.ID,
		RememberMe:     req.RememberMe,
		ExpiresAt:      now.Add(ttl),
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	if err := h.storage.InsertAuthSession(session); err != nil {
		h.log.Info("error inserting auth session to storage: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := h.cache.Set(r.Context(), session.Token, employee.ID, ttl); err != nil &&
		err != sessioncache.ErrUnavailable {
		h.log.Info("error caching auth session: ", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(loginResponse{
		Token:        freshToken,
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt,
		Employee:     employee,
	}); err != nil {
		h.log.Info("internal server error, request status 500: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
}

// @Summary Logout
// @Description Drop the persisted session and clear auth cookies
// @Tags Auth
// @Success 200 {string} string "OK"
// @Router /api/auth/logout [post]
func (h *BaseController) Logout(w http.ResponseWriter, r *http.Request) {
	if token := r.Header.Get(authz.SessionTokenHeader); token != "" {
		if err := h.storage.DeleteAuthSession(token); err != nil {
			h.log.Info("error deleting auth session: ", zap.Error(err))
		}
		if err := h.cache.Delete(r.Context(), token); err != nil &&
			err != sessioncache.ErrUnavailable {
			h.log.Info("error dropping cached auth session: ", zap.Error(err))
		}
	}

	http.SetCookie(w, h.authz.AuthCookie("jwt-token", ""))
	http.SetCookie(w, h.authz.AuthCookie("Authorization", ""))
	w.WriteHeader(http.StatusOK)
}

// @Summary Profile
// @Description Get the authenticated employee's profile
// @Tags Auth
// @Produce json
// @Success 200 {object} models.Employee "Profile"
// @Failure 404 {string} string "Not Found"
// @Router /api/auth/me [get]
func (h *BaseController) GetProfile(w http.ResponseWriter, r *http.Request) {
	employee, err := h.storage.GetEmployee(authz.EmployeeIDFromContext(r.Context()))
	if err != nil {
		h.log.Info("employee not found")
		w.WriteHeader(http.StatusNotFound)
		return
	}

	h.writeJSON(w, employee)
}

// @Summary Languages
// @Description List the selectable UI languages
// @Tags I18n
// @Produce json
// @Success 200 {array} i18n.Language "Languages"
// @Router /api/i18n/languages [get]
func (h *BaseController) GetLanguages(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, i18n.Languages())
}

// @Summary Dictionary
// @Description Get the UI dictionary for a language
// @Tags I18n
// @Produce json
// @Param lang path string true "Language code"
// @Success 200 {object} map[string]string "Dictionary"
// @Failure 404 {string} string "Not Found"
// @Router /api/i18n/{lang} [get]
func (h *BaseController) GetDictionary(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	if !i18n.Supported(lang) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	h.writeJSON(w, i18n.Dictionary(lang))
}

func (h *BaseController) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Info("error encoding response JSON: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

type loginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

type loginResponse struct {
	Token        string          `json:"token"`
	SessionToken string          `json:"sessionToken"`
	ExpiresAt    time.Time       `json:"expiresAt"`
	Employee     models.Employee `json:"employee"`
}
