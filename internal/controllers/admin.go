package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"go.uber.org/zap"

	authz "github.com/fenixcs/fieldtracker/internal/authorization"
	"github.com/fenixcs/fieldtracker/internal/models"
	"github.com/fenixcs/fieldtracker/internal/storage"
)

type employeeRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password"`
	Role       string `json:"role" validate:"required,oneof=admin worker"`
	Status     string `json:"status"`
	Department string `json:"department"`
	HireDate   string `json:"hireDate"`
}

// @Summary Add employee
// @Description Add a new employee to the roster
// @Tags Employees
// @Accept json
// @Produce json
// @Param employee body controllers.employeeRequest true "Employee Info"
// @Success 200 {object} models.Employee "Created employee"
// @Failure 400 {string} string "Bad Request"
// @Failure 409 {string} string "Conflict"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/employees [post]
func (h *BaseController) AddEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Info("cannot decode request JSON body: ", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil || req.Password == "" {
		h.log.Info("invalid employee payload")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	hash, err := authz.HashPassword(req.Password)
	if err != nil {
		h.log.Info("error hashing password: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	status := req.Status
	if status == "" {
		status = "active"
	}

	hireDate := time.Now()
	if req.HireDate != "" {
		if d, err := time.Parse("2006-01-02", req.HireDate); err == nil {
			hireDate = d
		}
	}

	employee := models.Employee{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Email:      req.Email,
		Hash:       hash,
		Role:       req.Role,
		Status:     status,
		Department: req.Department,
		HireDate:   hireDate,
		CreatedAt:  time.Now(),
	}

	if err := h.storage.InsertEmployee(employee); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			h.log.Info("email is already taken: ", zap.Error(err))
			w.WriteHeader(http.StatusConflict)
			return
		}
		h.log.Info("error inserting employee to storage: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, employee)
}

// @Summary Update employee
// @Description Update an employee in the roster
// @Tags Employees
// @Accept json
// @Produce json
// @Param employee body controllers.employeeRequest true "Employee Info"
// @Success 200 {string} string "Employee updated successfully"
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Not Found"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/employees [put]
func (h *BaseController) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Info("cannot decode request JSON body: ", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if req.ID == "" {
		h.log.Info("employee id was not received")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	employee, err := h.storage.GetEmployee(req.ID)
	if errors.Is(err, storage.ErrNotFound) {
		h.log.Info("employee not found")
		w.WriteHeader(http.StatusNotFound)
		return
	} else if err != nil {
		h.log.Info("error loading employee: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if req.Name != "" {
		employee.Name = req.Name
	}
	if req.Email != "" {
		employee.Email = req.Email
	}
	if req.Role != "" {
		employee.Role = req.Role
	}
	if req.Status != "" {
		employee.Status = req.Status
	}
	if req.Department != "" {
		employee.Department = req.Department
	}
	if req.Password != "" {
		hash, err := authz.HashPassword(req.Password)
		if err != nil {
			h.log.Info("error hashing password: ", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		employee.Hash = hash
	}

	if err := h.storage.UpdateEmployee(employee); err != nil {
		h.log.Info("error updating employee in storage: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	h.log.Info("Employee updated successfully")
}

// @Summary Delete employee
// @Description Remove an employee from the roster. Their session history stays.
// @Tags Employees
// @Param id path string true "Employee ID"
// @Success 200 {string} string "Employee deleted successfully"
// @Failure 404 {string} string "Not Found"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/employees/{id} [delete]
func (h *BaseController) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	err := h.storage.DeleteEmployee(chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		h.log.Info("employee not found")
		w.WriteHeader(http.StatusNotFound)
		return
	} else if err != nil {
		h.log.Info("error deleting employee from storage: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	h.log.Info("Employee deleted successfully")
}

// @Summary Get employees
// @Description List roster employees
// @Tags Employees
// @Produce json
// @Param name query string false "Name"
// @Param email query string false "Email"
// @Param role query string false "Role"
// @Param status query string false "Status"
// @Param department query string false "Department"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Employee "List of employees"
// @Failure 400 {string} string "Bad Request"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/employees [get]
func (h *BaseController) GetEmployees(w http.ResponseWriter, r *http.Request) {
	var filter models.EmployeeFilter

	if v := r.URL.Query().Get("name"); v != "" {
		filter.Name = &v
	}
	if v := r.URL.Query().Get("email"); v != "" {
		filter.Email = &v
	}
	if v := r.URL.Query().Get("role"); v != "" {
		filter.Role = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}
	if v := r.URL.Query().Get("department"); v != "" {
		filter.Department = &v
	}

	pagination, ok := h.pagination(w, r)
	if !ok {
		return
	}

	employees, err := h.storage.GetEmployees(filter, pagination)
	if err != nil {
		h.log.Info("error loading employees: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, employees)
}

// @Summary Add vehicle
// @Description Add a vehicle to the fleet
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param vehicle body models.Vehicle true "Vehicle Info"
// @Success 200 {object} models.Vehicle "Created vehicle"
// @Failure 400 {string} string "Bad Request"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/vehicles [post]
func (h *BaseController) AddVehicle(w http.ResponseWriter, r *http.Request) {
	var vehicle models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		h.log.Info("cannot decode request JSON body: ", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if vehicle.Name == "" || vehicle.LicensePlate == "" {
		h.log.Info("vehicle name or license plate was not received")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	vehicle.ID = uuid.New().String()
	if vehicle.Status == "" {
		vehicle.Status = "available"
	}

	if err := h.storage.InsertVehicle(vehicle); err != nil {
		h.log.Info("error inserting vehicle to storage: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, vehicle)
}

// @Summary Update vehicle
// @Description Update a fleet vehicle
// @Tags Vehicles
// @Accept json
// @Param vehicle body models.Vehicle true "Vehicle Info"
// @Success 200 {string} string "Vehicle updated successfully"
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Not Found"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/vehicles [put]
func (h *BaseController) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var vehicle models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		h.log.Info("cannot decode request JSON body: ", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.storage.UpdateVehicle(vehicle); errors.Is(err, storage.ErrNotFound) {
		h.log.Info("vehicle not found")
		w.WriteHeader(http.StatusNotFound)
		return
	} else if err != nil {
		h.log.Info("error updating vehicle in storage: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	h.log.Info("Vehicle updated successfully")
}

// @Summary Delete vehicle
// @Description Remove a vehicle from the fleet
// @Tags Vehicles
// @Param id path string true "Vehicle ID"
// @Success 200 {string} string "Vehicle deleted successfully"
// @Failure 404 {string} string "Not Found"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/vehicles/{id} [delete]
func (h *BaseController) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	err := h.storage.DeleteVehicle(chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		h.log.Info("vehicle not found")
		w.WriteHeader(http.StatusNotFound)
		return
	} else if err != nil {
		h.log.Info("error deleting vehicle from storage: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	h.log.Info("Vehicle deleted successfully")
}

// @Summary Get vehicles
// @Description List fleet vehicles
// @Tags Vehicles
// @Produce json
// @Param name query string false "Name"
// @Param licensePlate query string false "License plate"
// @Param status query string false "Status"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Vehicle "List of vehicles"
// @Failure 400 {string} string "Bad Request"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/vehicles [get]
func (h *BaseController) GetVehicles(w http.ResponseWriter, r *http.Request) {
	var filter models.VehicleFilter

	if v := r.URL.Query().Get("name"); v != "" {
		filter.Name = &v
	}
	if v := r.URL.Query().Get("licensePlate"); v != "" {
		filter.LicensePlate = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}

	pagination, ok := h.pagination(w, r)
	if !ok {
		return
	}

	vehicles, err := h.storage.GetVehicles(filter, pagination)
	if err != nil {
		h.log.Info("error loading vehicles: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, vehicles)
}

// @Summary Add material
// @Description Register a material purchase
// @Tags Materials
// @Accept json
// @Produce json
// @Param material body models.Material true "Material Info"
// @Success 200 {object} models.Material "Created material"
// @Failure 400 {string} string "Bad Request"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/materials [post]
func (h *BaseController) AddMaterial(w http.ResponseWriter, r *http.Request) {
	var material models.Material
	if err := json.NewDecoder(r.Body).Decode(&material); err != nil {
		h.log.Info("cannot decode request JSON body: ", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if material.Name == "" {
		h.log.Info("material name was not received")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	material.ID = uuid.New().String()
	if material.PurchaseDate.IsZero() {
		material.PurchaseDate = time.Now()
	}

	if err := h.storage.InsertMaterial(material); err != nil {
		h.log.Info("error inserting material to storage: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, material)
}

// @Summary Update material
// @Description Update a material purchase
// @Tags Materials
// @Accept json
// @Param material body models.Material true "Material Info"
// @Success 200 {string} string "Material updated successfully"
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Not Found"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/materials [put]
func (h *BaseController) UpdateMaterial(w http.ResponseWriter, r *http.Request) {
	var material models.Material
	if err := json.NewDecoder(r.Body).Decode(&material); err != nil {
		h.log.Info("cannot decode request JSON body: ", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.storage.UpdateMaterial(material); errors.Is(err, storage.ErrNotFound) {
		h.log.Info("material not found")
		w.WriteHeader(http.StatusNotFound)
		return
	} else if err != nil {
		h.log.Info("error updating material in storage: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	h.log.Info("Material updated successfully")
}

// @Summary Delete material
// @Description Remove a material purchase
// @Tags Materials
// @Param id path string true "Material ID"
// @Success 200 {string} string "Material deleted successfully"
// @Failure 404 {string} string "Not Found"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/materials/{id} [delete]
func (h *BaseController) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	err := h.storage.DeleteMaterial(chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		h.log.Info("material not found")
		w.WriteHeader(http.StatusNotFound)
		return
	} else if err != nil {
		h.log.Info("error deleting material from storage: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	h.log.Info("Material deleted successfully")
}

// @Summary Get materials
// @Description List material purchases
// @Tags Materials
// @Produce json
// @Param project query string false "Project"
// @Param worksite query string false "Worksite"
// @Param supplier query string false "Supplier"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Material "List of materials"
// @Failure 400 {string} string "Bad Request"
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/materials [get]
func (h *BaseController) GetMaterials(w http.ResponseWriter, r *http.Request) {
	var filter models.MaterialFilter

	if v := r.URL.Query().Get("project"); v != "" {
		filter.Project = &v
	}
	if v := r.URL.Query().Get("worksite"); v != "" {
		filter.Worksite = &v
	}
	if v := r.URL.Query().Get("supplier"); v != "" {
		filter.Supplier = &v
	}

	pagination, ok := h.pagination(w, r)
	if !ok {
		return
	}

	materials, err := h.storage.GetMaterials(filter, pagination)
	if err != nil {
		h.log.Info("error loading materials: ", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, materials)
}

func (h *BaseController) pagination(w http.ResponseWriter, r *http.Request) (models.Pagination, bool) {
	var pagination models.Pagination

	if v := r.URL.Query().Get("limit"); v != "" {
		val, err := strconv.Atoi(v)
		if err != nil {
			h.log.Info("invalid limit format")
			w.WriteHeader(http.StatusBadRequest)
			return pagination, false
		}
		pagination.Limit = val
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		val, err := strconv.Atoi(v)
		if err != nil {
			h.log.Info("invalid offset format")
			w.WriteHeader(http.StatusBadRequest)
			return pagination, false
		}
		pagination.Offset = val
	}

	return pagination, true
}
