package models

import (
	"time"
)

type Key string

// SessionStatus is the lifecycle state of a work session.
type SessionStatus string

const (
	StatusWorking   SessionStatus = "working"
	StatusBreak     SessionStatus = "break"
	StatusCompleted SessionStatus = "completed"
)

// Active reports whether the session still accepts transitions.
func (s SessionStatus) Active() bool {
	return s == StatusWorking || s == StatusBreak
}

// LocationSample is a single position fix. When the device could not
// provide coordinates, Err is set and the coordinates must not be used.
type LocationSample struct {
	Latitude  float64   `json:"latitude,omitempty"`
	Longitude float64   `json:"longitude,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Err       string    `json:"error,omitempty"`
}

// Valid reports whether the sample carries usable coordinates.
func (l LocationSample) Valid() bool {
	return l.Err == ""
}

// Break is a sub-interval of a work session excluded from worked hours.
// End is nil only for the most recent break while the session is on break.
type Break struct {
	Start    time.Time       `json:"start"`
	End      *time.Time      `json:"end,omitempty"`
	Location *LocationSample `json:"location,omitempty"`
}

// ScreenshotRef is the lightweight reference a session keeps for an
// uploaded photo; the bytes live behind the file registry.
type ScreenshotRef struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Location  *LocationSample `json:"location,omitempty"`
	Category  string          `json:"category"`
	FileID    string          `json:"fileId"`
}

// WorkSession is one work-tracking record from clock-in to clock-out.
type WorkSession struct {
	ID                   string           `db:"id" json:"id"`
	EmployeeID           string           `db:"employee_id" json:"employeeId"`
	EmployeeName         string           `db:"employee_name" json:"employeeName"`
	StartTime            time.Time        `db:"start_time" json:"startTime"`
	EndTime              *time.Time       `db:"end_time" json:"endTime,omitempty"`
	Status               SessionStatus    `db:"status" json:"status"`
	StartLocation        *LocationSample  `db:"start_location" json:"startLocation,omitempty"`
	EndLocation          *LocationSample  `db:"end_location" json:"endLocation,omitempty"`
	VehicleID            string           `db:"vehicle_id" json:"vehicleId"`
	VehicleName          string           `db:"vehicle_name" json:"vehicleName"`
	VehiclePlate         string           `db:"vehicle_plate" json:"vehiclePlate"`
	Kilometers           float64          `db:"kilometers" json:"kilometers"`
	WorkDescription      string           `db:"work_description" json:"workDescription"`
	FinalWorkDescription string           `db:"final_work_description" json:"finalWorkDescription,omitempty"`
	TotalHours           float64          `db:"total_hours" json:"totalHours"`
	Breaks               []Break          `db:"breaks" json:"breaks"`
	Screenshots          []ScreenshotRef  `db:"screenshots" json:"screenshots"`
	LocationHistory      []LocationSample `db:"location_history" json:"locationHistory"`
}

// Employee is a roster entry; Hash is the bcrypt digest of the password.
type Employee struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Hash       []byte    `db:"password_hash" json:"-"`
	Role       string    `db:"role" json:"role"`
	Status     string    `db:"status" json:"status"`
	Department string    `db:"department" json:"department"`
	HireDate   time.Time `db:"hire_date" json:"hireDate"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

const (
	RoleAdmin  = "admin"
	RoleWorker = "worker"
)

type Vehicle struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	LicensePlate string `db:"license_plate" json:"licensePlate"`
	Make         string `db:"make" json:"make,omitempty"`
	Model        string `db:"model" json:"model,omitempty"`
	Year         int    `db:"year" json:"year,omitempty"`
	Color        string `db:"color" json:"color,omitempty"`
	Type         string `db:"type" json:"type,omitempty"`
	Status       string `db:"status" json:"status"`
}

// FileRecord describes one uploaded binary object and its associations.
type FileRecord struct {
	ID                   string    `db:"id" json:"id"`
	FileName             string    `db:"file_name" json:"fileName"`
	OriginalName         string    `db:"original_name" json:"originalName"`
	Category             string    `db:"category" json:"category"`
	MimeType             string    `db:"mime_type" json:"mimeType"`
	Size                 int64     `db:"size" json:"size"`
	UploadedBy           string    `db:"uploaded_by" json:"uploadedBy"`
	UploadedByName       string    `db:"uploaded_by_name" json:"uploadedByName,omitempty"`
	UploadedByType       string    `db:"uploaded_by_type" json:"uploadedByType"`
	RelatedWorkSessionID string    `db:"related_work_session_id" json:"relatedWorkSessionId,omitempty"`
	RelatedEmployeeID    string    `db:"related_employee_id" json:"relatedEmployeeId,omitempty"`
	FilePath             string    `db:"file_path" json:"filePath"`
	Description          string    `db:"description" json:"description,omitempty"`
	Status               string    `db:"status" json:"status"`
	UploadDate           time.Time `db:"upload_date" json:"uploadDate"`
}

const (
	FileStatusActive  = "active"
	FileStatusRemoved = "removed"
)

type Material struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Quantity      float64   `db:"quantity" json:"quantity"`
	Unit          string    `db:"unit" json:"unit"`
	Price         float64   `db:"price" json:"price"`
	Project       string    `db:"project" json:"project"`
	Worksite      string    `db:"worksite" json:"worksite"`
	PurchaseDate  time.Time `db:"purchase_date" json:"purchaseDate"`
	Supplier      string    `db:"supplier" json:"supplier"`
	ReceiptFileID string    `db:"receipt_file_id" json:"receiptFileId,omitempty"`
	Description   string    `db:"description" json:"description,omitempty"`
}

// AuthSession is a persisted login session ("remember me" row).
type AuthSession struct {
	Token          string    `db:"token" json:"token"`
	EmployeeID     string    `db:"employee_id" json:"employeeId"`
	RememberMe     bool      `db:"is_remember_me" json:"isRememberMe"`
	ExpiresAt      time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	LastAccessedAt time.Time `db:"last_accessed_at" json:"lastAccessedAt"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s AuthSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type SessionFilter struct {
	EmployeeID *string
	Status     *string
	From       *time.Time
	To         *time.Time
}

type EmployeeFilter struct {
	Name       *string
	Email      *string
	Role       *string
	Status     *string
	Department *string
}

type VehicleFilter struct {
	Name         *string
	LicensePlate *string
	Status       *string
}

type FileFilter struct {
	Category       *string
	UploadedBy     *string
	UploadedByType *string
	Status         *string
}

type MaterialFilter struct {
	Project  *string
	Worksite *string
	Supplier *string
}

type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ReportRow is one per-employee line of the admin hours report.
type ReportRow struct {
	EmployeeID      string  `json:"employeeId"`
	EmployeeName    string  `json:"employeeName"`
	TotalHours      float64 `json:"totalHours"`
	DaysWorked      int     `json:"daysWorked"`
	AvgHoursPerDay  float64 `json:"avgHoursPerDay"`
	TotalDistanceKm float64 `json:"totalDistanceKm"`
}

// WorkStats summarizes a collection of sessions for the overview panel.
type WorkStats struct {
	TotalSessions     int     `json:"totalSessions"`
	CompletedSessions int     `json:"completedSessions"`
	ActiveSessions    int     `json:"activeSessions"`
	TotalHours        float64 `json:"totalHours"`
}

// SessionEvent is published on every lifecycle transition.
type SessionEvent struct {
	Type       string    `json:"type"`
	SessionID  string    `json:"sessionId"`
	EmployeeID string    `json:"employeeId"`
	OccurredAt time.Time `json:"occurredAt"`
}

const (
	EventSessionStarted  = "session_started"
	EventBreakStarted    = "break_started"
	EventBreakEnded      = "break_ended"
	EventScreenshotAdded = "screenshot_added"
	EventSessionEnded    = "session_ended"
)

// WeatherForecast is the dashboard widget payload.
type WeatherForecast struct {
	Temperature              float64        `json:"temperature"`
	PrecipitationProbability int            `json:"precipitationProbability"`
	WeatherCode              int            `json:"weatherCode"`
	Daily                    []WeatherDaily `json:"daily"`
}

type WeatherDaily struct {
	Date                     string  `json:"date"`
	TemperatureMin           float64 `json:"temperatureMin"`
	TemperatureMax           float64 `json:"temperatureMax"`
	WeatherCode              int     `json:"weatherCode"`
	PrecipitationProbability int     `json:"precipitationProbability"`
}

// GeoPlace is a geocoding search result.
type GeoPlace struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
}
