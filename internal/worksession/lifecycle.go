// Package worksession implements the state machine governing an
// employee's work day: clock-in, breaks, photo capture, clock-out.
package worksession

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fenixcs/fieldtracker/internal/fileregistry"
	"github.com/fenixcs/fieldtracker/internal/models"
	"github.com/fenixcs/fieldtracker/internal/reports"
	"github.com/fenixcs/fieldtracker/internal/storage"
)

var (
	// ErrVehicleRequired rejects a clock-in without a selected vehicle.
	ErrVehicleRequired = errors.New("vehicle is required to start work")
	// ErrActiveSession rejects a clock-in while another session is active.
	ErrActiveSession = errors.New("employee already has an active session")
	// ErrNotWorking rejects a break outside the working state.
	ErrNotWorking = errors.New("session is not in working state")
	// ErrNotOnBreak rejects a resume outside the break state.
	ErrNotOnBreak = errors.New("session is not on break")
	// ErrCompleted rejects any transition on a completed session.
	ErrCompleted = errors.New("session is already completed")
)

type Log interface {
	Info(string, ...zapcore.Field)
}

type Storage interface {
	InsertWorkSession(models.WorkSession) error
	UpdateWorkSession(models.WorkSession) error
	GetActiveWorkSession(string) (models.WorkSession, error)
}

type Registry interface {
	AddFile(fileregistry.FileInput) (models.FileRecord, error)
}

// Publisher receives a lifecycle event after every persisted transition.
type Publisher interface {
	Publish(models.SessionEvent)
}

// Manager applies lifecycle transitions to sessions and persists each
// one. Local mutation and the remote write are not transactional: when
// the persist fails after a capture succeeded, the two can diverge. The
// original system behaves the same way; it is logged, not compensated.
type Manager struct {
	storage   Storage
	registry  Registry
	publisher Publisher
	log       Log
	now       func() time.Time
}

func NewManager(storage Storage, registry Registry, publisher Publisher, log Log) *Manager {
	return &Manager{
		storage:   storage,
		registry:  registry,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// StartInput is everything a clock-in needs. Location may be an
// error-shaped sample; a denied geolocation never blocks clock-in.
type StartInput struct {
	Employee        models.Employee
	Vehicle         models.Vehicle
	Location        models.LocationSample
	Kilometers      float64
	WorkDescription string
}

// Start creates a new session in status working, seeded with the start
// sample. It fails when no vehicle is selected or when the employee
// already has an active session.
func (m *Manager) Start(input StartInput) (models.WorkSession, error) {
	if input.Vehicle.ID == "" {
		return models.WorkSession{}, ErrVehicleRequired
	}

	_, err := m.storage.GetActiveWorkSession(input.Employee.ID)
	switch {
	case err == nil:
		return models.WorkSession{}, ErrActiveSession
	case !errors.Is(err, storage.ErrNotFound):
		return models.WorkSession{}, err
	}

	now := m.now()
	loc := input.Location
	if loc.Timestamp.IsZero() {
		loc.Timestamp = now
	}

	session := models.WorkSession{
		ID:              uuid.New().String(),
		EmployeeID:      input.Employee.ID,
		EmployeeName:    input.Employee.Name,
		StartTime:       now,
		Status:          models.StatusWorking,
		StartLocation:   &loc,
		VehicleID:       input.Vehicle.ID,
		VehicleName:     input.Vehicle.Name,
		VehiclePlate:    input.Vehicle.LicensePlate,
		Kilometers:      input.Kilometers,
		WorkDescription: input.WorkDescription,
		Breaks:          []models.Break{},
		Screenshots:     []models.ScreenshotRef{},
		LocationHistory: []models.LocationSample{loc},
	}

	if err := m.storage.InsertWorkSession(session); err != nil {
		return models.WorkSession{}, err
	}

	m.publish(models.EventSessionStarted, session)

	return session, nil
}

// Break transitions working -> break, recording the break start and the
// last known location.
func (m *Manager) Break(session *models.WorkSession) error {
	if session.Status == models.StatusCompleted {
		return ErrCompleted
	}
	if session.Status != models.StatusWorking {
		return ErrNotWorking
	}

	session.Breaks = append(session.Breaks, models.Break{
		Start:    m.now(),
		Location: lastKnown(session),
	})
	session.Status = models.StatusBreak

	if err := m.storage.UpdateWorkSession(*session); err != nil {
		return err
	}

	m.publish(models.EventBreakStarted, *session)

	return nil
}

// Resume transitions break -> working, closing the open break. Resuming
// with no recorded break is a no-op: the session state stays untouched.
func (m *Manager) Resume(session *models.WorkSession) error {
	if session.Status == models.StatusCompleted {
		return ErrCompleted
	}
	if session.Status != models.StatusBreak {
		return ErrNotOnBreak
	}
	if len(session.Breaks) == 0 {
		return nil
	}

	now := m.now()
	last := &session.Breaks[len(session.Breaks)-1]
	if last.End == nil {
		last.End = &now
	}
	session.Status = models.StatusWorking

	if err := m.storage.UpdateWorkSession(*session); err != nil {
		return err
	}

	m.publish(models.EventBreakEnded, *session)

	return nil
}

// Capture registers an uploaded photo and appends its reference to the
// session. Valid in any active state; the status never changes.
func (m *Manager) Capture(session *models.WorkSession, input fileregistry.FileInput) (models.ScreenshotRef, error) {
	if !session.Status.Active() {
		return models.ScreenshotRef{}, ErrCompleted
	}

	if input.Category == "" {
		input.Category = "screenshot"
	}
	input.RelatedWorkSessionID = session.ID
	input.RelatedEmployeeID = session.EmployeeID

	record, err := m.registry.AddFile(input)
	if err != nil {
		return models.ScreenshotRef{}, err
	}

	ref := models.ScreenshotRef{
		ID:        record.ID,
		Timestamp: m.now(),
		Location:  lastKnown(session),
		Category:  record.Category,
		FileID:    record.ID,
	}
	session.Screenshots = append(session.Screenshots, ref)

	if err := m.storage.UpdateWorkSession(*session); err != nil {
		return models.ScreenshotRef{}, err
	}

	m.publish(models.EventScreenshotAdded, *session)

	return ref, nil
}

// EndInput carries the confirmation data of a clock-out.
type EndInput struct {
	FinalWorkDescription string
	Location             models.LocationSample
	FinalPhoto           *fileregistry.FileInput
}

// End finalizes the session from working or break: an open break is
// closed, the optional final photo captured, end time and location set
// and the total worked hours computed. Completed is terminal.
func (m *Manager) End(session *models.WorkSession, input EndInput) error {
	if !session.Status.Active() {
		return ErrCompleted
	}

	now := m.now()

	if session.Status == models.StatusBreak && len(session.Breaks) > 0 {
		last := &session.Breaks[len(session.Breaks)-1]
		if last.End == nil {
			last.End = &now
		}
	}

	if input.FinalPhoto != nil {
		if _, err := m.Capture(session, *input.FinalPhoto); err != nil {
			m.log.Info("error capturing final photo: ", zap.Error(err))
		}
	}

	loc := input.Location
	if loc.Timestamp.IsZero() {
		loc.Timestamp = now
	}

	session.EndTime = &now
	session.EndLocation = &loc
	session.FinalWorkDescription = input.FinalWorkDescription
	session.Status = models.StatusCompleted
	session.TotalHours = reports.WorkHours(*session)

	if err := m.storage.UpdateWorkSession(*session); err != nil {
		return err
	}

	m.publish(models.EventSessionEnded, *session)

	return nil
}

// AppendLocation records one passive tracking sample, error-shaped ones
// included, and persists the grown history.
func (m *Manager) AppendLocation(session *models.WorkSession, sample models.LocationSample) error {
	if !session.Status.Active() {
		return ErrCompleted
	}

	if sample.Timestamp.IsZero() {
		sample.Timestamp = m.now()
	}
	session.LocationHistory = append(session.LocationHistory, sample)

	return m.storage.UpdateWorkSession(*session)
}

func (m *Manager) publish(eventType string, session models.WorkSession) {
	if m.publisher == nil {
		return
	}

	m.publisher.Publish(models.SessionEvent{
		Type:       eventType,
		SessionID:  session.ID,
		EmployeeID: session.EmployeeID,
		OccurredAt: m.now(),
	})
}

// lastKnown returns the most recent history sample, which may be
// error-shaped, or nil when nothing was recorded yet.
func lastKnown(session *models.WorkSession) *models.LocationSample {
	if len(session.LocationHistory) == 0 {
		return nil
	}

	sample := session.LocationHistory[len(session.LocationHistory)-1]
	return &sample
}
