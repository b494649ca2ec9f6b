package worksession

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zapcore"

	"github.com/fenixcs/fieldtracker/internal/fileregistry"
	"github.com/fenixcs/fieldtracker/internal/models"
	"github.com/fenixcs/fieldtracker/internal/storage"
)

// MockStorage is a mock implementation of the Storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) InsertWorkSession(session models.WorkSession) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockStorage) UpdateWorkSession(session models.WorkSession) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockStorage) GetActiveWorkSession(employeeID string) (models.WorkSession, error) {
	args := m.Called(employeeID)
	return args.Get(0).(models.WorkSession), args.Error(1)
}

// MockRegistry is a mock implementation of the Registry interface
type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) AddFile(input fileregistry.FileInput) (models.FileRecord, error) {
	args := m.Called(input)
	return args.Get(0).(models.FileRecord), args.Error(1)
}

// MockPublisher is a mock implementation of the Publisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(event models.SessionEvent) {
	m.Called(event)
}

// MockLog is a mock implementation of the Log interface
type MockLog struct {
	mock.Mock
}

func (m *MockLog) Info(msg string, fields ...zapcore.Field) {
	m.Called(msg, fields)
}

func newTestManager(st *MockStorage, reg *MockRegistry, pub *MockPublisher) *Manager {
	log := new(MockLog)
	log.On("Info", mock.Anything, mock.Anything).Return()

	var publisher Publisher
	if pub != nil {
		publisher = pub
	}

	m := NewManager(st, reg, publisher, log)
	m.now = func() time.Time {
		return time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC)
	}

	return m
}

func testEmployee() models.Employee {
	return models.Employee{ID: "e1", Name: "Agim", Role: models.RoleWorker, Status: "active"}
}

func testVehicle() models.Vehicle {
	return models.Vehicle{ID: "v1", Name: "Kombe", LicensePlate: "SK-1234-AB"}
}

func TestManager_Start(t *testing.T) {
	t.Run("creates a working session", func(t *testing.T) {
		st := new(MockStorage)
		pub := new(MockPublisher)
		st.On("GetActiveWorkSession", "e1").Return(models.WorkSession{}, storage.ErrNotFound)
		st.On("InsertWorkSession", mock.Anything).Return(nil)
		pub.On("Publish", mock.Anything).Return()

		m := newTestManager(st, nil, pub)

		session, err := m.Start(StartInput{
			Employee:        testEmployee(),
			Vehicle:         testVehicle(),
			Location:        models.LocationSample{Latitude: 41.99, Longitude: 21.43},
			Kilometers:      123456,
			WorkDescription: "foundation work",
		})

		assert.NoError(t, err)
		assert.Equal(t, models.StatusWorking, session.Status)
		assert.NotEmpty(t, session.ID)
		assert.Equal(t, "Agim", session.EmployeeName)
		assert.Equal(t, "SK-1234-AB", session.VehiclePlate)
		assert.NotNil(t, session.StartLocation)
		assert.Len(t, session.LocationHistory, 1)
		assert.NotNil(t, session.Breaks)
		assert.Empty(t, session.Breaks)

		st.AssertCalled(t, "InsertWorkSession", mock.Anything)
		pub.AssertCalled(t, "Publish", mock.MatchedBy(func(e models.SessionEvent) bool {
			return e.Type == models.EventSessionStarted
		}))
	})

	t.Run("vehicle required", func(t *testing.T) {
		st := new(MockStorage)
		m := newTestManager(st, nil, nil)

		_, err := m.Start(StartInput{Employee: testEmployee()})

		assert.ErrorIs(t, err, ErrVehicleRequired)
		st.AssertNotCalled(t, "InsertWorkSession", mock.Anything)
	})

	t.Run("rejects second active session", func(t *testing.T) {
		st := new(MockStorage)
		st.On("GetActiveWorkSession", "e1").Return(models.WorkSession{ID: "s1"}, nil)

		m := newTestManager(st, nil, nil)

		_, err := m.Start(StartInput{Employee: testEmployee(), Vehicle: testVehicle()})

		assert.ErrorIs(t, err, ErrActiveSession)
	})

	t.Run("error-shaped location is kept", func(t *testing.T) {
		st := new(MockStorage)
		st.On("GetActiveWorkSession", "e1").Return(models.WorkSession{}, storage.ErrNotFound)
		st.On("InsertWorkSession", mock.Anything).Return(nil)

		m := newTestManager(st, nil, nil)

		session, err := m.Start(StartInput{
			Employee: testEmployee(),
			Vehicle:  testVehicle(),
			Location: models.LocationSample{Err: "Location not available"},
		})

		assert.NoError(t, err)
		assert.False(t, session.StartLocation.Valid())
		assert.Len(t, session.LocationHistory, 1)
	})
}

func TestManager_BreakResume(t *testing.T) {
	t.Run("break records start and pauses", func(t *testing.T) {
		st := new(MockStorage)
		st.On("UpdateWorkSession", mock.Anything).Return(nil)

		m := newTestManager(st, nil, nil)
		session := models.WorkSession{
			ID:     "s1",
			Status: models.StatusWorking,
			LocationHistory: []models.LocationSample{
				{Latitude: 41.99, Longitude: 21.43},
			},
		}

		assert.NoError(t, m.Break(&session))
		assert.Equal(t, models.StatusBreak, session.Status)
		assert.Len(t, session.Breaks, 1)
		assert.Nil(t, session.Breaks[0].End)
		assert.NotNil(t, session.Breaks[0].Location)
	})

	t.Run("break only from working", func(t *testing.T) {
		m := newTestManager(new(MockStorage), nil, nil)
		session := models.WorkSession{Status: models.StatusBreak}

		assert.ErrorIs(t, m.Break(&session), ErrNotWorking)
	})

	t.Run("resume closes the open break", func(t *testing.T) {
		st := new(MockStorage)
		st.On("UpdateWorkSession", mock.Anything).Return(nil)

		m := newTestManager(st, nil, nil)
		session := models.WorkSession{
			ID:     "s1",
			Status: models.StatusBreak,
			Breaks: []models.Break{{Start: time.Date(2026, 8, 10, 7, 0, 0, 0, time.UTC)}},
		}

		assert.NoError(t, m.Resume(&session))
		assert.Equal(t, models.StatusWorking, session.Status)
		assert.NotNil(t, session.Breaks[0].End)
	})

	t.Run("resume with no recorded break is a no-op", func(t *testing.T) {
		st := new(MockStorage)
		m := newTestManager(st, nil, nil)

		session := models.WorkSession{ID: "s1", Status: models.StatusBreak, Breaks: []models.Break{}}

		assert.NoError(t, m.Resume(&session))
		assert.Equal(t, models.StatusBreak, session.Status)
		st.AssertNotCalled(t, "UpdateWorkSession", mock.Anything)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		m := newTestManager(new(MockStorage), nil, nil)
		session := models.WorkSession{Status: models.StatusCompleted}

		assert.ErrorIs(t, m.Break(&session), ErrCompleted)
		assert.ErrorIs(t, m.Resume(&session), ErrCompleted)
	})
}

func TestManager_Capture(t *testing.T) {
	t.Run("appends a reference without changing status", func(t *testing.T) {
		st := new(MockStorage)
		reg := new(MockRegistry)
		st.On("UpdateWorkSession", mock.Anything).Return(nil)
		reg.On("AddFile", mock.Anything).Return(models.FileRecord{ID: "f1", Category: "screenshot"}, nil)

		m := newTestManager(st, reg, nil)
		session := models.WorkSession{ID: "s1", EmployeeID: "e1", Status: models.StatusBreak}

		ref, err := m.Capture(&session, fileregistry.FileInput{
			Data:         []byte("jpeg bytes"),
			OriginalName: "site.jpg",
		})

		assert.NoError(t, err)
		assert.Equal(t, "f1", ref.FileID)
		assert.Equal(t, "screenshot", ref.Category)
		assert.Len(t, session.Screenshots, 1)
		assert.Equal(t, models.StatusBreak, session.Status)

		reg.AssertCalled(t, "AddFile", mock.MatchedBy(func(in fileregistry.FileInput) bool {
			return in.RelatedWorkSessionID == "s1" && in.RelatedEmployeeID == "e1"
		}))
	})

	t.Run("rejected on completed sessions", func(t *testing.T) {
		m := newTestManager(new(MockStorage), new(MockRegistry), nil)
		session := models.WorkSession{Status: models.StatusCompleted}

		_, err := m.Capture(&session, fileregistry.FileInput{})

		assert.ErrorIs(t, err, ErrCompleted)
	})
}

func TestManager_End(t *testing.T) {
	t.Run("finalizes from working", func(t *testing.T) {
		st := new(MockStorage)
		pub := new(MockPublisher)
		st.On("UpdateWorkSession", mock.Anything).Return(nil)
		pub.On("Publish", mock.Anything).Return()

		m := newTestManager(st, nil, pub)
		session := models.WorkSession{
			ID:        "s1",
			Status:    models.StatusWorking,
			StartTime: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		}

		err := m.End(&session, EndInput{
			FinalWorkDescription: "poured the slab",
			Location:             models.LocationSample{Latitude: 41.99, Longitude: 21.43},
		})

		assert.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, session.Status)
		assert.NotNil(t, session.EndTime)
		assert.NotNil(t, session.EndLocation)
		assert.InDelta(t, 8.0, session.TotalHours, 1e-9)

		pub.AssertCalled(t, "Publish", mock.MatchedBy(func(e models.SessionEvent) bool {
			return e.Type == models.EventSessionEnded
		}))
	})

	t.Run("closes an open break first", func(t *testing.T) {
		st := new(MockStorage)
		st.On("UpdateWorkSession", mock.Anything).Return(nil)

		m := newTestManager(st, nil, nil)
		session := models.WorkSession{
			ID:        "s1",
			Status:    models.StatusBreak,
			StartTime: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
			Breaks:    []models.Break{{Start: time.Date(2026, 8, 10, 6, 0, 0, 0, time.UTC)}},
		}

		assert.NoError(t, m.End(&session, EndInput{}))
		assert.NotNil(t, session.Breaks[0].End)
		// 8h span minus the 2h break closed at the end timestamp
		assert.InDelta(t, 6.0, session.TotalHours, 1e-9)
	})

	t.Run("already completed", func(t *testing.T) {
		m := newTestManager(new(MockStorage), nil, nil)
		session := models.WorkSession{Status: models.StatusCompleted}

		assert.ErrorIs(t, m.End(&session, EndInput{}), ErrCompleted)
	})
}

func TestManager_AppendLocation(t *testing.T) {
	st := new(MockStorage)
	st.On("UpdateWorkSession", mock.Anything).Return(nil)

	m := newTestManager(st, nil, nil)
	session := models.WorkSession{ID: "s1", Status: models.StatusWorking}

	assert.NoError(t, m.AppendLocation(&session, models.LocationSample{Latitude: 1, Longitude: 2}))
	assert.NoError(t, m.AppendLocation(&session, models.LocationSample{Err: "Location not available"}))
	assert.Len(t, session.LocationHistory, 2)

	session.Status = models.StatusCompleted
	assert.ErrorIs(t, m.AppendLocation(&session, models.LocationSample{}), ErrCompleted)
}
