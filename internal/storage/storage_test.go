package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/fenixcs/fieldtracker/internal/models"
)

type noopLog struct{}

func (noopLog) Info(string, ...zapcore.Field) {}

func newTestStorage() *MemoryStorage {
	return NewMemoryStorage(nil, noopLog{})
}

func TestMemoryStorage_Employees(t *testing.T) {
	s := newTestStorage()

	employee := models.Employee{ID: "e1", Name: "Agim", Email: "Agim@fenix.mk", Role: models.RoleWorker}
	assert.NoError(t, s.InsertEmployee(employee))

	t.Run("lookup by email is case-insensitive", func(t *testing.T) {
		got, err := s.GetEmployeeByEmail("agim@FENIX.mk")
		assert.NoError(t, err)
		assert.Equal(t, "e1", got.ID)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		err := s.InsertEmployee(models.Employee{ID: "e2", Email: "agim@fenix.mk"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		err := s.InsertEmployee(models.Employee{ID: "e1", Email: "other@fenix.mk"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("delete touches the roster only", func(t *testing.T) {
		session := models.WorkSession{ID: "s1", EmployeeID: "e1", Status: models.StatusCompleted}
		assert.NoError(t, s.InsertWorkSession(session))

		assert.NoError(t, s.DeleteEmployee("e1"))

		_, err := s.GetEmployee("e1")
		assert.ErrorIs(t, err, ErrNotFound)

		kept, err := s.GetWorkSession("s1")
		assert.NoError(t, err)
		assert.Equal(t, "e1", kept.EmployeeID)
	})
}

func TestMemoryStorage_GetActiveWorkSession(t *testing.T) {
	s := newTestStorage()

	t.Run("not found without sessions", func(t *testing.T) {
		_, err := s.GetActiveWorkSession("e1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	older := models.WorkSession{
		ID: "s1", EmployeeID: "e1", Status: models.StatusWorking,
		StartTime: time.Date(2026, 8, 10, 7, 0, 0, 0, time.UTC),
	}
	newer := models.WorkSession{
		ID: "s2", EmployeeID: "e1", Status: models.StatusBreak,
		StartTime: time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC),
	}
	completed := models.WorkSession{
		ID: "s3", EmployeeID: "e1", Status: models.StatusCompleted,
		StartTime: time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC),
	}

	assert.NoError(t, s.InsertWorkSession(older))
	assert.NoError(t, s.InsertWorkSession(newer))
	assert.NoError(t, s.InsertWorkSession(completed))

	t.Run("most recently started active session wins", func(t *testing.T) {
		got, err := s.GetActiveWorkSession("e1")
		assert.NoError(t, err)
		assert.Equal(t, "s2", got.ID)
	})

	t.Run("completed sessions never match", func(t *testing.T) {
		assert.NoError(t, s.DeleteWorkSession("s1"))
		assert.NoError(t, s.DeleteWorkSession("s2"))

		_, err := s.GetActiveWorkSession("e1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStorage_GetWorkSessions(t *testing.T) {
	s := newTestStorage()

	for i, start := range []time.Time{
		time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 11, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 12, 8, 0, 0, 0, time.UTC),
	} {
		assert.NoError(t, s.InsertWorkSession(models.WorkSession{
			ID:         string(rune('a' + i)),
			EmployeeID: "e1",
			StartTime:  start,
			Status:     models.StatusCompleted,
		}))
	}

	t.Run("sorted newest first", func(t *testing.T) {
		sessions, err := s.GetWorkSessions(models.SessionFilter{}, models.Pagination{})
		assert.NoError(t, err)
		assert.Len(t, sessions, 3)
		assert.True(t, sessions[0].StartTime.After(sessions[1].StartTime))
		assert.True(t, sessions[1].StartTime.After(sessions[2].StartTime))
	})

	t.Run("date range filter", func(t *testing.T) {
		from := time.Date(2026, 8, 11, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 8, 11, 23, 0, 0, 0, time.UTC)

		sessions, err := s.GetWorkSessions(models.SessionFilter{From: &from, To: &to}, models.Pagination{})
		assert.NoError(t, err)
		assert.Len(t, sessions, 1)
	})

	t.Run("pagination", func(t *testing.T) {
		sessions, err := s.GetWorkSessions(models.SessionFilter{}, models.Pagination{Offset: 1, Limit: 1})
		assert.NoError(t, err)
		assert.Len(t, sessions, 1)

		none, err := s.GetWorkSessions(models.SessionFilter{}, models.Pagination{Offset: 10})
		assert.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestMemoryStorage_AuthSessions(t *testing.T) {
	s := newTestStorage()
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	live := models.AuthSession{Token: "t1", EmployeeID: "e1", ExpiresAt: now.Add(time.Hour)}
	expired := models.AuthSession{Token: "t2", EmployeeID: "e1", ExpiresAt: now.Add(-time.Hour)}

	assert.NoError(t, s.InsertAuthSession(live))
	assert.NoError(t, s.InsertAuthSession(expired))

	t.Run("touch updates last access", func(t *testing.T) {
		assert.NoError(t, s.TouchAuthSession("t1", now))

		got, err := s.GetAuthSession("t1")
		assert.NoError(t, err)
		assert.Equal(t, now, got.LastAccessedAt)
	})

	t.Run("sweep removes only expired sessions", func(t *testing.T) {
		count, err := s.DeleteExpiredAuthSessions(now)
		assert.NoError(t, err)
		assert.Equal(t, 1, count)

		_, err = s.GetAuthSession("t2")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.GetAuthSession("t1")
		assert.NoError(t, err)
	})
}
