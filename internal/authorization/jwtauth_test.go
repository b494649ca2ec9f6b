package authz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zapcore"

	"github.com/fenixcs/fieldtracker/internal/models"
	"github.com/fenixcs/fieldtracker/internal/storage"
)

// MockStorage is a mock implementation of the Storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetEmployee(id string) (models.Employee, error) {
	args := m.Called(id)
	return args.Get(0).(models.Employee), args.Error(1)
}

func (m *MockStorage) GetAuthSession(token string) (models.AuthSession, error) {
	args := m.Called(token)
	return args.Get(0).(models.AuthSession), args.Error(1)
}

func (m *MockStorage) TouchAuthSession(token string, at time.Time) error {
	args := m.Called(token, at)
	return args.Error(0)
}

type noopLog struct{}

func (noopLog) Info(string, ...zapcore.Field) {}

func newTestAuthz(st *MockStorage) *JWTAuthz {
	return NewJWTAuthz(st, nil, "test_key", noopLog{})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")

	assert.NoError(t, err)
	assert.NotEqual(t, "password123", string(hash))
	assert.True(t, VerifyPassword(hash, "password123"))
	assert.False(t, VerifyPassword(hash, "wrongpassword"))
	assert.False(t, VerifyPassword(nil, "password123"))
}

func TestJWTRoundTrip(t *testing.T) {
	j := newTestAuthz(new(MockStorage))

	token := j.CreateJWTTokenForUser("e1", models.RoleWorker)
	assert.NotEmpty(t, token)

	employeeID, err := j.DecodeJWTToUser(token)
	assert.NoError(t, err)
	assert.Equal(t, "e1", employeeID)

	_, err = j.DecodeJWTToUser("not a token")
	assert.Error(t, err)

	_, err = j.DecodeJWTToUser("")
	assert.Error(t, err)
}

func TestJWTAuthzMiddleware(t *testing.T) {
	employee := models.Employee{ID: "e1", Role: models.RoleWorker, Status: "active"}

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("cookie token authenticates", func(t *testing.T) {
		st := new(MockStorage)
		st.On("GetEmployee", "e1").Return(employee, nil)

		j := newTestAuthz(st)

		var gotID, gotRole string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID = EmployeeIDFromContext(r.Context())
			gotRole = RoleFromContext(r.Context())
		})

		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: "jwt-token", Value: j.CreateJWTTokenForUser("e1", models.RoleWorker)})
		rr := httptest.NewRecorder()

		j.JWTAuthzMiddleware(noopLog{})(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "e1", gotID)
		assert.Equal(t, models.RoleWorker, gotRole)
	})

	t.Run("missing credentials rejected", func(t *testing.T) {
		j := newTestAuthz(new(MockStorage))

		req := httptest.NewRequest("GET", "/", nil)
		rr := httptest.NewRecorder()

		j.JWTAuthzMiddleware(noopLog{})(ok).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("inactive employee rejected", func(t *testing.T) {
		st := new(MockStorage)
		st.On("GetEmployee", "e1").Return(models.Employee{ID: "e1", Status: "inactive"}, nil)

		j := newTestAuthz(st)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", j.CreateJWTTokenForUser("e1", models.RoleWorker))
		rr := httptest.NewRecorder()

		j.JWTAuthzMiddleware(noopLog{})(ok).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("session token resolves through storage", func(t *testing.T) {
		st := new(MockStorage)
		st.On("GetAuthSession", "tok").Return(models.AuthSession{
			Token:      "tok",
			EmployeeID: "e1",
			ExpiresAt:  time.Now().Add(time.Hour),
		}, nil)
		st.On("TouchAuthSession", "tok", mock.Anything).Return(nil)
		st.On("GetEmployee", "e1").Return(employee, nil)

		j := newTestAuthz(st)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(SessionTokenHeader, "tok")
		rr := httptest.NewRecorder()

		j.JWTAuthzMiddleware(noopLog{})(ok).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		st.AssertCalled(t, "TouchAuthSession", "tok", mock.Anything)
	})

	t.Run("expired session token rejected", func(t *testing.T) {
		st := new(MockStorage)
		st.On("GetAuthSession", "tok").Return(models.AuthSession{
			Token:      "tok",
			EmployeeID: "e1",
			ExpiresAt:  time.Now().Add(-time.Hour),
		}, nil)

		j := newTestAuthz(st)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(SessionTokenHeader, "tok")
		rr := httptest.NewRecorder()

		j.JWTAuthzMiddleware(noopLog{})(ok).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		st.AssertNotCalled(t, "TouchAuthSession", mock.Anything, mock.Anything)
	})

	t.Run("unknown session token rejected", func(t *testing.T) {
		st := new(MockStorage)
		st.On("GetAuthSession", "tok").Return(models.AuthSession{}, storage.ErrNotFound)

		j := newTestAuthz(st)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(SessionTokenHeader, "tok")
		rr := httptest.NewRecorder()

		j.JWTAuthzMiddleware(noopLog{})(ok).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRequireRole(t *testing.T) {
	j := newTestAuthz(new(MockStorage))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("matching role passes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req = req.WithContext(withRole(req, models.RoleAdmin))
		rr := httptest.NewRecorder()

		j.RequireRole(models.RoleAdmin)(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("other role forbidden", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req = req.WithContext(withRole(req, models.RoleWorker))
		rr := httptest.NewRecorder()

		j.RequireRole(models.RoleAdmin)(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func withRole(r *http.Request, role string) context.Context {
	return context.WithValue(r.Context(), keyRole, role)
}
