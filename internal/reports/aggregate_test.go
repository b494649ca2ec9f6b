package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fenixcs/fieldtracker/internal/models"
)

func ts(hour, min int) time.Time {
	return time.Date(2026, 8, 10, hour, min, 0, 0, time.UTC)
}

func completedSession(start, end time.Time, breaks []models.Break) models.WorkSession {
	return models.WorkSession{
		ID:         "s1",
		EmployeeID: "e1",
		StartTime:  start,
		EndTime:    &end,
		Status:     models.StatusCompleted,
		Breaks:     breaks,
	}
}

func TestWorkHours(t *testing.T) {
	t.Run("full day with one break", func(t *testing.T) {
		end := ts(16, 0)
		session := completedSession(ts(8, 0), end, []models.Break{
			{Start: ts(12, 0), End: timePtr(ts(12, 30))},
		})

		assert.InDelta(t, 7.5, WorkHours(session), 1e-9)
	})

	t.Run("no breaks equals raw span", func(t *testing.T) {
		end := ts(16, 0)
		withEmpty := completedSession(ts(8, 0), end, []models.Break{})
		withNil := completedSession(ts(8, 0), end, nil)

		assert.Equal(t, WorkHours(withEmpty), WorkHours(withNil))
		assert.InDelta(t, 8.0, WorkHours(withEmpty), 1e-9)
	})

	t.Run("open break is not subtracted", func(t *testing.T) {
		end := ts(16, 0)
		session := completedSession(ts(8, 0), end, []models.Break{
			{Start: ts(12, 0)},
		})

		assert.InDelta(t, 8.0, WorkHours(session), 1e-9)
	})

	t.Run("never negative", func(t *testing.T) {
		end := ts(9, 0)
		session := completedSession(ts(8, 0), end, []models.Break{
			{Start: ts(8, 0), End: timePtr(ts(11, 0))},
		})

		assert.Equal(t, 0.0, WorkHours(session))
	})

	t.Run("zero without end time", func(t *testing.T) {
		session := models.WorkSession{StartTime: ts(8, 0), Status: models.StatusWorking}

		assert.Equal(t, 0.0, WorkHours(session))
	})
}

func TestMonthlyHours(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	end1 := ts(16, 0)
	inMonth := completedSession(ts(8, 0), end1, nil)

	lastMonthEnd := time.Date(2026, 7, 3, 16, 0, 0, 0, time.UTC)
	lastMonth := completedSession(time.Date(2026, 7, 3, 8, 0, 0, 0, time.UTC), lastMonthEnd, nil)

	active := models.WorkSession{
		EmployeeID: "e1",
		StartTime:  ts(8, 0),
		Status:     models.StatusWorking,
	}

	otherEmployee := completedSession(ts(8, 0), end1, nil)
	otherEmployee.EmployeeID = "e2"

	sessions := []models.WorkSession{inMonth, lastMonth, active, otherEmployee}

	assert.InDelta(t, 8.0, MonthlyHours("e1", sessions, now), 1e-9)
	assert.Equal(t, 0.0, MonthlyHours("e1", nil, now))
}

func TestHaversine(t *testing.T) {
	skopje := models.LocationSample{Latitude: 41.9981, Longitude: 21.4254}
	tetovo := models.LocationSample{Latitude: 42.0106, Longitude: 20.9715}

	t.Run("zero for identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, Haversine(skopje, skopje))
	})

	t.Run("symmetric", func(t *testing.T) {
		assert.InDelta(t, Haversine(skopje, tetovo), Haversine(tetovo, skopje), 1e-9)
	})

	t.Run("plausible distance", func(t *testing.T) {
		d := Haversine(skopje, tetovo)
		assert.Greater(t, d, 30.0)
		assert.Less(t, d, 45.0)
	})
}

func TestSessionDistance(t *testing.T) {
	a := models.LocationSample{Latitude: 41.9981, Longitude: 21.4254}
	b := models.LocationSample{Latitude: 42.0106, Longitude: 20.9715}
	failed := models.LocationSample{Err: "Location not available"}

	t.Run("skips error samples", func(t *testing.T) {
		clean := SessionDistance([]models.LocationSample{a, b})
		withErrors := SessionDistance([]models.LocationSample{a, failed, b, failed})

		assert.InDelta(t, clean, withErrors, 1e-9)
	})

	t.Run("zero for short histories", func(t *testing.T) {
		assert.Equal(t, 0.0, SessionDistance(nil))
		assert.Equal(t, 0.0, SessionDistance([]models.LocationSample{a}))
		assert.Equal(t, 0.0, SessionDistance([]models.LocationSample{failed, failed}))
	})
}

func TestStatistics(t *testing.T) {
	end := ts(16, 0)
	sessions := []models.WorkSession{
		completedSession(ts(8, 0), end, nil),
		{Status: models.StatusWorking, StartTime: ts(9, 0)},
		{Status: models.StatusBreak, StartTime: ts(9, 30)},
	}

	stats := Statistics(sessions)

	assert.Equal(t, 3, stats.TotalSessions)
	assert.Equal(t, 1, stats.CompletedSessions)
	assert.Equal(t, 2, stats.ActiveSessions)
	assert.InDelta(t, 8.0, stats.TotalHours, 1e-9)
}

func TestMonthlyReport(t *testing.T) {
	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	end1 := time.Date(2026, 8, 10, 16, 0, 0, 0, time.UTC)
	end2 := time.Date(2026, 8, 11, 12, 0, 0, 0, time.UTC)

	sessions := []models.WorkSession{
		{
			EmployeeID:   "e2",
			EmployeeName: "Zoran",
			StartTime:    time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC),
			EndTime:      &end1,
			Status:       models.StatusCompleted,
		},
		{
			EmployeeID:   "e1",
			EmployeeName: "Agim",
			StartTime:    time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC),
			EndTime:      &end1,
			Status:       models.StatusCompleted,
		},
		{
			EmployeeID:   "e1",
			EmployeeName: "Agim",
			StartTime:    time.Date(2026, 8, 11, 8, 0, 0, 0, time.UTC),
			EndTime:      &end2,
			Status:       models.StatusCompleted,
		},
	}

	rows := MonthlyReport(sessions, date)

	assert.Len(t, rows, 2)

	// sorted by employee name
	assert.Equal(t, "Agim", rows[0].EmployeeName)
	assert.Equal(t, "Zoran", rows[1].EmployeeName)

	assert.InDelta(t, 12.0, rows[0].TotalHours, 1e-9)
	assert.Equal(t, 2, rows[0].DaysWorked)
	assert.InDelta(t, 6.0, rows[0].AvgHoursPerDay, 1e-9)

	assert.InDelta(t, 8.0, rows[1].TotalHours, 1e-9)
	assert.Equal(t, 1, rows[1].DaysWorked)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
