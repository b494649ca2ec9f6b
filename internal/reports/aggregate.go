// Package reports holds the pure aggregation functions the admin
// dashboard folds work sessions through, plus the spreadsheet/PDF writers.
package reports

import (
	"math"
	"sort"
	"time"

	"github.com/fenixcs/fieldtracker/internal/models"
)

const earthRadiusKm = 6371

// WorkHours returns the worked hours of a session: wall time minus the
// sum of closed break intervals, floored at zero. Sessions without an
// end time contribute zero.
func WorkHours(session models.WorkSession) float64 {
	if session.EndTime == nil {
		return 0
	}

	total := session.EndTime.Sub(session.StartTime)

	var breaks time.Duration
	for _, b := range session.Breaks {
		if b.End == nil {
			continue
		}
		breaks += b.End.Sub(b.Start)
	}

	hours := (total - breaks).Hours()
	if hours < 0 {
		return 0
	}

	return hours
}

// MonthlyHours sums WorkHours over the employee's completed sessions
// whose start time falls in now's calendar month and year.
func MonthlyHours(employeeID string, sessions []models.WorkSession, now time.Time) float64 {
	var total float64
	for _, s := range sessions {
		if s.EmployeeID != employeeID || s.Status != models.StatusCompleted {
			continue
		}
		if s.StartTime.Month() != now.Month() || s.StartTime.Year() != now.Year() {
			continue
		}
		total += WorkHours(s)
	}

	return total
}

// Haversine returns the great-circle distance between two samples in
// kilometers.
func Haversine(a, b models.LocationSample) float64 {
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Latitude*math.Pi/180)*math.Cos(b.Latitude*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// SessionDistance sums the pairwise Haversine distance over a location
// history, skipping error-shaped samples.
func SessionDistance(history []models.LocationSample) float64 {
	var total float64
	var prev *models.LocationSample

	for i := range history {
		sample := history[i]
		if !sample.Valid() {
			continue
		}
		if prev != nil {
			total += Haversine(*prev, sample)
		}
		prev = &history[i]
	}

	return total
}

// Statistics folds a collection of sessions into the overview counters.
func Statistics(sessions []models.WorkSession) models.WorkStats {
	var stats models.WorkStats
	stats.TotalSessions = len(sessions)

	for _, s := range sessions {
		switch {
		case s.Status == models.StatusCompleted:
			stats.CompletedSessions++
			stats.TotalHours += WorkHours(s)
		case s.Status.Active():
			stats.ActiveSessions++
		}
	}

	return stats
}

// MonthlyReport builds per-employee report rows for the calendar month
// containing the given date: total hours, distinct days worked, average
// hours per day and total distance covered.
func MonthlyReport(sessions []models.WorkSession, date time.Time) []models.ReportRow {
	type acc struct {
		name     string
		hours    float64
		distance float64
		days     map[string]struct{}
	}

	byEmployee := make(map[string]*acc)

	for _, s := range sessions {
		if s.Status != models.StatusCompleted {
			continue
		}
		if s.StartTime.Month() != date.Month() || s.StartTime.Year() != date.Year() {
			continue
		}

		a, ok := byEmployee[s.EmployeeID]
		if !ok {
			a = &acc{name: s.EmployeeName, days: make(map[string]struct{})}
			byEmployee[s.EmployeeID] = a
		}

		a.hours += WorkHours(s)
		a.distance += SessionDistance(s.LocationHistory)
		a.days[s.StartTime.Format("2006-01-02")] = struct{}{}
	}

	rows := make([]models.ReportRow, 0, len(byEmployee))
	for id, a := range byEmployee {
		row := models.ReportRow{
			EmployeeID:      id,
			EmployeeName:    a.name,
			TotalHours:      a.hours,
			DaysWorked:      len(a.days),
			TotalDistanceKm: a.distance,
		}
		if row.DaysWorked > 0 {
			row.AvgHoursPerDay = row.TotalHours / float64(row.DaysWorked)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].EmployeeName < rows[j].EmployeeName
	})

	return rows
}
