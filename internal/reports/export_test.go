package reports

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fenixcs/fieldtracker/internal/models"
)

func sampleTable() Table {
	return ReportTable("Work Report 2026-08", []models.ReportRow{
		{EmployeeName: "Agim", TotalHours: 160.5, DaysWorked: 21, AvgHoursPerDay: 7.6, TotalDistanceKm: 312.4},
		{EmployeeName: "Zoran", TotalHours: 152.0, DaysWorked: 20, AvgHoursPerDay: 7.6, TotalDistanceKm: 280.1},
	})
}

func TestReportTable(t *testing.T) {
	table := sampleTable()

	assert.Len(t, table.Headers, 5)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, "Agim", table.Rows[0][0])
	assert.Equal(t, "160.5", table.Rows[0][1])
	assert.Equal(t, "21", table.Rows[0][2])
}

func TestSessionTable(t *testing.T) {
	end := ts(16, 0)
	sessions := []models.WorkSession{
		completedSession(ts(8, 0), end, nil),
		{EmployeeName: "Agim", StartTime: ts(9, 0), Status: models.StatusWorking},
	}

	table := SessionTable("Sessions", sessions)

	assert.Len(t, table.Rows, 2)
	assert.Equal(t, "16:00", table.Rows[0][3])
	// sessions still running have no end column value
	assert.Equal(t, "", table.Rows[1][3])
}

func TestWriteXLSX(t *testing.T) {
	data, err := WriteXLSX(sampleTable())

	assert.NoError(t, err)
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestWritePDF(t *testing.T) {
	data, err := WritePDF(sampleTable())

	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
