package reports

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/fenixcs/fieldtracker/internal/models"
)

// Table is the writeTable capability both export formats consume.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// ReportTable renders report rows into an exportable table.
func ReportTable(title string, rows []models.ReportRow) Table {
	t := Table{
		Title:   title,
		Headers: []string{"Employee", "Total Hours", "Days Worked", "Avg Hours/Day", "Distance (km)"},
	}

	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.EmployeeName,
			strconv.FormatFloat(r.TotalHours, 'f', 1, 64),
			strconv.Itoa(r.DaysWorked),
			strconv.FormatFloat(r.AvgHoursPerDay, 'f', 1, 64),
			strconv.FormatFloat(r.TotalDistanceKm, 'f', 1, 64),
		})
	}

	return t
}

// SessionTable renders raw sessions into an exportable table.
func SessionTable(title string, sessions []models.WorkSession) Table {
	t := Table{
		Title:   title,
		Headers: []string{"Employee", "Date", "Start", "End", "Status", "Vehicle", "Total Hours"},
	}

	for _, s := range sessions {
		end := ""
		if s.EndTime != nil {
			end = s.EndTime.Format("15:04")
		}
		t.Rows = append(t.Rows, []string{
			s.EmployeeName,
			s.StartTime.Format("2006-01-02"),
			s.StartTime.Format("15:04"),
			end,
			string(s.Status),
			s.VehicleName,
			strconv.FormatFloat(WorkHours(s), 'f', 1, 64),
		})
	}

	return t
}

// WriteXLSX renders the table as a spreadsheet.
func WriteXLSX(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"

	header := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for j, c := range row {
			cells[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write data row: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize spreadsheet: %w", err)
	}

	return buf.Bytes(), nil
}

// WritePDF renders the table as a landscape PDF grid.
func WritePDF(t Table) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, t.Title)
	pdf.Ln(12)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(t.Headers))

	pdf.SetFont("Arial", "B", 10)
	for _, h := range t.Headers {
		pdf.CellFormat(colWidth, 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, row := range t.Rows {
		for _, c := range row {
			pdf.CellFormat(colWidth, 8, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize pdf: %w", err)
	}

	return buf.Bytes(), nil
}
