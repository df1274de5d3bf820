package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary = "Summary"
	sheetTrend   = "Trend"
	sheetBatches = "Batches"

	// ExcelContentType is the MIME type of generated workbooks
	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// BuildDashboardWorkbook writes the dashboard snapshot as an Excel workbook with
// one sheet each for the summary tiles, the trend series and the batch list
func BuildDashboardWorkbook(snap DashboardSnapshot) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	// Summary
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Metric", "Value"},
		{"Total Students", snap.Stats.TotalStudents},
		{"Present Today", snap.Stats.PresentToday},
		{"Active Batches", snap.Stats.ActiveBatches},
		{"Attendance Rate (%)", snap.Stats.AttendanceRate},
		{"Weekly Average (%)", AverageRate(snap.Trend.TrendData)},
		{"Generated At", snap.GeneratedAt.Format(time.RFC3339)},
	}
	if err := writeRows(f, sheetSummary, summary); err != nil {
		return nil, err
	}
	f.SetCellStyle(sheetSummary, "A1", "B1", headerStyle)
	f.SetColWidth(sheetSummary, "A", "A", 24)
	f.SetColWidth(sheetSummary, "B", "B", 28)

	// Trend
	if _, err := f.NewSheet(sheetTrend); err != nil {
		return nil, fmt.Errorf("failed to create trend sheet: %w", err)
	}
	trend := [][]interface{}{{"Date", "Attendance Rate (%)"}}
	for _, p := range snap.Trend.TrendData {
		trend = append(trend, []interface{}{p.Date, p.AttendanceRate})
	}
	if err := writeRows(f, sheetTrend, trend); err != nil {
		return nil, err
	}
	f.SetCellStyle(sheetTrend, "A1", "B1", headerStyle)
	f.SetColWidth(sheetTrend, "A", "B", 20)
	if n := len(snap.Trend.TrendData); n > 0 {
		err := f.AddChart(sheetTrend, "D2", &excelize.Chart{
			Type: excelize.Line,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("%s!$B$1", sheetTrend),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheetTrend, n+1),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheetTrend, n+1),
			}},
			Title: []excelize.RichTextRun{{Text: TrendTitle(n)}},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add trend chart: %w", err)
		}
	}

	// Batches
	if _, err := f.NewSheet(sheetBatches); err != nil {
		return nil, fmt.Errorf("failed to create batches sheet: %w", err)
	}
	batches := [][]interface{}{{"ID", "Name", "Status", "Students Enrolled"}}
	for _, b := range snap.Batches {
		batches = append(batches, []interface{}{b.ID, b.Name, b.StatusLabel(), b.StudentCount})
	}
	if err := writeRows(f, sheetBatches, batches); err != nil {
		return nil, err
	}
	f.SetCellStyle(sheetBatches, "A1", "D1", headerStyle)
	f.SetColWidth(sheetBatches, "A", "A", 38)
	f.SetColWidth(sheetBatches, "B", "D", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// ExportFileName returns a timestamped file name for a dashboard export
func ExportFileName(ext string, at time.Time) string {
	return fmt.Sprintf("dashboard_%s.%s", at.Format("20060102_150405"), ext)
}
