package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	historySheet = "History"
)

var historyHeaders = []string{"Date", "Item Name", "Pieces", "Rate", "Total", "Day Total", "Notes"}

// XLSX exports a worker's history as a spreadsheet.
type XLSX struct {
	settings Settings
}

// NewXLSX creates an XLSX exporter.
func NewXLSX(settings Settings) *XLSX {
	return &XLSX{settings: settings.normalized()}
}

// Worker writes a Summary sheet and a History sheet with one row per item.
func (x *XLSX) Worker(ctx context.Context, doc Document) ([]byte, error) {
	s := x.settings
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Company", doc.Company.CompanyName},
		{"Worker", doc.Worker.Name},
		{"Phone", doc.Worker.Phone},
		{"Email", doc.Worker.Email},
		{"Address", doc.Worker.Address},
		{"Period", s.period(doc.Range.Start, doc.Range.End)},
		{"Total Work Days", len(doc.Days)},
		{"Total Earnings", doc.TotalEarned()},
		{"Average Daily Earnings", doc.AverageDaily()},
		{"Currency", s.Currency},
		{"Generated On", s.date(doc.GeneratedAt)},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write summary row: %w", err)
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 24)
	_ = f.SetColWidth(summarySheet, "B", "B", 40)

	if _, err := f.NewSheet(historySheet); err != nil {
		return nil, fmt.Errorf("create history sheet: %w", err)
	}
	headers := make([]interface{}, len(historyHeaders))
	for i, header := range historyHeaders {
		headers[i] = header
	}
	if err := f.SetSheetRow(historySheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("write history header: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#EDEDED"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(historySheet, 1, 1, headerStyle); err != nil {
		return nil, fmt.Errorf("style history header: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	row := 2
	for _, day := range doc.Days {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("render xlsx report: %w", err)
		}
		notes := ""
		if doc.IncludeNotes {
			notes = day.Notes
		}
		if len(day.Items) == 0 {
			values := []interface{}{s.date(day.Date), "", 0, 0.0, 0.0, day.TotalEarned, notes}
			if err := x.writeRow(f, row, values); err != nil {
				return nil, err
			}
			row++
			continue
		}
		for _, item := range day.Items {
			values := []interface{}{s.date(day.Date), item.ItemName, item.PiecesCompleted, item.WageRate, item.TotalWage, day.TotalEarned, notes}
			if err := x.writeRow(f, row, values); err != nil {
				return nil, err
			}
			row++
		}
	}
	if row > 2 {
		first, _ := excelize.CoordinatesToCellName(4, 2)
		last, _ := excelize.CoordinatesToCellName(6, row-1)
		if err := f.SetCellStyle(historySheet, first, last, moneyStyle); err != nil {
			return nil, fmt.Errorf("style amounts: %w", err)
		}
	}
	for i := range historyHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(historySheet, col, col, 15)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func (x *XLSX) writeRow(f *excelize.File, row int, values []interface{}) error {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(historySheet, cell, &values); err != nil {
		return fmt.Errorf("write history row %d: %w", row, err)
	}
	return nil
}
