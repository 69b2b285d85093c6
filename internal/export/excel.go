// Package export renders a reconciled week view to an xlsx workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"roomgrid/internal/grid"
)

// WeekExporter writes week views as spreadsheets, one sheet per week.
type WeekExporter struct {
	file       *excelize.File
	sheetCount int
}

func NewWeekExporter() *WeekExporter {
	return &WeekExporter{file: excelize.NewFile()}
}

// AddWeek appends a sheet for the given view. The first column holds slot
// times, the remaining seven the day columns; a booking shows its title and
// time label in its opening slot and a filler mark in the covered rest.
func (e *WeekExporter) AddWeek(view grid.WeekView, roomName string) error {
	name := view.WeekStart
	if len(name) > 31 {
		name = name[:31]
	}

	if e.sheetCount == 0 {
		if err := e.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	} else {
		if _, err := e.file.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	e.sheetCount++

	header := make([]any, 0, len(view.Days)+1)
	header = append(header, fmt.Sprintf("%s (%s)", roomName, view.Range))
	for _, day := range view.Days {
		header = append(header, day.Label)
	}
	if err := e.writeRow(name, 1, header); err != nil {
		return err
	}
	if style, err := e.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		start, _ := excelize.CoordinatesToCellName(1, 1)
		end, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = e.file.SetCellStyle(name, start, end, style)
	}

	if len(view.Days) == 0 {
		return nil
	}
	for rowIdx := range view.Days[0].Cells {
		row := make([]any, 0, len(view.Days)+1)
		row = append(row, view.Days[0].Cells[rowIdx].Slot.Label())
		for _, day := range view.Days {
			cell := day.Cells[rowIdx]
			switch {
			case cell.FirstSlot:
				row = append(row, fmt.Sprintf("%s %s", cell.Title, cell.Label))
			case cell.Booked:
				row = append(row, "·")
			default:
				row = append(row, "")
			}
		}
		if err := e.writeRow(name, rowIdx+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (e *WeekExporter) writeRow(sheet string, rowNum int, values []any) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return err
		}
		if err := e.file.SetCellValue(sheet, cell, val); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the workbook to the writer.
func (e *WeekExporter) Save(w io.Writer) error {
	return e.file.Write(w)
}

// Close releases resources.
func (e *WeekExporter) Close() error {
	return e.file.Close()
}
