package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"dojoreport/src-server/report"

	"github.com/emersion/go-ical"
	"github.com/xuri/excelize/v2"
)

// Format is a file format the report can leave the app in.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatICS  Format = "ics"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatXLSX, FormatICS:
		return Format(s), nil
	default:
		return "", fmt.Errorf("ParseFormat: unknown format %q", s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatICS:
		return "text/calendar"
	default:
		return "application/octet-stream"
	}
}

// ExportError wraps anything that went wrong while producing a file, so
// a failed export can be told apart from a failed fetch.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export: can't write %s: %s", e.Path, e.Err.Error())
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Filename is the canonical name for an exported range.
func Filename(format Format, start time.Time, end time.Time) string {
	return fmt.Sprintf("custom_report_%s_%s.%s", start.Format("2006-01-02"), end.Format("2006-01-02"), format)
}

// Write streams the table in the given format.
func Write(w io.Writer, format Format, t *report.Table) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, t)
	case FormatXLSX:
		return writeXLSX(w, t)
	case FormatICS:
		return writeICS(w, t)
	default:
		return fmt.Errorf("Write: unknown format %q", format)
	}
}

// File writes the table to path in one move: the bytes land in a
// temporary file in the same directory first and the final name only
// ever appears complete. Whatever sat at path before stays untouched
// unless the new file is fully written.
func File(path string, format Format, t *report.Table) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".dojoreport-*")
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, format, t); err != nil {
		tmp.Close()
		return &ExportError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	return nil
}

func writeCSV(w io.Writer, t *report.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("writeCSV: %w", err)
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range t.Columns {
			if i < len(row.Values) {
				record[i] = row.Values[i].String()
			} else {
				record[i] = report.AbsentMarker
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writeCSV: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("writeCSV: %w", err)
	}
	return nil
}

const xlsxSheet = "Report"

func writeXLSX(w io.Writer, t *report.Table) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("writeXLSX: %w", err)
	}
	for i, column := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("writeXLSX: %w", err)
		}
		if err := f.SetCellValue(xlsxSheet, cell, column); err != nil {
			return fmt.Errorf("writeXLSX: %w", err)
		}
	}
	for rowIdx, row := range t.Rows {
		for colIdx := range t.Columns {
			value := report.AbsentMarker
			if colIdx < len(row.Values) {
				value = row.Values[colIdx].String()
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("writeXLSX: %w", err)
			}
			if err := f.SetCellValue(xlsxSheet, cell, value); err != nil {
				return fmt.Errorf("writeXLSX: %w", err)
			}
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writeXLSX: %w", err)
	}
	return nil
}

// writeICS turns the distinct events behind the rows into a calendar,
// one VEVENT each. Events without a parsed start can't sit on a
// calendar and are skipped.
func writeICS(w io.Writer, t *report.Table) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//dojoreport//EN")

	seen := make(map[string]struct{})
	for _, row := range t.Rows {
		if row.EventID == "" || row.EventStart.IsZero() {
			continue
		}
		if _, ok := seen[row.EventID]; ok {
			continue
		}
		seen[row.EventID] = struct{}{}

		ve := ical.NewComponent(ical.CompEvent)
		ve.Props.SetText(ical.PropUID, row.EventID+"@dojoreport")
		ve.Props.SetText(ical.PropSummary, row.EventName)
		ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
		ve.Props.SetDateTime(ical.PropDateTimeStart, row.EventStart)
		if !row.EventEnd.IsZero() {
			ve.Props.SetDateTime(ical.PropDateTimeEnd, row.EventEnd)
		}
		if venue := t.Cell(row, "Venue"); venue.Present {
			ve.Props.SetText(ical.PropLocation, venue.Text)
		}
		if url := t.Cell(row, "Event URL"); url.Present {
			ve.Props.SetText(ical.PropURL, url.Text)
		}
		cal.Children = append(cal.Children, ve)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("writeICS: %w", err)
	}
	return nil
}
