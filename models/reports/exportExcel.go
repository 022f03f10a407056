package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type ExcelExporter interface {
	GetCellValues() []interface{}
}

var dailyAttendanceHeadings = []string{
	"Employee Code", "Employee Name", "Site", "Work Date",
	"Check In", "Check Out", "Status", "Work Minutes",
	"Late", "Early Leave", "Check In Location", "Check Out Location",
}

var violationHeadings = []string{
	"Id", "Employee Code", "Employee Name", "Site",
	"Type", "Severity", "Occurred At", "Status",
	"Reviewed By", "Description",
}

func writeExcel(w io.Writer, rows []ExcelExporter, headings []string) error {

	f := excelize.NewFile()
	sheetName := "Sheet1"
	_, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	for i, h := range headings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheetName, cell, h)
	}

	rowNo := 2
	for _, d := range rows {
		for i, value := range d.GetCellValues() {
			cell, err := excelize.CoordinatesToCellName(i+1, rowNo)
			if err != nil {
				return err
			}
			f.SetCellValue(sheetName, cell, value)
		}
		rowNo++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %v", err)
	}
	return nil
}

// WriteDailyAttendanceXlsx streams the daily attendance rows as an
// xlsx workbook. Callers set Content-Type and Content-Disposition.
func WriteDailyAttendanceXlsx(w io.Writer, rows []*DailyAttendanceRow) error {
	exporters := make([]ExcelExporter, 0, len(rows))
	for _, r := range rows {
		exporters = append(exporters, r)
	}
	return writeExcel(w, exporters, dailyAttendanceHeadings)
}

// WriteViolationsXlsx streams the violation rows as an xlsx workbook.
func WriteViolationsXlsx(w io.Writer, rows []*ViolationReportRow) error {
	exporters := make([]ExcelExporter, 0, len(rows))
	for _, r := range rows {
		exporters = append(exporters, r)
	}
	return writeExcel(w, exporters, violationHeadings)
}
