package exporter

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/dataset"
)

const sheetName = "Students"

// WriteExcel streams a snapshot as an xlsx workbook with a single sheet.
// NaN values are left as blank cells.
func WriteExcel(w io.Writer, snap *dataset.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	header := make([]interface{}, len(datasetHeaders))
	for i, h := range datasetHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, rec := range snap.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to locate row %d: %w", i+2, err)
		}
		row := excelRow(rec)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// excelRow flattens a record into sheet cells with native types.
func excelRow(rec dataset.Record) []interface{} {
	return []interface{}{
		rec.StudentID,
		rec.Name,
		rec.Age,
		rec.GradeLevel,
		rec.EnrollmentDate.Format(time.RFC3339),
		rec.GPA,
		rec.AttendanceRate,
		strings.Join(rec.Subjects, ";"),
		strings.Join(rec.Grades, ";"),
		rec.DaysEnrolled,
		rec.NumSubjects,
		excelFloat(rec.AverageGradePoints),
		rec.AcademicStatus.String(),
		rec.AttendanceCategory.String(),
		rec.AgeGroup.String(),
		excelFloat(rec.PerformanceScore),
	}
}

// excelFloat maps NaN to a blank cell.
func excelFloat(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
