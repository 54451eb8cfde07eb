// Package sheets imports class rosters from and exports attendance grids to Excel workbooks.
package sheets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"attendance-tracker/apperrors"
	"attendance-tracker/models"
	"attendance-tracker/report"
)

// SheetName is the worksheet written by ExportSheet.
const SheetName = "Attendance"

// Enroller is the part of the store the roster import needs.
type Enroller interface {
	AddStudent(id, name string) error
}

// ImportResult summarises a roster import.
type ImportResult struct {
	Imported   int      `json:"importedCount"`
	Skipped    int      `json:"skippedCount"`
	Duplicates []string `json:"duplicates"`
}

// ImportRoster reads students from the first sheet of an xlsx stream.
// Row 1 is a header; column A is the student ID, column B the name.
func ImportRoster(file io.Reader, store Enroller, logger *zap.Logger) (ImportResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	res := ImportResult{Duplicates: []string{}}

	f, err := excelize.OpenReader(file)
	if err != nil {
		return res, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("error closing excel file", zap.Error(err))
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return res, errors.New("excel file does not contain any sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return res, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	for i, row := range rows {
		if i == 0 {
			continue
		}

		var studentID, studentName string
		if len(row) > 0 {
			studentID = strings.TrimSpace(row[0])
		}
		if len(row) > 1 {
			studentName = strings.TrimSpace(row[1])
		}
		if studentID == "" || studentName == "" {
			logger.Debug("skipping incomplete roster row", zap.Int("row", i+1), zap.String("student_id", studentID))
			res.Skipped++
			continue
		}

		if err := store.AddStudent(studentID, studentName); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				res.Duplicates = append(res.Duplicates, studentID)
			}
			res.Skipped++
			continue
		}
		res.Imported++
	}

	logger.Info("roster imported",
		zap.String("sheet", sheetName),
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

// ExportSheet writes the attendance grid, one column per date plus the
// student's percentage, into a new workbook.
func ExportSheet(sheet models.Sheet, summary models.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := []interface{}{"Name", "ID"}
	for _, d := range sheet.Dates {
		header = append(header, d)
	}
	header = append(header, "Attendance")
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	percent := make(map[string]string, len(summary.Rows))
	for _, row := range summary.Rows {
		if row.Percentage != nil {
			percent[row.Student.ID] = report.FormatPercent(*row.Percentage)
		} else {
			percent[row.Student.ID] = "N/A"
		}
	}

	for i, row := range sheet.Rows {
		values := []interface{}{row.Student.Name, row.Student.ID}
		for _, d := range sheet.Dates {
			mark := "-"
			if st, ok := row.Statuses[d]; ok {
				mark = string(st)
			}
			values = append(values, mark)
		}
		values = append(values, percent[row.Student.ID])

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
