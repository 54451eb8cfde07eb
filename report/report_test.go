package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance-tracker/models"
)

func pct(v float64) *float64 { return &v }

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "62.5%", FormatPercent(62.5))
	assert.Equal(t, "66.7%", FormatPercent(200.0/3))
	assert.Equal(t, "100.0%", FormatPercent(100))
	assert.Equal(t, "0.0%", FormatPercent(0))
}

func TestWriteSheet(t *testing.T) {
	sheet := models.Sheet{
		ClassName: "CS 101",
		Dates:     []string{"2024-03-01", "2024-03-04"},
		Rows: []models.SheetRow{
			{Student: models.Student{ID: "S001", Name: "Alice"}, Statuses: map[string]models.Status{"2024-03-01": models.Present, "2024-03-04": models.Late}},
			{Student: models.Student{ID: "S002", Name: "Bob"}, Statuses: map[string]models.Status{"2024-03-04": models.Absent}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSheet(&buf, sheet))
	out := buf.String()

	assert.Contains(t, out, "Class: CS 101")
	assert.Contains(t, out, "   03-01    03-04")
	lines := strings.Split(out, "\n")
	var bob string
	for _, l := range lines {
		if strings.HasPrefix(l, "Bob") {
			bob = l
		}
	}
	assert.Equal(t, "Bob                  S002            -        A", bob)
}

func TestWriteSheetEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSheet(&buf, models.Sheet{ClassName: "CS 101"}))
	assert.Equal(t, "No students enrolled.\n", buf.String())
}

func TestWriteStudentRecord(t *testing.T) {
	var buf bytes.Buffer
	rec := models.StudentRecord{
		Student: models.Student{ID: "S003", Name: "Carol"},
		Records: []models.AttendanceRecord{
			{Date: "2024-03-01", Status: models.Absent},
			{Date: "2024-03-04", Status: models.Present},
		},
		Percentage: pct(50),
	}
	require.NoError(t, WriteStudentRecord(&buf, rec))
	out := buf.String()
	assert.Contains(t, out, "Attendance Record - Carol (ID: S003)")
	assert.Contains(t, out, "2024-03-01  ->  Absent")
	assert.Contains(t, out, "Attendance: 50.0%")

	buf.Reset()
	require.NoError(t, WriteStudentRecord(&buf, models.StudentRecord{Student: models.Student{ID: "S9", Name: "New"}}))
	assert.Contains(t, buf.String(), "No records found.")
	assert.NotContains(t, buf.String(), "Attendance:")
}

func TestWriteDateRecord(t *testing.T) {
	var buf bytes.Buffer
	rec := models.DateRecord{
		ClassName: "CS 101",
		Date:      "2024-03-06",
		Entries: []models.DateEntry{
			{Student: models.Student{ID: "S001", Name: "Alice"}, Status: models.Late, Marked: true},
			{Student: models.Student{ID: "S002", Name: "Bob"}},
		},
	}
	require.NoError(t, WriteDateRecord(&buf, rec))
	out := buf.String()
	assert.Contains(t, out, "Attendance on 2024-03-06 - CS 101")
	assert.Contains(t, out, "(S001)  ->  Late")
	assert.Contains(t, out, "(S002)  ->  Not marked")
}

func TestWriteSummaryFlags(t *testing.T) {
	var buf bytes.Buffer
	sum := models.Summary{
		ClassName: "CS 101",
		Threshold: 75,
		Rows: []models.SummaryRow{
			{Student: models.Student{ID: "S001", Name: "Alice"}, Percentage: pct(75)},
			{Student: models.Student{ID: "S002", Name: "Bob"}, Percentage: pct(62.5), BelowThreshold: true},
			{Student: models.Student{ID: "S003", Name: "Carol"}},
		},
	}
	require.NoError(t, WriteSummary(&buf, sum))
	out := buf.String()

	assert.Contains(t, out, "Attendance Summary - CS 101")
	assert.Contains(t, out, "     75.0%\n")
	assert.Contains(t, out, "     62.5% !\n")
	assert.Contains(t, out, "       N/A\n")
	assert.Contains(t, out, "! = Below 75% attendance threshold")
}

func TestRenderSummaryPDF(t *testing.T) {
	sum := models.Summary{
		ClassName: "CS 101",
		Threshold: 75,
		Rows: []models.SummaryRow{
			{Student: models.Student{ID: "S001", Name: "Alice"}, Percentage: pct(100)},
			{Student: models.Student{ID: "S002", Name: "Bob"}},
		},
	}
	data, err := NewPDFExporter().RenderSummary(sum)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
