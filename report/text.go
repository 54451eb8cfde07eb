// Package report renders store views as console text and PDF documents.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"attendance-tracker/models"
)

const noStudents = "No students enrolled."

// FormatPercent renders a percentage with one decimal, rounding half away from zero.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", math.Round(pct*10)/10)
}

// WriteSheet prints the class grid: one row per student, one column per date.
func WriteSheet(w io.Writer, sheet models.Sheet) error {
	if len(sheet.Rows) == 0 {
		_, err := fmt.Fprintln(w, noStudents)
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\nClass: %s\n", sheet.ClassName)
	b.WriteString(strings.Repeat("=", 30+8*len(sheet.Dates)) + "\n")

	header := fmt.Sprintf("%-20s %-8s", "Name", "ID")
	for _, d := range sheet.Dates {
		header += fmt.Sprintf(" %8s", shortDate(d))
	}
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("-", len(header)) + "\n")

	for _, row := range sheet.Rows {
		fmt.Fprintf(&b, "%-20s %-8s", row.Student.Name, row.Student.ID)
		for _, d := range sheet.Dates {
			mark := "-"
			if st, ok := row.Statuses[d]; ok {
				mark = string(st)
			}
			fmt.Fprintf(&b, " %8s", mark)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteStudentRecord prints one student's history and percentage.
func WriteStudentRecord(w io.Writer, rec models.StudentRecord) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\nAttendance Record - %s (ID: %s)\n", rec.Student.Name, rec.Student.ID)
	b.WriteString(strings.Repeat("-", 40) + "\n")

	if len(rec.Records) == 0 {
		b.WriteString("  No records found.\n")
	}
	for _, r := range rec.Records {
		fmt.Fprintf(&b, "  %s  ->  %s\n", r.Date, r.Status.Label())
	}
	if rec.Percentage != nil {
		fmt.Fprintf(&b, "\n  Attendance: %s\n", FormatPercent(*rec.Percentage))
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteDateRecord prints every student's status on one date.
func WriteDateRecord(w io.Writer, rec models.DateRecord) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\nAttendance on %s - %s\n", rec.Date, rec.ClassName)
	b.WriteString(strings.Repeat("-", 40) + "\n")

	for _, e := range rec.Entries {
		label := "Not marked"
		if e.Marked {
			label = e.Status.Label()
		}
		fmt.Fprintf(&b, "  %-20s (%s)  ->  %s\n", e.Student.Name, e.Student.ID, label)
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSummary prints the percentage table, flagging students below threshold with "!".
func WriteSummary(w io.Writer, sum models.Summary) error {
	if len(sum.Rows) == 0 {
		_, err := fmt.Fprintln(w, noStudents)
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\nAttendance Summary - %s\n", sum.ClassName)
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "  %-20s %-10s %10s\n", "Name", "ID", "Attendance")
	b.WriteString(strings.Repeat("-", 50) + "\n")

	for _, row := range sum.Rows {
		pct := "N/A"
		if row.Percentage != nil {
			pct = FormatPercent(*row.Percentage)
		}
		flag := ""
		if row.BelowThreshold {
			flag = " !"
		}
		fmt.Fprintf(&b, "  %-20s %-10s %10s%s\n", row.Student.Name, row.Student.ID, pct, flag)
	}
	fmt.Fprintf(&b, "\n  ! = Below %s%% attendance threshold\n\n", strconv.FormatFloat(sum.Threshold, 'f', -1, 64))

	_, err := io.WriteString(w, b.String())
	return err
}

// shortDate drops the year from a YYYY-MM-DD key.
func shortDate(d string) string {
	if len(d) > 5 {
		return d[5:]
	}
	return d
}
