package models

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for record keys.
const DateLayout = "2006-01-02"

// DefaultThreshold is the attendance percentage below which a student is flagged.
const DefaultThreshold = 75.0

// Status is a single day's attendance mark.
type Status string

const (
	Present Status = "P"
	Absent  Status = "A"
	Late    Status = "L"
)

// Weights maps each status to its contribution to the attendance percentage.
var Weights = map[Status]float64{
	Present: 1.0,
	Late:    0.5,
	Absent:  0.0,
}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	_, ok := Weights[s]
	return ok
}

// Label returns the human readable name of the status.
func (s Status) Label() string {
	switch s {
	case Present:
		return "Present"
	case Absent:
		return "Absent"
	case Late:
		return "Late"
	}
	return string(s)
}

// NormalizeStatus trims and upper-cases raw input. The result may still be invalid.
func NormalizeStatus(raw string) Status {
	return Status(strings.ToUpper(strings.TrimSpace(raw)))
}

// DateKey converts a time into the record key for its calendar date.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// Student represents an enrolled student
type Student struct {
	ID   string `json:"id"`   // Unique student ID (e.g., student number)
	Name string `json:"name"` // Student name
}

// AttendanceRecord is one dated status mark.
type AttendanceRecord struct {
	Date   string `json:"date"`
	Status Status `json:"status"`
}

// StudentRecord is the full history of one student, dates ascending.
type StudentRecord struct {
	Student    Student            `json:"student"`
	Records    []AttendanceRecord `json:"records"`
	Percentage *float64           `json:"percentage"`
}

// SheetRow is one student's line of the attendance sheet.
type SheetRow struct {
	Student  Student           `json:"student"`
	Statuses map[string]Status `json:"statuses"`
}

// Sheet is the full class grid: every student against every recorded date.
type Sheet struct {
	ClassName string     `json:"className"`
	Dates     []string   `json:"dates"`
	Rows      []SheetRow `json:"rows"`
}

// DateEntry is one student's status on a given date. Status is empty when not marked.
type DateEntry struct {
	Student Student `json:"student"`
	Status  Status  `json:"status,omitempty"`
	Marked  bool    `json:"marked"`
}

// DateRecord lists every student's status on one date.
type DateRecord struct {
	ClassName string      `json:"className"`
	Date      string      `json:"date"`
	Entries   []DateEntry `json:"entries"`
}

// SummaryRow carries one student's percentage and threshold flag.
type SummaryRow struct {
	Student        Student  `json:"student"`
	Percentage     *float64 `json:"percentage"`
	BelowThreshold bool     `json:"belowThreshold"`
}

// Summary is the class-wide percentage report.
type Summary struct {
	ClassName string       `json:"className"`
	Threshold float64      `json:"threshold"`
	Rows      []SummaryRow `json:"rows"`
}

// EventType names a store mutation recorded in the journal.
type EventType string

const (
	EventStudentAdded     EventType = "student.added"
	EventStudentRemoved   EventType = "student.removed"
	EventAttendanceMarked EventType = "attendance.marked"
)

// JournalEvent describes one successful store mutation.
type JournalEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	ClassName string    `json:"className"`
	StudentID string    `json:"studentId"`
	Name      string    `json:"name,omitempty"`
	Date      string    `json:"date,omitempty"`
	Status    Status    `json:"status,omitempty"`
	At        time.Time `json:"at"`
}
