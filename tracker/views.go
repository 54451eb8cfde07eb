package tracker

import (
	"sort"
	"time"

	"attendance-tracker/apperrors"
	"attendance-tracker/models"
)

// StudentRecord returns one student's marks sorted by date, with their percentage.
func (s *Store) StudentRecord(id string) (models.StudentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.students[id]
	if !ok {
		return models.StudentRecord{}, apperrors.ErrStudentNotFound
	}

	dates := append([]string(nil), entry.dates...)
	sort.Strings(dates)
	records := make([]models.AttendanceRecord, 0, len(dates))
	for _, d := range dates {
		records = append(records, models.AttendanceRecord{Date: d, Status: entry.records[d]})
	}

	rec := models.StudentRecord{Student: entry.student, Records: records}
	if pct, ok := percentage(entry); ok {
		rec.Percentage = &pct
	}
	return rec, nil
}

// Sheet returns the whole class against the sorted union of recorded dates.
func (s *Store) Sheet() models.Sheet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, entry := range s.students {
		for d := range entry.records {
			seen[d] = struct{}{}
		}
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	rows := make([]models.SheetRow, 0, len(s.order))
	for _, id := range s.order {
		entry := s.students[id]
		statuses := make(map[string]models.Status, len(entry.records))
		for d, st := range entry.records {
			statuses[d] = st
		}
		rows = append(rows, models.SheetRow{Student: entry.student, Statuses: statuses})
	}
	return models.Sheet{ClassName: s.className, Dates: dates, Rows: rows}
}

// DateRecord lists every enrolled student's status on date.
func (s *Store) DateRecord(date time.Time) models.DateRecord {
	if date.IsZero() {
		date = s.now()
	}
	key := models.DateKey(date)

	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]models.DateEntry, 0, len(s.order))
	for _, id := range s.order {
		entry := s.students[id]
		st, marked := entry.records[key]
		entries = append(entries, models.DateEntry{Student: entry.student, Status: st, Marked: marked})
	}
	return models.DateRecord{ClassName: s.className, Date: key, Entries: entries}
}

// Summary computes every student's percentage and flags those strictly below
// the threshold. Students without records are never flagged.
func (s *Store) Summary() models.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]models.SummaryRow, 0, len(s.order))
	for _, id := range s.order {
		entry := s.students[id]
		row := models.SummaryRow{Student: entry.student}
		if pct, ok := percentage(entry); ok {
			row.Percentage = &pct
			row.BelowThreshold = pct < s.threshold
		}
		rows = append(rows, row)
	}
	return models.Summary{ClassName: s.className, Threshold: s.threshold, Rows: rows}
}
