package tracker

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"attendance-tracker/apperrors"
	"attendance-tracker/models"
)

// Journal receives every successful mutation. Append errors never fail the mutation.
type Journal interface {
	Append(ev models.JournalEvent) error
}

// Recorder observes store activity for metrics.
type Recorder interface {
	ObserveMark(status models.Status)
	ObserveRejected(op string)
	SetEnrolled(n int)
}

type studentEntry struct {
	student models.Student
	records map[string]models.Status
	dates   []string // insertion order of records
}

// Store holds one class's roster and attendance records in memory.
type Store struct {
	mu        sync.RWMutex
	className string
	students  map[string]*studentEntry
	order     []string

	threshold float64
	now       func() time.Time
	logger    *zap.Logger
	journal   Journal
	recorder  Recorder
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for operation notices and warnings.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithJournal forwards successful mutations to j.
func WithJournal(j Journal) Option {
	return func(s *Store) { s.journal = j }
}

// WithMetrics reports activity to r.
func WithMetrics(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// WithThreshold sets the percentage below which summary rows are flagged.
func WithThreshold(pct float64) Option {
	return func(s *Store) {
		if pct > 0 {
			s.threshold = pct
		}
	}
}

// New creates an empty store for the named class.
func New(className string, opts ...Option) *Store {
	s := &Store{
		className: className,
		students:  make(map[string]*studentEntry),
		threshold: models.DefaultThreshold,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClassName returns the name the store was created with.
func (s *Store) ClassName() string {
	return s.className
}

// Threshold returns the flagging threshold in percent.
func (s *Store) Threshold() float64 {
	return s.threshold
}

// Today returns the store clock's current calendar date key.
func (s *Store) Today() string {
	return models.DateKey(s.now())
}

// --- Student Management ---

// AddStudent enrolls a student with an empty record set.
func (s *Store) AddStudent(id, name string) error {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" || name == "" {
		s.reject("add_student", id, apperrors.ErrValidation, zap.String("reason", "student ID and Name cannot be empty"))
		return apperrors.Clone(apperrors.ErrValidation, "student ID and Name cannot be empty")
	}

	s.mu.Lock()
	if _, exists := s.students[id]; exists {
		s.mu.Unlock()
		s.reject("add_student", id, apperrors.ErrConflict)
		return apperrors.ErrConflict
	}
	s.students[id] = &studentEntry{
		student: models.Student{ID: id, Name: name},
		records: make(map[string]models.Status),
	}
	s.order = append(s.order, id)
	enrolled := len(s.order)
	s.mu.Unlock()

	s.logger.Info("student added", zap.String("student_id", id), zap.String("name", name))
	if s.recorder != nil {
		s.recorder.SetEnrolled(enrolled)
	}
	s.record(models.JournalEvent{Type: models.EventStudentAdded, StudentID: id, Name: name})
	return nil
}

// RemoveStudent deletes a student together with every record they have.
func (s *Store) RemoveStudent(id string) error {
	s.mu.Lock()
	entry, ok := s.students[id]
	if !ok {
		s.mu.Unlock()
		s.reject("remove_student", id, apperrors.ErrStudentNotFound)
		return apperrors.ErrStudentNotFound
	}
	delete(s.students, id)
	for i, sid := range s.order {
		if sid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	enrolled := len(s.order)
	s.mu.Unlock()

	s.logger.Info("student removed", zap.String("student_id", id), zap.String("name", entry.student.Name))
	if s.recorder != nil {
		s.recorder.SetEnrolled(enrolled)
	}
	s.record(models.JournalEvent{Type: models.EventStudentRemoved, StudentID: id, Name: entry.student.Name})
	return nil
}

// Student returns the enrolled student with the given id.
func (s *Store) Student(id string) (models.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.students[id]
	if !ok {
		return models.Student{}, false
	}
	return entry.student, true
}

// Students lists the roster in enrollment order.
func (s *Store) Students() []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Student, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.students[id].student)
	}
	return out
}

// Len returns the number of enrolled students.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// --- Attendance Marking ---

// MarkAttendance sets the status of one student on one date, replacing any
// earlier mark for that date. A zero date means today.
func (s *Store) MarkAttendance(id, status string, date time.Time) error {
	st := models.NormalizeStatus(status)
	if !st.Valid() {
		s.reject("mark_attendance", id, apperrors.ErrInvalidStatus, zap.String("status", status))
		return apperrors.ErrInvalidStatus
	}
	if date.IsZero() {
		date = s.now()
	}
	key := models.DateKey(date)

	s.mu.Lock()
	entry, ok := s.students[id]
	if !ok {
		s.mu.Unlock()
		s.reject("mark_attendance", id, apperrors.ErrStudentNotFound)
		return apperrors.ErrStudentNotFound
	}
	if _, seen := entry.records[key]; !seen {
		entry.dates = append(entry.dates, key)
	}
	entry.records[key] = st
	name := entry.student.Name
	s.mu.Unlock()

	s.logger.Info("attendance marked",
		zap.String("student_id", id),
		zap.String("name", name),
		zap.String("status", st.Label()),
		zap.String("date", key),
	)
	if s.recorder != nil {
		s.recorder.ObserveMark(st)
	}
	s.record(models.JournalEvent{Type: models.EventAttendanceMarked, StudentID: id, Name: name, Date: key, Status: st})
	return nil
}

// BulkFailure describes one entry of a bulk mark that was skipped.
type BulkFailure struct {
	StudentID string           `json:"studentId"`
	Status    string           `json:"status"`
	Error     *apperrors.Error `json:"error"`
}

// BulkResult reports the outcome of MarkBulk.
type BulkResult struct {
	Date    string        `json:"date"`
	Applied []string      `json:"applied"`
	Failed  []BulkFailure `json:"failed"`
}

// MarkBulk marks every id→status pair on the same date. Entries are applied in
// id order and a failing entry never stops the others.
func (s *Store) MarkBulk(entries map[string]string, date time.Time) BulkResult {
	if date.IsZero() {
		date = s.now()
	}
	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	res := BulkResult{Date: models.DateKey(date), Applied: []string{}, Failed: []BulkFailure{}}
	for _, id := range ids {
		if err := s.MarkAttendance(id, entries[id], date); err != nil {
			res.Failed = append(res.Failed, BulkFailure{StudentID: id, Status: entries[id], Error: apperrors.FromError(err)})
			continue
		}
		res.Applied = append(res.Applied, id)
	}
	return res
}

// --- Statistics ---

// AttendancePercentage returns the weighted attendance of a student in percent.
// ok is false when the student is unknown or has no records.
func (s *Store) AttendancePercentage(id string) (pct float64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, found := s.students[id]
	if !found {
		return 0, false
	}
	return percentage(entry)
}

func percentage(entry *studentEntry) (float64, bool) {
	if len(entry.records) == 0 {
		return 0, false
	}
	var score float64
	for _, st := range entry.records {
		score += models.Weights[st]
	}
	return score / float64(len(entry.records)) * 100, true
}

func (s *Store) reject(op, id string, err *apperrors.Error, fields ...zap.Field) {
	fields = append([]zap.Field{zap.String("op", op), zap.String("student_id", id), zap.String("code", err.Code)}, fields...)
	s.logger.Warn(err.Message, fields...)
	if s.recorder != nil {
		s.recorder.ObserveRejected(op)
	}
}

func (s *Store) record(ev models.JournalEvent) {
	if s.journal == nil {
		return
	}
	ev.ClassName = s.className
	ev.At = s.now()
	if err := s.journal.Append(ev); err != nil {
		s.logger.Warn("journal append failed",
			zap.String("event", string(ev.Type)),
			zap.String("student_id", ev.StudentID),
			zap.Error(err),
		)
	}
}
