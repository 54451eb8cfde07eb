package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"attendance-tracker/apperrors"
	"attendance-tracker/models"
	"attendance-tracker/report"
	"attendance-tracker/sheets"
	"attendance-tracker/tracker"
)

// APIHandler holds the dependencies for API handlers
type APIHandler struct {
	Store     *tracker.Store
	validator *validator.Validate
	pdf       *report.PDFExporter
	logger    *zap.Logger
}

// NewAPIHandler creates a new APIHandler serving one store
func NewAPIHandler(store *tracker.Store, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := validator.New()
	v.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.NormalizeStatus(fl.Field().String()).Valid()
	})
	return &APIHandler{
		Store:     store,
		validator: v,
		pdf:       report.NewPDFExporter(),
		logger:    logger,
	}
}

// Register mounts every route on the group.
func (h *APIHandler) Register(api *gin.RouterGroup) {
	api.GET("/students", h.ListStudents)
	api.POST("/students", h.AddStudent)
	api.GET("/students/:studentId", h.GetStudentRecord)
	api.DELETE("/students/:studentId", h.RemoveStudent)
	api.GET("/students/:studentId/percentage", h.GetPercentage)

	api.POST("/attendance", h.MarkAttendance)
	api.POST("/attendance/bulk", h.MarkBulk)
	api.GET("/attendance/:date", h.GetDateRecord)

	api.GET("/reports/sheet", h.SheetReport)
	api.GET("/reports/students/:studentId", h.StudentReport)
	api.GET("/reports/dates/:date", h.DateReport)
	api.GET("/reports/summary", h.SummaryReport)

	api.GET("/export/sheet.xlsx", h.ExportSheet)
	api.GET("/export/summary.pdf", h.ExportSummary)
	api.POST("/import/students", h.ImportStudents)

	api.GET("/ping", PingHandler)
}

// AddStudentRequest is the body of POST /students.
type AddStudentRequest struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// MarkAttendanceRequest is the body of POST /attendance.
type MarkAttendanceRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	Status    string `json:"status" validate:"required,attendance_status"`
	Date      string `json:"date"`
}

// MarkBulkRequest is the body of POST /attendance/bulk. Entries are not
// validated up front so that bad entries fail individually.
type MarkBulkRequest struct {
	Date    string            `json:"date"`
	Entries map[string]string `json:"entries" validate:"required,min=1"`
}

// StudentSummary is one item of GET /students.
type StudentSummary struct {
	models.Student
	Percentage *float64 `json:"percentage"`
}

// --- Student Handlers ---

// ListStudents handles GET /api/students
func (h *APIHandler) ListStudents(c *gin.Context) {
	summary := h.Store.Summary()
	out := make([]StudentSummary, 0, len(summary.Rows))
	for _, row := range summary.Rows {
		out = append(out, StudentSummary{Student: row.Student, Percentage: row.Percentage})
	}
	respond(c, http.StatusOK, out)
}

// AddStudent handles POST /api/students
func (h *APIHandler) AddStudent(c *gin.Context) {
	var req AddStudentRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.Store.AddStudent(req.ID, req.Name); err != nil {
		respondError(c, err)
		return
	}
	st, _ := h.Store.Student(strings.TrimSpace(req.ID))
	respond(c, http.StatusCreated, st)
}

// RemoveStudent handles DELETE /api/students/:studentId
func (h *APIHandler) RemoveStudent(c *gin.Context) {
	if err := h.Store.RemoveStudent(c.Param("studentId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetStudentRecord handles GET /api/students/:studentId
func (h *APIHandler) GetStudentRecord(c *gin.Context) {
	rec, err := h.Store.StudentRecord(c.Param("studentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, rec)
}

// GetPercentage handles GET /api/students/:studentId/percentage
func (h *APIHandler) GetPercentage(c *gin.Context) {
	id := c.Param("studentId")
	if _, ok := h.Store.Student(id); !ok {
		respondError(c, apperrors.ErrStudentNotFound)
		return
	}
	var pct *float64
	if v, ok := h.Store.AttendancePercentage(id); ok {
		pct = &v
	}
	respond(c, http.StatusOK, gin.H{"studentId": id, "percentage": pct})
}

// --- Attendance Handlers ---

// MarkAttendance handles POST /api/attendance
func (h *APIHandler) MarkAttendance(c *gin.Context) {
	var req MarkAttendanceRequest
	if !h.bind(c, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Store.MarkAttendance(req.StudentID, req.Status, date); err != nil {
		respondError(c, err)
		return
	}
	key := h.Store.Today()
	if !date.IsZero() {
		key = models.DateKey(date)
	}
	respond(c, http.StatusOK, models.AttendanceRecord{Date: key, Status: models.NormalizeStatus(req.Status)})
}

// MarkBulk handles POST /api/attendance/bulk
func (h *APIHandler) MarkBulk(c *gin.Context) {
	var req MarkBulkRequest
	if !h.bind(c, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, h.Store.MarkBulk(req.Entries, date))
}

// GetDateRecord handles GET /api/attendance/:date
func (h *APIHandler) GetDateRecord(c *gin.Context) {
	date, err := parseDate(c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, h.Store.DateRecord(date))
}

// --- Report Handlers ---

// SheetReport handles GET /api/reports/sheet
func (h *APIHandler) SheetReport(c *gin.Context) {
	var b strings.Builder
	if err := report.WriteSheet(&b, h.Store.Sheet()); err != nil {
		respondError(c, err)
		return
	}
	respondText(c, b.String())
}

// StudentReport handles GET /api/reports/students/:studentId
func (h *APIHandler) StudentReport(c *gin.Context) {
	rec, err := h.Store.StudentRecord(c.Param("studentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	var b strings.Builder
	if err := report.WriteStudentRecord(&b, rec); err != nil {
		respondError(c, err)
		return
	}
	respondText(c, b.String())
}

// DateReport handles GET /api/reports/dates/:date
func (h *APIHandler) DateReport(c *gin.Context) {
	date, err := parseDate(c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	var b strings.Builder
	if err := report.WriteDateRecord(&b, h.Store.DateRecord(date)); err != nil {
		respondError(c, err)
		return
	}
	respondText(c, b.String())
}

// SummaryReport handles GET /api/reports/summary
func (h *APIHandler) SummaryReport(c *gin.Context) {
	var b strings.Builder
	if err := report.WriteSummary(&b, h.Store.Summary()); err != nil {
		respondError(c, err)
		return
	}
	respondText(c, b.String())
}

// --- Export / Import Handlers ---

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportSheet handles GET /api/export/sheet.xlsx
func (h *APIHandler) ExportSheet(c *gin.Context) {
	data, err := sheets.ExportSheet(h.Store.Sheet(), h.Store.Summary())
	if err != nil {
		h.logger.Error("sheet export failed", zap.Error(err))
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="attendance.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ExportSummary handles GET /api/export/summary.pdf
func (h *APIHandler) ExportSummary(c *gin.Context) {
	data, err := h.pdf.RenderSummary(h.Store.Summary())
	if err != nil {
		h.logger.Error("summary export failed", zap.Error(err))
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="summary.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// ImportStudents handles POST /api/import/students
func (h *APIHandler) ImportStudents(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, apperrors.Clone(apperrors.ErrValidation, "error retrieving uploaded file: "+err.Error()))
		return
	}
	defer file.Close()

	h.logger.Info("roster upload received", zap.String("filename", header.Filename))

	res, err := sheets.ImportRoster(file, h.Store, h.logger)
	if err != nil {
		respondError(c, apperrors.Wrap(err, apperrors.ErrValidation.Code, http.StatusBadRequest, "failed to import students"))
		return
	}
	respond(c, http.StatusOK, res)
}

// --- Ping Handler ---
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}

func (h *APIHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, apperrors.Clone(apperrors.ErrValidation, "invalid request body: "+err.Error()))
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		respondError(c, apperrors.Wrap(err, apperrors.ErrValidation.Code, apperrors.ErrValidation.Status, apperrors.ErrValidation.Message))
		return false
	}
	return true
}

// parseDate accepts YYYY-MM-DD; an empty string yields the zero time, meaning today.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}, apperrors.Wrap(err, apperrors.ErrInvalidDate.Code, apperrors.ErrInvalidDate.Status, apperrors.ErrInvalidDate.Message)
	}
	return t, nil
}
