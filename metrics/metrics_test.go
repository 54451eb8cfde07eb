package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance-tracker/models"
	"attendance-tracker/tracker"
)

func TestStoreActivityIsCounted(t *testing.T) {
	m := New()
	store := tracker.New("CS 101", tracker.WithMetrics(m))

	require.NoError(t, store.AddStudent("S001", "Alice"))
	require.NoError(t, store.AddStudent("S002", "Bob"))
	require.NoError(t, store.MarkAttendance("S001", "P", time.Time{}))
	require.NoError(t, store.MarkAttendance("S002", "P", time.Time{}))
	require.Error(t, store.MarkAttendance("S003", "P", time.Time{}))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.marksTotal.WithLabelValues(string(models.Present))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejectedTotal.WithLabelValues("mark_attendance")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.enrolled))
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New()
	m.ObserveHTTPRequest(http.MethodGet, "/api/ping", http.StatusOK, 5*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/api/ping",status="200"} 1`)
}

func TestNilServiceIsSafe(t *testing.T) {
	var m *Service
	m.ObserveMark(models.Late)
	m.SetEnrolled(3)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
