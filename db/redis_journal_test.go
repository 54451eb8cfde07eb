package db

import (
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance-tracker/config"
	"attendance-tracker/models"
	"attendance-tracker/tracker"
)

func newJournal(t *testing.T) (*RedisJournal, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisJournal(client, nil), mr
}

func TestAppendKeepsEnrolledSet(t *testing.T) {
	j, mr := newJournal(t)

	require.NoError(t, j.Append(models.JournalEvent{Type: models.EventStudentAdded, ClassName: "CS", StudentID: "S001"}))
	require.NoError(t, j.Append(models.JournalEvent{Type: models.EventStudentAdded, ClassName: "CS", StudentID: "S002"}))
	require.NoError(t, j.Append(models.JournalEvent{Type: models.EventStudentRemoved, ClassName: "CS", StudentID: "S001"}))

	ids, err := j.Enrolled("CS")
	require.NoError(t, err)
	assert.Equal(t, []string{"S002"}, ids)

	items, err := mr.List("class:CS:journal")
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestStoreWritesThroughJournal(t *testing.T) {
	j, _ := newJournal(t)
	now := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)
	store := tracker.New("CS 101", tracker.WithJournal(j), tracker.WithClock(func() time.Time { return now }))

	require.NoError(t, store.AddStudent("S001", "Alice"))
	require.NoError(t, store.MarkAttendance("S001", "l", time.Time{}))
	require.Error(t, store.MarkAttendance("S001", "x", time.Time{}))

	events, err := j.Recent("CS 101", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	latest := events[0]
	assert.Equal(t, models.EventAttendanceMarked, latest.Type)
	assert.Equal(t, models.Late, latest.Status)
	assert.Equal(t, "2024-03-06", latest.Date)
	assert.NotEmpty(t, latest.ID)
	assert.True(t, latest.At.Equal(now))
	assert.Equal(t, models.EventStudentAdded, events[1].Type)
}

func TestAppendFailsWhenRedisIsDown(t *testing.T) {
	j, mr := newJournal(t)
	mr.Close()

	err := j.Append(models.JournalEvent{Type: models.EventStudentAdded, ClassName: "CS", StudentID: "S001"})
	require.Error(t, err)
}

func TestInitializeRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := InitializeRedisClient(config.RedisConfig{Host: mr.Host(), Port: mustPort(t, mr)})
	require.NoError(t, err)
	_ = client.Close()
}

func mustPort(t *testing.T, mr *miniredis.Miniredis) int {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return port
}
