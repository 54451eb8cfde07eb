package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"attendance-tracker/config"
	"attendance-tracker/models"
)

const (
	classPrefix     = "class:"    // class:{name}:...
	journalSuffix   = ":journal"  // List: JSON encoded events, newest first
	studentsSuffix  = ":students" // Set: ids of currently enrolled students
	defaultReadSize = 100
)

// RedisJournal appends store events to Redis. It is write-only from the
// store's point of view: nothing is ever loaded back into memory.
type RedisJournal struct {
	Client *redis.Client
	Ctx    context.Context // Base context
	logger *zap.Logger
}

// NewRedisJournal creates a journal on top of an existing client
func NewRedisJournal(client *redis.Client, logger *zap.Logger) *RedisJournal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisJournal{
		Client: client,
		Ctx:    context.Background(),
		logger: logger,
	}
}

func getJournalKey(className string) string {
	return classPrefix + className + journalSuffix
}

func getStudentsKey(className string) string {
	return classPrefix + className + studentsSuffix
}

// Append records one event and keeps the enrolled-student set in step.
func (j *RedisJournal) Append(ev models.JournalEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode journal event: %w", err)
	}

	pipe := j.Client.TxPipeline()
	pipe.LPush(j.Ctx, getJournalKey(ev.ClassName), payload)
	switch ev.Type {
	case models.EventStudentAdded:
		pipe.SAdd(j.Ctx, getStudentsKey(ev.ClassName), ev.StudentID)
	case models.EventStudentRemoved:
		pipe.SRem(j.Ctx, getStudentsKey(ev.ClassName), ev.StudentID)
	}

	if _, err := pipe.Exec(j.Ctx); err != nil {
		return fmt.Errorf("failed to append journal event to Redis: %w", err)
	}
	j.logger.Debug("journal event appended",
		zap.String("event_id", ev.ID),
		zap.String("event", string(ev.Type)),
		zap.String("student_id", ev.StudentID),
	)
	return nil
}

// Recent returns up to limit events for a class, newest first.
func (j *RedisJournal) Recent(className string, limit int64) ([]models.JournalEvent, error) {
	if limit <= 0 {
		limit = defaultReadSize
	}
	raw, err := j.Client.LRange(j.Ctx, getJournalKey(className), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read journal from Redis: %w", err)
	}

	events := make([]models.JournalEvent, 0, len(raw))
	for _, item := range raw {
		var ev models.JournalEvent
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			j.logger.Warn("skipping undecodable journal entry", zap.Error(err))
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// Enrolled returns the ids the journal currently considers enrolled.
func (j *RedisJournal) Enrolled(className string) ([]string, error) {
	ids, err := j.Client.SMembers(j.Ctx, getStudentsKey(className)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read enrolled set from Redis: %w", err)
	}
	return ids, nil
}

// InitializeRedisClient creates and tests a Redis client connection
func InitializeRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis: %w", err)
	}
	return rdb, nil
}
