package worker

// dlq.go — Dead Letter Queue
// Jobs that exceed the maximum retry count are moved here for manual inspection.
// Uses a Redis list per source queue: dlq:{original_queue}

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry wraps a failed job with metadata for debugging.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      string          `json:"failed_at"` // ISO 8601
	Attempts      int             `json:"attempts"`
}

// SendToDLQ pushes a failed job to the dead letter queue for manual inspection.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, jobType string, payload json.RawMessage, reason string, attempts int) {
	entry := DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		Payload:       payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
		Attempts:      attempts,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}

	dlqKey := DLQPrefix + queue
	if err := rdb.LPush(ctx, dlqKey, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", dlqKey).Msg("dlq: failed to push to DLQ")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job moved to dead letter queue")
}

// DLQLength returns the number of entries in a DLQ for monitoring.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// ErrDLQEmpty is returned by RequeueFromDLQ when the DLQ has no entries.
var ErrDLQEmpty = errors.New("dlq is empty")

// RequeueFromDLQ pops the oldest DLQ entry and pushes its payload back to the
// original queue, so a worker picks it up again. Intended for manual recovery
// after fixing the underlying failure (e.g. Notificador back online).
func RequeueFromDLQ(ctx context.Context, rdb *redis.Client, queue string) (*DLQEntry, error) {
	dlqKey := DLQPrefix + queue

	data, err := rdb.RPop(ctx, dlqKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDLQEmpty
		}
		return nil, err
	}

	var entry DLQEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}

	job := Job{Type: entry.JobType, Payload: entry.Payload}
	jobData, err := json.Marshal(job)
	if err != nil {
		return nil, err
	}

	if err := rdb.LPush(ctx, entry.OriginalQueue, jobData).Err(); err != nil {
		return nil, err
	}

	log.Info().
		Str("queue", entry.OriginalQueue).
		Str("job_type", entry.JobType).
		Int("previous_attempts", entry.Attempts).
		Msg("dlq: entry requeued for reprocessing")

	return &entry, nil
}
