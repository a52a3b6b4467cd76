package worker

// dlq.go: Dead Letter Queue
// Jobs that exceed the maximum retry count are moved here for manual inspection.
// Uses a Redis list per source queue: dlq:{original_queue}

import (
	"context"
	"encoding/json"
	"time"

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

// SendToDLQ records a failed job. Without Redis the entries stay in memory
// until the process exits.
func (d *Dispatcher) SendToDLQ(ctx context.Context, queue string, job Job, reason string) {
	entry := DLQEntry{
		OriginalQueue: queue,
		JobType:       job.Type,
		Payload:       job.Payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
		Attempts:      job.Intentos,
	}

	dlqKey := DLQPrefix + queue
	if d.rdb == nil {
		d.mu.Lock()
		d.dlq[dlqKey] = append(d.dlq[dlqKey], entry)
		d.mu.Unlock()
	} else {
		data, err := json.Marshal(entry)
		if err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
			return
		}
		if err := d.rdb.LPush(ctx, dlqKey, data).Err(); err != nil {
			log.Error().Err(err).Str("dlq_key", dlqKey).Msg("dlq: failed to push to DLQ")
			return
		}
	}

	log.Warn().
		Str("queue", queue).
		Str("job_type", job.Type).
		Str("reason", reason).
		Int("attempts", job.Intentos).
		Msg("dlq: job moved to dead letter queue")
}

// DLQLength returns the number of entries in a DLQ for monitoring.
func (d *Dispatcher) DLQLength(ctx context.Context, queue string) (int64, error) {
	if d.rdb == nil {
		d.mu.Lock()
		defer d.mu.Unlock()
		return int64(len(d.dlq[DLQPrefix+queue])), nil
	}
	return d.rdb.LLen(ctx, DLQPrefix+queue).Result()
}
