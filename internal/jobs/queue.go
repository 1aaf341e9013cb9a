package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Envelope wraps a job payload with its delivery bookkeeping. Jobs are
// at-least-once: a failed handler run decrements AttemptsLeft and the
// envelope goes back on the list until attempts are exhausted.
type Envelope struct {
	ID           string          `json:"id"`
	Key          string          `json:"key"`
	Payload      json.RawMessage `json:"payload"`
	AttemptsLeft int             `json:"attempts_left"`
}

func queueKey(jobKey string) string {
	return "jobs:" + jobKey
}

// Queue dispatches durable jobs onto per-key Redis lists.
type Queue struct {
	client *redis.Client
}

func NewQueue(client *redis.Client) *Queue {
	return &Queue{client: client}
}

func (q *Queue) Dispatch(ctx context.Context, jobKey string, payload any, attempts int) error {
	if attempts < 1 {
		attempts = 1
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal job payload: %w", err)
	}

	env := Envelope{
		ID:           uuid.NewString(),
		Key:          jobKey,
		Payload:      data,
		AttemptsLeft: attempts,
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal job envelope: %w", err)
	}

	if err := q.client.LPush(ctx, queueKey(jobKey), raw).Err(); err != nil {
		return fmt.Errorf("enqueue job %s: %w", jobKey, err)
	}
	return nil
}
