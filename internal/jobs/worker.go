package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Handler consumes jobs for one key. Exactly one goroutine runs per
// key, so executions of the same job kind never overlap; queued
// dispatches wait their turn.
type Handler struct {
	Key    string
	Handle func(ctx context.Context, payload []byte) error
}

type Worker struct {
	client   *redis.Client
	handlers map[string]Handler
}

func NewWorker(client *redis.Client) *Worker {
	return &Worker{
		client:   client,
		handlers: make(map[string]Handler),
	}
}

func (w *Worker) Register(h Handler) error {
	if _, dup := w.handlers[h.Key]; dup {
		return fmt.Errorf("handler already registered for key %s", h.Key)
	}
	w.handlers[h.Key] = h
	return nil
}

// Run blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, h := range w.handlers {
		wg.Add(1)
		go func(h Handler) {
			defer wg.Done()
			w.consume(ctx, h)
		}(h)
	}
	wg.Wait()
}

func (w *Worker) consume(ctx context.Context, h Handler) {
	key := queueKey(h.Key)
	for {
		if ctx.Err() != nil {
			return
		}

		res, err := w.client.BRPop(ctx, 5*time.Second, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Str("job_key", h.Key).Msg("queue pop failed")
			time.Sleep(time.Second)
			continue
		}
		if len(res) != 2 {
			continue
		}

		var env Envelope
		if err := json.Unmarshal([]byte(res[1]), &env); err != nil {
			log.Error().Err(err).Str("job_key", h.Key).Msg("dropping malformed job envelope")
			continue
		}

		if err := h.Handle(ctx, env.Payload); err != nil {
			env.AttemptsLeft--
			if env.AttemptsLeft > 0 {
				log.Warn().Err(err).
					Str("job_key", h.Key).
					Str("job_id", env.ID).
					Int("attempts_left", env.AttemptsLeft).
					Msg("job failed, requeueing")
				if raw, mErr := json.Marshal(env); mErr == nil {
					if pushErr := w.client.LPush(ctx, key, raw).Err(); pushErr != nil {
						log.Error().Err(pushErr).Str("job_id", env.ID).Msg("requeue failed, job lost")
					}
				}
			} else {
				log.Error().Err(err).
					Str("job_key", h.Key).
					Str("job_id", env.ID).
					Msg("job failed, attempts exhausted")
			}
		}
	}
}
