package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Job keys consumed by the mail worker.
const (
	JobConfirmReminder = "confirm-reminder"
	JobAutoCancel      = "auto-cancel"
)

// BatchPayload lists the consultations one sweep picked up.
type BatchPayload struct {
	ConsultationIDs []uuid.UUID `json:"consultation_ids"`
}

// Sweeper runs the two daily scans over upcoming consultations and
// enqueues the mail jobs. It holds no timer of its own: the caller
// (worker binary or a test with a fixed clock) decides when a day has
// passed and invokes RunDailySweeps.
type Sweeper struct {
	repo  Repository
	queue Dispatcher

	reminderOffsetDays   int
	autoCancelOffsetDays int
	jobAttempts          int
}

func NewSweeper(repo Repository, queue Dispatcher, reminderOffsetDays, autoCancelOffsetDays, jobAttempts int) *Sweeper {
	return &Sweeper{
		repo:                 repo,
		queue:                queue,
		reminderOffsetDays:   reminderOffsetDays,
		autoCancelOffsetDays: autoCancelOffsetDays,
		jobAttempts:          jobAttempts,
	}
}

// RunDailySweeps runs both sweeps against the given instant. Safe to
// re-run: an empty window enqueues nothing.
func (s *Sweeper) RunDailySweeps(ctx context.Context, now time.Time) error {
	if err := s.RunReminderSweep(ctx, now); err != nil {
		return err
	}
	return s.RunAutoCancelSweep(ctx, now)
}

// RunReminderSweep finds consultations three days out and enqueues one
// batch job asking their patients to confirm.
func (s *Sweeper) RunReminderSweep(ctx context.Context, now time.Time) error {
	from, to := DayWindow(now, s.reminderOffsetDays)

	batch, err := s.repo.ListInWindow(ctx, from, to)
	if err != nil {
		return fmt.Errorf("reminder sweep query: %w", err)
	}
	if len(batch) == 0 {
		log.Debug().Time("from", from).Time("to", to).Msg("reminder sweep found nothing")
		return nil
	}

	payload := BatchPayload{ConsultationIDs: ids(batch)}
	if err := s.queue.Dispatch(ctx, JobConfirmReminder, payload, s.jobAttempts); err != nil {
		return fmt.Errorf("dispatch reminder batch: %w", err)
	}

	log.Info().Int("count", len(batch)).Time("from", from).Time("to", to).Msg("reminder batch enqueued")
	return nil
}

// RunAutoCancelSweep finds unconfirmed consultations two days out and
// enqueues the cancellation batch.
func (s *Sweeper) RunAutoCancelSweep(ctx context.Context, now time.Time) error {
	from, to := DayWindow(now, s.autoCancelOffsetDays)

	batch, err := s.repo.ListUnconfirmedInWindow(ctx, from, to)
	if err != nil {
		return fmt.Errorf("auto-cancel sweep query: %w", err)
	}
	if len(batch) == 0 {
		log.Debug().Time("from", from).Time("to", to).Msg("auto-cancel sweep found nothing")
		return nil
	}

	payload := BatchPayload{ConsultationIDs: ids(batch)}
	if err := s.queue.Dispatch(ctx, JobAutoCancel, payload, s.jobAttempts); err != nil {
		return fmt.Errorf("dispatch auto-cancel batch: %w", err)
	}

	log.Info().Int("count", len(batch)).Time("from", from).Time("to", to).Msg("auto-cancel batch enqueued")
	return nil
}

func ids(batch []ConsultationDetail) []uuid.UUID {
	out := make([]uuid.UUID, len(batch))
	for i, d := range batch {
		out[i] = d.ID
	}
	return out
}
