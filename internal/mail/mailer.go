package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// Mail templates used by the notification sweeps.
const (
	TemplateConsultationBooked   = "consultation-booked"
	TemplateConfirmReminder      = "confirm-reminder"
	TemplateCancelledUnconfirmed = "cancelled-unconfirmed"
)

type Message struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

// Mailer delivers a single message. Delivery is best effort from the
// caller's point of view; retries belong to the job queue.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes outbound mail to the log instead of delivering it.
// Used in dev and tests.
type LogMailer struct {
	From   string
	Logger zerolog.Logger
}

func NewLogMailer(from string, logger zerolog.Logger) *LogMailer {
	return &LogMailer{From: from, Logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.Logger.Info().
		Str("from", m.From).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("template", msg.Template).
		Interface("data", msg.Data).
		Msg("mail sent")
	return nil
}
