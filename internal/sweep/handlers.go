package sweep

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/clinichq/clinic-management/internal/consultation"
	"github.com/clinichq/clinic-management/internal/jobs"
	"github.com/clinichq/clinic-management/internal/mail"
)

// Handlers are the mail-worker side of the notification pipeline. Each
// batch is fire-and-forget: one consultation's failed mail send is
// logged and does not block the rest of the batch.
type Handlers struct {
	repo   Repository
	mailer mail.Mailer
}

func NewHandlers(repo Repository, mailer mail.Mailer) *Handlers {
	return &Handlers{repo: repo, mailer: mailer}
}

func (h *Handlers) Register(w *jobs.Worker) error {
	for _, handler := range []jobs.Handler{
		{Key: JobConfirmReminder, Handle: h.HandleConfirmReminder},
		{Key: JobAutoCancel, Handle: h.HandleAutoCancel},
		{Key: consultation.JobConsultationBooked, Handle: h.HandleBooked},
	} {
		if err := w.Register(handler); err != nil {
			return err
		}
	}
	return nil
}

// HandleBooked sends the booking confirmation for one consultation.
func (h *Handlers) HandleBooked(ctx context.Context, payload []byte) error {
	var p consultation.BookedPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode booked payload: %w", err)
	}

	d, err := h.repo.GetDetail(ctx, p.ConsultationID)
	if err != nil {
		return fmt.Errorf("load consultation %s: %w", p.ConsultationID, err)
	}

	return h.mailer.Send(ctx, mail.Message{
		To:       d.Patient.Email,
		Subject:  "Your consultation is booked",
		Template: mail.TemplateConsultationBooked,
		Data:     templateData(d),
	})
}

// HandleConfirmReminder mails every patient in the batch asking them
// to confirm their upcoming consultation.
func (h *Handlers) HandleConfirmReminder(ctx context.Context, payload []byte) error {
	var p BatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode reminder payload: %w", err)
	}

	for _, id := range p.ConsultationIDs {
		d, err := h.repo.GetDetail(ctx, id)
		if err != nil {
			log.Error().Err(err).Str("consultation_id", id.String()).Msg("reminder: load failed")
			continue
		}

		err = h.mailer.Send(ctx, mail.Message{
			To:       d.Patient.Email,
			Subject:  "Please confirm your appointment",
			Template: mail.TemplateConfirmReminder,
			Data:     templateData(d),
		})
		if err != nil {
			log.Error().Err(err).Str("consultation_id", id.String()).Msg("reminder: send failed")
		}
	}
	return nil
}

// HandleAutoCancel mails a cancellation notice and deletes each
// unconfirmed consultation in the batch. The slot stays scheduled; only
// the user-initiated cancel path frees slots.
func (h *Handlers) HandleAutoCancel(ctx context.Context, payload []byte) error {
	var p BatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode auto-cancel payload: %w", err)
	}

	for _, id := range p.ConsultationIDs {
		d, err := h.repo.GetDetail(ctx, id)
		if err != nil {
			log.Error().Err(err).Str("consultation_id", id.String()).Msg("auto-cancel: load failed")
			continue
		}
		if d.Confirmed {
			// Confirmed between sweep and job run.
			continue
		}

		err = h.mailer.Send(ctx, mail.Message{
			To:       d.Patient.Email,
			Subject:  "Your appointment was cancelled",
			Template: mail.TemplateCancelledUnconfirmed,
			Data:     templateData(d),
		})
		if err != nil {
			log.Error().Err(err).Str("consultation_id", id.String()).Msg("auto-cancel: send failed")
		}

		if err := h.repo.DeleteConsultation(ctx, id); err != nil {
			log.Error().Err(err).Str("consultation_id", id.String()).Msg("auto-cancel: delete failed")
		}
	}
	return nil
}

func templateData(d *ConsultationDetail) map[string]any {
	data := map[string]any{
		"patient_name": d.Patient.Name,
		"doctor_name":  d.Doctor.Name,
		"clinic_name":  d.Clinic.Name,
		"clinic_owner": d.Clinic.Owner.Name,
		"start_time":   d.StartTime,
	}
	if d.Doctor.Specialty != nil {
		data["doctor_specialty"] = *d.Doctor.Specialty
	}
	return data
}
