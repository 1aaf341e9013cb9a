package consultation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinichq/clinic-management/internal/auth"
	"github.com/clinichq/clinic-management/internal/redisclient"
)

// JobConsultationBooked is dispatched after a booking commits.
const JobConsultationBooked = "consultation-booked"

var (
	ErrBookForbidden          = errors.New("cannot book for another patient")
	ErrPatientIDRequired      = errors.New("patient id required")
	ErrClinicNotFound         = errors.New("clinic not found")
	ErrDoctorNotFound         = errors.New("doctor not found")
	ErrNotADoctor             = errors.New("user is not a doctor")
	ErrPatientNotFound        = errors.New("patient not found")
	ErrNotAPatient            = errors.New("user is not a patient")
	ErrSlotBusy               = errors.New("slot is currently being booked, please retry")
	ErrCancelForbidden        = errors.New("cannot cancel this consultation")
	ErrCancelWindowClosed     = errors.New("cancel period has passed")
	ErrNotConsultationPatient = errors.New("unauthorized")
)

// BookedPayload is the job payload for the booking notification.
type BookedPayload struct {
	ConsultationID uuid.UUID `json:"consultation_id"`
}

type Service struct {
	repo       Repository
	dir        Directory
	locker     redisclient.Locker
	dispatcher Dispatcher

	cancelNoticeDays int
	jobAttempts      int
	now              func() time.Time
}

func NewService(repo Repository, dir Directory, locker redisclient.Locker, dispatcher Dispatcher, cancelNoticeDays, jobAttempts int) *Service {
	return &Service{
		repo:             repo,
		dir:              dir,
		locker:           locker,
		dispatcher:       dispatcher,
		cancelNoticeDays: cancelNoticeDays,
		jobAttempts:      jobAttempts,
		now:              time.Now,
	}
}

// WithClock overrides the service clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Book reserves a doctor's slot for a patient. Validation happens in a
// fixed order; the slot check and flip run inside the repository
// transaction, guarded by a per-slot Redis lock so concurrent requests
// for the same slot are serialized before the row lock settles the race.
func (s *Service) Book(ctx context.Context, requester auth.Principal, in BookInput) (*Consultation, error) {
	patientID := requester.ID
	if in.PatientID != nil {
		if *in.PatientID != requester.ID && !requester.HasRole(auth.RoleAssistant) {
			return nil, ErrBookForbidden
		}
		patientID = *in.PatientID
	} else if requester.HasRole(auth.RoleAssistant) {
		return nil, ErrPatientIDRequired
	}

	ok, err := s.dir.ClinicExists(ctx, in.ClinicID)
	if err != nil {
		return nil, fmt.Errorf("load clinic: %w", err)
	}
	if !ok {
		return nil, ErrClinicNotFound
	}

	doctorRoles, found, err := s.dir.UserRoles(ctx, in.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	if !found {
		return nil, ErrDoctorNotFound
	}
	if !hasSlug(doctorRoles, auth.RoleDoctor) {
		return nil, ErrNotADoctor
	}

	if in.PatientID != nil {
		patientRoles, found, err := s.dir.UserRoles(ctx, patientID)
		if err != nil {
			return nil, fmt.Errorf("load patient: %w", err)
		}
		if !found {
			return nil, ErrPatientNotFound
		}
		if !hasSlug(patientRoles, auth.RolePatient) {
			return nil, ErrNotAPatient
		}
	}

	c := &Consultation{
		ID:        uuid.New(),
		StartTime: in.StartTime,
		IsReturn:  in.IsReturn,
		ClinicID:  in.ClinicID,
		DoctorID:  in.DoctorID,
		PatientID: patientID,
	}

	err = s.locker.WithSlotLock(ctx, in.DoctorID, in.StartTime, func(lockCtx context.Context) error {
		return s.repo.Book(lockCtx, c)
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	s.dispatchBooked(ctx, c.ID)

	return c, nil
}

// dispatchBooked fires the scheduling notification after the booking
// transaction has committed. A failed dispatch is logged, not returned:
// the booking itself already succeeded.
func (s *Service) dispatchBooked(ctx context.Context, id uuid.UUID) {
	err := s.dispatcher.Dispatch(ctx, JobConsultationBooked, BookedPayload{ConsultationID: id}, s.jobAttempts)
	if err != nil {
		log.Error().Err(err).Str("consultation_id", id.String()).Msg("failed to dispatch booking notification")
	}
}

// Cancel removes a consultation if the requester is its patient or an
// assistant of the same clinic, and the notice window is still open.
func (s *Service) Cancel(ctx context.Context, requester auth.Principal, id uuid.UUID) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	allowed := requester.ID == c.PatientID
	if !allowed && requester.HasRole(auth.RoleAssistant) {
		allowed = requester.ClinicID != nil && *requester.ClinicID == c.ClinicID
	}
	if !allowed {
		return ErrCancelForbidden
	}

	if WholeDaysUntil(s.now(), c.StartTime) < s.cancelNoticeDays {
		return ErrCancelWindowClosed
	}

	return s.repo.Cancel(ctx, c)
}

// Confirm sets the confirmed flag. Only the consultation's patient may
// confirm; re-confirming is harmless.
func (s *Service) Confirm(ctx context.Context, requester auth.Principal, id uuid.UUID) (*Consultation, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if requester.ID != c.PatientID {
		return nil, ErrNotConsultationPatient
	}
	return s.repo.SetConfirmed(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Consultation, error) {
	return s.repo.List(ctx, f)
}

// WholeDaysUntil counts full 24h periods between now and a future time.
// Negative when the time has passed.
func WholeDaysUntil(now, t time.Time) int {
	return int(t.Sub(now).Hours() / 24)
}

func hasSlug(slugs []string, want string) bool {
	for _, s := range slugs {
		if s == want {
			return true
		}
	}
	return false
}
