package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinichq/clinic-management/internal/consultation"
)

func bookConsultationHandler(svc *consultation.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookConsultationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		c, err := svc.Book(r.Context(), requester(r), consultation.BookInput{
			ClinicID:  req.ClinicID,
			DoctorID:  req.DoctorID,
			PatientID: req.PatientID,
			StartTime: req.StartTime,
			IsReturn:  req.IsReturn,
		})
		if err != nil {
			handleBookError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toConsultationResponse(c))
	}
}

func handleBookError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, consultation.ErrBookForbidden):
		writeError(w, http.StatusUnauthorized, "book_forbidden", err.Error())
	case errors.Is(err, consultation.ErrPatientIDRequired):
		writeError(w, http.StatusBadRequest, "patient_id_required", err.Error())
	case errors.Is(err, consultation.ErrClinicNotFound):
		writeError(w, http.StatusNotFound, "clinic_not_found", err.Error())
	case errors.Is(err, consultation.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, consultation.ErrNotADoctor):
		writeError(w, http.StatusBadRequest, "not_a_doctor", err.Error())
	case errors.Is(err, consultation.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, consultation.ErrNotAPatient):
		writeError(w, http.StatusBadRequest, "not_a_patient", err.Error())
	case errors.Is(err, consultation.ErrDateNotAvailable):
		writeError(w, http.StatusNotFound, "date_not_available", err.Error())
	case errors.Is(err, consultation.ErrAlreadyScheduled):
		writeError(w, http.StatusBadRequest, "already_scheduled", err.Error())
	case errors.Is(err, consultation.ErrSlotBusy):
		writeError(w, http.StatusBadRequest, "slot_being_booked", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func cancelConsultationHandler(svc *consultation.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_consultation_id", "id must be a valid UUID")
			return
		}

		if err := svc.Cancel(r.Context(), requester(r), id); err != nil {
			switch {
			case errors.Is(err, consultation.ErrConsultationNotFound):
				writeError(w, http.StatusNotFound, "consultation_not_found", err.Error())
			case errors.Is(err, consultation.ErrCancelForbidden):
				writeError(w, http.StatusUnauthorized, "cancel_forbidden", err.Error())
			case errors.Is(err, consultation.ErrCancelWindowClosed):
				writeError(w, http.StatusBadRequest, "cancel_window_closed", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func listConsultationsHandler(svc *consultation.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := consultationFilterFromQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_filter", err.Error())
			return
		}

		list, err := svc.List(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := make([]ConsultationResponse, 0, len(list))
		for i := range list {
			out = append(out, toConsultationResponse(&list[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func consultationFilterFromQuery(r *http.Request) (consultation.Filter, error) {
	var f consultation.Filter
	q := r.URL.Query()

	for name, dst := range map[string]**uuid.UUID{
		"doctor_id":  &f.DoctorID,
		"clinic_id":  &f.ClinicID,
		"patient_id": &f.PatientID,
	} {
		if v := q.Get(name); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				return f, errors.New(name + " must be a valid UUID")
			}
			*dst = &id
		}
	}

	if v := q.Get("is_return"); v != "" {
		b := v == "true"
		f.IsReturn = &b
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, errors.New("from must be RFC3339")
		}
		f.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, errors.New("to must be RFC3339")
		}
		f.To = &t
	}
	return f, nil
}

func toConsultationResponse(c *consultation.Consultation) ConsultationResponse {
	return ConsultationResponse{
		ID:        c.ID,
		StartTime: c.StartTime,
		IsReturn:  c.IsReturn,
		Confirmed: c.Confirmed,
		ClinicID:  c.ClinicID,
		DoctorID:  c.DoctorID,
		PatientID: c.PatientID,
	}
}
