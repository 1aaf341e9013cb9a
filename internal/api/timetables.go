package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinichq/clinic-management/internal/timetable"
)

func createSlotHandler(svc *timetable.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		s, err := svc.Create(r.Context(), requester(r), req.DoctorID, req.ClinicID, req.StartTime)
		if err != nil {
			handleSlotError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toSlotResponse(s))
	}
}

func listSlotsHandler(svc *timetable.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := slotFilterFromQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_filter", err.Error())
			return
		}

		list, err := svc.List(r.Context(), requester(r), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := make([]SlotResponse, 0, len(list))
		for i := range list {
			out = append(out, toSlotResponse(&list[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func updateSlotHandler(svc *timetable.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_slot_id", "id must be a valid UUID")
			return
		}

		var req UpdateSlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		s, err := svc.Update(r.Context(), requester(r), id, req.StartTime)
		if err != nil {
			handleSlotError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toSlotResponse(s))
	}
}

func deleteSlotHandler(svc *timetable.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_slot_id", "id must be a valid UUID")
			return
		}

		if err := svc.Delete(r.Context(), requester(r), id); err != nil {
			handleSlotError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleSlotError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, timetable.ErrSlotNotFound):
		writeError(w, http.StatusNotFound, "slot_not_found", err.Error())
	case errors.Is(err, timetable.ErrNotSlotOwner):
		writeError(w, http.StatusUnauthorized, "not_slot_owner", err.Error())
	case errors.Is(err, timetable.ErrDoctorIDRequired):
		writeError(w, http.StatusBadRequest, "doctor_id_required", err.Error())
	case errors.Is(err, timetable.ErrSlotTaken):
		writeError(w, http.StatusBadRequest, "slot_taken", err.Error())
	case errors.Is(err, timetable.ErrSlotScheduled):
		writeError(w, http.StatusBadRequest, "slot_scheduled", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func slotFilterFromQuery(r *http.Request) (timetable.Filter, error) {
	var f timetable.Filter
	q := r.URL.Query()

	if v := q.Get("doctor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, errors.New("doctor_id must be a valid UUID")
		}
		f.DoctorID = &id
	}
	if v := q.Get("clinic_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, errors.New("clinic_id must be a valid UUID")
		}
		f.ClinicID = &id
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

func toSlotResponse(s *timetable.Slot) SlotResponse {
	return SlotResponse{
		ID:        s.ID,
		DoctorID:  s.DoctorID,
		ClinicID:  s.ClinicID,
		StartTime: s.StartTime,
		Scheduled: s.Scheduled,
	}
}
