package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinichq/clinic-management/internal/consultation"
)

func confirmConsultationHandler(svc *consultation.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_consultation_id", "id must be a valid UUID")
			return
		}

		c, err := svc.Confirm(r.Context(), requester(r), id)
		if err != nil {
			switch {
			case errors.Is(err, consultation.ErrConsultationNotFound):
				writeError(w, http.StatusNotFound, "consultation_not_found", err.Error())
			case errors.Is(err, consultation.ErrNotConsultationPatient):
				writeError(w, http.StatusBadRequest, "unauthorized", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		writeJSON(w, http.StatusOK, toConsultationResponse(c))
	}
}
