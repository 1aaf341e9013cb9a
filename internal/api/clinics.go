package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinichq/clinic-management/internal/clinic"
)

func createClinicHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ClinicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		c, err := svc.Create(r.Context(), requester(r), clinic.CreateInput{
			Name:    req.Name,
			Address: toAddressInput(req.Address),
		})
		if err != nil {
			handleClinicError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toClinicResponse(c))
	}
}

func getClinicHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinic_id", "id must be a valid UUID")
			return
		}

		c, err := svc.Get(r.Context(), id)
		if err != nil {
			handleClinicError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toClinicResponse(c))
	}
}

func listClinicsHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := make([]ClinicResponse, 0, len(list))
		for i := range list {
			out = append(out, toClinicResponse(&list[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func updateClinicHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinic_id", "id must be a valid UUID")
			return
		}

		var req ClinicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		c, err := svc.Update(r.Context(), requester(r), id, req.Name, toAddressInput(req.Address))
		if err != nil {
			handleClinicError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toClinicResponse(c))
	}
}

func deleteClinicHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinic_id", "id must be a valid UUID")
			return
		}

		if err := svc.Delete(r.Context(), requester(r), id); err != nil {
			handleClinicError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleClinicError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, clinic.ErrClinicNotFound):
		writeError(w, http.StatusNotFound, "clinic_not_found", err.Error())
	case errors.Is(err, clinic.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, clinic.ErrValidation):
		writeValidationError(w, err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func toAddressInput(p *AddressPayload) *clinic.AddressInput {
	if p == nil {
		return nil
	}
	return &clinic.AddressInput{
		Street:   p.Street,
		Number:   p.Number,
		District: p.District,
		City:     p.City,
		State:    p.State,
		ZipCode:  p.ZipCode,
	}
}

func toClinicResponse(c *clinic.Clinic) ClinicResponse {
	resp := ClinicResponse{ID: c.ID, Name: c.Name, OwnerID: c.OwnerID}
	if c.Address != nil {
		resp.Address = &AddressPayload{
			Street:   c.Address.Street,
			Number:   c.Address.Number,
			District: c.Address.District,
			City:     c.Address.City,
			State:    c.Address.State,
			ZipCode:  c.Address.ZipCode,
		}
	}
	return resp
}
