package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinichq/clinic-management/internal/consultation"
)

func TestHandleBookError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"slot taken", consultation.ErrDateNotAvailable, http.StatusNotFound, "date_not_available"},
		{"patient already scheduled", consultation.ErrAlreadyScheduled, http.StatusBadRequest, "already_scheduled"},
		{"slot being booked", consultation.ErrSlotBusy, http.StatusBadRequest, "slot_being_booked"},
		{"booking for another patient", consultation.ErrBookForbidden, http.StatusUnauthorized, "book_forbidden"},
		{"unknown clinic", consultation.ErrClinicNotFound, http.StatusNotFound, "clinic_not_found"},
		{"unexpected", errors.New("pq went away"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleBookError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tc.code, resp.Error)
		})
	}
}
