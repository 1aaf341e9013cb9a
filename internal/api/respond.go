package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error    string   `json:"error"`
	Details  string   `json:"details,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

// writeValidationError returns the individual validation messages as a
// list, split out of the wrapped error text.
func writeValidationError(w http.ResponseWriter, err error) {
	msg := err.Error()
	if _, rest, found := strings.Cut(msg, ": "); found {
		msg = rest
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:    "validation_failed",
		Messages: strings.Split(msg, "; "),
	})
}
