package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinichq/clinic-management/internal/files"
)

const maxUploadBytes = 32 << 20

func uploadFileHandler(svc *files.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_multipart_form", "could not parse multipart form")
			return
		}

		part, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file_required", "form field 'file' is required")
			return
		}
		defer part.Close()

		f, err := svc.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), part)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, toFileResponse(f))
	}
}

func downloadFileHandler(svc *files.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_file_id", "id must be a valid UUID")
			return
		}

		f, rc, err := svc.Open(r.Context(), id)
		if err != nil {
			handleFileError(w, err)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", f.Type+"/"+f.Subtype)
		w.Header().Set("Content-Disposition", `attachment; filename="`+f.Name+`"`)
		if _, err := io.Copy(w, rc); err != nil {
			log.Error().Err(err).Str("file_id", id.String()).Msg("failed to stream file")
		}
	}
}

func deleteFileHandler(svc *files.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_file_id", "id must be a valid UUID")
			return
		}

		if err := svc.Remove(r.Context(), id); err != nil {
			handleFileError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleFileError(w http.ResponseWriter, err error) {
	if errors.Is(err, files.ErrFileNotFound) {
		writeError(w, http.StatusNotFound, "file_not_found", err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
}

func toFileResponse(f *files.File) FileResponse {
	return FileResponse{ID: f.ID, Name: f.Name, Type: f.Type, Subtype: f.Subtype}
}
