package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinichq/clinic-management/internal/auth"
	"github.com/clinichq/clinic-management/internal/user"
)

func loginHandler(svc *user.Service, secret string, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		u, err := svc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, user.ErrBadCredentials) {
				writeError(w, http.StatusUnauthorized, "bad_credentials", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		token, err := auth.IssueToken(u.ID, secret, ttl)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: toUserResponse(u)})
	}
}

// registerUserHandler serves both the public signup route and the
// authenticated one; only an administrator's requester can grant roles.
func registerUserHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		var requester *auth.Principal
		if p, ok := auth.CurrentUser(r.Context()); ok {
			requester = &p
		}

		u, err := svc.Register(r.Context(), requester, user.RegisterInput{
			Name:        req.Name,
			Email:       req.Email,
			Password:    req.Password,
			ClinicID:    req.ClinicID,
			SpecialtyID: req.SpecialtyID,
			Roles:       req.Roles,
		})
		if err != nil {
			handleUserError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func getUserHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "id must be a valid UUID")
			return
		}

		u, err := svc.Get(r.Context(), requester(r), id)
		if err != nil {
			handleUserError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func listUsersHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context(), requester(r))
		if err != nil {
			handleUserError(w, err)
			return
		}

		out := make([]UserResponse, 0, len(list))
		for i := range list {
			out = append(out, toUserResponse(&list[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func updateUserHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "id must be a valid UUID")
			return
		}

		var req UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		u, err := svc.Update(r.Context(), requester(r), id, user.UpdateInput{
			Name:         req.Name,
			Email:        req.Email,
			Password:     req.Password,
			ClinicID:     req.ClinicID,
			SpecialtyID:  req.SpecialtyID,
			AvatarFileID: req.AvatarFileID,
		})
		if err != nil {
			handleUserError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func deleteUserHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "id must be a valid UUID")
			return
		}

		if err := svc.Delete(r.Context(), requester(r), id); err != nil {
			handleUserError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func syncUserRolesHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "id must be a valid UUID")
			return
		}

		var req RolesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		added, removed, err := svc.ReconcileRoles(r.Context(), requester(r), id, req.Roles)
		if err != nil {
			handleUserError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, RolesResponse{Added: added, Removed: removed})
	}
}

func handleUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, user.ErrRoleNotFound):
		writeError(w, http.StatusBadRequest, "role_not_found", err.Error())
	case errors.Is(err, user.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, user.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "email_taken", err.Error())
	case errors.Is(err, user.ErrValidation):
		writeValidationError(w, err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		ClinicID:    u.ClinicID,
		SpecialtyID: u.SpecialtyID,
		Roles:       u.Roles,
	}
}
