package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atelierhub/workshop-hub-api/internal/usecase"
	"github.com/atelierhub/workshop-hub-api/shared/apperror"
)

func (h *Handler) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response body")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, appErr *apperror.Error) {
	h.respondJSON(w, appErr.Code.HTTPStatus(), appErr)
}

// respondUsecaseError maps usecase sentinel errors to their fixed caller-visible
// codes; anything unrecognized is logged and surfaced as internal.
func (h *Handler) respondUsecaseError(w http.ResponseWriter, err error) {
	var appErr *apperror.Error
	switch {
	case errors.As(err, &appErr):
		// already typed, pass through
	case errors.Is(err, usecase.ErrNotAdmin):
		appErr = apperror.PermissionDenied("caller does not hold the admin claim")
	case errors.Is(err, usecase.ErrInvalidCredentials):
		appErr = apperror.Unauthenticated("invalid credentials")
	case errors.Is(err, usecase.ErrUserAlreadyExists):
		appErr = apperror.AlreadyExists("an account with this email already exists")
	case errors.Is(err, usecase.ErrAlreadyRegistered):
		appErr = apperror.AlreadyExists("already registered for this workshop")
	case errors.Is(err, usecase.ErrUserNotFound):
		appErr = apperror.InvalidArgument("no user with this email address")
	case errors.Is(err, usecase.ErrNoUpdateFields):
		appErr = apperror.InvalidArgument("no fields to update")
	case errors.Is(err, usecase.ErrWorkshopNotFound):
		appErr = apperror.NotFound("workshop not found")
	case errors.Is(err, usecase.ErrNotRegistered):
		appErr = apperror.NotFound("not registered for this workshop")
	default:
		h.logger.Error().Err(err).Msg("unexpected usecase error")
		appErr = apperror.Internal()
	}

	h.respondError(w, appErr)
}

// decodeJSON decodes a request body strictly: unknown fields and type
// mismatches fail with invalid-argument before any store access.
func (h *Handler) decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperror.InvalidArgument("malformed request body: " + err.Error())
	}
	return nil
}

// decodeAndValidate decodes the body and validates it against its struct tags.
func (h *Handler) decodeAndValidate(r *http.Request, dst any) error {
	if err := h.decodeJSON(r, dst); err != nil {
		return err
	}
	return h.validator.Struct(dst)
}
