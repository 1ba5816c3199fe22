package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) broadcast(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req messageRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	recipients, err := h.notificationUsecase.BroadcastToRegistrants(
		r.Context(),
		callerID,
		chi.URLParam(r, "workshopID"),
		req.Message,
	)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, recipientsResponse{Recipients: recipients})
}

func (h *Handler) promote(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req messageRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	recipients, err := h.notificationUsecase.Promote(
		r.Context(),
		callerID,
		chi.URLParam(r, "workshopID"),
		req.Message,
	)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, recipientsResponse{Recipients: recipients})
}

func (h *Handler) sendSupport(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req supportRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	if err := h.notificationUsecase.SendSupport(r.Context(), callerID, req.Message, req.Email); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusAccepted, nil)
}
