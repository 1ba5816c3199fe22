package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req consentRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	err := h.registrationUsecase.Register(r.Context(), callerID, chi.URLParam(r, "workshopID"), *req.ConsentToEmails)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, nil)
}

func (h *Handler) unregister(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	if err := h.registrationUsecase.Unregister(r.Context(), callerID, chi.URLParam(r, "workshopID")); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) changeConsent(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req consentRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	err := h.registrationUsecase.ChangeConsent(r.Context(), callerID, chi.URLParam(r, "workshopID"), *req.ConsentToEmails)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, nil)
}

func (h *Handler) listMyWorkshops(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	workshops, err := h.registrationUsecase.ListUserWorkshops(r.Context(), callerID)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, workshops)
}
