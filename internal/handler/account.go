package handler

import "net/http"

func (h *Handler) setGeneralConsent(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req consentRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	user, err := h.accountUsecase.SetGeneralConsent(r.Context(), callerID, *req.ConsentToEmails)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	if err := h.accountUsecase.DeleteAccount(r.Context(), callerID); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusNoContent, nil)
}
