package handler

import "net/http"

func (h *Handler) makeAdmin(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req roleRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	if err := h.adminUsecase.MakeAdmin(r.Context(), callerID, req.EmailAddress); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, nil)
}

func (h *Handler) removeAdmin(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req roleRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	if err := h.adminUsecase.RemoveAdmin(r.Context(), callerID, req.EmailAddress); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, nil)
}

func (h *Handler) restoreAdmins(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	restored, err := h.adminUsecase.RestoreAdmins(r.Context(), callerID)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, restored)
}
