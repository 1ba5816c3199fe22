package handler

import (
	"net/http"

	"github.com/atelierhub/workshop-hub-api/internal/usecase"
)

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	token, err := h.authUsecase.SignUp(r.Context(), usecase.SignUpParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, tokenResponse{AccessToken: token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	token, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}
