package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/atelierhub/workshop-hub-api/internal/repository"
	"github.com/atelierhub/workshop-hub-api/internal/usecase"
	"github.com/atelierhub/workshop-hub-api/shared/apperror"
)

// maxPosterBytes caps poster uploads at 10MB.
const maxPosterBytes = 10 << 20

func (h *Handler) createWorkshop(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req createWorkshopRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	workshop, err := h.workshopUsecase.CreateWorkshop(r.Context(), callerID, usecase.CreateWorkshopParams{
		Name:           req.Name,
		Description:    req.Description,
		Datetime:       req.Datetime,
		NewSignupEmail: req.NewSignupEmail,
		VideoCallLink:  req.VideoCallLink,
		FeedbackLink:   req.FeedbackLink,
		RecordingLink:  req.RecordingLink,
	})
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, workshop)
}

func (h *Handler) getWorkshop(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	workshop, err := h.workshopUsecase.GetWorkshop(r.Context(), callerID, chi.URLParam(r, "workshopID"))
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, workshop)
}

func (h *Handler) listWorkshops(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	workshops, err := h.workshopUsecase.ListWorkshops(r.Context(), callerID)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, workshops)
}

func (h *Handler) updateWorkshop(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req updateWorkshopRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	workshop, err := h.workshopUsecase.UpdateWorkshop(
		r.Context(),
		callerID,
		chi.URLParam(r, "workshopID"),
		repository.UpdateWorkshopParams{
			Name:           req.Name,
			Description:    req.Description,
			Datetime:       req.Datetime,
			NewSignupEmail: req.NewSignupEmail,
			VideoCallLink:  req.VideoCallLink,
			FeedbackLink:   req.FeedbackLink,
			RecordingLink:  req.RecordingLink,
		},
	)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, workshop)
}

func (h *Handler) deleteWorkshop(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	if err := h.workshopUsecase.DeleteWorkshop(r.Context(), callerID, chi.URLParam(r, "workshopID")); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) uploadPoster(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	content, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPosterBytes))
	if err != nil {
		h.respondError(w, apperror.InvalidArgument("poster exceeds the maximum upload size"))
		return
	}
	if len(content) == 0 {
		h.respondError(w, apperror.InvalidArgument("poster body is required"))
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}

	err = h.workshopUsecase.UploadPoster(r.Context(), callerID, chi.URLParam(r, "workshopID"), contentType, content)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusAccepted, nil)
}

func (h *Handler) listPublicWorkshops(w http.ResponseWriter, r *http.Request) {
	workshops, err := h.publicRepo.ListPublicWorkshops(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list public workshops")
		h.respondError(w, apperror.Internal())
		return
	}

	h.respondJSON(w, http.StatusOK, workshops)
}

func (h *Handler) getPublicWorkshop(w http.ResponseWriter, r *http.Request) {
	workshop, err := h.publicRepo.GetPublicWorkshop(r.Context(), chi.URLParam(r, "workshopID"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.respondError(w, apperror.NotFound("workshop not found"))
			return
		}
		h.logger.Error().Err(err).Msg("failed to get public workshop")
		h.respondError(w, apperror.Internal())
		return
	}

	h.respondJSON(w, http.StatusOK, workshop)
}
