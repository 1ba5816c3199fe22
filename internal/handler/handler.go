package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/atelierhub/workshop-hub-api/internal/repository"
	"github.com/atelierhub/workshop-hub-api/internal/usecase"
	sharedauth "github.com/atelierhub/workshop-hub-api/shared/auth"
	"github.com/atelierhub/workshop-hub-api/shared/validate"
)

// Handler serves the callable-function surface over HTTP.
type Handler struct {
	authUsecase         usecase.AuthUsecase
	accountUsecase      usecase.AccountUsecase
	workshopUsecase     usecase.WorkshopUsecase
	registrationUsecase usecase.RegistrationUsecase
	adminUsecase        usecase.AdminUsecase
	notificationUsecase usecase.NotificationUsecase
	publicRepo          repository.PublicWorkshopRepository
	jwtAuth             sharedauth.JWTAuthenticator
	validator           *validate.Validator
	logger              *zerolog.Logger
}

// NewHandler creates the HTTP handler over the application's use cases.
func NewHandler(
	authUsecase usecase.AuthUsecase,
	accountUsecase usecase.AccountUsecase,
	workshopUsecase usecase.WorkshopUsecase,
	registrationUsecase usecase.RegistrationUsecase,
	adminUsecase usecase.AdminUsecase,
	notificationUsecase usecase.NotificationUsecase,
	publicRepo repository.PublicWorkshopRepository,
	jwtAuth sharedauth.JWTAuthenticator,
	validator *validate.Validator,
	logger *zerolog.Logger,
) *Handler {
	return &Handler{
		authUsecase:         authUsecase,
		accountUsecase:      accountUsecase,
		workshopUsecase:     workshopUsecase,
		registrationUsecase: registrationUsecase,
		adminUsecase:        adminUsecase,
		notificationUsecase: notificationUsecase,
		publicRepo:          publicRepo,
		jwtAuth:             jwtAuth,
		validator:           validator,
		logger:              logger,
	}
}

// Routes builds the API router. Public workshop reads need no authentication;
// everything else does, and the admin routes are additionally gated inside
// their use cases by a live claim check.
func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", h.signUp)
		r.Post("/auth/login", h.login)

		r.Get("/workshops", h.listPublicWorkshops)
		r.Get("/workshops/{workshopID}", h.getPublicWorkshop)

		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)

			r.Post("/workshops/{workshopID}/registration", h.register)
			r.Patch("/workshops/{workshopID}/registration", h.changeConsent)
			r.Delete("/workshops/{workshopID}/registration", h.unregister)

			r.Get("/me/workshops", h.listMyWorkshops)
			r.Patch("/me", h.setGeneralConsent)
			r.Delete("/me", h.deleteAccount)

			r.Post("/support", h.sendSupport)

			r.Route("/admin", func(r chi.Router) {
				r.Post("/workshops", h.createWorkshop)
				r.Get("/workshops", h.listWorkshops)
				r.Get("/workshops/{workshopID}", h.getWorkshop)
				r.Patch("/workshops/{workshopID}", h.updateWorkshop)
				r.Delete("/workshops/{workshopID}", h.deleteWorkshop)
				r.Put("/workshops/{workshopID}/poster", h.uploadPoster)

				r.Post("/workshops/{workshopID}/email", h.broadcast)
				r.Post("/workshops/{workshopID}/promote", h.promote)

				r.Post("/roles", h.makeAdmin)
				r.Delete("/roles", h.removeAdmin)
				r.Post("/roles/restore", h.restoreAdmins)
			})
		})
	})

	return router
}
