package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/atelierhub/workshop-hub-api/internal/model"
	"github.com/atelierhub/workshop-hub-api/internal/repository"
	"github.com/atelierhub/workshop-hub-api/internal/trigger"
)

// RegistrationUsecase defines the user-initiated operations on the symmetric
// registration join pair.
type RegistrationUsecase interface {
	Register(ctx context.Context, userID, workshopID string, consent bool) error
	Unregister(ctx context.Context, userID, workshopID string) error
	ChangeConsent(ctx context.Context, userID, workshopID string, consent bool) error
	ListUserWorkshops(ctx context.Context, userID string) ([]*model.UserWorkshop, error)
}

type registrationUsecase struct {
	registrationRepo repository.RegistrationRepository
	workshopRepo     repository.WorkshopRepository
	publisher        trigger.Publisher
}

func NewRegistrationUsecase(
	registrationRepo repository.RegistrationRepository,
	workshopRepo repository.WorkshopRepository,
	publisher trigger.Publisher,
) RegistrationUsecase {
	return &registrationUsecase{
		registrationRepo: registrationRepo,
		workshopRepo:     workshopRepo,
		publisher:        publisher,
	}
}

// Register creates the join pair for a (user, workshop) in one transaction,
// copying the workshop's public-facing fields and the caller-supplied consent
// flag onto the user's denormalized copy. Registering twice fails with
// ErrAlreadyRegistered and leaves the existing pair untouched.
func (u *registrationUsecase) Register(
	ctx context.Context,
	userID, workshopID string,
	consent bool,
) error {
	workshop, err := u.workshopRepo.GetWorkshop(ctx, workshopID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrWorkshopNotFound
		}
		return err
	}

	workshopUser, userWorkshop := model.NewRegistrationPair(userID, workshop, consent)

	if err := u.registrationRepo.Register(ctx, workshopUser, userWorkshop); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyRegistered
		}
		return err
	}

	return u.publisher.Publish(ctx, trigger.Event{
		Type:       trigger.EventRegistrationCreated,
		WorkshopID: workshopID,
		UserID:     userID,
	})
}

func (u *registrationUsecase) Unregister(ctx context.Context, userID, workshopID string) error {
	if err := u.registrationRepo.Unregister(ctx, userID, workshopID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotRegistered
		}
		return err
	}

	return nil
}

// ChangeConsent updates the per-workshop consent flag on both join documents
// atomically so they can never be observed to diverge.
func (u *registrationUsecase) ChangeConsent(
	ctx context.Context,
	userID, workshopID string,
	consent bool,
) error {
	if err := u.registrationRepo.SetConsent(ctx, userID, workshopID, consent); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotRegistered
		}
		return err
	}

	return nil
}

func (u *registrationUsecase) ListUserWorkshops(
	ctx context.Context,
	userID string,
) ([]*model.UserWorkshop, error) {
	return u.registrationRepo.ListUserWorkshops(ctx, userID)
}
