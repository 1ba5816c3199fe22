package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/atelierhub/workshop-hub-api/internal/identity"
	"github.com/atelierhub/workshop-hub-api/internal/model"
	"github.com/atelierhub/workshop-hub-api/internal/repository"
	"github.com/atelierhub/workshop-hub-api/internal/trigger"
)

// AccountUsecase defines the self-service operations on the caller's own account.
type AccountUsecase interface {
	// SetGeneralConsent sets the account-wide promotional email consent flag.
	// It is independent of any per-workshop consent.
	SetGeneralConsent(ctx context.Context, userID string, consent bool) (*model.User, error)

	// DeleteAccount removes the user document. Join documents referencing the
	// user on either side are cleaned up by the trigger worker.
	DeleteAccount(ctx context.Context, userID string) error
}

type accountUsecase struct {
	userRepo  repository.UserRepository
	provider  identity.Provider
	publisher trigger.Publisher
}

func NewAccountUsecase(
	userRepo repository.UserRepository,
	provider identity.Provider,
	publisher trigger.Publisher,
) AccountUsecase {
	return &accountUsecase{
		userRepo:  userRepo,
		provider:  provider,
		publisher: publisher,
	}
}

func (u *accountUsecase) SetGeneralConsent(
	ctx context.Context,
	userID string,
	consent bool,
) (*model.User, error) {
	user, err := u.userRepo.UpdateUser(ctx, userID, repository.UpdateUserParams{
		ConsentToEmails: &consent,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (u *accountUsecase) DeleteAccount(ctx context.Context, userID string) error {
	if _, err := u.provider.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	return u.publisher.Publish(ctx, trigger.Event{
		Type:   trigger.EventUserDeleted,
		UserID: userID,
	})
}
