package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/atelierhub/workshop-hub-api/internal/identity"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrWorkshopNotFound   = errors.New("workshop not found")
	ErrAlreadyRegistered  = errors.New("user is already registered for this workshop")
	ErrNotRegistered      = errors.New("user is not registered for this workshop")
	ErrNotAdmin           = errors.New("caller does not hold the admin claim")
	ErrNoUpdateFields     = errors.New("no fields to update")
)

// requireAdmin re-reads the caller's custom claims and fails unless the admin
// claim is present and true. The claim is checked against the store on every
// call; nothing from the caller's token is trusted for privilege.
func requireAdmin(ctx context.Context, provider identity.Provider, callerID string) error {
	caller, err := provider.GetUser(ctx, callerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotAdmin
		}
		return err
	}

	if !caller.IsAdmin() {
		return ErrNotAdmin
	}

	return nil
}
