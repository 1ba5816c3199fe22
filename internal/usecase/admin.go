package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/atelierhub/workshop-hub-api/internal/identity"
	"github.com/atelierhub/workshop-hub-api/internal/model"
)

// AdminUsecase defines the admin role management operations. Every call is
// gated on the caller already holding the admin claim.
type AdminUsecase interface {
	// MakeAdmin grants the admin claim to the user with the given email.
	MakeAdmin(ctx context.Context, callerID, email string) error

	// RemoveAdmin revokes the admin claim from the user with the given email.
	RemoveAdmin(ctx context.Context, callerID, email string) error

	// RestoreAdmins re-grants the admin claim to the configured core
	// administrator allow-list regardless of current state and returns the
	// addresses that were restored. An address that cannot be resolved or
	// updated is skipped and omitted from the result.
	RestoreAdmins(ctx context.Context, callerID string) ([]string, error)
}

type adminUsecase struct {
	provider   identity.Provider
	coreEmails []string
	logger     *zerolog.Logger
}

func NewAdminUsecase(provider identity.Provider, coreEmails []string, logger *zerolog.Logger) AdminUsecase {
	return &adminUsecase{
		provider:   provider,
		coreEmails: coreEmails,
		logger:     logger,
	}
}

func (u *adminUsecase) MakeAdmin(ctx context.Context, callerID, email string) error {
	return u.setAdminClaim(ctx, callerID, email, true)
}

func (u *adminUsecase) RemoveAdmin(ctx context.Context, callerID, email string) error {
	return u.setAdminClaim(ctx, callerID, email, false)
}

func (u *adminUsecase) setAdminClaim(ctx context.Context, callerID, email string, admin bool) error {
	if err := requireAdmin(ctx, u.provider, callerID); err != nil {
		return err
	}

	target, err := u.provider.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	_, err = u.provider.SetCustomUserClaims(ctx, target.ID.Hex(), map[string]any{
		model.ClaimAdmin: admin,
	})
	return err
}

func (u *adminUsecase) RestoreAdmins(ctx context.Context, callerID string) ([]string, error) {
	if err := requireAdmin(ctx, u.provider, callerID); err != nil {
		return nil, err
	}

	restored := make([]string, 0, len(u.coreEmails))
	for _, email := range u.coreEmails {
		target, err := u.provider.GetUserByEmail(ctx, email)
		if err != nil {
			u.logger.Warn().Err(err).Str("email", email).Msg("skipping core admin: lookup failed")
			continue
		}

		if _, err := u.provider.SetCustomUserClaims(ctx, target.ID.Hex(), map[string]any{
			model.ClaimAdmin: true,
		}); err != nil {
			u.logger.Warn().Err(err).Str("email", email).Msg("skipping core admin: claim update failed")
			continue
		}

		restored = append(restored, email)
	}

	return restored, nil
}
