// Package identity exposes the account surface privileged operations depend
// on: user lookup and custom claim management. The admin privilege is the
// boolean "admin" custom claim; callers re-read it on every privileged call
// instead of trusting anything cached in a token.
package identity

import (
	"context"

	"github.com/atelierhub/workshop-hub-api/internal/model"
	"github.com/atelierhub/workshop-hub-api/internal/repository"
)

// Provider defines the identity operations consumed by privileged handlers.
type Provider interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	SetCustomUserClaims(ctx context.Context, id string, claims map[string]any) (*model.User, error)
	DeleteUser(ctx context.Context, id string) (*model.User, error)
}

type provider struct {
	userRepo repository.UserRepository
}

// NewProvider creates a Provider backed by the users collection.
func NewProvider(userRepo repository.UserRepository) Provider {
	return &provider{userRepo: userRepo}
}

func (p *provider) GetUser(ctx context.Context, id string) (*model.User, error) {
	return p.userRepo.GetUser(ctx, id)
}

func (p *provider) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return p.userRepo.GetUserByEmail(ctx, email)
}

// SetCustomUserClaims merges the given claims into the user's existing claim
// set. Claims not named in the argument are left untouched, so granting or
// revoking one claim never clobbers unrelated ones.
func (p *provider) SetCustomUserClaims(
	ctx context.Context,
	id string,
	claims map[string]any,
) (*model.User, error) {
	user, err := p.userRepo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]any, len(user.CustomClaims)+len(claims))
	for key, value := range user.CustomClaims {
		merged[key] = value
	}
	for key, value := range claims {
		merged[key] = value
	}

	return p.userRepo.UpdateUser(ctx, id, repository.UpdateUserParams{CustomClaims: merged})
}

func (p *provider) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	return p.userRepo.DeleteUser(ctx, id)
}
