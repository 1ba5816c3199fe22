package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/atelierhub/workshop-hub-api/internal/model"
	"github.com/atelierhub/workshop-hub-api/internal/repository"
	"github.com/atelierhub/workshop-hub-api/shared/auth"
	"github.com/atelierhub/workshop-hub-api/shared/security"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	SignUp(ctx context.Context, params SignUpParams) (string, error)
	Login(ctx context.Context, params LoginParams) (string, error)
}

// SignUpParams defines the parameters for account creation.
type SignUpParams struct {
	Email    string
	Password string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

type authUsecase struct {
	userRepo repository.UserRepository
	jwtAuth  auth.JWTAuthenticator
}

func NewAuthUsecase(userRepo repository.UserRepository, jwtAuth auth.JWTAuthenticator) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		jwtAuth:  jwtAuth,
	}
}

// SignUp creates an account and returns an access token. The general email
// consent flag starts unset; the user decides it later.
func (u *authUsecase) SignUp(ctx context.Context, params SignUpParams) (string, error) {
	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return "", err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Email:        params.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrUserAlreadyExists
		}

		return "", err
	}

	return u.jwtAuth.GenerateToken(user.ID.Hex(), user.Email)
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (string, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrInvalidCredentials
		}

		return "", err
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return "", err
	} else if !ok {
		return "", ErrInvalidCredentials
	}

	return u.jwtAuth.GenerateToken(user.ID.Hex(), user.Email)
}
