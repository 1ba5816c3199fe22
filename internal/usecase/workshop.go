package usecase

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/atelierhub/workshop-hub-api/internal/identity"
	"github.com/atelierhub/workshop-hub-api/internal/model"
	"github.com/atelierhub/workshop-hub-api/internal/poster"
	"github.com/atelierhub/workshop-hub-api/internal/repository"
	"github.com/atelierhub/workshop-hub-api/internal/trigger"
)

// WorkshopUsecase defines the admin-gated operations on the authoritative
// workshop documents. Every call re-checks the caller's admin claim before
// touching the store; derived copies are maintained by the trigger worker
// reacting to the events published here.
type WorkshopUsecase interface {
	CreateWorkshop(ctx context.Context, callerID string, params CreateWorkshopParams) (*model.Workshop, error)
	GetWorkshop(ctx context.Context, callerID, id string) (*model.Workshop, error)
	ListWorkshops(ctx context.Context, callerID string) ([]*model.Workshop, error)
	UpdateWorkshop(ctx context.Context, callerID, id string, params repository.UpdateWorkshopParams) (*model.Workshop, error)
	DeleteWorkshop(ctx context.Context, callerID, id string) error

	// UploadPoster stores a workshop's poster original and hands derivation
	// of the resized variants to the trigger worker.
	UploadPoster(ctx context.Context, callerID, id, contentType string, content []byte) error
}

// CreateWorkshopParams defines the parameters for creating a workshop.
// The links are optional and stored only when present.
type CreateWorkshopParams struct {
	Name           string
	Description    string
	Datetime       time.Time
	NewSignupEmail string
	VideoCallLink  *string
	FeedbackLink   *string
	RecordingLink  *string
}

type workshopUsecase struct {
	workshopRepo repository.WorkshopRepository
	provider     identity.Provider
	publisher    trigger.Publisher
	store        poster.ObjectStore
}

func NewWorkshopUsecase(
	workshopRepo repository.WorkshopRepository,
	provider identity.Provider,
	publisher trigger.Publisher,
	store poster.ObjectStore,
) WorkshopUsecase {
	return &workshopUsecase{
		workshopRepo: workshopRepo,
		provider:     provider,
		publisher:    publisher,
		store:        store,
	}
}

func (u *workshopUsecase) CreateWorkshop(
	ctx context.Context,
	callerID string,
	params CreateWorkshopParams,
) (*model.Workshop, error) {
	if err := requireAdmin(ctx, u.provider, callerID); err != nil {
		return nil, err
	}

	workshop, err := u.workshopRepo.CreateWorkshop(ctx, &model.Workshop{
		ID:             uuid.NewString(),
		Name:           params.Name,
		Description:    params.Description,
		Datetime:       params.Datetime,
		NewSignupEmail: params.NewSignupEmail,
		VideoCallLink:  params.VideoCallLink,
		FeedbackLink:   params.FeedbackLink,
		RecordingLink:  params.RecordingLink,
	})
	if err != nil {
		return nil, err
	}

	if err := u.publisher.Publish(ctx, trigger.Event{
		Type:     trigger.EventWorkshopCreated,
		Workshop: workshop,
	}); err != nil {
		return nil, err
	}

	return workshop, nil
}

func (u *workshopUsecase) GetWorkshop(ctx context.Context, callerID, id string) (*model.Workshop, error) {
	if err := requireAdmin(ctx, u.provider, callerID); err != nil {
		return nil, err
	}

	workshop, err := u.workshopRepo.GetWorkshop(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrWorkshopNotFound
		}
		return nil, err
	}

	return workshop, nil
}

func (u *workshopUsecase) ListWorkshops(ctx context.Context, callerID string) ([]*model.Workshop, error) {
	if err := requireAdmin(ctx, u.provider, callerID); err != nil {
		return nil, err
	}

	return u.workshopRepo.ListWorkshops(ctx)
}

func (u *workshopUsecase) UpdateWorkshop(
	ctx context.Context,
	callerID, id string,
	params repository.UpdateWorkshopParams,
) (*model.Workshop, error) {
	if params.IsZero() {
		return nil, ErrNoUpdateFields
	}

	if err := requireAdmin(ctx, u.provider, callerID); err != nil {
		return nil, err
	}

	before, err := u.workshopRepo.GetWorkshop(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrWorkshopNotFound
		}
		return nil, err
	}

	after, err := u.workshopRepo.UpdateWorkshop(ctx, id, params)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrWorkshopNotFound
		}
		return nil, err
	}

	if err := u.publisher.Publish(ctx, trigger.Event{
		Type:     trigger.EventWorkshopUpdated,
		Before:   before,
		Workshop: after,
	}); err != nil {
		return nil, err
	}

	return after, nil
}

func (u *workshopUsecase) DeleteWorkshop(ctx context.Context, callerID, id string) error {
	if err := requireAdmin(ctx, u.provider, callerID); err != nil {
		return err
	}

	deleted, err := u.workshopRepo.DeleteWorkshop(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrWorkshopNotFound
		}
		return err
	}

	return u.publisher.Publish(ctx, trigger.Event{
		Type:   trigger.EventWorkshopDeleted,
		Before: deleted,
	})
}

func (u *workshopUsecase) UploadPoster(
	ctx context.Context,
	callerID, id, contentType string,
	content []byte,
) error {
	if err := requireAdmin(ctx, u.provider, callerID); err != nil {
		return err
	}

	if _, err := u.workshopRepo.GetWorkshop(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrWorkshopNotFound
		}
		return err
	}

	key := poster.Key(id)
	if err := u.store.Upload(ctx, key, contentType, bytes.NewReader(content), nil); err != nil {
		return err
	}

	return u.publisher.Publish(ctx, trigger.Event{
		Type:      trigger.EventPosterUploaded,
		PosterKey: key,
	})
}
