package trigger

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/atelierhub/workshop-hub-api/internal/model"
	"github.com/atelierhub/workshop-hub-api/internal/repository"
	"github.com/atelierhub/workshop-hub-api/shared/patch"
)

// Fanout keeps the public projection and every registrant's denormalized
// copy consistent with the admin workshop document. Any failure propagates
// to the worker, which requeues the event; there is no compensating action
// for a partial failure.
type Fanout struct {
	publicRepo       repository.PublicWorkshopRepository
	registrationRepo repository.RegistrationRepository
	logger           *zerolog.Logger
}

// NewFanout creates a Fanout over the derived-copy repositories.
func NewFanout(
	publicRepo repository.PublicWorkshopRepository,
	registrationRepo repository.RegistrationRepository,
	logger *zerolog.Logger,
) *Fanout {
	return &Fanout{
		publicRepo:       publicRepo,
		registrationRepo: registrationRepo,
		logger:           logger,
	}
}

// WorkshopCreated projects the new admin document into the public collection.
func (f *Fanout) WorkshopCreated(ctx context.Context, workshop *model.Workshop) error {
	return f.publicRepo.CreatePublicWorkshop(ctx, workshop.Public())
}

// WorkshopUpdated computes the two independent sparse patches and applies
// whichever is non-empty. The public patch is restricted to the publicly
// visible fields; the registrant patch additionally carries the links. Two
// patches rather than a full overwrite, so fields owned by the registrant
// (the consent flag) are never clobbered and untouched copies cost no write.
func (f *Fanout) WorkshopUpdated(ctx context.Context, before, after *model.Workshop) error {
	publicPatch, registrantPatch := WorkshopPatches(before, after)

	if !publicPatch.IsEmpty() {
		if err := f.publicRepo.ApplyPatch(ctx, after.ID, publicPatch); err != nil {
			return err
		}
	}

	if !registrantPatch.IsEmpty() {
		modified, err := f.registrationRepo.PatchUserCopies(ctx, after.ID, registrantPatch)
		if err != nil {
			return err
		}
		f.logger.Debug().
			Str("workshop_id", after.ID).
			Int64("copies", modified).
			Msg("patched registrant copies")
	}

	return nil
}

// WorkshopDeleted removes the public copy and every join document on both
// sides. The deletes are issued concurrently and all must finish before the
// event is acknowledged.
func (f *Fanout) WorkshopDeleted(ctx context.Context, workshop *model.Workshop) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return f.publicRepo.DeletePublicWorkshop(groupCtx, workshop.ID)
	})
	group.Go(func() error {
		return f.registrationRepo.DeleteByWorkshop(groupCtx, workshop.ID)
	})

	return group.Wait()
}

// UserDeleted removes every join document referencing the deleted user.
func (f *Fanout) UserDeleted(ctx context.Context, userID string) error {
	return f.registrationRepo.DeleteByUser(ctx, userID)
}

// WorkshopPatches returns the sparse public and registrant patches between
// two workshop snapshots.
func WorkshopPatches(before, after *model.Workshop) (publicPatch, registrantPatch patch.Patch) {
	beforeFields := before.DocFields()
	afterFields := after.DocFields()

	publicPatch = patch.Diff(beforeFields, afterFields, model.PublicFields...)
	registrantPatch = patch.Diff(beforeFields, afterFields, model.RegistrantFields...)
	return publicPatch, registrantPatch
}
