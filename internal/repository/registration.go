package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/atelierhub/workshop-hub-api/internal/model"
	"github.com/atelierhub/workshop-hub-api/shared/patch"
)

// RegistrationRepository is the single owner of the registration join pair.
// A workshop_users document and its mirror user_workshops document are only
// ever created, mutated, and destroyed together, inside one transaction, so
// the two sides can never be observed to diverge.
type RegistrationRepository interface {
	Register(ctx context.Context, workshopUser *model.WorkshopUser, userWorkshop *model.UserWorkshop) error
	Unregister(ctx context.Context, userID, workshopID string) error
	SetConsent(ctx context.Context, userID, workshopID string, consent bool) error
	ListWorkshopUsers(ctx context.Context, workshopID string) ([]*model.WorkshopUser, error)
	ListUserWorkshops(ctx context.Context, userID string) ([]*model.UserWorkshop, error)
	PatchUserCopies(ctx context.Context, workshopID string, p patch.Patch) (int64, error)
	DeleteByWorkshop(ctx context.Context, workshopID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

const (
	workshopUserCollection = "workshop_users"
	userWorkshopCollection = "user_workshops"
)

type registrationMongoRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewRegistrationMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	client *mongo.Client,
	db *mongo.Database,
) RegistrationRepository {
	pairIndex := func(first, second string) []mongo.IndexModel {
		return []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: first, Value: 1}, {Key: second, Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		}
	}

	if _, err := db.Collection(workshopUserCollection).Indexes().
		CreateMany(ctx, pairIndex("workshop_id", "user_id")); err != nil {
		logger.Fatal().Err(err).Msg("failed to create workshop_users indexes")
	}

	if _, err := db.Collection(userWorkshopCollection).Indexes().
		CreateMany(ctx, pairIndex("user_id", "workshop_id")); err != nil {
		logger.Fatal().Err(err).Msg("failed to create user_workshops indexes")
	}

	return &registrationMongoRepository{client: client, db: db}
}

func (r *registrationMongoRepository) Register(
	ctx context.Context,
	workshopUser *model.WorkshopUser,
	userWorkshop *model.UserWorkshop,
) error {
	now := time.Now()
	workshopUser.CreatedAt = now
	userWorkshop.CreatedAt = now

	return r.inTransaction(ctx, func(ctx context.Context) error {
		if _, err := r.db.Collection(workshopUserCollection).InsertOne(ctx, workshopUser); err != nil {
			return err
		}

		_, err := r.db.Collection(userWorkshopCollection).InsertOne(ctx, userWorkshop)
		return err
	})
}

func (r *registrationMongoRepository) Unregister(ctx context.Context, userID, workshopID string) error {
	filter := bson.M{"workshop_id": workshopID, "user_id": userID}

	return r.inTransaction(ctx, func(ctx context.Context) error {
		result, err := r.db.Collection(workshopUserCollection).DeleteOne(ctx, filter)
		if err != nil {
			return err
		}
		if result.DeletedCount == 0 {
			return mongo.ErrNoDocuments
		}

		result, err = r.db.Collection(userWorkshopCollection).DeleteOne(ctx, filter)
		if err != nil {
			return err
		}
		if result.DeletedCount == 0 {
			return mongo.ErrNoDocuments
		}

		return nil
	})
}

func (r *registrationMongoRepository) SetConsent(
	ctx context.Context,
	userID, workshopID string,
	consent bool,
) error {
	filter := bson.M{"workshop_id": workshopID, "user_id": userID}
	update := bson.M{"$set": bson.M{"consent_to_emails": consent}}

	return r.inTransaction(ctx, func(ctx context.Context) error {
		result, err := r.db.Collection(workshopUserCollection).UpdateOne(ctx, filter, update)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return mongo.ErrNoDocuments
		}

		result, err = r.db.Collection(userWorkshopCollection).UpdateOne(ctx, filter, update)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return mongo.ErrNoDocuments
		}

		return nil
	})
}

func (r *registrationMongoRepository) ListWorkshopUsers(
	ctx context.Context,
	workshopID string,
) ([]*model.WorkshopUser, error) {
	cursor, err := r.db.Collection(workshopUserCollection).Find(ctx, bson.M{"workshop_id": workshopID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var registrants []*model.WorkshopUser
	for cursor.Next(ctx) {
		var registrant model.WorkshopUser
		if err := cursor.Decode(&registrant); err != nil {
			return nil, err
		}
		registrants = append(registrants, &registrant)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return registrants, nil
}

func (r *registrationMongoRepository) ListUserWorkshops(
	ctx context.Context,
	userID string,
) ([]*model.UserWorkshop, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "datetime", Value: 1}})

	cursor, err := r.db.Collection(userWorkshopCollection).Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workshops []*model.UserWorkshop
	for cursor.Next(ctx) {
		var workshop model.UserWorkshop
		if err := cursor.Decode(&workshop); err != nil {
			return nil, err
		}
		workshops = append(workshops, &workshop)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return workshops, nil
}

// PatchUserCopies applies a sparse workshop patch to every registrant's
// denormalized copy. A nil value in the patch removes the field (a cleared
// optional link); anything else is set. The registrant's consent flag is
// never part of the patch.
func (r *registrationMongoRepository) PatchUserCopies(
	ctx context.Context,
	workshopID string,
	p patch.Patch,
) (int64, error) {
	if p.IsEmpty() {
		return 0, nil
	}

	setMap := bson.M{}
	unsetMap := bson.M{}
	for field, value := range p {
		if value == nil {
			unsetMap[field] = ""
			continue
		}
		setMap[field] = value
	}

	update := bson.M{}
	if len(setMap) > 0 {
		update["$set"] = setMap
	}
	if len(unsetMap) > 0 {
		update["$unset"] = unsetMap
	}

	result, err := r.db.Collection(userWorkshopCollection).UpdateMany(
		ctx,
		bson.M{"workshop_id": workshopID},
		update,
	)
	if err != nil {
		return 0, err
	}

	return result.ModifiedCount, nil
}

// DeleteByWorkshop removes every join document referencing the workshop on
// both sides. The deletes run concurrently and are not transactional; a
// partial failure is surfaced to the caller and retried by the trigger worker.
func (r *registrationMongoRepository) DeleteByWorkshop(ctx context.Context, workshopID string) error {
	return r.deleteBothSides(ctx, bson.M{"workshop_id": workshopID})
}

// DeleteByUser removes every join document referencing the user on both sides.
func (r *registrationMongoRepository) DeleteByUser(ctx context.Context, userID string) error {
	return r.deleteBothSides(ctx, bson.M{"user_id": userID})
}

func (r *registrationMongoRepository) deleteBothSides(ctx context.Context, filter bson.M) error {
	group, groupCtx := errgroup.WithContext(ctx)

	for _, collection := range []string{workshopUserCollection, userWorkshopCollection} {
		group.Go(func() error {
			_, err := r.db.Collection(collection).DeleteMany(groupCtx, filter)
			return err
		})
	}

	return group.Wait()
}

func (r *registrationMongoRepository) inTransaction(
	ctx context.Context,
	fn func(ctx context.Context) error,
) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})
	return err
}
