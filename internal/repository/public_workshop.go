package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/atelierhub/workshop-hub-api/internal/model"
	"github.com/atelierhub/workshop-hub-api/shared/patch"
)

// PublicWorkshopRepository defines the interface for the publicly readable
// workshop projection. Documents here are written only by fan-out; readers
// never need authentication.
type PublicWorkshopRepository interface {
	CreatePublicWorkshop(ctx context.Context, workshop *model.PublicWorkshop) error
	GetPublicWorkshop(ctx context.Context, id string) (*model.PublicWorkshop, error)
	ApplyPatch(ctx context.Context, id string, p patch.Patch) error
	DeletePublicWorkshop(ctx context.Context, id string) error
	ListPublicWorkshops(ctx context.Context) ([]*model.PublicWorkshop, error)
}

const publicWorkshopCollection = "public_workshops"

type publicWorkshopMongoRepository struct {
	db *mongo.Database
}

func NewPublicWorkshopMongoRepository(db *mongo.Database) PublicWorkshopRepository {
	return &publicWorkshopMongoRepository{db: db}
}

func (r *publicWorkshopMongoRepository) CreatePublicWorkshop(
	ctx context.Context,
	workshop *model.PublicWorkshop,
) error {
	_, err := r.db.Collection(publicWorkshopCollection).InsertOne(ctx, workshop)
	return err
}

func (r *publicWorkshopMongoRepository) GetPublicWorkshop(
	ctx context.Context,
	id string,
) (*model.PublicWorkshop, error) {
	result := r.db.Collection(publicWorkshopCollection).FindOne(ctx, bson.M{"_id": id})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var workshop model.PublicWorkshop
	if err := result.Decode(&workshop); err != nil {
		return nil, err
	}

	return &workshop, nil
}

func (r *publicWorkshopMongoRepository) ApplyPatch(ctx context.Context, id string, p patch.Patch) error {
	if p.IsEmpty() {
		return nil
	}

	_, err := r.db.Collection(publicWorkshopCollection).UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M(p)},
	)
	return err
}

func (r *publicWorkshopMongoRepository) DeletePublicWorkshop(ctx context.Context, id string) error {
	_, err := r.db.Collection(publicWorkshopCollection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *publicWorkshopMongoRepository) ListPublicWorkshops(ctx context.Context) ([]*model.PublicWorkshop, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "datetime", Value: 1}})

	cursor, err := r.db.Collection(publicWorkshopCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workshops []*model.PublicWorkshop
	for cursor.Next(ctx) {
		var workshop model.PublicWorkshop
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
