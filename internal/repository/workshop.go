package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/atelierhub/workshop-hub-api/internal/model"
)

// WorkshopRepository defines the interface for admin workshop operations.
type WorkshopRepository interface {
	CreateWorkshop(ctx context.Context, workshop *model.Workshop) (*model.Workshop, error)
	GetWorkshop(ctx context.Context, id string) (*model.Workshop, error)
	UpdateWorkshop(ctx context.Context, id string, params UpdateWorkshopParams) (*model.Workshop, error)
	DeleteWorkshop(ctx context.Context, id string) (*model.Workshop, error)
	ListWorkshops(ctx context.Context) ([]*model.Workshop, error)
}

// UpdateWorkshopParams defines the optional parameters for updating a
// workshop. Only the fields that are not nil will be written; an optional
// link supplied as the empty string is removed from the document.
type UpdateWorkshopParams struct {
	Name           *string
	Description    *string
	Datetime       *time.Time
	VideoCallLink  *string
	FeedbackLink   *string
	RecordingLink  *string
	NewSignupEmail *string
}

// IsZero reports whether no field is set.
func (p UpdateWorkshopParams) IsZero() bool {
	return p.Name == nil &&
		p.Description == nil &&
		p.Datetime == nil &&
		p.VideoCallLink == nil &&
		p.FeedbackLink == nil &&
		p.RecordingLink == nil &&
		p.NewSignupEmail == nil
}

const workshopCollection = "workshops"

type workshopMongoRepository struct {
	db *mongo.Database
}

func NewWorkshopMongoRepository(db *mongo.Database) WorkshopRepository {
	return &workshopMongoRepository{db: db}
}

func (r *workshopMongoRepository) CreateWorkshop(
	ctx context.Context,
	workshop *model.Workshop,
) (*model.Workshop, error) {
	now := time.Now()
	workshop.CreatedAt = now
	workshop.UpdatedAt = now

	if _, err := r.db.Collection(workshopCollection).InsertOne(ctx, workshop); err != nil {
		return nil, err
	}

	return workshop, nil
}

func (r *workshopMongoRepository) GetWorkshop(ctx context.Context, id string) (*model.Workshop, error) {
	result := r.db.Collection(workshopCollection).FindOne(ctx, bson.M{"_id": id})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var workshop model.Workshop
	if err := result.Decode(&workshop); err != nil {
		return nil, err
	}

	return &workshop, nil
}

func (r *workshopMongoRepository) UpdateWorkshop(
	ctx context.Context,
	id string,
	params UpdateWorkshopParams,
) (*model.Workshop, error) {
	setMap := bson.M{}
	unsetMap := bson.M{}

	if params.Name != nil {
		setMap["name"] = *params.Name
	}
	if params.Description != nil {
		setMap["description"] = *params.Description
	}
	if params.Datetime != nil {
		setMap["datetime"] = *params.Datetime
	}
	if params.NewSignupEmail != nil {
		setMap["new_signup_email"] = *params.NewSignupEmail
	}

	setOrUnsetLink(setMap, unsetMap, "video_call_link", params.VideoCallLink)
	setOrUnsetLink(setMap, unsetMap, "feedback_link", params.FeedbackLink)
	setOrUnsetLink(setMap, unsetMap, "recording_link", params.RecordingLink)

	if len(setMap) == 0 && len(unsetMap) == 0 {
		return nil, errors.New("no workshop fields to update")
	}

	setMap["updated_at"] = time.Now()

	update := bson.M{"$set": setMap}
	if len(unsetMap) > 0 {
		update["$unset"] = unsetMap
	}

	result := r.db.Collection(workshopCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var workshop model.Workshop
	if err := result.Decode(&workshop); err != nil {
		return nil, err
	}

	return &workshop, nil
}

func (r *workshopMongoRepository) DeleteWorkshop(ctx context.Context, id string) (*model.Workshop, error) {
	result := r.db.Collection(workshopCollection).FindOneAndDelete(ctx, bson.M{"_id": id})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var workshop model.Workshop
	if err := result.Decode(&workshop); err != nil {
		return nil, err
	}

	return &workshop, nil
}

func (r *workshopMongoRepository) ListWorkshops(ctx context.Context) ([]*model.Workshop, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "datetime", Value: 1}})

	cursor, err := r.db.Collection(workshopCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workshops []*model.Workshop
	for cursor.Next(ctx) {
		var workshop model.Workshop
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

func setOrUnsetLink(setMap, unsetMap bson.M, field string, value *string) {
	if value == nil {
		return
	}
	if *value == "" {
		unsetMap[field] = ""
		return
	}
	setMap[field] = *value
}
