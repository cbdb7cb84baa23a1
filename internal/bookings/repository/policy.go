package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "deskhive/internal/bookings/errors"
	"deskhive/pkg/config"
	"deskhive/pkg/model"
)

const ResourcesCollection = "Resources"

// PolicySource supplies the booking policy configured on a resource.
// Read-only to the engine.
type PolicySource interface {
	PolicyFor(ctx context.Context, resourceID string) (model.BookingPolicy, error)
}

type mongoPolicySource struct {
	collection *mongo.Collection
}

func NewMongoPolicySource(cfg *config.Config, client *mongo.Client) PolicySource {
	return &mongoPolicySource{
		collection: client.Database(cfg.MongoDatabaseName).Collection(ResourcesCollection),
	}
}

func (p *mongoPolicySource) PolicyFor(ctx context.Context, resourceID string) (model.BookingPolicy, error) {
	var resource model.Resource
	err := p.collection.FindOne(ctx, bson.M{"_id": resourceID}).Decode(&resource)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.BookingPolicy{}, bookingserrors.ErrResourceNotFound
		}
		return model.BookingPolicy{}, fmt.Errorf("failed to load resource policy: %w", err)
	}
	return resource.Policy(), nil
}
