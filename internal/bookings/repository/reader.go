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

// BookingReader is the lookup path outside the ledger: the cancel
// endpoint receives a booking ID and needs its resource before it can
// take the resource's write lock.
type BookingReader interface {
	FindBookingByID(ctx context.Context, id string) (*model.Booking, error)
}

type mongoBookingReader struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingReader(cfg *config.Config, client *mongo.Client) BookingReader {
	return &mongoBookingReader{
		cfg:        cfg,
		collection: client.Database(cfg.MongoDatabaseName).Collection(BookingsCollection),
	}
}

func (r *mongoBookingReader) FindBookingByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}
