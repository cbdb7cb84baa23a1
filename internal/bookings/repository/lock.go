package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "deskhive/internal/bookings/errors"
	"deskhive/pkg/config"
	"deskhive/pkg/model"
)

const LocksCollection = "Resource_locks"

// ResourceLockRepository provides cross-instance advisory locks, one
// per resource. The TTL index on expires_at reaps abandoned locks.
type ResourceLockRepository interface {
	Acquire(ctx context.Context, resourceID string, owner string) (string, error)
	Release(ctx context.Context, lockID string) error
}

type mongoResourceLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewResourceLockRepository(cfg *config.Config, client *mongo.Client) ResourceLockRepository {
	return &mongoResourceLockRepository{
		cfg:        cfg,
		collection: client.Database(cfg.MongoDatabaseName).Collection(LocksCollection),
	}
}

// Acquire inserts the lock document. A duplicate key error means
// another writer holds the resource.
func (r *mongoResourceLockRepository) Acquire(ctx context.Context, resourceID string, owner string) (string, error) {
	now := time.Now().UTC()
	lock := &model.ResourceLock{
		ID:        "resource:" + resourceID,
		Owner:     owner,
		CreatedAt: now,
		ExpiresAt: now.Add(r.cfg.ResourceLockTTL),
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", bookingserrors.ErrLockNotAcquired
		}
		return "", err
	}
	return lock.ID, nil
}

func (r *mongoResourceLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
