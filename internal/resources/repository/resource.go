package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	resourceerrors "deskhive/internal/resources/errors"
	"deskhive/pkg/config"
	mongotx "deskhive/pkg/db/mongo"
	"deskhive/pkg/model"
)

const CollectionName = "Resources"

type ResourceRepository interface {
	Create(ctx context.Context, resource *model.Resource) error
	FindByID(ctx context.Context, id string) (*model.Resource, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, error)
	FindByNameAndSite(ctx context.Context, name string, site string) (*model.Resource, error)
	SearchByKindAndSite(ctx context.Context, kind string, site string, limit int, offset int64) ([]*model.Resource, error)
	CountByKindAndSite(ctx context.Context, kind string, site string) (int64, error)
	Update(ctx context.Context, id string, resource *model.Resource) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoResourceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoResourceRepository(cfg *config.Config, client *mongo.Client) ResourceRepository {
	return &mongoResourceRepository{
		cfg:        cfg,
		collection: client.Database(cfg.MongoDatabaseName).Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(client),
	}
}

// withTimeout wraps the context with a timeout unless it is a session
// context, which cannot be wrapped without breaking transaction
// semantics.
func (r *mongoResourceRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoResourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	resource.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, resource); err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

func (r *mongoResourceRepository) FindByID(ctx context.Context, id string) (*model.Resource, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var resource model.Resource
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&resource)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, resourceerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find resource: %w", err)
	}
	return &resource, nil
}

func (r *mongoResourceRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "site", Value: 1}, {Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find resources: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []*model.Resource
	if err = cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode resources: %w", err)
	}
	return resources, nil
}

func (r *mongoResourceRepository) FindByNameAndSite(ctx context.Context, name string, site string) (*model.Resource, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var resource model.Resource
	err := r.collection.FindOne(ctx, bson.M{"name": name, "site": site}).Decode(&resource)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, resourceerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find resource by name: %w", err)
	}
	return &resource, nil
}

func (r *mongoResourceRepository) SearchByKindAndSite(ctx context.Context, kind string, site string, limit int, offset int64) ([]*model.Resource, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := searchFilter(kind, site)
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search resources: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []*model.Resource
	if err = cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode resources: %w", err)
	}
	return resources, nil
}

func (r *mongoResourceRepository) CountByKindAndSite(ctx context.Context, kind string, site string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, searchFilter(kind, site))
	if err != nil {
		return 0, fmt.Errorf("failed to count resources: %w", err)
	}
	return count, nil
}

func (r *mongoResourceRepository) Update(ctx context.Context, id string, resource *model.Resource) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"name":           resource.Name,
			"site":           resource.Site,
			"allow_waitlist": resource.AllowWaitlist,
			"description":    resource.Description,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update resource: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, resourceerrors.ErrNotFound
	}
	return result, nil
}

func (r *mongoResourceRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	if result.DeletedCount == 0 {
		return resourceerrors.ErrNotFound
	}
	return nil
}

func (r *mongoResourceRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count resources: %w", err)
	}
	return count, nil
}

func (r *mongoResourceRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func searchFilter(kind string, site string) bson.M {
	filter := bson.M{}
	if kind != "" {
		filter["kind"] = kind
	}
	if site != "" {
		filter["site"] = site
	}
	return filter
}
