package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	membererrors "deskhive/internal/members/errors"
	"deskhive/pkg/config"
	mongotx "deskhive/pkg/db/mongo"
	"deskhive/pkg/model"
)

const CollectionName = "Members"

type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	FindByID(ctx context.Context, id string) (*model.Member, error)
	FindByEmail(ctx context.Context, email string) (*model.Member, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Member, error)
	Update(ctx context.Context, id string, member *model.Member) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoMemberRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoMemberRepository(cfg *config.Config, client *mongo.Client) MemberRepository {
	return &mongoMemberRepository{
		cfg:        cfg,
		collection: client.Database(cfg.MongoDatabaseName).Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(client),
	}
}

// withTimeout wraps the context with a timeout unless it is a session
// context, which cannot be wrapped without breaking transaction
// semantics.
func (r *mongoMemberRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoMemberRepository) Create(ctx context.Context, member *model.Member) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	member.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, member); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return membererrors.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

func (r *mongoMemberRepository) FindByID(ctx context.Context, id string) (*model.Member, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var member model.Member
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, membererrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return &member, nil
}

func (r *mongoMemberRepository) FindByEmail(ctx context.Context, email string) (*model.Member, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var member model.Member
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, membererrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member by email: %w", err)
	}
	return &member, nil
}

func (r *mongoMemberRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Member, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find members: %w", err)
	}
	defer cursor.Close(ctx)

	var members []*model.Member
	if err = cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to decode members: %w", err)
	}
	return members, nil
}

func (r *mongoMemberRepository) Update(ctx context.Context, id string, member *model.Member) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":    member.Name,
		"email":   member.Email,
		"phone":   member.Phone,
		"company": member.Company,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, membererrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, membererrors.ErrNotFound
	}
	return result, nil
}

func (r *mongoMemberRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if result.DeletedCount == 0 {
		return membererrors.ErrNotFound
	}
	return nil
}

func (r *mongoMemberRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}

func (r *mongoMemberRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
