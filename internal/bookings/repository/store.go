package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"deskhive/internal/bookings/engine"
	"deskhive/pkg/config"
	mongotx "deskhive/pkg/db/mongo"
	"deskhive/pkg/model"
)

const (
	BookingsCollection = "Bookings"
	BlocksCollection   = "Blocks"
	WaitlistCollection = "Waitlist"
	AuditCollection    = "BookingAudit"
)

// mongoStore persists ledger state across three collections and commits
// a snapshot's mutations in a single multi-document transaction. Every
// committed mutation is also appended to the audit collection with its
// actor.
type mongoStore struct {
	cfg       *config.Config
	db        *mongo.Database
	policies  PolicySource
	txManager mongotx.TransactionManager
}

func NewMongoStore(cfg *config.Config, client *mongo.Client, policies PolicySource) engine.Store {
	return &mongoStore{
		cfg:       cfg,
		db:        client.Database(cfg.MongoDatabaseName),
		policies:  policies,
		txManager: mongotx.NewTransactionManager(client),
	}
}

// withTimeout wraps the context with a timeout unless it is a session
// context, which cannot be wrapped without breaking transaction
// semantics.
func (s *mongoStore) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (s *mongoStore) LoadLedger(ctx context.Context, resourceID string) (*engine.Ledger, error) {
	ctx, cancel := s.withTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	policy, err := s.policies.PolicyFor(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"resource_id": resourceID}

	var bookings []model.Booking
	cursor, err := s.db.Collection(BookingsCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	var blocks []model.Block
	cursor, err = s.db.Collection(BlocksCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocks: %w", err)
	}
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode blocks: %w", err)
	}

	var waitlist []model.WaitlistEntry
	cursor, err = s.db.Collection(WaitlistCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load waitlist: %w", err)
	}
	if err := cursor.All(ctx, &waitlist); err != nil {
		return nil, fmt.Errorf("failed to decode waitlist: %w", err)
	}

	return engine.NewLedger(resourceID, policy, bookings, blocks, waitlist), nil
}

func (s *mongoStore) Commit(ctx context.Context, resourceID string, mutations []engine.Mutation) error {
	if len(mutations) == 0 {
		return nil
	}

	ctx, cancel := s.withTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	return s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		for _, m := range mutations {
			if err := s.apply(sessCtx, m); err != nil {
				return fmt.Errorf("failed to apply %s: %w", m.Op, err)
			}
		}

		audit := make([]any, 0, len(mutations))
		for _, m := range mutations {
			audit = append(audit, m)
		}
		if _, err := s.db.Collection(AuditCollection).InsertMany(sessCtx, audit); err != nil {
			return fmt.Errorf("failed to record audit trail: %w", err)
		}
		return nil
	})
}

func (s *mongoStore) apply(ctx mongo.SessionContext, m engine.Mutation) error {
	switch m.Op {
	case engine.MutationAddBooking:
		_, err := s.db.Collection(BookingsCollection).InsertOne(ctx, m.Booking)
		return err

	case engine.MutationCancelBooking:
		result, err := s.db.Collection(BookingsCollection).UpdateOne(ctx,
			bson.M{"_id": m.Booking.ID},
			bson.M{"$set": bson.M{"status": model.BookingCancelled}},
		)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return fmt.Errorf("booking %s not found in store", m.Booking.ID)
		}
		return nil

	case engine.MutationAddBlock:
		_, err := s.db.Collection(BlocksCollection).InsertOne(ctx, m.Block)
		return err

	case engine.MutationRemoveBlock:
		_, err := s.db.Collection(BlocksCollection).DeleteOne(ctx, bson.M{"_id": m.Block.ID})
		return err

	case engine.MutationEnqueueWaitlist:
		_, err := s.db.Collection(WaitlistCollection).InsertOne(ctx, m.Waitlist)
		return err

	case engine.MutationRemoveWaitlist:
		_, err := s.db.Collection(WaitlistCollection).DeleteOne(ctx, bson.M{
			"resource_id":  m.Waitlist.ResourceID,
			"party_id":     m.Waitlist.PartyID,
			"window.date":  m.Waitlist.Window.Date,
			"window.start": m.Waitlist.Window.Start,
			"window.end":   m.Waitlist.Window.End,
		})
		return err

	default:
		return fmt.Errorf("unknown mutation op: %s", m.Op)
	}
}
