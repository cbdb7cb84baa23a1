package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"deskhive/internal/migrations/mongo/validators"
)

var (
	ResourcesIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "name", Value: 1},
				{Key: "site", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{
			{Key: "kind", Value: 1},
			{Key: "site", Value: 1},
		}},
	}

	MembersIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "resource_id", Value: 1},
			{Key: "window.date", Value: 1},
			{Key: "status", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "owner_id", Value: 1},
			{Key: "window.date", Value: 1},
		}},
	}

	BlocksIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "resource_id", Value: 1},
			{Key: "window.date", Value: 1},
		}},
	}

	WaitlistIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "resource_id", Value: 1},
				{Key: "party_id", Value: 1},
				{Key: "window.date", Value: 1},
				{Key: "window.start", Value: 1},
				{Key: "window.end", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{
			{Key: "resource_id", Value: 1},
			{Key: "joined_at", Value: 1},
		}},
	}

	AuditIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "resource_id", Value: 1},
			{Key: "at", Value: 1},
		}},
		{Keys: bson.D{{Key: "actor", Value: 1}}},
	}

	// Lock documents expire once expires_at passes, so a crashed
	// holder cannot wedge its resource.
	LocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running DeskHive Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Resources": {
			Indexes:   ResourcesIndexes,
			Validator: validators.ResourceValidator,
		},
		"Members": {
			Indexes:   MembersIndexes,
			Validator: validators.MemberValidator,
		},
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"Blocks": {
			Indexes:   BlocksIndexes,
			Validator: validators.BlockValidator,
		},
		"Waitlist": {
			Indexes:   WaitlistIndexes,
			Validator: validators.WaitlistValidator,
		},
		"BookingAudit": {
			Indexes: AuditIndexes,
		},
		"Resource_locks": {
			Indexes: LocksIndexes,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts = opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	if validator == nil {
		return nil
	}

	fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
