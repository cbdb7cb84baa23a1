package main

import (
	"context"
	"time"

	mongoMigration "deskhive/internal/migrations/mongo"
	"deskhive/pkg/client"
	"deskhive/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.Log.Info("Starting Mongo migration job")

	mongoClient := client.ConnectMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
	defer client.DisconnectMongo(cfg.Log, mongoClient)

	if err := mongoMigration.RunMigration(ctx, mongoClient, cfg.MongoDatabaseName); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}
