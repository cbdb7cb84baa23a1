package client

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"deskhive/pkg/logger"
)

// ConnectMongo establishes and pings a MongoDB connection, exiting on
// failure. Every DeskHive binary goes through here.
func ConnectMongo(log *logger.Logger, uri string, connTimeout time.Duration) *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	return client
}

// DisconnectMongo closes the connection, logging rather than failing on
// error since it runs during shutdown.
func DisconnectMongo(log *logger.Logger, client *mongo.Client) {
	if client == nil {
		return
	}
	if err := client.Disconnect(context.Background()); err != nil {
		log.Error("Failed to disconnect from MongoDB", "error", err)
	}
}
