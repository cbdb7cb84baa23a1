package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "deskhive"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultNotificationsTopic    = "deskhive.notifications"
	DefaultNotificationsDLQTopic = "deskhive.notifications.dlq"
	DefaultNotifierGroupID       = "deskhive-notifier"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Advisory lock TTL for per-resource write serialization. The window
	// covers the slowest expected evaluate+commit round trip.
	DefaultResourceLockTTL = 10 * time.Second

	DefaultMaxWaitlistLength = 100

	DefaultPaginationLimit = 100
)
