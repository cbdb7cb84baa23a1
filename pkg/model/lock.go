package model

import "time"

// ResourceLock is an advisory lock document. Its _id is derived from
// the resource ID, so a unique-index violation on insert means another
// writer holds the resource. ExpiresAt backs a TTL index that reaps
// locks left behind by crashed holders.
type ResourceLock struct {
	ID        string    `bson:"_id"`
	Owner     string    `bson:"owner"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}
