package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrResourceNotFound = errors.New("resource not found")

	// ErrLockNotAcquired means another writer holds the advisory lock for
	// the resource.
	ErrLockNotAcquired = errors.New("resource lock not acquired")
)
