package errors

import "errors"

var (
	ErrNotFound       = errors.New("member not found")
	ErrDuplicateEmail = errors.New("member with this email already exists")
)
