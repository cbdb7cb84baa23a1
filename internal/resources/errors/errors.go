package errors

import "errors"

var (
	ErrNotFound = errors.New("resource not found")

	ErrDuplicateName = errors.New("resource name already used at this site")
)
