package kafka

import (
	"errors"
	"strings"
)

var (
	ErrProducerClosed = errors.New("kafka producer is closed")

	ErrConsumerClosed = errors.New("kafka consumer is closed")

	ErrInvalidMessage = errors.New("invalid message")

	ErrEmptyKey = errors.New("message key cannot be empty")

	ErrEmptyValue = errors.New("message value cannot be empty")
)

// ErrorType classifies a processing failure for retry purposes.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota

	// ErrorTypeTransient covers network issues and timeouts; retried.
	ErrorTypeTransient

	// ErrorTypePermanent covers bad payloads and schema mismatches;
	// never retried.
	ErrorTypePermanent
)

// ProcessingError wraps a handler failure with its retry classification.
type ProcessingError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

func NewTransientError(message string, err error) *ProcessingError {
	return &ProcessingError{Type: ErrorTypeTransient, Message: message, Err: err}
}

func NewPermanentError(message string, err error) *ProcessingError {
	return &ProcessingError{Type: ErrorTypePermanent, Message: message, Err: err}
}

var transientPatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"timeout",
	"deadline exceeded",
	"no such host",
	"network is unreachable",
	"temporary failure",
}

// ClassifyError resolves an error to a retry class. Explicitly wrapped
// errors keep their class; everything else is matched against known
// transient failure patterns and defaults to permanent.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}

	var procErr *ProcessingError
	if errors.As(err, &procErr) {
		return procErr.Type
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return ErrorTypeTransient
		}
	}

	return ErrorTypePermanent
}

// ShouldRetry reports whether a failed message gets another attempt.
func ShouldRetry(err error, currentRetries, maxRetries int) bool {
	if err == nil {
		return false
	}
	if currentRetries >= maxRetries {
		return false
	}
	return ClassifyError(err) == ErrorTypeTransient
}
