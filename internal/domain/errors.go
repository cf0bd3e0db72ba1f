package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is the parent of every "does not resolve" error. The handler
// layer maps anything matching it to 404.
var ErrNotFound = errors.New("not_found")

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrUserNotFound         = &notFoundError{code: "user_not_found"}
	ErrBookNotFound         = &notFoundError{code: "book_not_found"}
	ErrTradeRequestNotFound = &notFoundError{code: "trade_request_not_found"}
	ErrWebhookNotFound      = &notFoundError{code: "webhook_not_found"}

	ErrUserAlreadyExists  = errors.New("user_already_exists")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrSearchUnavailable  = errors.New("search_unavailable")
)

// notFoundError is a distinct sentinel that also matches ErrNotFound.
type notFoundError struct {
	code string
}

func (e *notFoundError) Error() string {
	return e.code
}

func (e *notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StorageError wraps a failure of the underlying persistence layer.
// Op names the store operation that failed, e.g. "trades.create".
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a StorageError for op. It returns nil for a
// nil err so callers can wrap unconditionally.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
