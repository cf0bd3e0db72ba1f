package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Message: "newStatus must be one of: accepted, rejected"}
	if err.Error() != "newStatus must be one of: accepted, rejected" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	errs := []error{
		ErrUserNotFound,
		ErrBookNotFound,
		ErrTradeRequestNotFound,
		ErrWebhookNotFound,
		ErrUserAlreadyExists,
		ErrInvalidCredentials,
		ErrSearchUnavailable,
	}
	for i := 0; i < len(errs); i++ {
		for j := i + 1; j < len(errs); j++ {
			if errors.Is(errs[i], errs[j]) {
				t.Errorf("sentinel errors %d and %d should be distinct", i, j)
			}
		}
	}
}

func TestNotFoundErrors_MatchErrNotFound(t *testing.T) {
	for _, err := range []error{ErrUserNotFound, ErrBookNotFound, ErrTradeRequestNotFound, ErrWebhookNotFound} {
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%v should match ErrNotFound", err)
		}
		wrapped := fmt.Errorf("lookup: %w", err)
		if !errors.Is(wrapped, ErrNotFound) || !errors.Is(wrapped, err) {
			t.Errorf("wrapped %v should match both ErrNotFound and itself", err)
		}
	}
	if errors.Is(ErrUserAlreadyExists, ErrNotFound) {
		t.Error("ErrUserAlreadyExists should not match ErrNotFound")
	}
}

func TestStorageError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("trades.create", cause)

	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StorageError, got %T", err)
	}
	if se.Op != "trades.create" {
		t.Errorf("Op = %q, want trades.create", se.Op)
	}
	if !errors.Is(err, cause) {
		t.Error("StorageError should unwrap to its cause")
	}
	if err.Error() != "trades.create: disk full" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestNewStorageError_Nil(t *testing.T) {
	if err := NewStorageError("users.save", nil); err != nil {
		t.Errorf("NewStorageError(nil) = %v, want nil", err)
	}
}
