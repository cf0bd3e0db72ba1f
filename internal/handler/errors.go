package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/efreitasn/bookswap/internal/domain"
)

// writeServiceError maps a service error to its HTTP response. Anything
// not recognised is logged and reported as a 500 without details.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	var storageErr *domain.StorageError
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		WriteError(w, http.StatusNotFound, "user_not_found", "User not found")
	case errors.Is(err, domain.ErrBookNotFound):
		WriteError(w, http.StatusNotFound, "book_not_found", "Book not found")
	case errors.Is(err, domain.ErrTradeRequestNotFound):
		WriteError(w, http.StatusNotFound, "trade_request_not_found", "Trade request not found")
	case errors.Is(err, domain.ErrWebhookNotFound):
		WriteError(w, http.StatusNotFound, "webhook_not_found", "Webhook not found")
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrUserAlreadyExists):
		WriteError(w, http.StatusConflict, "user_already_exists", "A user with this email or username already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	case errors.Is(err, domain.ErrSearchUnavailable):
		logger.Warn("book search failed", "path", r.URL.Path, "error", err)
		WriteError(w, http.StatusBadGateway, "search_unavailable", "Book search is currently unavailable")
	case errors.As(err, &storageErr):
		logger.Error("storage failure", "path", r.URL.Path, "op", storageErr.Op, "error", storageErr.Err)
		WriteError(w, http.StatusInternalServerError, "storage_failure", "The operation could not be completed")
	default:
		logger.Error("unhandled error", "path", r.URL.Path, "error", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
