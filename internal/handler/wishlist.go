package handler

import (
	"log/slog"
	"net/http"

	"github.com/efreitasn/bookswap/internal/service"
	"github.com/go-chi/chi/v5"
)

// WishlistHandler handles HTTP requests for user wishlists.
type WishlistHandler struct {
	wishlistSvc *service.WishlistService
	logger      *slog.Logger
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(wishlistSvc *service.WishlistService, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{wishlistSvc: wishlistSvc, logger: logger}
}

// addWishlistRequest is the JSON request body for POST
// /api/users/{userId}/wishlist. userId is optional and must match the path.
type addWishlistRequest struct {
	UserID      string              `json:"userId"`
	BookDetails *bookDetailsRequest `json:"bookDetails"`
}

type removeWishlistResponse struct {
	Message  string   `json:"message"`
	Wishlist []string `json:"wishlist"`
}

// Add handles POST /api/users/{userId}/wishlist.
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req addWishlistRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.UserID != "" && req.UserID != userID {
		WriteError(w, http.StatusBadRequest, "validation_error", "userId does not match the path")
		return
	}
	if req.BookDetails == nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "bookDetails is required")
		return
	}

	book, err := h.wishlistSvc.Add(r.Context(), userID, req.BookDetails.toService())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, book)
}

// List handles GET /api/users/{userId}/wishlist.
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.wishlistSvc.List(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, bookListResponse{Books: books})
}

// Remove handles DELETE /api/users/{userId}/wishlist/{bookId}.
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ids, err := h.wishlistSvc.Remove(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "bookId"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	WriteJSON(w, http.StatusOK, removeWishlistResponse{
		Message:  "Book removed from wishlist",
		Wishlist: ids,
	})
}
