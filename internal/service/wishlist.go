package service

import (
	"context"
	"errors"
	"strings"

	"github.com/efreitasn/bookswap/internal/domain"
)

// WishlistService manages users' wanted books.
type WishlistService struct {
	wishlists Wishlists
	books     Books
	users     Users
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(wishlists Wishlists, books Books, users Users) *WishlistService {
	return &WishlistService{
		wishlists: wishlists,
		books:     books,
		users:     users,
	}
}

// Add puts the book identified by details.ISBN on the user's wishlist.
// A book not yet in the catalog is created with the user as owner.
// Adding a book twice is a no-op. Returns the catalog book.
func (s *WishlistService) Add(ctx context.Context, userID string, details BookDetails) (*domain.Book, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(details.ISBN) == "" {
		return nil, &domain.ValidationError{Message: "isbn is required"}
	}

	book, err := s.books.GetByISBN(ctx, strings.TrimSpace(details.ISBN))
	if errors.Is(err, domain.ErrNotFound) {
		book, err = newBook(userID, details)
		if err != nil {
			return nil, err
		}
		if err := s.books.Create(ctx, book); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if _, err := s.wishlists.Add(ctx, userID, book.ID); err != nil {
		return nil, err
	}
	return book, nil
}

// List returns the books on the user's wishlist in the order they were
// added. Books deleted from the catalog are skipped.
func (s *WishlistService) List(ctx context.Context, userID string) ([]*domain.Book, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.wishlists.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.books.GetMany(ctx, ids)
}

// Remove drops bookID from the user's wishlist and returns the remaining ids.
// Removing a book that is not on the list is not an error.
func (s *WishlistService) Remove(ctx context.Context, userID, bookID string) ([]string, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.wishlists.Remove(ctx, userID, bookID); err != nil {
		return nil, err
	}
	return s.wishlists.List(ctx, userID)
}
