package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/efreitasn/bookswap/internal/domain"
	"github.com/google/uuid"
)

// BookDetails carries the user-supplied fields of a book. DatePublished
// accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
type BookDetails struct {
	Title         string
	Author        string
	Genre         string
	Description   string
	Rating        *float64
	ReadingTime   string
	Condition     string
	DatePublished string
	ISBN          string
	CoverImage    string
	TradeStatus   string
}

// UpdateBookRequest lists the fields to change; nil fields are left as is.
type UpdateBookRequest struct {
	Title         *string
	Author        *string
	Genre         *string
	Description   *string
	Rating        *float64
	ReadingTime   *string
	Condition     *string
	DatePublished *string
	ISBN          *string
	CoverImage    *string
	TradeStatus   *string
}

// BookService handles the book catalog.
type BookService struct {
	books Books
	users Users
}

// NewBookService creates a new BookService.
func NewBookService(books Books, users Users) *BookService {
	return &BookService{
		books: books,
		users: users,
	}
}

// Create validates details and stores a new book owned by ownerID.
func (s *BookService) Create(ctx context.Context, ownerID string, details BookDetails) (*domain.Book, error) {
	if _, err := s.users.Get(ctx, ownerID); err != nil {
		return nil, err
	}
	book, err := newBook(ownerID, details)
	if err != nil {
		return nil, err
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// newBook validates details and builds an unsaved book.
func newBook(ownerID string, d BookDetails) (*domain.Book, error) {
	for _, f := range []struct{ name, value string }{
		{"title", d.Title},
		{"author", d.Author},
		{"genre", d.Genre},
		{"description", d.Description},
		{"isbn", d.ISBN},
	} {
		if strings.TrimSpace(f.value) == "" {
			return nil, &domain.ValidationError{Message: f.name + " is required"}
		}
	}
	if err := validateRating(d.Rating); err != nil {
		return nil, err
	}
	if d.DatePublished == "" {
		return nil, &domain.ValidationError{Message: "datePublished is required"}
	}
	published, err := parseDate(d.DatePublished)
	if err != nil {
		return nil, err
	}
	status, err := parseBookStatus(d.TradeStatus)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &domain.Book{
		ID:            uuid.New().String(),
		Title:         strings.TrimSpace(d.Title),
		Author:        strings.TrimSpace(d.Author),
		Genre:         strings.TrimSpace(d.Genre),
		Description:   d.Description,
		Rating:        d.Rating,
		ReadingTime:   d.ReadingTime,
		Condition:     d.Condition,
		DatePublished: published,
		ISBN:          strings.TrimSpace(d.ISBN),
		CoverImage:    d.CoverImage,
		OwnerID:       ownerID,
		TradeStatus:   status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func validateRating(r *float64) error {
	if r != nil && (*r < 0 || *r > 5) {
		return &domain.ValidationError{Message: "rating must be between 0 and 5"}
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, &domain.ValidationError{
		Message: fmt.Sprintf("datePublished must be an RFC 3339 timestamp or YYYY-MM-DD date, got %q", s),
	}
}

func parseBookStatus(s string) (domain.BookTradeStatus, error) {
	if s == "" {
		return domain.BookAvailable, nil
	}
	st := domain.BookTradeStatus(s)
	if !st.Valid() {
		return "", &domain.ValidationError{
			Message: fmt.Sprintf("Unknown tradeStatus: %s. Must be one of: available, traded, in progress", s),
		}
	}
	return st, nil
}

// Get returns a book by ID.
func (s *BookService) Get(ctx context.Context, id string) (*domain.Book, error) {
	return s.books.Get(ctx, id)
}

// List returns the catalog ordered by title. A non-empty titlePrefix
// narrows it to titles starting with the prefix.
func (s *BookService) List(ctx context.Context, titlePrefix string) ([]*domain.Book, error) {
	return s.books.List(ctx, strings.TrimSpace(titlePrefix))
}

// ListByOwner returns the books uploaded by a registered user.
func (s *BookService) ListByOwner(ctx context.Context, userID string) ([]*domain.Book, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.books.ListByOwner(ctx, userID)
}

// ListAllUploaded returns every registered user's uploads, grouped by user
// in directory order. Books whose owner was deleted are left out.
func (s *BookService) ListAllUploaded(ctx context.Context) ([]*domain.Book, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Book, 0)
	for _, u := range users {
		books, err := s.books.ListByOwner(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, books...)
	}
	return result, nil
}

// Update applies the non-nil fields of req to a book.
func (s *BookService) Update(ctx context.Context, id string, req UpdateBookRequest) (*domain.Book, error) {
	book, err := s.books.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		name  string
		value *string
		dst   *string
	}{
		{"title", req.Title, &book.Title},
		{"author", req.Author, &book.Author},
		{"genre", req.Genre, &book.Genre},
		{"description", req.Description, &book.Description},
		{"isbn", req.ISBN, &book.ISBN},
	} {
		if f.value == nil {
			continue
		}
		if strings.TrimSpace(*f.value) == "" {
			return nil, &domain.ValidationError{Message: f.name + " must not be empty"}
		}
		*f.dst = strings.TrimSpace(*f.value)
	}

	if req.Rating != nil {
		if err := validateRating(req.Rating); err != nil {
			return nil, err
		}
		book.Rating = req.Rating
	}
	if req.ReadingTime != nil {
		book.ReadingTime = *req.ReadingTime
	}
	if req.Condition != nil {
		book.Condition = *req.Condition
	}
	if req.CoverImage != nil {
		book.CoverImage = *req.CoverImage
	}
	if req.DatePublished != nil {
		published, err := parseDate(*req.DatePublished)
		if err != nil {
			return nil, err
		}
		book.DatePublished = published
	}
	if req.TradeStatus != nil {
		if *req.TradeStatus == "" {
			return nil, &domain.ValidationError{Message: "tradeStatus must not be empty"}
		}
		status, err := parseBookStatus(*req.TradeStatus)
		if err != nil {
			return nil, err
		}
		book.TradeStatus = status
	}

	book.UpdatedAt = time.Now().UTC()
	if err := s.books.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// Delete removes a book and returns the removed record.
func (s *BookService) Delete(ctx context.Context, id string) (*domain.Book, error) {
	return s.books.Delete(ctx, id)
}
