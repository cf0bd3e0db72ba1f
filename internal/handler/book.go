package handler

import (
	"log/slog"
	"net/http"

	"github.com/efreitasn/bookswap/internal/domain"
	"github.com/efreitasn/bookswap/internal/service"
	"github.com/go-chi/chi/v5"
)

// BookHandler handles HTTP requests for the book catalog.
type BookHandler struct {
	bookSvc *service.BookService
	logger  *slog.Logger
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(bookSvc *service.BookService, logger *slog.Logger) *BookHandler {
	return &BookHandler{bookSvc: bookSvc, logger: logger}
}

// bookDetailsRequest is the JSON shape of a book as submitted by clients.
type bookDetailsRequest struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Genre         string   `json:"genre"`
	Description   string   `json:"description"`
	Rating        *float64 `json:"rating"`
	ReadingTime   string   `json:"readingTime"`
	Condition     string   `json:"condition"`
	DatePublished string   `json:"datePublished"`
	ISBN          string   `json:"isbn"`
	CoverImage    string   `json:"coverImage"`
	TradeStatus   string   `json:"tradeStatus"`
}

func (d bookDetailsRequest) toService() service.BookDetails {
	return service.BookDetails{
		Title:         d.Title,
		Author:        d.Author,
		Genre:         d.Genre,
		Description:   d.Description,
		Rating:        d.Rating,
		ReadingTime:   d.ReadingTime,
		Condition:     d.Condition,
		DatePublished: d.DatePublished,
		ISBN:          d.ISBN,
		CoverImage:    d.CoverImage,
		TradeStatus:   d.TradeStatus,
	}
}

// createBookRequest is the JSON request body for POST /api/books.
type createBookRequest struct {
	UserID      string              `json:"userId"`
	BookDetails *bookDetailsRequest `json:"bookDetails"`
}

// updateBookRequest is the JSON request body for PUT /api/books/{bookId}.
// Omitted fields keep their current value.
type updateBookRequest struct {
	Title         *string  `json:"title"`
	Author        *string  `json:"author"`
	Genre         *string  `json:"genre"`
	Description   *string  `json:"description"`
	Rating        *float64 `json:"rating"`
	ReadingTime   *string  `json:"readingTime"`
	Condition     *string  `json:"condition"`
	DatePublished *string  `json:"datePublished"`
	ISBN          *string  `json:"isbn"`
	CoverImage    *string  `json:"coverImage"`
	TradeStatus   *string  `json:"tradeStatus"`
}

type deleteBookResponse struct {
	Message string       `json:"message"`
	Book    *domain.Book `json:"book"`
}

// Create handles POST /api/books.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.UserID == "" {
		WriteError(w, http.StatusBadRequest, "validation_error", "userId is required")
		return
	}
	if req.BookDetails == nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "bookDetails is required")
		return
	}

	book, err := h.bookSvc.Create(r.Context(), req.UserID, req.BookDetails.toService())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusCreated, book)
}

// List handles GET /api/books. The optional title query parameter filters
// by title prefix.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookSvc.List(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, bookListResponse{Books: books})
}

// ListAllUploaded handles GET /api/books/all-uploaded.
func (h *BookHandler) ListAllUploaded(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookSvc.ListAllUploaded(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, bookListResponse{Books: books})
}

// Get handles GET /api/books/{bookId}.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.bookSvc.Get(r.Context(), chi.URLParam(r, "bookId"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, book)
}

// Update handles PUT /api/books/{bookId}.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateBookRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	book, err := h.bookSvc.Update(r.Context(), chi.URLParam(r, "bookId"), service.UpdateBookRequest{
		Title:         req.Title,
		Author:        req.Author,
		Genre:         req.Genre,
		Description:   req.Description,
		Rating:        req.Rating,
		ReadingTime:   req.ReadingTime,
		Condition:     req.Condition,
		DatePublished: req.DatePublished,
		ISBN:          req.ISBN,
		CoverImage:    req.CoverImage,
		TradeStatus:   req.TradeStatus,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, book)
}

// Delete handles DELETE /api/books/{bookId}.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	book, err := h.bookSvc.Delete(r.Context(), chi.URLParam(r, "bookId"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, deleteBookResponse{Message: "Book deleted", Book: book})
}
