package handler

import (
	"log/slog"
	"net/http"

	"github.com/efreitasn/bookswap/internal/domain"
	"github.com/efreitasn/bookswap/internal/service"
	"github.com/go-chi/chi/v5"
)

// UserHandler handles HTTP requests for registration, login and the user
// directory.
type UserHandler struct {
	userSvc *service.UserService
	bookSvc *service.BookService
	logger  *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userSvc *service.UserService, bookSvc *service.BookService, logger *slog.Logger) *UserHandler {
	return &UserHandler{userSvc: userSvc, bookSvc: bookSvc, logger: logger}
}

// registerUserRequest is the JSON request body for POST /api/register.
type registerUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the JSON request body for POST /api/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userEnvelope struct {
	User *domain.User `json:"user"`
}

type userListResponse struct {
	Users []*domain.User `json:"users"`
}

type bookListResponse struct {
	Books []*domain.Book `json:"books"`
}

// Register handles POST /api/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, err := h.userSvc.Register(r.Context(), service.RegisterUserRequest{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, err := h.userSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, userEnvelope{User: user})
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, userListResponse{Users: users})
}

// Get handles GET /api/users/{userId} and GET /api/trade-user/{userId}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userSvc.Get(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /api/users/{userId}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.userSvc.Delete(r.Context(), chi.URLParam(r, "userId")); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBooks handles GET /api/users/{userId}/books.
func (h *UserHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookSvc.ListByOwner(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, bookListResponse{Books: books})
}
