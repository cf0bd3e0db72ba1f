package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/efreitasn/bookswap/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// RegisterUserRequest represents the input for user registration.
type RegisterUserRequest struct {
	Name     string
	Username string
	Email    string
	Password string
}

// UserService handles registration, credential checks and the user directory.
type UserService struct {
	users     Users
	wishlists Wishlists
	webhooks  Webhooks
	hashCost  int
}

// NewUserService creates a new UserService. hashCost is the bcrypt cost;
// values outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewUserService(users Users, wishlists Wishlists, webhooks Webhooks, hashCost int) *UserService {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	return &UserService{
		users:     users,
		wishlists: wishlists,
		webhooks:  webhooks,
		hashCost:  hashCost,
	}
}

// Register validates the request, hashes the password and stores the user.
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*domain.User, error) {
	name := strings.TrimSpace(req.Name)
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if name == "" || username == "" || email == "" {
		return nil, &domain.ValidationError{Message: "name, username and email are required"}
	}
	if !strings.Contains(email, "@") {
		return nil, &domain.ValidationError{Message: "email must be a valid address"}
	}
	if len(req.Password) < minPasswordLength {
		return nil, &domain.ValidationError{Message: "password must be at least 6 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, &domain.ValidationError{Message: "password cannot be hashed"}
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login returns the user whose email and password match. Unknown email and
// wrong password both yield domain.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.Get(ctx, id)
}

// List returns every registered user.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// Delete removes a user together with its wishlist and webhook
// subscriptions. Trades referencing the user are kept.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.wishlists.DeleteUser(ctx, id); err != nil {
		return err
	}
	return s.webhooks.DeleteUser(ctx, id)
}
