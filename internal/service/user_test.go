package service

import (
	"errors"
	"testing"

	"github.com/efreitasn/bookswap/internal/domain"
)

func validRegistration() RegisterUserRequest {
	return RegisterUserRequest{
		Name:     "Ada Lovelace",
		Username: "ada",
		Email:    "ada@example.com",
		Password: "engine1843",
	}
}

func TestRegister_Success(t *testing.T) {
	e := newTestEnv()

	user, err := e.userSvc.Register(t.Context(), validRegistration())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == "" {
		t.Error("expected an id to be assigned")
	}
	if user.PasswordHash == "" || user.PasswordHash == "engine1843" {
		t.Error("expected the password to be hashed")
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterUserRequest)
	}{
		{"missing name", func(r *RegisterUserRequest) { r.Name = "  " }},
		{"missing username", func(r *RegisterUserRequest) { r.Username = "" }},
		{"missing email", func(r *RegisterUserRequest) { r.Email = "" }},
		{"email without at", func(r *RegisterUserRequest) { r.Email = "ada.example.com" }},
		{"short password", func(r *RegisterUserRequest) { r.Password = "12345" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEnv()
			req := validRegistration()
			tc.mutate(&req)

			_, err := e.userSvc.Register(t.Context(), req)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("got error %v, want ValidationError", err)
			}
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	e := newTestEnv()
	if _, err := e.userSvc.Register(t.Context(), validRegistration()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sameEmail := validRegistration()
	sameEmail.Username = "other"
	if _, err := e.userSvc.Register(t.Context(), sameEmail); !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Errorf("duplicate email: got %v, want ErrUserAlreadyExists", err)
	}

	sameUsername := validRegistration()
	sameUsername.Email = "other@example.com"
	if _, err := e.userSvc.Register(t.Context(), sameUsername); !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Errorf("duplicate username: got %v, want ErrUserAlreadyExists", err)
	}
}

func TestLogin(t *testing.T) {
	e := newTestEnv()
	registered, err := e.userSvc.Register(t.Context(), validRegistration())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, err := e.userSvc.Login(t.Context(), "ada@example.com", "engine1843")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("got user %q, want %q", user.ID, registered.ID)
	}

	if _, err := e.userSvc.Login(t.Context(), "ada@example.com", "wrong-password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := e.userSvc.Login(t.Context(), "nobody@example.com", "engine1843"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestDeleteUser_DropsWishlistAndWebhooks(t *testing.T) {
	e := newTestEnv()
	e.addUser(t, "user-1")
	e.addBook(t, "book-1", "user-1")
	_, _ = e.wishlists.Add(t.Context(), "user-1", "book-1")
	_, _, err := e.webhookSvc.Upsert(t.Context(), UpsertWebhookRequest{
		UserID: "user-1",
		URL:    "https://example.com/hook",
		Events: []string{domain.EventTradeRequested},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := e.userSvc.Delete(t.Context(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := e.userSvc.Get(t.Context(), "user-1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}
	ids, _ := e.wishlists.List(t.Context(), "user-1")
	if len(ids) != 0 {
		t.Errorf("wishlist not dropped: %v", ids)
	}
	hooks, _ := e.webhooks.ListByUser(t.Context(), "user-1")
	if len(hooks) != 0 {
		t.Errorf("webhooks not dropped: %d left", len(hooks))
	}
	if err := e.userSvc.Delete(t.Context(), "user-1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("second delete: got %v, want ErrUserNotFound", err)
	}
}
