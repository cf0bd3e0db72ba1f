package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/efreitasn/bookswap/internal/domain"
	"github.com/efreitasn/bookswap/internal/store"
	"golang.org/x/crypto/bcrypt"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEnv wires every service to fresh in-memory stores.
type testEnv struct {
	users     *store.UserStore
	books     *store.BookStore
	wishlists *store.WishlistStore
	trades    *store.TradeLedger
	webhooks  *store.WebhookStore

	userSvc     *UserService
	bookSvc     *BookService
	wishlistSvc *WishlistService
	webhookSvc  *WebhookService
	tradeSvc    *TradeService
}

func newTestEnv() *testEnv {
	e := &testEnv{
		users:     store.NewUserStore(),
		books:     store.NewBookStore(),
		wishlists: store.NewWishlistStore(),
		trades:    store.NewTradeLedger(),
		webhooks:  store.NewWebhookStore(),
	}
	e.userSvc = NewUserService(e.users, e.wishlists, e.webhooks, bcrypt.MinCost)
	e.bookSvc = NewBookService(e.books, e.users)
	e.wishlistSvc = NewWishlistService(e.wishlists, e.books, e.users)
	e.webhookSvc = NewWebhookService(e.webhooks, e.users, 5*time.Second, discardLogger())
	e.tradeSvc = NewTradeService(e.trades, e.users, e.books, e.webhookSvc)
	return e
}

func (e *testEnv) addUser(t *testing.T, id string) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	u := &domain.User{
		ID:        id,
		Name:      "User " + id,
		Username:  id,
		Email:     id + "@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.users.Create(t.Context(), u); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return u
}

func (e *testEnv) addBook(t *testing.T, id, owner string) *domain.Book {
	t.Helper()
	now := time.Now().UTC()
	b := &domain.Book{
		ID:            id,
		Title:         "Title " + id,
		Author:        "Author",
		Genre:         "Fiction",
		Description:   "Description",
		DatePublished: now,
		ISBN:          "isbn-" + id,
		OwnerID:       owner,
		TradeStatus:   domain.BookAvailable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := e.books.Create(t.Context(), b); err != nil {
		t.Fatalf("failed to create book: %v", err)
	}
	return b
}
