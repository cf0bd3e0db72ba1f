package service

import (
	"context"
	"time"

	"github.com/efreitasn/bookswap/internal/domain"
)

// Users is the user directory.
type Users interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// Books is the book catalog.
type Books interface {
	Create(ctx context.Context, b *domain.Book) error
	Get(ctx context.Context, id string) (*domain.Book, error)
	GetMany(ctx context.Context, ids []string) ([]*domain.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*domain.Book, error)
	List(ctx context.Context, titlePrefix string) ([]*domain.Book, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Book, error)
	Update(ctx context.Context, b *domain.Book) error
	Delete(ctx context.Context, id string) (*domain.Book, error)
}

// Wishlists holds each user's ordered set of wanted book ids.
type Wishlists interface {
	Add(ctx context.Context, userID, bookID string) (bool, error)
	List(ctx context.Context, userID string) ([]string, error)
	Remove(ctx context.Context, userID, bookID string) (bool, error)
	DeleteUser(ctx context.Context, userID string) error
}

// TradeRequests is the trade ledger. Each trade is stored once and read
// back through the sender and receiver views.
type TradeRequests interface {
	Create(ctx context.Context, t *domain.TradeRequest) error
	Get(ctx context.Context, id string) (*domain.TradeRequest, error)
	ListSent(ctx context.Context, userID string) ([]*domain.TradeRequest, error)
	ListReceived(ctx context.Context, userID string) ([]*domain.TradeRequest, error)
	UpdateStatus(ctx context.Context, id, receiverID string, status domain.TradeStatus, at time.Time) (*domain.TradeRequest, error)
}

// Webhooks stores per-user event subscriptions.
type Webhooks interface {
	Upsert(ctx context.Context, w *domain.Webhook) (*domain.Webhook, bool, error)
	Get(ctx context.Context, id string) (*domain.Webhook, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Webhook, error)
	GetByUserEvent(ctx context.Context, userID, event string) (*domain.Webhook, error)
	Delete(ctx context.Context, id string) error
	DeleteUser(ctx context.Context, userID string) error
}
