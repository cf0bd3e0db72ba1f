package sqlstore

import (
	"time"

	"github.com/efreitasn/bookswap/internal/domain"
)

type userRow struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"not null"`
	Username     string `gorm:"not null"`
	UsernameKey  string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"not null"`
	EmailKey     string `gorm:"uniqueIndex;not null"`
	PasswordHash string
	CreatedAt    time.Time `gorm:"autoCreateTime:false;index"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false"`
}

func (userRow) TableName() string { return "users" }

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

type bookRow struct {
	Seq           int64  `gorm:"primaryKey;autoIncrement"`
	ID            string `gorm:"uniqueIndex;size:36;not null"`
	Title         string `gorm:"not null"`
	Author        string `gorm:"not null"`
	Genre         string `gorm:"not null"`
	Description   string `gorm:"not null"`
	Rating        *float64
	ReadingTime   string
	Condition     string
	DatePublished time.Time
	ISBN          string `gorm:"column:isbn;index"`
	CoverImage    string
	OwnerID       string    `gorm:"index;not null"`
	TradeStatus   string    `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime:false"`
}

func (bookRow) TableName() string { return "books" }

func bookRowFrom(b *domain.Book) *bookRow {
	return &bookRow{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		Description:   b.Description,
		Rating:        b.Rating,
		ReadingTime:   b.ReadingTime,
		Condition:     b.Condition,
		DatePublished: b.DatePublished,
		ISBN:          b.ISBN,
		CoverImage:    b.CoverImage,
		OwnerID:       b.OwnerID,
		TradeStatus:   string(b.TradeStatus),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (r *bookRow) toDomain() *domain.Book {
	return &domain.Book{
		ID:            r.ID,
		Title:         r.Title,
		Author:        r.Author,
		Genre:         r.Genre,
		Description:   r.Description,
		Rating:        r.Rating,
		ReadingTime:   r.ReadingTime,
		Condition:     r.Condition,
		DatePublished: r.DatePublished.UTC(),
		ISBN:          r.ISBN,
		CoverImage:    r.CoverImage,
		OwnerID:       r.OwnerID,
		TradeStatus:   domain.BookTradeStatus(r.TradeStatus),
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

type wishlistRow struct {
	Seq    int64  `gorm:"primaryKey;autoIncrement"`
	UserID string `gorm:"uniqueIndex:idx_wishlist_user_book;not null"`
	BookID string `gorm:"uniqueIndex:idx_wishlist_user_book;not null"`
}

func (wishlistRow) TableName() string { return "wishlist_entries" }

type tradeRow struct {
	Seq           int64     `gorm:"primaryKey;autoIncrement"`
	ID            string    `gorm:"uniqueIndex;size:36;not null"`
	Status        string    `gorm:"not null"`
	RequestedDate time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime:false"`
	SenderID      string    `gorm:"index;not null"`
	ReceiverID    string    `gorm:"index;not null"`
	SenderWants   string    `gorm:"not null"`
	SenderGives   string    `gorm:"not null"`
}

func (tradeRow) TableName() string { return "trade_requests" }

func (r *tradeRow) toDomain() *domain.TradeRequest {
	return &domain.TradeRequest{
		ID:            r.ID,
		Status:        domain.TradeStatus(r.Status),
		RequestedDate: r.RequestedDate.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
		SenderID:      r.SenderID,
		ReceiverID:    r.ReceiverID,
		SenderWants:   r.SenderWants,
		SenderGives:   r.SenderGives,
	}
}

type webhookRow struct {
	WebhookID string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"uniqueIndex:idx_webhook_user_event;not null"`
	Event     string    `gorm:"uniqueIndex:idx_webhook_user_event;not null"`
	URL       string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (webhookRow) TableName() string { return "webhooks" }

func (r *webhookRow) toDomain() *domain.Webhook {
	return &domain.Webhook{
		WebhookID: r.WebhookID,
		UserID:    r.UserID,
		Event:     r.Event,
		URL:       r.URL,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}
