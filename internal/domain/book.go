package domain

import "time"

// BookTradeStatus tracks whether a book can currently be offered.
type BookTradeStatus string

const (
	BookAvailable  BookTradeStatus = "available"
	BookTraded     BookTradeStatus = "traded"
	BookInProgress BookTradeStatus = "in progress"
)

// Valid reports whether s is a known book trade status.
func (s BookTradeStatus) Valid() bool {
	switch s {
	case BookAvailable, BookTraded, BookInProgress:
		return true
	}
	return false
}

// Book is a catalog entry uploaded by a user.
type Book struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	Genre         string          `json:"genre"`
	Description   string          `json:"description"`
	Rating        *float64        `json:"rating,omitempty"`
	ReadingTime   string          `json:"readingTime,omitempty"`
	Condition     string          `json:"condition,omitempty"`
	DatePublished time.Time       `json:"datePublished"`
	ISBN          string          `json:"isbn"`
	CoverImage    string          `json:"coverImage,omitempty"`
	OwnerID       string          `json:"ownerId"`
	TradeStatus   BookTradeStatus `json:"tradeStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
