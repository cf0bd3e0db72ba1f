package domain

import "time"

// Trade webhook event types.
const (
	EventTradeRequested = "trade.requested"
	EventTradeAccepted  = "trade.accepted"
	EventTradeRejected  = "trade.rejected"
)

// Webhook represents a user's subscription to an event notification.
type Webhook struct {
	WebhookID string
	UserID    string
	Event     string
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
}
