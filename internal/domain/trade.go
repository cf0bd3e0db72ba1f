package domain

import "time"

// TradeStatus represents the lifecycle state of a trade request.
type TradeStatus string

const (
	TradeStatusPending  TradeStatus = "pending"
	TradeStatusAccepted TradeStatus = "accepted"
	TradeStatusRejected TradeStatus = "rejected"
)

// IsTerminal reports whether the status is a final answer from the receiver.
func (s TradeStatus) IsTerminal() bool {
	return s == TradeStatusAccepted || s == TradeStatusRejected
}

// ParseTargetStatus validates a status requested by a receiver. Only
// accepted and rejected may be set; pending is assigned at creation.
func ParseTargetStatus(s string) (TradeStatus, error) {
	switch st := TradeStatus(s); st {
	case TradeStatusAccepted, TradeStatusRejected:
		return st, nil
	}
	return "", &ValidationError{
		Message: "Invalid status. Only 'accepted' or 'rejected' allowed.",
	}
}

// TradeRequest is the canonical record of one proposed exchange: the sender
// offers SenderGives in return for SenderWants, owned by the receiver.
// The same record backs the sender's sent view and the receiver's received view.
type TradeRequest struct {
	ID            string      `json:"id"`
	Status        TradeStatus `json:"status"`
	RequestedDate time.Time   `json:"requestedDate"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	SenderID      string      `json:"senderId"`
	ReceiverID    string      `json:"receiverId"`
	SenderWants   string      `json:"senderWants"`
	SenderGives   string      `json:"senderGives"`
}

// Involves reports whether userID is the sender or the receiver.
func (t *TradeRequest) Involves(userID string) bool {
	return t.SenderID == userID || t.ReceiverID == userID
}
