package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/efreitasn/bookswap/internal/domain"
	"github.com/efreitasn/bookswap/internal/metrics"
	"github.com/google/uuid"
)

// CreateTradeRequest represents the input for proposing a trade.
type CreateTradeRequest struct {
	SenderID    string
	ReceiverID  string
	SenderWants string
	SenderGives string
}

// TradeView is a trade request with its parties and books resolved.
// A party or book that no longer exists is nil.
type TradeView struct {
	Trade     *domain.TradeRequest
	Sender    *domain.User
	Receiver  *domain.User
	WantsBook *domain.Book
	GivesBook *domain.Book
}

// TradeOverview holds both ledger views of one user.
type TradeOverview struct {
	SentRequests     []TradeView
	ReceivedRequests []TradeView
}

// TradeService creates, retrieves and answers trade requests.
type TradeService struct {
	trades     TradeRequests
	users      Users
	books      Books
	webhookSvc *WebhookService
}

// NewTradeService creates a new TradeService with the given dependencies.
func NewTradeService(
	trades TradeRequests,
	users Users,
	books Books,
	webhookSvc *WebhookService,
) *TradeService {
	return &TradeService{
		trades:     trades,
		users:      users,
		books:      books,
		webhookSvc: webhookSvc,
	}
}

// Create records a pending trade in which the sender offers SenderGives for
// the receiver's SenderWants. Both users must exist. The record is written
// once and is visible in the sender's sent view and the receiver's received
// view. The receiver is notified through its trade.requested webhook.
func (s *TradeService) Create(ctx context.Context, req CreateTradeRequest) (*domain.TradeRequest, error) {
	if strings.TrimSpace(req.SenderWants) == "" || strings.TrimSpace(req.SenderGives) == "" {
		return nil, &domain.ValidationError{Message: "senderWants and senderGives are required"}
	}
	if req.ReceiverID == "" {
		return nil, &domain.ValidationError{Message: "receiverId is required"}
	}

	if _, err := s.users.Get(ctx, req.SenderID); err != nil {
		return nil, err
	}
	if _, err := s.users.Get(ctx, req.ReceiverID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	trade := &domain.TradeRequest{
		ID:            uuid.New().String(),
		Status:        domain.TradeStatusPending,
		RequestedDate: now,
		UpdatedAt:     now,
		SenderID:      req.SenderID,
		ReceiverID:    req.ReceiverID,
		SenderWants:   req.SenderWants,
		SenderGives:   req.SenderGives,
	}
	if err := s.trades.Create(ctx, trade); err != nil {
		return nil, err
	}

	metrics.TradeRequestsCreated.Inc()
	s.webhookSvc.DispatchTradeEvent(ctx, trade.ReceiverID, domain.EventTradeRequested, trade)
	return trade, nil
}

// Retrieve returns the user's sent and received trade requests in creation
// order, each enriched with its parties and books.
func (s *TradeService) Retrieve(ctx context.Context, userID string) (*TradeOverview, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}

	sent, err := s.trades.ListSent(ctx, userID)
	if err != nil {
		return nil, err
	}
	received, err := s.trades.ListReceived(ctx, userID)
	if err != nil {
		return nil, err
	}

	r := newTradeResolver(s.users, s.books)
	if err := r.load(ctx, sent, received); err != nil {
		return nil, err
	}

	return &TradeOverview{
		SentRequests:     r.views(sent),
		ReceivedRequests: r.views(received),
	}, nil
}

// UpdateStatus records the receiver's answer to a trade request. newStatus
// must be accepted or rejected and is checked before any lookup. A trade
// that does not exist or was sent to someone else is reported as
// domain.ErrTradeRequestNotFound. The status is overwritten even if the
// trade was already answered. The sender is notified through its
// trade.accepted or trade.rejected webhook.
func (s *TradeService) UpdateStatus(ctx context.Context, receiverID, tradeID, newStatus string) (*domain.TradeRequest, error) {
	status, err := domain.ParseTargetStatus(newStatus)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.Get(ctx, receiverID); err != nil {
		return nil, err
	}

	trade, err := s.trades.UpdateStatus(ctx, tradeID, receiverID, status, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	metrics.TradeStatusUpdates.WithLabelValues(string(status)).Inc()
	s.webhookSvc.DispatchTradeEvent(ctx, trade.SenderID, tradeStatusEvent(status), trade)
	return trade, nil
}

// tradeResolver batches the user and book lookups needed to enrich trades.
type tradeResolver struct {
	users    Users
	books    Books
	userByID map[string]*domain.User
	bookByID map[string]*domain.Book
}

func newTradeResolver(users Users, books Books) *tradeResolver {
	return &tradeResolver{
		users:    users,
		books:    books,
		userByID: make(map[string]*domain.User),
		bookByID: make(map[string]*domain.Book),
	}
}

// load fetches every referenced user and book. Missing records are left
// nil; any other failure aborts.
func (r *tradeResolver) load(ctx context.Context, groups ...[]*domain.TradeRequest) error {
	var bookIDs []string
	seenBook := make(map[string]bool)

	for _, trades := range groups {
		for _, t := range trades {
			for _, id := range []string{t.SenderID, t.ReceiverID} {
				if _, done := r.userByID[id]; done {
					continue
				}
				u, err := r.users.Get(ctx, id)
				if err != nil && !errors.Is(err, domain.ErrNotFound) {
					return err
				}
				r.userByID[id] = u
			}
			for _, id := range []string{t.SenderWants, t.SenderGives} {
				if !seenBook[id] {
					seenBook[id] = true
					bookIDs = append(bookIDs, id)
				}
			}
		}
	}

	if len(bookIDs) == 0 {
		return nil
	}
	books, err := r.books.GetMany(ctx, bookIDs)
	if err != nil {
		return err
	}
	for _, b := range books {
		r.bookByID[b.ID] = b
	}
	return nil
}

func (r *tradeResolver) views(trades []*domain.TradeRequest) []TradeView {
	out := make([]TradeView, 0, len(trades))
	for _, t := range trades {
		out = append(out, TradeView{
			Trade:     t,
			Sender:    r.userByID[t.SenderID],
			Receiver:  r.userByID[t.ReceiverID],
			WantsBook: r.bookByID[t.SenderWants],
			GivesBook: r.bookByID[t.SenderGives],
		})
	}
	return out
}
