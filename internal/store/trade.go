package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/efreitasn/bookswap/internal/domain"
)

// TradeLedger is a thread-safe in-memory store for trade requests.
// Primary index: trade_id → trade.
// Secondary indexes: sender_id → trade ids, receiver_id → trade ids,
// both in creation order. Every trade is stored once; the sent and
// received views of a user are read through the secondary indexes.
type TradeLedger struct {
	mu         sync.RWMutex
	trades     map[string]*domain.TradeRequest
	bySender   map[string][]string
	byReceiver map[string][]string
}

// NewTradeLedger creates an empty TradeLedger.
func NewTradeLedger() *TradeLedger {
	return &TradeLedger{
		trades:     make(map[string]*domain.TradeRequest),
		bySender:   make(map[string][]string),
		byReceiver: make(map[string][]string),
	}
}

// Create inserts a trade request and appends it to both secondary indexes
// in one critical section.
func (l *TradeLedger) Create(_ context.Context, t *domain.TradeRequest) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.trades[t.ID]; exists {
		return domain.NewStorageError("trades.create", fmt.Errorf("duplicate trade id %s", t.ID))
	}

	cp := *t
	l.trades[t.ID] = &cp
	l.bySender[t.SenderID] = append(l.bySender[t.SenderID], t.ID)
	l.byReceiver[t.ReceiverID] = append(l.byReceiver[t.ReceiverID], t.ID)
	return nil
}

// Get retrieves a trade request by ID. It returns
// domain.ErrTradeRequestNotFound if the trade does not exist.
func (l *TradeLedger) Get(_ context.Context, id string) (*domain.TradeRequest, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	t, ok := l.trades[id]
	if !ok {
		return nil, domain.ErrTradeRequestNotFound
	}
	cp := *t
	return &cp, nil
}

// ListSent returns the trades sent by userID in creation order.
// Returns an empty slice if the user has sent none.
func (l *TradeLedger) ListSent(_ context.Context, userID string) ([]*domain.TradeRequest, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.collect(l.bySender[userID]), nil
}

// ListReceived returns the trades received by userID in creation order.
func (l *TradeLedger) ListReceived(_ context.Context, userID string) ([]*domain.TradeRequest, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.collect(l.byReceiver[userID]), nil
}

// collect copies the trades for ids. Callers must hold l.mu.
func (l *TradeLedger) collect(ids []string) []*domain.TradeRequest {
	result := make([]*domain.TradeRequest, 0, len(ids))
	for _, id := range ids {
		cp := *l.trades[id]
		result = append(result, &cp)
	}
	return result
}

// UpdateStatus sets the status of the trade identified by id, provided
// receiverID is its receiver. A trade addressed to someone else is reported
// as domain.ErrTradeRequestNotFound, since it is not in that user's
// received collection. The status is overwritten unconditionally.
func (l *TradeLedger) UpdateStatus(_ context.Context, id, receiverID string, status domain.TradeStatus, at time.Time) (*domain.TradeRequest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.trades[id]
	if !ok || t.ReceiverID != receiverID {
		return nil, domain.ErrTradeRequestNotFound
	}

	t.Status = status
	t.UpdatedAt = at
	cp := *t
	return &cp, nil
}
