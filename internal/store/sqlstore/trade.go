package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/efreitasn/bookswap/internal/domain"
	"gorm.io/gorm"
)

// TradeLedger stores each trade request as a single row, read back through
// the sender_id and receiver_id indexes.
type TradeLedger struct {
	db *gorm.DB
}

// NewTradeLedger creates a TradeLedger on db.
func NewTradeLedger(db *gorm.DB) *TradeLedger {
	return &TradeLedger{db: db}
}

// Create inserts a trade in one transaction that first checks that both
// parties still exist. A missing party yields domain.ErrUserNotFound and
// nothing is written.
func (l *TradeLedger) Create(ctx context.Context, t *domain.TradeRequest) error {
	row := &tradeRow{
		ID:            t.ID,
		Status:        string(t.Status),
		RequestedDate: t.RequestedDate,
		UpdatedAt:     t.UpdatedAt,
		SenderID:      t.SenderID,
		ReceiverID:    t.ReceiverID,
		SenderWants:   t.SenderWants,
		SenderGives:   t.SenderGives,
	}

	parties := []string{t.SenderID, t.ReceiverID}
	want := int64(2)
	if t.SenderID == t.ReceiverID {
		parties = parties[:1]
		want = 1
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found int64
		if err := tx.Model(&userRow{}).Where("id IN ?", parties).Count(&found).Error; err != nil {
			return err
		}
		if found != want {
			return domain.ErrUserNotFound
		}
		return tx.Create(row).Error
	})
	if errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	return domain.NewStorageError("trades.create", err)
}

// Get returns a trade request by ID.
func (l *TradeLedger) Get(ctx context.Context, id string) (*domain.TradeRequest, error) {
	var row tradeRow
	if err := l.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, storageErr("trades.get", err, domain.ErrTradeRequestNotFound)
	}
	return row.toDomain(), nil
}

// ListSent returns the trades sent by userID in creation order.
func (l *TradeLedger) ListSent(ctx context.Context, userID string) ([]*domain.TradeRequest, error) {
	return l.list(ctx, "trades.list_sent", "sender_id = ?", userID)
}

// ListReceived returns the trades received by userID in creation order.
func (l *TradeLedger) ListReceived(ctx context.Context, userID string) ([]*domain.TradeRequest, error) {
	return l.list(ctx, "trades.list_received", "receiver_id = ?", userID)
}

func (l *TradeLedger) list(ctx context.Context, op, cond, userID string) ([]*domain.TradeRequest, error) {
	var rows []tradeRow
	if err := l.db.WithContext(ctx).Where(cond, userID).Order("seq").Find(&rows).Error; err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	result := make([]*domain.TradeRequest, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toDomain())
	}
	return result, nil
}

// UpdateStatus sets the status of the trade id addressed to receiverID.
// The keyed update and the read-back run in one transaction. A trade that
// does not exist or belongs to another receiver yields
// domain.ErrTradeRequestNotFound.
func (l *TradeLedger) UpdateStatus(ctx context.Context, id, receiverID string, status domain.TradeStatus, at time.Time) (*domain.TradeRequest, error) {
	var updated *domain.TradeRequest
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&tradeRow{}).
			Where("id = ? AND receiver_id = ?", id, receiverID).
			Updates(map[string]any{"status": string(status), "updated_at": at})
		if res.Error != nil {
			return domain.NewStorageError("trades.update_status", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrTradeRequestNotFound
		}

		var row tradeRow
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return domain.NewStorageError("trades.update_status", err)
		}
		updated = row.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
