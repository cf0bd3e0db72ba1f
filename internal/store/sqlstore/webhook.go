package sqlstore

import (
	"context"
	"errors"

	"github.com/efreitasn/bookswap/internal/domain"
	"gorm.io/gorm"
)

// WebhookStore persists webhook subscriptions, unique per (user, event).
type WebhookStore struct {
	db *gorm.DB
}

// NewWebhookStore creates a WebhookStore on db.
func NewWebhookStore(db *gorm.DB) *WebhookStore {
	return &WebhookStore{db: db}
}

// Upsert inserts a subscription, or moves the existing (user, event)
// subscription to the new URL keeping its id. Returns the stored row and
// whether it was created.
func (s *WebhookStore) Upsert(ctx context.Context, w *domain.Webhook) (*domain.Webhook, bool, error) {
	var stored *domain.Webhook
	created := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row webhookRow
		err := tx.First(&row, "user_id = ? AND event = ?", w.UserID, w.Event).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = webhookRow{
				WebhookID: w.WebhookID,
				UserID:    w.UserID,
				Event:     w.Event,
				URL:       w.URL,
				CreatedAt: w.CreatedAt,
				UpdatedAt: w.UpdatedAt,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			created = true
		case err != nil:
			return err
		case row.URL != w.URL:
			row.URL = w.URL
			row.UpdatedAt = w.UpdatedAt
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
		}
		stored = row.toDomain()
		return nil
	})
	if err != nil {
		return nil, false, domain.NewStorageError("webhooks.upsert", err)
	}
	return stored, created, nil
}

// Get returns a webhook by ID.
func (s *WebhookStore) Get(ctx context.Context, id string) (*domain.Webhook, error) {
	var row webhookRow
	if err := s.db.WithContext(ctx).First(&row, "webhook_id = ?", id).Error; err != nil {
		return nil, storageErr("webhooks.get", err, domain.ErrWebhookNotFound)
	}
	return row.toDomain(), nil
}

// ListByUser returns the user's subscriptions ordered by event.
func (s *WebhookStore) ListByUser(ctx context.Context, userID string) ([]*domain.Webhook, error) {
	var rows []webhookRow
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("event").Find(&rows).Error; err != nil {
		return nil, domain.NewStorageError("webhooks.list_by_user", err)
	}
	result := make([]*domain.Webhook, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toDomain())
	}
	return result, nil
}

// GetByUserEvent returns the subscription for (userID, event), or nil.
func (s *WebhookStore) GetByUserEvent(ctx context.Context, userID, event string) (*domain.Webhook, error) {
	var row webhookRow
	err := s.db.WithContext(ctx).First(&row, "user_id = ? AND event = ?", userID, event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStorageError("webhooks.get_by_user_event", err)
	}
	return row.toDomain(), nil
}

// Delete removes a webhook by ID.
func (s *WebhookStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&webhookRow{}, "webhook_id = ?", id)
	if res.Error != nil {
		return domain.NewStorageError("webhooks.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrWebhookNotFound
	}
	return nil
}

// DeleteUser removes every subscription of userID.
func (s *WebhookStore) DeleteUser(ctx context.Context, userID string) error {
	if err := s.db.WithContext(ctx).Delete(&webhookRow{}, "user_id = ?", userID).Error; err != nil {
		return domain.NewStorageError("webhooks.delete_user", err)
	}
	return nil
}
