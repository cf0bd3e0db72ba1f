package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/efreitasn/bookswap/internal/domain"
	"github.com/efreitasn/bookswap/internal/metrics"
	"github.com/google/uuid"
)

// Valid webhook event types.
var validWebhookEvents = map[string]bool{
	domain.EventTradeRequested: true,
	domain.EventTradeAccepted:  true,
	domain.EventTradeRejected:  true,
}

// UpsertWebhookRequest represents the input for webhook registration.
type UpsertWebhookRequest struct {
	UserID string
	URL    string
	Events []string
}

// WebhookService handles webhook CRUD and event dispatch.
type WebhookService struct {
	store  Webhooks
	users  Users
	client *http.Client
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewWebhookService creates a new WebhookService with the given dependencies.
func NewWebhookService(
	webhookStore Webhooks,
	users Users,
	webhookTimeout time.Duration,
	logger *slog.Logger,
) *WebhookService {
	return &WebhookService{
		store: webhookStore,
		users: users,
		client: &http.Client{
			Timeout: webhookTimeout,
		},
		logger: logger,
	}
}

// Upsert validates the request and creates or updates webhook subscriptions.
// Returns the resulting webhooks, whether any new subscriptions were created, and any error.
func (s *WebhookService) Upsert(ctx context.Context, req UpsertWebhookRequest) ([]*domain.Webhook, bool, error) {
	if _, err := s.users.Get(ctx, req.UserID); err != nil {
		return nil, false, err
	}

	if req.URL == "" {
		return nil, false, &domain.ValidationError{Message: "url is required"}
	}
	if len(req.URL) > 2048 {
		return nil, false, &domain.ValidationError{Message: "url must be at most 2048 characters"}
	}
	parsed, err := url.ParseRequestURI(req.URL)
	if err != nil || !parsed.IsAbs() {
		return nil, false, &domain.ValidationError{Message: "url must be a valid absolute URL"}
	}
	if parsed.Scheme != "https" {
		return nil, false, &domain.ValidationError{Message: "url must use https scheme"}
	}

	if len(req.Events) == 0 {
		return nil, false, &domain.ValidationError{Message: "events must be a non-empty array"}
	}

	// Deduplicate while preserving order.
	seen := make(map[string]bool, len(req.Events))
	events := make([]string, 0, len(req.Events))
	for _, event := range req.Events {
		if !validWebhookEvents[event] {
			return nil, false, &domain.ValidationError{
				Message: "Unknown event type: " + event + ". Must be one of: trade.requested, trade.accepted, trade.rejected",
			}
		}
		if !seen[event] {
			seen[event] = true
			events = append(events, event)
		}
	}

	now := time.Now().UTC().Truncate(time.Second)
	anyCreated := false
	webhooks := make([]*domain.Webhook, 0, len(events))

	for _, event := range events {
		stored, created, err := s.store.Upsert(ctx, &domain.Webhook{
			WebhookID: uuid.New().String(),
			UserID:    req.UserID,
			Event:     event,
			URL:       req.URL,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, false, err
		}
		anyCreated = anyCreated || created
		webhooks = append(webhooks, stored)
	}

	return webhooks, anyCreated, nil
}

// List validates the user exists and returns all of its subscriptions.
func (s *WebhookService) List(ctx context.Context, userID string) ([]*domain.Webhook, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListByUser(ctx, userID)
}

// Delete removes one of the user's subscriptions. A webhook owned by another
// user is reported as domain.ErrWebhookNotFound.
func (s *WebhookService) Delete(ctx context.Context, userID, webhookID string) error {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return err
	}
	wh, err := s.store.Get(ctx, webhookID)
	if err != nil {
		return err
	}
	if wh.UserID != userID {
		return domain.ErrWebhookNotFound
	}
	return s.store.Delete(ctx, webhookID)
}

// tradeEventPayload is the JSON payload for every trade.* webhook.
type tradeEventPayload struct {
	Event     string               `json:"event"`
	Timestamp string               `json:"timestamp"`
	Data      *domain.TradeRequest `json:"data"`
}

// DispatchTradeEvent notifies userID of event about trade, if the user has
// subscribed to it. Delivery runs in the background; failures are logged
// and counted, never retried.
func (s *WebhookService) DispatchTradeEvent(ctx context.Context, userID, event string, trade *domain.TradeRequest) {
	wh, err := s.store.GetByUserEvent(ctx, userID, event)
	if err != nil {
		s.logger.Warn("webhook lookup failed", "user_id", userID, "event", event, "error", err)
		return
	}
	if wh == nil {
		return
	}

	cp := *trade
	payload := tradeEventPayload{
		Event:     event,
		Timestamp: time.Now().UTC().Truncate(time.Second).Format(time.RFC3339),
		Data:      &cp,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.deliver(wh, event, payload)
	}()
}

// Wait blocks until every in-flight delivery has finished.
func (s *WebhookService) Wait() {
	s.wg.Wait()
}

// deliver sends the webhook payload via HTTP POST with the delivery headers.
func (s *WebhookService) deliver(wh *domain.Webhook, event string, payload any) {
	outcome := "failure"
	defer func() {
		metrics.WebhookDeliveries.WithLabelValues(event, outcome).Inc()
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("webhook payload encoding failed", "webhook_id", wh.WebhookID, "error", err)
		return
	}

	req, err := http.NewRequest(http.MethodPost, wh.URL, bytes.NewReader(body))
	if err != nil {
		s.logger.Warn("webhook request build failed", "webhook_id", wh.WebhookID, "error", err)
		return
	}

	deliveryID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", deliveryID)
	req.Header.Set("X-Webhook-Id", wh.WebhookID)
	req.Header.Set("X-Event-Type", event)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("webhook delivery failed",
			"webhook_id", wh.WebhookID,
			"delivery_id", deliveryID,
			"event", event,
			"error", err,
		)
		return
	}
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		s.logger.Warn("webhook delivery rejected",
			"webhook_id", wh.WebhookID,
			"delivery_id", deliveryID,
			"event", event,
			"status", resp.StatusCode,
		)
		return
	}
	outcome = "success"
	s.logger.Debug("webhook delivered", "webhook_id", wh.WebhookID, "delivery_id", deliveryID, "event", event)
}

// tradeStatusEvent maps a receiver decision to its webhook event type.
func tradeStatusEvent(status domain.TradeStatus) string {
	return fmt.Sprintf("trade.%s", status)
}
