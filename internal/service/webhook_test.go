package service

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/efreitasn/bookswap/internal/domain"
)

// --- Upsert tests ---

func TestUpsert_Success_NewSubscriptions(t *testing.T) {
	e := newTestEnv()
	e.addUser(t, "user-1")

	webhooks, created, err := e.webhookSvc.Upsert(t.Context(), UpsertWebhookRequest{
		UserID: "user-1",
		URL:    "https://example.com/hooks",
		Events: []string{"trade.requested", "trade.accepted"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created=true for new subscriptions")
	}
	if len(webhooks) != 2 {
		t.Fatalf("got %d webhooks, want 2", len(webhooks))
	}
	if webhooks[0].Event != "trade.requested" || webhooks[1].Event != "trade.accepted" {
		t.Errorf("got events %q, %q", webhooks[0].Event, webhooks[1].Event)
	}
	if webhooks[0].URL != "https://example.com/hooks" {
		t.Errorf("got URL %q, want %q", webhooks[0].URL, "https://example.com/hooks")
	}
}

func TestUpsert_Success_UpdateExistingURL(t *testing.T) {
	e := newTestEnv()
	e.addUser(t, "user-1")

	first, _, err := e.webhookSvc.Upsert(t.Context(), UpsertWebhookRequest{
		UserID: "user-1",
		URL:    "https://example.com/old",
		Events: []string{"trade.rejected"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, created, err := e.webhookSvc.Upsert(t.Context(), UpsertWebhookRequest{
		UserID: "user-1",
		URL:    "https://example.com/new",
		Events: []string{"trade.rejected"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected created=false when updating")
	}
	if second[0].WebhookID != first[0].WebhookID {
		t.Errorf("webhook id changed from %q to %q", first[0].WebhookID, second[0].WebhookID)
	}
	if second[0].URL != "https://example.com/new" {
		t.Errorf("got URL %q, want the new one", second[0].URL)
	}
}

func TestUpsert_Success_MixNewAndExisting(t *testing.T) {
	e := newTestEnv()
	e.addUser(t, "user-1")

	_, _, _ = e.webhookSvc.Upsert(t.Context(), UpsertWebhookRequest{
		UserID: "user-1",
		URL:    "https://example.com/hooks",
		Events: []string{"trade.requested"},
	})
	webhooks, created, err := e.webhookSvc.Upsert(t.Context(), UpsertWebhookRequest{
		UserID: "user-1",
		URL:    "https://example.com/hooks",
		Events: []string{"trade.requested", "trade.accepted", "trade.requested"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created=true when at least one subscription is new")
	}
	if len(webhooks) != 2 {
		t.Fatalf("got %d webhooks, want 2 (duplicates collapse)", len(webhooks))
	}
}

func TestUpsert_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		events  []string
		wantMsg string
	}{
		{"empty url", "", []string{"trade.requested"}, "url is required"},
		{"http scheme", "http://example.com/hook", []string{"trade.requested"}, "https"},
		{"relative url", "not a url", []string{"trade.requested"}, "valid absolute URL"},
		{"too long", "https://example.com/" + strings.Repeat("a", 2048), []string{"trade.requested"}, "2048"},
		{"no events", "https://example.com/hook", nil, "non-empty"},
		{"unknown event", "https://example.com/hook", []string{"order.expired"}, "Unknown event type: order.expired"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEnv()
			e.addUser(t, "user-1")

			_, _, err := e.webhookSvc.Upsert(t.Context(), UpsertWebhookRequest{
				UserID: "user-1",
				URL:    tc.url,
				Events: tc.events,
			})
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("got error %v, want ValidationError", err)
			}
			if !strings.Contains(ve.Message, tc.wantMsg) {
				t.Errorf("got message %q, want it to contain %q", ve.Message, tc.wantMsg)
			}
		})
	}
}

func TestUpsert_UserNotFound(t *testing.T) {
	e := newTestEnv()

	_, _, err := e.webhookSvc.Upsert(t.Context(), UpsertWebhookRequest{
		UserID: "ghost",
		URL:    "https://example.com/hook",
		Events: []string{"trade.requested"},
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("got error %v, want ErrUserNotFound", err)
	}
}

// --- List / Delete tests ---

func TestWebhookList_And_Delete(t *testing.T) {
	e := newTestEnv()
	e.addUser(t, "user-1")
	e.addUser(t, "user-2")

	webhooks, _, _ := e.webhookSvc.Upsert(t.Context(), UpsertWebhookRequest{
		UserID: "user-1",
		URL:    "https://example.com/hook",
		Events: []string{"trade.requested"},
	})
	id := webhooks[0].WebhookID

	if err := e.webhookSvc.Delete(t.Context(), "user-2", id); !errors.Is(err, domain.ErrWebhookNotFound) {
		t.Fatalf("deleting another user's webhook: got %v, want ErrWebhookNotFound", err)
	}
	if err := e.webhookSvc.Delete(t.Context(), "user-1", id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := e.webhookSvc.List(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("got %d webhooks after delete, want 0", len(list))
	}
	if err := e.webhookSvc.Delete(t.Context(), "user-1", id); !errors.Is(err, domain.ErrWebhookNotFound) {
		t.Errorf("second delete: got %v, want ErrWebhookNotFound", err)
	}
}

func TestWebhookList_UserNotFound(t *testing.T) {
	e := newTestEnv()

	if _, err := e.webhookSvc.List(t.Context(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("got error %v, want ErrUserNotFound", err)
	}
}

// --- Dispatch tests ---

func TestDispatchTradeEvent_SendsHeadersAndPayload(t *testing.T) {
	var mu sync.Mutex
	var received []map[string]any
	var headers []http.Header

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		_ = json.Unmarshal(body, &payload)
		mu.Lock()
		received = append(received, payload)
		headers = append(headers, r.Header.Clone())
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	e := newTestEnv()
	e.webhookSvc.client = server.Client()
	e.addUser(t, "user-1")

	_, _, _ = e.webhooks.Upsert(t.Context(), &domain.Webhook{
		WebhookID: "wh-1",
		UserID:    "user-1",
		Event:     domain.EventTradeRequested,
		URL:       server.URL + "/hooks",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})

	trade := &domain.TradeRequest{
		ID:          "trd-1",
		Status:      domain.TradeStatusPending,
		SenderID:    "user-2",
		ReceiverID:  "user-1",
		SenderWants: "w",
		SenderGives: "g",
	}
	e.webhookSvc.DispatchTradeEvent(t.Context(), "user-1", domain.EventTradeRequested, trade)
	e.webhookSvc.Wait()

	mu.Lock()
	defer mu.Unlock()

	if len(received) != 1 {
		t.Fatalf("got %d requests, want 1", len(received))
	}
	if received[0]["event"] != "trade.requested" {
		t.Errorf("got event %v, want trade.requested", received[0]["event"])
	}
	data, ok := received[0]["data"].(map[string]any)
	if !ok {
		t.Fatal("expected data to be a map")
	}
	if data["id"] != "trd-1" || data["senderId"] != "user-2" || data["senderWants"] != "w" {
		t.Errorf("unexpected data: %v", data)
	}

	h := headers[0]
	if h.Get("X-Webhook-Id") != "wh-1" {
		t.Errorf("got X-Webhook-Id %q, want %q", h.Get("X-Webhook-Id"), "wh-1")
	}
	if h.Get("X-Event-Type") != "trade.requested" {
		t.Errorf("got X-Event-Type %q, want %q", h.Get("X-Event-Type"), "trade.requested")
	}
	if h.Get("X-Delivery-Id") == "" {
		t.Error("expected X-Delivery-Id header to be set")
	}
	if h.Get("Content-Type") != "application/json" {
		t.Errorf("got Content-Type %q, want %q", h.Get("Content-Type"), "application/json")
	}
}

func TestDispatch_NoSubscription_NoRequest(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
	}))
	defer server.Close()

	e := newTestEnv()
	e.webhookSvc.client = server.Client()
	e.addUser(t, "user-1")

	e.webhookSvc.DispatchTradeEvent(t.Context(), "user-1", domain.EventTradeAccepted, &domain.TradeRequest{ID: "trd-1"})
	e.webhookSvc.Wait()

	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Errorf("got %d requests, want 0", calls)
	}
}

func TestDispatch_ServerError_Ignored(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	e := newTestEnv()
	e.webhookSvc.client = server.Client()
	e.addUser(t, "user-1")
	_, _, _ = e.webhooks.Upsert(t.Context(), &domain.Webhook{
		WebhookID: "wh-1",
		UserID:    "user-1",
		Event:     domain.EventTradeRejected,
		URL:       server.URL,
	})

	e.webhookSvc.DispatchTradeEvent(t.Context(), "user-1", domain.EventTradeRejected, &domain.TradeRequest{ID: "trd-1"})
	e.webhookSvc.Wait()
}
