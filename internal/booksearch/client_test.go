package booksearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/efreitasn/bookswap/internal/domain"
)

func TestClient_Search_PassesQueryAndKey(t *testing.T) {
	var gotQuery, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"kind":"books#volumes","items":[{"id":"a"},{"id":"b"}]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", 5*time.Second)
	items, err := c.Search(context.Background(), "dune herbert")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "dune herbert" {
		t.Errorf("got q=%q, want %q", gotQuery, "dune herbert")
	}
	if gotKey != "secret" {
		t.Errorf("got key=%q, want %q", gotKey, "secret")
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if string(items[0]) != `{"id":"a"}` {
		t.Errorf("got first item %s", items[0])
	}
}

func TestClient_Search_NoItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"kind":"books#volumes","totalItems":0}`))
	}))
	defer server.Close()

	items, err := NewClient(server.URL, "", time.Second).Search(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", items)
	}
}

func TestClient_Search_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "", time.Second).Search(context.Background(), "x")
	if !errors.Is(err, domain.ErrSearchUnavailable) {
		t.Fatalf("expected ErrSearchUnavailable, got %v", err)
	}
}

func TestClient_Search_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, "", time.Second).Search(context.Background(), "x")
	if !errors.Is(err, domain.ErrSearchUnavailable) {
		t.Fatalf("expected ErrSearchUnavailable, got %v", err)
	}
}
