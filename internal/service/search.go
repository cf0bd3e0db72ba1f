package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/efreitasn/bookswap/internal/domain"
	"github.com/efreitasn/bookswap/internal/metrics"
)

// Searcher queries an external book index.
type Searcher interface {
	Search(ctx context.Context, query string) ([]json.RawMessage, error)
}

// JSONCache stores JSON values with a time to live.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// SearchService runs external book searches through an optional cache.
type SearchService struct {
	searcher Searcher
	cache    JSONCache
	ttl      time.Duration
	logger   *slog.Logger
}

// NewSearchService creates a new SearchService. cache may be nil.
func NewSearchService(searcher Searcher, cache JSONCache, ttl time.Duration, logger *slog.Logger) *SearchService {
	return &SearchService{
		searcher: searcher,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}
}

// Search returns the volumes matching query. Cache failures are logged and
// bypassed; upstream failures surface as domain.ErrSearchUnavailable.
func (s *SearchService) Search(ctx context.Context, query string) ([]json.RawMessage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &domain.ValidationError{Message: "query is required"}
	}
	key := "search:" + strings.ToLower(query)

	if s.cache != nil {
		var cached []json.RawMessage
		found, err := s.cache.GetJSON(ctx, key, &cached)
		switch {
		case err != nil:
			metrics.SearchCache.WithLabelValues("error").Inc()
			s.logger.Warn("search cache read failed", "key", key, "error", err)
		case found:
			metrics.SearchCache.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.SearchCache.WithLabelValues("miss").Inc()
		}
	}

	items, err := s.searcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, items, s.ttl); err != nil {
			s.logger.Warn("search cache write failed", "key", key, "error", err)
		}
	}
	return items, nil
}

// FetchFirst returns the best match for title, or an empty JSON object
// when nothing matches.
func (s *SearchService) FetchFirst(ctx context.Context, title string) (json.RawMessage, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &domain.ValidationError{Message: "title is required"}
	}
	items, err := s.Search(ctx, title)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return json.RawMessage(`{}`), nil
	}
	return items[0], nil
}
