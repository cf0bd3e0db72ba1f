package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/efreitasn/bookswap/internal/service"
)

// SearchHandler proxies book lookups to the external volumes API.
type SearchHandler struct {
	searchSvc *service.SearchService
	logger    *slog.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchSvc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{searchSvc: searchSvc, logger: logger}
}

type searchResponse struct {
	Items []json.RawMessage `json:"items"`
}

type fetchBookResponse struct {
	Items json.RawMessage `json:"items"`
}

// Search handles GET /api/books/search?query=.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.searchSvc.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	WriteJSON(w, http.StatusOK, searchResponse{Items: items})
}

// FetchBook handles GET /api/books/fetchBook?title=.
func (h *SearchHandler) FetchBook(w http.ResponseWriter, r *http.Request) {
	item, err := h.searchSvc.FetchFirst(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, fetchBookResponse{Items: item})
}
