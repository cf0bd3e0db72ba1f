package handler

import (
	"log/slog"
	"net/http"

	"github.com/efreitasn/bookswap/internal/domain"
	"github.com/efreitasn/bookswap/internal/service"
	"github.com/go-chi/chi/v5"
)

// TradeHandler handles HTTP requests for the trade ledger.
type TradeHandler struct {
	tradeSvc *service.TradeService
	logger   *slog.Logger
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeSvc *service.TradeService, logger *slog.Logger) *TradeHandler {
	return &TradeHandler{tradeSvc: tradeSvc, logger: logger}
}

// createTradeRequest is the JSON request body for POST
// /api/users/{userId}/trade. The path user is the sender.
type createTradeRequest struct {
	ReceiverID  string `json:"receiverId"`
	SenderWants string `json:"senderWants"`
	SenderGives string `json:"senderGives"`
}

// updateTradeRequest is the JSON request body for PUT
// /api/users/{userId}/trade/{tradeId}.
type updateTradeRequest struct {
	NewStatus string `json:"newStatus"`
}

// tradeViewResponse is a trade request with its parties and books inlined.
// Parties or books that no longer exist are null.
type tradeViewResponse struct {
	*domain.TradeRequest
	Sender    *domain.User `json:"sender"`
	Receiver  *domain.User `json:"receiver"`
	WantsBook *domain.Book `json:"wantsBook"`
	GivesBook *domain.Book `json:"givesBook"`
}

// tradeOverviewResponse is the JSON response for GET /api/users/{userId}/trade.
type tradeOverviewResponse struct {
	SentRequests     []tradeViewResponse `json:"sentRequests"`
	ReceivedRequests []tradeViewResponse `json:"receivedRequests"`
}

// Create handles POST /api/users/{userId}/trade.
func (h *TradeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTradeRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	trade, err := h.tradeSvc.Create(r.Context(), service.CreateTradeRequest{
		SenderID:    chi.URLParam(r, "userId"),
		ReceiverID:  req.ReceiverID,
		SenderWants: req.SenderWants,
		SenderGives: req.SenderGives,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusCreated, trade)
}

// Retrieve handles GET /api/users/{userId}/trade.
func (h *TradeHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	overview, err := h.tradeSvc.Retrieve(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, tradeOverviewResponse{
		SentRequests:     buildTradeViews(overview.SentRequests),
		ReceivedRequests: buildTradeViews(overview.ReceivedRequests),
	})
}

// UpdateStatus handles PUT /api/users/{userId}/trade/{tradeId}. Only the
// receiver of a trade can answer it.
func (h *TradeHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateTradeRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	trade, err := h.tradeSvc.UpdateStatus(r.Context(),
		chi.URLParam(r, "userId"), chi.URLParam(r, "tradeId"), req.NewStatus)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, trade)
}

func buildTradeViews(views []service.TradeView) []tradeViewResponse {
	result := make([]tradeViewResponse, len(views))
	for i, v := range views {
		result[i] = tradeViewResponse{
			TradeRequest: v.Trade,
			Sender:       v.Sender,
			Receiver:     v.Receiver,
			WantsBook:    v.WantsBook,
			GivesBook:    v.GivesBook,
		}
	}
	return result
}
