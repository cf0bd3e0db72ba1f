package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/efreitasn/bookswap/internal/metrics"
	"github.com/efreitasn/bookswap/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles the services the router exposes.
type Services struct {
	Users     *service.UserService
	Books     *service.BookService
	Wishlists *service.WishlistService
	Trades    *service.TradeService
	Webhooks  *service.WebhookService
	Search    *service.SearchService
}

// NewRouter creates a chi router with all routes registered, request logging,
// metrics and Content-Type validation middleware.
func NewRouter(svcs Services, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogging(logger))
	r.Use(requestMetrics)
	r.Use(contentTypeJSON)

	userH := NewUserHandler(svcs.Users, svcs.Books, logger)
	bookH := NewBookHandler(svcs.Books, logger)
	wishlistH := NewWishlistHandler(svcs.Wishlists, logger)
	tradeH := NewTradeHandler(svcs.Trades, logger)
	webhookH := NewWebhookHandler(svcs.Webhooks, logger)
	searchH := NewSearchHandler(svcs.Search, logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			WriteJSON(w, http.StatusOK, map[string]string{"message": "welcome to our book-sharing platform api!"})
		})

		r.Post("/register", userH.Register)
		r.Post("/login", userH.Login)

		r.Get("/users", userH.List)
		r.Get("/users/getbooks/{userId}", userH.ListBooks)
		r.Get("/trade-user/{userId}", userH.Get)

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Get("/", userH.Get)
			r.Delete("/", userH.Delete)
			r.Get("/books", userH.ListBooks)

			r.Post("/trade", tradeH.Create)
			r.Get("/trade", tradeH.Retrieve)
			r.Put("/trade/{tradeId}", tradeH.UpdateStatus)

			r.Post("/wishlist", wishlistH.Add)
			r.Get("/wishlist", wishlistH.List)
			r.Delete("/wishlist/{bookId}", wishlistH.Remove)

			r.Post("/webhooks", webhookH.Upsert)
			r.Get("/webhooks", webhookH.List)
			r.Delete("/webhooks/{webhookId}", webhookH.Delete)
		})

		r.Get("/books/search", searchH.Search)
		r.Get("/books/fetchBook", searchH.FetchBook)
		r.Get("/books/all-uploaded", bookH.ListAllUploaded)
		r.Post("/books", bookH.Create)
		r.Get("/books", bookH.List)
		r.Get("/books/{bookId}", bookH.Get)
		r.Put("/books/{bookId}", bookH.Update)
		r.Delete("/books/{bookId}", bookH.Delete)
	})

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// requestMetrics records request counts and latency by route pattern.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON is middleware that validates Content-Type for POST, PUT, and
// PATCH requests. If the Content-Type header doesn't start with
// "application/json", it returns 400 Bad Request before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
