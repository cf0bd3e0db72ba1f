package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/efreitasn/bookswap/internal/booksearch"
	"github.com/efreitasn/bookswap/internal/cache"
	"github.com/efreitasn/bookswap/internal/config"
	"github.com/efreitasn/bookswap/internal/handler"
	"github.com/efreitasn/bookswap/internal/service"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func newServeCmd() *cobra.Command {
	var autoMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "run schema migrations before serving (sqlite and postgres only)")
	return cmd
}

func runServe(ctx context.Context, autoMigrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg.LogLevel)

	st, err := openStores(cfg, logger, autoMigrate)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("store close error", slog.String("error", err.Error()))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Search cache is optional; a nil interface disables it.
	var searchCache service.JSONCache
	if cfg.RedisURL != "" {
		c, err := cache.New(ctx, cfg.RedisURL, "bookswap:")
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer c.Close()
		searchCache = c
		logger.Info("search cache enabled")
	}

	// Services (webhook first, needed by the trade service).
	webhookSvc := service.NewWebhookService(st.webhooks, st.users, cfg.WebhookTimeout, logger)
	svcs := handler.Services{
		Users:     service.NewUserService(st.users, st.wishlists, st.webhooks, bcrypt.DefaultCost),
		Books:     service.NewBookService(st.books, st.users),
		Wishlists: service.NewWishlistService(st.wishlists, st.books, st.users),
		Trades:    service.NewTradeService(st.trades, st.users, st.books, webhookSvc),
		Webhooks:  webhookSvc,
		Search: service.NewSearchService(
			booksearch.NewClient(cfg.BooksAPIURL, cfg.BooksAPIKey, cfg.BooksAPITimeout),
			searchCache, cfg.SearchCacheTTL, logger,
		),
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(svcs, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", addr), slog.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	// Graceful shutdown: stop accepting requests, then drain webhook deliveries.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	webhookSvc.Wait()

	logger.Info("server stopped")
	return nil
}
