package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/efreitasn/bookswap/internal/config"
	"github.com/efreitasn/bookswap/internal/service"
	"github.com/efreitasn/bookswap/internal/store"
	"github.com/efreitasn/bookswap/internal/store/sqlstore"
	"gorm.io/gorm"
)

// newLogger builds the JSON slog logger at the configured level and sets it
// as the default.
func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// stores is the storage backend selected by STORE_DRIVER.
type stores struct {
	users     service.Users
	books     service.Books
	wishlists service.Wishlists
	trades    service.TradeRequests
	webhooks  service.Webhooks
	db        *gorm.DB
}

func (s *stores) Close() error {
	if s.db == nil {
		return nil
	}
	return sqlstore.Close(s.db)
}

// openStores opens the configured backend. SQL backends are migrated first
// when migrate is set.
func openStores(cfg *config.Config, logger *slog.Logger, migrate bool) (*stores, error) {
	if cfg.StoreDriver == config.DriverMemory {
		return &stores{
			users:     store.NewUserStore(),
			books:     store.NewBookStore(),
			wishlists: store.NewWishlistStore(),
			trades:    store.NewTradeLedger(),
			webhooks:  store.NewWebhookStore(),
		}, nil
	}

	db, err := openDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := sqlstore.Migrate(db); err != nil {
			_ = sqlstore.Close(db)
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &stores{
		users:     sqlstore.NewUserStore(db),
		books:     sqlstore.NewBookStore(db),
		wishlists: sqlstore.NewWishlistStore(db),
		trades:    sqlstore.NewTradeLedger(db),
		webhooks:  sqlstore.NewWebhookStore(db),
		db:        db,
	}, nil
}

func openDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := sqlstore.Open(cfg.StoreDriver, cfg.DatabaseDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	return db, nil
}
