package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/efreitasn/bookswap/internal/config"
	"github.com/efreitasn/bookswap/internal/seed"
	"github.com/efreitasn/bookswap/internal/service"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func newSeedCmd() *cobra.Command {
	var opts seed.Options
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with demo users, books and trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := newLogger(cfg.LogLevel)
			if cfg.StoreDriver == config.DriverMemory {
				return errors.New("seed requires STORE_DRIVER=sqlite or postgres")
			}

			st, err := openStores(cfg, logger, true)
			if err != nil {
				return err
			}
			defer st.Close()

			if opts.Seed == 0 {
				opts.Seed = time.Now().UnixNano()
			}
			webhookSvc := service.NewWebhookService(st.webhooks, st.users, cfg.WebhookTimeout, logger)
			seeder := seed.New(seed.Services{
				Users:  service.NewUserService(st.users, st.wishlists, st.webhooks, bcrypt.DefaultCost),
				Books:  service.NewBookService(st.books, st.users),
				Trades: service.NewTradeService(st.trades, st.users, st.books, webhookSvc),
			}, logger)

			res, err := seeder.Run(cmd.Context(), opts)
			webhookSvc.Wait()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d books, %d trades (password %q)\n",
				len(res.Users), len(res.Books), len(res.Trades), seed.DemoPassword)
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Users, "users", 10, "number of users")
	cmd.Flags().IntVar(&opts.Books, "books", 30, "number of books")
	cmd.Flags().IntVar(&opts.Trades, "trades", 20, "number of trade requests")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 picks one)")
	return cmd
}
