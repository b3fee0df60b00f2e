package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/fliparcade/coinroyale/internal/broadcast"
	"github.com/fliparcade/coinroyale/internal/config"
	"github.com/fliparcade/coinroyale/internal/database"
	"github.com/fliparcade/coinroyale/internal/game"
	"github.com/fliparcade/coinroyale/internal/ledger"
	"github.com/fliparcade/coinroyale/internal/server"
	"github.com/fliparcade/coinroyale/internal/whop"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ledger ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	store, err := ledger.New(ctx, db)
	if err != nil {
		return fmt.Errorf("initializing ledger: %w", err)
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := store.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("seeding admin account: %w", err)
		}
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Whop platform ---
	whopClient := whop.NewClient(cfg.WhopAPIURL, cfg.WhopAPIKey, cfg.WhopAppID, logger)
	verifier, err := whop.NewTokenVerifier(cfg.WhopAppID, cfg.WhopJWTPublicKey)
	if err != nil {
		return fmt.Errorf("initializing token verifier: %w", err)
	}
	payouts := whop.NewPayouts(whopClient, store, cfg.WhopHostCompanyID, cfg.WhopLedgerAccountID, logger)
	notifications := whop.NewNotifications(whopClient, cfg.WhopExperienceID)

	// --- Game engine ---
	broker := broadcast.NewBroker()
	games := game.NewManager(game.Config{
		EntryFee:       cfg.EntryFee,
		MinPlayers:     cfg.MinPlayers,
		PickSeconds:    cfg.PickSeconds,
		FlipSeconds:    cfg.FlipSeconds,
		ResultsSeconds: cfg.ResultsSeconds,
		Retention:      game.DefaultConfig().Retention,
	}, logger, broker, payouts, notifications, store)

	driver := game.NewDriver(games, logger)
	if err := driver.Start(); err != nil {
		return fmt.Errorf("starting game engine: %w", err)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, server.Deps{
		Logger:        logger,
		Games:         games,
		Broker:        broker,
		Verifier:      verifier,
		Whop:          whopClient,
		Ledger:        store,
		DB:            db,
		PlanID:        cfg.WhopPlanID,
		RedirectURL:   cfg.AppURL,
		WebhookSecret: cfg.WhopWebhookSecret,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		if err := driver.Stop(); err != nil {
			logger.Error("stopping game engine failed", "error", err)
		}
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
