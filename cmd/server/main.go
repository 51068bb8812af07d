package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"zokoai-middleware/internal/api"
	"zokoai-middleware/internal/config"
	"zokoai-middleware/internal/handlers"
	"zokoai-middleware/internal/integrations/openai"
	"zokoai-middleware/internal/integrations/shopify"
	"zokoai-middleware/internal/integrations/zoko"
	"zokoai-middleware/internal/language"
	"zokoai-middleware/internal/ratelimit"
	"zokoai-middleware/internal/retry"
	"zokoai-middleware/internal/scheduler"
	"zokoai-middleware/internal/services"
	"zokoai-middleware/internal/store"
	"zokoai-middleware/internal/store/memory"
	"zokoai-middleware/internal/store/postgres"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	slog.Info("starting zoko AI middleware backend")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize History Store
	var historyStore store.Store
	var dbpool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dbCancel()

		dbpool, err = pgxpool.New(dbCtx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("unable to create database connection pool", "error", err)
			os.Exit(1)
		}
		defer dbpool.Close()

		if err := dbpool.Ping(dbCtx); err != nil {
			slog.Error("unable to ping database", "error", err)
			os.Exit(1)
		}

		pgStore := postgres.NewPostgresStore(dbpool)
		if err := pgStore.EnsureSchema(dbCtx); err != nil {
			slog.Error("unable to ensure database schema", "error", err)
			os.Exit(1)
		}
		historyStore = pgStore
		slog.Info("postgres history store initialized")
	} else {
		historyStore = memory.NewMemoryStore()
		slog.Warn("DATABASE_URL not set, using in-memory history store; conversations will not survive a restart")
	}

	// 3. Initialize Gateways
	messagingGateway := zoko.NewClient(cfg.ZokoBaseURL, cfg.ZokoAPIKey)
	catalogGateway := shopify.NewClient(cfg.ShopifyStoreName, cfg.ShopifyAPIKey, cfg.ShopifyAPIPassword)
	languageGateway := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, openai.WithBaseURL(cfg.OpenAIBaseURL))
	detector := language.NewDetector()

	// 4. Initialize Services
	conversationService := services.NewConversationService(
		historyStore,
		messagingGateway,
		catalogGateway,
		languageGateway,
		detector,
		retry.DefaultPolicy(),
		cfg.ShopifyStoreName,
	)

	templates, err := services.LoadTemplates(cfg.TemplatesPath)
	if err != nil {
		slog.Error("failed to load broadcast templates", "error", err)
		os.Exit(1)
	}
	broadcastService := services.NewBroadcastService(historyStore, messagingGateway, templates)

	// 5. Setup Router
	limiter := ratelimit.New(cfg.RateLimit, cfg.RatePeriod)
	router := api.NewRouter(api.RouterDependencies{
		WebhookHandler:   handlers.NewWebhookHandler(conversationService),
		SystemHandler:    handlers.NewSystemHandlers(historyStore),
		BroadcastHandler: handlers.NewBroadcastHandler(broadcastService),
		APIKey:           cfg.APIKey,
		Limiter:          limiter,
	})

	// 6. Optional scheduled broadcast
	if cfg.BroadcastCron != "" {
		sched, err := scheduler.New()
		if err != nil {
			slog.Error("failed to create scheduler", "error", err)
			os.Exit(1)
		}
		err = sched.AddCronJob("promo-broadcast", cfg.BroadcastCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := broadcastService.BroadcastPromo(ctx); err != nil {
				slog.Error("scheduled broadcast failed", "error", err)
			}
		})
		if err != nil {
			slog.Error("failed to schedule broadcast", "error", err)
			os.Exit(1)
		}
		sched.Start()
		defer func() {
			if err := sched.Shutdown(); err != nil {
				slog.Warn("scheduler shutdown failed", "error", err)
			}
		}()
	}

	// 7. Configure and Start HTTP Server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-stopChan
	slog.Info("shutdown signal received, draining")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server shutdown complete")
}
