package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wallet-console-service/internal/config"
	"github.com/wallet-console-service/internal/handler"
	adminhandler "github.com/wallet-console-service/internal/handler/admin"
	"github.com/wallet-console-service/internal/middleware"
	"github.com/wallet-console-service/internal/ratelimit"
	"github.com/wallet-console-service/internal/service"
	"github.com/wallet-console-service/internal/store"
	"github.com/wallet-console-service/internal/wallet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogger(cfg)
	service.ExposeDetails(!cfg.IsProduction())

	if result := cfg.ValidateRuntime(); !result.Valid {
		if cfg.IsProduction() {
			log.Fatal().Strs("errors", result.Errors).Msg("configuration invalid for production")
		}
		log.Warn().Strs("errors", result.Errors).Msg("configuration incomplete, admin operations will fail until fixed")
	}

	fileStore, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("failed to open data directory")
	}
	auditLog, err := store.NewAuditLog(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("failed to open audit log")
	}
	audit := service.NewAuditLogger(auditLog)

	walletClient := wallet.New(cfg.WalletAPIURL, cfg.WalletAppID, cfg.WalletAppSecret, cfg.WalletTimeout)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	counters := buildRateLimitStore(ctx, cfg)
	presets := middleware.PresetsFromConfig(cfg)

	handshake := service.NewHandshake(cfg.WalletAppSecret, 0)
	gate := middleware.NewAdminGate(walletClient, cfg)
	loginAttempts := middleware.NewLoginAttemptLimiter(5, 5*time.Minute, 15*time.Minute)

	router := buildRouter(cfg, fileStore, audit, walletClient, counters, presets, handshake, gate, loginAttempts)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	log.Info().
		Int("port", cfg.Port).
		Str("environment", cfg.Environment).
		Msg("wallet console service listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// buildRateLimitStore prefers the shared Redis counter when REDIS_URL is set;
// otherwise each instance keeps its own in-memory budget and sweeps it in the
// background.
func buildRateLimitStore(ctx context.Context, cfg *config.Config) ratelimit.Store {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		redisStore, err := ratelimit.NewRedisStore(redis.NewClient(opts), "")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		log.Info().Msg("rate limiting backed by redis")
		return redisStore
	}

	memStore := ratelimit.NewMemoryStore()
	memStore.StartSweeper(ctx, ratelimit.DefaultSweepInterval)
	return memStore
}

func buildRouter(
	cfg *config.Config,
	fileStore *store.FileStore,
	audit *service.AuditLogger,
	walletClient *wallet.Client,
	counters ratelimit.Store,
	presets middleware.Presets,
	handshake *service.Handshake,
	gate *middleware.AdminGate,
	loginAttempts *middleware.LoginAttemptLimiter,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Metrics)
	r.Use(middleware.RequireJSON)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	requireAuth := middleware.Auth(cfg.IsProduction(), cfg.SessionMaxAge)
	requireAdmin := gate.Middleware()
	limit := func(p middleware.Preset) func(http.Handler) http.Handler {
		return middleware.RateLimit(counters, p)
	}

	r.Handle("/metrics", promhttp.Handler())
	r.With(limit(presets.General)).Method(http.MethodGet, "/api/health", handler.NewHealthHandler(cfg.Environment))

	// Auth
	r.Route("/api/auth", func(r chi.Router) {
		r.With(limit(presets.Auth)).Method(http.MethodGet, "/login",
			handler.NewLoginHandler(handshake, cfg.WalletConnectURL, cfg.WalletAppID))
		r.With(limit(presets.AuthCallback)).Method(http.MethodPost, "/callback",
			handler.NewCallbackHandler(handshake, walletClient, loginAttempts, audit, cfg.IsProduction(), cfg.SessionMaxAge))
		r.With(limit(presets.Auth)).Method(http.MethodPost, "/logout",
			handler.NewLogoutHandler(audit, cfg.IsProduction()))
		r.With(limit(presets.Auth), requireAuth).Method(http.MethodGet, "/profile",
			handler.NewProfileHandler(walletClient))
	})

	// Wallet operations for the authenticated session
	r.Route("/api/wallet", func(r chi.Router) {
		r.Use(requireAuth)
		r.With(limit(presets.General)).Method(http.MethodGet, "/balance", handler.NewBalanceHandler(walletClient))
		r.With(limit(presets.General)).Method(http.MethodGet, "/exchange-rate", handler.NewExchangeRateHandler(walletClient))
		r.With(limit(presets.Payment)).Method(http.MethodPost, "/pay", handler.NewSendPaymentHandler(walletClient, audit))
	})

	// Items
	r.Route("/api/items", func(r chi.Router) {
		r.Use(requireAuth)
		r.With(limit(presets.General)).Method(http.MethodGet, "/inventory", handler.NewInventoryHandler(walletClient))
		r.With(limit(presets.ItemTransfer)).Method(http.MethodPost, "/transfer", handler.NewTransferItemsHandler(walletClient, audit))
		r.With(limit(presets.ItemTransfer)).Method(http.MethodPost, "/burn", handler.NewBurnItemHandler(walletClient, audit))
	})

	r.With(limit(presets.General), requireAuth).Method(http.MethodGet, "/api/friends",
		handler.NewFriendsHandler(walletClient))
	r.With(limit(presets.General)).Method(http.MethodGet, "/api/collections",
		handler.NewCollectionsHandler(fileStore))

	// Webhooks authenticate with app credentials, not a session.
	webhook := handler.NewPaymentWebhookHandler(cfg.WalletAppID, cfg.WalletAppSecret, fileStore, audit)
	r.With(limit(presets.Webhook)).Method(http.MethodGet, "/api/webhooks/payment", webhook)
	r.With(limit(presets.Webhook)).Method(http.MethodPost, "/api/webhooks/payment", webhook)

	// Admin console
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(limit(presets.Admin), requireAuth)

		// The gate verdict endpoints sit outside the gate itself.
		r.Method(http.MethodGet, "/check", adminhandler.NewCheckHandler(gate, audit))
		r.Method(http.MethodGet, "/status", adminhandler.NewStatusHandler(gate))

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)

			r.Method(http.MethodGet, "/config-check", adminhandler.NewConfigCheckHandler(cfg))

			r.Method(http.MethodGet, "/collections", adminhandler.NewListCollectionsHandler(fileStore))
			r.Method(http.MethodPost, "/collections", adminhandler.NewCreateCollectionHandler(fileStore, walletClient, audit))
			r.Method(http.MethodGet, "/collections/{id}", adminhandler.NewGetCollectionHandler(fileStore))
			r.Method(http.MethodPut, "/collections/{id}", adminhandler.NewUpdateCollectionHandler(fileStore, audit))
			r.Method(http.MethodDelete, "/collections/{id}", adminhandler.NewDeleteCollectionHandler(fileStore, audit))

			r.Method(http.MethodGet, "/templates", adminhandler.NewListTemplatesHandler(fileStore))
			r.Method(http.MethodPost, "/templates", adminhandler.NewCreateTemplateHandler(fileStore, fileStore))
			r.Method(http.MethodPut, "/templates/{id}", adminhandler.NewUpdateTemplateHandler(fileStore))
			r.Method(http.MethodDelete, "/templates/{id}", adminhandler.NewDeleteTemplateHandler(fileStore))

			r.With(middleware.RateLimit(counters, presets.Mint)).
				Method(http.MethodPost, "/mint", adminhandler.NewMintHandler(fileStore, fileStore, walletClient, audit))

			r.Method(http.MethodGet, "/payments", adminhandler.NewListPaymentsHandler(fileStore))
			r.Method(http.MethodGet, "/payment-requests/{id}/payments", adminhandler.NewPaymentRequestPaymentsHandler(fileStore))
			r.Method(http.MethodPost, "/payments/send", handler.NewSendPaymentHandler(walletClient, audit))
		})
	})

	return r
}
