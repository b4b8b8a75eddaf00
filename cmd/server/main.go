package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stonefield-io/brickscan/internal"
	"github.com/stonefield-io/brickscan/internal/ai"
	"github.com/stonefield-io/brickscan/internal/ai/azure"
	"github.com/stonefield-io/brickscan/internal/ai/mock"
	"github.com/stonefield-io/brickscan/internal/handler"
	"github.com/stonefield-io/brickscan/internal/metrics"
	"github.com/stonefield-io/brickscan/internal/middleware"
	"github.com/stonefield-io/brickscan/internal/service"
	"github.com/stonefield-io/brickscan/internal/session"
	"github.com/stonefield-io/brickscan/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting brickscan server",
		"env", cfg.Env,
		"port", cfg.Port,
		"storage_provider", cfg.StorageProvider,
		"ai_provider", cfg.AIProvider,
		"session_store", cfg.SessionStore,
	)

	ctx := context.Background()

	// Storage backend
	store, err := newStorage(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Session result cache
	sessions, err := newSessionStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}
	defer sessions.Close()

	// AI provider
	provider, err := newAIProvider(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize AI provider: %w", err)
	}

	svc := service.NewAssessmentService(
		provider,
		store,
		sessions,
		service.NewThumbnailProcessor(),
		logger,
	)

	assessments := handler.NewAssessmentHandler(svc, logger)
	health := handler.NewHealthHandler(svc, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/assessments", assessments.Create)
	mux.HandleFunc("GET /api/assessments/{id}", assessments.Get)
	mux.HandleFunc("GET /health", health.Live)
	mux.HandleFunc("GET /api/health/ai", health.AI)

	// Metrics endpoint with optional basic auth
	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	// Serve locally stored files when using filesystem storage
	if cfg.StorageProvider == storage.ProviderLocal {
		fs := http.FileServer(http.Dir(cfg.LocalStoragePath))
		mux.Handle("GET /files/", http.StripPrefix("/files/", fs))
	}

	// Fallback for unmatched routes
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handler.NotFoundResponse(w, r)
	})

	security := middleware.NewSecurityHeadersMiddleware(cfg.Env == "production")
	logging := middleware.NewRequestLoggingMiddleware(logger)
	chain := middleware.Stack(
		security.Handler,
		logging.Handler,
		metrics.Middleware,
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: chain(mux),
		// Uploads of up to ten 20MB images plus a long AI round trip need
		// generous timeouts.
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  time.Minute,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func newStorage(cfg *internal.Config, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.StorageProvider {
	case storage.ProviderS3:
		return storage.NewS3Storage(storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			BucketName:      cfg.S3BucketName,
			PublicURL:       cfg.S3PublicURL,
		}, logger)
	default:
		return storage.NewLocalStorage(storage.LocalConfig{
			BasePath: cfg.LocalStoragePath,
			BaseURL:  cfg.LocalStorageURL,
		}, logger)
	}
}

func newSessionStore(ctx context.Context, cfg *internal.Config, logger *slog.Logger) (session.Store, error) {
	switch cfg.SessionStore {
	case session.ProviderRedis:
		return session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.SessionTTL, logger)
	default:
		return session.NewMemoryStore(cfg.SessionTTL, logger), nil
	}
}

func newAIProvider(cfg *internal.Config, logger *slog.Logger) (ai.Provider, error) {
	switch cfg.AIProvider {
	case "azure":
		return azure.New(azure.Config{
			Endpoint:       cfg.AzureOpenAIEndpoint,
			APIKey:         cfg.AzureOpenAIAPIKey,
			Deployment:     cfg.AzureOpenAIDeployment,
			RequestTimeout: cfg.AIRequestTimeout,
		}, logger)
	default:
		logger.Warn("using mock AI provider; set AI_PROVIDER=azure for real analysis")
		return mock.New(logger), nil
	}
}
