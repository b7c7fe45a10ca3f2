package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gowaffles/assistant/config"
	httpDelivery "github.com/gowaffles/assistant/internal/delivery/http"
	"github.com/gowaffles/assistant/internal/business"
	"github.com/gowaffles/assistant/internal/infrastructure/cache"
	"github.com/gowaffles/assistant/internal/infrastructure/catalog"
	"github.com/gowaffles/assistant/internal/infrastructure/llm"
	"github.com/gowaffles/assistant/internal/infrastructure/telegram"
	"github.com/gowaffles/assistant/internal/metrics"
	"github.com/gowaffles/assistant/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is a local convenience; production reads the real environment only
	if os.Getenv("GOWAFFLES_SERVER_ENVIRONMENT") != "production" {
		if err := config.LoadEnvFile(); err != nil {
			log.Printf("WARNING: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting Go Waffles assistant",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.Bool("openai_configured", cfg.OpenAIConfigured()),
		zap.Bool("telegram_configured", cfg.TelegramConfigured()))

	if !cfg.OpenAIConfigured() {
		logger.Warn("no completion API key: every reply will be the fixed no-credentials message")
	}
	if !cfg.TelegramConfigured() {
		logger.Warn("no Telegram token: the Telegram webhook will report an error")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Initialize infrastructure dependencies
	menuClient := catalog.NewClient(cfg.Catalog.URL, cfg.Catalog.Timeout, logger)
	menuCache := cache.NewCatalogCache(menuClient, cfg.Catalog.TTL, logger, cache.WithMetrics(m))

	completion := llm.NewClient(llm.Config{
		APIKey:            cfg.OpenAI.APIKey,
		BaseURL:           cfg.OpenAI.BaseURL,
		Model:             cfg.OpenAI.Model,
		RequestsPerMinute: cfg.OpenAI.RequestsPerMinute,
		Burst:             cfg.OpenAI.Burst,
	}, logger)

	sender := telegram.NewSender(cfg.Telegram.Token, cfg.Telegram.APIEndpoint, cfg.Telegram.Timeout, logger, m)

	profile, err := business.NewProfile(
		cfg.Business.Name,
		cfg.Business.City,
		cfg.Business.Timezone,
		cfg.Business.MenuURL,
		cfg.Business.ContactEmail,
		cfg.Business.Facts,
	)
	if err != nil {
		return fmt.Errorf("building business profile: %w", err)
	}

	// Initialize usecase layer
	preprocessor := usecase.NewQueryPreprocessor(logger, cfg.Matching.EnableDebugLogging)
	matcher := usecase.NewMatchingService(usecase.MatchConfig{
		Threshold:          cfg.Matching.Threshold,
		Limit:              cfg.Matching.Limit,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	}, logger)
	classifier := usecase.NewIntentClassifier(completion, preprocessor, usecase.IntentConfig{
		LLMEnabled: cfg.Intent.LLMEnabled,
		Timeout:    cfg.Intent.Timeout,
	}, logger, m)
	composer := usecase.NewResponseComposer(
		completion,
		classifier,
		menuCache,
		matcher,
		profile,
		usecase.ComposerConfig{
			Temperature: cfg.Composer.Temperature,
			Timeout:     cfg.Composer.Timeout,
		},
		logger,
		usecase.WithComposerMetrics(m),
	)

	handler := httpDelivery.NewHandler(composer, sender, completion, cfg.Server.WebhookURL, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger, registry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Prefetch the menu in the background
	go menuCache.GetCatalog(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("drain", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
