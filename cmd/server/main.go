package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/a2a"
	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/api"
	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/config"
	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/crm"
	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/events"
	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/llm"
	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/logging"
	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/pipeline"
	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/recommend"
	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/sentiment"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log)
	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, closeBackend, err := newBackend(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeBackend()

	store := crm.NewStore(backend, crm.Options{RejectDuplicates: cfg.Store.RejectDuplicates}, logger)
	if _, err := store.Load(ctx); err != nil {
		logger.Warn().Err(err).Msg("customer data unavailable, continuing with an empty store")
	}

	gemini, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
		APIKey:          cfg.Gemini.APIKey,
		Model:           cfg.Gemini.Model,
		Temperature:     cfg.Gemini.Temperature,
		TopP:            cfg.Gemini.TopP,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer gemini.Close()

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic, logger)
		logger.Info().Strs("brokers", cfg.Events.Brokers).Str("topic", cfg.Events.Topic).Msg("publishing interaction events")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close event publisher")
		}
	}()

	engine := recommend.NewEngine(llm.NewRetryGenerator(gemini, cfg.Gemini.Retries, 0, logger), logger)
	assistant := pipeline.New(
		store,
		sentiment.NewScorer(sentiment.NewVaderPolarizer()),
		engine,
		publisher,
		pipeline.Options{
			GenerationTimeout: cfg.Gemini.Timeout,
			RecordSuggestions: cfg.Pipeline.RecordSuggestions,
			PublishTimeout:    cfg.Pipeline.PublishTimeout,
		},
		logger,
	)

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(logger))
	api.NewHandler(store, assistant, logger).RegisterRoutes(router)
	a2a.NewA2AHandler(assistant, logger).RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("agent_card", "/.well-known/agent.json").
			Str("a2a", a2a.AssistantPath).
			Msg("sales call assistant starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newBackend(ctx context.Context, cfg config.StoreConfig) (crm.Backend, func(), error) {
	switch cfg.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return crm.NewRedisBackend(client, cfg.RedisKey), func() { client.Close() }, nil
	default:
		return crm.NewFileBackend(afero.NewOsFs(), cfg.Path), func() {}, nil
	}
}
