// cmd/pitchcraft/main.go
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

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"pitchcraft/internal/api"
	awsclients "pitchcraft/internal/common/aws"
	"pitchcraft/internal/common/camunda"
	"pitchcraft/internal/common/config"
	"pitchcraft/internal/common/database"
	"pitchcraft/internal/common/logger"
	"pitchcraft/internal/common/observability"
	"pitchcraft/internal/deck"
	"pitchcraft/internal/genai"
	"pitchcraft/internal/imagegen"
	"pitchcraft/internal/pipeline"
	"pitchcraft/internal/retention"
	"pitchcraft/internal/search"
	"pitchcraft/internal/store"

	ebp "pitchcraft/internal/workers/pitch/extract-business-profile"
	gi "pitchcraft/internal/workers/pitch/generate-images"
	gp "pitchcraft/internal/workers/pitch/generate-presentation"
	ndr "pitchcraft/internal/workers/pitch/notify-deck-ready"
	sc "pitchcraft/internal/workers/pitch/synthesize-chart"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting pitchcraft...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.Observability.ServiceName)
	defer obs.Shutdown()
	if err := obs.EnableTracing(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint); err != nil {
		zapLog.Warn("tracing disabled", zap.Error(err))
	}

	ctx := context.Background()
	checks := map[string]api.HealthCheck{}

	// --- Postgres (deck persistence + retention) ---
	var pgStore *store.PostgresStore
	if cfg.Database.Postgres.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		if err := pg.Migrate(ctx); err != nil {
			zapLog.Fatal("postgres migration failed", zap.Error(err))
		}
		pgStore = store.NewPostgresStore(pg.DB)
		checks["postgres"] = pg.Ping
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Redis (deck cache + profile cache) ---
	var rdb *database.RedisClient
	if cfg.Database.Redis.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		checks["redis"] = rdb.Ping
		zapLog.Info("Redis connected successfully")
	}

	// --- Elasticsearch (profile search) ---
	var profileIndex *search.ProfileIndex
	if cfg.Database.Elasticsearch.Enabled {
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		if err := es.EnsureIndex(ctx, search.IndexMapping); err != nil {
			zapLog.Fatal("elasticsearch index setup failed", zap.Error(err))
		}
		profileIndex = search.NewProfileIndex(es.Client, es.Index)
		checks["elasticsearch"] = es.Ping
		zapLog.Info("Elasticsearch connected successfully")
	}

	deckStore := buildDeckStore(pgStore, rdb, log)

	// --- Generative collaborators ---
	placeholder := deck.Placeholder{
		Base:   cfg.Deck.PlaceholderBase,
		Width:  cfg.Deck.ImageWidth,
		Height: cfg.Deck.ImageHeight,
	}

	deps := pipeline.Deps{
		Placeholder:   placeholder,
		Observability: obs,
	}
	if deckStore != nil {
		deps.Store = deckStore
	}
	if profileIndex != nil {
		deps.Index = profileIndex
	}
	if provider := buildProvider(cfg); provider != nil {
		deps.Slides = genai.NewSlideGenerator(provider, llmTimeout(cfg), log)
		zapLog.Info("slide provider configured", zap.String("provider", provider.Name()))
	} else {
		zapLog.Warn("no slide provider configured; decks will be structured")
	}

	var imageGen imagegen.Generator
	if cfg.Images.Enabled && cfg.APIs.OpenAI.APIKey != "" {
		imageGen = imagegen.NewOpenAIGenerator(cfg.APIs.OpenAI.APIKey, cfg.APIs.OpenAI.BaseURL, cfg.APIs.OpenAI.ImageModel)
	}
	images := imagegen.NewBatch(imageGen, placeholder, imagegen.Config{
		Concurrency:    cfg.Images.Concurrency,
		RequestTimeout: config.GetDuration(cfg.Images.RequestTimeout),
	}, log)
	if imageGen != nil {
		deps.Images = images
	}

	generator := pipeline.NewGenerator(deps, log)

	// --- Zeebe workers ---
	var camundaClient *camunda.Client
	var jobWorkers []worker.JobWorker
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				ConnectionTimeout:      10 * time.Second,
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		checks["zeebe"] = camundaClient.HealthCheck
		zapLog.Info("Zeebe client connected successfully")

		jobWorkers = startWorkers(cfg, camundaClient, generator, images, rdb, log, zapLog)
		zapLog.Info("Workers registered", zap.Int("count", len(jobWorkers)))
	}

	// --- Retention sweep ---
	var sweeper *retention.Sweeper
	if cfg.Retention.Enabled && pgStore != nil {
		targets := []retention.Target{{Name: "decks", Pruner: pgStore}}
		if pruner, ok := deckStore.(store.Pruner); ok {
			targets[0].Pruner = pruner
		}
		if profileIndex != nil {
			targets = append(targets, retention.Target{Name: "search", Pruner: profileIndex})
		}

		sweeper, err = retention.NewSweeper(retention.Config{
			Schedule: cfg.Retention.Schedule,
			MaxAge:   time.Duration(cfg.Retention.MaxAge) * time.Hour,
		}, log, targets...)
		if err != nil {
			zapLog.Fatal("retention sweep setup failed", zap.Error(err))
		}
		sweeper.Start()
	}

	// --- HTTP API ---
	apiDeps := api.Deps{
		Generator: generator,
		Images:    images,
		Checks:    checks,
	}
	if deckStore != nil {
		apiDeps.Store = deckStore
	}
	if profileIndex != nil {
		apiDeps.Search = profileIndex
	}
	if camundaClient != nil {
		apiDeps.Workflows = camundaClient
	}

	server := api.NewServer(apiDeps, api.Options{
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		MaxRequestBytes: cfg.Server.MaxRequestBytes,
		MaxTextLength:   cfg.Deck.MaxTextLength,
		ProcessID:       cfg.Camunda.ProcessID,
	}, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if sweeper != nil {
		sweeper.Stop()
	}
	for _, w := range jobWorkers {
		w.Close()
		w.AwaitClose()
	}
	if camundaClient != nil {
		if err := camundaClient.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Shutdown complete")
}

// buildDeckStore layers the Redis cache over Postgres when both are enabled.
// It returns a nil interface when neither is.
func buildDeckStore(pgStore *store.PostgresStore, rdb *database.RedisClient, log logger.Logger) store.DeckStore {
	var cache store.DeckStore
	if rdb != nil {
		cache = store.NewRedisStore(rdb.Client, rdb.DeckTTL())
	}

	switch {
	case pgStore != nil && cache != nil:
		return store.NewCachedStore(pgStore, cache, log)
	case pgStore != nil:
		return pgStore
	default:
		return cache
	}
}

func buildProvider(cfg *config.Config) genai.Provider {
	switch cfg.APIs.Provider {
	case "openai":
		if cfg.APIs.OpenAI.APIKey == "" {
			return nil
		}
		return genai.NewOpenAIProvider(cfg.APIs.OpenAI.APIKey, cfg.APIs.OpenAI.BaseURL, genai.Options{
			Model:       cfg.APIs.OpenAI.ChatModel,
			Temperature: cfg.APIs.OpenAI.Temperature,
			MaxTokens:   cfg.APIs.OpenAI.MaxTokens,
		})
	case "genai":
		if cfg.APIs.GenAI.BaseURL == "" {
			return nil
		}
		return genai.NewGatewayProvider(cfg.APIs.GenAI.BaseURL, cfg.APIs.GenAI.APIKey,
			config.GetDuration(cfg.APIs.GenAI.Timeout), 2, genai.Options{
				Temperature: cfg.APIs.OpenAI.Temperature,
				MaxTokens:   cfg.APIs.OpenAI.MaxTokens,
			})
	}
	return nil
}

func llmTimeout(cfg *config.Config) time.Duration {
	if cfg.APIs.Provider == "genai" {
		return config.GetDuration(cfg.APIs.GenAI.Timeout)
	}
	return config.GetDuration(cfg.APIs.OpenAI.Timeout)
}

func workerTimeout(cfg *config.Config, taskType string, fallback time.Duration) time.Duration {
	if ms := config.GetWorkerConfig(cfg, taskType).Timeout; ms > 0 {
		return config.GetDuration(ms)
	}
	return fallback
}

func startWorkers(
	cfg *config.Config,
	client *camunda.Client,
	generator *pipeline.Generator,
	images *imagegen.Batch,
	rdb *database.RedisClient,
	log logger.Logger,
	zapLog *zap.Logger,
) []worker.JobWorker {
	zc := client.GetClient()
	var started []worker.JobWorker
	add := func(w worker.JobWorker) {
		if w != nil {
			started = append(started, w)
		}
	}

	// extract-business-profile
	{
		wcfg := ebp.LoadConfig()
		wcfg.Timeout = workerTimeout(cfg, ebp.TaskType, wcfg.Timeout)
		wcfg.MaxTextLength = cfg.Deck.MaxTextLength

		var handler *ebp.Handler
		if rdb != nil {
			wcfg.CacheTTL = rdb.ProfileTTL()
			handler = ebp.NewHandler(wcfg, rdb.Client, log)
		} else {
			handler = ebp.NewHandler(wcfg, nil, log)
		}
		add(camunda.StartWorker(zc, ebp.TaskType, config.GetWorkerConfig(cfg, ebp.TaskType), handler.Handle, zapLog))
	}

	// synthesize-chart
	{
		wcfg := sc.LoadConfig()
		wcfg.Timeout = workerTimeout(cfg, sc.TaskType, wcfg.Timeout)
		handler := sc.NewHandler(wcfg, log)
		add(camunda.StartWorker(zc, sc.TaskType, config.GetWorkerConfig(cfg, sc.TaskType), handler.Handle, zapLog))
	}

	// generate-presentation
	{
		wcfg := gp.LoadConfig()
		wcfg.Timeout = workerTimeout(cfg, gp.TaskType, wcfg.Timeout)
		wcfg.MaxTextLength = cfg.Deck.MaxTextLength
		handler := gp.NewHandler(wcfg, generator, log)
		add(camunda.StartWorker(zc, gp.TaskType, config.GetWorkerConfig(cfg, gp.TaskType), handler.Handle, zapLog))
	}

	// generate-images
	{
		wcfg := gi.LoadConfig()
		wcfg.Timeout = workerTimeout(cfg, gi.TaskType, wcfg.Timeout)
		handler := gi.NewHandler(wcfg, images, log)
		add(camunda.StartWorker(zc, gi.TaskType, config.GetWorkerConfig(cfg, gi.TaskType), handler.Handle, zapLog))
	}

	// notify-deck-ready
	if config.IsWorkerEnabled(cfg, ndr.TaskType) {
		n := cfg.Notifications
		wcfg := ndr.DefaultConfig()
		wcfg.Timeout = workerTimeout(cfg, ndr.TaskType, wcfg.Timeout)
		wcfg.EmailEnabled = n.Email.Enabled
		wcfg.TopicEnabled = n.Topic.Enabled
		wcfg.TopicARN = n.Topic.ARN
		if n.Email.FromEmail != "" {
			wcfg.FromEmail = n.Email.FromEmail
		}
		if n.DeckBaseURL != "" {
			wcfg.DeckBaseURL = n.DeckBaseURL
		}

		deps := ndr.ServiceDependencies{Logger: log}
		if n.Email.Enabled || n.Topic.Enabled {
			sesClient, snsClient, err := awsclients.NewClients(context.Background(), n.AWS.Region)
			if err != nil {
				zapLog.Fatal("failed to load AWS clients", zap.Error(err))
			}
			deps.Email = sesClient
			deps.Topic = snsClient
		}

		handler, err := ndr.NewHandler(wcfg, deps)
		if err != nil {
			zapLog.Fatal("failed to create notify-deck-ready handler", zap.Error(err))
		}
		add(camunda.StartWorker(zc, ndr.TaskType, config.GetWorkerConfig(cfg, ndr.TaskType), handler.Handle, zapLog))
	}

	return started
}
