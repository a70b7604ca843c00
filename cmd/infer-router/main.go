package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aescanero/dago-infer-router/internal/api"
	"github.com/aescanero/dago-infer-router/internal/config"
	"github.com/aescanero/dago-infer-router/internal/events"
	"github.com/aescanero/dago-infer-router/internal/metrics"
	"github.com/aescanero/dago-infer-router/internal/router"
	"github.com/aescanero/dago-infer-router/internal/store"
	"github.com/aescanero/dago-infer-router/internal/strategy"
	"github.com/aescanero/dago-infer-router/internal/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set at build time
	Version = "dev"
	// BuildTime is set at build time
	BuildTime = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting infer router",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("worker_id", cfg.WorkerID),
	)

	// Log configuration (without sensitive data)
	logger.Info("configuration loaded", zap.String("config", cfg.String()))

	st, redisClient := initStore(cfg, logger)

	var publisher events.Publisher = events.Nop{}
	if cfg.EventStream != "" && redisClient != nil {
		publisher = events.NewRedisPublisher(redisClient, cfg.EventStream, cfg.EventStreamMaxLen, logger)
		logger.Info("publishing events", zap.String("stream", cfg.EventStream))
	}

	routerInstance, err := router.NewRouter(cfg.QueueThreshold, cfg.RoutingRule, logger)
	if err != nil {
		logger.Fatal("failed to initialize router", zap.Error(&config.ConfigError{Err: err}))
	}
	logger.Info("router initialized",
		zap.Int64("threshold", cfg.QueueThreshold),
		zap.String("rule", cfg.RoutingRule),
	)

	strategies, err := initStrategies(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize strategies", zap.Error(err))
	}

	m := metrics.New()

	w, err := worker.NewWorker(cfg, st, st, routerInstance, strategies, publisher, m, logger)
	if err != nil {
		logger.Fatal("failed to initialize worker", zap.Error(&config.ConfigError{Err: err}))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w.Start(ctx)

	apiServer := api.NewServer(cfg.HTTPPort, api.NewHandler(st, st, cfg.ResultsLimit, m, logger), logger)
	if err := apiServer.Start(); err != nil {
		logger.Fatal("failed to start api server", zap.Error(err))
	}

	healthServer := worker.NewHealthServer(cfg.HealthPort, st, w, m.Handler(), logger)
	if err := healthServer.Start(); err != nil {
		logger.Fatal("failed to start health server", zap.Error(err))
	}

	logger.Info("infer router running, press Ctrl+C to stop")
	<-ctx.Done()

	logger.Info("shutdown signal received, stopping")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Error("failed to stop api server", zap.Error(err))
	}

	// the worker sees the cancelled context and drains its in-flight job
	if err := w.Wait(shutdownCtx); err != nil {
		logger.Warn("shutdown timeout exceeded, forcing exit", zap.Error(err))
	}

	if err := healthServer.Stop(shutdownCtx); err != nil {
		logger.Error("failed to stop health server", zap.Error(err))
	}

	if err := publisher.Close(); err != nil {
		logger.Error("failed to close event publisher", zap.Error(err))
	}

	if err := st.Close(); err != nil {
		logger.Error("failed to close store", zap.Error(err))
	}

	logger.Info("infer router stopped")
}

// initLogger initializes the logger
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

// initStore connects the configured backend. The Redis client is returned for
// components that share the connection.
func initStore(cfg *config.Config, logger *zap.Logger) (store.Store, *redis.Client) {
	if cfg.StoreBackend == "memory" {
		logger.Warn("using in-memory store, jobs are lost on restart")
		return store.NewMemory(cfg.ResultsRetention), nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// The worker retries later failures; an unreachable Redis at startup is
	// only logged so jobs can start flowing once it comes up.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not reachable at startup", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	}

	return store.NewRedis(redisClient, cfg.QueueKey, cfg.ResultsKey, cfg.ResultsRetention), redisClient
}

// initStrategies builds the strategy behind each routing decision
func initStrategies(cfg *config.Config, logger *zap.Logger) (strategy.Set, error) {
	strategies := strategy.NewSimulatedSet(cfg.FastDuration, cfg.AccurateDuration)

	if cfg.AccurateBackend != "llm" {
		return strategies, nil
	}

	client, err := strategy.NewLLMClient(cfg.LLMProvider, cfg.LLMAPIKey, logger)
	if err != nil {
		return nil, &config.ConfigError{Err: err}
	}

	remote, err := strategy.NewRemote(client, strategy.RemoteConfig{
		Model:          cfg.LLMModel,
		PromptTemplate: cfg.LLMPromptTemplate,
		Timeout:        cfg.LLMTimeout,
	}, logger)
	if err != nil {
		return nil, &config.ConfigError{Err: err}
	}

	strategies[router.Accurate] = remote
	logger.Info("accurate strategy served by llm",
		zap.String("provider", cfg.LLMProvider),
		zap.String("model", cfg.LLMModel),
	)

	return strategies, nil
}
