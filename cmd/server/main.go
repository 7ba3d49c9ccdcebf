package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/glkeru/loyalty/ledgersync/internal/api"
	config "github.com/glkeru/loyalty/ledgersync/internal/config"
	db "github.com/glkeru/loyalty/ledgersync/internal/db"
	kafka "github.com/glkeru/loyalty/ledgersync/internal/external/kafka"
	rabbit "github.com/glkeru/loyalty/ledgersync/internal/external/rabbitmq"
	interf "github.com/glkeru/loyalty/ledgersync/internal/interfaces"
	services "github.com/glkeru/loyalty/ledgersync/internal/services"
	tracing "github.com/glkeru/loyalty/ledgersync/observability/otel"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	// log
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// tracing
	shutdownTracer, err := tracing.InitTracer(ctx, cfg.OTLPEndpoint, logger)
	if err != nil {
		logger.Fatal("tracer", zap.Error(err))
	}
	defer shutdownTracer(context.Background())

	// database
	ledgerDB, err := db.NewLedgerDB(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("postgres", zap.Error(err))
	}
	defer ledgerDB.Close()

	// cache
	cache, err := db.NewCacheService(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer cache.Close()

	// catalog
	catalog, err := db.NewCatalogDB(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal("mongo", zap.Error(err))
	}
	defer catalog.Close(context.Background())

	// rabbitmq
	broker, err := rabbit.NewRedeemBroker(cfg.Rabbit, logger)
	if err != nil {
		logger.Fatal("rabbitmq", zap.Error(err))
	}
	defer broker.Close()

	repo := db.NewRepository(ledgerDB, cache, catalog, broker, logger)

	// поток баланса
	var watcher interf.BalanceWatcher
	switch cfg.Engine.BalanceStream {
	case config.StreamRedis:
		watcher = cache
	case config.StreamKafka:
		watcher, err = kafka.NewBalanceReader(cfg.Kafka, logger)
		if err != nil {
			logger.Fatal("kafka", zap.Error(err))
		}
	}

	// движки пользователей
	engines := api.NewEngines(ctx, func(user string) *services.Engine {
		return services.NewEngine(user, repo, watcher, logger.With(zap.String("user", user)),
			services.WithPageSize(cfg.Engine.PageSize),
			services.WithDebounce(cfg.Engine.Debounce),
			services.WithReconcileInterval(cfg.Engine.ReconcileInterval),
			services.WithReconcileCategories(cfg.Engine.ReconcileCategories),
			services.WithBatchConcurrency(cfg.Engine.BatchConcurrency),
			services.WithBatchChunk(cfg.Engine.BatchChunk),
		)
	})
	defer engines.Close()

	// api handlers
	r := api.NewHandler(engines, catalog, logger)
	srv := &http.Server{
		Handler:     otelhttp.NewHandler(r, "ledgersync"),
		Addr:        cfg.HTTPAddr,
		ReadTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", zap.Error(err))
			cancel()
		}
	}()
	logger.Info("ledgersync started", zap.String("addr", cfg.HTTPAddr), zap.String("stream", cfg.Engine.BalanceStream))

	// shutdown
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	select {
	case <-interrupt:
	case <-ctx.Done():
	}
	timeout, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	err = srv.Shutdown(timeout)
	if err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
