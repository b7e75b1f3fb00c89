package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"lnd-advisor/internal/common/config"
	"lnd-advisor/internal/common/logger"
	"lnd-advisor/internal/common/observability"
	"lnd-advisor/internal/history"
	"lnd-advisor/internal/lnd"
	"lnd-advisor/internal/mcp"
	"lnd-advisor/internal/query"
	"lnd-advisor/internal/query/intent"
	"lnd-advisor/internal/query/summary"
)

const version = "1.0.0"

// retryWithBackoff attempts to execute a function with exponential backoff.
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

	// MCP owns stdout, so logs go to stderr via zap's default error output
	// in json mode.
	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting lnd-advisor",
		zap.String("version", version),
		zap.String("environment", cfg.App.Environment),
		zap.Bool("mockNode", cfg.LND.UseMock),
	)

	obs := observability.New("lnd-advisor")
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Node gateway ---
	var gateway lnd.Gateway
	if cfg.LND.UseMock {
		gateway = lnd.NewMockGateway()
		zapLog.Info("using mock node gateway")
	} else {
		restGateway, err := lnd.NewRESTGateway(cfg.LND, log)
		if err != nil {
			zapLog.Fatal("lnd gateway init failed", zap.Error(err))
		}
		gateway = restGateway
		zapLog.Info("lnd REST gateway ready", zap.String("address", cfg.LND.RESTAddress))
	}

	// --- Optional alias cache ---
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		err = retryWithBackoff(func() error {
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			return rdb.Ping(pingCtx).Err()
		}, 5, time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("redis unavailable, alias cache disabled", zap.Error(err))
		} else {
			gateway = lnd.NewAliasCache(gateway, rdb, time.Duration(cfg.Redis.AliasTTL)*time.Second, log)
			zapLog.Info("alias cache enabled", zap.String("address", cfg.Redis.Address))
		}
	}

	// --- Optional query history ---
	var hist *history.Store
	if cfg.Postgres.Enabled {
		var db *sql.DB
		err = retryWithBackoff(func() error {
			var err error
			db, err = sql.Open("postgres", cfg.Postgres.GetDSN())
			if err != nil {
				return err
			}
			return db.PingContext(ctx)
		}, 10, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Warn("postgres unavailable, query history disabled", zap.Error(err))
		} else {
			defer db.Close()
			hist = history.NewStore(db, log)
			if err := hist.EnsureSchema(ctx); err != nil {
				zapLog.Warn("history schema setup failed, query history disabled", zap.Error(err))
				hist = nil
			} else {
				zapLog.Info("query history enabled")
			}
		}
	}

	criteria := summary.HealthCriteria{
		MinLocalRatio: cfg.Health.MinLocalRatio,
		MaxLocalRatio: cfg.Health.MaxLocalRatio,
	}
	handler := query.NewHandler(gateway, criteria, hist, obs, log)
	parser := intent.NewParser()

	// --- Metrics endpoint ---
	metricsServer := &http.Server{Addr: cfg.Server.MetricsAddress, Handler: promhttp.Handler()}
	go func() {
		zapLog.Info("metrics endpoint listening", zap.String("address", cfg.Server.MetricsAddress))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	// --- MCP stdio server ---
	server := mcp.NewServer(os.Stdin, os.Stdout, parser, handler, cfg.App.Name, version, log)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ctx)
	}()

	select {
	case <-ctx.Done():
		zapLog.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil && err != context.Canceled {
			zapLog.Error("mcp server stopped", zap.Error(err))
		} else {
			zapLog.Info("mcp server stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)

	zapLog.Info("lnd-advisor stopped")
}
