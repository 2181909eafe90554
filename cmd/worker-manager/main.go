// cmd/worker-manager/main.go
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

	"productlab-workers/internal/common/camunda"
	"productlab-workers/internal/common/chart"
	"productlab-workers/internal/common/config"
	"productlab-workers/internal/common/database"
	"productlab-workers/internal/common/logger"
	"productlab-workers/internal/common/observability"
	"productlab-workers/pkg/registry"

	fs "productlab-workers/internal/workers/funnel/funnel-simulate"
	ip "productlab-workers/internal/workers/initiative/initiative-prioritize"

	"go.uber.org/zap"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "worker manager: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.NewWithOptions(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer func() { _ = zapLog.Sync() }()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		return fmt.Errorf("observability init failed: %w", err)
	}
	defer func() { _ = obs.Shutdown() }()

	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		return fmt.Errorf("activity registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("activity registry %s is invalid: %w", cfg.Registry.Path, err)
	}

	// --- Board store ---
	store, redisClient, err := ip.NewBoardStore(cfg)
	if err != nil {
		return fmt.Errorf("board store: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		err = retryWithBackoff(func() error {
			return redisClient.Ping(context.Background())
		}, 10, 2*time.Second, log, "Redis connection")
		if err != nil {
			return err
		}
		log.Info("Redis connected successfully", map[string]interface{}{"address": cfg.Database.Redis.Address})
	}

	// --- Chart surfaces ---
	renderer, err := fs.NewRenderer(&fs.Config{Renderer: cfg.Funnel.Renderer, ChartDir: cfg.Funnel.ChartDir})
	if err != nil {
		return fmt.Errorf("chart renderer: %w", err)
	}
	surfaces := chart.NewSurfaces(renderer)
	defer func() {
		if err := surfaces.Close(); err != nil {
			log.Error("Error destroying charts", map[string]interface{}{"error": err.Error()})
		}
	}()

	hs, err := buildHandlers(cfg, handlerDeps{
		Logger:        log,
		Observability: obs,
		Surfaces:      surfaces,
		Store:         store,
	})
	if err != nil {
		return err
	}

	warmCtx, cancelWarm := context.WithTimeout(context.Background(), 30*time.Second)
	err = hs.warmUp(warmCtx, log)
	cancelWarm()
	if err != nil {
		return fmt.Errorf("initial render failed: %w", err)
	}

	// --- Zeebe ---
	var client *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		client, err = camunda.NewClientWithConfig(camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		return err
	}
	log.Info("Zeebe client connected successfully", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	workers := startWorkers(client, cfg, selectWorkers(hs.all(), reg, log), log)
	log.Info("Workers registered", map[string]interface{}{"count": len(workers)})

	// --- Health & Metrics Server ---
	srv := newHealthServer(cfg.Server.Address, readiness(client, redisClient))
	go func() {
		log.Info("Health/Metrics server listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Health/Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutdown signal received, stopping workers...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping health server", map[string]interface{}{"error": err.Error()})
	}
	if err := client.Close(); err != nil {
		log.Error("Error closing Zeebe client", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Worker manager stopped gracefully", nil)
	return nil
}

func readiness(client *camunda.Client, redisClient *database.RedisClient) readinessCheck {
	return func(ctx context.Context) error {
		if err := client.HealthCheck(ctx); err != nil {
			return err
		}
		if redisClient != nil {
			return redisClient.Ping(ctx)
		}
		return nil
	}
}
