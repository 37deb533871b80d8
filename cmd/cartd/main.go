package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartstore-demo/internal/config"
	"github.com/nikolayk812/cartstore-demo/internal/httpapi"
	"github.com/nikolayk812/cartstore-demo/internal/inventory"
	"github.com/nikolayk812/cartstore-demo/internal/logger"
	"github.com/nikolayk812/cartstore-demo/internal/notify"
	"github.com/nikolayk812/cartstore-demo/internal/port"
	"github.com/nikolayk812/cartstore-demo/internal/repository"
	"github.com/nikolayk812/cartstore-demo/internal/service"
	"github.com/nikolayk812/cartstore-demo/internal/view"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cartd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	log, err := logger.New(logger.Options{Service: "cartd", Env: cfg.AppEnv, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("logger.New: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("openStorage: %w", err)
	}
	defer closeStorage()

	client, err := inventory.New(inventory.Options{
		BaseURL:         cfg.InventoryURL,
		Timeout:         cfg.InventoryTimeout,
		Currency:        cfg.Currency,
		BreakerFailures: cfg.BreakerFailures,
		BreakerCooldown: cfg.BreakerCooldown,
		Logger:          log,
	})
	if err != nil {
		return fmt.Errorf("inventory.New: %w", err)
	}

	queue := notify.NewQueue(log, 0)

	store, err := service.NewCartStore(ctx, service.Deps{
		Storage:   storage,
		Catalog:   client,
		Inventory: client,
		Notifier:  queue,
		Logger:    log,
	}, service.Options{StockWriteBack: cfg.StockWriteBack})
	if err != nil {
		return fmt.Errorf("service.NewCartStore: %w", err)
	}

	handler := httpapi.NewHandler(store, client, queue, view.NewFormatter(cfg.Locale), log)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:      httpapi.NewRouter(handler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("cart service listening",
			zap.Int("port", cfg.HTTPPort),
			zap.String("storage", cfg.StorageDriver),
			zap.String("inventory_url", cfg.InventoryURL))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down cart service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}

	log.Info("cart service stopped")

	return nil
}

func openStorage(ctx context.Context, cfg config.Config, log *zap.Logger) (port.CartStorage, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("client.Ping: %w", err)
		}
		log.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

		storage, err := repository.NewRedis(client, cfg.SlotKey)
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("repository.NewRedis: %w", err)
		}

		return storage, func() { _ = client.Close() }, nil

	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pool.Ping: %w", err)
		}
		if err := repository.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repository.EnsureSchema: %w", err)
		}
		log.Info("connected to postgres")

		storage, err := repository.NewCart(pool, cfg.SlotKey)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repository.NewCart: %w", err)
		}

		return storage, pool.Close, nil

	default:
		log.Warn("using in-memory cart storage, the cart is lost on restart")
		return repository.NewMemory(nil), func() {}, nil
	}
}
