package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dantweb/vbwd-sdk/common/id"
	"github.com/dantweb/vbwd-sdk/common/logger"
	"github.com/dantweb/vbwd-sdk/common/otel"
	"github.com/dantweb/vbwd-sdk/core/config"
	"github.com/dantweb/vbwd-sdk/core/db"
	"github.com/dantweb/vbwd-sdk/internal/cache"
	"github.com/dantweb/vbwd-sdk/internal/eventhandler"
	"github.com/dantweb/vbwd-sdk/internal/events"
	"github.com/dantweb/vbwd-sdk/internal/notify"
	"github.com/dantweb/vbwd-sdk/internal/service"
	"github.com/dantweb/vbwd-sdk/internal/store"
	"github.com/dantweb/vbwd-sdk/internal/worker"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)

	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "vbwd worker starting",
		"env", cfg.Env,
		"interval", cfg.Expiry.Interval,
		"notice_days", cfg.Expiry.NoticeDays)

	if err := id.Init(cfg.SnowflakeID); err != nil {
		slog.ErrorContext(ctx, "failed to initialize id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected")

	log := slog.Default()
	redisCache := cache.NewRedis(redisClient)
	locker := cache.NewRedisLocker(redisClient, log)
	publisher := notify.NewRedisPublisher(redisClient, cfg.Notify.ChannelPrefix, log)

	// Expiry emits subscription.expired; the worker only needs the lifecycle
	// handlers, so no payment adapters are registered.
	dispatcher := events.NewDispatcher(events.WithLogger(log))
	services := service.NewServices(
		store.NewStores(database.Queries()),
		service.NewTxRunner(database),
		locker,
		dispatcher,
		log,
	)
	eventhandler.Register(dispatcher, eventhandler.Deps{
		Subscriptions: services.Subscriptions(),
		Invoices:      services.Invoices(),
		Notifier:      publisher,
		Logger:        log,
	})

	w := worker.New(services.Subscriptions(), locker, redisCache, publisher, worker.Config{
		Interval:   cfg.Expiry.Interval,
		LockTTL:    cfg.Expiry.LockTTL,
		NoticeDays: cfg.Expiry.NoticeDays,
	})

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(runCtx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.InfoContext(ctx, "shutting down...")
		w.Stop()
	case err := <-errCh:
		if err != nil {
			slog.ErrorContext(ctx, "worker exited", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

const banner = `
██╗   ██╗██████╗ ██╗    ██╗██████╗     ██╗    ██╗ ██████╗ ██████╗ ██╗  ██╗███████╗██████╗ 
██║   ██║██╔══██╗██║    ██║██╔══██╗    ██║    ██║██╔═══██╗██╔══██╗██║ ██╔╝██╔════╝██╔══██╗
██║   ██║██████╔╝██║ █╗ ██║██║  ██║    ██║ █╗ ██║██║   ██║██████╔╝█████╔╝ █████╗  ██████╔╝
╚██╗ ██╔╝██╔══██╗██║███╗██║██║  ██║    ██║███╗██║██║   ██║██╔══██╗██╔═██╗ ██╔══╝  ██╔══██╗
 ╚████╔╝ ██████╔╝╚███╔███╔╝██████╔╝    ╚███╔███╔╝╚██████╔╝██║  ██║██║  ██╗███████╗██║  ██║
  ╚═══╝  ╚═════╝  ╚══╝╚══╝ ╚═════╝      ╚══╝╚══╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝
`
