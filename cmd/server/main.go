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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/dantweb/vbwd-sdk/common/id"
	"github.com/dantweb/vbwd-sdk/common/logger"
	"github.com/dantweb/vbwd-sdk/common/otel"
	"github.com/dantweb/vbwd-sdk/core/config"
	"github.com/dantweb/vbwd-sdk/core/db"
	"github.com/dantweb/vbwd-sdk/internal/cache"
	"github.com/dantweb/vbwd-sdk/internal/eventhandler"
	"github.com/dantweb/vbwd-sdk/internal/events"
	"github.com/dantweb/vbwd-sdk/internal/http/middleware"
	httprouter "github.com/dantweb/vbwd-sdk/internal/http/router"
	"github.com/dantweb/vbwd-sdk/internal/notify"
	"github.com/dantweb/vbwd-sdk/internal/sdk"
	"github.com/dantweb/vbwd-sdk/internal/service"
	"github.com/dantweb/vbwd-sdk/internal/store"
	"github.com/dantweb/vbwd-sdk/internal/webhook"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "vbwd server starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(cfg.SnowflakeID); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	if err := database.Migrate(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to apply migrations", "error", err)
		os.Exit(1)
	}

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

	adapters := newAdapterRegistry(cfg.Payments, sdk.NewIdempotencyService(redisCache, cfg.Payments.IdempotencyTTL), log)
	dispatcher := events.NewDispatcher(events.WithLogger(log))

	services := service.NewServices(
		store.NewStores(database.Queries()),
		service.NewTxRunner(database),
		locker,
		dispatcher,
		log,
	)

	eventhandler.Register(dispatcher, eventhandler.Deps{
		Adapters:      adapters,
		Subscriptions: services.Subscriptions(),
		Invoices:      services.Invoices(),
		Notifier:      notify.NewRedisPublisher(redisClient, cfg.Notify.ChannelPrefix, log),
		Logger:        log,
	})

	webhooks := webhook.NewService(log)
	webhooks.RegisterHandler(webhook.NewMockHandler(webhook.WithEmitter(dispatcher), webhook.WithMockLogger(log)), cfg.Payments.MockWebhookSecret)
	slog.InfoContext(ctx, "payment providers registered", "adapters", adapters.Providers(), "webhooks", webhooks.Providers())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, httprouter.RouterDeps{Services: services, Webhooks: webhooks})
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, deps httprouter.RouterDeps) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, deps)

	return router
}

// newAdapterRegistry registers the sandbox adapter. Real
// providers register here alongside it.
func newAdapterRegistry(cfg config.PaymentsConfig, idem *sdk.IdempotencyService, log *slog.Logger) *sdk.Registry {
	sdkCfg := sdk.DefaultConfig(cfg.MockAPIKey)
	sdkCfg.Sandbox = cfg.Sandbox
	sdkCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	sdkCfg.MaxRetries = cfg.MaxRetries

	opts := []sdk.BaseOption{sdk.WithIdempotencyService(idem), sdk.WithAdapterLogger(log)}
	if cfg.RateLimited() {
		opts = append(opts, sdk.WithRateLimit(cfg.RateLimitRPS, int(cfg.RateLimitRPS)+1))
	}

	registry := sdk.NewRegistry()
	registry.Register(sdk.MockProvider, sdk.NewMockAdapter(sdkCfg, opts...))
	return registry
}

const banner = `
██╗   ██╗██████╗ ██╗    ██╗██████╗     ███████╗███████╗██████╗ ██╗   ██╗███████╗██████╗ 
██║   ██║██╔══██╗██║    ██║██╔══██╗    ██╔════╝██╔════╝██╔══██╗██║   ██║██╔════╝██╔══██╗
██║   ██║██████╔╝██║ █╗ ██║██║  ██║    ███████╗█████╗  ██████╔╝██║   ██║█████╗  ██████╔╝
╚██╗ ██╔╝██╔══██╗██║███╗██║██║  ██║    ╚════██║██╔══╝  ██╔══██╗╚██╗ ██╔╝██╔══╝  ██╔══██╗
 ╚████╔╝ ██████╔╝╚███╔███╔╝██████╔╝    ███████║███████╗██║  ██║ ╚████╔╝ ███████╗██║  ██║
  ╚═══╝  ╚═════╝  ╚══╝╚══╝ ╚═════╝     ╚══════╝╚══════╝╚═╝  ╚═╝  ╚═══╝  ╚══════╝╚═╝  ╚═╝
`
