package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/manzoomehweb/bookingcal/api"
	"github.com/manzoomehweb/bookingcal/config"
	"github.com/manzoomehweb/bookingcal/holiday"
	"github.com/manzoomehweb/bookingcal/pkg/cache"
	"github.com/manzoomehweb/bookingcal/pkg/logger"
	"github.com/manzoomehweb/bookingcal/prices"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}
	logger.Init(logger.Config(cfg.LoggingConfig))

	deps := api.Deps{}

	// Shared lookup cache, optional.
	var shared *cache.Manager
	if cfg.RedisConfig.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Host + ":" + cfg.RedisConfig.Port,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unavailable, lookups will always go upstream", "error", err)
		} else {
			shared = cache.NewManager(cache.NewRedisCache(client, "bookingcal"))
		}
	}

	if cfg.PricesConfig.URL != "" {
		deps.PriceClient = prices.NewClient(cfg.PricesConfig.URL, cfg.PricesConfig.DMNID, shared)
	}

	// Server-level holiday registry and dataset refresh. Sessions snapshot
	// the cached dataset when they start.
	serverHolidays := holiday.NewRegistry()
	var scheduler *cron.Cron
	if cfg.HolidayConfig.URL != "" {
		src := holiday.NewCachedSource(holiday.NewHTTPSource(cfg.HolidayConfig.URL))
		deps.HolidaySource = src

		serverHolidays.Load(context.Background(), src)

		scheduler = cron.New()
		if _, err := scheduler.AddFunc(cfg.HolidayConfig.RefreshSpec, func() {
			if err := src.Refresh(context.Background()); err == nil {
				serverHolidays.Load(context.Background(), src)
			}
		}); err != nil {
			logger.Warn("invalid holiday refresh spec, dataset will not refresh", "spec", cfg.HolidayConfig.RefreshSpec, "error", err)
		} else {
			scheduler.Start()
			defer scheduler.Stop()
		}
	}

	sessions := api.NewSessionManager(deps)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	api.RegisterRoutes(router, sessions, serverHolidays)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
}
