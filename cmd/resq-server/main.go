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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PR0XCITY/ResQ-Connect/internal/api"
	"github.com/PR0XCITY/ResQ-Connect/internal/broadcast"
	"github.com/PR0XCITY/ResQ-Connect/internal/config"
	"github.com/PR0XCITY/ResQ-Connect/internal/ledger"
	"github.com/PR0XCITY/ResQ-Connect/internal/logging"
	"github.com/PR0XCITY/ResQ-Connect/internal/observability"
	"github.com/PR0XCITY/ResQ-Connect/internal/seed"
	"github.com/PR0XCITY/ResQ-Connect/internal/storage"
	"github.com/PR0XCITY/ResQ-Connect/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port, "backend", cfg.Storage.Backend)

	adapter, cleanup, err := openStorage(cfg)
	if err != nil {
		logging.Fatalf("Failed to initialize storage: %v", err)
	}
	defer cleanup()

	broadcaster := broadcast.NewBroadcaster()

	st := store.New(adapter,
		store.WithZoneRadius(cfg.Zones.RadiusKm),
		store.WithAttestor(ledger.New()),
		store.WithBroadcaster(broadcaster),
	)
	defer st.Close()

	if err := seed.Load(context.Background(), st, cfg.API.SeedPath); err != nil {
		slog.Warn("seeding failed, continuing with empty store", "error", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Reporter-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Must be false with wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.API.RateLimitRPS))

	metrics := observability.NewMetrics()
	handler := api.NewHandler(st, broadcaster, metrics)
	handler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	broadcaster.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}

func openStorage(cfg *config.Config) (storage.Adapter, func(), error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		db, err := storage.NewSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, nil, fmt.Errorf("error pinging redis: %w", err)
		}
		return storage.NewRedis(client, cfg.Storage.KeyPrefix), func() { client.Close() }, nil
	default:
		slog.Warn("using in-memory storage, data is lost on exit")
		return storage.NewMemory(), func() {}, nil
	}
}
