package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"doctor-booking-api/internal/booking"
	"doctor-booking-api/internal/config"
	"doctor-booking-api/internal/handler"
	"doctor-booking-api/internal/logger"
	"doctor-booking-api/internal/middleware"
	"doctor-booking-api/internal/storage"
	"doctor-booking-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	// database
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		lg.Fatal("db", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		lg.Fatal("db ping", zap.Error(err))
	}
	lg.Info("connected to postgres")

	if cfg.Database.AutoMigrate {
		if err := store.MigrateUp(cfg.Database.URL, lg); err != nil {
			lg.Fatal("migrations", zap.Error(err))
		}
		lg.Info("migrations applied")
	}

	// avatar bucket; the API still serves without it
	avatars, err := storage.NewAvatars(cfg.Minio)
	if err != nil {
		lg.Fatal("minio", zap.Error(err))
	}
	bctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := avatars.EnsureBucket(bctx); err != nil {
		lg.Warn("avatar bucket unavailable", zap.String("bucket", cfg.Minio.Bucket), zap.Error(err))
	}
	cancel()

	st := store.New(pool)
	h := handler.New(st, booking.New(st, lg.Named("booking")), avatars, cfg.JWT, lg)

	throttle := middleware.NewPerMinute(cfg.Limits.UserPerMinute)
	defer throttle.Stop()

	srv := &http.Server{
		Addr: ":" + cfg.App.Port,
		Handler: h.Routes(handler.Options{
			AllowedOrigins: cfg.App.AllowedOrigins,
			AuthPerSecond:  cfg.Limits.AuthPerSecond,
			UserThrottle:   throttle,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		lg.Info("http listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("http", zap.Error(err))
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	lg.Info("shutting down")

	sctx, scancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer scancel()
	if err := srv.Shutdown(sctx); err != nil {
		lg.Error("shutdown", zap.Error(err))
	}
}
