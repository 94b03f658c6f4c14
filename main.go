package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursehub_backend/config"
	"coursehub_backend/db"
	"coursehub_backend/jobs"
	"coursehub_backend/middleware"
	"coursehub_backend/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := cfg.NewLogger()
	log.Info("starting server", slog.String("env", cfg.Environment), slog.String("db_driver", cfg.DBDriver))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	store, err := db.Open(ctx, db.Config{
		Driver:          cfg.DBDriver,
		DSN:             cfg.DSN(),
		ConnectAttempts: cfg.DBConnectAttempts,
		ConnectDelay:    cfg.DBConnectDelay,
		ConnectMaxDelay: cfg.DBConnectMaxDelay,
	}, log)
	if err != nil {
		log.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()

	if cfg.SeedDemo {
		if err := seed(ctx, store, cfg.SeedPassword); err != nil {
			log.Warn("error seeding demo data", slog.Any("error", err))
		} else {
			log.Info("demo data ready", slog.String("instructor", db.DemoInstructorEmail))
		}
	}

	tokens := middleware.NewTokenService(store, []byte(cfg.JWTSecret), cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	scheduler, err := jobs.NewScheduler(store, cfg.TokenCleanupSchedule, log)
	if err != nil {
		log.Error("failed to create scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := routes.NewRouter(store, tokens, log, routes.Options{AllowOrigins: cfg.CORSAllowOrigins})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	select {
	case <-ctx.Done():
		log.Info("shutting down server...")
	case err := <-errChan:
		log.Error("server crashed", slog.Any("error", err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", slog.Any("error", err))
	}
	log.Info("server stopped")
}

func seed(ctx context.Context, store *db.Store, password string) error {
	hash, err := middleware.HashPassword(password)
	if err != nil {
		return err
	}
	return store.SeedData(ctx, hash)
}
