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

	"go-marketplace/config"
	_ "go-marketplace/docs"
	"go-marketplace/libs"
	"go-marketplace/repositories"
	"go-marketplace/routes"
	"go-marketplace/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// @title Go Marketplace Cart API
// @version 1.0
// @description Device shopping cart with durable key-value persistence.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.LoadConfig()
	log := libs.NewLogger(libs.LoggerOptions{
		Service:   "go-marketplace",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: !cfg.IsProduction(),
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := repositories.NewStorage(ctx, cfg)
	if err != nil {
		log.Error("failed to open storage", slog.String("driver", cfg.StorageDriver), slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("storage ready", slog.String("driver", cfg.StorageDriver), slog.String("key", cfg.StorageKey))

	store := services.NewCartStore(storage, services.CartStoreOptions{
		Key:        cfg.StorageKey,
		Logger:     log,
		MaxRetries: cfg.PersistRetries,
	})
	store.Start(context.Background())

	router := routes.NewRouter(routes.Dependencies{
		Config:  cfg,
		Logger:  log,
		Storage: storage,
		Store:   store,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		for err := range store.Errors() {
			log.Error("cart persistence error", slog.Any("err", err))
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("http shutdown error", slog.Any("err", err))
		}
		if err := store.Close(shutdownCtx); err != nil {
			log.Error("cart store close error", slog.Any("err", err))
		}
		return storage.Close()
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("bye")
}
