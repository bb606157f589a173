package api

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"go-marketplace/config"
	"go-marketplace/libs"
	"go-marketplace/repositories"
	"go-marketplace/routes"
	"go-marketplace/services"

	"github.com/gin-gonic/gin"
)

var (
	router *gin.Engine
	once   sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg := config.LoadConfig()
		if os.Getenv("VERCEL") != "" && cfg.StorageDriver == "file" {
			cfg.StorageDir = os.TempDir()
		}
		log := libs.NewLogger(libs.LoggerOptions{Service: "go-marketplace", Env: cfg.AppEnv, Level: cfg.LogLevel})

		storage, err := repositories.NewStorage(context.Background(), cfg)
		if err != nil {
			log.Warn("storage unavailable, running with in-memory cart", slog.Any("err", err))
			storage = repositories.NewMemoryStorage()
		}

		store := services.NewCartStore(storage, services.CartStoreOptions{
			Key:        cfg.StorageKey,
			Logger:     log,
			MaxRetries: cfg.PersistRetries,
		})
		store.Start(context.Background())

		router = routes.NewRouter(routes.Dependencies{
			Config:  cfg,
			Logger:  log,
			Storage: storage,
			Store:   store,
		})
	})
}

func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	router.ServeHTTP(w, r)
}
