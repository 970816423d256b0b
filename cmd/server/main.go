package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/datawizard/backend/internal/config"
	"github.com/datawizard/backend/internal/db"
	"github.com/datawizard/backend/internal/engine"
	"github.com/datawizard/backend/internal/logger"
	"github.com/datawizard/backend/internal/middleware"
	"github.com/datawizard/backend/internal/routes"
	"github.com/datawizard/backend/internal/store"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()
	logger.Initialize(cfg.LogLevel, cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", map[string]interface{}{"error": err.Error()})
	}

	gdb, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", map[string]interface{}{"error": err.Error()})
	}
	if err := db.AutoMigrate(gdb); err != nil {
		logger.Fatal("Failed to migrate database", map[string]interface{}{"error": err.Error()})
	}

	// Seed the reference catalog if in development
	if cfg.Env == "development" {
		if err := store.SeedDefaultCatalog(context.Background(), gdb); err != nil {
			logger.Warn("Failed to seed reference catalog", map[string]interface{}{"error": err.Error()})
		}
	}

	st := store.NewGormStore(gdb)
	deps := routes.Dependencies{
		Store:     st,
		Engine:    engine.NewScriptRunner(cfg.PythonPath, cfg.EngineScript),
		OutputDir: cfg.OutputDir,
		JWTSecret: cfg.JWTSecret,
	}

	if cfg.RedisURL != "" {
		client, err := store.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Warn("Invalid REDIS_URL, catalog cache disabled", map[string]interface{}{"error": err.Error()})
		} else {
			defer client.Close()
			cached := store.NewCachedCatalog(st, client, cfg.CatalogCacheTTL)
			deps.Catalog = cached
			deps.Cache = cached
			logger.Info("Catalog cache enabled", map[string]interface{}{"ttl": cfg.CatalogCacheTTL.String()})
		}
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigin))
	r.Use(gin.Recovery())

	routes.SetupRoutes(r, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	logger.Info("Starting DataWizard backend server", map[string]interface{}{
		"port":     cfg.Port,
		"gin_mode": gin.Mode(),
		"db":       cfg.DBDriver,
	})

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan
	logger.Info("Shutting down server gracefully...", nil)

	// In-flight jobs keep running until their engine call returns.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		logger.Info("Server exited gracefully", nil)
	}
}
