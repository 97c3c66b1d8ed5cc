package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/medguard-server/internal/api"
	"github.com/medguard-server/internal/cache"
	"github.com/medguard-server/internal/config"
	"github.com/medguard-server/internal/database"
	"github.com/medguard-server/internal/domain"
	"github.com/medguard-server/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	logger := newLogger(cfg.Logging)

	knowledgeStore, err := newKnowledgeStore(configManager, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open knowledge store")
	}
	defer knowledgeStore.Close()

	profileCache, err := newProfileCache(cfg.Cache, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create profile cache")
	}

	logger.WithFields(logrus.Fields{
		"host":   cfg.Server.Host,
		"port":   cfg.Server.Port,
		"driver": cfg.Store.Driver,
		"cache":  cfg.Cache.Backend,
	}).Info("Starting MedGuard server")

	server := api.NewServer(cfg, knowledgeStore, profileCache, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// newKnowledgeStore opens the configured backend. Postgres runs the
// repo migrations first; SQLite bootstraps itself on open.
func newKnowledgeStore(configManager *config.Manager, logger *logrus.Logger) (domain.KnowledgeStore, error) {
	cfg := configManager.GetConfig()

	switch cfg.Store.Driver {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		migrationRunner, err := database.NewMigrationRunner(configManager.DatabaseURL(), cfg.Store.MigrationsPath, logger)
		if err != nil {
			return nil, err
		}
		if err := migrationRunner.Up(); err != nil {
			return nil, err
		}
		if err := migrationRunner.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close migration runner")
		}

		db, err := database.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		return store.NewPostgresStore(db.Pool, logger), nil

	default:
		return store.NewSQLiteStore(cfg.Store.SQLitePath)
	}
}

func newProfileCache(cfg domain.CacheConfig, logger *logrus.Logger) (domain.ProfileCache, error) {
	switch cfg.Backend {
	case "redis":
		return cache.NewRedisCache(cfg, logger)
	case "none":
		return cache.NopCache{}, nil
	default:
		return cache.NewLRUCache(cfg.Size)
	}
}
