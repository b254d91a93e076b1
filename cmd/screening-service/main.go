package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/mirai-health/screening/pkg/common/config"
	"github.com/mirai-health/screening/pkg/common/database"
	"github.com/mirai-health/screening/pkg/common/kafka"
	"github.com/mirai-health/screening/pkg/common/logger"
	"github.com/mirai-health/screening/pkg/common/middleware"
	"github.com/mirai-health/screening/pkg/screening"
	"github.com/mirai-health/screening/pkg/screening/classifier"
	"github.com/mirai-health/screening/pkg/screening/interpret"
	"github.com/mirai-health/screening/pkg/screening/schema"
	"github.com/mirai-health/screening/pkg/storage"
)

func main() {
	logger.Init()
	cfg := config.Load()

	// Schema, classifiers and tier rules load before the server accepts
	// traffic; a missing artifact means the process cannot serve.
	registry, err := schema.Load(cfg.FeatureSchemaPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load feature schema")
	}

	classifiers, err := classifier.LoadSet(cfg.ModelDir)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load classifier artifacts")
	}

	interpreter, err := interpret.Load(cfg.TierRulesPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load tier rules")
	}

	var repo *screening.Repository
	if cfg.AuditLogEnabled {
		db, err := database.GetPostgres()
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to connect to database")
		}
		repo = screening.NewRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			logger.Log.WithError(err).Fatal("Failed to migrate screening log table")
		}
	}

	var cache *storage.ResultCache
	if cfg.ResultCacheEnabled {
		cache = storage.NewResultCache(database.GetRedis(), "screening", cfg.ResultCacheTTL)
	}

	var producer *kafka.Producer
	if cfg.EventsEnabled {
		producer = kafka.NewProducer(cfg.KafkaTopic)
		defer producer.Close()
	}

	service := screening.NewService(registry, classifiers, interpreter, repo, cache, producer)
	handler := screening.NewHTTPHandler(service, cfg.MaxRequestBody)

	router := mux.NewRouter()
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS)
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	router.HandleFunc("/health", healthCheck).Methods(http.MethodGet)
	handler.Register(router.PathPrefix("/api/v1").Subrouter())

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Screening Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Screening Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	if cfg.AuditLogEnabled {
		if err := database.ClosePostgres(); err != nil {
			logger.Log.WithError(err).Error("Failed to close database")
		}
	}
	if cfg.ResultCacheEnabled {
		if err := database.CloseRedis(); err != nil {
			logger.Log.WithError(err).Error("Failed to close Redis")
		}
	}

	logger.Log.Info("Screening Service stopped")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
