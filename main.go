package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"attendance-tracker/config"
	"attendance-tracker/db"
	"attendance-tracker/handlers"
	"attendance-tracker/logger"
	"attendance-tracker/metrics"
	"attendance-tracker/middleware"
	"attendance-tracker/tracker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	var metricsSvc *metrics.Service
	if cfg.Metrics.Enabled {
		metricsSvc = metrics.New()
	}

	opts := []tracker.Option{
		tracker.WithLogger(logr),
		tracker.WithThreshold(cfg.Class.Threshold),
	}
	if metricsSvc != nil {
		opts = append(opts, tracker.WithMetrics(metricsSvc))
	}
	if cfg.Journal.Enabled {
		redisClient, err := db.InitializeRedisClient(cfg.Redis)
		if err != nil {
			logr.Fatal("journal enabled but Redis is unreachable", zap.Error(err))
		}
		defer redisClient.Close()
		opts = append(opts, tracker.WithJournal(db.NewRedisJournal(redisClient, logr)))
		logr.Info("journal enabled", zap.String("redis_host", cfg.Redis.Host), zap.Int("redis_db", cfg.Redis.DB))
	}

	store := tracker.New(cfg.Class.Name, opts...)
	if cfg.Class.SeedDemo {
		logr.Info("seeding demo roster", zap.String("class", cfg.Class.Name))
		tracker.SeedDemo(store)
	}

	apiHandler := handlers.NewAPIHandler(store, logr)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(logger.GinMiddleware(logr))
	if metricsSvc != nil {
		router.Use(middleware.Metrics(metricsSvc))
		router.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiHandler.Register(router.Group(cfg.APIPrefix))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("class", cfg.Class.Name))
	if err := router.Run(addr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}
