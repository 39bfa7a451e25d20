package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oleotrade/pfad-procurement/internal/api"
	"github.com/oleotrade/pfad-procurement/internal/config"
	"github.com/oleotrade/pfad-procurement/internal/recorder"
	"github.com/oleotrade/pfad-procurement/internal/services"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Recorder.Enabled {
		sqliteRec, err := recorder.NewSQLiteRecorder(cfg.Recorder.Path, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to open run recorder")
		}
		rec = sqliteRec
	}
	defer func() {
		if err := rec.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close run recorder")
		}
	}()

	pipeline := services.NewAnalysisPipeline(logger, cfg, rec)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	api.SetupRoutes(router, pipeline, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting procurement decision server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Forced server shutdown")
	}
	logger.Info("Server stopped")
}
