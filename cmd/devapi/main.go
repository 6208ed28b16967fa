package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ownerdesk/internal/config"
	"ownerdesk/internal/database"
	"ownerdesk/internal/devapi"
	jwtsvc "ownerdesk/internal/pkg/jwt"
	"ownerdesk/internal/pkg/logger"
)

// devapi serves a local booking API so the dashboard can run without the production backend.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	zlog, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, zlog)
	if err != nil {
		zlog.Fatal("DB connection failed", zap.Error(err))
	}
	repo := devapi.NewRepository(db, "/api/files")
	if err := repo.Migrate(); err != nil {
		zlog.Fatal("AutoMigrate failed", zap.Error(err))
	}

	server := devapi.NewServer(repo, jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL), zlog.Named("devapi"))
	srv := &http.Server{
		Addr:    cfg.DevAPIAddr,
		Handler: server.Router(),
	}

	go func() {
		zlog.Info("Dev API listening", zap.String("addr", cfg.DevAPIAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}
	zlog.Info("Server stopped gracefully")
}
