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

	"ownerdesk/internal/cache"
	"ownerdesk/internal/config"
	"ownerdesk/internal/gateway"
	"ownerdesk/internal/middleware"
	"ownerdesk/internal/modules/attachments"
	"ownerdesk/internal/modules/booking"
	"ownerdesk/internal/modules/business"
	"ownerdesk/internal/modules/offer"
	"ownerdesk/internal/modules/workinghours"
	jwtsvc "ownerdesk/internal/pkg/jwt"
	"ownerdesk/internal/pkg/logger"
	"ownerdesk/internal/pkg/metrics"
	"ownerdesk/internal/realtime"
)

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

	m := metrics.New("dashboard")
	store := cache.NewStore(zlog.Named("cache"), m)
	client := gateway.NewClient(cfg.UpstreamURL, cfg.UpstreamTimeout, gateway.ContextToken{}, zlog.Named("gateway"), m)
	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	offerService := offer.NewService(client, store, zlog.Named("offer"))
	bookingService := booking.NewService(client, store, zlog.Named("booking"))
	hoursService := workinghours.NewService(client, store, zlog.Named("workinghours"))
	businessService := business.NewService(client, store, zlog.Named("business"))
	attachmentService := attachments.NewService(client, zlog.Named("attachments"))

	offerHandler := offer.NewHandler(offerService)
	bookingHandler := booking.NewHandler(bookingService, offerService)
	hoursHandler := workinghours.NewHandler(hoursService)
	businessHandler := business.NewHandler(businessService)
	attachmentHandler := attachments.NewHandler(attachmentService)

	hub := realtime.NewHub(zlog.Named("realtime"))
	detach := hub.Attach(store)
	defer detach()
	wsHandler := realtime.NewHandler(hub, j, cfg.CORSOrigins, zlog.Named("realtime"))

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(zlog),
		middleware.RequestLogger(zlog, m),
		middleware.CORS(cfg.CORSOrigins),
		middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, zlog),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "ws_clients": hub.Count()})
	})
	if cfg.MetricsEnabled {
		r.GET(cfg.MetricsPath, gin.WrapH(m.Handler()))
	}
	wsHandler.RegisterRoutes(r)

	v1 := r.Group("/api/v1", middleware.JWTAuth(j))
	{
		businessHandler.RegisterRoutes(v1)
		attachmentHandler.RegisterRoutes(v1)

		owned := v1.Group("/businesses/:businessId", middleware.RequireBusinessOwner())
		{
			businessHandler.RegisterBusinessRoutes(owned)
			bookingHandler.RegisterRoutes(owned)
			offerHandler.RegisterRoutes(owned)
			hoursHandler.RegisterRoutes(owned)
		}
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		zlog.Info("Dashboard listening", zap.String("addr", cfg.HTTPAddr), zap.String("upstream", cfg.UpstreamURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}
	zlog.Info("Server stopped gracefully")
}
