package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZaneerahEssop/QUANTIX-sub001/config"
	"github.com/ZaneerahEssop/QUANTIX-sub001/contract"
	"github.com/ZaneerahEssop/QUANTIX-sub001/handler"
	"github.com/ZaneerahEssop/QUANTIX-sub001/middleware"
	"github.com/ZaneerahEssop/QUANTIX-sub001/pkg/logger"
	"github.com/ZaneerahEssop/QUANTIX-sub001/pkg/metrics"
	"github.com/ZaneerahEssop/QUANTIX-sub001/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully", "store", cfg.Store.Driver)

	ctx := context.Background()

	store, err := openStore(ctx, &cfg.Store)
	if err != nil {
		slog.Error("failed to open contract store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	m := metrics.New(prometheus.DefaultRegisterer)
	engine := contract.NewEngine(contract.WithCurrency(cfg.Contract.Currency))
	opts := []service.ServiceOption{service.WithMetrics(m)}

	if cfg.Redis.Addr != "" {
		feed, err := service.NewRedisFeed(ctx, &cfg.Redis)
		if err != nil {
			slog.Error("failed to connect change feed", "error", err)
			os.Exit(1)
		}
		defer feed.Close()
		opts = append(opts, service.WithFeed(feed))

		subCtx, stopAudit := context.WithCancel(ctx)
		defer stopAudit()
		if err := feed.Subscribe(subCtx, service.LogChange); err != nil {
			slog.Warn("contract change audit disabled", "error", err)
		}
		slog.Info("contract change feed enabled", "channel", cfg.Redis.Channel)
	}

	if cfg.Minio.Endpoint != "" {
		minioSvc, err := service.NewMinioService(&cfg.Minio)
		if err != nil {
			slog.Error("failed to initialize MINIO service", "error", err)
			os.Exit(1)
		}
		if err := minioSvc.EnsureBucket(ctx); err != nil {
			slog.Error("failed to ensure MINIO bucket", "error", err)
			os.Exit(1)
		}
		opts = append(opts, service.WithExporter(service.NewExporter(minioSvc)))
		slog.Info("contract export enabled", "bucket", cfg.Minio.Bucket)
	}

	if err := handler.RegisterValidators(); err != nil {
		slog.Error("failed to register validators", "error", err)
		os.Exit(1)
	}

	contracts := service.NewContractService(store, engine, opts...)
	directory := service.NewDirectoryService(store, m)

	authHandler := handler.NewAuthHandler(cfg)
	contractHandler := handler.NewContractHandler(contracts)
	directoryHandler := handler.NewDirectoryHandler(directory)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.CORS.AllowOrigins))
	router.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)

		protected.POST("/events", directoryHandler.CreateEvent)
		protected.GET("/events/:id", directoryHandler.GetEvent)
		protected.POST("/vendors", directoryHandler.CreateVendor)
		protected.GET("/vendors/:id", directoryHandler.GetVendor)

		protected.GET("/contracts/event/:eventId/vendor/:vendorId", contractHandler.GetByPair)
		protected.GET("/contracts/event/:eventId/vendor/:vendorId/view", contractHandler.View)
		protected.POST("/contracts", contractHandler.Save)
		protected.PUT("/contracts/:id/sign", contractHandler.Sign)
		protected.PUT("/contracts/:id/revise", contractHandler.Revise)
		protected.POST("/contracts/:id/export", contractHandler.Export)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// openStore picks the contract store named in config
func openStore(ctx context.Context, cfg *config.StoreConfig) (service.Store, error) {
	if cfg.Driver == "memory" {
		return service.NewMemoryStore(), nil
	}
	return service.OpenGormStore(ctx, cfg)
}
