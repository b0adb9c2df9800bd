package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/fuselink/backend/internal/analytics"
	"github.com/fuselink/backend/internal/auth"
	"github.com/fuselink/backend/internal/cache"
	"github.com/fuselink/backend/internal/config"
	"github.com/fuselink/backend/internal/database"
	"github.com/fuselink/backend/internal/geo"
	"github.com/fuselink/backend/internal/handlers"
	"github.com/fuselink/backend/internal/logger"
	"github.com/fuselink/backend/internal/metrics"
	"github.com/fuselink/backend/internal/middleware"
	"github.com/fuselink/backend/internal/telemetry"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Log.Info("=== FuseLink API starting ===",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port))

	// Initialize database and run migrations
	if err := database.Initialize(); err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Prometheus metrics
	metrics.Initialize()

	// Distributed tracing (optional)
	tp, err := telemetry.InitTracer(telemetry.Config{
		ServiceName:  "fuselink-api",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		Enabled:      cfg.TracingEnabled,
		SamplingRate: 1.0,
	})
	if err != nil {
		logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	if tp != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(ctx)
		}()
	}

	// Redis cache (optional; the API runs fine without it)
	var redisClient *cache.RedisClient
	if cfg.RedisHost != "" {
		redisClient, err = cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
		if err != nil {
			logger.Log.Warn("Redis unavailable, analytics caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
		}
	}

	authService := auth.NewService(cfg.JWTSecret)
	aggregator := analytics.NewAggregator(database.DB)

	h := handlers.NewHandlers(authService, aggregator, geo.NewUnknownResolver())
	h.SetCache(redisClient)
	h.SetUploadConfig(cfg.UploadDir, cfg.MaxFileSize)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	if tp != nil {
		r.Use(otelgin.Middleware("fuselink-api"))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.CORSOrigin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.AllowCredentials = cfg.CORSOrigin != "*"
	r.Use(cors.New(corsConfig))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if err := database.Health(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"service":   "fuselink-api",
		})
	})

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Uploaded page media
	r.Static("/uploads", cfg.UploadDir)

	// Baseline per-IP limit across the API; auth and tracking groups layer
	// their own tighter or looser budgets on top
	api := r.Group("/api/v1", middleware.NewRateLimiter(middleware.DefaultRateLimitConfig()))
	{
		// Authentication routes (public, tighter rate limit)
		authGroup := api.Group("/auth")
		{
			authGroup.Use(middleware.NewRateLimiter(middleware.AuthRateLimitConfig()))
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			authGroup.POST("/refresh", h.Refresh)
			authGroup.GET("/me", h.AuthMiddleware(), h.GetMe)
		}

		// Link routes
		links := api.Group("/links")
		{
			links.Use(h.AuthMiddleware())
			links.GET("", h.GetLinks)
			links.POST("", h.CreateLink)
			links.PATCH("/reorder", h.ReorderLinks)
			links.PUT("/:id", h.UpdateLink)
			links.DELETE("/:id", h.DeleteLink)
			links.GET("/:id/analytics", h.GetLinkAnalytics)
		}

		// Collection routes
		collections := api.Group("/collections")
		{
			collections.Use(h.AuthMiddleware())
			collections.GET("", h.GetCollections)
			collections.POST("", h.CreateCollection)
			collections.PATCH("/reorder", h.ReorderCollections)
			collections.PUT("/:id", h.UpdateCollection)
			collections.DELETE("/:id", h.DeleteCollection)
		}

		// Social link routes
		socialLinks := api.Group("/social-links")
		{
			socialLinks.Use(h.AuthMiddleware())
			socialLinks.GET("", h.GetSocialLinks)
			socialLinks.POST("", h.CreateSocialLink)
			socialLinks.PATCH("/reorder", h.ReorderSocialLinks)
			socialLinks.PUT("/:id", h.UpdateSocialLink)
			socialLinks.DELETE("/:id", h.DeleteSocialLink)
		}

		// Analytics routes: tracking is public, reading requires auth
		analyticsGroup := api.Group("/analytics")
		{
			analyticsGroup.POST("/track-view", middleware.NewRateLimiter(middleware.TrackRateLimitConfig()), h.OptionalAuthMiddleware(), h.TrackView)
			analyticsGroup.POST("/track-click", middleware.NewRateLimiter(middleware.TrackRateLimitConfig()), h.OptionalAuthMiddleware(), h.TrackClick)

			analyticsGroup.GET("/overview", h.AuthMiddleware(), h.GetAnalyticsOverview)
			analyticsGroup.GET("/chart", h.AuthMiddleware(), h.GetAnalyticsChart)
			analyticsGroup.GET("/referrers", h.AuthMiddleware(), h.GetAnalyticsReferrers)
			analyticsGroup.GET("/locations", h.AuthMiddleware(), h.GetAnalyticsLocations)
			analyticsGroup.GET("/devices", h.AuthMiddleware(), h.GetAnalyticsDevices)
			analyticsGroup.GET("/export", h.AuthMiddleware(), h.ExportAnalytics)
		}

		// Subscriber routes: capture is public, everything else owner-only
		subscribers := api.Group("/subscribers")
		{
			subscribers.POST("", h.CreateSubscriber)
			subscribers.GET("", h.AuthMiddleware(), h.GetSubscribers)
			subscribers.GET("/export", h.AuthMiddleware(), h.ExportSubscribers)
			subscribers.DELETE("/:id", h.AuthMiddleware(), h.DeleteSubscriber)
		}

		// Profile routes
		users := api.Group("/users")
		{
			users.GET("/me", h.AuthMiddleware(), h.GetMe)
			users.PUT("/me", h.AuthMiddleware(), h.UpdateMe)
			users.PUT("/me/appearance", h.AuthMiddleware(), h.UpdateAppearance)
			users.DELETE("/me", h.AuthMiddleware(), h.DeleteAccount)

			// Public page, with owner preview of private profiles
			users.GET("/:username", h.OptionalAuthMiddleware(), h.GetPublicProfile)
		}

		// Upload routes; every kind shares the same storage handler
		upload := api.Group("/upload")
		{
			upload.Use(h.AuthMiddleware())
			upload.POST("/profile-image", h.UploadFile)
			upload.POST("/background", h.UploadFile)
			upload.POST("/link-thumbnail", h.UploadFile)
			upload.POST("/icon", h.UploadFile)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Forced shutdown", zap.Error(err))
	}
	logger.Log.Info("Server stopped")
}
