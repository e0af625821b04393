package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cadenza-app/cadenza-api/internal/handler"
	internalmiddleware "github.com/cadenza-app/cadenza-api/internal/middleware"
	"github.com/cadenza-app/cadenza-api/internal/repository"
	"github.com/cadenza-app/cadenza-api/internal/service"
	"github.com/cadenza-app/cadenza-api/pkg/cache"
	"github.com/cadenza-app/cadenza-api/pkg/config"
	"github.com/cadenza-app/cadenza-api/pkg/database"
	"github.com/cadenza-app/cadenza-api/pkg/logger"
	corsmiddleware "github.com/cadenza-app/cadenza-api/pkg/middleware/cors"
	reqidmiddleware "github.com/cadenza-app/cadenza-api/pkg/middleware/requestid"
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, efficiency cache disabled", "error", err)
	} else {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close()
	}

	availabilityRepo := repository.NewAvailabilityRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	commitmentRepo := repository.NewCommitmentRepository(db)

	var cacheSvc *service.CacheService
	if cacheRepo != nil {
		cacheSvc = service.NewCacheService(cacheRepo, logr)
	} else {
		cacheSvc = service.NewCacheService(nil, logr)
	}

	efficiencySvc := service.NewEfficiencyService(availabilityRepo, bookingRepo, cacheSvc, metricsSvc, cfg.Efficiency, logr)
	schedulingSvc := service.NewSchedulingService(availabilityRepo, bookingRepo, commitmentRepo, efficiencySvc, metricsSvc, cfg.Engine, logr)

	schedulingHandler := handler.NewSchedulingHandler(schedulingSvc)
	efficiencyHandler := handler.NewEfficiencyHandler(efficiencySvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Prometheus)

	v1 := r.Group(cfg.APIPrefix)
	{
		scheduling := v1.Group("/scheduling")
		{
			scheduling.POST("/slots", schedulingHandler.GenerateSlots)
			scheduling.POST("/conflicts", schedulingHandler.DetectConflicts)
			scheduling.POST("/alternatives", schedulingHandler.SuggestAlternatives)
			scheduling.POST("/optimal", schedulingHandler.FindOptimalSlots)
			scheduling.POST("/pack", schedulingHandler.Pack)
		}

		v1.POST("/bookings", schedulingHandler.CreateBooking)
		v1.DELETE("/bookings/:id", schedulingHandler.CancelBooking)

		v1.GET("/teachers/:id/efficiency", efficiencyHandler.Report)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
