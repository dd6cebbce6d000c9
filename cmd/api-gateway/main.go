package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/SameerShan723/timetable-api/api/swagger"
	"github.com/SameerShan723/timetable-api/internal/handler"
	"github.com/SameerShan723/timetable-api/internal/middleware"
	"github.com/SameerShan723/timetable-api/internal/repository"
	"github.com/SameerShan723/timetable-api/internal/service"
	"github.com/SameerShan723/timetable-api/pkg/cache"
	"github.com/SameerShan723/timetable-api/pkg/config"
	"github.com/SameerShan723/timetable-api/pkg/database"
	"github.com/SameerShan723/timetable-api/pkg/logger"
	corsmiddleware "github.com/SameerShan723/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/SameerShan723/timetable-api/pkg/middleware/requestid"
)

// @title Timetable API
// @version 1.0.0
// @description Versioned weekly class timetable service with conflict detection
// @BasePath /
// @schemes http

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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The cache is an optimisation; the service stays up without it.
		logr.Sugar().Warnw("redis unavailable, serving without cache", "error", err)
		redisClient = nil
	}

	versionRepo := repository.NewVersionRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	versionSvc := service.NewVersionService(versionRepo, cacheRepo, cfg.Timetable.CacheTTL, logr)
	mutationSvc := service.NewMutationService(versionRepo, cacheRepo, validate, logr)
	importSvc := service.NewImportService(mutationSvc, validate, logr)
	exportSvc := service.NewExportService(versionSvc, nil, nil, logr)

	timetableHandler := handler.NewTimetableHandler(versionSvc, metricsSvc)
	mutationHandler := handler.NewMutationHandler(mutationSvc, importSvc, metricsSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		timetable := api.Group("/timetable")
		timetable.GET("/versions", timetableHandler.ListVersions)
		timetable.POST("/versions", timetableHandler.Save)
		timetable.GET("/versions/:version", timetableHandler.GetVersion)
		timetable.DELETE("/versions/:version", timetableHandler.Delete)
		timetable.POST("/versions/:version/finalize", timetableHandler.Finalize)
		timetable.GET("/selected", timetableHandler.GetSelected)

		timetable.POST("/rooms", mutationHandler.AddRoom)
		timetable.PUT("/sessions", mutationHandler.UpdateSession)
		timetable.DELETE("/sessions", mutationHandler.DeleteSession)
		timetable.POST("/import", mutationHandler.Import)

		if cfg.Exports.Enabled {
			timetable.GET("/versions/:version/export", exportHandler.Export)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
