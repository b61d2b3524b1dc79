package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/edtech-progress-api/api/swagger"
	"github.com/noah-isme/edtech-progress-api/internal/catalog"
	"github.com/noah-isme/edtech-progress-api/internal/handler"
	"github.com/noah-isme/edtech-progress-api/internal/middleware"
	"github.com/noah-isme/edtech-progress-api/internal/models"
	"github.com/noah-isme/edtech-progress-api/internal/repository"
	"github.com/noah-isme/edtech-progress-api/internal/service"
	"github.com/noah-isme/edtech-progress-api/pkg/config"
	"github.com/noah-isme/edtech-progress-api/pkg/database"
	"github.com/noah-isme/edtech-progress-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/edtech-progress-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/edtech-progress-api/pkg/middleware/requestid"
)

// @title EdTech Progress API
// @version 1.0.0
// @description Multi-user educational progress tracker
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewSQLite(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to open store", "error", err)
	}
	defer db.Close()

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logr.Sugar().Fatalw("failed to load catalog", "error", err)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret:   cfg.JWT.Secret,
		TokenExpiry:   cfg.JWT.Expiration,
		Issuer:        cfg.JWT.Issuer,
		AdminUsername: cfg.Bootstrap.AdminUsername,
		AdminPassword: cfg.Bootstrap.AdminPassword,
	})
	userSvc := service.NewUserService(userRepo, auditSvc, validate, logr)
	progressSvc := service.NewProgressService(progressRepo, auditSvc, cat, validate, logr)
	dashboardSvc := service.NewDashboardService(progressSvc, progressRepo, auditSvc, len(cat.Subjects()), logr)
	metricsSvc := service.NewMetricsService()

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		exportSvc = service.NewExportService(auditSvc, progressSvc, nil, nil, logr)
	}

	if err := authSvc.EnsureDefaultAdmin(context.Background()); err != nil {
		logr.Sugar().Fatalw("failed to seed default admin", "error", err)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	authHandler := handler.NewAuthHandler(authSvc, auditSvc)
	progressHandler := handler.NewProgressHandler(progressSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	userHandler := handler.NewUserHandler(userSvc)
	auditHandler := handler.NewAuditHandler(auditSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	authed.GET("/catalog", progressHandler.Catalog)
	authed.GET("/progress", progressHandler.Grouped)
	authed.GET("/progress/status", progressHandler.GetStatus)
	authed.PUT("/progress/status", progressHandler.SetStatus)
	authed.GET("/dashboard", dashboardHandler.Summary)
	authed.GET("/activity", auditHandler.RecentActivity)

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	admin.POST("/users", userHandler.Create)
	admin.GET("/users", userHandler.List)
	admin.GET("/audit", auditHandler.All)
	admin.GET("/audit/export", auditHandler.ExportAudit)
	admin.GET("/users/:id/progress/export", auditHandler.ExportUserProgress)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "db", cfg.Database.Path)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
