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

	_ "github.com/pfe-platform/defense-api/api/swagger"
	"github.com/pfe-platform/defense-api/internal/handler"
	"github.com/pfe-platform/defense-api/internal/middleware"
	"github.com/pfe-platform/defense-api/internal/models"
	"github.com/pfe-platform/defense-api/internal/repository"
	"github.com/pfe-platform/defense-api/internal/service"
	"github.com/pfe-platform/defense-api/pkg/cache"
	"github.com/pfe-platform/defense-api/pkg/config"
	"github.com/pfe-platform/defense-api/pkg/database"
	"github.com/pfe-platform/defense-api/pkg/logger"
	corsmiddleware "github.com/pfe-platform/defense-api/pkg/middleware/cors"
	reqidmiddleware "github.com/pfe-platform/defense-api/pkg/middleware/requestid"
)

// @title Defense Scheduling API
// @version 1.0.0
// @description Thesis defense scheduling platform: directory management, constraint-based schedule generation, notifications and exports.
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, timetable caching disabled", zap.Error(err))
		redisClient = nil
	}

	validate := validator.New()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	professorRepo := repository.NewProfessorRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	defenseRepo := repository.NewDefenseRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	// Services.
	metricsService := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Cache.TimetableTTL, logr, cfg.Cache.Enabled && redisClient != nil)
	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	professorService := service.NewProfessorService(professorRepo, validate, logr)
	studentService := service.NewStudentService(studentRepo, validate, logr)
	roomService := service.NewRoomService(roomRepo, validate, logr)
	projectService := service.NewProjectService(projectRepo, studentRepo, professorRepo, validate, logr)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, cfg.Notifications.DispatchWorkers, logr)
	defenseService := service.NewDefenseService(defenseRepo, cacheService, cfg.Cache.TimetableTTL, logr)
	exportService := service.NewExportService(defenseRepo, nil, nil, logr)
	importService := service.NewImportService(professorService, studentService, roomService, logr)
	generatorService := service.NewScheduleGeneratorService(
		projectRepo, professorRepo, roomRepo, defenseRepo,
		notificationService, cacheService, metricsService, validate, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authService)
	professorHandler := handler.NewProfessorHandler(professorService)
	studentHandler := handler.NewStudentHandler(studentService)
	roomHandler := handler.NewRoomHandler(roomService)
	projectHandler := handler.NewProjectHandler(projectService)
	defenseHandler := handler.NewDefenseHandler(defenseService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	generatorHandler := handler.NewScheduleGeneratorHandler(generatorService, exportService)
	importHandler := handler.NewImportHandler(importService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

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
	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authService))

	authed.GET("/auth/me", authHandler.Me)

	admin := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleProfessor)

	authed.GET("/professors", staff, professorHandler.List)
	authed.GET("/professors/:id", staff, professorHandler.Get)
	authed.POST("/professors", admin, professorHandler.Create)
	authed.PUT("/professors/:id", admin, professorHandler.Update)
	authed.DELETE("/professors/:id", admin, professorHandler.Delete)
	authed.PUT("/professors/:id/availability", staff, professorHandler.UpdateAvailability)

	authed.GET("/students", staff, studentHandler.List)
	authed.GET("/students/:id", staff, studentHandler.Get)
	authed.POST("/students", admin, studentHandler.Create)
	authed.PUT("/students/:id", admin, studentHandler.Update)
	authed.DELETE("/students/:id", admin, studentHandler.Delete)

	authed.GET("/rooms", staff, roomHandler.List)
	authed.GET("/rooms/:id", staff, roomHandler.Get)
	authed.POST("/rooms", admin, roomHandler.Create)
	authed.PUT("/rooms/:id", admin, roomHandler.Update)
	authed.DELETE("/rooms/:id", admin, roomHandler.Delete)

	authed.GET("/projects", staff, projectHandler.List)
	authed.GET("/projects/:id", staff, projectHandler.Get)
	authed.POST("/projects", admin, projectHandler.Create)
	authed.PUT("/projects/:id", admin, projectHandler.Update)
	authed.DELETE("/projects/:id", admin, projectHandler.Delete)

	authed.GET("/defenses", defenseHandler.List)
	authed.POST("/schedule/generate", admin, generatorHandler.Generate)
	authed.GET("/schedule/export", staff, generatorHandler.Export)

	authed.GET("/notifications", notificationHandler.List)
	authed.POST("/notifications/:id/read", notificationHandler.MarkRead)
	authed.POST("/notifications/read-all", notificationHandler.MarkAllRead)

	authed.POST("/import/:type", admin, importHandler.Import)
	authed.GET("/templates/:type", admin, importHandler.Template)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
