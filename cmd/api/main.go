package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/uzacademy/course-platform-api/api/swagger"
	"github.com/uzacademy/course-platform-api/internal/handler"
	"github.com/uzacademy/course-platform-api/internal/middleware"
	"github.com/uzacademy/course-platform-api/internal/models"
	"github.com/uzacademy/course-platform-api/internal/repository"
	"github.com/uzacademy/course-platform-api/internal/service"
	"github.com/uzacademy/course-platform-api/pkg/cache"
	"github.com/uzacademy/course-platform-api/pkg/config"
	"github.com/uzacademy/course-platform-api/pkg/database"
	"github.com/uzacademy/course-platform-api/pkg/jobs"
	"github.com/uzacademy/course-platform-api/pkg/logger"
	corsmiddleware "github.com/uzacademy/course-platform-api/pkg/middleware/cors"
	reqidmiddleware "github.com/uzacademy/course-platform-api/pkg/middleware/requestid"
	"github.com/uzacademy/course-platform-api/pkg/notify"
	"github.com/uzacademy/course-platform-api/pkg/storage"
)

// @title Course Platform API
// @version 1.0.0
// @description Video-course e-commerce and learning platform
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
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, catalog caching disabled", "error", err)
		redisClient = nil
	}

	localStore, err := storage.NewLocalStorage(cfg.Uploads.BaseDir, cfg.Uploads.PublicBaseURL)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare upload storage", "error", err)
	}
	videoStore := storage.NewVideoStore(cfg.VideoStorage.ZoneName, cfg.VideoStorage.AccessKey, cfg.VideoStorage.PullZoneHost, cfg.VideoStorage.Timeout)
	telegram := notify.NewTelegramClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.Timeout)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	studentWorkRepo := repository.NewStudentWorkRepository(db)
	testimonialRepo := repository.NewTestimonialRepository(db)

	var cacheRepo service.CacheStore
	if redisClient != nil && cfg.Catalog.CacheEnabled {
		cacheRepo = repository.NewCacheRepository(redisClient, logr, metricsSvc)
	}

	// Services.
	notificationSvc := service.NewNotificationService(telegram, jobs.QueueConfig{
		Workers:    cfg.Notify.Workers,
		MaxRetries: cfg.Notify.MaxRetries,
		RetryDelay: cfg.Notify.RetryDelay,
		Logger:     logr,
	}, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	notificationSvc.Start(ctx)
	defer notificationSvc.Stop()

	authSvc := service.NewAuthService(userRepo, notificationSvc, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "course-platform-api",
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, cacheRepo, cfg.Catalog.CacheTTL, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, userRepo, logr)
	learningSvc := service.NewLearningService(enrollmentRepo, courseRepo, logr)
	cartSvc := service.NewCartService(courseRepo, courseRepo, enrollmentRepo, userRepo, notificationSvc, validate, logr)
	uploadSvc := service.NewUploadService(localStore, videoStore, cfg.Uploads.MaxMediaBytes, cfg.Uploads.MaxResourceBytes, logr)
	studentWorkSvc := service.NewStudentWorkService(studentWorkRepo, validate, logr)
	testimonialSvc := service.NewTestimonialService(testimonialRepo, validate, logr)
	exportSvc := service.NewExportService(userRepo, enrollmentRepo, courseRepo, nil, nil, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	learningHandler := handler.NewLearningHandler(learningSvc)
	cartHandler := handler.NewCartHandler(cartSvc)
	uploadHandler := handler.NewUploadHandler(uploadSvc, metricsSvc)
	studentWorkHandler := handler.NewStudentWorkHandler(studentWorkSvc)
	testimonialHandler := handler.NewTestimonialHandler(testimonialSvc)
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
		start := time.Now()
		err := db.PingContext(c.Request.Context())
		metricsSvc.ObserveDBQuery("ping", time.Since(start))
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)
	r.Static("/uploads", cfg.Uploads.BaseDir)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	courses := api.Group("/courses")
	{
		courses.GET("/catalog", courseHandler.Catalog)
		courses.GET("", courseHandler.List)
		courses.GET("/:id", courseHandler.Get)
		courses.POST("", middleware.JWT(authSvc), adminOnly, courseHandler.Create)
		courses.PUT("/:id", middleware.JWT(authSvc), adminOnly, courseHandler.Update)
		courses.PATCH("/:id/featured", middleware.JWT(authSvc), adminOnly, courseHandler.SetFeatured)
		courses.DELETE("/:id", middleware.JWT(authSvc), adminOnly, courseHandler.Delete)
	}

	enrollments := api.Group("/enrollments", middleware.JWT(authSvc))
	{
		enrollments.GET("/me", enrollmentHandler.ListMine)
		enrollments.POST("", adminOnly, enrollmentHandler.Grant)
		enrollments.DELETE("", adminOnly, enrollmentHandler.Revoke)
	}

	api.GET("/learning/dashboard", middleware.JWT(authSvc), learningHandler.Dashboard)

	api.POST("/cart/checkout", middleware.JWT(authSvc), cartHandler.Checkout)
	api.POST("/contact-sales", cartHandler.ContactSales)

	api.POST("/uploads/:purpose", middleware.JWT(authSvc), adminOnly, uploadHandler.Upload)

	users := api.Group("/users", middleware.JWT(authSvc), adminOnly)
	{
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.POST("", userHandler.Create)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	studentWorks := api.Group("/student-works")
	{
		studentWorks.GET("", studentWorkHandler.List)
		studentWorks.GET("/:id", studentWorkHandler.Get)
		studentWorks.POST("", middleware.JWT(authSvc), adminOnly, studentWorkHandler.Create)
		studentWorks.PUT("/:id", middleware.JWT(authSvc), adminOnly, studentWorkHandler.Update)
		studentWorks.DELETE("/:id", middleware.JWT(authSvc), adminOnly, studentWorkHandler.Delete)
	}

	testimonials := api.Group("/testimonials")
	{
		testimonials.GET("", middleware.OptionalJWT(authSvc), testimonialHandler.List)
		testimonials.GET("/random", testimonialHandler.Random)
		testimonials.POST("", middleware.JWT(authSvc), adminOnly, testimonialHandler.Create)
		testimonials.PUT("/:id", middleware.JWT(authSvc), adminOnly, testimonialHandler.Update)
		testimonials.DELETE("/:id", middleware.JWT(authSvc), adminOnly, testimonialHandler.Delete)
	}

	exports := api.Group("/exports", middleware.JWT(authSvc), adminOnly)
	{
		exports.GET("/users", exportHandler.Users)
		exports.GET("/enrollments", exportHandler.Enrollments)
		exports.GET("/catalog", exportHandler.Catalog)
	}

	api.GET("/ops/metrics", middleware.JWT(authSvc), adminOnly, metricsHandler.Snapshot)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
