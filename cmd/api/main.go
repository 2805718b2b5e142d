package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Venkatnagaram/mentor-apis-working/api/swagger"
	"github.com/Venkatnagaram/mentor-apis-working/internal/handler"
	"github.com/Venkatnagaram/mentor-apis-working/internal/middleware"
	"github.com/Venkatnagaram/mentor-apis-working/internal/models"
	"github.com/Venkatnagaram/mentor-apis-working/internal/repository"
	"github.com/Venkatnagaram/mentor-apis-working/internal/service"
	"github.com/Venkatnagaram/mentor-apis-working/pkg/cache"
	"github.com/Venkatnagaram/mentor-apis-working/pkg/config"
	"github.com/Venkatnagaram/mentor-apis-working/pkg/database"
	"github.com/Venkatnagaram/mentor-apis-working/pkg/lock"
	"github.com/Venkatnagaram/mentor-apis-working/pkg/logger"
	corsmiddleware "github.com/Venkatnagaram/mentor-apis-working/pkg/middleware/cors"
	reqidmiddleware "github.com/Venkatnagaram/mentor-apis-working/pkg/middleware/requestid"
)

// @title Mentorship Scheduling API
// @version 1.0.0
// @description Availability, slot generation and meeting booking
// @BasePath /api/v1
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
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	availabilityRepo := repository.NewAvailabilityRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	userRepo := repository.NewUserRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(service.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, validate, logr)
	slotSvc := service.NewSlotService(availabilityRepo, meetingRepo, userRepo, logr)
	locker := lock.NewRedisLocker(redisClient)
	meetingSvc := service.NewMeetingService(meetingRepo, userRepo, connectionRepo, slotSvc, locker, cfg.Booking.LockTTL, validate, logr)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		exportSvc = service.NewExportService(meetingRepo, logr)
	}

	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	slotHandler := handler.NewSlotHandler(slotSvc, metricsSvc, cfg.Slots.DefaultWindowDays, cfg.Slots.MaxWindowDays)
	meetingHandler := newMeetingHandler(meetingSvc, exportSvc, metricsSvc)
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
	r.Use(middleware.Timezone())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	secured := api.Group("")
	secured.Use(middleware.JWT(authSvc))

	availability := secured.Group("/availability")
	availability.Use(middleware.RequireRoles(models.RoleMentor, models.RoleAdmin))
	{
		availability.POST("", availabilityHandler.Create)
		availability.GET("/me", availabilityHandler.ListMine)
		availability.PUT("/:id", availabilityHandler.Update)
		availability.DELETE("/:id", availabilityHandler.Delete)
	}

	secured.GET("/users/:id/slots", slotHandler.List)

	meetings := secured.Group("/meetings")
	{
		bookChain := []gin.HandlerFunc{}
		if cfg.RateLimit.Enabled {
			bookChain = append(bookChain, middleware.RateLimit(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window))
		}
		bookChain = append(bookChain, meetingHandler.Book)
		meetings.POST("", bookChain...)
		meetings.GET("", meetingHandler.List)
		meetings.GET("/export", meetingHandler.Export)
		meetings.POST("/:id/cancel", meetingHandler.Cancel)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// newMeetingHandler keeps the nil-interface pitfall out of the wiring: a nil
// *ExportService must stay a nil interface inside the handler.
func newMeetingHandler(meetingSvc *service.MeetingService, exportSvc *service.ExportService, metricsSvc *service.MetricsService) *handler.MeetingHandler {
	if exportSvc == nil {
		return handler.NewMeetingHandler(meetingSvc, nil, metricsSvc)
	}
	return handler.NewMeetingHandler(meetingSvc, exportSvc, metricsSvc)
}
