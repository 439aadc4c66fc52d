package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/register-share-api/api/swagger"
	"github.com/noah-isme/register-share-api/internal/handler"
	"github.com/noah-isme/register-share-api/internal/middleware"
	"github.com/noah-isme/register-share-api/internal/repository"
	"github.com/noah-isme/register-share-api/internal/service"
	"github.com/noah-isme/register-share-api/pkg/cache"
	"github.com/noah-isme/register-share-api/pkg/config"
	"github.com/noah-isme/register-share-api/pkg/database"
	"github.com/noah-isme/register-share-api/pkg/jobs"
	"github.com/noah-isme/register-share-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/register-share-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/register-share-api/pkg/middleware/requestid"
)

// @title Register Share API
// @version 1.0.0
// @description Share registry for class attendance snapshots with polling chat
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	var shareStore repository.ShareStore
	var userRepo *repository.UserRepository
	switch cfg.Share.Backend {
	case config.ShareBackendPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect postgres", "error", err)
		}
		defer db.Close() //nolint:errcheck
		shareStore = repository.NewPostgresShareStore(db)
		userRepo = repository.NewUserRepository(db)
	case config.ShareBackendRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect redis", "error", err)
		}
		defer client.Close() //nolint:errcheck
		shareStore = repository.NewRedisShareStore(client, cfg.Share.TTL)
	case config.ShareBackendMemory, "":
		shareStore = repository.NewMemoryShareStore()
	default:
		logr.Sugar().Fatalw("unknown share backend", "backend", cfg.Share.Backend)
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	shareSvc := service.NewShareService(shareStore, logr, metrics, service.ShareServiceConfig{
		CodeLength:         cfg.Share.CodeLength,
		TTL:                cfg.Share.TTL,
		SupersedePrevious:  cfg.Share.SupersedePrevious,
		MaxAttachmentBytes: cfg.Share.MaxAttachmentBytes,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	shareHandler := handler.NewShareHandler(shareSvc)
	api.POST("/share", shareHandler.Publish)
	api.GET("/view", shareHandler.View)
	api.POST("/messages", shareHandler.SendMessage)
	api.POST("/messages/delete", shareHandler.DeleteMessage)
	api.POST("/lock", shareHandler.ToggleLock)

	if cfg.Auth.Enabled {
		if userRepo == nil {
			logr.Sugar().Fatalw("auth requires the postgres backend", "backend", cfg.Share.Backend)
		}
		authSvc := service.NewAuthService(userRepo, validator.New(), logr, service.AuthServiceConfig{
			TokenSecret: cfg.JWT.Secret,
			TokenExpiry: cfg.JWT.Expiration,
			Issuer:      cfg.JWT.Issuer,
		})
		authHandler := handler.NewAuthHandler(authSvc)
		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/me", middleware.JWT(authSvc), authHandler.Me)
	}

	if cfg.Export.Enabled {
		exportHandler := handler.NewExportHandler(service.NewExportService(shareSvc, logr))
		api.GET("/export/register", exportHandler.Register)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Share.TTL > 0 {
		sweeper := jobs.NewQueue("share-sweeper", func(ctx context.Context, job jobs.Job) error {
			_, err := shareSvc.PurgeExpired(ctx)
			return err
		}, jobs.QueueConfig{Workers: 1, Logger: logr})
		sweeper.Start(ctx)
		defer sweeper.Stop()

		go func() {
			ticker := time.NewTicker(cfg.Share.SweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := sweeper.Enqueue(jobs.Job{ID: uuid.NewString(), Type: "purge-expired"}); err != nil {
						logr.Sugar().Warnw("failed to enqueue sweep", "error", err)
					}
				}
			}
		}()
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("registry starting", "addr", addr, "env", cfg.Env, "backend", cfg.Share.Backend)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("registry failed", "error", err)
	}
}
