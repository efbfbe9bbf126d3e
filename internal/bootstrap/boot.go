package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/VanshChitransh/ConsultabidV1/internal/conf"
	"github.com/VanshChitransh/ConsultabidV1/internal/data"
	"github.com/VanshChitransh/ConsultabidV1/internal/engine"
	"github.com/VanshChitransh/ConsultabidV1/internal/handler"
	"github.com/VanshChitransh/ConsultabidV1/internal/middleware"
	"github.com/VanshChitransh/ConsultabidV1/internal/repository"
	"github.com/VanshChitransh/ConsultabidV1/internal/service"
	"github.com/VanshChitransh/ConsultabidV1/internal/worker"
)

// Run wires the whole server and blocks serving it.
func Run() {
	// 1. Configuration
	cfg := conf.LoadConfig()

	// 2. Data layer (Postgres, Redis, MinIO)
	d, cleanup, err := data.NewData(cfg)
	if err != nil {
		log.Fatalf("data layer init failed: %v", err)
	}
	defer cleanup()

	// 3. Repositories
	userRepo := repository.NewUserRepository(d.DB)
	uploadRepo := repository.NewUploadRepository(d.DB)
	estimateRepo := repository.NewEstimateRepository(d.DB)

	// 4. Engine client + services
	engineClient := engine.NewClient(cfg.Engine)

	authSvc := service.NewAuthService(userRepo, cfg.Auth.JWTSecret)
	admissionSvc := service.NewAdmissionService(estimateRepo, cfg.Estimate.Cooldown)
	fileSvc := service.NewFileService(uploadRepo, estimateRepo, d)
	estimateSvc := service.NewEstimateService(uploadRepo, estimateRepo, admissionSvc, engineClient, d, cfg.Estimate.LockTTL)

	// 5. Handlers
	authH := handler.NewAuthHandler(authSvc)
	fileH := handler.NewFileHandler(fileSvc)
	estimateH := handler.NewEstimateHandler(estimateSvc)

	// 6. Stale-estimate recovery: sweep at boot, then on an interval
	sweeper := worker.NewSweeper(estimateRepo, cfg.Estimate.StaleAfter, cfg.Estimate.SweepInterval)
	sweeper.Start(context.Background())

	// 7. Gin server
	r := gin.Default()
	r.Use(middleware.TraceMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 8. Routes
	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authH.Register)
			auth.POST("/login", authH.Login)
		}

		protected := api.Group("/")
		protected.Use(middleware.JWTAuth(cfg.Auth))
		{
			protected.GET("/files", fileH.List)
			protected.POST("/files/upload", fileH.Upload)
			protected.GET("/files/:id/download", fileH.Download)
			protected.DELETE("/files/:id", fileH.Delete)

			// The only admission-gated route
			protected.POST("/files/:id/process", middleware.Cooldown(admissionSvc), estimateH.Process)
		}
	}

	log.Printf("consultabid backend listening on :%s", cfg.App.Port)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("server start failed: %v", err)
	}
}
