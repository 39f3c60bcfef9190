package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/freshplatter/platter-backend/config"
	"github.com/freshplatter/platter-backend/internal/app/controller"
	"github.com/freshplatter/platter-backend/internal/app/repository"
	"github.com/freshplatter/platter-backend/internal/app/service"
	"github.com/freshplatter/platter-backend/internal/db"
	"github.com/freshplatter/platter-backend/internal/middleware"
	"github.com/freshplatter/platter-backend/internal/router"
	"github.com/freshplatter/platter-backend/internal/scheduler"
	"github.com/freshplatter/platter-backend/internal/storage"
	"github.com/freshplatter/platter-backend/internal/websocket"
	"github.com/freshplatter/platter-backend/pkg/logger"
	"github.com/freshplatter/platter-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Platter Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis backs the token blacklist and the dashboard cache; the
	// server runs without it, just slower and without logout revocation.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, continuing without cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	bannerRepo := repository.NewBannerRepository(db.GetDB())
	leadRepo := repository.NewLeadRepository(db.GetDB())

	// Live order feed for the back office
	hub := websocket.NewHub()
	go hub.Run()

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, db.GetDB(), hub)
	bannerService := service.NewBannerService(bannerRepo)
	leadService := service.NewLeadService(leadRepo)
	dashboardService := service.NewDashboardService(orderRepo, leadRepo)

	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	bannerController := controller.NewBannerController(bannerService)
	leadController := controller.NewLeadController(leadService)
	dashboardController := controller.NewDashboardController(dashboardService, hub)
	uploadController := controller.NewUploadController(s3Storage)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Daily delivery manifest
	deliveryScheduler := scheduler.NewDeliveryScheduler(dashboardService, hub, cfg.Scheduler.DeliveryManifestCron)
	if err := deliveryScheduler.Start(); err != nil {
		logger.Error("Failed to start delivery scheduler", err)
	}
	defer deliveryScheduler.Stop()

	r := router.NewRouter(
		authController,
		productController,
		cartController,
		orderController,
		bannerController,
		leadController,
		dashboardController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
