package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mivitrina/mivitrina-backend/config"
	"github.com/mivitrina/mivitrina-backend/internal/app/controller"
	"github.com/mivitrina/mivitrina-backend/internal/app/repository"
	"github.com/mivitrina/mivitrina-backend/internal/app/service"
	"github.com/mivitrina/mivitrina-backend/internal/db"
	"github.com/mivitrina/mivitrina-backend/internal/middleware"
	"github.com/mivitrina/mivitrina-backend/internal/router"
	"github.com/mivitrina/mivitrina-backend/internal/scheduler"
	"github.com/mivitrina/mivitrina-backend/internal/storage"
	"github.com/mivitrina/mivitrina-backend/internal/websocket"
	"github.com/mivitrina/mivitrina-backend/pkg/logger"
	"github.com/mivitrina/mivitrina-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting MiVitrina Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed database (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize Redis (optional, used for token blacklist and price caches)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, running without cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// WebSocket hub for real-time order and payout notifications
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	supplierRepo := repository.NewSupplierRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	storeRepo := repository.NewStoreRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	payoutRepo := repository.NewPayoutRepository(db.GetDB())
	rateRepo := repository.NewExchangeRateRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, hub)
	supplierService := service.NewSupplierService(supplierRepo, userRepo, notificationService)
	productService := service.NewProductService(productRepo, supplierRepo)
	storeService := service.NewStoreService(storeRepo, productRepo, orderRepo)
	orderService := service.NewOrderService(
		orderRepo,
		storeRepo,
		productRepo,
		notificationService,
		cfg.Marketplace,
		db.GetDB(),
	)
	payoutService := service.NewPayoutService(
		payoutRepo,
		orderRepo,
		supplierRepo,
		rateRepo,
		userRepo,
		notificationService,
		cfg.Marketplace,
	)
	rateFetcher := service.NewDefaultRateFetcher(cfg.Rates.APIURL)
	rateService := service.NewExchangeRateServiceWithFetcher(rateRepo, rateFetcher)

	// S3 storage for product and storefront images
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	storeController := controller.NewStoreController(storeService)
	productController := controller.NewProductController(productService, authService)
	orderController := controller.NewOrderController(orderService, authService)
	supplierController := controller.NewSupplierController(supplierService)
	payoutController := controller.NewPayoutController(payoutService, authService)
	rateController := controller.NewExchangeRateController(rateService)
	notificationController := controller.NewNotificationController(notificationService)
	pricingController := controller.NewPricingController(storeService)
	uploadController := controller.NewUploadController(s3Storage)
	wsController := controller.NewWebSocketController(hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, true)

	// Setup router
	r := router.NewRouter(
		authController,
		storeController,
		productController,
		orderController,
		supplierController,
		payoutController,
		rateController,
		notificationController,
		pricingController,
		uploadController,
		wsController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Background jobs: daily rate refresh, monthly payout settlement
	rateScheduler := scheduler.NewRateScheduler(rateService)
	if err := rateScheduler.Start(); err != nil {
		logger.Error("Failed to start exchange rate scheduler", err)
	}
	defer rateScheduler.Stop()

	payoutScheduler := scheduler.NewPayoutScheduler(payoutService)
	if err := payoutScheduler.Start(); err != nil {
		logger.Error("Failed to start payout scheduler", err)
	}
	defer payoutScheduler.Stop()

	// Start server in a goroutine
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

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
