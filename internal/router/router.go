package router

import (
	"github.com/gin-gonic/gin"

	"github.com/mivitrina/mivitrina-backend/config"
	"github.com/mivitrina/mivitrina-backend/internal/app/controller"
	"github.com/mivitrina/mivitrina-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	storeController        *controller.StoreController
	productController      *controller.ProductController
	orderController        *controller.OrderController
	supplierController     *controller.SupplierController
	payoutController       *controller.PayoutController
	rateController         *controller.ExchangeRateController
	notificationController *controller.NotificationController
	pricingController      *controller.PricingController
	uploadController       *controller.UploadController
	wsController           *controller.WebSocketController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	storeController *controller.StoreController,
	productController *controller.ProductController,
	orderController *controller.OrderController,
	supplierController *controller.SupplierController,
	payoutController *controller.PayoutController,
	rateController *controller.ExchangeRateController,
	notificationController *controller.NotificationController,
	pricingController *controller.PricingController,
	uploadController *controller.UploadController,
	wsController *controller.WebSocketController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		storeController:        storeController,
		productController:      productController,
		orderController:        orderController,
		supplierController:     supplierController,
		payoutController:       payoutController,
		rateController:         rateController,
		notificationController: notificationController,
		pricingController:      pricingController,
		uploadController:       uploadController,
		wsController:           wsController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "MiVitrina API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		// Public storefront surface, addressed by slug.
		stores := v1.Group("/stores")
		{
			stores.GET("/:slug", r.storeController.GetStorefront)
			stores.GET("/:slug/zone-prices", r.pricingController.GetZonePrices)

			stores.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("gestor", "admin"),
				r.storeController.CreateStore,
			)
			stores.GET("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("gestor", "admin"),
				r.storeController.GetMyStores,
			)
			stores.PUT("/:slug/config",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("gestor", "admin"),
				r.storeController.UpdateConfig,
			)
		}

		// Store management, addressed by ID.
		panel := v1.Group("/panel/stores")
		panel.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("gestor", "admin"))
		{
			panel.POST("/:id/products", r.storeController.AddProduct)
			panel.DELETE("/:id/products/:productId", r.storeController.RemoveProduct)
			panel.GET("/:id/orders", r.orderController.GetStoreOrders)
			panel.GET("/:id/dashboard", r.storeController.GetDashboard)
			panel.DELETE("/:id", r.storeController.Deactivate)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)

			products.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("proveedor", "admin"),
				r.productController.PublishProduct,
			)
			products.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("proveedor", "admin"),
				r.productController.UpdateProduct,
			)
			products.PATCH("/:id/stock",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("proveedor", "admin"),
				r.productController.AdjustStock,
			)
			products.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("proveedor", "admin"),
				r.productController.DeleteProduct,
			)
		}

		orders := v1.Group("/orders")
		{
			// Guest checkout is allowed; a logged-in customer gets linked.
			orders.POST("", r.authMiddleware.OptionalAuthenticate(), r.orderController.SubmitOrder)

			orders.GET("", r.authMiddleware.Authenticate(), r.orderController.GetMyOrders)
			orders.GET("/:id", r.authMiddleware.Authenticate(), r.orderController.GetOrder)
			orders.PATCH("/:id/status",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("gestor", "proveedor", "admin"),
				r.orderController.UpdateStatus,
			)
		}

		// Public order tracking by reference, for guests.
		v1.GET("/track/:reference", r.orderController.GetOrderByReference)

		suppliers := v1.Group("/suppliers")
		{
			suppliers.POST("", r.authMiddleware.Authenticate(), r.supplierController.RegisterSupplier)
			suppliers.GET("/:id", r.supplierController.GetSupplier)

			suppliers.GET("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.supplierController.ListSuppliers,
			)
			suppliers.POST("/:id/verify",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.supplierController.VerifySupplier,
			)
		}

		v1.GET("/supplier/orders",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("proveedor", "admin"),
			r.orderController.GetSupplierOrders,
		)

		payouts := v1.Group("/payouts")
		payouts.Use(r.authMiddleware.Authenticate())
		{
			payouts.GET("",
				r.authMiddleware.RequireRole("proveedor", "admin"),
				r.payoutController.GetMyPayouts,
			)
			payouts.POST("",
				r.authMiddleware.RequireRole("admin"),
				r.payoutController.GeneratePayouts,
			)
			payouts.PATCH("/:id/status",
				r.authMiddleware.RequireRole("admin"),
				r.payoutController.AdvanceStatus,
			)
		}

		rates := v1.Group("/rates")
		{
			rates.GET("/:currency", r.rateController.GetLatest)
			rates.GET("/:currency/history", r.rateController.GetHistory)
			rates.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.rateController.RecordRate,
			)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.GetNotifications)
			notifications.PATCH("", r.notificationController.MarkAllAsRead)
			notifications.PATCH("/:id/read", r.notificationController.MarkAsRead)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}

		v1.GET("/ws", r.authMiddleware.Authenticate(), r.wsController.Connect)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
