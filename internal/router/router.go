package router

import (
	"github.com/freshplatter/platter-backend/config"
	"github.com/freshplatter/platter-backend/internal/app/controller"
	"github.com/freshplatter/platter-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController      *controller.AuthController
	productController   *controller.ProductController
	cartController      *controller.CartController
	orderController     *controller.OrderController
	bannerController    *controller.BannerController
	leadController      *controller.LeadController
	dashboardController *controller.DashboardController
	uploadController    *controller.UploadController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	bannerController *controller.BannerController,
	leadController *controller.LeadController,
	dashboardController *controller.DashboardController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		productController:   productController,
		cartController:      cartController,
		orderController:     orderController,
		bannerController:    bannerController,
		leadController:      leadController,
		dashboardController: dashboardController,
		uploadController:    uploadController,
		authMiddleware:      authMiddleware,
		config:              cfg,
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
			"message": "Platter API is running",
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
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)
		}

		v1.GET("/banners", r.bannerController.GetBanners)
		v1.POST("/leads", r.leadController.SubmitLead)

		cart := v1.Group("/cart", r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/add", r.cartController.AddToCart)
			cart.POST("/remove", r.cartController.RemoveFromCart)
			cart.POST("/update", r.cartController.UpdateCartItem)
			cart.POST("/clear", r.cartController.ClearCart)
		}

		orders := v1.Group("/orders", r.authMiddleware.Authenticate())
		{
			orders.POST("", r.orderController.CreateOrder)
			orders.GET("", r.orderController.GetMyOrders)
			orders.GET("/my-orders", r.orderController.GetMyOrders)
			orders.GET("/:id", r.orderController.GetOrder)
		}

		admin := v1.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
		)
		{
			admin.POST("/products", r.productController.CreateProduct)
			admin.PUT("/products/:id", r.productController.UpdateProduct)
			admin.DELETE("/products/:id", r.productController.DeleteProduct)

			admin.GET("/orders", r.orderController.ListOrders)
			admin.GET("/orders/export", r.orderController.ExportOrders)
			admin.PUT("/orders/:id/status", r.orderController.UpdateOrderStatus)

			admin.GET("/banners", r.bannerController.ListBanners)
			admin.POST("/banners", r.bannerController.CreateBanner)
			admin.PUT("/banners/:id", r.bannerController.UpdateBanner)
			admin.DELETE("/banners/:id", r.bannerController.DeleteBanner)

			admin.GET("/leads", r.leadController.ListLeads)
			admin.PUT("/leads/:id/status", r.leadController.UpdateLeadStatus)

			admin.GET("/dashboard", r.dashboardController.GetSummary)
			admin.GET("/dashboard/deliveries", r.dashboardController.GetDeliveries)
			admin.GET("/dashboard/feed", r.dashboardController.OrderFeed)

			admin.POST("/upload/presigned-url", r.uploadController.GeneratePresignedURL)
		}
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
