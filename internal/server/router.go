package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mrkecom/mrkecom-backend/internal/handlers"
	"github.com/mrkecom/mrkecom-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName    string
	AllowOrigins   []string
	MediaDir       string
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	UserHandler    *handlers.UserHandler
	ProductHandler *handlers.ProductHandler
	CartHandler    *handlers.CartHandler
	ReviewHandler  *handlers.ReviewHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Uploaded media is served straight off disk under a stable prefix.
	router.Static("/uploads", cfg.MediaDir)

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/user/signup", cfg.AuthHandler.SignUp)
	router.POST("/user/signIn", cfg.AuthHandler.SignIn)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// User
	protected.POST("/user/update/:uid", cfg.UserHandler.Update)
	// Product
	protected.POST("/product/add", cfg.ProductHandler.Add)
	protected.POST("/product/show", cfg.ProductHandler.Show)
	protected.POST("/product/details/:id", cfg.ProductHandler.Details)
	protected.POST("/product/update/:id", cfg.ProductHandler.Update)
	protected.DELETE("/product/delete/:id", cfg.ProductHandler.Delete)
	protected.POST("/product/search", cfg.ProductHandler.Search)
	// Cart
	protected.POST("/cart/add", cfg.CartHandler.Add)
	protected.GET("/cart/details", cfg.CartHandler.Details)
	protected.POST("/cart/delete", cfg.CartHandler.Delete)
	// Review
	protected.POST("/review/add", cfg.ReviewHandler.Add)
	protected.POST("/review/update/:id", cfg.ReviewHandler.Update)
	protected.DELETE("/review/delete/:id", cfg.ReviewHandler.Delete)

	// ===============
	// || Admin     ||
	// ===============
	admin := router.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireAdmin())
	admin.POST("/review/rebuild/:pid", cfg.ReviewHandler.RebuildAggregate)

	return router
}
