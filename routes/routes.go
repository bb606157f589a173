package routes

import (
	"log/slog"

	"go-marketplace/config"
	"go-marketplace/controllers"
	"go-marketplace/middleware"
	"go-marketplace/repositories"
	"go-marketplace/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Dependencies struct {
	Config  *config.Config
	Logger  *slog.Logger
	Storage repositories.Storage
	Store   *services.CartStore
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORSMiddleware(deps.Config.OriginURL))

	SetupRoutes(router, deps)
	return router
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	authCtrl := &controllers.AuthController{Secret: deps.Config.JWTSecret, Expiry: deps.Config.JWTExpiry}
	cartCtrl := &controllers.CartController{}
	healthCtrl := &controllers.HealthController{Storage: deps.Storage, Store: deps.Store}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", healthCtrl.Health)
	router.POST("/auth/device", authCtrl.IssueDeviceToken)

	cart := router.Group("/cart")
	cart.Use(middleware.DeviceAuthMiddleware(deps.Config.JWTSecret), middleware.CartProvider(deps.Store))
	{
		cart.GET("", cartCtrl.GetCart)
		cart.POST("", cartCtrl.AddToCart)
		cart.DELETE("", cartCtrl.ClearCart)
		cart.GET("/events", cartCtrl.Events)
		cart.PATCH("/:id/increment", cartCtrl.Increment)
		cart.PATCH("/:id/decrement", cartCtrl.Decrement)
	}
}
