package app

import (
	"github.com/gin-gonic/gin"

	"github.com/mrkecom/mrkecom-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:    "mrkecom-backend",
		AllowOrigins:   cfg.AllowOrigins,
		MediaDir:       cfg.MediaDir,
		AuthHandler:    handlerset.Auth,
		AuthMiddleware: middlewareset.Auth,
		UserHandler:    handlerset.User,
		ProductHandler: handlerset.Product,
		CartHandler:    handlerset.Cart,
		ReviewHandler:  handlerset.Review,
	})
}
