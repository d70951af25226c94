package app

import (
	"github.com/mrkecom/mrkecom-backend/internal/handlers"
	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	User    *handlers.UserHandler
	Product *handlers.ProductHandler
	Cart    *handlers.CartHandler
	Review  *handlers.ReviewHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:    handlers.NewAuthHandler(serviceset.Auth),
		User:    handlers.NewUserHandler(serviceset.User),
		Product: handlers.NewProductHandler(serviceset.Product, serviceset.ProductDetail),
		Cart:    handlers.NewCartHandler(serviceset.Cart),
		Review:  handlers.NewReviewHandler(serviceset.Review),
	}
}
