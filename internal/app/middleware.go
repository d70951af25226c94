package app

import (
	"github.com/mrkecom/mrkecom-backend/internal/middleware"
	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, serviceset Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, serviceset.Auth),
	}
}
