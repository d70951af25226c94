package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
	"github.com/mrkecom/mrkecom-backend/internal/services"
	"github.com/mrkecom/mrkecom-backend/internal/types"
)

const identityKey = "authIdentity"

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// RequireAuth verifies the bearer token and attaches the caller's identity
// to the request. Handlers pass that identity to services as explicit
// parameters; nothing downstream reaches back into the request for it.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		identity, err := am.authService.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireAdmin runs after RequireAuth on admin-only routes.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok || !identity.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (types.Identity, bool) {
	val, exists := c.Get(identityKey)
	if !exists {
		return types.Identity{}, false
	}
	identity, ok := val.(types.Identity)
	return identity, ok
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return c.Query("token")
}
