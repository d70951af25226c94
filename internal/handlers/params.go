package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mrkecom/mrkecom-backend/internal/middleware"
	"github.com/mrkecom/mrkecom-backend/internal/platform/apierr"
	"github.com/mrkecom/mrkecom-backend/internal/types"
)

func invalidBody() error {
	return apierr.Validation("invalid request body")
}

// callerIdentity reads the identity the auth middleware attached. The
// protected route groups guarantee it is present.
func callerIdentity(c *gin.Context) (types.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return types.Identity{}, apierr.Unauthorized("missing identity")
	}
	return identity, nil
}

func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, error) {
	raw := c.Param(name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apierr.Validation("invalid %s %q", name, raw)
	}
	return id, nil
}

func objectIDFromHex(raw, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apierr.Validation("invalid %s %q", what, raw)
	}
	return id, nil
}

func int64Query(c *gin.Context, name string, fallback int64) int64 {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return val
}
