package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pointdeck/pointdeck/internal/models"
)

// Identity headers. Authenticated callers send their user ID; anonymous
// callers mint a device-local ID once and keep sending it.
const (
	headerUserID = "X-User-ID"
	headerAnonID = "X-Anon-ID"
)

const identityKey = "identity"

// identityMiddleware resolves the caller identity once per request. Requests
// carrying neither header are rejected before reaching a handler.
func identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader(headerUserID); userID != "" {
			c.Set(identityKey, models.Identity{Kind: models.IdentityAuthenticated, UserID: userID})
			c.Next()
			return
		}

		if anonID := c.GetHeader(headerAnonID); anonID != "" {
			c.Set(identityKey, models.Identity{Kind: models.IdentityAnonymous, UserID: "anon-" + anonID})
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing identity header"})
	}
}

// callerIdentity returns the identity the middleware stored
func callerIdentity(c *gin.Context) models.Identity {
	identity, _ := c.Get(identityKey)
	id, _ := identity.(models.Identity)
	return id
}
