package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"mobilemech/models"
	"mobilemech/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const identityKey = "identity"

// Auth resolves the caller from the Authorization header. A bearer equal to
// AdminToken is an admin; anything else must be a valid JWT.
type Auth struct {
	AdminToken string
}

// Optional attaches an identity when a valid token is present and lets
// anonymous requests through.
func (a Auth) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := a.identify(c); ok {
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

// Required rejects requests without a valid token.
func (a Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := a.identify(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Missing or invalid Authorization header"})
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// Admin rejects callers that are not admins.
func (a Auth) Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := a.identify(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Missing or invalid Authorization header"})
			return
		}
		if !id.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{Error: "Unauthorized admin access", Code: "Forbidden"})
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func (a Auth) identify(c *gin.Context) (models.Identity, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return models.Identity{}, false
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	if a.AdminToken != "" && subtle.ConstantTimeCompare([]byte(tokenString), []byte(a.AdminToken)) == 1 {
		return models.Identity{IsAdmin: true}, true
	}

	id, err := utils.IdentityFromToken(tokenString)
	if err != nil {
		utils.GetLogger().Debug("Rejected bearer token", zap.String("path", c.Request.URL.Path), zap.Error(err))
		return models.Identity{}, false
	}
	return id, true
}

// IdentityFrom returns the caller attached by Auth, or an anonymous identity.
func IdentityFrom(c *gin.Context) models.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(models.Identity); ok {
			return id
		}
	}
	return models.Identity{}
}
