// Package middleware holds the gin middlewares: bearer-token authentication
// and request logging.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mukwano/agrotrack/internal/domain/models"
	"github.com/mukwano/agrotrack/internal/service/auth"
)

const callerKey = "caller"

// Authenticate verifies the Authorization bearer token and stores the
// resulting caller in the request context.
func Authenticate(jwtSecret string, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication token is missing"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header must be 'Bearer <token>'"})
			return
		}

		caller, err := auth.VerifyToken(jwtSecret, parts[1])
		if err != nil {
			logger.Warn("token verification failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired authentication token"})
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// CallerFrom extracts the authenticated caller stored by Authenticate.
func CallerFrom(c *gin.Context) (models.Caller, bool) {
	value, exists := c.Get(callerKey)
	if !exists {
		return models.Caller{}, false
	}
	caller, ok := value.(models.Caller)
	return caller, ok
}

// SetCaller injects a caller directly. Test helper.
func SetCaller(c *gin.Context, caller models.Caller) {
	c.Set(callerKey, caller)
}
