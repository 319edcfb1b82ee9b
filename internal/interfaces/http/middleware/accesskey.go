package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quoteflow/backend/internal/infrastructure/config"
	"github.com/quoteflow/backend/internal/interfaces/http/dto"
	"golang.org/x/crypto/bcrypt"
)

// APIKeyHeader is the header carrying the access key
const APIKeyHeader = "X-API-Key"

// AccessKey returns a middleware that gates the API behind a single
// shared access key. The key is read from the X-API-Key header or an
// Authorization: Bearer token. When cfg.KeyHash is set it takes
// precedence over the plaintext cfg.Key and is verified with bcrypt;
// the plaintext comparison is constant-time either way.
func AccessKey(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		presented := extractKey(c)
		if presented == "" {
			unauthorized(c, "Access key required")
			return
		}

		if cfg.KeyHash != "" {
			if bcrypt.CompareHashAndPassword([]byte(cfg.KeyHash), []byte(presented)) != nil {
				unauthorized(c, "Invalid access key")
				return
			}
		} else if subtle.ConstantTimeCompare([]byte(presented), []byte(cfg.Key)) != 1 {
			unauthorized(c, "Invalid access key")
			return
		}

		c.Next()
	}
}

func extractKey(c *gin.Context) string {
	if key := c.GetHeader(APIKeyHeader); key != "" {
		return key
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

func unauthorized(c *gin.Context, message string) {
	requestID := c.GetString(RequestIDContextKey)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, requestID))
}
