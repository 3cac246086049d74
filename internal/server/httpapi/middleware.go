package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/common"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/logging"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/auth"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
	"github.com/gin-gonic/gin"
)

// Context keys set by Auth for downstream handlers.
const (
	ctxClientID = "client_id"
	ctxTier     = "tier"
)

// Auth validates the access token and stores the client identity in the
// request context. The token may arrive either in the access_token header
// or as an Authorization bearer token.
func Auth(secretKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.GetHeader(common.AccessTokenHeaderName)
		if tokenStr == "" {
			header := c.GetHeader("Authorization")
			if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
			return
		}

		claims, err := auth.ParseToken(tokenStr, secretKey)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}

		c.Set(ctxClientID, claims.ClientID)
		c.Set(ctxTier, claims.Tier)
		c.Next()
	}
}

// RequireSuper rejects requests from non-super accounts. It must run after
// Auth.
func RequireSuper() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tierOf(c) != models.TierSuper {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "super tier required"})
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request with method, path, status and
// latency.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

func clientIDOf(c *gin.Context) string {
	return c.GetString(ctxClientID)
}

func tierOf(c *gin.Context) models.Tier {
	if v, ok := c.Get(ctxTier); ok {
		if tier, ok := v.(models.Tier); ok {
			return tier
		}
	}
	return models.TierFree
}
