package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

// WebhookAuth verifies the shared-secret JWT the chat provider signs
// its webhook calls with. HS256 only.
type WebhookAuth struct {
	log    *logger.Logger
	secret []byte
}

func NewWebhookAuth(log *logger.Logger, secret string) *WebhookAuth {
	return &WebhookAuth{
		log:    log.With("Middleware", "WebhookAuth"),
		secret: []byte(secret),
	}
}

func (wa *WebhookAuth) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(wa.secret) == 0 {
			// Auth not configured; local dev runs open.
			c.Next()
			return
		}
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		_, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return wa.secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			wa.log.Debug("webhook token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
