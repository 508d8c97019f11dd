package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"tour_chat/internal/config"
	"tour_chat/internal/domain"
	"tour_chat/pkg/jwt"
	"tour_chat/pkg/logger"
)

// AuthMiddleware проверяет уже выданный access-токен и кладёт
// (user_id, user_role) в контекст запроса. Выдачей токенов занимается
// внешний сервис аутентификации.
type AuthMiddleware struct {
	jwtCfg config.JWTConfig
	log    logger.Logger
}

func NewAuthMiddleware(jwtCfg config.JWTConfig, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtCfg: jwtCfg,
		log:    log,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(token, m.jwtCfg.AccessSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		// Роль нормализуется на границе, дальше по коду только 'USER'/'ADMIN'
		c.Set("user_role", domain.NormalizeRole(claims.Role))
		c.Next()
	}
}

// Браузерный WebSocket не умеет ставить заголовки, поэтому токен
// допускается и в query-параметре.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	return c.Query("token")
}
