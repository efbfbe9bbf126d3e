package middleware

import (
	"net/http"
	"strings"

	"github.com/VanshChitransh/ConsultabidV1/internal/conf"
	"github.com/VanshChitransh/ConsultabidV1/internal/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuth validates the bearer token and resolves the caller's identity
// into the gin context, including whether the cooldown exemption applies.
// Privilege is a pure function of (email, config), recomputed per request.
func JWTAuth(cfg conf.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}

		claims, err := utils.ParseToken(cfg.JWTSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Set("privileged", cfg.IsPrivileged(claims.Email))

		c.Next()
	}
}
