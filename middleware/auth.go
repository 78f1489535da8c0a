package middleware

import (
	"net/http"
	"strings"

	"erecipe-backend/models"
	"erecipe-backend/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware rejects requests without a valid bearer token and
// stores the claims on the context for downstream handlers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromRequest(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing token"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// OptionalAuthMiddleware populates claims when a token is present but
// lets anonymous requests through.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := claimsFromRequest(c); ok {
			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)
			c.Set("role", claims.Role)
		}
		c.Next()
	}
}

// AdminMiddleware requires an authenticated admin. Must run after
// AuthMiddleware or on its own; it re-parses the token either way.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromRequest(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing token"})
			return
		}
		if claims.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

func claimsFromRequest(c *gin.Context) (*utils.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}

	claims, err := utils.ValidateJWT(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, false
	}
	return claims, true
}
