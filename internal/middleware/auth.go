package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uhiportal/doctor-portal-api/internal/guard"
	"github.com/uhiportal/doctor-portal-api/internal/models"
	"github.com/uhiportal/doctor-portal-api/internal/utils"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		// Set user info in the context for handlers to use
		c.Set("userID", claims.UserID)
		c.Set("userRole", claims.Role)

		c.Next()
	}
}

// AdminOnly gates a route group on the admin role. Runs after
// AuthMiddleware; the decision itself lives in the guard package.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := &models.SessionUser{
			ID:   c.GetString("userID"),
			Role: models.Role(c.GetString("userRole")),
		}
		if d := guard.Decide(user, guard.AdminOnly); !d.Allow {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
