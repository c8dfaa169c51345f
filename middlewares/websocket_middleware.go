package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/gastromanager/dashboard/utils"
)

// WebSocketAuthMiddleware authenticates the websocket handshake. The
// browser websocket API cannot set headers, so the token comes in as
// a query parameter.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("restaurant_id", claims.RestaurantID)

		c.Next()
	}
}
