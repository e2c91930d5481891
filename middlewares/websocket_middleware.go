package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostelcare/utils"
	"gorm.io/gorm"
)

// WebSocketAuthMiddleware authenticates websocket upgrades, which cannot
// carry an Authorization header from browsers, through the token query
// parameter.
func WebSocketAuthMiddleware(tokens *utils.TokenService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		user, status, err := authenticate(c, tokens, db, token)
		if err != nil {
			c.AbortWithStatus(status)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}
