package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostelcare/utils"
)

// RoleCheck lets the request through only when the signed-in user has one of
// roles. The allow-set is fixed when the route is registered. It must run
// after AuthMiddleware.
func RoleCheck(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, utils.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := allowed[user.Role]; !ok {
			utils.InfoLogger.Printf("Forbidden: user %d with role %q on %s %s", user.ID, user.Role, c.Request.Method, c.FullPath())
			utils.RespondError(c, http.StatusForbidden, utils.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
