package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostelcare/models"
	"github.com/yeremiapane/hostelcare/utils"
	"gorm.io/gorm"
)

const userKey = "user"

// bearerToken returns the token part of "Bearer <token>", or "" when the
// header has no token segment.
func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthMiddleware verifies the bearer token and attaches the signed-in user to
// the context. One user lookup per request, nothing is cached.
func AuthMiddleware(tokens *utils.TokenService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, utils.ErrUnauthorized)
			c.Abort()
			return
		}

		user, status, err := authenticate(c, tokens, db, token)
		if err != nil {
			utils.RespondError(c, status, err)
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

func authenticate(c *gin.Context, tokens *utils.TokenService, db *gorm.DB, token string) (*models.User, int, error) {
	userID, err := tokens.Verify(token)
	if err != nil {
		return nil, http.StatusUnauthorized, utils.ErrInvalidToken
	}

	var user models.User
	if err := db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// the account behind a still-valid token is gone
			return nil, http.StatusUnauthorized, utils.ErrInvalidToken
		}
		utils.ErrorLogger.Printf("Error loading user %d: %v", userID, err)
		return nil, http.StatusInternalServerError, utils.ErrServer
	}
	return &user, http.StatusOK, nil
}

// CurrentUser returns the user attached by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}
