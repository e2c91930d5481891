package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostelcare/middlewares"
	"github.com/yeremiapane/hostelcare/models"
	"github.com/yeremiapane/hostelcare/utils"
	"gorm.io/gorm"
)

// paramID parses the :id path parameter. On failure it writes a 400 and
// returns false.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, utils.ErrInvalidID)
		return 0, false
	}
	return uint(id), true
}

// currentUser returns the signed-in user or writes a 401.
func currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, utils.ErrUnauthorized)
		return nil, false
	}
	return user, true
}

// respondStoreError maps a failed lookup to 404 and anything else to 500.
func respondStoreError(c *gin.Context, err error, notFound error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusNotFound, notFound)
		return
	}
	utils.ErrorLogger.Printf("Store error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	utils.RespondError(c, http.StatusInternalServerError, utils.ErrServer)
}

// flexID is an id that clients may send as a JSON number or a numeric string,
// as form selects do.
type flexID uint

func (f *flexID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	raw = strings.TrimSpace(strings.Trim(raw, `"`))
	if raw == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s", data)
	}
	*f = flexID(v)
	return nil
}
