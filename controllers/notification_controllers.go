package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostelcare/models"
	"github.com/yeremiapane/hostelcare/utils"
	"gorm.io/gorm"
)

var errNotificationNotFound = errors.New("Notification not found")

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GetMyNotifications lists the signed-in user's notifications, newest first.
func (nc *NotificationController) GetMyNotifications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	notifs := []models.Notification{}
	if err := nc.DB.WithContext(c.Request.Context()).
		Where("user_id = ?", user.ID).
		Order("created_at DESC").Order("id DESC").
		Find(&notifs).Error; err != nil {
		respondStoreError(c, err, errNotificationNotFound)
		return
	}

	utils.RespondJSON(c, http.StatusOK, notifs)
}

// MarkRead flags one of the signed-in user's notifications as read. Another
// user's notification is reported as not found.
func (nc *NotificationController) MarkRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}
	db := nc.DB.WithContext(c.Request.Context())

	var notif models.Notification
	if err := db.Where("user_id = ?", user.ID).First(&notif, id).Error; err != nil {
		respondStoreError(c, err, errNotificationNotFound)
		return
	}

	if !notif.Read {
		if err := db.Model(&notif).Update("read", true).Error; err != nil {
			respondStoreError(c, err, errNotificationNotFound)
			return
		}
		notif.Read = true
	}

	utils.RespondJSON(c, http.StatusOK, notif)
}
