package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/hostelcare/hub"
	"github.com/yeremiapane/hostelcare/middlewares"
	"github.com/yeremiapane/hostelcare/utils"
)

// RealtimeController streams workflow events to signed-in users.
type RealtimeController struct {
	Hub      *hub.Hub
	upgrader websocket.Upgrader
}

// NewRealtimeController accepts websocket upgrades from allowedOrigin. An
// empty origin or "*" accepts any origin.
func NewRealtimeController(h *hub.Hub, allowedOrigin string) *RealtimeController {
	return &RealtimeController{
		Hub: h,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "" || allowedOrigin == "*" || origin == allowedOrigin
			},
		},
	}
}

// Stream upgrades the request and keeps the connection registered until the
// client goes away. Must run after WebSocketAuthMiddleware.
func (rc *RealtimeController) Stream(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := rc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Websocket upgrade failed for user %d: %v", user.ID, err)
		return
	}

	rc.Hub.Register(ws, user.ID, user.Role)
	utils.InfoLogger.Printf("Websocket connected: user %d (%s)", user.ID, user.Role)

	// incoming frames are ignored, reading only detects the disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	rc.Hub.Unregister(ws)
	utils.InfoLogger.Printf("Websocket disconnected: user %d", user.ID)
}
