package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/hostelcare/utils"
)

// Event types
const (
	EventComplaintCreated  = "complaint_created"
	EventComplaintResolved = "complaint_resolved"
	EventCleaningCreated   = "cleaning_created"
	EventCleaningAssigned  = "cleaning_assigned"
	EventCleaningStatus    = "cleaning_status"
)

const writeWait = 10 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	userID uint
	role   string
}

// Hub keeps the open websocket connections of signed-in users and pushes
// workflow events to them. The zero value is not usable, call New.
type Hub struct {
	clients map[*websocket.Conn]client
	mutex   sync.Mutex
}

func New() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]client)}
}

// Register adds a connection for the given user.
func (h *Hub) Register(conn *websocket.Conn, userID uint, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = client{userID: userID, role: role}
}

// Unregister drops the connection and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
	}
	conn.Close()
}

// Count returns the number of open connections.
func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// SendToUser delivers msg to every connection of userID.
func (h *Hub) SendToUser(userID uint, msg Message) {
	h.send(msg, func(c client) bool { return c.userID == userID })
}

// SendToRole delivers msg to every connection whose user has role.
func (h *Hub) SendToRole(role string, msg Message) {
	h.send(msg, func(c client) bool { return c.role == role })
}

func (h *Hub) send(msg Message, match func(client) bool) {
	if h == nil {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling %s message: %v", msg.Event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, c := range h.clients {
		if !match(c) {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending %s to user %d: %v", msg.Event, c.userID, err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
