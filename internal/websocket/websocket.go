package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/hackjudge/internal/logger"
	"github.com/abrezinsky/hackjudge/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	sendBuffer     = 256
	broadcastQueue = 64

	// recentAnnouncements is how many announcements a new client receives
	recentAnnouncements = 5
)

// MsgAnnouncements carries the latest announcements to a new client
const MsgAnnouncements = "announcements"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// AnnouncementLister provides announcements, newest first
type AnnouncementLister interface {
	List(ctx context.Context) ([]models.Announcement, error)
}

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	log           logger.Logger
	clients       map[*Client]bool
	broadcast     chan models.WSMessage
	register      chan *Client
	unregister    chan *Client
	done          chan struct{}
	mutex         sync.RWMutex
	announcements AnnouncementLister
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan models.WSMessage
}

// New creates a new Hub instance with injected dependencies
func New(log logger.Logger, announcements AnnouncementLister) *Hub {
	return &Hub{
		log:           log,
		clients:       make(map[*Client]bool),
		broadcast:     make(chan models.WSMessage, broadcastQueue),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		done:          make(chan struct{}),
		announcements: announcements,
	}
}

// Start begins the hub's main loop in a goroutine. The loop stops and
// disconnects every client when ctx is done.
func (h *Hub) Start(ctx context.Context) {
	go h.run(ctx)
}

// run handles client registration/unregistration and message broadcasting
func (h *Hub) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			h.log.Info("WebSocket hub stopped")
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client connected", "total_clients", total)

			// Catch the new client up on recent announcements
			go h.greet(ctx, client)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client disconnected", "total_clients", total)

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's send channel is full, unregister
					go func(c *Client) {
						select {
						case h.unregister <- c:
						case <-h.done:
						}
					}(client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// greet sends the latest announcements to a freshly connected client
func (h *Hub) greet(ctx context.Context, client *Client) {
	if h.announcements == nil {
		return
	}
	list, err := h.announcements.List(ctx)
	if err != nil {
		h.log.Warn("Failed to load announcements for new client", "error", err)
		return
	}
	if len(list) > recentAnnouncements {
		list = list[:recentAnnouncements]
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()
	if !h.clients[client] {
		return
	}
	select {
	case client.send <- models.WSMessage{Type: MsgAnnouncements, Payload: list}:
	default:
	}
}

// BroadcastMessage queues a message for all connected clients. It never
// blocks; when the queue is full the message is dropped.
func (h *Hub) BroadcastMessage(msgType string, payload interface{}) {
	select {
	case h.broadcast <- models.WSMessage{Type: msgType, Payload: payload}:
	default:
		h.log.Warn("Broadcast queue full, dropping message", "type", msgType)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			break
		}

		// Clients only listen; incoming messages are logged and dropped
		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.hub.log.Debug("Received message", "type", msg.Type)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.hub.log.Debug("WebSocket write failed", "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs handles websocket requests from clients
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan models.WSMessage, sendBuffer),
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	// Allow collection of memory referenced by the caller by doing all work in new goroutines
	go client.writePump()
	go client.readPump()
}
